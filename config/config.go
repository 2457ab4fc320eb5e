package config

import (
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/kelseyhightower/envconfig"
	"go.uber.org/zap/zapcore"

	"github.com/Astemirdum/local-library/pkg/logger"
	"github.com/Astemirdum/local-library/pkg/postgres"
)

type HTTPServer struct {
	Host         string        `envconfig:"CATALOG_HTTP_HOST" default:"0.0.0.0"`
	Port         string        `envconfig:"CATALOG_HTTP_PORT" default:"8080"`
	ReadTimeout  time.Duration `envconfig:"HTTP_READ" default:"10s"`
	WriteTimeout time.Duration
	// RPS bounds requests per second per visitor.
	RPS float64 `envconfig:"HTTP_RPS" default:"20"`
}

type Config struct {
	Server   HTTPServer
	Database postgres.Config
	Log      logger.Log
	// Mode is "development" or "production"; error pages reveal detail
	// only in development.
	Mode string `envconfig:"APP_MODE" default:"production"`
}

func (c Config) Development() bool { return c.Mode == "development" }

var (
	once sync.Once
	cfg  Config
)

type Option func(*Config)

func WithLogLevel(level zapcore.Level) Option {
	return func(c *Config) {
		c.Log.LogLevel = level
	}
}

func WithWriteTimeout(d time.Duration) Option {
	return func(c *Config) {
		c.Server.WriteTimeout = d
	}
}

// NewConfig reads config from environment.
func NewConfig(ops ...Option) Config {
	once.Do(func() {
		var config Config
		for _, op := range ops {
			op(&config)
		}
		err := envconfig.Process("", &config)
		if err != nil {
			log.Fatal("NewConfig ", err)
		}
		cfg = config
		printConfig(cfg)
	})

	return cfg
}

func printConfig(cfg Config) {
	jscfg, _ := json.MarshalIndent(cfg, "", "	") //nolint:errcheck
	fmt.Println(string(jscfg))
}
