package app

import (
	"context"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/Astemirdum/local-library/config"
	"github.com/Astemirdum/local-library/internal/handler"
	"github.com/Astemirdum/local-library/internal/repository"
	"github.com/Astemirdum/local-library/internal/server"
	"github.com/Astemirdum/local-library/internal/view"
	"github.com/Astemirdum/local-library/internal/workflow"
	"github.com/Astemirdum/local-library/migrations"
	"github.com/Astemirdum/local-library/pkg/logger"
	"github.com/Astemirdum/local-library/pkg/postgres"
)

func Run(cfg config.Config) {
	log := logger.NewLogger(cfg.Log, "catalog")
	db, err := postgres.NewPostgresDB(context.Background(), &cfg.Database, migrations.MigrationFiles)
	if err != nil {
		log.Fatal("db init", zap.Error(err))
	}
	repo := repository.NewRepository(db, log)

	wf := handler.Workflows{
		Home:         workflow.NewHome(repo, log),
		Author:       workflow.NewAuthor(repo, log),
		Genre:        workflow.NewGenre(repo, log),
		Book:         workflow.NewBook(repo, log),
		BookInstance: workflow.NewBookInstance(repo, log),
	}

	renderer, err := view.NewRenderer(cfg.Development())
	if err != nil {
		log.Fatal("templates", zap.Error(err))
	}

	h := handler.New(wf, cfg, log)
	srv := server.NewServer(cfg.Server, h.NewRouter(renderer))
	log.Info("http server start ON: ",
		zap.String("addr",
			net.JoinHostPort(cfg.Server.Host, cfg.Server.Port)))
	go func() {
		if err := srv.Run(); err != nil {
			log.Error("server run", zap.Error(err))
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)
	termSig := <-sig

	log.Debug("Graceful shutdown", zap.Any("signal", termSig))

	closeCtx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	if err = srv.Stop(closeCtx); err != nil {
		log.DPanic("srv.Stop", zap.Error(err))
	}
	db.Close()
	log.Info("Graceful shutdown finished")
}
