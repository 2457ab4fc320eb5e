package handler

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/Astemirdum/local-library/config"
	md "github.com/Astemirdum/local-library/pkg/middleware"

	"github.com/Astemirdum/local-library/internal/model"
	"github.com/Astemirdum/local-library/internal/view"
	"github.com/Astemirdum/local-library/internal/workflow"
)

// Workflows bundles the per-entity engines the router dispatches to.
type Workflows struct {
	Home         *workflow.Home
	Author       *workflow.Engine[model.Author]
	Genre        *workflow.Engine[model.Genre]
	Book         *workflow.Engine[model.Book]
	BookInstance *workflow.Engine[model.BookInstance]
}

type Handler struct {
	wf  Workflows
	cfg config.Config
	log *zap.Logger
}

func New(wf Workflows, cfg config.Config, log *zap.Logger) *Handler {
	return &Handler{
		wf:  wf,
		cfg: cfg,
		log: log,
	}
}

func (h *Handler) NewRouter(renderer echo.Renderer) *echo.Echo {
	e := echo.New()
	e.Renderer = renderer
	e.HTTPErrorHandler = h.errorHandler

	e.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{
		StackSize: 4 << 10, // 4 KB
	}))
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodHead, http.MethodOptions},
	}))
	e.Use(middleware.SecureWithConfig(middleware.SecureConfig{
		XSSProtection:         "1; mode=block",
		ContentTypeNosniff:    "nosniff",
		XFrameOptions:         "SAMEORIGIN",
		ContentSecurityPolicy: "script-src 'self' code.jquery.com cdn.jsdelivr.net",
	}))
	e.Use(middleware.RequestID())
	e.Use(middleware.RequestLoggerWithConfig(md.RequestLoggerConfig(h.log)))
	e.Use(md.NewRateLimiter(rate.Limit(h.cfg.Server.RPS)))

	e.GET("/", func(c echo.Context) error {
		return c.Redirect(http.StatusFound, "/catalog")
	})
	e.GET("/manage/health", h.Health)

	catalog := e.Group("/catalog")
	catalog.GET("", h.Index)

	registerEntity(catalog, "author", "Author", h.wf.Author)
	registerEntity(catalog, "genre", "Genre", h.wf.Genre)
	registerEntity(catalog, "book", "Book", h.wf.Book)
	registerEntity(catalog, "bookinstance", "Book copy", h.wf.BookInstance)

	return e
}

func (h *Handler) Health(c echo.Context) error {
	return c.String(http.StatusOK, "OK")
}

func (h *Handler) Index(c echo.Context) error {
	return respond(c, h.wf.Home.Index(c.Request().Context()), "Page")
}

// registerEntity wires the eight workflow routes one entity exposes.
// The create routes must come before the id routes.
func registerEntity[T any](g *echo.Group, name, label string, e *workflow.Engine[T]) {
	g.GET("/"+name+"s", func(c echo.Context) error {
		return respond(c, e.List(c.Request().Context()), label)
	})
	g.GET("/"+name+"/create", func(c echo.Context) error {
		return respond(c, e.CreateForm(c.Request().Context()), label)
	})
	g.POST("/"+name+"/create", func(c echo.Context) error {
		form, err := c.FormParams()
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		return respond(c, e.Create(c.Request().Context(), form), label)
	})
	g.GET("/"+name+"/:id", func(c echo.Context) error {
		return respond(c, e.Detail(c.Request().Context(), c.Param("id")), label)
	})
	g.GET("/"+name+"/:id/update", func(c echo.Context) error {
		return respond(c, e.UpdateForm(c.Request().Context(), c.Param("id")), label)
	})
	g.POST("/"+name+"/:id/update", func(c echo.Context) error {
		form, err := c.FormParams()
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		return respond(c, e.Update(c.Request().Context(), c.Param("id"), form), label)
	})
	g.GET("/"+name+"/:id/delete", func(c echo.Context) error {
		return respond(c, e.ConfirmDelete(c.Request().Context(), c.Param("id")), label)
	})
	g.POST("/"+name+"/:id/delete", func(c echo.Context) error {
		return respond(c, e.ConfirmedDelete(c.Request().Context(), c.Param("id")), label)
	})
}

// respond translates a workflow outcome into the HTTP response.
func respond(c echo.Context, out workflow.Outcome, label string) error {
	switch out.Kind {
	case workflow.KindRendered:
		return c.Render(http.StatusOK, out.Template, out.Data)
	case workflow.KindRedirected:
		return c.Redirect(http.StatusSeeOther, out.Location)
	case workflow.KindNotFound:
		return echo.NewHTTPError(http.StatusNotFound, label+" not found")
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, out.Err.Error())
	}
}

// errorHandler is the rendering boundary for everything the workflows
// did not recover: it shows a status-appropriate page, with error detail
// only outside production mode.
func (h *Handler) errorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	code := http.StatusInternalServerError
	message := http.StatusText(code)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		code = he.Code
		message = fmt.Sprint(he.Message)
	}
	data := view.Data{
		"title":   "Error",
		"status":  code,
		"message": message,
	}
	if h.cfg.Development() {
		data["detail"] = err.Error()
	}
	if rerr := c.Render(code, "error", data); rerr != nil {
		h.log.Error("render error page", zap.Error(rerr))
		_ = c.NoContent(code)
	}
}
