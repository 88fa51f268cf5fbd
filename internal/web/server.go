// Package web serves the job board pages and mounts the components on
// an Echo server.
package web

import (
	"crypto/rand"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/pthm/shiftview"
	shiftviewecho "github.com/pthm/shiftview/adapters/echo"
	"github.com/pthm/shiftview/internal/components"
	"github.com/pthm/shiftview/internal/config"
	"github.com/pthm/shiftview/lib/api"
	"github.com/pthm/shiftview/lib/paginate"
	"github.com/pthm/shiftview/lib/session"
)

// Server is the HTTP front end.
type Server struct {
	e      *echo.Echo
	set    *components.Set
	logger *slog.Logger
}

// Option configures New.
type Option func(*serverOptions)

type serverOptions struct {
	componentOpts []components.Option
}

// WithComponentOptions passes options through to components.Init.
func WithComponentOptions(opts ...components.Option) Option {
	return func(o *serverOptions) { o.componentOpts = append(o.componentOpts, opts...) }
}

// New builds the server. Empty keys in cfg are generated.
func New(cfg *config.Config, client *api.Client, store *session.Store, logger *slog.Logger, opts ...Option) (*Server, error) {
	var o serverOptions
	for _, opt := range opts {
		opt(&o)
	}

	propsKey, err := config.Key(cfg.Security.PropsKey, rand.Read)
	if err != nil {
		return nil, fmt.Errorf("props key: %w", err)
	}
	csrfKey, err := config.Key(cfg.Security.CSRFKey, rand.Read)
	if err != nil {
		return nil, fmt.Errorf("csrf key: %w", err)
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())
	e.Use(requestID())
	e.Use(requestLogger(logger))
	e.Use(securityHeaders)
	e.Use(echo.WrapMiddleware(session.Middleware(store, logger)))

	reg := shiftviewecho.Mount(e,
		shiftviewecho.WithKey(propsKey),
		shiftviewecho.WithRegistryOptions(
			shiftview.WithLoginURL(components.LoginURL),
			shiftview.WithLogger(logger),
		),
	)
	componentOpts := append([]components.Option{
		components.WithLogger(logger),
		components.WithCarouselInterval(cfg.Carousel.Interval.Std()),
		components.WithBreakpoints(paginate.Breakpoints{Tablet: cfg.Carousel.TabletBreakpoint}),
	}, o.componentOpts...)

	s := &Server{
		e:      e,
		set:    components.Init(reg, client, componentOpts...),
		logger: logger,
	}
	s.routes(csrfProtect(csrfKey, cfg.Security.SecureCookies, logger))
	return s, nil
}

func (s *Server) routes(protect echo.MiddlewareFunc) {
	s.e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok", "time": time.Now().UTC().Format(time.RFC3339)})
	})
	s.e.GET("/", s.home, protect)
	s.e.GET("/notices/:shop/:notice", s.notice, protect)
	s.e.GET("/shops/:shop", s.shop, protect)
	s.e.GET("/shops/:shop/notices/:notice/edit", s.editNotice, protect)
	s.e.GET("/users/:user", s.profile, protect)
	s.e.GET(components.LoginURL, s.login, protect)
	s.e.POST("/logout", s.logout, protect)
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.e
}

// NewHTTPServer wraps the handler with the timeouts from cfg.
func (s *Server) NewHTTPServer(cfg config.ServerConfig) *http.Server {
	return &http.Server{
		Addr:         cfg.Addr,
		Handler:      s.Handler(),
		ReadTimeout:  cfg.ReadTimeout.Std(),
		WriteTimeout: cfg.WriteTimeout.Std(),
		IdleTimeout:  cfg.IdleTimeout.Std(),
	}
}
