// Package admin exposes the side-channel HTTP surface: health and Prometheus
// metrics. It runs on its own listener, independent of the TCP cache
// protocol, and shares no locks with the cache/storage hot path.
package admin

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/H2Owater425/dqache/internal/logger"
	"github.com/H2Owater425/dqache/internal/metrics"
)

// Server is the admin HTTP server.
type Server struct {
	framework *echo.Echo
	address   string
}

// Option configures a Server.
type Option func(*Server)

// New builds an admin Server backed by echo, exposing GET /healthz and
// GET /metrics (the latter served by reg's registry handler).
func New(reg *metrics.Registry, opts ...Option) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())

	server := &Server{framework: e, address: ":9090"}
	for _, opt := range opts {
		opt(server)
	}

	e.GET("/healthz", handleHealthz)
	e.GET("/metrics", echo.WrapHandler(reg.Handler()))

	return server
}

// WithAddress sets the listen address (host:port).
func WithAddress(address string) Option {
	return func(s *Server) { s.address = address }
}

// WithLogger routes echo's internal logging through l.
func WithLogger(l logger.ILogger) Option {
	return func(s *Server) { s.framework.Logger = &echoLogger{ILogger: l} }
}

// Start blocks serving HTTP until the listener fails or Shutdown is called.
func (s *Server) Start() error {
	//nolint:wrapcheck // callers want echo's ErrServerClosed distinguishable
	return s.framework.Start(s.address)
}

// Shutdown gracefully stops the server, honoring ctx's deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	//nolint:wrapcheck
	return s.framework.Shutdown(ctx)
}

func handleHealthz(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}
