// Package server exposes one processing round over HTTP. Clients post
// declaration sources and receive the generated files together with the
// diagnostics of the round; nothing is written to disk.
package server

import (
	"context"
	"net/http"

	cerrors "github.com/cockroachdb/errors"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/bisgardo/reification/internal/reifier"
)

// DefaultBodyLimit bounds the size of posted sources
const DefaultBodyLimit = "2M"

// Options configures a server
type Options struct {
	Reifier   reifier.Options // defaults for every round; query parameters override some
	Format    string          // default output format
	BodyLimit string          // e.g. "2M", empty for DefaultBodyLimit
}

// Server is the HTTP playground
type Server struct {
	engine *echo.Echo
	logger *zap.Logger
	opts   Options
}

// New creates a server with its routes registered. A nil logger discards
// request logs.
func New(opts Options, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.BodyLimit == "" {
		opts.BodyLimit = DefaultBodyLimit
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	s := &Server{engine: e, logger: logger, opts: opts}
	e.HTTPErrorHandler = s.errorHandler

	e.Use(requestIDMiddleware())
	e.Use(loggingMiddleware(logger))
	e.Use(middleware.Recover())
	e.Use(middleware.BodyLimit(opts.BodyLimit))

	e.GET("/healthz", s.handleHealth)
	v1 := e.Group("/v1")
	v1.POST("/reify", s.handleReify)

	return s
}

// Handler returns the server as an http.Handler
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Start listens on addr until Shutdown is called
func (s *Server) Start(addr string) error {
	s.logger.Info("server listening", zap.String(FieldAddress, addr))
	if err := s.engine.Start(addr); err != nil && !cerrors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting requests and waits for active ones
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("server shutting down")
	return s.engine.Shutdown(ctx)
}
