// Package server собирает HTTP API поставщика: маршруты, middleware и
// жизненный цикл http.Server.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/iudanet/bulletinmirror/internal/server/handlers"
	"github.com/iudanet/bulletinmirror/internal/server/middleware"
)

const (
	healthPath      = "/api/v1/health"
	shutdownTimeout = 10 * time.Second
)

// Options задает параметры HTTP сервера
type Options struct {
	Verify         middleware.TokenVerifier
	Addr           string
	RateLimit      int
	RateWindow     time.Duration
	HandlerTimeout time.Duration
}

// Server is the supplier-facing HTTP server.
type Server struct {
	httpServer *http.Server
	limiter    *middleware.RateLimiter
	logger     *slog.Logger
}

// New creates a server for the given handlers.
func New(opts Options, mirrorHandler *handlers.MirrorHandler, health *handlers.HealthHandler, logger *slog.Logger) *Server {
	logger = logger.With("component", "http")
	if opts.RateWindow <= 0 {
		opts.RateWindow = time.Minute
	}
	if opts.RateLimit <= 0 {
		opts.RateLimit = 600
	}
	if opts.HandlerTimeout <= 0 {
		opts.HandlerTimeout = 30 * time.Second
	}

	limiter := middleware.NewRateLimiter(opts.RateLimit, opts.RateWindow, logger)

	return &Server{
		httpServer: &http.Server{
			Addr:              opts.Addr,
			Handler:           NewRouter(opts, mirrorHandler, health, limiter, logger),
			ReadHeaderTimeout: 10 * time.Second,
			WriteTimeout:      opts.HandlerTimeout + 5*time.Second,
			IdleTimeout:       2 * time.Minute,
		},
		limiter: limiter,
		logger:  logger,
	}
}

// NewRouter builds the chi router with middleware chain:
// logging -> recovery -> (peer auth -> rate limit -> timeout) -> handlers.
func NewRouter(
	opts Options,
	mirrorHandler *handlers.MirrorHandler,
	health *handlers.HealthHandler,
	limiter *middleware.RateLimiter,
	logger *slog.Logger,
) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.LoggingWithSkip(logger, []string{healthPath}))
	r.Use(middleware.RecoveryMiddleware(logger))
	r.NotFound(handlers.NotFound(logger))
	r.MethodNotAllowed(handlers.MethodNotAllowed(logger))

	r.Get(healthPath, health.Health)

	r.Group(func(r chi.Router) {
		r.Use(middleware.PeerAuthMiddleware(logger, opts.Verify))
		r.Use(middleware.RateLimitMiddleware(limiter, logger))
		if opts.HandlerTimeout > 0 {
			r.Use(chimw.Timeout(opts.HandlerTimeout))
		}
		mirrorHandler.RegisterRoutes(r)
	})

	return r
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Run serves on ln until ctx is cancelled, then shuts down gracefully.
// A nil ln means listening on the configured address.
func (s *Server) Run(ctx context.Context, ln net.Listener) error {
	defer s.limiter.Stop()

	if ln == nil {
		var err error
		ln, err = net.Listen("tcp", s.httpServer.Addr)
		if err != nil {
			return fmt.Errorf("failed to listen on %s: %w", s.httpServer.Addr, err)
		}
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("HTTP server listening", "addr", ln.Addr().String())
		errCh <- s.httpServer.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("http server failed: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	s.logger.Info("Shutting down HTTP server")
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shutdown http server: %w", err)
	}
	return nil
}
