// Package server implements the timeid HTTP service.
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
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/eykd/timeid-go/internal/metrics"
	"github.com/eykd/timeid-go/pkg/timeid"
)

// DefaultMaxBatch caps the count parameter when no limit is configured.
const DefaultMaxBatch = 1000

// Generator is the subset of *timeid.Generator used by the server.
type Generator interface {
	Generate() string
	Reseed() error
	Stats() timeid.Stats
}

// Server serves IDs over HTTP.
type Server struct {
	gen      Generator
	maxBatch int
	logger   *slog.Logger
	registry *prometheus.Registry
	metrics  *metrics.HTTP
	router   chi.Router
}

// Option is a functional option for configuring the Server.
type Option func(*Server)

// WithMaxBatch sets the largest count accepted by GET /v1/ids.
func WithMaxBatch(n int) Option {
	return func(s *Server) { s.maxBatch = n }
}

// WithLogger sets the request logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) { s.logger = l }
}

// WithRegistry sets the Prometheus registry served at /metrics. The
// generator and request metrics are registered with it.
func WithRegistry(reg *prometheus.Registry) Option {
	return func(s *Server) { s.registry = reg }
}

// New creates a Server around gen and wires up its routes.
func New(gen Generator, opts ...Option) *Server {
	s := &Server{
		gen:      gen,
		maxBatch: DefaultMaxBatch,
		logger:   slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.maxBatch < 1 {
		s.maxBatch = DefaultMaxBatch
	}
	if s.registry == nil {
		s.registry = prometheus.NewRegistry()
	}
	s.metrics = metrics.Register(s.registry, gen)

	s.setupRouter()
	return s
}

// setupRouter configures all routes.
func (s *Server) setupRouter() {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.instrument)

	r.Get("/healthz", s.handleHealth)
	r.Handle("/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))

	r.Route("/v1", func(r chi.Router) {
		r.Get("/ids", s.handleGenerate)
		r.Get("/ids/{id}", s.handleInspect)
		r.Get("/bounds", s.handleBounds)
		r.Post("/reseed", s.handleReseed)
	})

	s.router = r
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves on addr until ctx ends, then shuts down gracefully, giving
// in-flight requests up to grace to complete.
func (s *Server) Run(ctx context.Context, addr string, grace time.Duration) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", addr, err)
	}
	srv := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() { errc <- srv.Serve(ln) }()
	s.logger.Info("listening", slog.String("addr", ln.Addr().String()))

	select {
	case err := <-errc:
		return fmt.Errorf("serving: %w", err)
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), grace)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down: %w", err)
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serving: %w", err)
	}
	return nil
}
