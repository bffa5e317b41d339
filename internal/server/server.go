// Package server implements the memorytree HTTP viewer.
//
// Every request runs the pipeline from scratch with the configured options,
// optionally overridden by query parameters:
//
//	GET /                 HTML page embedding the interactive SVG
//	GET /svg              the SVG alone
//	GET /api/layout       positioned layout as JSON
//	GET /api/tree         assembled tree as JSON
//	GET /metrics          Prometheus metrics (if a gatherer is configured)
//	GET /healthz          liveness probe
//
// Recognised query parameters: layout, palette, width, height, margin,
// angle_span, spread, jitter, seed. Every response carries the run ID in the
// X-Run-ID header; X-Degraded is set when the source could not be read.
package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/matzehuels/memorytree/pkg/pipeline"
)

// DefaultAddr is the listen address when none is configured.
const DefaultAddr = "127.0.0.1:8080"

// Config holds server configuration.
type Config struct {
	Addr     string
	Options  pipeline.Options    // base pipeline options for every request
	Gatherer prometheus.Gatherer // nil disables /metrics
	AllowAll bool                // allow all CORS origins
	Logger   *log.Logger
}

// Server serves the viewer and JSON endpoints.
type Server struct {
	cfg        Config
	runner     *pipeline.Runner
	router     chi.Router
	httpServer *http.Server
}

// New creates a server. It does not start listening.
func New(cfg Config) *Server {
	if cfg.Addr == "" {
		cfg.Addr = DefaultAddr
	}
	if cfg.Logger == nil {
		cfg.Logger = log.Default()
	}
	s := &Server{
		cfg:    cfg,
		runner: pipeline.NewRunner(cfg.Logger),
	}
	s.router = s.buildRouter()
	return s
}

// buildRouter creates and configures the chi router with all routes.
func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)

	corsOpts := cors.Options{
		AllowedOrigins: []string{"http://localhost:*", "http://127.0.0.1:*"},
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		ExposedHeaders: []string{"X-Run-ID", "X-Degraded"},
		MaxAge:         300,
	}
	if s.cfg.AllowAll {
		corsOpts.AllowedOrigins = []string{"*"}
	}
	r.Use(cors.Handler(corsOpts))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Get("/", s.handleViewer)
	r.Get("/svg", s.handleArtifact(pipeline.FormatSVG, "image/svg+xml"))
	r.Route("/api", func(r chi.Router) {
		r.Get("/layout", s.handleArtifact(pipeline.FormatJSON, "application/json"))
		r.Get("/tree", s.handleArtifact(pipeline.FormatTree, "application/json"))
	})

	if s.cfg.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(s.cfg.Gatherer, promhttp.HandlerOpts{}))
	}

	return r
}

// Handler returns the router, for tests and embedding.
func (s *Server) Handler() http.Handler { return s.router }

// Addr returns the configured listen address.
func (s *Server) Addr() string { return s.cfg.Addr }

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	s.httpServer = &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      2 * time.Minute,
		IdleTimeout:       2 * time.Minute,
		BaseContext:       func(_ net.Listener) context.Context { return ctx },
	}

	errc := make(chan error, 1)
	go func() {
		s.cfg.Logger.Info("viewer listening", "addr", s.cfg.Addr)
		errc <- s.httpServer.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.cfg.Logger.Info("shutting down viewer")
		return s.httpServer.Shutdown(shutdownCtx)
	}
}

// requestLogger logs one line per request with the charm logger.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.cfg.Logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start).Round(time.Microsecond),
			"request_id", middleware.GetReqID(r.Context()))
	})
}
