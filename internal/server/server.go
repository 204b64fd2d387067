// Package server implements the classcanvas HTTP render service.
//
// The service accepts source files as multipart uploads and responds with
// rendered class diagrams. It exposes:
//
//	POST /api/parse   - parse sources, respond with the diagram as JSON
//	POST /api/render  - parse, lay out, and render; respond with the artifact
//	GET  /healthz     - liveness probe
//	GET  /version     - build information
//
// Every request carries a generated request ID, surfaced in logs and in
// the X-Request-ID response header.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"

	"github.com/classcanvas/classcanvas/pkg/layout"
	"github.com/classcanvas/classcanvas/pkg/pipeline"
	"github.com/classcanvas/classcanvas/pkg/render"
)

// Config configures the render service.
type Config struct {
	Addr   string
	Runner *pipeline.Runner
	Layout layout.Config
	Theme  render.Theme
	Logger *log.Logger

	// MaxUploadBytes bounds the multipart form size. Zero means the
	// default of 8 MiB.
	MaxUploadBytes int64
}

const defaultMaxUploadBytes = 8 << 20

// Server is the HTTP render service.
type Server struct {
	cfg    Config
	logger *log.Logger
	router chi.Router
}

// New creates the service with its routes registered.
func New(cfg Config) *Server {
	if cfg.Logger == nil {
		cfg.Logger = log.Default()
	}
	if cfg.Runner == nil {
		cfg.Runner = pipeline.NewRunner(nil, nil, cfg.Logger)
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = defaultMaxUploadBytes
	}

	s := &Server{cfg: cfg, logger: cfg.Logger}

	r := chi.NewRouter()
	r.Use(s.requestID)
	r.Use(s.logRequests)

	r.Get("/healthz", s.handleHealth)
	r.Get("/version", s.handleVersion)
	r.Route("/api", func(r chi.Router) {
		r.Post("/parse", s.handleParse)
		r.Post("/render", s.handleRender)
	})

	s.router = r
	return s
}

// Handler exposes the routed handler, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves until the context is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		s.logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
