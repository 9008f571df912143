// Package server provides the HTTP API for storefront listings.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/hyperjump/storefront/internal/catalog"
	"github.com/hyperjump/storefront/internal/config"
	"github.com/hyperjump/storefront/internal/metrics"
	"github.com/hyperjump/storefront/internal/pipeline"
)

// Server is the HTTP server for the storefront API.
type Server struct {
	catalog  *catalog.Catalog
	pipeline *pipeline.Pipeline
	config   *config.ServerConfig
	logger   *zap.Logger
	server   *http.Server
}

// NewServer creates a server with the given dependencies.
func NewServer(
	cat *catalog.Catalog,
	p *pipeline.Pipeline,
	cfg *config.ServerConfig,
	logger *zap.Logger,
) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		catalog:  cat,
		pipeline: p,
		config:   cfg,
		logger:   logger,
	}
}

// Handler builds the router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(middleware.Compress(5))
	r.Use(metrics.Middleware())

	r.Get("/health", s.handleHealth)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1/collections", func(r chi.Router) {
		r.Get("/", s.handleCollections)
		r.Get("/{name}/items", s.handleItems)
		r.Get("/{name}/categories", s.handleCategories)
		r.Post("/{name}/reload", s.handleReload)
	})
	return r
}

// Start starts the HTTP server and blocks until it stops.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	s.server = &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.logger.Info("Starting server", zap.String("addr", addr))
	return s.server.ListenAndServe()
}

// Stop gracefully shuts down the server.
func (s *Server) Stop(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}
