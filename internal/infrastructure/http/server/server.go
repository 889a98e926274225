// Package server provides the HTTP server for the personalization API
package server

import (
	"context"
	"fmt"
	"net/http"

	"github.com/alchemorsel/personalization/internal/infrastructure/config"
	"github.com/alchemorsel/personalization/internal/infrastructure/http/handlers"
	"github.com/alchemorsel/personalization/internal/infrastructure/http/middleware"
	"github.com/alchemorsel/personalization/internal/infrastructure/http/render"
	"github.com/alchemorsel/personalization/internal/infrastructure/monitoring"
	apperrors "github.com/alchemorsel/personalization/pkg/errors"
	"github.com/alchemorsel/personalization/pkg/healthcheck"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
	"golang.org/x/net/http2"
)

// Server represents the HTTP server
type Server struct {
	config    *config.Config
	logger    *zap.Logger
	router    *chi.Mux
	server    *http.Server
	handlers  *handlers.PersonalizationHandlers
	health    *healthcheck.HealthCheck
	collector *monitoring.Collector
	limiter   *middleware.RateLimiter
}

// NewServer creates a new HTTP server instance. limiter may be nil when
// rate limiting is disabled.
func NewServer(
	cfg *config.Config,
	logger *zap.Logger,
	h *handlers.PersonalizationHandlers,
	health *healthcheck.HealthCheck,
	collector *monitoring.Collector,
	limiter *middleware.RateLimiter,
) *Server {
	s := &Server{
		config:    cfg,
		logger:    logger.Named("server"),
		handlers:  h,
		health:    health,
		collector: collector,
		limiter:   limiter,
	}

	s.router = s.setupRouter()

	var handler http.Handler = s.router
	if cfg.Monitoring.EnableTracing {
		handler = otelhttp.NewHandler(s.router, "personalization",
			otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
				return r.Method + " " + r.URL.Path
			}),
		)
	}

	s.server = &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           handler,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
		ReadHeaderTimeout: cfg.Server.ReadTimeout,
		MaxHeaderBytes:    cfg.Server.MaxHeaderBytes,
	}

	return s
}

// setupRouter configures the HTTP router with middleware and routes
func (s *Server) setupRouter() *chi.Mux {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logger(s.logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.Security())
	r.Use(middleware.CORS())
	r.Use(chimiddleware.Compress(5, "application/json"))
	if s.collector != nil {
		r.Use(s.collector.HTTPMiddleware)
	}

	if s.config.Server.WriteTimeout > 0 {
		r.Use(chimiddleware.Timeout(s.config.Server.WriteTimeout))
	}

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		render.Error(w, r, s.logger, apperrors.NewNotFoundError("route"))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		render.Error(w, r, s.logger, apperrors.NewBadRequestError("Method not allowed"))
	})

	// Health
	r.Get("/health", s.health.Handler())
	r.Get("/health/live", s.health.LivenessHandler())
	r.Get("/health/ready", s.health.ReadinessHandler())

	if s.config.Monitoring.EnableMetrics && s.collector != nil {
		r.Handle("/metrics", s.collector.Handler())
	}

	r.Route("/api/v1", func(r chi.Router) {
		if s.limiter != nil {
			r.Use(s.limiter.Middleware)
		}
		s.handlers.Routes(r)
	})

	return r
}

// Handler returns the root handler, for tests
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

// Start starts the HTTP server and blocks until it stops
func (s *Server) Start() error {
	s.logger.Info("Starting HTTP server",
		zap.String("address", s.server.Addr),
		zap.String("environment", s.config.App.Environment),
	)

	if s.config.Server.EnableHTTP2 {
		if err := http2.ConfigureServer(s.server, nil); err != nil {
			s.logger.Error("Failed to configure HTTP/2", zap.Error(err))
		}
	}

	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down HTTP server")
	if s.limiter != nil {
		s.limiter.Stop()
	}
	return s.server.Shutdown(ctx)
}
