package monitoring

import (
	"net/http"
	"strconv"
	"time"

	"github.com/alchemorsel/personalization/internal/ports/outbound"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector handles Prometheus metrics collection
type Collector struct {
	registry *prometheus.Registry

	// HTTP metrics
	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Personalization metrics
	recommendationsTotal *prometheus.CounterVec
	rerankOutcomesTotal  *prometheus.CounterVec
	rerankDuration       prometheus.Histogram
	feedbackTotal        *prometheus.CounterVec
	alignmentScore       *prometheus.HistogramVec
}

var _ outbound.PersonalizationMetrics = (*Collector)(nil)

// NewCollector registers all metrics on a fresh registry
func NewCollector() *Collector {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(registry)

	return &Collector{
		registry: registry,

		httpRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "route", "status_code"},
		),
		httpRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),

		recommendationsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "personalization_recommendations_total",
				Help: "Recommendations delivered, by ranking source",
			},
			[]string{"source"},
		),
		rerankOutcomesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "personalization_rerank_outcomes_total",
				Help: "LLM rerank attempts by outcome and reason",
			},
			[]string{"outcome", "reason"},
		),
		rerankDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "personalization_rerank_duration_seconds",
				Help:    "LLM rerank duration in seconds",
				Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 20},
			},
		),
		feedbackTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "personalization_feedback_total",
				Help: "Feedback events recorded, by action",
			},
			[]string{"action"},
		),
		alignmentScore: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "personalization_alignment_score",
				Help:    "Average goal alignment score per evaluation",
				Buckets: prometheus.LinearBuckets(0, 10, 11),
			},
			[]string{"sample"},
		),
	}
}

// ObserveRecommendations counts delivered recommendations
func (c *Collector) ObserveRecommendations(source string, delivered int) {
	c.recommendationsTotal.WithLabelValues(source).Add(float64(delivered))
}

// ObserveRerank records one rerank attempt
func (c *Collector) ObserveRerank(outcome, reason string, duration time.Duration) {
	c.rerankOutcomesTotal.WithLabelValues(outcome, reason).Inc()
	c.rerankDuration.Observe(duration.Seconds())
}

// ObserveFeedback counts one feedback event
func (c *Collector) ObserveFeedback(action string) {
	c.feedbackTotal.WithLabelValues(action).Inc()
}

// ObserveAlignment records an alignment average
func (c *Collector) ObserveAlignment(score float64, usedFallback bool) {
	sample := "engaged"
	if usedFallback {
		sample = "recent"
	}
	c.alignmentScore.WithLabelValues(sample).Observe(score)
}

// HTTPMiddleware records request counts and latency by route pattern
func (c *Collector) HTTPMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}

		c.httpRequestsTotal.WithLabelValues(r.Method, route, strconv.Itoa(status)).Inc()
		c.httpRequestDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}

// Handler returns the Prometheus metrics HTTP handler
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// Registry exposes the underlying registry
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}
