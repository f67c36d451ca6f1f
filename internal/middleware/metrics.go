package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const metricsNamespace = "geo_gap_compass"

// Metrics holds the Prometheus collectors of the service.
type Metrics struct {
	RequestsTotal      *prometheus.CounterVec
	RequestDuration    *prometheus.HistogramVec
	RequestsInProgress prometheus.Gauge
	CompletionsTotal   *prometheus.CounterVec
	CompletionDuration *prometheus.HistogramVec

	gatherer prometheus.Gatherer
}

// NewMetrics creates and registers all collectors on reg.
func NewMetrics(reg *prometheus.Registry) *Metrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	factory := promauto.With(reg)

	return &Metrics{
		RequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests",
		}, []string{"method", "route", "status"}),
		RequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		RequestsInProgress: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Subsystem: "http",
			Name:      "requests_in_progress",
			Help:      "Number of HTTP requests being served",
		}),
		CompletionsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "ai",
			Name:      "completions_total",
			Help:      "Completions by provider and outcome",
		}, []string{"provider", "outcome"}),
		CompletionDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Subsystem: "ai",
			Name:      "completion_duration_seconds",
			Help:      "Completion latency in seconds",
			Buckets:   prometheus.ExponentialBuckets(0.05, 2, 12),
		}, []string{"provider"}),
		gatherer: reg,
	}
}

// Middleware tracks request metrics, labelled by chi route pattern.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		m.RequestsInProgress.Inc()
		defer m.RequestsInProgress.Dec()

		wrapped := wrapWriter(w)
		next.ServeHTTP(wrapped, r)

		route := "unmatched"
		if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
			route = rc.RoutePattern()
		}
		m.RequestsTotal.WithLabelValues(r.Method, route, strconv.Itoa(wrapped.statusCode)).Inc()
		m.RequestDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}

// ObserveCompletion records one completion attempt.
func (m *Metrics) ObserveCompletion(provider, outcome string, elapsed time.Duration) {
	m.CompletionsTotal.WithLabelValues(provider, outcome).Inc()
	m.CompletionDuration.WithLabelValues(provider).Observe(elapsed.Seconds())
}

// Handler exposes the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}
