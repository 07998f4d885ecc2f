package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the service collectors. Each Metrics owns its registry so
// tests can build independent instances.
type Metrics struct {
	registry *prometheus.Registry

	// QueryDuration is the latency of store statements by statement name.
	QueryDuration *prometheus.HistogramVec
	// QueryErrors counts failed store statements by statement name.
	QueryErrors *prometheus.CounterVec
	// Requests counts HTTP requests by method and status code.
	Requests *prometheus.CounterVec
}

// NewMetrics registers the service collectors, plus the Go runtime and
// process collectors, on a fresh registry.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	f := promauto.With(reg)

	return &Metrics{
		registry: reg,
		QueryDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "backoffice_query_duration_seconds",
				Help:    "Store statement latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"statement"},
		),
		QueryErrors: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "backoffice_query_errors_total",
				Help: "Total number of failed store statements",
			},
			[]string{"statement"},
		),
		Requests: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "backoffice_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "status"},
		),
	}
}

// Registry returns the registry the collectors live on.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler returns the Prometheus HTTP handler for /metrics.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
