package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the transport-level Prometheus metrics for the application.
type Metrics struct {
	RequestLatency *prometheus.HistogramVec
	RequestsTotal  *prometheus.CounterVec
}

// New creates and registers the transport metrics.
func New() *Metrics {
	return &Metrics{
		RequestLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "kyckaro_http_request_duration_seconds",
			Help:    "HTTP request latency by route and status code.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route", "code"}),
		RequestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "kyckaro_http_requests_total",
			Help: "Total HTTP requests by route and status code.",
		}, []string{"route", "code"}),
	}
}

// ObserveRequest records one completed HTTP request.
func (m *Metrics) ObserveRequest(route, code string, seconds float64) {
	if m == nil {
		return
	}
	m.RequestLatency.WithLabelValues(route, code).Observe(seconds)
	m.RequestsTotal.WithLabelValues(route, code).Inc()
}
