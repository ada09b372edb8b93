// Package metrics exposes Prometheus instrumentation for the submission
// review surface.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the submission-level collectors. A nil *Metrics is valid and
// records nothing, so tests can skip wiring it.
type Metrics struct {
	submissionsCreated prometheus.Counter
	statusTransitions  *prometheus.CounterVec
	policyDenials      *prometheus.CounterVec
	storeDuration      *prometheus.HistogramVec
}

// New creates and registers the submission metrics on the default registerer.
func New() *Metrics {
	return &Metrics{
		submissionsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "kyckaro_submissions_created_total",
			Help: "Total number of KYC submissions created.",
		}),
		statusTransitions: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "kyckaro_status_transitions_total",
			Help: "Total number of submission status transitions, by target status.",
		}, []string{"status"}),
		policyDenials: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "kyckaro_policy_denials_total",
			Help: "Total number of access policy denials, by operation.",
		}, []string{"operation"}),
		storeDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "kyckaro_submission_store_duration_seconds",
			Help:    "Submission store operation latency.",
			Buckets: prometheus.DefBuckets,
		}, []string{"operation"}),
	}
}

func (m *Metrics) RecordSubmissionCreated() {
	if m == nil {
		return
	}
	m.submissionsCreated.Inc()
}

func (m *Metrics) RecordStatusTransition(status string) {
	if m == nil {
		return
	}
	m.statusTransitions.WithLabelValues(status).Inc()
}

func (m *Metrics) RecordPolicyDenial(operation string) {
	if m == nil {
		return
	}
	m.policyDenials.WithLabelValues(operation).Inc()
}

func (m *Metrics) ObserveStoreDuration(operation string, seconds float64) {
	if m == nil {
		return
	}
	m.storeDuration.WithLabelValues(operation).Observe(seconds)
}
