package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for program audits.
type Metrics struct {
	// Audit outcomes by program kind and root status
	AuditOutcome *prometheus.CounterVec

	// Audit latency by program kind
	AuditLatency *prometheus.HistogramVec

	// Size of the submitted record
	RecordSize prometheus.Histogram
}

// New creates a new Metrics instance with all audit metrics registered.
func New() *Metrics {
	return &Metrics{
		AuditOutcome: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "degreeaudit_audit_outcomes_total",
			Help: "Total audits by program kind and root status",
		}, []string{"kind", "status"}),

		AuditLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "degreeaudit_audit_duration_seconds",
			Help:    "Duration of a single program audit including catalog lookups",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}, []string{"kind"}),

		RecordSize: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "degreeaudit_audit_record_items",
			Help:    "Number of completed items submitted per audit",
			Buckets: prometheus.LinearBuckets(0, 10, 8),
		}),
	}
}

// IncrementOutcome records an audit outcome.
func (m *Metrics) IncrementOutcome(kind, status string) {
	if m != nil {
		m.AuditOutcome.WithLabelValues(kind, status).Inc()
	}
}

// ObserveAuditLatency records how long an audit took.
func (m *Metrics) ObserveAuditLatency(kind string, d time.Duration) {
	if m != nil {
		m.AuditLatency.WithLabelValues(kind).Observe(d.Seconds())
	}
}

// ObserveRecordSize records how many items were submitted.
func (m *Metrics) ObserveRecordSize(n int) {
	if m != nil {
		m.RecordSize.Observe(float64(n))
	}
}
