package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for candidate ranking.
type Metrics struct {
	// Full ranking latency by candidate kind
	RankLatency *prometheus.HistogramVec

	// Candidates audited by kind
	CandidatesEvaluated *prometheus.CounterVec

	// Placeholder items synthesised from the primary program
	PlaceholderItems prometheus.Histogram
}

// New creates a new Metrics instance with all ranking metrics registered.
func New() *Metrics {
	return &Metrics{
		RankLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "degreeaudit_ranking_duration_seconds",
			Help:    "Duration of a ranking request including every candidate audit",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}, []string{"kind"}),

		CandidatesEvaluated: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "degreeaudit_ranking_candidates_total",
			Help: "Total candidate programs audited by kind",
		}, []string{"kind"}),

		PlaceholderItems: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "degreeaudit_ranking_placeholder_items",
			Help:    "Planned items added to the record before ranking",
			Buckets: prometheus.LinearBuckets(0, 5, 10),
		}),
	}
}

// ObserveRankLatency records the total ranking duration.
func (m *Metrics) ObserveRankLatency(kind string, d time.Duration) {
	if m != nil {
		m.RankLatency.WithLabelValues(kind).Observe(d.Seconds())
	}
}

// AddCandidates counts audited candidates.
func (m *Metrics) AddCandidates(kind string, n int) {
	if m != nil {
		m.CandidatesEvaluated.WithLabelValues(kind).Add(float64(n))
	}
}

// ObservePlaceholders records how many planned items were synthesised.
func (m *Metrics) ObservePlaceholders(n int) {
	if m != nil {
		m.PlaceholderItems.Observe(float64(n))
	}
}
