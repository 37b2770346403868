package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for catalog lookups.
type Metrics struct {
	CacheHits      *prometheus.CounterVec
	CacheMisses    *prometheus.CounterVec
	LookupDuration *prometheus.HistogramVec
	ImportedTotal  prometheus.Counter
}

// New creates a new Metrics instance with all catalog metrics registered.
func New() *Metrics {
	return &Metrics{
		CacheHits: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "degreeaudit_catalog_cache_hits_total",
			Help: "Catalog cache hits by lookup type",
		}, []string{"lookup"}), // lookup: "course", "attribute"

		CacheMisses: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "degreeaudit_catalog_cache_misses_total",
			Help: "Catalog cache misses by lookup type",
		}, []string{"lookup"}),

		LookupDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "degreeaudit_catalog_lookup_duration_seconds",
			Help:    "Duration of catalog lookups by type",
			Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25},
		}, []string{"lookup"}),

		ImportedTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "degreeaudit_catalog_imported_courses_total",
			Help: "Courses written by catalog imports",
		}),
	}
}

// RecordCacheHit counts a cache hit.
func (m *Metrics) RecordCacheHit(lookup string) {
	if m != nil {
		m.CacheHits.WithLabelValues(lookup).Inc()
	}
}

// RecordCacheMiss counts a cache miss.
func (m *Metrics) RecordCacheMiss(lookup string) {
	if m != nil {
		m.CacheMisses.WithLabelValues(lookup).Inc()
	}
}

// ObserveLookup records how long a lookup took.
func (m *Metrics) ObserveLookup(lookup string, d time.Duration) {
	if m != nil {
		m.LookupDuration.WithLabelValues(lookup).Observe(d.Seconds())
	}
}

// AddImported counts imported courses.
func (m *Metrics) AddImported(n int) {
	if m != nil {
		m.ImportedTotal.Add(float64(n))
	}
}
