package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the business profile module.
type Metrics struct {
	// Profile cache hits/misses by outcome
	CacheLookups *prometheus.CounterVec

	// Store operation latency by operation
	StoreLatency *prometheus.HistogramVec
}

// New creates a Metrics instance with all business module metrics registered.
func New() *Metrics {
	return &Metrics{
		CacheLookups: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "contentguard_business_cache_lookups_total",
			Help: "Business profile cache lookups by outcome",
		}, []string{"outcome"}), // outcome: "hit", "miss"

		StoreLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "contentguard_business_store_duration_seconds",
			Help:    "Duration of business profile store operations",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}, []string{"operation"}),
	}
}

// IncrementCacheLookup records a cache hit or miss.
func (m *Metrics) IncrementCacheLookup(outcome string) {
	if m != nil {
		m.CacheLookups.WithLabelValues(outcome).Inc()
	}
}

// ObserveStoreLatency records the duration of a store operation.
func (m *Metrics) ObserveStoreLatency(operation string, d time.Duration) {
	if m != nil {
		m.StoreLatency.WithLabelValues(operation).Observe(d.Seconds())
	}
}
