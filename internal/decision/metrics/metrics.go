package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the decision module.
type Metrics struct {
	// Classifier call latencies by modality
	ClassifierLatency *prometheus.HistogramVec

	// Decision outcomes by status
	DecisionOutcome *prometheus.CounterVec

	// Overall analysis latency including classification and fusion
	AnalyzeLatency prometheus.Histogram
}

// New creates a Metrics instance with all decision module metrics registered.
func New() *Metrics {
	return &Metrics{
		ClassifierLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "contentguard_decision_classifier_duration_seconds",
			Help:    "Duration of classifier calls by modality",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}, []string{"modality"}), // modality: "text", "image"

		DecisionOutcome: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "contentguard_decision_outcomes_total",
			Help: "Total decision outcomes by status",
		}, []string{"status"}),

		AnalyzeLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "contentguard_decision_analyze_duration_seconds",
			Help:    "Duration of full content analysis including classification and fusion",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}),
	}
}

// ObserveClassifierLatency records the duration of one classifier call.
func (m *Metrics) ObserveClassifierLatency(modality string, d time.Duration) {
	if m != nil {
		m.ClassifierLatency.WithLabelValues(modality).Observe(d.Seconds())
	}
}

// IncrementOutcome records a decision outcome.
func (m *Metrics) IncrementOutcome(status string) {
	if m != nil {
		m.DecisionOutcome.WithLabelValues(status).Inc()
	}
}

// ObserveAnalyzeLatency records the total analysis duration.
func (m *Metrics) ObserveAnalyzeLatency(d time.Duration) {
	if m != nil {
		m.AnalyzeLatency.Observe(d.Seconds())
	}
}
