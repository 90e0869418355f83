package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the case review module.
type Metrics struct {
	// Per-evaluator latencies during a combined review
	EvaluatorLatency *prometheus.HistogramVec

	// Scoring outcomes by risk category and recommended action
	ScoreOutcome *prometheus.CounterVec

	// Overall review latency including all evaluators
	ReviewLatency prometheus.Histogram
}

// New creates a Metrics instance with all case review metrics registered.
func New() *Metrics {
	return &Metrics{
		EvaluatorLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "caseline_review_evaluator_duration_seconds",
			Help:    "Duration of individual evaluators during a case review",
			Buckets: []float64{0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1},
		}, []string{"evaluator"}), // evaluator: "scoring", "goldcard", "deadline"

		ScoreOutcome: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "caseline_review_score_outcomes_total",
			Help: "Total scoring outcomes by risk category and recommended action",
		}, []string{"category", "action"}),

		ReviewLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "caseline_review_duration_seconds",
			Help:    "Duration of a full combined case review",
			Buckets: []float64{0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25},
		}),
	}
}

// ObserveEvaluatorLatency records the duration of one evaluator.
func (m *Metrics) ObserveEvaluatorLatency(evaluator string, d time.Duration) {
	if m != nil {
		m.EvaluatorLatency.WithLabelValues(evaluator).Observe(d.Seconds())
	}
}

// IncrementScoreOutcome records one scoring outcome.
func (m *Metrics) IncrementScoreOutcome(category, action string) {
	if m != nil {
		m.ScoreOutcome.WithLabelValues(category, action).Inc()
	}
}

// ObserveReviewLatency records the total review duration.
func (m *Metrics) ObserveReviewLatency(d time.Duration) {
	if m != nil {
		m.ReviewLatency.Observe(d.Seconds())
	}
}
