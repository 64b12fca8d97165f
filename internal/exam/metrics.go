package exam

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Submit outcomes recorded on cbt_exam_submissions_total.
const (
	OutcomeSubmitted          = "submitted"
	OutcomeAlreadyCompleted   = "already_completed"
	OutcomeLateCorrection     = "late_correction"
	OutcomeRejectedLate       = "rejected_late"
	OutcomeRejectedNotStarted = "rejected_not_started"
)

// Metrics are the exam counters exported on /metrics.
type Metrics struct {
	submissions   *prometheus.CounterVec
	autoSubmitted prometheus.Counter
	transitions   *prometheus.CounterVec
	scores        prometheus.Histogram
}

// NewMetrics registers exam metrics on reg. A nil reg yields unregistered
// collectors, which is what tests want.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		submissions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "cbt",
			Subsystem: "exam",
			Name:      "submissions_total",
			Help:      "Submit calls by outcome.",
		}, []string{"outcome"}),
		autoSubmitted: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "cbt",
			Subsystem: "exam",
			Name:      "auto_submitted_total",
			Help:      "Submissions finalized by the close sweep or lazy expiry.",
		}),
		transitions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "cbt",
			Subsystem: "exam",
			Name:      "quiz_transitions_total",
			Help:      "Admin quiz status changes by target status.",
		}, []string{"to"}),
		scores: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "cbt",
			Subsystem: "exam",
			Name:      "score",
			Help:      "Final scores of completed submissions.",
			Buckets:   prometheus.LinearBuckets(0, 5, 21),
		}),
	}
}

func (m *Metrics) submitted(outcome string) {
	m.submissions.WithLabelValues(outcome).Inc()
}

func (m *Metrics) finalized(score int, auto bool) {
	m.scores.Observe(float64(score))
	if auto {
		m.autoSubmitted.Inc()
	}
}

func (m *Metrics) transitioned(to string) {
	m.transitions.WithLabelValues(to).Inc()
}
