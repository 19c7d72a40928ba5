package transition

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	transitionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "statekit_transitions_total",
		Help: "Transitions executed, labeled by entity type, states, and outcome.",
	}, []string{"entity_type", "from_state", "to_state", "outcome"})

	transitionDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "statekit_transition_duration_seconds",
		Help:    "Wall-clock duration of transition pipeline runs.",
		Buckets: prometheus.DefBuckets,
	}, []string{"entity_type", "outcome"})

	transitionFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "statekit_transition_failures_total",
		Help: "Failed transitions by error code.",
	}, []string{"entity_type", "error_code"})
)

const (
	outcomeSuccess = "success"
	outcomeFailure = "failure"
)

func observeTransition(entityType, from, to, outcome string, seconds float64) {
	transitionsTotal.WithLabelValues(entityType, from, to, outcome).Inc()
	transitionDuration.WithLabelValues(entityType, outcome).Observe(seconds)
}

func observeFailure(entityType, code string) {
	transitionFailures.WithLabelValues(entityType, code).Inc()
}
