package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Attempt outcomes.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

var (
	RemoteAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "gita",
		Name:      "remote_attempts_total",
		Help:      "Calls to the embedding, search and generation services by outcome.",
	}, []string{"stage", "outcome"})

	Fallbacks = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "gita",
		Name:      "fallbacks_total",
		Help:      "Fallback texts substituted after exhausted retries or empty retrieval.",
	}, []string{"kind"})

	PipelineDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "gita",
		Name:      "pipeline_duration_seconds",
		Help:      "End-to-end retrieve, assemble and generate latency.",
		Buckets:   []float64{0.5, 1, 2, 5, 10, 20, 30, 60},
	}, []string{"policy"})
)
