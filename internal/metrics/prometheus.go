// Package metrics exposes Prometheus collectors for the conversation service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// TurnsCompleted counts fully completed conversation turns (user message
	// plus assistant reply appended).
	TurnsCompleted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "conversation_turns_completed_total",
		Help: "Total number of completed conversation turns",
	})

	// TurnFailures counts aborted turn stages, labeled by pipeline stage.
	TurnFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "conversation_turn_failures_total",
		Help: "Total number of failed turn stages",
	}, []string{"stage"})

	// EmptyCaptures counts recordings that trimmed to silence.
	EmptyCaptures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "conversation_empty_captures_total",
		Help: "Total number of recordings with no speech above the trim threshold",
	})

	// CaptureDuration observes the duration in seconds of trimmed recordings.
	CaptureDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "conversation_capture_duration_seconds",
		Help:    "Duration of trimmed speech captures",
		Buckets: prometheus.ExponentialBuckets(0.25, 2, 10),
	})

	// UpstreamDuration observes latency of external service calls, labeled by
	// service (transcription, generation, synthesis).
	UpstreamDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "conversation_upstream_duration_seconds",
		Help:    "Latency of external service calls",
		Buckets: prometheus.DefBuckets,
	}, []string{"service"})
)
