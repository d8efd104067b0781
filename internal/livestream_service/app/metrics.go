package app

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	finalizationsCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "livestream",
			Name:      "finalizations_total",
			Help:      "Total number of stream finalization attempts by outcome.",
		},
		[]string{"outcome"}, // finished, noop_already_finished, noop_lost_race, no_assets, error_load, error_persist
	)

	bestEffortFailuresCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "livestream",
			Name:      "best_effort_step_failures_total",
			Help:      "Failures of best-effort finalization steps that were logged and skipped.",
		},
		[]string{"step"},
	)

	finalizationDurationHist = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "livestream",
			Name:      "finalization_duration_seconds",
			Help:      "Duration of the stream finalization workflow.",
			Buckets:   prometheus.DefBuckets,
		},
	)

	natsStreamEndedReceivedCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "livestream",
			Name:      "nats_stream_ended_received_total",
			Help:      "Total number of stream-ended events received over NATS.",
		},
		[]string{"subject"},
	)
)
