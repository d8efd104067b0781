package app

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	reportTasksCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "report",
			Name:      "tasks_processed_total",
			Help:      "Total number of reporting tasks processed.",
		},
		[]string{"status"}, // success, error
	)

	reportTaskDurationHist = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "report",
			Name:      "task_duration_seconds",
			Help:      "Duration of reporting task processing.",
			Buckets:   prometheus.DefBuckets,
		},
	)

	renderFailuresCounter = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "report",
			Name:      "render_failures_total",
			Help:      "Reporting runs where the artifact could not be produced and the email went out without a link.",
		},
	)

	aggregatorSkippedOrdersCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "report",
			Name:      "aggregator_skipped_orders_total",
			Help:      "Orders excluded from the report during aggregation.",
		},
		[]string{"reason"},
	)
)
