package http

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var taskRequestsReceivedCounter = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "report",
		Name:      "task_requests_received_total",
		Help:      "Total number of queue-delivered task invocations received.",
	},
	[]string{"handler"},
)
