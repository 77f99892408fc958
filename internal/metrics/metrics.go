package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recruit_http_requests_total",
			Help: "HTTP requests served, by method, route and status",
		},
		[]string{"method", "route", "status"},
	)

	HTTPDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "recruit_http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	WorkflowCalls = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recruit_workflow_calls_total",
			Help: "Workflow webhook calls, by operation and outcome",
		},
		[]string{"operation", "outcome"},
	)

	WorkflowDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "recruit_workflow_call_duration_seconds",
			Help:    "Workflow webhook latency",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"operation"},
	)

	WorkflowFallbacks = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "recruit_workflow_fallback_total",
			Help: "Job creations that fell back to a direct datastore insert",
		},
	)

	CacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recruit_cache_lookups_total",
			Help: "Dashboard cache lookups, by result",
		},
		[]string{"result"},
	)

	WSClients = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "recruit_ws_clients",
			Help: "Connected websocket clients",
		},
	)
)

const (
	OutcomeSuccess = "success"
	OutcomeError   = "error"
)

func Outcome(err error) string {
	if err != nil {
		return OutcomeError
	}
	return OutcomeSuccess
}
