// Package observability provides Prometheus metrics for the relay
// dispatcher and its MCP tool surface.
package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// APIBuckets defines histogram buckets suited for remote API latencies,
// ranging from 10ms to 120s.
var APIBuckets = []float64{0.01, 0.05, 0.1, 0.5, 1, 2, 5, 10, 30, 60, 120}

// WaitBuckets defines histogram buckets for pacing and backoff waits,
// from sub-interval waits up to long Retry-After hints.
var WaitBuckets = []float64{0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 30, 60}

var (
	// OutboundRequestsTotal counts outbound provider requests by
	// endpoint and status ("2xx", "429", "5xx", "transport").
	OutboundRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "relay_outbound_requests_total",
			Help: "Outbound provider requests",
		},
		[]string{"endpoint", "status"},
	)

	// OutboundRetriesTotal counts automatic retries after throttling
	// responses, by endpoint.
	OutboundRetriesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "relay_outbound_retries_total",
			Help: "Retries after provider throttling",
		},
		[]string{"endpoint"},
	)

	// DispatchWaitSeconds records time spent waiting before an attempt,
	// by reason ("pacing" or "backoff").
	DispatchWaitSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "relay_dispatch_wait_seconds",
			Help:    "Dispatcher wait durations",
			Buckets: WaitBuckets,
		},
		[]string{"reason"},
	)

	// RequestDuration records provider request duration in seconds by endpoint.
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "relay_request_duration_seconds",
			Help:    "Provider request duration",
			Buckets: APIBuckets,
		},
		[]string{"endpoint"},
	)

	// ToolExecutionsTotal counts MCP tool executions by name and outcome.
	ToolExecutionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "relay_tool_executions_total",
			Help: "Tool executions",
		},
		[]string{"tool", "status"},
	)
)

func init() {
	prometheus.MustRegister(
		OutboundRequestsTotal,
		OutboundRetriesTotal,
		DispatchWaitSeconds,
		RequestDuration,
		ToolExecutionsTotal,
	)
}

// Handler returns the HTTP handler serving the default registry, for
// mounting at the configured metrics path.
func Handler() http.Handler {
	return promhttp.Handler()
}
