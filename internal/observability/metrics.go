package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// APIRequests counts backend calls by resource, method and status class.
	APIRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "careerhub_api_requests_total",
		Help: "Total number of backend API calls by resource, method and outcome",
	}, []string{"resource", "method", "outcome"})

	// APILatency records backend call latency by resource.
	APILatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "careerhub_api_latency_seconds",
		Help:    "Backend API call latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"resource", "method"})

	// APIFallbacks counts demo dataset substitutions after network failures.
	APIFallbacks = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "careerhub_api_fallback_total",
		Help: "Total number of responses served from demo datasets",
	}, []string{"resource"})

	// ViewLoads counts screen loads by screen and outcome.
	ViewLoads = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "careerhub_view_loads_total",
		Help: "Total number of screen loads by outcome",
	}, []string{"screen", "outcome"})

	// LocalStoreErrors counts local storage failures by driver and operation.
	LocalStoreErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "careerhub_local_store_errors_total",
		Help: "Total number of local store errors by driver and operation",
	}, []string{"driver", "operation"})
)

// StatusOutcome maps an HTTP status (0 for transport failures) to a metric label.
func StatusOutcome(status int) string {
	switch {
	case status == 0:
		return "network_error"
	case status >= 500:
		return "5xx"
	case status >= 400:
		return "4xx"
	default:
		return "ok"
	}
}
