package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var HTTPRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "dashboard_http_requests_total",
		Help: "Total number of HTTP requests served to the dashboard UI",
	},
	[]string{"method", "path", "status"},
)

var HTTPRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "dashboard_http_request_duration_seconds",
		Help:    "Duration of dashboard HTTP requests in seconds",
		Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
	},
	[]string{"method", "path"},
)

// BackendRequestDuration tracks calls made by the orders API client.
var BackendRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "dashboard_backend_request_duration_seconds",
		Help:    "Duration of order API calls to the backend in seconds",
		Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
	},
	[]string{"operation", "outcome"},
)

var OrderOperations = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "dashboard_order_operations_total",
		Help: "Order facade operations by outcome",
	},
	[]string{"operation", "outcome"},
)

var Notifications = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "dashboard_notifications_total",
		Help: "Notifications shown to the dashboard user",
	},
	[]string{"severity"},
)

// Navigations counts delayed redirects. result: fired, stale, cancelled.
var Navigations = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "dashboard_navigations_total",
		Help: "Delayed navigations by result",
	},
	[]string{"result"},
)

var SSEClients = promauto.NewGauge(
	prometheus.GaugeOpts{
		Name: "dashboard_sse_clients",
		Help: "Connected server-sent events clients",
	},
)

var ActivityPublishErrors = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "dashboard_activity_publish_errors_total",
		Help: "Failed activity publications by sink",
	},
	[]string{"sink"},
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
