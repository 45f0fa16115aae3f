// Package observability provides Prometheus metrics and HTTP middleware
// for monitoring the perimeter service.
package observability

import "github.com/prometheus/client_golang/prometheus"

// APIBuckets defines histogram buckets suited for API request latencies,
// ranging from 5ms to 10s.
var APIBuckets = []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10}

var (
	// RequestsTotal counts all HTTP requests by method, path, and status class.
	RequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "perimeter_requests_total",
			Help: "Total requests",
		},
		[]string{"method", "path", "status"},
	)

	// RequestDuration records HTTP request duration in seconds by method and path.
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "perimeter_request_duration_seconds",
			Help:    "Request duration",
			Buckets: APIBuckets,
		},
		[]string{"method", "path"},
	)

	// AuthAttemptsTotal counts gate evaluations by terminal outcome:
	// "authorized" or one of the failure kinds.
	AuthAttemptsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "perimeter_auth_attempts_total",
			Help: "Authorization gate outcomes",
		},
		[]string{"outcome"},
	)

	// SessionsIssuedTotal counts bearer tokens issued by login.
	SessionsIssuedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "perimeter_sessions_issued_total",
			Help: "Sessions issued",
		},
	)

	// HashOperationsInFlight tracks bcrypt operations currently holding a
	// worker pool slot.
	HashOperationsInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "perimeter_hash_operations_in_flight",
			Help: "Concurrent password hashing operations",
		},
	)
)

func init() {
	prometheus.MustRegister(
		RequestsTotal,
		RequestDuration,
		AuthAttemptsTotal,
		SessionsIssuedTotal,
		HashOperationsInFlight,
	)
}
