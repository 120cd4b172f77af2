package metrics

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Namespace for all tracker metrics
const namespace = "activity_tracker"

// Registry is the process-wide Prometheus registry
var Registry = prometheus.NewRegistry()

// HTTP metrics
var (
	// HTTPRequestsTotal counts HTTP requests by method, route and status code
	HTTPRequestsTotal = promauto.With(Registry).NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// HTTPRequestDuration records HTTP request latency in seconds
	HTTPRequestDuration = promauto.With(Registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)
)

// Store metrics
var (
	// StoreCommandDuration records document store command latency
	StoreCommandDuration = promauto.With(Registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "store_command_duration_seconds",
			Help:      "Document store command duration in seconds",
			// Buckets: 1ms, 5ms, 10ms, 25ms, 50ms, 100ms, 250ms, 500ms, 1s, 2.5s, 5s
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		},
		[]string{"command", "outcome"},
	)
)

// Domain metrics
var (
	// UsersCreated counts users created by role
	UsersCreated = promauto.With(Registry).NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "users_created_total",
			Help:      "Total number of users created",
		},
		[]string{"role"},
	)

	// EventsRecorded counts events recorded by type
	EventsRecorded = promauto.With(Registry).NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_recorded_total",
			Help:      "Total number of events recorded",
		},
		[]string{"event_type"},
	)
)

var initOnce sync.Once

// Init registers the Go runtime and process collectors.
func Init() {
	initOnce.Do(func() {
		Registry.MustRegister(collectors.NewGoCollector())
		Registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	})
}

// Handler serves the registry in the Prometheus text format.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{Registry: Registry})
}

// ObserveStoreCommand records one store round trip.
func ObserveStoreCommand(command string, duration time.Duration, failed bool) {
	outcome := "success"
	if failed {
		outcome = "error"
	}
	StoreCommandDuration.WithLabelValues(command, outcome).Observe(duration.Seconds())
}
