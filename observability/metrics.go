// Package observability holds the Prometheus metrics of the service.
//
// Metrics are registered on the default registry at package init and exposed by the
// /metrics route. All operations are safe for concurrent use.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const metricsNamespace = "fitquest"

var (
	// PersistenceErrors counts failed repository calls.
	// Labels: collection (profiles, exercise_plans, ...), operation (get, create, update, delete, toggle)
	PersistenceErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "persistence_errors_total",
			Help:      "Failed persistence calls by collection and operation.",
		},
		[]string{"collection", "operation"},
	)

	// CacheLookups counts store reads.
	// Labels: family, result (hit, loaded, default, error)
	CacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "cache",
			Name:      "lookups_total",
			Help:      "Store cache lookups by entity family and result.",
		},
		[]string{"family", "result"},
	)

	// StoreMutations counts optimistic mutations.
	// Labels: family, outcome (persisted, local, kept, rolled_back)
	StoreMutations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "store",
			Name:      "mutations_total",
			Help:      "Store mutations by entity family and outcome.",
		},
		[]string{"family", "outcome"},
	)

	// ChangeEvents counts change events fanned out to websocket sessions.
	ChangeEvents = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "realtime",
			Name:      "change_events_total",
			Help:      "Store change events published, by entity family.",
		},
		[]string{"family"},
	)

	// RealtimeConnections is the number of open websocket sessions.
	RealtimeConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Subsystem: "realtime",
			Name:      "connections",
			Help:      "Open websocket sessions.",
		},
	)

	// AIRequests counts assistant calls.
	// Labels: feature (chat, recipe), status (success, error)
	AIRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "ai",
			Name:      "requests_total",
			Help:      "Assistant requests by feature and status.",
		},
		[]string{"feature", "status"},
	)

	// AIDuration measures model latency per feature.
	AIDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Subsystem: "ai",
			Name:      "duration_seconds",
			Help:      "Assistant model call duration.",
			Buckets:   []float64{0.25, 0.5, 1, 2, 5, 10, 20, 40},
		},
		[]string{"feature"},
	)

	// HTTPRequests counts handled requests.
	// Labels: method, route (gin full path), status
	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by method, route and status code.",
		},
		[]string{"method", "route", "status"},
	)

	HTTPDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration by route.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"route"},
	)
)
