// Package metrics provides Prometheus instrumentation for the chat session
// service: store operation counters, a gauge for the active storage backend,
// and counters for session and message activity.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// StoreOps counts session store operations, labeled by operation
	// ("get", "set", "has", "delete") and backend ("redis", "local").
	StoreOps = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "chat_store_operations_total",
		Help: "Total number of session store operations",
	}, []string{"op", "backend"})

	// StoreFallbacks counts operations that hit the backend and degraded to
	// the in-process map. This is the observability hook for silent
	// redis-to-local degradation.
	StoreFallbacks = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "chat_store_fallbacks_total",
		Help: "Total number of store operations that fell back to the local map",
	}, []string{"op"})

	// BackendRedis is 1 when the process selected the redis backend at
	// startup, 0 when running on the in-process map only.
	BackendRedis = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "chat_store_backend_redis",
		Help: "Whether the redis backend was selected at startup (1) or the process is local-only (0)",
	})

	// LocalSessions tracks the number of sessions held in the in-process map.
	LocalSessions = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "chat_store_local_sessions",
		Help: "Current number of sessions held in the in-process fallback map",
	})

	// SessionsCreated counts successful session creations.
	SessionsCreated = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "chat_sessions_created_total",
		Help: "Total number of sessions created",
	})

	// SessionsJoined counts successful joins.
	SessionsJoined = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "chat_sessions_joined_total",
		Help: "Total number of session joins",
	})

	// MessagesPosted counts user messages posted (excludes system messages).
	MessagesPosted = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "chat_messages_posted_total",
		Help: "Total number of user messages posted",
	})
)

// Register registers all metrics with the default registry. Call once at
// startup.
func Register() {
	prometheus.MustRegister(
		StoreOps,
		StoreFallbacks,
		BackendRedis,
		LocalSessions,
		SessionsCreated,
		SessionsJoined,
		MessagesPosted,
	)
}

// Handler returns the HTTP handler serving the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}
