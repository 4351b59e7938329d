// Package metrics exposes the engine's operational counters and gauges
// (spec.md §4.5) over Prometheus's client_golang, the only metrics
// dependency the retrieved pack demonstrates
// (DimaJoyti-ai-agentic-crypto-browser/pkg/observability); we skip its
// OpenTelemetry meter-provider layer since nothing else in this service
// emits traces, and register the handful of collectors this engine
// needs directly against client_golang's registry via promauto.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry bundles every collector this service publishes.
type Registry struct {
	RequestsReceived prometheus.Counter
	EventsGenerated  prometheus.Counter
	SessionsActive   prometheus.Gauge
	BookDepth        *prometheus.GaugeVec
}

// NewRegistry creates and registers this service's collectors against
// a dedicated prometheus.Registry, rather than the global default, so
// tests can build as many independent Registry values as they like.
func NewRegistry() (*Registry, *prometheus.Registry) {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Registry{
		RequestsReceived: factory.NewCounter(prometheus.CounterOpts{
			Name: "engine_requests_received_total",
			Help: "Total Requests consumed by the matching engine.",
		}),
		EventsGenerated: factory.NewCounter(prometheus.CounterOpts{
			Name: "engine_events_generated_total",
			Help: "Total Events emitted by the matching engine.",
		}),
		SessionsActive: factory.NewGauge(prometheus.GaugeOpts{
			Name: "engine_sessions_active",
			Help: "Number of currently registered client sessions.",
		}),
		BookDepth: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "engine_book_depth",
			Help: "Resting order count per symbol, labeled by side.",
		}, []string{"symbol", "side"}),
	}, reg
}

// Handler returns the HTTP handler to mount at /metrics.
func Handler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}
