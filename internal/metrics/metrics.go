// Package metrics exposes Prometheus instrumentation for the telemetry
// pipeline. Collectors are registered on the default registry; serve them
// by mounting Handler at /metrics.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// TicksTotal counts completed simulation ticks.
	TicksTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "riverwatch_sim_ticks_total",
		Help: "Completed simulation ticks.",
	})

	// ReadingsGenerated counts sensor readings synthesized by the scheduler.
	ReadingsGenerated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "riverwatch_readings_generated_total",
		Help: "Sensor readings synthesized by the simulation scheduler.",
	})

	// AlertsCreated counts alerts raised by the scoring engine during ticks.
	AlertsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "riverwatch_alerts_created_total",
		Help: "Alerts raised by the scoring engine.",
	})

	// BroadcastsTotal counts events fanned out to WebSocket clients, by type.
	BroadcastsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "riverwatch_ws_broadcasts_total",
		Help: "Events broadcast over the real-time channel, by event type.",
	}, []string{"type"})

	// ConnectedClients tracks currently open WebSocket connections.
	ConnectedClients = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "riverwatch_ws_connected_clients",
		Help: "Currently open WebSocket connections.",
	})
)

// Handler returns the HTTP handler serving the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
