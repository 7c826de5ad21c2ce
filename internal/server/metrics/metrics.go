// Package metrics exposes the server's simulation health over Prometheus.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics bundles the simulation gauges updated once per tick.
type Metrics struct {
	MSPT    prometheus.Gauge
	TPS     prometheus.Gauge
	Players prometheus.Gauge
	Ticks   prometheus.Counter
}

// New registers the simulation metrics with reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		MSPT: factory.NewGauge(prometheus.GaugeOpts{
			Name: "classic_server_mspt_milliseconds",
			Help: "Smoothed milliseconds spent per simulation tick.",
		}),
		TPS: factory.NewGauge(prometheus.GaugeOpts{
			Name: "classic_server_ticks_per_second",
			Help: "Effective simulation ticks per second.",
		}),
		Players: factory.NewGauge(prometheus.GaugeOpts{
			Name: "classic_server_players",
			Help: "Number of connected sessions.",
		}),
		Ticks: factory.NewCounter(prometheus.CounterOpts{
			Name: "classic_server_ticks_total",
			Help: "Total simulation ticks executed.",
		}),
	}
}

// Handler returns the HTTP handler serving the registry's metrics.
func Handler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}
