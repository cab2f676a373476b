package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all server instrumentation on a private registry.
type Metrics struct {
	registry *prometheus.Registry

	// ConfigReloads counts reload attempts by result ("ok" | "error").
	ConfigReloads *prometheus.CounterVec

	// LastReload is the Unix timestamp of the last successful reload.
	LastReload prometheus.Gauge

	// WidgetRequests counts proxied widget calls by widget kind and
	// result ("ok" | "error").
	WidgetRequests *prometheus.CounterVec

	// WidgetDuration observes proxied widget call latency by kind.
	WidgetDuration *prometheus.HistogramVec

	// WSClients tracks currently connected WebSocket clients.
	WSClients prometheus.Gauge
}

// New creates a Metrics instance with all collectors registered,
// alongside the standard Go runtime and process collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),

		ConfigReloads: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "vesta",
				Subsystem: "config",
				Name:      "reloads_total",
				Help:      "Dashboard document reload attempts by result",
			},
			[]string{"result"},
		),

		LastReload: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: "vesta",
				Subsystem: "config",
				Name:      "last_reload_timestamp_seconds",
				Help:      "Unix time of the last successful reload",
			},
		),

		WidgetRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "vesta",
				Subsystem: "widget",
				Name:      "requests_total",
				Help:      "Proxied widget requests by kind and result",
			},
			[]string{"widget", "result"},
		),

		WidgetDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "vesta",
				Subsystem: "widget",
				Name:      "request_duration_seconds",
				Help:      "Proxied widget request latency by kind",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"widget"},
		),

		WSClients: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: "vesta",
				Subsystem: "ws",
				Name:      "clients",
				Help:      "Currently connected WebSocket clients",
			},
		),
	}

	m.registry.MustRegister(
		m.ConfigReloads,
		m.LastReload,
		m.WidgetRequests,
		m.WidgetDuration,
		m.WSClients,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// ObserveReload records one reload attempt.
func (m *Metrics) ObserveReload(err error) {
	if err != nil {
		m.ConfigReloads.WithLabelValues("error").Inc()
		return
	}
	m.ConfigReloads.WithLabelValues("ok").Inc()
	m.LastReload.SetToCurrentTime()
}

// ObserveWidget records one proxied widget call.
func (m *Metrics) ObserveWidget(widget string, start time.Time, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.WidgetRequests.WithLabelValues(widget, result).Inc()
	m.WidgetDuration.WithLabelValues(widget).Observe(time.Since(start).Seconds())
}

// Handler returns the Prometheus exposition handler for this registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
