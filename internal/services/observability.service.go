package services

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"vehicledash/internal/models"
)

// TelemetryMetrics exports session activity to Prometheus
type TelemetryMetrics struct {
	ticks        prometheus.Counter
	tickFailures prometheus.Counter
	activeAlerts prometheus.Gauge
	alertsRaised *prometheus.CounterVec
	channels     *prometheus.GaugeVec
	health       prometheus.Gauge
	tickLatency  prometheus.Histogram
	wsClients    prometheus.Gauge
}

// NewTelemetryMetrics registers all collectors on reg
func NewTelemetryMetrics(reg prometheus.Registerer) *TelemetryMetrics {
	m := &TelemetryMetrics{
		ticks: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "vehicledash_ticks_total",
			Help: "Telemetry ticks published.",
		}),
		tickFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "vehicledash_tick_failures_total",
			Help: "Ticks skipped because sample generation failed.",
		}),
		activeAlerts: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "vehicledash_active_alerts",
			Help: "Maintenance alerts derived on the last tick.",
		}),
		alertsRaised: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "vehicledash_alerts_raised_total",
			Help: "Maintenance alerts raised, by priority.",
		}, []string{"priority"}),
		channels: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "vehicledash_channel_value",
			Help: "Latest value of each telemetry channel.",
		}, []string{"channel"}),
		health: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "vehicledash_health_status",
			Help: "Vehicle health: 0 Normal, 1 Warning, 2 Critical.",
		}),
		tickLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "vehicledash_tick_duration_seconds",
			Help:    "Time to generate, evaluate and publish one tick.",
			Buckets: prometheus.ExponentialBuckets(0.00001, 4, 10),
		}),
		wsClients: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "vehicledash_ws_clients",
			Help: "Connected WebSocket clients.",
		}),
	}

	reg.MustRegister(m.ticks, m.tickFailures, m.activeAlerts, m.alertsRaised,
		m.channels, m.health, m.tickLatency, m.wsClients)
	return m
}

func (m *TelemetryMetrics) ObserveTick(snap models.Snapshot, took time.Duration) {
	m.ticks.Inc()
	m.tickLatency.Observe(took.Seconds())
	m.activeAlerts.Set(float64(len(snap.Alerts)))
	m.health.Set(float64(snap.Health.Status.Severity()))
	for _, a := range snap.Alerts {
		m.alertsRaised.WithLabelValues(string(a.Priority)).Inc()
	}
	for _, ch := range models.Channels {
		m.channels.WithLabelValues(string(ch)).Set(snap.Current.Value(ch))
	}
}

func (m *TelemetryMetrics) ObserveTickFailure(error) {
	m.tickFailures.Inc()
}

// SetClients records the WebSocket client count
func (m *TelemetryMetrics) SetClients(n int) {
	m.wsClients.Set(float64(n))
}
