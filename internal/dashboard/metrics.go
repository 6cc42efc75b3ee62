package dashboard

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the dashboard's Prometheus instruments. Each server
// carries its own registry so multiple instances can coexist in tests.
type Metrics struct {
	registry *prometheus.Registry

	evaluations  *prometheus.CounterVec
	agentLatency prometheus.Histogram
	simRuns      prometheus.Counter
	wsClients    prometheus.Gauge
}

// NewMetrics creates and registers the dashboard instruments.
func NewMetrics() *Metrics {
	m := &Metrics{registry: prometheus.NewRegistry()}

	m.evaluations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scoredeck_evaluations_total",
			Help: "Total applicant evaluations by verdict and source",
		},
		[]string{"verdict", "source"},
	)
	m.agentLatency = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "scoredeck_agent_latency_seconds",
			Help:    "Latency of agent runtime invocations",
			Buckets: prometheus.ExponentialBuckets(0.1, 2, 10),
		},
	)
	m.simRuns = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "scoredeck_simulation_runs_total",
			Help: "Total simulation runs started",
		},
	)
	m.wsClients = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "scoredeck_websocket_clients",
			Help: "Currently connected WebSocket clients",
		},
	)

	m.registry.MustRegister(m.evaluations, m.agentLatency, m.simRuns, m.wsClients)
	return m
}

// RecordEvaluation counts one evaluation outcome.
func (m *Metrics) RecordEvaluation(verdict string, cached bool, latencySeconds float64) {
	source := "live"
	if cached {
		source = "cached"
	}
	m.evaluations.WithLabelValues(verdict, source).Inc()
	if !cached {
		m.agentLatency.Observe(latencySeconds)
	}
}

// RecordSimulationRun counts one simulation run start.
func (m *Metrics) RecordSimulationRun() {
	m.simRuns.Inc()
}

// Handler serves the /metrics endpoint for this registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
