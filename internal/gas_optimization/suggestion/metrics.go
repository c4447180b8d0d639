package suggestion

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Failure reasons recorded by the engine.
const (
	reasonTransport = "transport"
	reasonTimeout   = "timeout"
	reasonSchema    = "schema"
	reasonPrompt    = "prompt"
)

// Metrics counts backend calls made by the engine. A nil *Metrics is a no-op.
type Metrics struct {
	calls    *prometheus.CounterVec
	failures *prometheus.CounterVec
	latency  *prometheus.HistogramVec
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		calls: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "chaincanvas",
				Subsystem: "gas_optimizer",
				Name:      "backend_calls_total",
				Help:      "Total number of suggestion backend calls",
			},
			[]string{"backend"},
		),
		failures: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "chaincanvas",
				Subsystem: "gas_optimizer",
				Name:      "backend_failures_total",
				Help:      "Failed suggestion backend calls by reason",
			},
			[]string{"backend", "reason"},
		),
		latency: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "chaincanvas",
				Subsystem: "gas_optimizer",
				Name:      "backend_duration_seconds",
				Help:      "Suggestion backend call duration in seconds",
				Buckets:   []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 20, 30},
			},
			[]string{"backend"},
		),
	}
}

func (m *Metrics) observe(backend string, seconds float64) {
	if m == nil {
		return
	}
	m.calls.WithLabelValues(backend).Inc()
	m.latency.WithLabelValues(backend).Observe(seconds)
}

func (m *Metrics) fail(backend, reason string) {
	if m == nil {
		return
	}
	m.failures.WithLabelValues(backend, reason).Inc()
}
