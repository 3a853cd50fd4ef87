// Package metrics exposes the endpoint's effort, queue and outcome counters
// to Prometheus. It only reads; nothing here feeds back into control.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dayanaadylkhanova/intro-pow/internal/entity"
	"github.com/dayanaadylkhanova/intro-pow/internal/service/effort"
)

const namespace = "intro_pow"

type Metrics struct {
	reg *prometheus.Registry

	Effort        prometheus.Gauge
	Mode          *prometheus.GaugeVec
	Outcomes      *prometheus.CounterVec
	Rotations     prometheus.Counter
	SeedExpiresAt prometheus.Gauge
}

// New registers every collector on a private registry. depth is sampled on
// scrape and must be a non-blocking read.
func New(depth func() int, capacity int) *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	f := promauto.With(reg)

	m := &Metrics{
		reg: reg,
		Effort: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "effort",
			Name:      "current",
			Help:      "Effort currently advertised to new clients",
		}),
		Mode: f.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "effort",
			Name:      "mode",
			Help:      "1 for the controller's current mode, 0 otherwise",
		}, []string{"mode"}),
		Outcomes: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "admission",
			Name:      "outcomes_total",
			Help:      "Introduction requests by outcome",
		}, []string{"outcome"}),
		Rotations: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "seed",
			Name:      "rotations_total",
			Help:      "Seed rotations since start",
		}),
		SeedExpiresAt: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "seed",
			Name:      "expires_at_seconds",
			Help:      "Unix time at which the current seed expires",
		}),
	}
	f.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "admission",
		Name:      "queue_depth",
		Help:      "Requests waiting for verification",
	}, func() float64 { return float64(depth()) })
	f.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "admission",
		Name:      "queue_capacity",
		Help:      "Admission queue capacity",
	}).Set(float64(capacity))

	// zero series up front so rates work from the first scrape
	for _, o := range entity.Outcomes() {
		m.Outcomes.WithLabelValues(o.String())
	}
	m.SetEffort(effort.State{Mode: effort.Idle})
	return m
}

// Observe counts one request outcome.
func (m *Metrics) Observe(o entity.Outcome) {
	m.Outcomes.WithLabelValues(o.String()).Inc()
}

// SetEffort publishes a controller state.
func (m *Metrics) SetEffort(st effort.State) {
	m.Effort.Set(float64(st.Effort))
	for _, mode := range []effort.Mode{effort.Idle, effort.Escalating, effort.Saturated, effort.Decaying} {
		v := 0.0
		if mode == st.Mode {
			v = 1
		}
		m.Mode.WithLabelValues(mode.String()).Set(v)
	}
}

// SeedRotated records a new current seed.
func (m *Metrics) SeedRotated(s entity.Seed) {
	m.Rotations.Inc()
	m.SeedExpiresAt.Set(float64(s.ExpiresAt.Unix()))
}

func (m *Metrics) Registry() *prometheus.Registry { return m.reg }

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{Registry: m.reg})
}
