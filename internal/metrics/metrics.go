// Package metrics exposes ledger activity as Prometheus metrics.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/starford/goldstar/internal/ledger"
)

// Metrics holds the collectors fed by ledger events.
type Metrics struct {
	registry        *prometheus.Registry
	actions         *prometheus.CounterVec
	people          prometheus.Gauge
	stars           prometheus.Gauge
	persistFailures prometheus.Counter
}

// New creates collectors registered on a private registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		actions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "goldstar",
			Name:      "star_actions_total",
			Help:      "Accepted star actions by kind.",
		}, []string{"kind"}),
		people: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "goldstar",
			Name:      "people",
			Help:      "People currently tracked.",
		}),
		stars: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "goldstar",
			Name:      "stars",
			Help:      "Sum of all star counters.",
		}),
		persistFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "goldstar",
			Name:      "persist_failures_total",
			Help:      "Snapshot writes that failed.",
		}),
	}
	m.registry.MustRegister(m.actions, m.people, m.stars, m.persistFailures)
	return m
}

// Observe is a ledger.Listener.
func (m *Metrics) Observe(ev ledger.Event) {
	switch ev.Kind {
	case ledger.EventStarGranted:
		m.actions.WithLabelValues("grant").Inc()
	case ledger.EventStarRevoked:
		m.actions.WithLabelValues("revoke").Inc()
	case ledger.EventPersistFailed:
		m.persistFailures.Inc()
		return
	}
	m.people.Set(float64(ev.People))
	m.stars.Set(float64(ev.Stars))
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
