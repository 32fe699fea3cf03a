// Package metrics exposes the Loader's reload and backend lifecycle
// activity as Prometheus collectors. None of this is read by the
// Loader itself — it is ambient operational surface, wired into the
// admin HTTP plane.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/wireproxy/gatewayd/internal/backend"
	"github.com/wireproxy/gatewayd/internal/registry"
)

// Collectors bundles the gauges/counter/histogram that the admin
// server's Reload and the serve command update around a load or reload.
type Collectors struct {
	BackendsActive  *prometheus.GaugeVec
	BackendsRunning *prometheus.GaugeVec
	ReloadTotal     prometheus.Counter
	ReloadDuration  prometheus.Histogram
}

// New registers and returns a fresh Collectors on reg.
func New(reg prometheus.Registerer) *Collectors {
	c := &Collectors{
		BackendsActive: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "gatewayd_backends_active",
			Help: "Number of backend entries currently active (referenced by a route), by type.",
		}, []string{"type"}),
		BackendsRunning: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "gatewayd_backends_running",
			Help: "Number of backend entries currently running, by type.",
		}, []string{"type"}),
		ReloadTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "gatewayd_reload_total",
			Help: "Number of configuration reloads attempted.",
		}),
		ReloadDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "gatewayd_reload_duration_seconds",
			Help:    "Duration of a configuration reload.",
			Buckets: prometheus.DefBuckets,
		}),
	}

	reg.MustRegister(c.BackendsActive, c.BackendsRunning, c.ReloadTotal, c.ReloadDuration)
	return c
}

// Observe recomputes the active/running gauges from the current state
// of reg. Call it after every Load/Reload.
func (c *Collectors) Observe(reg *registry.Registry) {
	active := map[backend.Type]float64{}
	running := map[backend.Type]float64{}

	reg.Traverse(func(e registry.Entry) {
		if e.Backend.IsActive() {
			active[e.Type]++
		}
		if e.Backend.IsRunning() {
			running[e.Type]++
		}
	})

	for _, typ := range []backend.Type{backend.TypeHandler, backend.TypeProxy, backend.TypeDirectory} {
		c.BackendsActive.WithLabelValues(string(typ)).Set(active[typ])
		c.BackendsRunning.WithLabelValues(string(typ)).Set(running[typ])
	}
}

// TimeReload records one reload attempt's duration and increments the
// attempt counter. Call with defer immediately before invoking Reload.
func (c *Collectors) TimeReload() func() {
	c.ReloadTotal.Inc()
	start := time.Now()
	return func() {
		c.ReloadDuration.Observe(time.Since(start).Seconds())
	}
}
