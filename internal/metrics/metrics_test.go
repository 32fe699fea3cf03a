package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wireproxy/gatewayd/internal/backend"
	"github.com/wireproxy/gatewayd/internal/registry"
)

func TestCollectors_Observe(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := New(reg)

	r := registry.New()
	h1 := backend.NewHandler(1, "a", "X", "b", "X")
	h1.SetActive(true)
	h1.SetRunning(true)
	h2 := backend.NewHandler(2, "c", "X", "d", "X")

	require.NoError(t, r.Insert(h1.Key(), h1))
	require.NoError(t, r.Insert(h2.Key(), h2))

	c.Observe(r)

	m := &dto.Metric{}
	require.NoError(t, c.BackendsActive.WithLabelValues("handler").Write(m))
	assert.Equal(t, float64(1), m.GetGauge().GetValue())

	m = &dto.Metric{}
	require.NoError(t, c.BackendsRunning.WithLabelValues("handler").Write(m))
	assert.Equal(t, float64(1), m.GetGauge().GetValue())
}

func TestCollectors_TimeReload(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := New(reg)

	done := c.TimeReload()
	done()

	m := &dto.Metric{}
	require.NoError(t, c.ReloadTotal.Write(m))
	assert.Equal(t, float64(1), m.GetCounter().GetValue())
}
