package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestPrometheusProvider_InstrumentsRegisterOnce(t *testing.T) {
	reg := prometheus.NewRegistry()
	p := NewPrometheusProvider(reg)

	p.Counter(UnitsCompleted).Add(2)
	p.Counter(UnitsCompleted).Add(3)
	p.Counter(UnitsCompleted).Add(-7) // ignored

	p.UpDownCounter(UnitsInflight).Add(4)
	p.UpDownCounter(UnitsInflight).Add(-1)

	p.Histogram(UnitDuration, WithDescription("item duration")).Record(0.25)
	p.Histogram(UnitDuration).Record(0.75)

	require.Equal(t, 5.0, testutil.ToFloat64(p.counters[UnitsCompleted]))
	require.Equal(t, 3.0, testutil.ToFloat64(p.gauges[UnitsInflight]))
	n, err := testutil.GatherAndCount(reg)
	require.NoError(t, err)
	require.Equal(t, 3, n)
}

func TestPrometheusProvider_ConstLabelsFromAttributes(t *testing.T) {
	reg := prometheus.NewRegistry()
	p := NewPrometheusProvider(reg)

	p.Counter(Partitions, WithAttributes(map[string]string{"loop": "range"})).Add(1)

	families, err := reg.Gather()
	require.NoError(t, err)
	require.Len(t, families, 1)
	require.Equal(t, Partitions, families[0].GetName())
	require.Equal(t, "loop", families[0].GetMetric()[0].GetLabel()[0].GetName())
	require.Equal(t, "range", families[0].GetMetric()[0].GetLabel()[0].GetValue())
}
