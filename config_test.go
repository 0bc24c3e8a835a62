package parfor

import (
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ygrebnov/parfor/metrics"
	"github.com/ygrebnov/parfor/pool"
)

func TestDefaultConfig_Values(t *testing.T) {
	cfg := defaultConfig()
	require.Positive(t, cfg.PartitionSize)
	require.Zero(t, cfg.Timeout)
	require.Nil(t, cfg.Pool)
	require.Zero(t, cfg.FixedPoolSize)
	require.False(t, cfg.StopOnError)
	require.False(t, cfg.PreserveOrder)
	require.False(t, cfg.CancelOnTimeout)
	require.IsType(t, metrics.NoopProvider{}, cfg.Metrics)
	require.NotNil(t, cfg.Logger)
	require.NoError(t, validateConfig(&cfg))
}

func TestNewConfig_Options(t *testing.T) {
	p := pool.NewDynamic()
	defer p.Close()
	m := metrics.NewBasicProvider()
	l := slog.New(slog.NewTextHandler(os.Stderr, nil))

	cfg, err := newConfig([]Option{
		WithPartitionSize(7),
		WithTimeout(time.Second),
		WithPool(p),
		WithStopOnError(),
		WithPreserveOrder(),
		WithCancelOnTimeout(),
		WithMetrics(m),
		WithLogger(l),
		nil, // ignored
	})
	require.NoError(t, err)
	require.Equal(t, uint(7), cfg.PartitionSize)
	require.Equal(t, time.Second, cfg.Timeout)
	require.Same(t, p, cfg.Pool)
	require.True(t, cfg.StopOnError)
	require.True(t, cfg.PreserveOrder)
	require.True(t, cfg.CancelOnTimeout)
	require.Same(t, m, cfg.Metrics)
	require.Same(t, l, cfg.Logger)
}

func TestNewConfig_InvalidOptions(t *testing.T) {
	p := pool.NewDynamic()
	defer p.Close()

	tests := []struct {
		name string
		opts []Option
	}{
		{name: "zero partition size", opts: []Option{WithPartitionSize(0)}},
		{name: "negative timeout", opts: []Option{WithTimeout(-time.Millisecond)}},
		{name: "nil pool", opts: []Option{WithPool(nil)}},
		{name: "zero fixed pool", opts: []Option{WithFixedPool(0)}},
		{name: "nil metrics", opts: []Option{WithMetrics(nil)}},
		{name: "nil logger", opts: []Option{WithLogger(nil)}},
		{name: "shared and fixed pool together", opts: []Option{WithPool(p), WithFixedPool(2)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := newConfig(tt.opts)
			require.ErrorIs(t, err, ErrInvalidConfig)
			require.Nil(t, cfg)
		})
	}
}

func TestDefaultPartitionSize_Positive(t *testing.T) {
	require.Positive(t, defaultPartitionSize())
}
