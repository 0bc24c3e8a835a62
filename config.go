package parfor

import (
	"io"
	"log/slog"
	"time"

	"github.com/ygrebnov/errorc"

	"github.com/ygrebnov/parfor/metrics"
	"github.com/ygrebnov/parfor/pool"
)

// config holds loop execution settings.
type config struct {
	// PartitionSize is the number of items submitted before the caller waits for them.
	// Default: the number of logical CPUs.
	PartitionSize uint

	// Timeout bounds every partition wait. Zero means no bound.
	// Default: 0
	Timeout time.Duration

	// Pool is a caller-owned worker pool shared between loops.
	// Default: nil (a dynamic pool is created per call)
	Pool pool.Pool

	// FixedPoolSize creates a call-owned bounded pool with that many workers.
	// Default: 0 (disabled)
	FixedPoolSize uint

	// StopOnError prevents the next partition from starting once an item has failed.
	// Default: false
	StopOnError bool

	// PreserveOrder makes Aggregator.Results report input order instead of completion order.
	// Default: false
	PreserveOrder bool

	// CancelOnTimeout cancels the context handed to a partition's items when its wait times out.
	// Without it timed out items keep running unattended.
	// Default: false
	CancelOnTimeout bool

	Metrics metrics.Provider
	Logger  *slog.Logger
}

// defaultConfig centralizes default values for config.
func defaultConfig() config {
	return config{
		PartitionSize:   defaultPartitionSize(),
		Timeout:         0,
		Pool:            nil,
		FixedPoolSize:   0,
		StopOnError:     false,
		PreserveOrder:   false,
		CancelOnTimeout: false,
		Metrics:         metrics.NewNoopProvider(),
		Logger:          slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// validateConfig checks cross-option invariants that single options cannot see.
func validateConfig(cfg *config) error {
	if cfg.PartitionSize == 0 {
		return errorc.With(ErrInvalidConfig, errorc.String("", "partition size must be > 0"))
	}
	if cfg.Pool != nil && cfg.FixedPoolSize > 0 {
		return errorc.With(ErrInvalidConfig, errorc.String("", "WithPool and WithFixedPool are mutually exclusive"))
	}
	return nil
}

// newConfig applies opts over the defaults.
func newConfig(opts []Option) (*config, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}
	if err := validateConfig(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Option configures a loop call.
type Option func(*config) error

// WithPartitionSize sets how many items are dispatched per partition (must be > 0).
func WithPartitionSize(n uint) Option {
	return func(cfg *config) error {
		if n == 0 {
			return errorc.With(ErrInvalidConfig, errorc.String("", "WithPartitionSize requires n > 0"))
		}
		cfg.PartitionSize = n
		return nil
	}
}

// WithTimeout bounds the wait for each partition. Zero disables the bound.
func WithTimeout(d time.Duration) Option {
	return func(cfg *config) error {
		if d < 0 {
			return errorc.With(ErrInvalidConfig, errorc.String("", "WithTimeout requires d >= 0"))
		}
		cfg.Timeout = d
		return nil
	}
}

// WithPool runs range loop items on p. The caller keeps ownership of p.
func WithPool(p pool.Pool) Option {
	return func(cfg *config) error {
		if p == nil {
			return errorc.With(ErrInvalidConfig, errorc.String("", "WithPool requires a non-nil pool"))
		}
		cfg.Pool = p
		return nil
	}
}

// WithFixedPool runs range loop items on a pool of n workers created for the call.
func WithFixedPool(n uint) Option {
	return func(cfg *config) error {
		if n == 0 {
			return errorc.With(ErrInvalidConfig, errorc.String("", "WithFixedPool requires n > 0"))
		}
		cfg.FixedPoolSize = n
		return nil
	}
}

// WithStopOnError stops starting new partitions after the first item failure.
func WithStopOnError() Option {
	return func(cfg *config) error { cfg.StopOnError = true; return nil }
}

// WithPreserveOrder reports results in input order.
func WithPreserveOrder() Option {
	return func(cfg *config) error { cfg.PreserveOrder = true; return nil }
}

// WithCancelOnTimeout cancels the context of items left running by a timed out partition.
func WithCancelOnTimeout() Option {
	return func(cfg *config) error { cfg.CancelOnTimeout = true; return nil }
}

// WithMetrics sets the metrics provider.
func WithMetrics(p metrics.Provider) Option {
	return func(cfg *config) error {
		if p == nil {
			return errorc.With(ErrInvalidConfig, errorc.String("", "WithMetrics requires a non-nil provider"))
		}
		cfg.Metrics = p
		return nil
	}
}

// WithLogger sets the structured logger used for partition lifecycle events.
func WithLogger(l *slog.Logger) Option {
	return func(cfg *config) error {
		if l == nil {
			return errorc.With(ErrInvalidConfig, errorc.String("", "WithLogger requires a non-nil logger"))
		}
		cfg.Logger = l
		return nil
	}
}
