package parfor

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/ygrebnov/parfor/metrics"
	"github.com/ygrebnov/parfor/pool"
)

// execution is the state shared by every invocation of one loop call: the
// aggregator, the pool and the instruments. Invocations only read it, apart from
// the lock-protected aggregator and the instruments themselves.
type execution[R any] struct {
	cfg  *config
	kind string
	agg  *Aggregator[R]
	log  *slog.Logger

	pool      pool.Pool
	ownsPool  bool
	abandoned bool

	submitted  metrics.Counter
	completed  metrics.Counter
	failed     metrics.Counter
	inflight   metrics.UpDownCounter
	duration   metrics.Histogram
	partitions metrics.Counter
	timeouts   metrics.Counter
}

// newExecution wires the instruments and, when withPool is set, resolves the pool
// range loops submit to.
func newExecution[R any](cfg *config, kind string, withPool bool) *execution[R] {
	m := cfg.Metrics
	e := &execution[R]{
		cfg:  cfg,
		kind: kind,
		agg:  newAggregator[R](cfg.PreserveOrder),
		log:  cfg.Logger.With("loop", kind),

		submitted:  m.Counter(metrics.UnitsSubmitted, metrics.WithDescription("Loop items dispatched for execution")),
		completed:  m.Counter(metrics.UnitsCompleted, metrics.WithDescription("Loop items that finished, successfully or not")),
		failed:     m.Counter(metrics.UnitsFailed, metrics.WithDescription("Loop items that returned an error or panicked")),
		inflight:   m.UpDownCounter(metrics.UnitsInflight, metrics.WithDescription("Loop items currently executing")),
		duration:   m.Histogram(metrics.UnitDuration, metrics.WithDescription("Loop item execution time"), metrics.WithUnit("seconds")),
		partitions: m.Counter(metrics.Partitions, metrics.WithDescription("Partitions armed by loop calls")),
		timeouts:   m.Counter(metrics.PartitionTimeouts, metrics.WithDescription("Partitions whose wait timed out")),
	}

	if !withPool {
		return e
	}
	switch {
	case cfg.Pool != nil:
		e.pool = cfg.Pool
	case cfg.FixedPoolSize > 0:
		e.pool, e.ownsPool = pool.NewFixed(cfg.FixedPoolSize), true
	default:
		e.pool, e.ownsPool = pool.NewDynamic(), true
	}
	return e
}

// close releases a call-owned pool. Items abandoned by a timed out or cancelled
// wait may still be running, so the pool is then drained in the background.
func (e *execution[R]) close() {
	if !e.ownsPool {
		return
	}
	if e.abandoned {
		go e.pool.Close()
		return
	}
	e.pool.Close()
}

// submit hands a bound invocation to the pool.
func (e *execution[R]) submit(run func()) error {
	if err := e.pool.Submit(run); err != nil {
		e.log.Error("submit failed", "error", err)
		return fmt.Errorf("%w: %w", ErrSubmit, err)
	}
	e.submitted.Add(1)
	return nil
}

// partitionContext returns the context handed to a partition's items. With
// CancelOnTimeout it is cancelled once the partition wait returns.
func (e *execution[R]) partitionContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if e.cfg.CancelOnTimeout {
		return context.WithCancel(ctx)
	}
	return ctx, func() {}
}

func (e *execution[R]) armed(partition, size int) {
	e.partitions.Add(1)
	e.log.Debug("partition armed", "partition", partition, "size", size)
}

// joined records the end of a partition wait.
func (e *execution[R]) joined(partition, items int, released bool, err error, waited time.Duration) {
	if released {
		e.log.Debug("partition joined", "partition", partition, "items", items, "waited", waited)
		return
	}
	e.abandoned = true
	if err != nil {
		e.log.Warn("partition wait cancelled", "partition", partition, "items", items, "error", err)
		return
	}
	e.timeouts.Add(1)
	e.log.Warn("partition wait timed out; items left running",
		"partition", partition, "items", items, "timeout", e.cfg.Timeout,
		"cancel", e.cfg.CancelOnTimeout)
}

// stopAfterError reports whether WithStopOnError should end the loop. cause is
// the partition's first item error when the caller knows it; otherwise any
// recorded failure, including one from an abandoned item, counts.
func (e *execution[R]) stopAfterError(partition int, cause error) bool {
	if !e.cfg.StopOnError {
		return false
	}
	if cause == nil && !e.agg.Failed() {
		return false
	}
	e.log.Info("stopping after item failure", "partition", partition, "error", cause)
	return true
}

func (e *execution[R]) started() { e.inflight.Add(1) }

func (e *execution[R]) finished(d time.Duration) {
	e.inflight.Add(-1)
	e.duration.Record(d.Seconds())
	e.completed.Add(1)
	e.agg.markCompleted()
}

func (e *execution[R]) fail(err error) {
	e.failed.Add(1)
	e.agg.addError(err)
}
