package parfor

import (
	"context"
	"time"
)

// For calls body for every v in [from, to) with step 1, in partitions.
//
// Up to the partition size of values are dispatched to the worker pool, then the
// caller waits for all of them (or for the timeout) before the next partition is
// dispatched. Item failures and panics are collected in the returned Aggregator
// and never stop sibling items. The returned error reports invalid arguments,
// a pool that refused work, or cancellation of ctx.
func For[T Number](
	ctx context.Context, from, to T, body func(context.Context, T) error, opts ...Option,
) (*Aggregator[struct{}], error) {
	return ForRange(ctx, Upto(from, to), body, opts...)
}

// ForRange is For over an arbitrary progression.
func ForRange[T Number](
	ctx context.Context, r Range[T], body func(context.Context, T) error, opts ...Option,
) (*Aggregator[struct{}], error) {
	if body == nil {
		return nil, ErrNilBody
	}
	call := func(c context.Context, v T) (struct{}, error) { return struct{}{}, body(c, v) }
	return runRange(ctx, r, call, false, opts)
}

// MapRange is ForRange for bodies that produce a value. Results are collected in
// completion order unless WithPreserveOrder is set.
func MapRange[T Number, R any](
	ctx context.Context, r Range[T], fn func(context.Context, T) (R, error), opts ...Option,
) (*Aggregator[R], error) {
	if fn == nil {
		return nil, ErrNilBody
	}
	return runRange(ctx, r, fn, true, opts)
}

func runRange[T Number, R any](
	ctx context.Context, r Range[T], call func(context.Context, T) (R, error), keepResult bool, opts []Option,
) (*Aggregator[R], error) {
	cfg, err := newConfig(opts)
	if err != nil {
		return nil, err
	}
	if r, err = r.normalize(); err != nil {
		return nil, err
	}

	ex := newExecution[R](cfg, "range", true)
	defer ex.close()

	tmpl := newInvocation(ex, call, keepResult)
	size := int(cfg.PartitionSize)

	current, more := r.From, r.holds(r.From)
	index := 0
	for partition := 0; more; partition++ {
		if err := ctx.Err(); err != nil {
			ex.abandoned = true
			return ex.agg, err
		}

		itemCtx, cancel := ex.partitionContext(ctx)
		b := NewBarrier(size)
		ex.armed(partition, size)

		filled := 0
		for filled < size && more {
			u := tmpl.bind(itemCtx, current, index, partition, b)
			if err := ex.submit(u.execute); err != nil {
				b.Release()
				cancel()
				ex.abandoned = true
				return ex.agg, err
			}
			filled++
			index++

			var ok bool
			current, ok = r.advance(current)
			more = ok && r.holds(current)
		}
		b.Skip(size - filled)

		start := time.Now()
		released, err := b.Wait(ctx, cfg.Timeout)
		ex.joined(partition, filled, released, err, time.Since(start))
		cancel()
		if err != nil {
			return ex.agg, err
		}
		if ex.stopAfterError(partition, nil) {
			break
		}
	}
	return ex.agg, nil
}
