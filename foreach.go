package parfor

import (
	"context"
	"iter"
	"time"

	"golang.org/x/sync/errgroup"
)

// ForEach calls body for every element of source, in chunks of the partition size.
//
// Unlike For, every element of a chunk runs on a goroutine of its own rather than
// on the worker pool; the chunk is joined (bounded by the timeout) before the next
// chunk is read from source. Item failures are collected in the returned Aggregator.
func ForEach[T any](
	ctx context.Context, source iter.Seq[T], body func(context.Context, T) error, opts ...Option,
) (*Aggregator[struct{}], error) {
	if body == nil {
		return nil, ErrNilBody
	}
	call := func(c context.Context, v T) (struct{}, error) { return struct{}{}, body(c, v) }
	return runEach(ctx, source, call, false, opts)
}

// MapEach is ForEach for bodies that produce a value.
func MapEach[T, R any](
	ctx context.Context, source iter.Seq[T], fn func(context.Context, T) (R, error), opts ...Option,
) (*Aggregator[R], error) {
	if fn == nil {
		return nil, ErrNilBody
	}
	return runEach(ctx, source, fn, true, opts)
}

func runEach[T, R any](
	ctx context.Context, source iter.Seq[T], call func(context.Context, T) (R, error), keepResult bool, opts []Option,
) (*Aggregator[R], error) {
	if source == nil {
		return nil, ErrNilSource
	}
	cfg, err := newConfig(opts)
	if err != nil {
		return nil, err
	}

	ex := newExecution[R](cfg, "sequence", false)
	tmpl := newInvocation(ex, call, keepResult)

	index, partition := 0, 0
	for chunk := range Chunk(source, int(cfg.PartitionSize)) {
		if err := ctx.Err(); err != nil {
			return ex.agg, err
		}

		itemCtx, cancel := ex.partitionContext(ctx)
		ex.armed(partition, len(chunk))

		// Items report their error to the group as well as to the aggregator, so the
		// join yields the chunk's first failure.
		var g errgroup.Group
		for _, v := range chunk {
			u := tmpl.bind(itemCtx, v, index, partition, nil)
			ex.submitted.Add(1)
			g.Go(u.run)
			index++
		}

		var chunkErr error
		joined := make(chan struct{})
		go func() {
			chunkErr = g.Wait()
			close(joined)
		}()

		start := time.Now()
		released, err := await(ctx, joined, cfg.Timeout)
		ex.joined(partition, len(chunk), released, err, time.Since(start))
		cancel()
		if err != nil {
			return ex.agg, err
		}
		var cause error
		if released {
			cause = chunkErr
		}
		if ex.stopAfterError(partition, cause) {
			break
		}
		partition++
	}
	return ex.agg, nil
}
