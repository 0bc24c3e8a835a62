package parfor

import (
	"context"
	"fmt"
	"time"
)

// invocation is one packaged call of the loop body.
//
// The template built by newInvocation carries the body and its owner; bind clones
// it and fills the per-item slot. A bound invocation executes once and signals its
// barrier (if any) exactly once, whatever the body does.
type invocation[T, R any] struct {
	call       func(context.Context, T) (R, error)
	keepResult bool
	owner      *execution[R]

	ctx       context.Context
	value     T
	index     int
	partition int
	barrier   *Barrier
}

// newInvocation builds the template. The owner is required so a bound invocation
// can always route its outcome and completion signal.
func newInvocation[T, R any](owner *execution[R], call func(context.Context, T) (R, error), keepResult bool) invocation[T, R] {
	if owner == nil {
		panic(Namespace + ": invocation requires an owning execution")
	}
	return invocation[T, R]{call: call, keepResult: keepResult, owner: owner}
}

// bind returns an independent copy of the template for a single item.
func (t invocation[T, R]) bind(ctx context.Context, value T, index, partition int, b *Barrier) *invocation[T, R] {
	u := t
	u.ctx = ctx
	u.value = value
	u.index = index
	u.partition = partition
	u.barrier = b
	return &u
}

// execute runs the body on the calling goroutine and reports the outcome to the owner.
func (u *invocation[T, R]) execute() { _ = u.run() }

// run is execute that also returns the recorded item error.
func (u *invocation[T, R]) run() error {
	if u.barrier != nil {
		defer u.barrier.Signal()
	}
	u.owner.started()
	start := time.Now()
	res, err := guard(func() (R, error) { return u.call(u.ctx, u.value) })
	u.owner.finished(time.Since(start))

	if err != nil {
		err = newItemError(err, u.value, u.index, u.partition)
		u.owner.fail(err)
		return err
	}
	if u.keepResult {
		u.owner.agg.addResult(u.index, res)
	}
	return nil
}

// guard calls fn and converts a panic into ErrItemPanicked.
func guard[R any](fn func() (R, error)) (res R, err error) {
	defer func() {
		if p := recover(); p != nil {
			var zero R
			res, err = zero, fmt.Errorf("%w: %v", ErrItemPanicked, p)
		}
	}()
	return fn()
}
