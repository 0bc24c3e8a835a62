package parfor

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// Barrier is a countdown latch sized to one partition.
//
// Every dispatched item signals it exactly once; slots that were never filled are
// accounted for with Skip. Waiters are released when the count reaches zero or
// when Release forces it there. A Barrier is never reused across partitions.
type Barrier struct {
	mu        sync.Mutex
	size      int
	remaining int
	signals   int
	forced    bool
	done      chan struct{}
}

// NewBarrier arms a barrier expecting n signals. A barrier armed with zero is
// released immediately.
func NewBarrier(n int) *Barrier {
	if n < 0 {
		panic(fmt.Sprintf("%s: negative barrier size %d", Namespace, n))
	}
	b := &Barrier{size: n, remaining: n, done: make(chan struct{})}
	if n == 0 {
		close(b.done)
	}
	return b
}

// Signal records one completion.
//
// Signalling a barrier that already counted down on its own is a programming
// error and panics. Signals that arrive after Release are ignored: they come from
// items that were abandoned when their partition stopped waiting.
func (b *Barrier) Signal() {
	b.countDown(1)
}

// Skip accounts for n slots that will never be filled.
func (b *Barrier) Skip(n int) {
	if n <= 0 {
		return
	}
	b.countDown(n)
}

func (b *Barrier) countDown(n int) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.forced {
		return
	}
	if n > b.remaining {
		panic(fmt.Sprintf("%s: barrier over-signalled: %d more signals, %d remaining of %d",
			Namespace, n, b.remaining, b.size))
	}
	b.remaining -= n
	b.signals += n
	if b.remaining == 0 {
		close(b.done)
	}
}

// Release forces the count to zero and wakes all waiters.
func (b *Barrier) Release() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.forced || b.remaining == 0 {
		b.forced = true
		return
	}
	b.forced = true
	b.remaining = 0
	close(b.done)
}

// Wait blocks until the barrier is released, timeout elapses or ctx is done.
// A non-positive timeout waits without bound. It reports whether the barrier
// was released; a timeout is not an error.
func (b *Barrier) Wait(ctx context.Context, timeout time.Duration) (bool, error) {
	return await(ctx, b.done, timeout)
}

// await blocks until done is closed, timeout elapses or ctx is done.
func await(ctx context.Context, done <-chan struct{}, timeout time.Duration) (bool, error) {
	select {
	case <-done:
		return true, nil
	default:
	}

	var expired <-chan time.Time
	if timeout > 0 {
		t := time.NewTimer(timeout)
		defer t.Stop()
		expired = t.C
	}

	select {
	case <-done:
		return true, nil
	case <-expired:
		return false, nil
	case <-ctx.Done():
		return false, ctx.Err()
	}
}

// Done returns a channel closed once the barrier is released.
func (b *Barrier) Done() <-chan struct{} { return b.done }

// Remaining returns the number of outstanding signals.
func (b *Barrier) Remaining() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.remaining
}

// Signals returns the number of signals and skipped slots counted so far.
func (b *Barrier) Signals() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.signals
}
