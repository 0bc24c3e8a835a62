package parfor

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"
)

// Call turns a begin/end style asynchronous operation into a blocking Wait.
//
// begin starts the operation and returns a channel closed when it completes.
// end collects the outcome; Wait runs it exactly once, after the completion
// channel is closed. Further Wait calls return the recorded error.
type Call[R any] struct {
	begin func() (<-chan struct{}, error)
	end   func() (R, error)

	mu      sync.Mutex
	invoked bool
	done    <-chan struct{}

	once      sync.Once
	completed atomic.Bool
	result    R
	err       error
}

// NewCall prepares a call. Nothing starts until Invoke.
func NewCall[R any](begin func() (<-chan struct{}, error), end func() (R, error)) *Call[R] {
	return &Call[R]{begin: begin, end: end}
}

// Invoke starts the operation. A call can only be invoked successfully once.
func (c *Call[R]) Invoke() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.invoked {
		return ErrAlreadyInvoked
	}
	done, err := c.begin()
	if err != nil {
		return err
	}
	c.done = done
	c.invoked = true
	return nil
}

// Wait blocks until the operation completes and returns its error. If timeout is
// positive and elapses first, Wait returns ErrTimeout and the call stays pending.
func (c *Call[R]) Wait(timeout time.Duration) error {
	if c.completed.Load() {
		return c.err
	}

	c.mu.Lock()
	done, invoked := c.done, c.invoked
	c.mu.Unlock()
	if !invoked {
		return ErrNotInvoked
	}

	if timeout > 0 {
		t := time.NewTimer(timeout)
		defer t.Stop()
		select {
		case <-done:
		case <-t.C:
			return fmt.Errorf("%w after %s", ErrTimeout, timeout)
		}
	} else {
		<-done
	}

	c.once.Do(func() {
		c.result, c.err = guard(c.end)
		c.completed.Store(true)
	})
	return c.err
}

// Done reports whether Wait has observed completion.
func (c *Call[R]) Done() bool { return c.completed.Load() }

// Result returns the value produced by the end step, or the zero value while the
// call is pending.
func (c *Call[R]) Result() R {
	if !c.completed.Load() {
		var zero R
		return zero
	}
	return c.result
}

// Err returns the error produced by the end step, or nil while the call is pending.
func (c *Call[R]) Err() error {
	if !c.completed.Load() {
		return nil
	}
	return c.err
}
