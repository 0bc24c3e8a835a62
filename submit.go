package parfor

import (
	"context"
	"fmt"

	"github.com/ygrebnov/errorc"

	"github.com/ygrebnov/parfor/pool"
)

// Submit runs fn on p without waiting for it. The returned Call is already
// invoked; use Wait to block for the outcome. A panic in fn is reported as
// ErrItemPanicked.
func Submit[R any](ctx context.Context, p pool.Pool, fn func(context.Context) (R, error)) (*Call[R], error) {
	if fn == nil {
		return nil, ErrNilBody
	}
	if p == nil {
		return nil, errorc.With(ErrInvalidConfig, errorc.String("", "Submit requires a non-nil pool"))
	}

	var (
		res  R
		err  error
		done = make(chan struct{})
	)
	c := NewCall(
		func() (<-chan struct{}, error) {
			submitErr := p.Submit(func() {
				defer close(done)
				res, err = guard(func() (R, error) { return fn(ctx) })
			})
			if submitErr != nil {
				return nil, fmt.Errorf("%w: %w", ErrSubmit, submitErr)
			}
			return done, nil
		},
		func() (R, error) { return res, err },
	)
	if invokeErr := c.Invoke(); invokeErr != nil {
		return nil, invokeErr
	}
	return c, nil
}
