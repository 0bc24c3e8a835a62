package parfor

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ygrebnov/parfor/pool"
)

func TestCall_EndRunsOnce(t *testing.T) {
	var ends atomic.Int64
	done := make(chan struct{})
	c := NewCall(
		func() (<-chan struct{}, error) { return done, nil },
		func() (int, error) { ends.Add(1); return 42, nil },
	)
	require.NoError(t, c.Invoke())
	require.False(t, c.Done())
	require.Zero(t, c.Result())
	require.NoError(t, c.Err())

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, c.Wait(0))
		}()
	}
	close(done)
	wg.Wait()

	require.NoError(t, c.Wait(time.Millisecond))
	require.Equal(t, int64(1), ends.Load())
	require.True(t, c.Done())
	require.Equal(t, 42, c.Result())
}

func TestCall_WaitTimeout(t *testing.T) {
	done := make(chan struct{})
	c := NewCall(
		func() (<-chan struct{}, error) { return done, nil },
		func() (string, error) { return "", errors.New("failed") },
	)
	require.NoError(t, c.Invoke())

	err := c.Wait(10 * time.Millisecond)
	require.ErrorIs(t, err, ErrTimeout)
	require.False(t, c.Done())

	close(done)
	err = c.Wait(time.Second)
	require.EqualError(t, err, "failed")
	require.EqualError(t, c.Err(), "failed")
}

func TestCall_InvokeStates(t *testing.T) {
	c := NewCall(
		func() (<-chan struct{}, error) { return nil, nil },
		func() (int, error) { return 0, nil },
	)
	require.ErrorIs(t, c.Wait(0), ErrNotInvoked)

	attempts := 0
	begin := errors.New("begin failed")
	c = NewCall(
		func() (<-chan struct{}, error) {
			attempts++
			if attempts == 1 {
				return nil, begin
			}
			ch := make(chan struct{})
			close(ch)
			return ch, nil
		},
		func() (int, error) { return 1, nil },
	)
	require.ErrorIs(t, c.Invoke(), begin)
	require.ErrorIs(t, c.Wait(0), ErrNotInvoked)

	require.NoError(t, c.Invoke())
	require.ErrorIs(t, c.Invoke(), ErrAlreadyInvoked)
	require.NoError(t, c.Wait(0))
	require.Equal(t, 1, c.Result())
}

func TestCall_EndPanics(t *testing.T) {
	ch := make(chan struct{})
	close(ch)
	c := NewCall(
		func() (<-chan struct{}, error) { return ch, nil },
		func() (int, error) { panic("end") },
	)
	require.NoError(t, c.Invoke())
	require.ErrorIs(t, c.Wait(0), ErrItemPanicked)
}

func TestSubmit(t *testing.T) {
	p := pool.NewFixed(2)
	defer p.Close()

	t.Run("result", func(t *testing.T) {
		c, err := Submit(context.Background(), p, func(context.Context) (string, error) { return "ok", nil })
		require.NoError(t, err)
		require.NoError(t, c.Wait(time.Second))
		require.Equal(t, "ok", c.Result())
	})

	t.Run("error", func(t *testing.T) {
		boom := errors.New("boom")
		c, err := Submit(context.Background(), p, func(context.Context) (int, error) { return 0, boom })
		require.NoError(t, err)
		require.ErrorIs(t, c.Wait(0), boom)
	})

	t.Run("panic", func(t *testing.T) {
		c, err := Submit(context.Background(), p, func(context.Context) (int, error) { panic("x") })
		require.NoError(t, err)
		require.ErrorIs(t, c.Wait(0), ErrItemPanicked)
	})

	t.Run("timeout", func(t *testing.T) {
		release := make(chan struct{})
		c, err := Submit(context.Background(), p, func(context.Context) (int, error) {
			<-release
			return 3, nil
		})
		require.NoError(t, err)
		require.ErrorIs(t, c.Wait(5*time.Millisecond), ErrTimeout)
		close(release)
		require.NoError(t, c.Wait(0))
		require.Equal(t, 3, c.Result())
	})

	t.Run("context passed", func(t *testing.T) {
		type key struct{}
		ctx := context.WithValue(context.Background(), key{}, 9)
		c, err := Submit(ctx, p, func(ctx context.Context) (int, error) { return ctx.Value(key{}).(int), nil })
		require.NoError(t, err)
		require.NoError(t, c.Wait(0))
		require.Equal(t, 9, c.Result())
	})
}

func TestSubmit_InvalidArguments(t *testing.T) {
	_, err := Submit[int](context.Background(), pool.NewDynamic(), nil)
	require.ErrorIs(t, err, ErrNilBody)

	_, err = Submit(context.Background(), nil, func(context.Context) (int, error) { return 0, nil })
	require.ErrorIs(t, err, ErrInvalidConfig)

	closed := pool.NewDynamic()
	closed.Close()
	_, err = Submit(context.Background(), closed, func(context.Context) (int, error) { return 0, nil })
	require.ErrorIs(t, err, ErrSubmit)
	require.ErrorIs(t, err, pool.ErrClosed)
}
