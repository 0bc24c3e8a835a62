package parfor

import (
	"errors"
	"slices"
	"sync"
	"sync/atomic"
)

// Aggregator collects the outcome of one loop call.
//
// Errors and results are appended in completion order as items finish, each
// list under its own lock. Readers get snapshots; items abandoned by a timed out
// partition may still append after the loop call has returned.
type Aggregator[R any] struct {
	errMu sync.Mutex
	errs  []error

	resMu   sync.Mutex
	results []indexed[R]

	completed     atomic.Int64
	preserveOrder bool
}

type indexed[R any] struct {
	index int
	val   R
}

func newAggregator[R any](preserveOrder bool) *Aggregator[R] {
	return &Aggregator[R]{preserveOrder: preserveOrder}
}

func (a *Aggregator[R]) addError(err error) {
	a.errMu.Lock()
	a.errs = append(a.errs, err)
	a.errMu.Unlock()
}

func (a *Aggregator[R]) addResult(index int, r R) {
	a.resMu.Lock()
	a.results = append(a.results, indexed[R]{index: index, val: r})
	a.resMu.Unlock()
}

func (a *Aggregator[R]) markCompleted() { a.completed.Add(1) }

// Errors returns the recorded item errors in completion order.
func (a *Aggregator[R]) Errors() []error {
	a.errMu.Lock()
	defer a.errMu.Unlock()
	return slices.Clone(a.errs)
}

// Results returns the recorded results in completion order, or in input order
// when the loop ran with WithPreserveOrder.
func (a *Aggregator[R]) Results() []R {
	a.resMu.Lock()
	snapshot := slices.Clone(a.results)
	a.resMu.Unlock()

	if a.preserveOrder {
		slices.SortStableFunc(snapshot, func(x, y indexed[R]) int { return x.index - y.index })
	}
	out := make([]R, len(snapshot))
	for i, r := range snapshot {
		out[i] = r.val
	}
	return out
}

// Err joins the recorded item errors, or returns nil when every item succeeded.
func (a *Aggregator[R]) Err() error {
	return errors.Join(a.Errors()...)
}

// Completed returns the number of items that finished, successfully or not.
func (a *Aggregator[R]) Completed() int {
	return int(a.completed.Load())
}

// Failed reports whether any item error was recorded.
func (a *Aggregator[R]) Failed() bool {
	a.errMu.Lock()
	defer a.errMu.Unlock()
	return len(a.errs) > 0
}
