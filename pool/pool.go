// Package pool provides the worker pools that execute loop items out of band.
package pool

import "errors"

// ErrClosed is returned by Submit once the pool has been closed.
var ErrClosed = errors.New("pool: closed")

// Pool is an interface that defines methods on a pool of workers.
type Pool interface {
	// Submit hands fn to the pool and returns without waiting for a free worker.
	Submit(fn func()) error

	// Size returns the maximum number of concurrently running workers, or 0 if unbounded.
	Size() int

	// Close stops accepting work and waits for already accepted work to finish.
	Close()
}
