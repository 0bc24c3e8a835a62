package pool

import "sync"

// fixed runs submissions on a constant set of long-lived workers. Pending work
// waits in an unbounded FIFO queue, so Submit never blocks the caller.
type fixed struct {
	workers int

	mu     sync.Mutex
	ready  *sync.Cond
	queue  []func()
	closed bool
	wg     sync.WaitGroup
}

// NewFixed returns a pool of capacity workers. A capacity of zero is promoted to one.
func NewFixed(capacity uint) Pool {
	if capacity == 0 {
		capacity = 1
	}
	p := &fixed{workers: int(capacity)}
	p.ready = sync.NewCond(&p.mu)
	p.wg.Add(p.workers)
	for i := 0; i < p.workers; i++ {
		go p.run()
	}
	return p
}

func (p *fixed) run() {
	defer p.wg.Done()
	for {
		fn, ok := p.next()
		if !ok {
			return
		}
		fn()
	}
}

// next blocks until work is queued. ok is false once the pool is closed and drained.
func (p *fixed) next() (fn func(), ok bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for len(p.queue) == 0 && !p.closed {
		p.ready.Wait()
	}
	if len(p.queue) == 0 {
		return nil, false
	}
	fn = p.queue[0]
	p.queue[0] = nil
	p.queue = p.queue[1:]
	return fn, true
}

// Submit queues fn and returns immediately, even when every worker is busy.
func (p *fixed) Submit(fn func()) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return ErrClosed
	}
	p.queue = append(p.queue, fn)
	p.ready.Signal()
	return nil
}

// Pending returns the number of queued functions no worker has picked up yet.
func (p *fixed) Pending() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.queue)
}

func (p *fixed) Size() int { return p.workers }

// Close stops accepting work, lets the workers drain the queue and waits for them.
func (p *fixed) Close() {
	p.mu.Lock()
	if !p.closed {
		p.closed = true
		p.ready.Broadcast()
	}
	p.mu.Unlock()
	p.wg.Wait()
}
