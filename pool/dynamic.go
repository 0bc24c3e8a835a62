package pool

import "sync"

// dynamic starts a goroutine per submission.
type dynamic struct {
	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
}

// NewDynamic returns a pool without a concurrency bound.
func NewDynamic() Pool {
	return &dynamic{}
}

func (p *dynamic) Submit(fn func()) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return ErrClosed
	}
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		fn()
	}()
	return nil
}

func (p *dynamic) Size() int { return 0 }

func (p *dynamic) Close() {
	p.mu.Lock()
	p.closed = true
	p.mu.Unlock()
	p.wg.Wait()
}
