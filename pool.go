package circularprogress

import "sync"

// poolMax caps the number of pendingUpdate values kept for reuse.
const poolMax = 24

// pendingUpdate records one buffered progress refresh: the raw value
// handed to SetProgress before clamping. Updates are queued when
// SetProgress runs off the render goroutine and drained in FIFO order by
// the deferred dispatch or by the next attach.
type pendingUpdate struct {
	value int
}

// updatePool manages a bounded free list of reusable pendingUpdate
// values. Get falls back to allocation when the list is empty; Put
// discards updates once the list is full.
//
// Usage:
//
//	u := pool.Get(42)
//	// queue u, drain it later...
//	pool.Put(u)
type updatePool struct {
	mu   sync.Mutex
	free []*pendingUpdate
}

// newUpdatePool creates a pool that keeps at most max updates for reuse.
func newUpdatePool(max int) *updatePool {
	if max < 0 {
		max = 0
	}
	return &updatePool{free: make([]*pendingUpdate, 0, max)}
}

// Get retrieves an update carrying value, reusing a released one when
// available.
func (p *updatePool) Get(value int) *pendingUpdate {
	p.mu.Lock()
	defer p.mu.Unlock()
	n := len(p.free)
	if n == 0 {
		return &pendingUpdate{value: value}
	}
	u := p.free[n-1]
	p.free = p.free[:n-1]
	u.value = value
	return u
}

// Put returns an update to the pool for reuse. Updates beyond the pool
// capacity are left to the garbage collector.
func (p *updatePool) Put(u *pendingUpdate) {
	if u == nil {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.free) < cap(p.free) {
		p.free = append(p.free, u)
	}
}

// updates is the package-wide pool shared by all bars.
var updates = newUpdatePool(poolMax)
