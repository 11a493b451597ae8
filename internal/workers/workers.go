package workers

import (
	"context"
	"runtime"
)

// Count returns a worker count of multiplier × GOMAXPROCS, at least 1 and at
// most limit (0 means no limit). A positive override replaces the computed
// value but is still capped by limit.
func Count(override int, multiplier float64, limit int) int {
	n := override
	if n <= 0 {
		n = int(float64(runtime.GOMAXPROCS(0)) * multiplier)
	}
	if n < 1 {
		n = 1
	}
	if limit > 0 && n > limit {
		n = limit
	}
	return n
}

// ForCPU returns worker count for CPU-bound tasks (1 per CPU).
func ForCPU(override, limit int) int {
	return Count(override, 1.0, limit)
}

// ForIO returns worker count for I/O-bound tasks (2 per CPU).
func ForIO(override, limit int) int {
	return Count(override, 2.0, limit)
}

// Pool is a counting semaphore.
type Pool struct {
	slots chan struct{}
}

// NewPool creates a pool with size slots; size below 1 is treated as 1.
func NewPool(size int) *Pool {
	if size < 1 {
		size = 1
	}
	return &Pool{slots: make(chan struct{}, size)}
}

// Acquire blocks until a slot is free or ctx is done.
func (p *Pool) Acquire(ctx context.Context) error {
	select {
	case p.slots <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Release frees a slot taken by Acquire.
func (p *Pool) Release() {
	<-p.slots
}

// Size returns the number of slots.
func (p *Pool) Size() int {
	return cap(p.slots)
}

// InUse returns the number of slots currently held.
func (p *Pool) InUse() int {
	return len(p.slots)
}
