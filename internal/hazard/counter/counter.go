// Package counter provides the shared counters used by the lost-update
// demonstrations.
//
// All counters expose the same two operations: an increment that returns
// the new value, and a read. The interesting difference is whether the
// increment's read-modify-write sequence is indivisible:
//
//   - [Plain] is not. Two goroutines can read the same value, both add
//     one, and both store — one update is silently lost.
//   - [CAS] retries a hardware CompareAndSwap until it wins, so no two
//     increments ever interleave destructively.
//   - [Mutex] wraps the read-modify-write in a critical section, which
//     satisfies the same invariant by mutual exclusion.
//
// Invariant for CAS and Mutex: after K completed increments from any
// number of goroutines, Value returns the initial value plus exactly K.
// Plain exists to show that invariant failing.
package counter

import (
	"sync"
	"sync/atomic"
)

// Counter is the contract shared by all counters in this package.
type Counter interface {
	// Inc adds one and returns the new value. Whether the underlying
	// read-modify-write is indivisible depends on the implementation.
	Inc() int64

	// Value returns the current count. Repeated calls with no
	// intervening increment return the same value.
	Value() int64
}

// Plain counts with an unsynchronized read-modify-write.
//
// Concurrent use is a data race by design: increments from multiple
// goroutines interleave and updates are lost. Do not add
// synchronization here — the lost updates are the demonstration.
type Plain struct {
	v int64
}

// NewPlain returns a plain counter at zero.
func NewPlain() *Plain { return new(Plain) }

// Inc performs a plain v++ — three discrete steps (read, add, write)
// that another goroutine's steps can interleave with.
func (c *Plain) Inc() int64 {
	c.v++
	return c.v
}

// Value returns the count as a plain read.
func (c *Plain) Value() int64 { return c.v }

// CAS counts with a CompareAndSwap retry loop.
//
// Each increment loads the current value, computes the successor, and
// attempts to install it. A failed swap means another goroutine's
// increment landed in between; the loop re-reads and retries. Retries
// are bounded only by contention — the loop never gives up, and some
// goroutine always makes progress.
type CAS struct {
	v atomic.Int64
}

// NewCAS returns a CAS counter at zero.
func NewCAS() *CAS { return new(CAS) }

// Inc atomically adds one and returns the new value.
func (c *CAS) Inc() int64 {
	for {
		old := c.v.Load()
		if c.v.CompareAndSwap(old, old+1) {
			return old + 1
		}
	}
}

// Value returns a fully-formed current value, consistent with the
// happens-before order of all completed increments it does not precede.
func (c *CAS) Value() int64 { return c.v.Load() }

// Mutex counts inside a mutex-guarded critical section.
//
// Functionally equivalent to [CAS]: the no-lost-update invariant holds
// either way, the mechanism is an implementation detail.
type Mutex struct {
	mu sync.Mutex
	v  int64
}

// NewMutex returns a mutex counter at zero.
func NewMutex() *Mutex { return new(Mutex) }

// Inc adds one under the lock and returns the new value.
func (c *Mutex) Inc() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.v++
	return c.v
}

// Value reads the count under the lock.
func (c *Mutex) Value() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.v
}
