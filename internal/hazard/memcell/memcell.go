// Package memcell provides the shared memory cells used by the visibility
// demonstrations.
//
// A cell is the smallest unit of shared state in a demo: one primitive
// value stored by a writer goroutine and loaded by a reader goroutine.
// Two families are provided:
//
//   - Plain cells make NO cross-goroutine guarantee. A load that is
//     concurrent with (or follows) a store on another goroutine may
//     observe a stale value, and a plain wide cell may observe a value
//     spliced together from two different stores. This is the phenomenon
//     under study, not a bug: do not "fix" these types.
//
//   - Barriered cells publish every store with a happens-before edge: a
//     load that observes a store also observes everything sequenced
//     before that store, and wide values are loaded and stored
//     indivisibly.
//
// # Torn reads on 64-bit hosts
//
// Aligned 64-bit loads cannot tear on the 64-bit architectures Go
// supports, so a hardware torn read is not portably reproducible.
// [PlainWide] therefore models the multi-word case directly: the 64-bit
// payload is stored as two independent 32-bit halves. A reader that lands
// between the two half-stores observes a spliced value, which is exactly
// the torn read the plain contract permits.
//
// Cells are constructed per demo, shared by reference with the demo's
// actors, and become garbage when the demo completes. They are never
// package-level state, so independent trials cannot contaminate each
// other.
package memcell

import "sync/atomic"

// Value is the set of primitive-width types a scalar cell can hold.
type Value interface {
	~int32 | ~int64 | ~uint32 | ~uint64 | ~bool
}

// Cell is the contract shared by all scalar cells.
//
// Store records a new value; Load returns the most recently completed
// store from the perspective of the calling goroutine. How much "most
// recently completed" means across goroutines depends on the variant:
// see [Plain] and [Barriered].
type Cell[T Value] interface {
	// Store records v.
	Store(v T)

	// Load returns the value this goroutine observes.
	Load() T
}

// WideCell is the contract for cells holding a 64-bit payload, where
// indivisibility (or its absence) is the interesting property.
type WideCell interface {
	Store(v uint64)
	Load() uint64
}

// Plain is a scalar cell with no cross-goroutine guarantee.
//
// Stores and loads compile to ordinary memory operations. Nothing
// prevents the compiler or CPU from reordering them relative to other
// plain accesses, and nothing forces a store to propagate to another
// goroutine before that goroutine loads.
//
// Concurrent use from multiple goroutines is a data race by design.
type Plain[T Value] struct {
	v T
}

// NewPlain returns a plain cell holding the zero value.
func NewPlain[T Value]() *Plain[T] { return new(Plain[T]) }

// Store records v with no publication barrier.
func (c *Plain[T]) Store(v T) { c.v = v }

// Load returns whatever value the calling goroutine happens to observe,
// which may be stale relative to another goroutine's completed store.
func (c *Plain[T]) Load() T { return c.v }

// Barriered is a scalar cell whose stores establish a happens-before
// edge with the loads that observe them.
//
// If goroutine X stores values into several barriered cells and finally
// stores a flag, a goroutine that loads the flag and observes it set is
// guaranteed to observe the earlier stores as well — program-order store
// reordering is never visible through barriered cells.
type Barriered[T Value] struct {
	v atomic.Value
}

// NewBarriered returns a barriered cell holding the zero value.
func NewBarriered[T Value]() *Barriered[T] { return new(Barriered[T]) }

// Store publishes v.
func (c *Barriered[T]) Store(v T) { c.v.Store(v) }

// Load returns the published value, or the zero value if nothing has
// been stored yet.
func (c *Barriered[T]) Load() T {
	v, ok := c.v.Load().(T)
	if !ok {
		var zero T
		return zero
	}
	return v
}

// PlainWide is a 64-bit cell stored as two independent 32-bit halves.
//
// The two half-stores are separate plain memory operations, so a
// concurrent load can observe the high half of one store combined with
// the low half of another. Use [Spliced] to detect such values when the
// payload was built with [Replicate].
type PlainWide struct {
	hi uint32
	lo uint32
}

// NewPlainWide returns a plain wide cell holding zero.
func NewPlainWide() *PlainWide { return new(PlainWide) }

// Store records v as two separate half-stores, high half first.
func (c *PlainWide) Store(v uint64) {
	//nolint:gosec // G115: intentional truncation into 32-bit halves.
	c.hi = uint32(v >> 32)
	//nolint:gosec // G115: intentional truncation into 32-bit halves.
	c.lo = uint32(v)
}

// Load reassembles the two halves. The halves may come from different
// stores.
func (c *PlainWide) Load() uint64 {
	return uint64(c.hi)<<32 | uint64(c.lo)
}

// BarrieredWide is a 64-bit cell backed by a single atomic word.
// Loads and stores are indivisible and carry a happens-before edge.
type BarrieredWide struct {
	v atomic.Uint64
}

// NewBarrieredWide returns a barriered wide cell holding zero.
func NewBarrieredWide() *BarrieredWide { return new(BarrieredWide) }

// Store publishes v indivisibly.
func (c *BarrieredWide) Store(v uint64) { c.v.Store(v) }

// Load returns a fully-formed value, never a spliced one.
func (c *BarrieredWide) Load() uint64 { return c.v.Load() }

// Replicate builds a 64-bit payload with x in both halves. Every value a
// writer stores through Replicate has equal halves, so any observed
// value with unequal halves must have been spliced from two stores.
func Replicate(x uint32) uint64 {
	return uint64(x)<<32 | uint64(x)
}

// Spliced reports whether v mixes halves from two different Replicate
// payloads.
func Spliced(v uint64) bool {
	return uint32(v>>32) != uint32(v)
}
