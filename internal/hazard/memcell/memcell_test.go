package memcell

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestPlainScalarSingleGoroutine verifies the plain cell's uncontended
// semantics: within one goroutine, Load returns the last Store.
func TestPlainScalarSingleGoroutine(t *testing.T) {
	c := NewPlain[int64]()
	assert.Zero(t, c.Load(), "fresh cell must hold the zero value")

	c.Store(3)
	assert.Equal(t, int64(3), c.Load())

	c.Store(-7)
	assert.Equal(t, int64(-7), c.Load())
}

// TestBarrieredScalarZeroValue verifies that a barriered cell loads the
// zero value before any store, for each supported width.
func TestBarrieredScalarZeroValue(t *testing.T) {
	t.Run("int64", func(t *testing.T) {
		assert.Zero(t, NewBarriered[int64]().Load())
	})
	t.Run("bool", func(t *testing.T) {
		assert.False(t, NewBarriered[bool]().Load())
	})
	t.Run("uint32", func(t *testing.T) {
		assert.Zero(t, NewBarriered[uint32]().Load())
	})
}

// TestBarrieredScalarRoundTrip verifies store/load for scalar types.
func TestBarrieredScalarRoundTrip(t *testing.T) {
	c := NewBarriered[int64]()
	c.Store(42)
	assert.Equal(t, int64(42), c.Load())

	f := NewBarriered[bool]()
	f.Store(true)
	assert.True(t, f.Load())
}

// TestBarrieredScalarPublishes verifies the happens-before contract: a
// reader that observes the flag set must observe the payload stored
// before it.
func TestBarrieredScalarPublishes(t *testing.T) {
	const rounds = 10_000

	payload := NewBarriered[int64]()
	flag := NewBarriered[int64]()

	go func() {
		for g := int64(1); g <= rounds; g++ {
			payload.Store(g)
			flag.Store(g)
		}
	}()

	deadline := time.Now().Add(10 * time.Second)
	for time.Now().Before(deadline) {
		f := flag.Load()
		p := payload.Load()
		// payload was stored before flag, and both are monotone, so an
		// observed flag value bounds the payload from below.
		require.GreaterOrEqual(t, p, f, "flag visible before its payload")
		if f == rounds {
			return
		}
	}
	t.Fatal("writer did not finish within deadline")
}

// TestBarrieredWideNeverTorn hammers a barriered wide cell with
// alternating replicated payloads and verifies that no load ever
// observes a spliced value.
func TestBarrieredWideNeverTorn(t *testing.T) {
	c := NewBarrieredWide()
	done := make(chan struct{})

	go func() {
		defer close(done)
		for i := uint32(0); i < 200_000; i++ {
			c.Store(Replicate(i))
		}
	}()

	for {
		select {
		case <-done:
			return
		default:
		}
		v := c.Load()
		require.False(t, Spliced(v), "barriered wide cell returned spliced value %#x", v)
	}
}

// TestPlainWideSingleGoroutine verifies the plain wide cell's
// uncontended round trip.
func TestPlainWideSingleGoroutine(t *testing.T) {
	c := NewPlainWide()
	assert.Zero(t, c.Load())

	c.Store(0xDEADBEEF_00C0FFEE)
	assert.Equal(t, uint64(0xDEADBEEF_00C0FFEE), c.Load())
}

// TestReplicateSpliced covers the payload helpers.
func TestReplicateSpliced(t *testing.T) {
	tests := []struct {
		name    string
		v       uint64
		spliced bool
	}{
		{name: "zero", v: 0, spliced: false},
		{name: "replicated small", v: Replicate(1), spliced: false},
		{name: "replicated max", v: Replicate(0xFFFFFFFF), spliced: false},
		{name: "mixed halves", v: 1<<32 | 2, spliced: true},
		{name: "high half only", v: 5 << 32, spliced: true},
		{name: "low half only", v: 5, spliced: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.spliced, Spliced(tt.v))
		})
	}
}

// BenchmarkPlainLoad measures the uncontended plain load.
func BenchmarkPlainLoad(b *testing.B) {
	c := NewPlain[int64]()
	c.Store(1)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = c.Load()
	}
}

// BenchmarkBarrieredWideStore measures the publication barrier cost.
func BenchmarkBarrieredWideStore(b *testing.B) {
	c := NewBarrieredWide()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		c.Store(Replicate(uint32(i)))
	}
}
