// Package visibility implements the stale-read and torn-read
// demonstration.
//
// One writer goroutine publishes an ordered sequence of values into
// shared cells; one reader goroutine samples those cells concurrently.
// With plain cells the reader can observe the publication flag set while
// the payload cells still hold their initial values, or a wide value
// spliced from two different stores. With barriered cells neither
// observation is possible: every sample is a consistent snapshot.
//
// A single run proves nothing — both hazards are scheduler-dependent.
// The demo is meant to be run for many trials by the harness, and each
// trial performs many publish rounds so the hazard window is crossed
// with high probability per batch.
package visibility

import (
	"sync"

	"github.com/lthibault/log"
	atomicutil "go.uber.org/atomic"

	"github.com/kolkov/memhazard/internal/hazard/memcell"
)

// Demo lifecycle states.
const (
	StateInit int32 = iota
	StateRunning
	StateJoined
	StateReported
)

// Config parameterizes a single visibility trial.
//
// Callers are expected to validate Rounds before constructing a demo;
// the harness rejects non-positive values up front.
type Config struct {
	// Barriered selects the guarded cell variant. When false the demo
	// uses plain cells and the hazards are expected behavior.
	Barriered bool

	// Rounds is the number of publish sequences the writer performs.
	// Each round is one ordered write sequence: a, b, wide, then the
	// ok flag.
	Rounds int

	// Log receives per-trial diagnostics. Nil disables logging.
	Log log.Logger
}

// Result records what the reader observed during one trial.
type Result struct {
	// Rounds is the number of publish rounds the writer completed.
	Rounds int

	// Samples is the number of snapshots the reader took.
	Samples int

	// StaleFlags counts samples where ok was set but a payload cell
	// still held its initial value.
	StaleFlags int

	// TornReads counts samples where the wide value mixed halves from
	// two different stores.
	TornReads int

	// Inconsistent reports whether any sample was not a consistent
	// snapshot.
	Inconsistent bool
}

// Loggable formats the result as structured logging fields.
func (r Result) Loggable() map[string]interface{} {
	return log.F{
		"rounds":       r.Rounds,
		"samples":      r.Samples,
		"stale_flags":  r.StaleFlags,
		"torn_reads":   r.TornReads,
		"inconsistent": r.Inconsistent,
	}
}

// Demo wires a writer and a reader to one set of shared cells.
//
// The cells are owned by the demo and shared by reference with its two
// actors; a fresh Demo must be constructed for every trial so that
// trials stay independent.
type Demo struct {
	cfg Config

	a    memcell.Cell[int64]
	b    memcell.Cell[int64]
	ok   memcell.Cell[bool]
	wide memcell.WideCell

	state atomicutil.Int32
}

// New constructs a demo with zeroed cells of the configured variant.
func New(cfg Config) *Demo {
	d := &Demo{cfg: cfg}
	if cfg.Barriered {
		d.a = memcell.NewBarriered[int64]()
		d.b = memcell.NewBarriered[int64]()
		d.ok = memcell.NewBarriered[bool]()
		d.wide = memcell.NewBarrieredWide()
	} else {
		d.a = memcell.NewPlain[int64]()
		d.b = memcell.NewPlain[int64]()
		d.ok = memcell.NewPlain[bool]()
		d.wide = memcell.NewPlainWide()
	}
	return d
}

// State returns the demo's lifecycle state.
func (d *Demo) State() int32 { return d.state.Load() }

// Run executes one trial: it spawns the writer and reader, waits for
// both at the join barrier, and classifies the reader's observations.
//
// Run must be called at most once per Demo.
func (d *Demo) Run() Result {
	d.state.Store(StateRunning)

	var (
		wg    sync.WaitGroup
		res   Result
		start = make(chan struct{})
		done  = make(chan struct{})
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		defer close(done)
		<-start
		d.write()
	}()
	go func() {
		defer wg.Done()
		<-start
		res = d.observe(done)
	}()

	// Release both actors together so their active phases overlap.
	close(start)
	wg.Wait()
	d.state.Store(StateJoined)

	res.Rounds = d.cfg.Rounds
	res.Inconsistent = res.StaleFlags > 0 || res.TornReads > 0

	if d.cfg.Log != nil {
		d.cfg.Log.With(res).Debug("visibility trial complete")
	}
	d.state.Store(StateReported)
	return res
}

// write publishes the configured number of rounds. Round g stores
// a=g, b=2g, a wide payload with g replicated into both halves, and
// finally sets the ok flag. Values are monotone and never return to
// zero, so a reader sample that sees ok set alongside a zero payload
// has observed the flag before the stores sequenced ahead of it.
func (d *Demo) write() {
	for g := 1; g <= d.cfg.Rounds; g++ {
		d.a.Store(int64(g))
		d.b.Store(int64(2 * g))
		//nolint:gosec // G115: round counter fits 32 bits by construction.
		d.wide.Store(memcell.Replicate(uint32(g)))
		d.ok.Store(true)
	}
}

// observe samples the cells until the writer signals completion. The
// done channel is the only synchronization between the two actors, and
// it fires after the final round — during the measured phase the reader
// sees exactly what the cell variant guarantees, nothing more.
func (d *Demo) observe(done <-chan struct{}) Result {
	var res Result
	for {
		select {
		case <-done:
			return res
		default:
		}

		ok := d.ok.Load()
		a := d.a.Load()
		b := d.b.Load()
		w := d.wide.Load()

		res.Samples++
		if ok && (a == 0 || b == 0) {
			res.StaleFlags++
		}
		if memcell.Spliced(w) {
			res.TornReads++
		}
	}
}
