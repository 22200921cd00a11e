// Package counterdemo implements the lost-update demonstration.
//
// N actor goroutines each perform K sequential increments on one shared
// counter. With the guarded (CompareAndSwap) counter the final value is
// exactly N*K on every run. With the plain counter, concurrent
// read-modify-write sequences interleave and the final value is
// frequently smaller — the lost-update hazard.
package counterdemo

import (
	"fmt"

	"github.com/lthibault/log"
	atomicutil "go.uber.org/atomic"
	"golang.org/x/sync/errgroup"

	"github.com/kolkov/memhazard/internal/hazard/counter"
)

// Demo lifecycle states.
const (
	StateInit int32 = iota
	StateRunning
	StateJoined
	StateReported
)

// Config parameterizes a single counter trial.
//
// Callers are expected to validate Actors and Increments before
// constructing a demo; the harness rejects non-positive values up front.
type Config struct {
	// Guarded selects the CompareAndSwap counter. When false the demo
	// uses the plain counter and lost updates are expected behavior.
	Guarded bool

	// Actors is the number of concurrent incrementing goroutines.
	Actors int

	// Increments is the number of sequential increments per actor.
	Increments int

	// Log receives per-trial diagnostics. Nil disables logging.
	Log log.Logger

	// fault, when set, is invoked by each actor before it increments.
	// A non-nil return aborts that actor. Test hook only.
	fault func(actor int) error
}

// ActorError reports that an actor aborted before completing its
// increments. A trial with a failed actor has no valid expected value
// and must be reported as failed, never as a hazard observation.
type ActorError struct {
	Actor int
	Err   error
}

// Error implements the error interface.
func (e *ActorError) Error() string {
	return fmt.Sprintf("actor %d: %v", e.Actor, e.Err)
}

// Unwrap returns the underlying cause.
func (e *ActorError) Unwrap() error { return e.Err }

// Result records the outcome of one trial.
type Result struct {
	// Final is the counter value observed after the join barrier.
	Final int64

	// Expected is Actors * Increments.
	Expected int64

	// Completed is the number of increments actors finished, counted
	// out-of-band. It equals Expected whenever no actor failed, even
	// when Final is smaller because updates were lost.
	Completed int64

	// Lost is max(Expected-Final, 0) for clean trials.
	Lost int64
}

// Loggable formats the result as structured logging fields.
func (r Result) Loggable() map[string]interface{} {
	return log.F{
		"final":     r.Final,
		"expected":  r.Expected,
		"completed": r.Completed,
		"lost":      r.Lost,
	}
}

// Demo wires N incrementing actors to one shared counter.
//
// The counter is owned by the demo and shared by reference with every
// actor; a fresh Demo must be constructed for every trial.
type Demo struct {
	cfg Config
	ctr counter.Counter

	// completed tallies finished increments across actors. This is
	// bookkeeping about the trial, not the phenomenon under study: it
	// must stay separate from the counter being demonstrated.
	completed atomicutil.Int64

	state atomicutil.Int32
}

// New constructs a demo with a zeroed counter of the configured variant.
func New(cfg Config) *Demo {
	d := &Demo{cfg: cfg}
	if cfg.Guarded {
		d.ctr = counter.NewCAS()
	} else {
		d.ctr = counter.NewPlain()
	}
	return d
}

// State returns the demo's lifecycle state.
func (d *Demo) State() int32 { return d.state.Load() }

// Run executes one trial: it spawns the actors, waits for all of them
// at the join barrier, and reports the final value.
//
// A panic or error inside an actor is surfaced as an *ActorError — a
// failed actor invalidates the expected-value comparison, so the error
// is never swallowed. Run must be called at most once per Demo.
func (d *Demo) Run() (Result, error) {
	d.state.Store(StateRunning)

	var g errgroup.Group
	start := make(chan struct{})

	for i := 0; i < d.cfg.Actors; i++ {
		i := i
		g.Go(func() error {
			<-start
			return d.actor(i)
		})
	}

	// Release all actors together so their increments contend.
	close(start)
	err := g.Wait()
	d.state.Store(StateJoined)

	res := Result{
		Final:     d.ctr.Value(),
		Expected:  int64(d.cfg.Actors) * int64(d.cfg.Increments),
		Completed: d.completed.Load(),
	}
	if err == nil && res.Final < res.Expected {
		res.Lost = res.Expected - res.Final
	}

	if d.cfg.Log != nil {
		d.cfg.Log.With(res).Debug("counter trial complete")
	}
	d.state.Store(StateReported)
	return res, err
}

// actor performs the configured number of sequential increments,
// converting panics into errors so a buggy actor aborts the trial
// instead of the process.
func (d *Demo) actor(id int) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &ActorError{Actor: id, Err: fmt.Errorf("panic: %v", r)}
		}
	}()

	if d.cfg.fault != nil {
		if ferr := d.cfg.fault(id); ferr != nil {
			return &ActorError{Actor: id, Err: ferr}
		}
	}

	for k := 0; k < d.cfg.Increments; k++ {
		d.ctr.Inc()
		d.completed.Inc()
	}
	return nil
}
