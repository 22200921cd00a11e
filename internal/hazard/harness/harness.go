// Package harness composes the visibility and counter demonstrations:
// it validates configuration, runs repeated independent trials, and
// aggregates what each trial observed into a report.
//
// The harness itself is deliberately boring. Trials run sequentially —
// the parallelism under study lives inside each demo — and every trial
// gets freshly constructed shared state, so no observation can leak from
// one trial into the next.
package harness

import (
	"fmt"

	"github.com/lthibault/log"

	"github.com/kolkov/memhazard/internal/hazard/counterdemo"
	"github.com/kolkov/memhazard/internal/hazard/visibility"
)

// Demo selects which demonstration to run.
type Demo uint8

const (
	// VisibilityDemo runs one writer and one reader against shared
	// memory cells, surfacing stale and torn reads.
	VisibilityDemo Demo = iota + 1

	// CounterDemo runs N incrementing actors against a shared counter,
	// surfacing lost updates.
	CounterDemo
)

// String returns the demo's name.
func (d Demo) String() string {
	switch d {
	case VisibilityDemo:
		return "visibility"
	case CounterDemo:
		return "counter"
	default:
		return fmt.Sprintf("demo(%d)", uint8(d))
	}
}

// ParseDemo maps a demo name to its value.
func ParseDemo(s string) (Demo, error) {
	switch s {
	case "visibility":
		return VisibilityDemo, nil
	case "counter":
		return CounterDemo, nil
	default:
		return 0, fmt.Errorf("unknown demo %q (want visibility or counter)", s)
	}
}

// Variant selects between the hazardous and the fixed primitive.
type Variant uint8

const (
	// Plain uses unsynchronized cells/counters; hazards are expected.
	Plain Variant = iota + 1

	// Guarded uses the barriered cells / CompareAndSwap counter; the
	// hazards must never appear.
	Guarded
)

// String returns the variant's name.
func (v Variant) String() string {
	switch v {
	case Plain:
		return "plain"
	case Guarded:
		return "guarded"
	default:
		return fmt.Sprintf("variant(%d)", uint8(v))
	}
}

// ParseVariant maps a variant name to its value.
func ParseVariant(s string) (Variant, error) {
	switch s {
	case "plain":
		return Plain, nil
	case "guarded":
		return Guarded, nil
	default:
		return 0, fmt.Errorf("unknown variant %q (want plain or guarded)", s)
	}
}

// DefaultRounds is the number of publish rounds per visibility trial
// when Config.Rounds is left zero. One round's hazard window is a few
// nanoseconds wide; a thousand rounds per trial makes the batch-level
// probability of crossing it overwhelming.
const DefaultRounds = 1000

// Config parameterizes a harness run.
type Config struct {
	// Demo selects the demonstration.
	Demo Demo

	// Variant selects plain (hazardous) or guarded (fixed) primitives.
	Variant Variant

	// Trials is the number of independent trials. Each trial gets
	// fresh shared state.
	Trials int

	// Rounds is the number of publish rounds per visibility trial.
	// Zero means DefaultRounds. Ignored by the counter demo.
	Rounds int

	// Actors is the number of incrementing goroutines per counter
	// trial. Ignored by the visibility demo.
	Actors int

	// Increments is the number of increments per actor per counter
	// trial. Ignored by the visibility demo.
	Increments int

	// Log receives per-trial diagnostics. Nil disables logging.
	Log log.Logger
}

// Validate rejects impossible configurations before any actor is
// spawned. It returns a *ConfigurationError describing the first
// offending field.
func (c Config) Validate() error {
	switch c.Demo {
	case VisibilityDemo, CounterDemo:
	default:
		return configErr("demo", int(c.Demo), "unknown demo",
			"use VisibilityDemo or CounterDemo")
	}

	switch c.Variant {
	case Plain, Guarded:
	default:
		return configErr("variant", int(c.Variant), "unknown variant",
			"use Plain or Guarded")
	}

	if c.Trials <= 0 {
		return configErr("trials", c.Trials, "must be positive",
			"a single trial proves nothing; 50 or more surfaces the hazards reliably")
	}

	if c.Demo == VisibilityDemo && c.Rounds < 0 {
		return configErr("rounds", c.Rounds, "must be positive (or zero for the default)", "")
	}

	if c.Demo == CounterDemo {
		if c.Actors <= 0 {
			return configErr("actors", c.Actors, "must be positive",
				"lost updates need at least 2 concurrent actors")
		}
		if c.Increments <= 0 {
			return configErr("increments", c.Increments, "must be positive", "")
		}
	}

	return nil
}

// TrialResult records the outcome of one trial. It is immutable once
// the trial is reported and discarded with the Report that holds it.
type TrialResult struct {
	// Trial is the zero-based trial index.
	Trial int

	// FinalValue is the counter value after the join barrier.
	// Counter demo only.
	FinalValue int64

	// Samples, StaleFlags and TornReads describe what the reader
	// observed. Visibility demo only.
	Samples    int
	StaleFlags int
	TornReads  int

	// Inconsistent reports that the trial ran cleanly and exhibited
	// the hazard: an inconsistent snapshot, or a final value below the
	// expected one.
	Inconsistent bool

	// Err holds the *ActorFailure for trials that did not execute
	// cleanly. Such trials never count as hazard observations.
	Err error
}

// Report aggregates a full harness run.
type Report struct {
	// Demo and Variant echo the configuration.
	Demo    Demo
	Variant Variant

	// TrialsRun is the number of trials executed.
	TrialsRun int

	// Inconsistent counts clean trials that exhibited the hazard.
	Inconsistent int

	// Failures counts trials aborted by an actor failure.
	Failures int

	// Expected is the reference value clean trials are compared
	// against: N*K for the counter demo, zero inconsistencies for the
	// visibility demo.
	Expected int64

	// FinalValues holds each clean counter trial's final value, in
	// trial order. Empty for the visibility demo.
	FinalValues []int64

	// Trials holds the per-trial records.
	Trials []TrialResult
}

// Loggable formats the report as structured logging fields.
func (r *Report) Loggable() map[string]interface{} {
	return log.F{
		"demo":         r.Demo.String(),
		"variant":      r.Variant.String(),
		"trials":       r.TrialsRun,
		"inconsistent": r.Inconsistent,
		"failures":     r.Failures,
		"expected":     r.Expected,
	}
}

// Run validates cfg and executes cfg.Trials independent trials of the
// selected demo, returning the aggregated report.
//
// Configuration errors fail fast before any actor is spawned. Actor
// failures abort only their own trial; they are recorded on that
// trial's result and tallied in Report.Failures.
func Run(cfg Config) (*Report, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.Rounds == 0 {
		cfg.Rounds = DefaultRounds
	}

	switch cfg.Demo {
	case VisibilityDemo:
		return runVisibility(cfg), nil
	default:
		return runCounter(cfg), nil
	}
}

func runVisibility(cfg Config) *Report {
	report := &Report{
		Demo:    cfg.Demo,
		Variant: cfg.Variant,
		Trials:  make([]TrialResult, 0, cfg.Trials),
	}

	for t := 0; t < cfg.Trials; t++ {
		d := visibility.New(visibility.Config{
			Barriered: cfg.Variant == Guarded,
			Rounds:    cfg.Rounds,
			Log:       cfg.Log,
		})
		res := d.Run()

		tr := TrialResult{
			Trial:        t,
			Samples:      res.Samples,
			StaleFlags:   res.StaleFlags,
			TornReads:    res.TornReads,
			Inconsistent: res.Inconsistent,
		}
		report.TrialsRun++
		if tr.Inconsistent {
			report.Inconsistent++
		}
		report.Trials = append(report.Trials, tr)
	}

	return report
}

func runCounter(cfg Config) *Report {
	report := &Report{
		Demo:        cfg.Demo,
		Variant:     cfg.Variant,
		Expected:    int64(cfg.Actors) * int64(cfg.Increments),
		FinalValues: make([]int64, 0, cfg.Trials),
		Trials:      make([]TrialResult, 0, cfg.Trials),
	}

	for t := 0; t < cfg.Trials; t++ {
		d := counterdemo.New(counterdemo.Config{
			Guarded:    cfg.Variant == Guarded,
			Actors:     cfg.Actors,
			Increments: cfg.Increments,
			Log:        cfg.Log,
		})
		res, err := d.Run()

		tr := TrialResult{Trial: t}
		report.TrialsRun++

		if err != nil {
			tr.Err = &ActorFailure{Demo: cfg.Demo, Trial: t, Err: err}
			report.Failures++
			if cfg.Log != nil {
				cfg.Log.With(tr.Err.(*ActorFailure)).Warn("trial aborted")
			}
		} else {
			tr.FinalValue = res.Final
			tr.Inconsistent = res.Final != report.Expected
			if tr.Inconsistent {
				report.Inconsistent++
			}
			report.FinalValues = append(report.FinalValues, res.Final)
		}

		report.Trials = append(report.Trials, tr)
	}

	return report
}
