// Package hazard provides the public API for the memory-hazard
// demonstrator.
//
// See doc.go for detailed documentation and examples.
package hazard

import internal "github.com/kolkov/memhazard/internal/hazard/harness"

// Config parameterizes a run. See the field documentation on the
// internal type; the zero value is not runnable — Demo, Variant and
// Trials must be set, plus Actors and Increments for [CounterDemo].
type Config = internal.Config

// Report aggregates a full run: trials executed, hazard observations,
// actor failures, and per-trial records.
type Report = internal.Report

// TrialResult records the outcome of a single trial.
type TrialResult = internal.TrialResult

// Demo selects which demonstration to run.
type Demo = internal.Demo

// Variant selects between the hazardous and the fixed primitive.
type Variant = internal.Variant

// ConfigurationError reports an invalid Config field. No actor is
// spawned when Run returns one.
type ConfigurationError = internal.ConfigurationError

// ActorFailure reports a trial aborted by a failing actor, distinct
// from a trial that ran cleanly and exhibited the hazard.
type ActorFailure = internal.ActorFailure

// DefaultRounds is the number of publish rounds per visibility trial
// when Config.Rounds is left zero.
const DefaultRounds = internal.DefaultRounds

const (
	// VisibilityDemo demonstrates stale and torn reads through shared
	// memory cells, and their fix via barriered cells.
	VisibilityDemo = internal.VisibilityDemo

	// CounterDemo demonstrates lost updates on a shared counter, and
	// their fix via a CompareAndSwap counter.
	CounterDemo = internal.CounterDemo

	// Plain selects the unsynchronized primitives. Hazards are the
	// expected behavior, not errors.
	Plain = internal.Plain

	// Guarded selects the barriered cells / CompareAndSwap counter.
	Guarded = internal.Guarded
)

// ParseDemo maps a demo name ("visibility", "counter") to its value.
func ParseDemo(s string) (Demo, error) { return internal.ParseDemo(s) }

// ParseVariant maps a variant name ("plain", "guarded") to its value.
func ParseVariant(s string) (Variant, error) { return internal.ParseVariant(s) }

// Run validates cfg and executes cfg.Trials independent trials of the
// selected demo, returning the aggregated report.
//
// Each trial constructs fresh shared state, so repeated runs and
// repeated trials cannot contaminate each other. Configuration errors
// fail fast; actor failures abort only their own trial.
func Run(cfg Config) (*Report, error) {
	return internal.Run(cfg)
}
