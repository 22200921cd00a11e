// Package hazard provides the public API for the memory-hazard
// demonstrator.
//
// The demonstrator reproduces two classic shared-memory hazards and
// verifies their fixes:
//
//   - Visibility: a reader goroutine observes a publication flag set
//     while the payload written before it still holds stale values, or
//     observes a wide value spliced from two different writes. Fixed by
//     barriered cells, which publish every store with a happens-before
//     edge and load wide values indivisibly.
//   - Lost updates: concurrent read-modify-write increments interleave
//     and the final count falls short. Fixed by a CompareAndSwap
//     counter whose increments are indivisible.
//
// # Quick Start
//
// Run a demonstration programmatically:
//
//	report, err := hazard.Run(hazard.Config{
//		Demo:       hazard.CounterDemo,
//		Variant:    hazard.Plain,
//		Trials:     50,
//		Actors:     4,
//		Increments: 5000,
//	})
//	if err != nil {
//		log.Fatal(err)
//	}
//	fmt.Printf("%d of %d trials lost updates\n", report.Inconsistent, report.TrialsRun)
//
// Or from the command line:
//
//	$ memhazard counter --variant plain --trials 50 --actors 4 --increments 5000
//	$ memhazard visibility --variant guarded --trials 100
//
// # Flakiness By Design
//
// The plain variants exhibit hazards that are inherently nondeterministic
// and scheduler-dependent: no portable mechanism can force a torn read or
// a lost update on every run. A single trial proves nothing. Run batches
// of trials and reason about the batch — with the default shapes, at
// least one hazard observation per batch is overwhelmingly likely on any
// multi-core scheduler. The guarded variants, by contrast, must be clean
// in 100% of trials; that part is not probabilistic.
//
// # Failure Semantics
//
// A hazard observation is not an error: it is the expected behavior of
// the plain variant and is reported in [Report.Inconsistent]. Real
// failures are either a [ConfigurationError] (rejected before any actor
// is spawned) or an [ActorFailure] (an actor aborted mid-trial, counted
// in [Report.Failures] and never as a hazard observation).
package hazard
