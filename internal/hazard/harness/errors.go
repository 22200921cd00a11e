// Package harness - error taxonomy for the demo harness.
//
// Two failure classes exist, and they must never be conflated:
//
//   - ConfigurationError: the caller asked for an impossible run
//     (non-positive trial, actor, or increment counts). Rejected before
//     any actor is spawned.
//   - ActorFailure: an actor aborted mid-trial. The trial's expected
//     value is invalid, so the trial is counted as failed — distinct
//     from a trial that ran cleanly and exhibited the hazard.
package harness

import (
	"fmt"

	"github.com/lthibault/log"
)

// ConfigurationError reports an invalid Config field. It is returned
// before any actor is spawned; a run that yields a ConfigurationError
// has executed nothing.
type ConfigurationError struct {
	// Field is the offending Config field name.
	Field string

	// Value is the rejected value.
	Value int

	// Message describes why the value was rejected.
	Message string

	// Suggestion is an optional hint for fixing the configuration.
	Suggestion string
}

// Error implements the error interface.
//
// Format: config: field=value: message, with the suggestion appended on
// its own line when present.
func (e *ConfigurationError) Error() string {
	s := fmt.Sprintf("config: %s=%d: %s", e.Field, e.Value, e.Message)
	if e.Suggestion != "" {
		s += fmt.Sprintf("\n\nSuggestion: %s", e.Suggestion)
	}
	return s
}

// Loggable formats the error as structured logging fields.
func (e *ConfigurationError) Loggable() map[string]interface{} {
	return log.F{
		"field":   e.Field,
		"value":   e.Value,
		"message": e.Message,
	}
}

// ActorFailure reports that an actor aborted before completing its part
// of a trial. It wraps the demo-level cause so callers can reach the
// actor index via errors.As.
type ActorFailure struct {
	// Demo identifies which demonstration the actor belonged to.
	Demo Demo

	// Trial is the index of the aborted trial.
	Trial int

	// Err is the underlying cause.
	Err error
}

// Error implements the error interface.
func (e *ActorFailure) Error() string {
	return fmt.Sprintf("%s: trial %d: actor failure: %v", e.Demo, e.Trial, e.Err)
}

// Unwrap returns the underlying cause.
func (e *ActorFailure) Unwrap() error { return e.Err }

// Loggable formats the failure as structured logging fields.
func (e *ActorFailure) Loggable() map[string]interface{} {
	return log.F{
		"demo":  e.Demo.String(),
		"trial": e.Trial,
		"error": e.Err,
	}
}

func configErr(field string, value int, msg, suggestion string) *ConfigurationError {
	return &ConfigurationError{Field: field, Value: value, Message: msg, Suggestion: suggestion}
}
