package mc

import (
	"errors"
	"fmt"
)

// Configuration errors are returned by New before any move is attempted.
var (
	ErrNoParticles = errors.New("mc: particle system is empty")

	ErrInvalidTemperature = errors.New("mc: temperature must be positive and finite")

	ErrInvalidConfig = errors.New("mc: invalid engine configuration")

	ErrNonFinite = errors.New("mc: particle coordinate is NaN or Inf")

	ErrMissingDependency = errors.New("mc: nil evaluator or random source")
)

// RunError wraps a failure that interrupted a run with the cycle it
// happened in.
type RunError struct {
	Cycle   int
	Wrapped error
}

func (e *RunError) Error() string {
	return fmt.Sprintf("mc: cycle %d: %v", e.Cycle, e.Wrapped)
}

func (e *RunError) Unwrap() error {
	return e.Wrapped
}
