package engine

import (
	"errors"
	"fmt"
)

// Domain errors for stepping the world.
var (
	// ErrInvalidTimestep indicates a non-positive dt.
	ErrInvalidTimestep = errors.New("engine: timestep must be positive")

	// ErrUnstable indicates NaN or Inf in a body pose or velocity after
	// a step. The step is fatal; the world must be reset from
	// last-known-good state.
	ErrUnstable = errors.New("engine: simulation unstable (NaN or Inf in body state)")
)

// StepError wraps an error with the step it occurred in.
type StepError struct {
	Step    int
	Time    float64
	Wrapped error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("step %d (t=%.4f): %v", e.Step, e.Time, e.Wrapped)
}

func (e *StepError) Unwrap() error {
	return e.Wrapped
}
