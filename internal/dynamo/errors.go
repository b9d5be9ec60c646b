package dynamo

import (
	"errors"
	"fmt"
)

// Domain errors for integration runs.
var (
	// ErrInvalidState indicates a state vector containing NaN or Inf.
	ErrInvalidState = errors.New("dynamo: invalid state (NaN or Inf detected)")

	// ErrInvalidStep indicates a step size that is not positive and finite.
	ErrInvalidStep = errors.New("dynamo: step size must be positive and finite")

	// ErrDimensionMismatch indicates a derivative whose length differs from the state.
	ErrDimensionMismatch = errors.New("dynamo: dimension mismatch between state and system")

	// ErrNotConverged indicates an implicit method hit its iteration cap.
	ErrNotConverged = errors.New("dynamo: fixed-point iteration did not converge")
)

// SimulationError wraps a step failure with its position in the run.
type SimulationError struct {
	Step    int
	Time    float64
	State   State
	Wrapped error
}

func (e *SimulationError) Error() string {
	return fmt.Sprintf("step %d (t=%.4f): %v", e.Step, e.Time, e.Wrapped)
}

func (e *SimulationError) Unwrap() error {
	return e.Wrapped
}

// CheckDim returns ErrDimensionMismatch when dx and x differ in length.
func CheckDim(x, dx State) error {
	if len(dx) != len(x) {
		return fmt.Errorf("%w: derivative has %d components, state has %d", ErrDimensionMismatch, len(dx), len(x))
	}
	return nil
}
