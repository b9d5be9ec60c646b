package dynamo

import (
	"fmt"
	"math"
)

// Solve integrates x0 across iv with fixed step h and records every step.
//
// The method is reset first. The initial sample is (iv.Lo, x0); after that
// the method is stepped while iv.Contains(t) and time advances by t += h, so
// the last step may end past iv.Hi. x0 is not modified. On a step failure the
// trajectory recorded so far is returned together with a *SimulationError.
func Solve(m Method, sys System, x0 State, iv Interval, h float64) (Trajectory, error) {
	if err := validate(sys, x0, h); err != nil {
		return nil, err
	}

	traj := make(Trajectory, 0, capacityFor(iv, h))

	x := x0.Clone()
	t := iv.Lo
	m.Reset()

	traj = append(traj, Sample{T: t, X: x.Clone()})

	for step := 0; iv.Contains(t); step++ {
		if err := m.Step(sys, x, t, h); err != nil {
			return traj, &SimulationError{Step: step, Time: t, State: x.Clone(), Wrapped: err}
		}
		t += h
		traj = append(traj, Sample{T: t, X: x.Clone()})
	}

	return traj, nil
}

// Eval runs the same loop as Solve but only keeps the terminal state, which
// is written into x.
func Eval(m Method, sys System, x State, iv Interval, h float64) error {
	if err := validate(sys, x, h); err != nil {
		return err
	}

	t := iv.Lo
	m.Reset()

	for step := 0; iv.Contains(t); step++ {
		if err := m.Step(sys, x, t, h); err != nil {
			return &SimulationError{Step: step, Time: t, State: x.Clone(), Wrapped: err}
		}
		t += h
	}

	return nil
}

func validate(sys System, x State, h float64) error {
	if h <= 0 || math.IsNaN(h) || math.IsInf(h, 0) {
		return fmt.Errorf("%w, got %g", ErrInvalidStep, h)
	}
	if d, ok := sys.(Dimensioned); ok {
		if n := d.StateDim(); n >= 0 && n != len(x) {
			return fmt.Errorf("%w: system expects %d components, initial state has %d", ErrDimensionMismatch, n, len(x))
		}
	}
	return nil
}

func capacityFor(iv Interval, h float64) int {
	n := iv.Length() / h
	if n < 0 || math.IsNaN(n) {
		return 1
	}
	if n > 1<<24 {
		return 1 << 24
	}
	return int(n) + 2
}
