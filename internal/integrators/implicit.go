package integrators

import (
	"fmt"

	"github.com/san-kum/odestep/internal/dynamo"
	"gonum.org/v1/gonum/floats"
)

// DefaultMaxIterations caps the fixed-point loop of the implicit methods.
const DefaultMaxIterations = 10000

// Option configures the fixed-point loop of BackwardEuler and ModifiedEuler.
// Explicit methods ignore options.
type Option func(*fixedPoint)

// WithTolerance sets an absolute convergence tolerance. Zero or negative
// restores the default, which is the step size h of the current step.
func WithTolerance(tol float64) Option {
	return func(fp *fixedPoint) { fp.tol = tol }
}

// WithMaxIterations caps the iterations per step. Zero or negative removes
// the cap, so a non-contracting map iterates forever.
func WithMaxIterations(n int) Option {
	return func(fp *fixedPoint) { fp.maxIter = n }
}

// fixedPoint runs Picard iteration until the max-norm change between
// successive iterates drops below the tolerance.
type fixedPoint struct {
	tol     float64
	maxIter int

	cur, next dynamo.State
	lastIters int
}

func newFixedPoint(opts []Option) fixedPoint {
	fp := fixedPoint{maxIter: DefaultMaxIterations}
	for _, opt := range opts {
		opt(&fp)
	}
	return fp
}

func (fp *fixedPoint) tolerance(h float64) float64 {
	if fp.tol > 0 {
		return fp.tol
	}
	return h
}

func (fp *fixedPoint) ensureScratch(n int) {
	if len(fp.cur) != n {
		fp.cur = make(dynamo.State, n)
		fp.next = make(dynamo.State, n)
	}
}

// solve starts from x, repeatedly calls update(cur, next) and writes the
// converged iterate back into x.
func (fp *fixedPoint) solve(x dynamo.State, h float64, update func(cur, next dynamo.State) error) error {
	fp.ensureScratch(len(x))
	copy(fp.cur, x)
	tol := fp.tolerance(h)

	for n := 1; ; n++ {
		if err := update(fp.cur, fp.next); err != nil {
			fp.lastIters = n
			return err
		}
		diff := fp.next.MaxAbsDiff(fp.cur)
		fp.cur, fp.next = fp.next, fp.cur

		if diff < tol {
			fp.lastIters = n
			copy(x, fp.cur)
			return nil
		}
		if fp.maxIter > 0 && n >= fp.maxIter {
			fp.lastIters = n
			return fmt.Errorf("%w within %d iterations (last change %g, tolerance %g)", dynamo.ErrNotConverged, n, diff, tol)
		}
	}
}

// BackwardEuler solves x' = x + h*f(x', t+h) by fixed-point iteration.
type BackwardEuler struct {
	fp fixedPoint
}

func NewBackwardEuler(opts ...Option) *BackwardEuler {
	return &BackwardEuler{fp: newFixedPoint(opts)}
}

func (b *BackwardEuler) Name() string { return NameBackwardEuler }
func (b *BackwardEuler) Order() int   { return 1 }
func (b *BackwardEuler) Reset()       {}

// Iterations reports how many fixed-point iterations the last step used.
func (b *BackwardEuler) Iterations() int { return b.fp.lastIters }

func (b *BackwardEuler) Step(sys dynamo.System, x dynamo.State, t, h float64) error {
	return b.fp.solve(x, h, func(cur, next dynamo.State) error {
		dx := sys.Derive(cur, t+h)
		if err := dynamo.CheckDim(cur, dx); err != nil {
			return err
		}
		copy(next, x)
		floats.AddScaled(next, h, dx)
		return nil
	})
}

// ModifiedEuler is the implicit trapezoidal rule:
// x' = x + h/2*(f(x, t) + f(x', t+h)), solved by fixed-point iteration.
type ModifiedEuler struct {
	fp fixedPoint
	f0 dynamo.State
}

func NewModifiedEuler(opts ...Option) *ModifiedEuler {
	return &ModifiedEuler{fp: newFixedPoint(opts)}
}

func (m *ModifiedEuler) Name() string { return NameModifiedEuler }
func (m *ModifiedEuler) Order() int   { return 2 }
func (m *ModifiedEuler) Reset()       {}

func (m *ModifiedEuler) Iterations() int { return m.fp.lastIters }

func (m *ModifiedEuler) Step(sys dynamo.System, x dynamo.State, t, h float64) error {
	f0 := sys.Derive(x, t)
	if err := dynamo.CheckDim(x, f0); err != nil {
		return err
	}
	if len(m.f0) != len(x) {
		m.f0 = make(dynamo.State, len(x))
	}
	copy(m.f0, f0)

	half := 0.5 * h
	return m.fp.solve(x, h, func(cur, next dynamo.State) error {
		dx := sys.Derive(cur, t+h)
		if err := dynamo.CheckDim(cur, dx); err != nil {
			return err
		}
		copy(next, x)
		floats.AddScaled(next, half, m.f0)
		floats.AddScaled(next, half, dx)
		return nil
	})
}
