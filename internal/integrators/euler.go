package integrators

import (
	"github.com/san-kum/odestep/internal/dynamo"
	"gonum.org/v1/gonum/floats"
)

// Euler is the explicit forward Euler method: x += h*f(x, t).
type Euler struct{}

func NewEuler() *Euler {
	return &Euler{}
}

func (e *Euler) Name() string { return NameForwardEuler }
func (e *Euler) Order() int   { return 1 }
func (e *Euler) Reset()       {}

func (e *Euler) Step(sys dynamo.System, x dynamo.State, t, h float64) error {
	dx := sys.Derive(x, t)
	if err := dynamo.CheckDim(x, dx); err != nil {
		return err
	}
	floats.AddScaled(x, h, dx)
	return nil
}
