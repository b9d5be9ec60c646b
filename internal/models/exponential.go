package models

import (
	"math"

	"github.com/san-kum/odestep/internal/dynamo"
)

// Exponential is dy/dt = k*y.
type Exponential struct {
	Rate float64
}

func NewExponential() *Exponential { return &Exponential{Rate: 1.0} }

func (e *Exponential) Name() string  { return "exponential" }
func (e *Exponential) StateDim() int { return 1 }

func (e *Exponential) Derive(x dynamo.State, _ float64) dynamo.State {
	if len(x) != 1 {
		return wrongDim(1)
	}
	return dynamo.State{e.Rate * x[0]}
}

func (e *Exponential) DefaultState() dynamo.State { return dynamo.State{1.0} }

func (e *Exponential) Exact(x0 dynamo.State, t0, t float64) dynamo.State {
	return dynamo.State{x0[0] * math.Exp(e.Rate*(t-t0))}
}

func (e *Exponential) GetParams() map[string]float64 {
	return map[string]float64{"k": e.Rate}
}

func (e *Exponential) SetParam(name string, value float64) error {
	if name != "k" {
		return unknownParam(e.Name(), name)
	}
	e.Rate = value
	return nil
}
