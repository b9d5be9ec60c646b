package models

import "github.com/san-kum/odestep/internal/dynamo"

// VanDerPol implements the Van der Pol oscillator.
// State: [x, y] where y = dx/dt
// Equations:
//
//	dx/dt = y
//	dy/dt = μ(1 - x²)y - x
type VanDerPol struct {
	mu float64 // Nonlinearity parameter
}

func NewVanDerPol() *VanDerPol {
	return &VanDerPol{
		mu: 1.0, // Classic value for limit cycle
	}
}

func (v *VanDerPol) Name() string  { return "vanderpol" }
func (v *VanDerPol) StateDim() int { return 2 }

func (v *VanDerPol) Derive(state dynamo.State, _ float64) dynamo.State {
	if len(state) != 2 {
		return wrongDim(2)
	}
	x, y := state[0], state[1]

	dx := y
	dy := v.mu*(1-x*x)*y - x

	return dynamo.State{dx, dy}
}

func (v *VanDerPol) DefaultState() dynamo.State {
	return dynamo.State{2.0, 0.0}
}

func (v *VanDerPol) GetParams() map[string]float64 {
	return map[string]float64{
		"mu": v.mu,
	}
}

func (v *VanDerPol) SetParam(name string, value float64) error {
	if name != "mu" {
		return unknownParam(v.Name(), name)
	}
	v.mu = value
	return nil
}
