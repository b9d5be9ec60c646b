package models

import (
	"math"

	"github.com/san-kum/odestep/internal/dynamo"
)

type Pendulum struct {
	Mass    float64
	Length  float64
	Damping float64
	Gravity float64
}

func NewPendulum() *Pendulum {
	return &Pendulum{
		Mass:    1.0,
		Length:  1.0,
		Damping: 0.1,
		Gravity: Gravity,
	}
}

func (p *Pendulum) Name() string  { return "pendulum" }
func (p *Pendulum) StateDim() int { return 2 }

func (p *Pendulum) Derive(x dynamo.State, _ float64) dynamo.State {
	if len(x) != 2 {
		return wrongDim(2)
	}
	theta := x[0]
	omega := x[1]

	alpha := (-p.Damping*omega - p.Mass*p.Gravity*p.Length*math.Sin(theta)) / (p.Mass * p.Length * p.Length)

	return dynamo.State{omega, alpha}
}

func (p *Pendulum) DefaultState() dynamo.State { return dynamo.State{0.5, 0.0} }

func (p *Pendulum) Energy(x dynamo.State) float64 {
	theta, omega := x[0], x[1]
	ke := 0.5 * p.Mass * p.Length * p.Length * omega * omega
	pe := p.Mass * p.Gravity * p.Length * (1 - math.Cos(theta))
	return ke + pe
}

func (p *Pendulum) GetParams() map[string]float64 {
	return map[string]float64{
		"mass":    p.Mass,
		"length":  p.Length,
		"damping": p.Damping,
		"gravity": p.Gravity,
	}
}

func (p *Pendulum) SetParam(name string, value float64) error {
	switch name {
	case "mass":
		p.Mass = value
	case "length":
		p.Length = value
	case "damping":
		p.Damping = value
	case "gravity":
		p.Gravity = value
	default:
		return unknownParam(p.Name(), name)
	}
	return nil
}
