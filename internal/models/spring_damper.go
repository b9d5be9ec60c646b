package models

import "github.com/san-kum/odestep/internal/dynamo"

const (
	DefaultStiffness = 100.0
	DefaultDamping   = 10.0
	DefaultMass      = 1.0
	Gravity          = 9.81
)

// SpringDamper is two masses hanging in series: a spring/damper pair ties
// mass 1 to the support and a second pair ties mass 2 to mass 1. Positions
// are measured downward, so gravity pushes both masses forward.
// State: [x1, x2, v1, v2]
type SpringDamper struct {
	K1, K2 float64
	B1, B2 float64
	M1, M2 float64
	G      float64
}

func NewSpringDamper() *SpringDamper {
	return &SpringDamper{
		K1: DefaultStiffness, K2: DefaultStiffness,
		B1: DefaultDamping, B2: DefaultDamping,
		M1: DefaultMass, M2: DefaultMass,
		G: Gravity,
	}
}

func (s *SpringDamper) Name() string  { return "spring_damper" }
func (s *SpringDamper) StateDim() int { return 4 }

func (s *SpringDamper) Derive(x dynamo.State, _ float64) dynamo.State {
	if len(x) != 4 {
		return wrongDim(4)
	}
	x1, x2, v1, v2 := x[0], x[1], x[2], x[3]

	a1 := s.G - ((s.B1+s.B2)/s.M1)*v1 - ((s.K1+s.K2)/s.M1)*x1 + (s.B2/s.M1)*v2 + (s.K2/s.M1)*x2
	a2 := s.G + (s.B2/s.M2)*v1 + (s.K2/s.M2)*x1 - (s.B2/s.M2)*v2 - (s.K2/s.M2)*x2

	return dynamo.State{v1, v2, a1, a2}
}

func (s *SpringDamper) DefaultState() dynamo.State { return dynamo.State{0, 1, 0, 0} }

// Equilibrium returns the static rest positions with zero velocity.
func (s *SpringDamper) Equilibrium() dynamo.State {
	x1 := (s.M1 + s.M2) * s.G / s.K1
	x2 := x1 + s.M2*s.G/s.K2
	return dynamo.State{x1, x2, 0, 0}
}

func (s *SpringDamper) Energy(x dynamo.State) float64 {
	x1, x2, v1, v2 := x[0], x[1], x[2], x[3]
	kinetic := 0.5*s.M1*v1*v1 + 0.5*s.M2*v2*v2
	elastic := 0.5*s.K1*x1*x1 + 0.5*s.K2*(x2-x1)*(x2-x1)
	gravity := -s.G * (s.M1*x1 + s.M2*x2)
	return kinetic + elastic + gravity
}

func (s *SpringDamper) GetParams() map[string]float64 {
	return map[string]float64{
		"k1": s.K1, "k2": s.K2,
		"b1": s.B1, "b2": s.B2,
		"m1": s.M1, "m2": s.M2,
		"g": s.G,
	}
}

func (s *SpringDamper) SetParam(name string, value float64) error {
	switch name {
	case "k1":
		s.K1 = value
	case "k2":
		s.K2 = value
	case "b1":
		s.B1 = value
	case "b2":
		s.B2 = value
	case "m1":
		s.M1 = value
	case "m2":
		s.M2 = value
	case "g":
		s.G = value
	default:
		return unknownParam(s.Name(), name)
	}
	return nil
}
