package dynamo

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

type State []float64

func (s State) Clone() State {
	c := make(State, len(s))
	copy(c, s)
	return c
}

func (s State) IsValid() bool {
	for _, v := range s {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func (s State) Norm() float64 {
	return floats.Norm(s, 2)
}

// MaxAbsDiff returns the largest component-wise absolute difference.
// Both states must have the same length.
func (s State) MaxAbsDiff(other State) float64 {
	if len(s) == 0 {
		return 0
	}
	return floats.Distance(s, other, math.Inf(1))
}

func (s State) Add(other State) State {
	result := make(State, len(s))
	for i := range s {
		if i < len(other) {
			result[i] = s[i] + other[i]
		} else {
			result[i] = s[i]
		}
	}
	return result
}

func (s State) Scale(factor float64) State {
	result := s.Clone()
	floats.Scale(factor, result)
	return result
}

func (s State) Sub(other State) State {
	result := make(State, len(s))
	for i := range s {
		if i < len(other) {
			result[i] = s[i] - other[i]
		} else {
			result[i] = s[i]
		}
	}
	return result
}

// System is the right-hand side of an initial-value problem. Derive must
// not mutate x and must return a derivative of the same length.
type System interface {
	Derive(x State, t float64) State
}

// SystemFunc adapts a plain function to System.
type SystemFunc func(x State, t float64) State

func (f SystemFunc) Derive(x State, t float64) State { return f(x, t) }

// Dimensioned is implemented by systems that know their state dimension.
type Dimensioned interface {
	StateDim() int
}

// Method advances a State by one step of size h starting at time t.
// Step mutates x in place. Multi-step methods keep history between calls
// and rely on Reset before every independent run.
type Method interface {
	Name() string
	Order() int
	Reset()
	Step(sys System, x State, t, h float64) error
}

// Interval is a closed time range [Lo, Hi].
type Interval struct {
	Lo float64
	Hi float64
}

func NewInterval(lo, hi float64) Interval {
	return Interval{Lo: lo, Hi: hi}
}

// Contains reports whether lo <= t <= hi, with no tolerance.
func (i Interval) Contains(t float64) bool {
	return t >= i.Lo && t <= i.Hi
}

func (i Interval) Length() float64 { return i.Hi - i.Lo }

func (i Interval) String() string {
	return fmt.Sprintf("[%g, %g]", i.Lo, i.Hi)
}
