package dynamo

// CountingSystem wraps a System and counts derivative evaluations.
type CountingSystem struct {
	Inner System
	Evals int
}

func NewCountingSystem(inner System) *CountingSystem {
	return &CountingSystem{Inner: inner}
}

func (c *CountingSystem) Derive(x State, t float64) State {
	c.Evals++
	return c.Inner.Derive(x, t)
}

// StateDim forwards the wrapped system's dimension, or -1 when unknown.
func (c *CountingSystem) StateDim() int {
	if d, ok := c.Inner.(Dimensioned); ok {
		return d.StateDim()
	}
	return -1
}
