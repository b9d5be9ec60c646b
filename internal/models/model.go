package models

import (
	"errors"
	"fmt"
	"sort"

	"github.com/san-kum/odestep/internal/dynamo"
)

var (
	ErrUnknownModel = errors.New("models: unknown model")
	ErrUnknownParam = errors.New("models: unknown parameter")
)

// Model is a ready-made right-hand side with a default initial state and
// tunable parameters.
type Model interface {
	dynamo.System
	dynamo.Dimensioned
	Name() string
	DefaultState() dynamo.State
	GetParams() map[string]float64
	SetParam(name string, value float64) error
}

// Analytic is implemented by models with a closed-form solution.
type Analytic interface {
	Exact(x0 dynamo.State, t0, t float64) dynamo.State
}

var constructors = map[string]func() Model{
	"exponential":   func() Model { return NewExponential() },
	"oscillator":    func() Model { return NewOscillator() },
	"spring_damper": func() Model { return NewSpringDamper() },
	"pendulum":      func() Model { return NewPendulum() },
	"vanderpol":     func() Model { return NewVanDerPol() },
	"lorenz":        func() Model { return NewLorenz() },
}

var info = map[string]string{
	"exponential":   "dy/dt = k*y, closed-form solution",
	"oscillator":    "harmonic oscillator, closed-form solution",
	"spring_damper": "two masses coupled by springs and dampers under gravity",
	"pendulum":      "damped nonlinear pendulum",
	"vanderpol":     "limit cycle oscillator",
	"lorenz":        "butterfly attractor",
}

func New(name string) (Model, error) {
	fn, ok := constructors[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownModel, name)
	}
	return fn(), nil
}

// NewWithParams builds a model and applies parameter overrides.
func NewWithParams(name string, params map[string]float64) (Model, error) {
	m, err := New(name)
	if err != nil {
		return nil, err
	}
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if err := m.SetParam(k, params[k]); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func Names() []string {
	names := make([]string, 0, len(constructors))
	for name := range constructors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func Info(name string) string { return info[name] }

// wrongDim is the derivative returned for a state of the wrong length. Its
// length is the model's own dimension, so dynamo.CheckDim in every method
// reports the mismatch instead of the model indexing out of range.
func wrongDim(n int) dynamo.State { return make(dynamo.State, n) }

func unknownParam(model, name string) error {
	return fmt.Errorf("%w: %s has no parameter %q", ErrUnknownParam, model, name)
}
