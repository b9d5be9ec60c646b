package integrators

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/san-kum/odestep/internal/dynamo"
)

// Canonical method names.
const (
	NameForwardEuler  = "forward_euler"
	NameBackwardEuler = "backward_euler"
	NameModifiedEuler = "modified_euler"
	NameRK2           = "rk2"
	NameRK3           = "rk3"
	NameRK4           = "rk4"
	NamePC3           = "pc3"
	NamePC4           = "pc4"
)

var ErrUnknownMethod = errors.New("integrators: unknown method")

type factory func(opts []Option) dynamo.Method

var factories = map[string]factory{
	NameForwardEuler:  func([]Option) dynamo.Method { return NewEuler() },
	NameBackwardEuler: func(opts []Option) dynamo.Method { return NewBackwardEuler(opts...) },
	NameModifiedEuler: func(opts []Option) dynamo.Method { return NewModifiedEuler(opts...) },
	NameRK2:           func([]Option) dynamo.Method { return NewRK2() },
	NameRK3:           func([]Option) dynamo.Method { return NewRK3() },
	NameRK4:           func([]Option) dynamo.Method { return NewRK4() },
	NamePC3:           func([]Option) dynamo.Method { return NewPC3() },
	NamePC4:           func([]Option) dynamo.Method { return NewPC4() },
}

var aliases = map[string]string{
	"euler":       NameForwardEuler,
	"implicit":    NameBackwardEuler,
	"trapezoidal": NameModifiedEuler,
	"heun":        NameRK2,
	"kutta":       NameRK3,
	"rk38":        NameRK4,
	"adams3":      NamePC3,
	"adams4":      NamePC4,
}

var descriptions = map[string]string{
	NameForwardEuler:  "explicit Euler, order 1",
	NameBackwardEuler: "implicit Euler by fixed-point iteration, order 1",
	NameModifiedEuler: "implicit trapezoidal rule by fixed-point iteration, order 2",
	NameRK2:           "Heun two-stage Runge-Kutta, order 2",
	NameRK3:           "Kutta three-stage Runge-Kutta, order 3",
	NameRK4:           "3/8-rule four-stage Runge-Kutta, order 4",
	NamePC3:           "Adams-Bashforth/Moulton predictor-corrector, order 3",
	NamePC4:           "Adams-Bashforth/Moulton predictor-corrector, order 4",
}

// Canonical resolves aliases and normalizes case.
func Canonical(name string) (string, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	key = strings.ReplaceAll(key, "-", "_")
	if alias, ok := aliases[key]; ok {
		key = alias
	}
	if _, ok := factories[key]; !ok {
		return "", fmt.Errorf("%w: %s (available: %s)", ErrUnknownMethod, name, strings.Join(Names(), ", "))
	}
	return key, nil
}

// New builds a fresh method by name. Options only affect the implicit methods.
func New(name string, opts ...Option) (dynamo.Method, error) {
	key, err := Canonical(name)
	if err != nil {
		return nil, err
	}
	return factories[key](opts), nil
}

func Names() []string {
	names := make([]string, 0, len(factories))
	for name := range factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func Describe(name string) string {
	key, err := Canonical(name)
	if err != nil {
		return ""
	}
	return descriptions[key]
}

var (
	_ dynamo.Method = (*Euler)(nil)
	_ dynamo.Method = (*BackwardEuler)(nil)
	_ dynamo.Method = (*ModifiedEuler)(nil)
	_ dynamo.Method = (*RK2)(nil)
	_ dynamo.Method = (*RK3)(nil)
	_ dynamo.Method = (*RK4)(nil)
	_ dynamo.Method = (*PredictorCorrector)(nil)
)
