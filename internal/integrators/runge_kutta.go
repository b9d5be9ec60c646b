package integrators

import "github.com/san-kum/odestep/internal/dynamo"

// stages holds per-step scratch buffers shared by the Runge-Kutta methods.
type stages struct {
	k       [4]dynamo.State
	scratch dynamo.State
}

func (s *stages) ensureScratch(n int) {
	if len(s.scratch) != n {
		for i := range s.k {
			s.k[i] = make(dynamo.State, n)
		}
		s.scratch = make(dynamo.State, n)
	}
}

// eval stores f(at, t) into stage i.
func (s *stages) eval(sys dynamo.System, i int, at dynamo.State, t float64) error {
	dx := sys.Derive(at, t)
	if err := dynamo.CheckDim(at, dx); err != nil {
		return err
	}
	copy(s.k[i], dx)
	return nil
}

// RK2 is Heun's method: the second stage is taken at t+h.
type RK2 struct{ stages }

func NewRK2() *RK2 { return &RK2{} }

func (r *RK2) Name() string { return NameRK2 }
func (r *RK2) Order() int   { return 2 }
func (r *RK2) Reset()       {}

func (r *RK2) Step(sys dynamo.System, x dynamo.State, t, h float64) error {
	n := len(x)
	r.ensureScratch(n)

	if err := r.eval(sys, 0, x, t); err != nil {
		return err
	}
	k1 := r.k[0]

	for i := 0; i < n; i++ {
		r.scratch[i] = x[i] + h*k1[i]
	}
	if err := r.eval(sys, 1, r.scratch, t+h); err != nil {
		return err
	}
	k2 := r.k[1]

	h2 := h / 2.0
	for i := 0; i < n; i++ {
		x[i] += h2 * (k1[i] + k2[i])
	}
	return nil
}

// RK3 is Kutta's third-order method with stages at t, t+h/2 and t+h.
type RK3 struct{ stages }

func NewRK3() *RK3 { return &RK3{} }

func (r *RK3) Name() string { return NameRK3 }
func (r *RK3) Order() int   { return 3 }
func (r *RK3) Reset()       {}

func (r *RK3) Step(sys dynamo.System, x dynamo.State, t, h float64) error {
	n := len(x)
	r.ensureScratch(n)

	if err := r.eval(sys, 0, x, t); err != nil {
		return err
	}
	k1 := r.k[0]

	for i := 0; i < n; i++ {
		r.scratch[i] = x[i] + 0.5*h*k1[i]
	}
	if err := r.eval(sys, 1, r.scratch, t+0.5*h); err != nil {
		return err
	}
	k2 := r.k[1]

	for i := 0; i < n; i++ {
		r.scratch[i] = x[i] - h*k1[i] + 2*h*k2[i]
	}
	if err := r.eval(sys, 2, r.scratch, t+h); err != nil {
		return err
	}
	k3 := r.k[2]

	h6 := h / 6.0
	for i := 0; i < n; i++ {
		x[i] += h6 * (k1[i] + 4*k2[i] + k3[i])
	}
	return nil
}

// RK4 uses the 3/8-rule tableau: stages at t, t+h/3, t+2h/3, t+h and
// weights (1, 3, 3, 1)/8.
type RK4 struct{ stages }

func NewRK4() *RK4 { return &RK4{} }

func (r *RK4) Name() string { return NameRK4 }
func (r *RK4) Order() int   { return 4 }
func (r *RK4) Reset()       {}

func (r *RK4) Step(sys dynamo.System, x dynamo.State, t, h float64) error {
	n := len(x)
	r.ensureScratch(n)

	const third = 1.0 / 3.0

	if err := r.eval(sys, 0, x, t); err != nil {
		return err
	}
	k1 := r.k[0]

	for i := 0; i < n; i++ {
		r.scratch[i] = x[i] + h*third*k1[i]
	}
	if err := r.eval(sys, 1, r.scratch, t+h*third); err != nil {
		return err
	}
	k2 := r.k[1]

	for i := 0; i < n; i++ {
		r.scratch[i] = x[i] + h*(k2[i]-third*k1[i])
	}
	if err := r.eval(sys, 2, r.scratch, t+2*h*third); err != nil {
		return err
	}
	k3 := r.k[2]

	for i := 0; i < n; i++ {
		r.scratch[i] = x[i] + h*(k1[i]-k2[i]+k3[i])
	}
	if err := r.eval(sys, 3, r.scratch, t+h); err != nil {
		return err
	}
	k4 := r.k[3]

	h8 := h / 8.0
	for i := 0; i < n; i++ {
		x[i] += h8 * (k1[i] + 3*k2[i] + 3*k3[i] + k4[i])
	}
	return nil
}
