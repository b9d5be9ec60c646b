package integrators

import (
	"errors"
	"math"
	"reflect"
	"testing"

	"github.com/san-kum/odestep/internal/dynamo"
)

var growth = dynamo.SystemFunc(func(x dynamo.State, t float64) dynamo.State {
	return dynamo.State{x[0]}
})

var unitInterval = dynamo.NewInterval(0, 1)

// terminalError integrates dy/dt = y from y(0)=1 over [0,1] and compares the
// last sample against e^T at the sample's own time.
func terminalError(t *testing.T, m dynamo.Method, h float64) float64 {
	t.Helper()
	traj, err := dynamo.Solve(m, growth, dynamo.State{1}, unitInterval, h)
	if err != nil {
		t.Fatalf("%s: %v", m.Name(), err)
	}
	final := traj.Final()
	return math.Abs(final.X[0] - math.Exp(final.T))
}

func TestEndToEndGrowth(t *testing.T) {
	x := dynamo.State{1.0}
	if err := dynamo.Eval(NewEuler(), growth, x, unitInterval, 0.01); err != nil {
		t.Fatal(err)
	}
	if math.Abs(x[0]-math.Pow(1.01, 100)) > 1e-9 {
		t.Errorf("forward Euler: got %.12f, expected 1.01^100", x[0])
	}
	if math.Abs(x[0]-2.7048) > 1e-4 {
		t.Errorf("forward Euler: got %.6f, expected about 2.7048", x[0])
	}

	x = dynamo.State{1.0}
	if err := dynamo.Eval(NewRK4(), growth, x, unitInterval, 0.01); err != nil {
		t.Fatal(err)
	}
	if math.Abs(x[0]-math.E) > 1e-6 {
		t.Errorf("RK4: got %.10f, expected e", x[0])
	}
}

func TestConvergenceOrder(t *testing.T) {
	tests := []struct {
		name     string
		expected float64
	}{
		{NameForwardEuler, 1},
		{NameBackwardEuler, 1},
		{NameModifiedEuler, 2},
		{NameRK2, 2},
		{NameRK3, 3},
		{NameRK4, 4},
		// The seeding phase leaves the Adams pairs one step behind the clock.
		{NamePC3, 1},
		{NamePC4, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			coarse, _ := New(tt.name)
			fine, _ := New(tt.name)

			observed := math.Log2(terminalError(t, coarse, 1.0/64) / terminalError(t, fine, 1.0/128))
			if math.Abs(observed-tt.expected) > 0.3 {
				t.Errorf("observed order %.3f, expected %.1f", observed, tt.expected)
			}
		})
	}
}

func TestPredictorCorrectorWarmUp(t *testing.T) {
	euler, err := dynamo.Solve(NewEuler(), growth, dynamo.State{1}, unitInterval, 0.1)
	if err != nil {
		t.Fatal(err)
	}

	for _, pc := range []*PredictorCorrector{NewPC3(), NewPC4()} {
		adams, err := dynamo.Solve(pc, growth, dynamo.State{1}, unitInterval, 0.1)
		if err != nil {
			t.Fatal(err)
		}
		if adams[1].X[0] != adams[0].X[0] {
			t.Errorf("%s: seeding phase moved the state to %g", pc.Name(), adams[1].X[0])
		}

		warm := pc.Order() - 1
		for i := 0; i <= warm; i++ {
			if !reflect.DeepEqual(adams[i+1].X, euler[i].X) {
				t.Errorf("%s sample %d: got %v, forward Euler sample %d is %v", pc.Name(), i+1, adams[i+1].X, i, euler[i].X)
			}
		}
		if math.Abs(adams[warm+2].X[0]-euler[warm+1].X[0]) < 1e-6 {
			t.Errorf("%s: expected the Adams recurrence to leave forward Euler after warm-up", pc.Name())
		}
	}
}

func TestPredictorCorrectorRecurrence(t *testing.T) {
	traj, err := dynamo.Solve(NewPC3(), growth, dynamo.State{1}, dynamo.NewInterval(0, 0.5), 0.1)
	if err != nil {
		t.Fatal(err)
	}

	want := []float64{1.0, 1.0, 1.1, 1.21, 1.330382, 1.471499, 1.626757}
	if len(traj) != len(want) {
		t.Fatalf("expected %d samples, got %d", len(want), len(traj))
	}
	for i, w := range want {
		if math.Abs(traj[i].X[0]-w) > 1e-6 {
			t.Errorf("pc3 sample %d: got %.6f, expected %.6f", i, traj[i].X[0], w)
		}
	}

	traj, err = dynamo.Solve(NewPC4(), growth, dynamo.State{1}, unitInterval, 0.1)
	if err != nil {
		t.Fatal(err)
	}
	for i, w := range map[int]float64{4: 1.331, 5: 1.462587, 6: 1.618259} {
		if math.Abs(traj[i].X[0]-w) > 1e-6 {
			t.Errorf("pc4 sample %d: got %.6f, expected %.6f", i, traj[i].X[0], w)
		}
	}
}

func TestPredictorCorrectorEvaluations(t *testing.T) {
	for _, pc := range []*PredictorCorrector{NewPC3(), NewPC4()} {
		counter := dynamo.NewCountingSystem(growth)
		traj, err := dynamo.Solve(pc, counter, dynamo.State{1}, unitInterval, 0.1)
		if err != nil {
			t.Fatal(err)
		}
		if counter.Evals != len(traj)-1 {
			t.Errorf("%s: %d evaluations for %d steps", pc.Name(), counter.Evals, len(traj)-1)
		}
	}
}

func TestPredictorCorrectorPhases(t *testing.T) {
	pc := NewPC4()
	x := dynamo.State{1}
	for i := 0; i < 4; i++ {
		if pc.Phase() != i || pc.Steady() {
			t.Fatalf("before step %d: phase %d, steady %v", i, pc.Phase(), pc.Steady())
		}
		if err := pc.Step(growth, x, float64(i)*0.1, 0.1); err != nil {
			t.Fatal(err)
		}
	}
	for i := 0; i < 3; i++ {
		if err := pc.Step(growth, x, 0.4+float64(i)*0.1, 0.1); err != nil {
			t.Fatal(err)
		}
		if pc.Phase() != 4 || !pc.Steady() {
			t.Errorf("steady step %d: phase %d, steady %v", i, pc.Phase(), pc.Steady())
		}
	}

	pc.Reset()
	if pc.Phase() != 0 {
		t.Errorf("expected phase 0 after reset, got %d", pc.Phase())
	}
}

func TestPredictorCorrectorReuse(t *testing.T) {
	pc := NewPC3()
	first, err := dynamo.Solve(pc, growth, dynamo.State{1}, unitInterval, 0.05)
	if err != nil {
		t.Fatal(err)
	}
	second, err := dynamo.Solve(pc, growth, dynamo.State{1}, unitInterval, 0.05)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Error("expected identical trajectories from a reused instance")
	}
}

func TestPredictorCorrectorDimensionChange(t *testing.T) {
	pc := NewPC3()
	if err := pc.Step(growth, dynamo.State{1}, 0, 0.1); err != nil {
		t.Fatal(err)
	}

	pair := dynamo.SystemFunc(func(x dynamo.State, t float64) dynamo.State {
		return dynamo.State{x[0], x[1]}
	})
	if err := pc.Step(pair, dynamo.State{1, 2}, 0.1, 0.1); !errors.Is(err, dynamo.ErrDimensionMismatch) {
		t.Errorf("expected ErrDimensionMismatch, got %v", err)
	}
}

func TestImplicitIterations(t *testing.T) {
	be := NewBackwardEuler()
	if err := be.Step(growth, dynamo.State{1}, 0, 1.0/64); err != nil {
		t.Fatal(err)
	}
	if be.Iterations() != 2 {
		t.Errorf("backward Euler: expected 2 iterations, got %d", be.Iterations())
	}

	me := NewModifiedEuler()
	if err := me.Step(growth, dynamo.State{1}, 0, 1.0/64); err != nil {
		t.Fatal(err)
	}
	if me.Iterations() != 2 {
		t.Errorf("modified Euler: expected 2 iterations, got %d", me.Iterations())
	}
}

func TestImplicitTightTolerance(t *testing.T) {
	x := dynamo.State{1}
	if err := NewBackwardEuler(WithTolerance(1e-14)).Step(growth, x, 0, 0.1); err != nil {
		t.Fatal(err)
	}
	if math.Abs(x[0]-1/(1-0.1)) > 1e-12 {
		t.Errorf("backward Euler: got %.15f, expected 1/0.9", x[0])
	}

	x = dynamo.State{1}
	if err := NewModifiedEuler(WithTolerance(1e-14)).Step(growth, x, 0, 0.1); err != nil {
		t.Fatal(err)
	}
	if math.Abs(x[0]-1.05/0.95) > 1e-12 {
		t.Errorf("modified Euler: got %.15f, expected 1.05/0.95", x[0])
	}
}

func TestImplicitNotConverged(t *testing.T) {
	stiff := dynamo.SystemFunc(func(x dynamo.State, t float64) dynamo.State {
		return dynamo.State{100 * x[0]}
	})
	for _, m := range []dynamo.Method{
		NewBackwardEuler(WithMaxIterations(25)),
		NewModifiedEuler(WithMaxIterations(25)),
	} {
		x := dynamo.State{1}
		err := dynamo.Eval(m, stiff, x, unitInterval, 0.1)
		if !errors.Is(err, dynamo.ErrNotConverged) {
			t.Errorf("%s: expected ErrNotConverged, got %v", m.Name(), err)
		}
		var simErr *dynamo.SimulationError
		if !errors.As(err, &simErr) {
			t.Errorf("%s: expected a SimulationError, got %T", m.Name(), err)
		}
		if x[0] != 1.0 {
			t.Errorf("%s: state changed to %g after a failed step", m.Name(), x[0])
		}
	}
}

func TestDimensionMismatch(t *testing.T) {
	wide := dynamo.SystemFunc(func(x dynamo.State, t float64) dynamo.State {
		return dynamo.State{x[0], 0}
	})

	for _, name := range Names() {
		t.Run(name, func(t *testing.T) {
			m, _ := New(name)
			traj, err := dynamo.Solve(m, wide, dynamo.State{1}, unitInterval, 0.1)
			if !errors.Is(err, dynamo.ErrDimensionMismatch) {
				t.Errorf("expected ErrDimensionMismatch, got %v", err)
			}
			if len(traj) != 1 {
				t.Errorf("expected only the initial sample, got %d", len(traj))
			}
		})
	}
}

func TestDeterminism(t *testing.T) {
	for _, name := range Names() {
		t.Run(name, func(t *testing.T) {
			a, _ := New(name)
			b, _ := New(name)
			first, err := dynamo.Solve(a, growth, dynamo.State{1}, unitInterval, 0.01)
			if err != nil {
				t.Fatal(err)
			}
			second, err := dynamo.Solve(b, growth, dynamo.State{1}, unitInterval, 0.01)
			if err != nil {
				t.Fatal(err)
			}
			if !reflect.DeepEqual(first, second) {
				t.Error("trajectories differ between fresh instances")
			}
		})
	}
}

func TestRegistry(t *testing.T) {
	if _, err := New("Adams-4"); !errors.Is(err, ErrUnknownMethod) {
		t.Errorf("expected ErrUnknownMethod, got %v", err)
	}

	aliases := map[string]string{"adams4": NamePC4, "Heun": NameRK2, "euler": NameForwardEuler}
	for alias, want := range aliases {
		m, err := New(alias)
		if err != nil {
			t.Fatalf("New(%q): %v", alias, err)
		}
		if m.Name() != want {
			t.Errorf("alias %q resolved to %s, expected %s", alias, m.Name(), want)
		}
	}

	if len(Names()) != 8 {
		t.Errorf("expected 8 methods, got %d", len(Names()))
	}
	for _, name := range Names() {
		if Describe(name) == "" {
			t.Errorf("method %s has no description", name)
		}
		m, _ := New(name)
		if m.Name() != name || m.Order() < 1 {
			t.Errorf("method %s reports name %s and order %d", name, m.Name(), m.Order())
		}
	}
}
