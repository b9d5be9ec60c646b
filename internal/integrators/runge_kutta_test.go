package integrators

import (
	"math"
	"testing"

	"github.com/san-kum/odestep/internal/dynamo"
)

func TestRungeKuttaOscillatorAccuracy(t *testing.T) {
	tests := []struct {
		method dynamo.Method
		tol    float64
	}{
		{NewRK2(), 1e-3},
		{NewRK3(), 1e-5},
		{NewRK4(), 1e-8},
	}

	for _, tt := range tests {
		t.Run(tt.method.Name(), func(t *testing.T) {
			x := dynamo.State{1.0, 0.0}
			dt := 0.01
			steps := 100

			for i := 0; i < steps; i++ {
				if err := tt.method.Step(oscillator, x, float64(i)*dt, dt); err != nil {
					t.Fatalf("step %d: %v", i, err)
				}
			}

			expectedX := math.Cos(float64(steps) * dt)
			expectedV := -math.Sin(float64(steps) * dt)

			if math.Abs(x[0]-expectedX) > tt.tol {
				t.Errorf("position error too large: got %.10f, expected %.10f", x[0], expectedX)
			}
			if math.Abs(x[1]-expectedV) > tt.tol {
				t.Errorf("velocity error too large: got %.10f, expected %.10f", x[1], expectedV)
			}
		})
	}
}

func TestRK4StageTimes(t *testing.T) {
	var times []float64
	sys := dynamo.SystemFunc(func(x dynamo.State, t float64) dynamo.State {
		times = append(times, t)
		return dynamo.State{0}
	})

	if err := NewRK4().Step(sys, dynamo.State{0}, 1.0, 0.3); err != nil {
		t.Fatal(err)
	}

	expected := []float64{1.0, 1.1, 1.2, 1.3}
	if len(times) != len(expected) {
		t.Fatalf("expected %d stages, got %d", len(expected), len(times))
	}
	for i := range expected {
		if math.Abs(times[i]-expected[i]) > 1e-12 {
			t.Errorf("stage %d at t=%.12f, expected %.12f", i, times[i], expected[i])
		}
	}
}

func TestRK4TimeDependentQuadrature(t *testing.T) {
	// dy/dt = t^3 is integrated exactly by a fourth-order rule.
	sys := dynamo.SystemFunc(func(x dynamo.State, t float64) dynamo.State {
		return dynamo.State{t * t * t}
	})
	x := dynamo.State{0}
	if err := NewRK4().Step(sys, x, 0, 2.0); err != nil {
		t.Fatal(err)
	}
	if math.Abs(x[0]-4.0) > 1e-12 {
		t.Errorf("expected 4, got %.15f", x[0])
	}
}
