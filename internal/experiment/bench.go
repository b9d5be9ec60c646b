package experiment

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/go-kit/kit/log/level"

	"github.com/san-kum/odestep/internal/config"
	"github.com/san-kum/odestep/internal/dynamo"
	"github.com/san-kum/odestep/internal/integrators"
)

// DefaultReferenceStep is the step of the fine RK4 reference run.
const DefaultReferenceStep = 1e-5

var ErrNoMethods = errors.New("experiment: no methods to benchmark")

type BenchOptions struct {
	Methods       []string
	ReferenceStep float64
	// Components selects the state variables compared against the
	// reference. Empty compares all of them.
	Components []int
}

type BenchResult struct {
	Method   string
	Order    int
	Samples  int
	FinalT   float64
	Evals    int
	Elapsed  time.Duration
	MaxError float64
	Err      error
}

// Bench runs every method on cfg's model at cfg's step and compares the
// terminal state with an RK4 reference taken at a fine step that ends at
// exactly the same time. Methods run one after another so timings are
// comparable.
func (r *Runner) Bench(ctx context.Context, cfg *config.Config, opts BenchOptions) ([]BenchResult, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if len(opts.Methods) == 0 {
		return nil, ErrNoMethods
	}
	refStep := opts.ReferenceStep
	if refStep <= 0 {
		refStep = DefaultReferenceStep
	}

	model, err := cfg.BuildModel()
	if err != nil {
		return nil, err
	}
	x0 := cfg.GetInitState(model)
	iv := cfg.GetInterval()

	results := make([]BenchResult, 0, len(opts.Methods))
	for _, name := range opts.Methods {
		if err := ctx.Err(); err != nil {
			return results, err
		}

		method, err := integrators.New(name, cfg.MethodOptions()...)
		if err != nil {
			return results, err
		}

		counter := dynamo.NewCountingSystem(model)
		start := time.Now()
		traj, runErr := dynamo.Solve(method, counter, x0, iv, cfg.Step)
		res := BenchResult{
			Method:  method.Name(),
			Order:   method.Order(),
			Samples: len(traj),
			FinalT:  traj.Final().T,
			Evals:   counter.Evals,
			Elapsed: time.Since(start),
			Err:     runErr,
		}

		if runErr == nil {
			ref := x0.Clone()
			if err := integrateTo(integrators.NewRK4(), model, ref, iv.Lo, res.FinalT, refStep); err != nil {
				return results, fmt.Errorf("reference run: %w", err)
			}
			res.MaxError = maxError(traj.Final().X, ref, opts.Components)
		} else {
			res.MaxError = math.NaN()
		}

		level.Info(r.logger).Log("msg", "bench", "method", res.Method, "model", model.Name(), "h", cfg.Step,
			"steps", res.Samples-1, "evals", res.Evals, "elapsed", res.Elapsed, "max_error", res.MaxError)
		results = append(results, res)
	}
	return results, nil
}

// integrateTo advances x from t0 to exactly t1 with the smallest number of
// equal steps no larger than maxStep.
func integrateTo(m dynamo.Method, sys dynamo.System, x dynamo.State, t0, t1, maxStep float64) error {
	span := t1 - t0
	if span <= 0 {
		return nil
	}
	n := int(math.Ceil(span / maxStep))
	h := span / float64(n)

	m.Reset()
	for i := 0; i < n; i++ {
		t := t0 + float64(i)*h
		if err := m.Step(sys, x, t, h); err != nil {
			return &dynamo.SimulationError{Step: i, Time: t, State: x.Clone(), Wrapped: err}
		}
	}
	return nil
}

func maxError(got, want dynamo.State, components []int) float64 {
	if len(components) == 0 {
		return got.MaxAbsDiff(want)
	}
	worst := 0.0
	for _, i := range components {
		if i < 0 || i >= len(got) || i >= len(want) {
			continue
		}
		worst = math.Max(worst, math.Abs(got[i]-want[i]))
	}
	return worst
}
