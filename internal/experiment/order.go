package experiment

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/go-kit/kit/log/level"

	"github.com/san-kum/odestep/internal/config"
	"github.com/san-kum/odestep/internal/dynamo"
	"github.com/san-kum/odestep/internal/models"
)

var ErrNoExactSolution = errors.New("experiment: model has no closed-form solution")

type OrderRow struct {
	Step  float64
	Error float64
	// Ratio is error(2h)/error(h); zero on the first row.
	Ratio    float64
	Observed float64
}

// Order measures the empirical convergence order of cfg's method on a model
// with a closed-form solution, halving the step levels-1 times. The runs
// are independent and solved concurrently.
func (r *Runner) Order(ctx context.Context, cfg *config.Config, levels int) ([]OrderRow, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if levels < 2 {
		levels = 2
	}

	model, err := cfg.BuildModel()
	if err != nil {
		return nil, err
	}
	exact, ok := model.(models.Analytic)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNoExactSolution, model.Name())
	}

	x0 := cfg.GetInitState(model)
	iv := cfg.GetInterval()

	ens := dynamo.NewEnsemble()
	h := cfg.Step
	for i := 0; i < levels; i++ {
		method, err := cfg.BuildMethod()
		if err != nil {
			return nil, err
		}
		ens.Add(dynamo.Job{
			Name:     fmt.Sprintf("h=%g", h),
			Method:   method,
			System:   model,
			X0:       x0,
			Interval: iv,
			Step:     h,
		})
		h /= 2
	}

	outcomes := ens.Run(ctx)
	if err := dynamo.FirstError(outcomes); err != nil {
		return nil, err
	}

	rows := make([]OrderRow, len(outcomes))
	h = cfg.Step
	for i, out := range outcomes {
		final := out.Trajectory.Final()
		rows[i] = OrderRow{
			Step:  h,
			Error: final.X.MaxAbsDiff(exact.Exact(x0, iv.Lo, final.T)),
		}
		if i > 0 && rows[i].Error > 0 {
			rows[i].Ratio = rows[i-1].Error / rows[i].Error
			rows[i].Observed = math.Log2(rows[i].Ratio)
		}
		level.Debug(r.logger).Log("msg", "order level", "method", cfg.Method, "model", cfg.Model,
			"h", h, "error", rows[i].Error, "observed", rows[i].Observed)
		h /= 2
	}
	return rows, nil
}
