package experiment

import (
	"context"
	"time"

	"github.com/go-kit/kit/log"
	"github.com/go-kit/kit/log/level"

	"github.com/san-kum/odestep/internal/config"
	"github.com/san-kum/odestep/internal/dynamo"
	"github.com/san-kum/odestep/internal/metrics"
	"github.com/san-kum/odestep/internal/storage"
)

// Runner builds a model and a method from a config, runs the driver and
// records timing, evaluation counts and metrics.
type Runner struct {
	logger log.Logger
}

func NewRunner(logger log.Logger) *Runner {
	if logger == nil {
		logger = log.NewNopLogger()
	}
	return &Runner{logger: logger}
}

type Result struct {
	Meta       storage.RunMetadata
	Trajectory dynamo.Trajectory
}

// Run solves cfg. When a step fails the partial trajectory is returned
// together with the error, and the error is recorded in the metadata.
func (r *Runner) Run(ctx context.Context, cfg *config.Config) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	model, err := cfg.BuildModel()
	if err != nil {
		return nil, err
	}
	method, err := cfg.BuildMethod()
	if err != nil {
		return nil, err
	}

	x0 := cfg.GetInitState(model)
	iv := cfg.GetInterval()
	counter := dynamo.NewCountingSystem(model)
	logger := log.With(r.logger, "method", method.Name(), "model", model.Name(), "h", cfg.Step)

	level.Debug(logger).Log("msg", "run started", "lo", iv.Lo, "hi", iv.Hi)
	start := time.Now()
	traj, runErr := dynamo.Solve(method, counter, x0, iv, cfg.Step)
	elapsed := time.Since(start)

	meta := storage.RunMetadata{
		Model:     model.Name(),
		Method:    method.Name(),
		Timestamp: start,
		Step:      cfg.Step,
		Lo:        iv.Lo,
		Hi:        iv.Hi,
		InitState: x0,
		Params:    model.GetParams(),
		Samples:   len(traj),
		Evals:     counter.Evals,
		Elapsed:   elapsed,
		Metrics:   metrics.Evaluate(traj, metrics.Default(model)...),
	}

	if runErr != nil {
		meta.Error = runErr.Error()
		level.Error(logger).Log("msg", "run failed", "steps", len(traj)-1, "elapsed", elapsed, "err", runErr)
		return &Result{Meta: meta, Trajectory: traj}, runErr
	}

	level.Info(logger).Log("msg", "run finished", "steps", len(traj)-1, "evals", counter.Evals, "elapsed", elapsed)
	return &Result{Meta: meta, Trajectory: traj}, nil
}

// Eval runs cfg through dynamo.Eval and returns only the terminal state.
func (r *Runner) Eval(ctx context.Context, cfg *config.Config) (dynamo.State, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	model, err := cfg.BuildModel()
	if err != nil {
		return nil, err
	}
	method, err := cfg.BuildMethod()
	if err != nil {
		return nil, err
	}

	x := cfg.GetInitState(model)
	start := time.Now()
	err = dynamo.Eval(method, model, x, cfg.GetInterval(), cfg.Step)
	level.Info(r.logger).Log("msg", "eval finished", "method", method.Name(), "model", model.Name(),
		"h", cfg.Step, "elapsed", time.Since(start), "err", err)
	return x, err
}
