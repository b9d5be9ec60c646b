package automation

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/go-kit/kit/log"
	"github.com/go-kit/kit/log/level"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/odestep/internal/config"
	"github.com/san-kum/odestep/internal/dynamo"
	"github.com/san-kum/odestep/internal/experiment"
	"github.com/san-kum/odestep/internal/metrics"
	"github.com/san-kum/odestep/internal/storage"
)

var ErrEmptyScenario = errors.New("automation: scenario has no steps")

// Scenario is a scripted sequence of runs.
type Scenario struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Steps       []ScenarioStep `yaml:"steps"`
}

// ScenarioStep is one run. Preset, when set, supplies the base config that
// the inline fields then override.
type ScenarioStep struct {
	Preset        string                 `yaml:"preset"`
	Model         string                 `yaml:"model"`
	Method        string                 `yaml:"method"`
	Step          float64                `yaml:"step"`
	Interval      *config.IntervalConfig `yaml:"interval"`
	InitState     []float64              `yaml:"init_state"`
	Params        map[string]float64     `yaml:"params"`
	Tolerance     float64                `yaml:"tolerance"`
	MaxIterations int                    `yaml:"max_iterations"`
	Save          bool                   `yaml:"save"`
}

// Config resolves the step against the defaults or its preset.
func (s ScenarioStep) Config() (*config.Config, error) {
	cfg := config.DefaultConfig()
	if s.Preset != "" {
		model := s.Model
		if model == "" {
			model = cfg.Model
		}
		p := config.GetPreset(model, s.Preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s/%s", model, s.Preset)
		}
		cfg = p
	} else if s.Model != "" && s.Model != cfg.Model {
		cfg.Model = s.Model
		cfg.InitState = nil
	}

	if s.Method != "" {
		cfg.Method = s.Method
	}
	if s.Step != 0 {
		cfg.Step = s.Step
	}
	if s.Interval != nil {
		cfg.Interval = *s.Interval
	}
	if len(s.InitState) > 0 {
		cfg.InitState = append([]float64(nil), s.InitState...)
	}
	if len(s.Params) > 0 {
		cfg.Params = s.Params
	}
	if s.Tolerance != 0 {
		cfg.Tolerance = s.Tolerance
	}
	if s.MaxIterations != 0 {
		cfg.MaxIterations = s.MaxIterations
	}
	return cfg, cfg.Validate()
}

func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if len(scenario.Steps) == 0 {
		return nil, ErrEmptyScenario
	}
	return &scenario, nil
}

// StepResult is the outcome of one scenario step. RunID is set when the
// step was saved.
type StepResult struct {
	Index  int
	RunID  string
	Result *experiment.Result
	Err    error
}

// RunScenario executes the steps in order. A failing step is recorded and
// the scenario continues; store may be nil when no step saves.
func RunScenario(ctx context.Context, scenario *Scenario, runner *experiment.Runner, store *storage.Store, logger log.Logger) ([]StepResult, error) {
	if logger == nil {
		logger = log.NewNopLogger()
	}
	results := make([]StepResult, 0, len(scenario.Steps))

	for i, step := range scenario.Steps {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		level.Info(logger).Log("msg", "scenario step", "scenario", scenario.Name, "step", i+1, "of", len(scenario.Steps))

		sr := StepResult{Index: i}
		cfg, err := step.Config()
		if err != nil {
			sr.Err = fmt.Errorf("step %d: %w", i+1, err)
			results = append(results, sr)
			continue
		}

		sr.Result, sr.Err = runner.Run(ctx, cfg)
		if sr.Err != nil {
			sr.Err = fmt.Errorf("step %d: %w", i+1, sr.Err)
		}
		if step.Save && sr.Result != nil {
			if store == nil {
				return results, fmt.Errorf("step %d: no store to save into", i+1)
			}
			id, err := store.Save(sr.Result.Meta, sr.Result.Trajectory)
			if err != nil {
				return results, fmt.Errorf("step %d save: %w", i+1, err)
			}
			sr.RunID = id
			sr.Result.Meta.ID = id
		}
		results = append(results, sr)
	}
	return results, nil
}

// ParameterSweep varies one model parameter over [Min, Max] in Points
// evenly spaced values.
type ParameterSweep struct {
	Base   *config.Config
	Param  string
	Min    float64
	Max    float64
	Points int
}

type SweepResult struct {
	ParamValue float64
	FinalState dynamo.State
	Metrics    map[string]float64
	Err        error
}

// RunSweep solves every parameter value concurrently and returns results in
// parameter order.
func RunSweep(ctx context.Context, sweep *ParameterSweep) ([]SweepResult, error) {
	if sweep.Points < 1 {
		return nil, fmt.Errorf("sweep needs at least one point, got %d", sweep.Points)
	}

	values := make([]float64, sweep.Points)
	for i := range values {
		values[i] = sweep.Min
		if sweep.Points > 1 {
			values[i] += float64(i) * (sweep.Max - sweep.Min) / float64(sweep.Points-1)
		}
	}

	ens := dynamo.NewEnsemble()
	systems := make([]dynamo.System, len(values))
	for i, v := range values {
		cfg := *sweep.Base
		cfg.Params = make(map[string]float64, len(sweep.Base.Params)+1)
		for k, pv := range sweep.Base.Params {
			cfg.Params[k] = pv
		}
		cfg.Params[sweep.Param] = v
		if err := cfg.Validate(); err != nil {
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
		systems[i] = model
		ens.Add(dynamo.Job{
			Name:     fmt.Sprintf("%s=%g", sweep.Param, v),
			Method:   method,
			System:   model,
			X0:       cfg.GetInitState(model),
			Interval: cfg.GetInterval(),
			Step:     cfg.Step,
		})
	}

	outcomes := ens.Run(ctx)
	results := make([]SweepResult, len(outcomes))
	for i, out := range outcomes {
		results[i] = SweepResult{
			ParamValue: values[i],
			FinalState: out.Trajectory.Final().X,
			Metrics:    metrics.Evaluate(out.Trajectory, metrics.Default(systems[i])...),
			Err:        out.Err,
		}
	}
	if err := ctx.Err(); err != nil {
		return results, err
	}
	return results, nil
}
