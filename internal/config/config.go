package config

import (
	"errors"
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/odestep/internal/dynamo"
	"github.com/san-kum/odestep/internal/integrators"
	"github.com/san-kum/odestep/internal/models"
)

const (
	DefaultStep = 0.01
	DefaultLo   = 0.0
	DefaultHi   = 20.0
)

var ErrInvalidConfig = errors.New("config: invalid")

type Config struct {
	Model         string             `yaml:"model"`
	Method        string             `yaml:"method"`
	Step          float64            `yaml:"step"`
	Interval      IntervalConfig     `yaml:"interval"`
	InitState     []float64          `yaml:"init_state,omitempty"`
	Params        map[string]float64 `yaml:"params,omitempty"`
	Tolerance     float64            `yaml:"tolerance,omitempty"`
	MaxIterations int                `yaml:"max_iterations,omitempty"`
}

type IntervalConfig struct {
	Lo float64 `yaml:"lo"`
	Hi float64 `yaml:"hi"`
}

func DefaultConfig() *Config {
	return &Config{
		Model:    "spring_damper",
		Method:   integrators.NameRK4,
		Step:     DefaultStep,
		Interval: IntervalConfig{Lo: DefaultLo, Hi: DefaultHi},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate checks that the config names a known model and method and
// describes a run that terminates.
func (c *Config) Validate() error {
	if _, err := integrators.Canonical(c.Method); err != nil {
		return err
	}
	m, err := models.NewWithParams(c.Model, c.Params)
	if err != nil {
		return err
	}
	if c.Step <= 0 || math.IsNaN(c.Step) || math.IsInf(c.Step, 0) {
		return fmt.Errorf("%w: step must be positive and finite, got %v", ErrInvalidConfig, c.Step)
	}
	if math.IsNaN(c.Interval.Lo) || math.IsNaN(c.Interval.Hi) || math.IsInf(c.Interval.Lo, 0) || math.IsInf(c.Interval.Hi, 0) {
		return fmt.Errorf("%w: interval bounds must be finite", ErrInvalidConfig)
	}
	if c.Interval.Hi < c.Interval.Lo {
		return fmt.Errorf("%w: interval [%g, %g] is reversed", ErrInvalidConfig, c.Interval.Lo, c.Interval.Hi)
	}
	if c.Tolerance < 0 {
		return fmt.Errorf("%w: tolerance must not be negative", ErrInvalidConfig)
	}
	if c.MaxIterations < 0 {
		return fmt.Errorf("%w: max_iterations must not be negative", ErrInvalidConfig)
	}
	if len(c.InitState) > 0 && len(c.InitState) != m.StateDim() {
		return fmt.Errorf("%w: %s has %d state components, init_state has %d",
			ErrInvalidConfig, c.Model, m.StateDim(), len(c.InitState))
	}
	return nil
}

func (c *Config) GetInterval() dynamo.Interval {
	return dynamo.NewInterval(c.Interval.Lo, c.Interval.Hi)
}

// GetInitState returns a copy of init_state, or the model's default state
// when none is configured.
func (c *Config) GetInitState(m models.Model) dynamo.State {
	if len(c.InitState) == 0 {
		return m.DefaultState()
	}
	return dynamo.State(c.InitState).Clone()
}

// MethodOptions translates the implicit-method settings. Zero values keep
// the method defaults.
func (c *Config) MethodOptions() []integrators.Option {
	var opts []integrators.Option
	if c.Tolerance > 0 {
		opts = append(opts, integrators.WithTolerance(c.Tolerance))
	}
	if c.MaxIterations > 0 {
		opts = append(opts, integrators.WithMaxIterations(c.MaxIterations))
	}
	return opts
}

func (c *Config) BuildModel() (models.Model, error) {
	return models.NewWithParams(c.Model, c.Params)
}

func (c *Config) BuildMethod() (dynamo.Method, error) {
	return integrators.New(c.Method, c.MethodOptions()...)
}
