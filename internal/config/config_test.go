package config

import (
	"math"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/odestep/internal/dynamo"
	"github.com/san-kum/odestep/internal/integrators"
	"github.com/san-kum/odestep/internal/models"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "spring_damper", cfg.Model)
	assert.Equal(t, integrators.NameRK4, cfg.Method)
	assert.Greater(t, cfg.Step, 0.0)
	assert.Equal(t, dynamo.NewInterval(0, 20), cfg.GetInterval())
	require.NoError(t, cfg.Validate())
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yaml")
	cfg := GetPreset("spring_damper", "stiff")
	require.NotNil(t, cfg)

	require.NoError(t, Save(path, cfg))
	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		target error
	}{
		{"zero step", func(c *Config) { c.Step = 0 }, ErrInvalidConfig},
		{"nan step", func(c *Config) { c.Step = math.NaN() }, ErrInvalidConfig},
		{"reversed interval", func(c *Config) { c.Interval = IntervalConfig{Lo: 1, Hi: 0} }, ErrInvalidConfig},
		{"infinite bound", func(c *Config) { c.Interval.Hi = math.Inf(1) }, ErrInvalidConfig},
		{"negative tolerance", func(c *Config) { c.Tolerance = -1 }, ErrInvalidConfig},
		{"negative iterations", func(c *Config) { c.MaxIterations = -1 }, ErrInvalidConfig},
		{"wrong state size", func(c *Config) { c.InitState = []float64{1, 2} }, ErrInvalidConfig},
		{"unknown method", func(c *Config) { c.Method = "leapfrog" }, integrators.ErrUnknownMethod},
		{"unknown model", func(c *Config) { c.Model = "cartpole" }, models.ErrUnknownModel},
		{"unknown param", func(c *Config) { c.Params = map[string]float64{"q": 1} }, models.ErrUnknownParam},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			assert.ErrorIs(t, cfg.Validate(), tt.target)
		})
	}
}

func TestGetInitState(t *testing.T) {
	cfg := DefaultConfig()
	m, err := cfg.BuildModel()
	require.NoError(t, err)
	assert.Equal(t, m.DefaultState(), cfg.GetInitState(m))

	cfg.InitState = []float64{1, 2, 3, 4}
	x := cfg.GetInitState(m)
	x[0] = 99
	assert.Equal(t, 1.0, cfg.InitState[0])
}

func TestBuildMethod(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Method = "trapezoidal"
	cfg.Tolerance = 1e-9
	cfg.MaxIterations = 50
	assert.Len(t, cfg.MethodOptions(), 2)

	m, err := cfg.BuildMethod()
	require.NoError(t, err)
	assert.Equal(t, integrators.NameModifiedEuler, m.Name())
}

func TestPresets(t *testing.T) {
	for model := range Presets {
		for _, name := range ListPresets(model) {
			cfg := GetPreset(model, name)
			require.NotNil(t, cfg, "%s/%s", model, name)
			assert.Equal(t, model, cfg.Model)
			assert.NoError(t, cfg.Validate(), "%s/%s", model, name)
		}
	}

	cfg := GetPreset("spring_damper", "original")
	require.NotNil(t, cfg)
	assert.Equal(t, []float64{0, 1, 0, 0}, cfg.InitState)

	cfg.InitState[0] = 5
	assert.Equal(t, 0.0, Presets["spring_damper"]["original"].InitState[0])
}

func TestGetPresetNotFound(t *testing.T) {
	assert.Nil(t, GetPreset("spring_damper", "nonexistent"))
	assert.Nil(t, GetPreset("nonexistent", "original"))
	assert.Nil(t, ListPresets("nonexistent"))
	assert.Equal(t, []string{"decay", "unit"}, ListPresets("exponential"))
}
