package config

import "sort"

var Presets = map[string]map[string]*Config{
	"spring_damper": {
		"original": {
			Model: "spring_damper", Method: "rk4", Step: 0.01,
			Interval:  IntervalConfig{Lo: 0, Hi: 20},
			InitState: []float64{0, 1, 0, 0},
		},
		"rest": {
			Model: "spring_damper", Method: "pc4", Step: 0.01,
			Interval:  IntervalConfig{Lo: 0, Hi: 5},
			InitState: []float64{0.1962, 0.2943, 0, 0},
		},
		"stiff": {
			Model: "spring_damper", Method: "backward_euler", Step: 0.001,
			Interval:  IntervalConfig{Lo: 0, Hi: 5},
			InitState: []float64{0, 1, 0, 0},
			Params:    map[string]float64{"k1": 1000, "k2": 1000},
		},
	},
	"exponential": {
		"unit": {
			Model: "exponential", Method: "forward_euler", Step: 0.01,
			Interval:  IntervalConfig{Lo: 0, Hi: 1},
			InitState: []float64{1},
		},
		"decay": {
			Model: "exponential", Method: "modified_euler", Step: 0.05,
			Interval:  IntervalConfig{Lo: 0, Hi: 5},
			InitState: []float64{1},
			Params:    map[string]float64{"k": -1},
		},
	},
	"oscillator": {
		"period": {
			Model: "oscillator", Method: "rk3", Step: 0.01,
			Interval:  IntervalConfig{Lo: 0, Hi: 6.283185307179586},
			InitState: []float64{1, 0},
		},
	},
	"pendulum": {
		"small": {
			Model: "pendulum", Method: "rk4", Step: 0.01,
			Interval:  IntervalConfig{Lo: 0, Hi: 20},
			InitState: []float64{0.2, 0},
		},
		"large": {
			Model: "pendulum", Method: "rk4", Step: 0.01,
			Interval:  IntervalConfig{Lo: 0, Hi: 20},
			InitState: []float64{2.5, 0},
		},
	},
	"vanderpol": {
		"relaxation": {
			Model: "vanderpol", Method: "rk2", Step: 0.005,
			Interval:  IntervalConfig{Lo: 0, Hi: 30},
			InitState: []float64{2, 0},
			Params:    map[string]float64{"mu": 5},
		},
	},
	"lorenz": {
		"butterfly": {
			Model: "lorenz", Method: "rk4", Step: 0.005,
			Interval:  IntervalConfig{Lo: 0, Hi: 40},
			InitState: []float64{1, 1, 1},
		},
	},
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(model, preset string) *Config {
	modelPresets, ok := Presets[model]
	if !ok {
		return nil
	}
	cfg, ok := modelPresets[preset]
	if !ok {
		return nil
	}
	out := *cfg
	out.InitState = append([]float64(nil), cfg.InitState...)
	if cfg.Params != nil {
		out.Params = make(map[string]float64, len(cfg.Params))
		for k, v := range cfg.Params {
			out.Params[k] = v
		}
	}
	return &out
}

func ListPresets(model string) []string {
	modelPresets, ok := Presets[model]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(modelPresets))
	for name := range modelPresets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
