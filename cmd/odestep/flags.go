package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/san-kum/odestep/internal/config"
)

// runFlags are shared by every command that solves a model. Values from a
// preset or config file are overridden only by flags the user set.
type runFlags struct {
	configFile string
	preset     string
	method     string
	step       float64
	lo, hi     float64
	initState  []float64
	params     []string
	tolerance  float64
	maxIter    int
}

func (f *runFlags) register(cmd *cobra.Command) {
	def := config.DefaultConfig()
	cmd.Flags().StringVar(&f.configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&f.preset, "preset", "", "use preset configuration")
	cmd.Flags().StringVarP(&f.method, "method", "m", def.Method, "stepping method")
	cmd.Flags().Float64VarP(&f.step, "step", "s", def.Step, "step size h")
	cmd.Flags().Float64Var(&f.lo, "lo", def.Interval.Lo, "interval start")
	cmd.Flags().Float64Var(&f.hi, "hi", def.Interval.Hi, "interval end")
	cmd.Flags().Float64SliceVar(&f.initState, "init", nil, "initial state (comma separated)")
	cmd.Flags().StringArrayVarP(&f.params, "param", "p", nil, "model parameter name=value (repeatable)")
	cmd.Flags().Float64Var(&f.tolerance, "tolerance", 0, "fixed-point tolerance of implicit methods (0 = step size)")
	cmd.Flags().IntVar(&f.maxIter, "max-iter", 0, "fixed-point iteration cap of implicit methods (0 = default)")
}

// resolve builds the run config: defaults, then preset, then config file,
// then changed flags. A positional model argument wins over both files.
func (f *runFlags) resolve(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.DefaultConfig()
	model := ""
	if len(args) > 0 {
		model = args[0]
	}

	if f.preset != "" {
		name := model
		if name == "" {
			name = cfg.Model
		}
		p := config.GetPreset(name, f.preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available for %s: %v)", f.preset, name, config.ListPresets(name))
		}
		cfg = p
	}

	if f.configFile != "" {
		loaded, err := config.Load(f.configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	if model != "" && model != cfg.Model {
		cfg.Model = model
		cfg.InitState = nil
		cfg.Params = nil
	}

	flags := cmd.Flags()
	if flags.Changed("method") {
		cfg.Method = f.method
	}
	if flags.Changed("step") {
		cfg.Step = f.step
	}
	if flags.Changed("lo") {
		cfg.Interval.Lo = f.lo
	}
	if flags.Changed("hi") {
		cfg.Interval.Hi = f.hi
	}
	if flags.Changed("init") {
		cfg.InitState = append([]float64(nil), f.initState...)
	}
	if flags.Changed("tolerance") {
		cfg.Tolerance = f.tolerance
	}
	if flags.Changed("max-iter") {
		cfg.MaxIterations = f.maxIter
	}
	if len(f.params) > 0 {
		params, err := parseParams(f.params)
		if err != nil {
			return nil, err
		}
		if cfg.Params == nil {
			cfg.Params = make(map[string]float64, len(params))
		}
		for k, v := range params {
			cfg.Params[k] = v
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func parseParams(pairs []string) (map[string]float64, error) {
	params := make(map[string]float64, len(pairs))
	for _, pair := range pairs {
		name, raw, ok := strings.Cut(pair, "=")
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid parameter %q, want name=value", pair)
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("parameter %s: %w", name, err)
		}
		params[strings.TrimSpace(name)] = v
	}
	return params, nil
}

func parseComponents(raw []int) []int {
	out := make([]int, 0, len(raw))
	for _, c := range raw {
		if c >= 0 {
			out = append(out, c)
		}
	}
	return out
}
