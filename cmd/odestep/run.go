package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/san-kum/odestep/internal/experiment"
	"github.com/san-kum/odestep/internal/integrators"
	"github.com/san-kum/odestep/internal/viz"
)

func newSolveCmd() *cobra.Command {
	var (
		rf         runFlags
		save       bool
		plot       bool
		view       bool
		components []int
	)

	cmd := &cobra.Command{
		Use:   "solve [model]",
		Short: "solve a model and print the run summary",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := rf.resolve(cmd, args)
			if err != nil {
				return err
			}

			res, runErr := experiment.NewRunner(logger).Run(cmd.Context(), cfg)
			if res == nil {
				return runErr
			}

			if save {
				st, err := openStore()
				if err != nil {
					return err
				}
				id, err := st.Save(res.Meta, res.Trajectory)
				if err != nil {
					return err
				}
				res.Meta.ID = id
			}

			out := cmd.OutOrStdout()
			viz.RunSummary(out, res.Meta, res.Trajectory.Final())
			if plot {
				fmt.Fprintln(out)
				fmt.Fprint(out, viz.PlotComponents(res.Trajectory, res.Meta.Model, parseComponents(components), 80, 10))
			}
			if view && runErr == nil {
				return viz.RunPlayer(res.Trajectory, res.Meta.Model, res.Meta.Method, 30)
			}
			return runErr
		},
	}

	rf.register(cmd)
	cmd.Flags().BoolVar(&save, "save", false, "persist the run to the data directory")
	cmd.Flags().BoolVar(&plot, "plot", false, "plot the state components")
	cmd.Flags().BoolVar(&view, "view", false, "open the trajectory player afterwards")
	cmd.Flags().IntSliceVar(&components, "components", nil, "components to plot (default all)")
	return cmd
}

func newEvalCmd() *cobra.Command {
	var rf runFlags

	cmd := &cobra.Command{
		Use:   "eval [model]",
		Short: "advance a model to the end of the interval and print the terminal state",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := rf.resolve(cmd, args)
			if err != nil {
				return err
			}
			x, err := experiment.NewRunner(logger).Eval(cmd.Context(), cfg)
			fmt.Fprintln(cmd.OutOrStdout(), viz.FormatState(x))
			return err
		},
	}

	rf.register(cmd)
	return cmd
}

func newBenchCmd() *cobra.Command {
	var (
		rf         runFlags
		methods    []string
		refStep    float64
		components []int
	)

	cmd := &cobra.Command{
		Use:   "bench [model]",
		Short: "compare every method against a fine-step RK4 reference",
		Long: "Runs each method at the configured step, times it, counts derivative\n" +
			"evaluations and reports the largest terminal error against RK4 at --ref-step.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := rf.resolve(cmd, args)
			if err != nil {
				return err
			}
			if len(methods) == 0 {
				methods = integrators.Names()
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "benchmarking %s on [%g, %g] with h=%g (reference rk4, h=%g)\n\n",
				cfg.Model, cfg.Interval.Lo, cfg.Interval.Hi, cfg.Step, refStep)

			results, err := experiment.NewRunner(logger).Bench(cmd.Context(), cfg, experiment.BenchOptions{
				Methods:       methods,
				ReferenceStep: refStep,
				Components:    parseComponents(components),
			})
			if err != nil {
				return err
			}
			return viz.BenchTable(out, results)
		},
	}

	rf.register(cmd)
	cmd.Flags().StringSliceVar(&methods, "methods", nil, "methods to compare (default all)")
	cmd.Flags().Float64Var(&refStep, "ref-step", experiment.DefaultReferenceStep, "step of the RK4 reference run")
	cmd.Flags().IntSliceVar(&components, "components", nil, "components compared against the reference (default all)")
	return cmd
}

func newOrderCmd() *cobra.Command {
	var (
		rf     runFlags
		levels int
		plot   bool
	)

	cmd := &cobra.Command{
		Use:   "order [model]",
		Short: "measure the observed convergence order on a model with a closed-form solution",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 && rf.preset == "" && rf.configFile == "" {
				args = []string{"exponential"}
			}
			cfg, err := rf.resolve(cmd, args)
			if err != nil {
				return err
			}

			rows, err := experiment.NewRunner(logger).Order(cmd.Context(), cfg, levels)
			if errors.Is(err, experiment.ErrNoExactSolution) {
				return fmt.Errorf("%w (try exponential or oscillator)", err)
			}
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s on %s over [%g, %g]\n\n", cfg.Method, cfg.Model, cfg.Interval.Lo, cfg.Interval.Hi)
			if err := viz.OrderTable(out, rows); err != nil {
				return err
			}
			if plot {
				fmt.Fprintln(out)
				fmt.Fprintln(out, viz.ErrorCurve(rows, 60, 10))
			}
			return nil
		},
	}

	rf.register(cmd)
	cmd.Flags().IntVar(&levels, "levels", 5, "number of step sizes, each half the previous")
	cmd.Flags().BoolVar(&plot, "plot", false, "plot log10 of the error")
	return cmd
}
