package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/san-kum/odestep/internal/automation"
	"github.com/san-kum/odestep/internal/experiment"
	"github.com/san-kum/odestep/internal/storage"
	"github.com/san-kum/odestep/internal/viz"
)

func newScenarioCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "scenario <file.yaml>",
		Short: "run a scripted sequence of solves",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sc, err := automation.LoadScenario(args[0])
			if err != nil {
				return err
			}

			var st *storage.Store
			for _, step := range sc.Steps {
				if step.Save {
					if st, err = openStore(); err != nil {
						return err
					}
					break
				}
			}

			results, err := automation.RunScenario(cmd.Context(), sc, experiment.NewRunner(logger), st, logger)
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "STEP\tMODEL\tMETHOD\tSAMPLES\tFINAL STATE\tRUN ID\tSTATUS")
			failed := 0
			for _, r := range results {
				if r.Result == nil {
					failed++
					fmt.Fprintf(tw, "%d\t-\t-\t-\t-\t-\t%v\n", r.Index+1, r.Err)
					continue
				}
				status := "ok"
				if r.Err != nil {
					failed++
					status = r.Err.Error()
				}
				meta := r.Result.Meta
				fmt.Fprintf(tw, "%d\t%s\t%s\t%d\t%s\t%s\t%s\n", r.Index+1, meta.Model, meta.Method, meta.Samples,
					viz.FormatState(r.Result.Trajectory.Final().X), r.RunID, status)
			}
			if err := tw.Flush(); err != nil {
				return err
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d steps failed", failed, len(results))
			}
			return nil
		},
	}
}

func newSweepCmd() *cobra.Command {
	var (
		rf     runFlags
		param  string
		lo, hi float64
		points int
	)

	cmd := &cobra.Command{
		Use:   "sweep [model]",
		Short: "solve a model for evenly spaced values of one parameter",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := rf.resolve(cmd, args)
			if err != nil {
				return err
			}

			results, err := automation.RunSweep(cmd.Context(), &automation.ParameterSweep{
				Base: cfg, Param: param, Min: lo, Max: hi, Points: points,
			})
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintf(tw, "%s\tFINAL STATE\tPEAK NORM\tENERGY DRIFT\tSTATUS\n", param)
			for _, r := range results {
				status := "ok"
				if r.Err != nil {
					status = r.Err.Error()
				}
				drift := "-"
				if v, ok := r.Metrics["energy_drift"]; ok {
					drift = fmt.Sprintf("%.3e", v)
				}
				fmt.Fprintf(tw, "%g\t%s\t%.4g\t%s\t%s\n", r.ParamValue, viz.FormatState(r.FinalState),
					r.Metrics["peak_norm"], drift, status)
			}
			return tw.Flush()
		},
	}

	rf.register(cmd)
	cmd.Flags().StringVar(&param, "sweep", "", "parameter to vary")
	cmd.Flags().Float64Var(&lo, "from", 0, "first parameter value")
	cmd.Flags().Float64Var(&hi, "to", 1, "last parameter value")
	cmd.Flags().IntVar(&points, "points", 5, "number of values")
	_ = cmd.MarkFlagRequired("sweep")
	return cmd
}
