package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/san-kum/odestep/internal/storage"
	"github.com/san-kum/odestep/internal/viz"
)

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "list saved runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := openStore()
			if err != nil {
				return err
			}
			runs, err := st.List()
			if err != nil {
				return err
			}
			return viz.RunsTable(cmd.OutOrStdout(), runs)
		},
	}
}

func newPlotCmd() *cobra.Command {
	var (
		components []int
		phase      []int
		width      int
		height     int
	)

	cmd := &cobra.Command{
		Use:   "plot <run-id>",
		Short: "plot a saved run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := openStore()
			if err != nil {
				return err
			}
			meta, err := st.Load(args[0])
			if err != nil {
				return err
			}
			traj, err := st.LoadTrajectory(args[0])
			if err != nil {
				return err
			}
			if len(traj) == 0 {
				return fmt.Errorf("no data to plot")
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "run: %s\nmodel: %s\nmethod: %s\nsamples: %d\n\n", meta.ID, meta.Model, meta.Method, len(traj))

			if len(phase) == 2 {
				portrait, err := viz.PhasePortrait(traj, meta.Model, phase[0], phase[1], width/2, height)
				if err != nil {
					return err
				}
				fmt.Fprint(out, portrait)
				return nil
			}
			fmt.Fprint(out, viz.PlotComponents(traj, meta.Model, parseComponents(components), width, height))
			return nil
		},
	}

	cmd.Flags().IntSliceVar(&components, "components", nil, "components to plot (default all)")
	cmd.Flags().IntSliceVar(&phase, "phase", nil, "draw a phase portrait of two components, e.g. --phase 0,1")
	cmd.Flags().IntVar(&width, "width", 80, "plot width")
	cmd.Flags().IntVar(&height, "height", 10, "plot height")
	return cmd
}

func newExportCmd() *cobra.Command {
	var (
		format string
		output string
	)

	cmd := &cobra.Command{
		Use:   "export <run-id>",
		Short: "export a saved run as json or csv",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := openStore()
			if err != nil {
				return err
			}
			meta, err := st.Load(args[0])
			if err != nil {
				return err
			}
			traj, err := st.LoadTrajectory(args[0])
			if err != nil {
				return err
			}

			if output == "" {
				return storage.Export(cmd.OutOrStdout(), format, *meta, traj)
			}
			if err := storage.ExportFile(output, format, *meta, traj); err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "exported %d samples to %s\n", len(traj), output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "json", "export format: json or csv")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	return cmd
}

func newViewCmd() *cobra.Command {
	var fps int

	cmd := &cobra.Command{
		Use:   "view <run-id>",
		Short: "replay a saved run in the terminal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := openStore()
			if err != nil {
				return err
			}
			meta, err := st.Load(args[0])
			if err != nil {
				return err
			}
			traj, err := st.LoadTrajectory(args[0])
			if err != nil {
				return err
			}
			return viz.RunPlayer(traj, meta.Model, meta.Method, fps)
		},
	}

	cmd.Flags().IntVar(&fps, "fps", 30, "frame rate")
	return cmd
}

func newDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <run-id>...",
		Short: "delete saved runs",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := openStore()
			if err != nil {
				return err
			}
			for _, id := range args {
				if err := st.Delete(id); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", id)
			}
			return nil
		},
	}
}
