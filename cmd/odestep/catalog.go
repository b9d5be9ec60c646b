package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/san-kum/odestep/internal/config"
	"github.com/san-kum/odestep/internal/experiment"
	"github.com/san-kum/odestep/internal/models"
	"github.com/san-kum/odestep/internal/viz"
)

func newMethodsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "methods",
		Short: "list stepping methods",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return viz.MethodsTable(cmd.OutOrStdout(), experiment.ListMethods())
		},
	}
}

func newModelsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "models",
		Short: "list ready-made models",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return viz.ModelsTable(cmd.OutOrStdout(), experiment.ListModels())
		},
	}
}

func newPresetsCmd() *cobra.Command {
	var write string

	cmd := &cobra.Command{
		Use:   "presets [model] [preset]",
		Short: "list presets, or print one as yaml",
		Args:  cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch len(args) {
			case 0:
				for _, name := range models.Names() {
					if presets := config.ListPresets(name); len(presets) > 0 {
						fmt.Fprintf(out, "%s: %v\n", name, presets)
					}
				}
				return nil
			case 1:
				fmt.Fprintf(out, "%s: %v\n", args[0], config.ListPresets(args[0]))
				return nil
			}

			cfg := config.GetPreset(args[0], args[1])
			if cfg == nil {
				return fmt.Errorf("unknown preset: %s/%s", args[0], args[1])
			}
			if write != "" {
				if err := config.Save(write, cfg); err != nil {
					return err
				}
				fmt.Fprintf(out, "wrote %s\n", write)
				return nil
			}
			fmt.Fprintf(out, "model: %s\nmethod: %s\nstep: %g\ninterval: [%g, %g]\ninit_state: %v\nparams: %v\n",
				cfg.Model, cfg.Method, cfg.Step, cfg.Interval.Lo, cfg.Interval.Hi, cfg.InitState, cfg.Params)
			return nil
		},
	}

	cmd.Flags().StringVarP(&write, "output", "o", "", "write the preset to a yaml config file")
	return cmd
}
