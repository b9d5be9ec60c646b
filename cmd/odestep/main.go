package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/go-kit/kit/log"
	"github.com/go-kit/kit/log/level"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/san-kum/odestep/internal/storage"
)

var (
	settings = viper.New()
	logger   log.Logger
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "odestep",
		Short:         "fixed-step ODE solver lab",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			logger, err = newLogger(settings.GetString("log-level"))
			return err
		},
	}

	rootCmd.PersistentFlags().String("data", ".odestep", "data directory for saved runs")
	rootCmd.PersistentFlags().String("log-level", "warn", "log level: debug, info, warn, error, none")

	settings.SetEnvPrefix("ODESTEP")
	settings.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	settings.AutomaticEnv()
	_ = settings.BindPFlag("data", rootCmd.PersistentFlags().Lookup("data"))
	_ = settings.BindPFlag("log-level", rootCmd.PersistentFlags().Lookup("log-level"))

	rootCmd.AddCommand(
		newSolveCmd(),
		newEvalCmd(),
		newBenchCmd(),
		newOrderCmd(),
		newMethodsCmd(),
		newModelsCmd(),
		newPresetsCmd(),
		newListCmd(),
		newPlotCmd(),
		newExportCmd(),
		newViewCmd(),
		newDeleteCmd(),
		newScenarioCmd(),
		newSweepCmd(),
	)
	return rootCmd
}

// newLogger writes logfmt to stderr, filtered to the named level.
func newLogger(name string) (log.Logger, error) {
	var opt level.Option
	switch strings.ToLower(name) {
	case "debug":
		opt = level.AllowDebug()
	case "info":
		opt = level.AllowInfo()
	case "warn", "":
		opt = level.AllowWarn()
	case "error":
		opt = level.AllowError()
	case "none":
		opt = level.AllowNone()
	default:
		return nil, fmt.Errorf("unknown log level %q", name)
	}

	l := log.NewLogfmtLogger(log.NewSyncWriter(os.Stderr))
	l = log.With(l, "ts", log.DefaultTimestampUTC)
	return level.NewFilter(l, opt), nil
}

func openStore() (*storage.Store, error) {
	st := storage.New(settings.GetString("data"))
	if err := st.Init(); err != nil {
		return nil, err
	}
	return st, nil
}
