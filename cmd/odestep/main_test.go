package main

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/odestep/internal/config"
	"github.com/san-kum/odestep/internal/storage"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestMethodsAndModels(t *testing.T) {
	out, err := execute(t, "methods")
	require.NoError(t, err)
	for _, name := range []string{"forward_euler", "backward_euler", "modified_euler", "rk2", "rk3", "rk4", "pc3", "pc4"} {
		assert.Contains(t, out, name)
	}

	out, err = execute(t, "models")
	require.NoError(t, err)
	assert.Contains(t, out, "spring_damper")
	assert.Contains(t, out, "original")
}

func TestEvalPreset(t *testing.T) {
	out, err := execute(t, "eval", "exponential", "--preset", "unit", "--log-level", "none")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "[2.704813829"), out)
}

func TestSolveSaveListExport(t *testing.T) {
	data := t.TempDir()

	out, err := execute(t, "solve", "oscillator", "--method", "rk4", "--step", "0.1", "--hi", "1",
		"--save", "--data", data, "--log-level", "none")
	require.NoError(t, err)
	assert.Contains(t, out, "oscillator_")

	runs, err := storage.New(data).List()
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, 12, runs[0].Samples)

	out, err = execute(t, "list", "--data", data)
	require.NoError(t, err)
	assert.Contains(t, out, runs[0].ID)

	out, err = execute(t, "export", runs[0].ID, "--format", "csv", "--data", data)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "t,x0,x1\n0,1,0\n"), out)

	out, err = execute(t, "plot", runs[0].ID, "--phase", "0,1", "--data", data)
	require.NoError(t, err)
	assert.Contains(t, out, "velocity vs position")

	_, err = execute(t, "delete", runs[0].ID, "--data", data)
	require.NoError(t, err)
	_, err = execute(t, "export", runs[0].ID, "--data", data)
	assert.ErrorIs(t, err, storage.ErrRunNotFound)
}

func TestFlagsOverrideConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yaml")
	cfg := config.GetPreset("pendulum", "small")
	require.NotNil(t, cfg)
	require.NoError(t, config.Save(path, cfg))

	var rf runFlags
	cmd := &cobra.Command{Use: "x", RunE: func(*cobra.Command, []string) error { return nil }}
	rf.register(cmd)
	require.NoError(t, cmd.ParseFlags([]string{"--config", path, "--method", "pc3", "-p", "damping=0.5"}))

	resolved, err := rf.resolve(cmd, nil)
	require.NoError(t, err)
	assert.Equal(t, "pendulum", resolved.Model)
	assert.Equal(t, "pc3", resolved.Method)
	assert.Equal(t, 0.01, resolved.Step)
	assert.Equal(t, []float64{0.2, 0}, resolved.InitState)
	assert.Equal(t, 0.5, resolved.Params["damping"])
}

func TestResolveErrors(t *testing.T) {
	var rf runFlags
	cmd := &cobra.Command{Use: "x"}
	rf.register(cmd)

	require.NoError(t, cmd.ParseFlags([]string{"--preset", "nope"}))
	_, err := rf.resolve(cmd, []string{"lorenz"})
	assert.ErrorContains(t, err, "unknown preset")

	_, err = parseParams([]string{"novalue"})
	assert.Error(t, err)
	_, err = parseParams([]string{"k=abc"})
	assert.Error(t, err)
}

func TestUnknownLogLevel(t *testing.T) {
	_, err := execute(t, "methods", "--log-level", "loud")
	assert.ErrorContains(t, err, "unknown log level")
}
