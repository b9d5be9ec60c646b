package viz

import (
	"fmt"
	"math"
	"strings"

	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/odestep/internal/dynamo"
)

const maxPlots = 6

// plotLimit bounds the magnitudes handed to asciigraph, which cannot scale
// infinite values.
const plotLimit = 1e12

var componentLabels = map[string][]string{
	"exponential":   {"y"},
	"oscillator":    {"position", "velocity"},
	"spring_damper": {"x1 (upper mass)", "x2 (lower mass)", "v1", "v2"},
	"pendulum":      {"theta (angle)", "omega (angular velocity)"},
	"vanderpol":     {"x", "y"},
	"lorenz":        {"x", "y", "z"},
}

// ComponentLabel names state variable i of model, falling back to "x<i>".
func ComponentLabel(model string, i int) string {
	if labels, ok := componentLabels[model]; ok && i < len(labels) {
		return labels[i]
	}
	return fmt.Sprintf("x%d", i)
}

// plottable returns data up to the first sample that is not finite or
// exceeds plotLimit in magnitude.
func plottable(data []float64) []float64 {
	for i, v := range data {
		if !finite(v) || math.Abs(v) > plotLimit {
			return data[:i]
		}
	}
	return data
}

// PlotSeries draws one line chart of the plottable prefix of data.
func PlotSeries(data []float64, caption string, width, height int) string {
	data = plottable(data)
	if len(data) == 0 {
		return ""
	}
	return asciigraph.Plot(data,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Caption(caption),
	)
}

// PlotComponents draws one chart per state variable, at most six. A
// non-empty selection restricts the charts to those components.
func PlotComponents(traj dynamo.Trajectory, model string, components []int, width, height int) string {
	if len(traj) == 0 {
		return ""
	}
	if len(components) == 0 {
		for i := 0; i < traj.Dim() && i < maxPlots; i++ {
			components = append(components, i)
		}
	}

	t0, t1 := traj[0].T, traj.Final().T
	var b strings.Builder
	for _, i := range components {
		if i < 0 || i >= traj.Dim() {
			continue
		}
		label := ComponentLabel(model, i)
		series := traj.Component(i)
		kept := plottable(series)
		if len(kept) == 0 {
			fmt.Fprintf(&b, "%s: diverged at t=%g\n\n", label, traj[0].T)
			continue
		}
		caption := fmt.Sprintf("%s over t in [%g, %g]", label, t0, t1)
		if len(kept) < len(series) {
			caption = fmt.Sprintf("%s over t in [%g, %g], diverged at t=%g", label, t0, traj[len(kept)-1].T, traj[len(kept)].T)
		}
		b.WriteString(PlotSeries(kept, caption, width, height))
		b.WriteString("\n\n")
	}
	return b.String()
}

// PhasePortrait plots component yi against component xi on a braille canvas
// of width x height cells.
func PhasePortrait(traj dynamo.Trajectory, model string, xi, yi, width, height int) (string, error) {
	if len(traj) == 0 {
		return "", fmt.Errorf("no data to plot")
	}
	if xi < 0 || yi < 0 || xi >= traj.Dim() || yi >= traj.Dim() {
		return "", fmt.Errorf("state dimension %d too small for axes %d and %d", traj.Dim(), xi, yi)
	}

	xs, ys := traj.Component(xi), traj.Component(yi)
	c := NewCanvas(width, height)
	c.Path(xs, ys)

	xlo, xhi := bounds(xs)
	ylo, yhi := bounds(ys)

	var b strings.Builder
	fmt.Fprintf(&b, "%s vs %s\n", ComponentLabel(model, yi), ComponentLabel(model, xi))
	fmt.Fprintf(&b, "y: [%.4g, %.4g]\n", ylo, yhi)
	b.WriteString(c.String())
	fmt.Fprintf(&b, "x: [%.4g, %.4g]\n", xlo, xhi)
	return b.String(), nil
}
