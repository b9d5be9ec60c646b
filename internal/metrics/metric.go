package metrics

import (
	"math"

	"github.com/san-kum/odestep/internal/dynamo"
	"gonum.org/v1/gonum/floats"
)

// Metric observes the samples of a run and summarizes them as one number.
type Metric interface {
	Name() string
	Observe(x dynamo.State, t float64)
	Value() float64
	Reset()
}

// Conservative is implemented by models with a scalar energy function.
type Conservative interface {
	Energy(x dynamo.State) float64
}

// Evaluate resets every metric, feeds it the whole trajectory and collects
// the values by name.
func Evaluate(traj dynamo.Trajectory, ms ...Metric) map[string]float64 {
	out := make(map[string]float64, len(ms))
	for _, m := range ms {
		m.Reset()
		for _, s := range traj {
			m.Observe(s.X, s.T)
		}
		out[m.Name()] = m.Value()
	}
	return out
}

// Default returns the metrics that apply to sys.
func Default(sys dynamo.System) []Metric {
	ms := []Metric{NewPeakNorm(), NewStability(1e6)}
	if c, ok := sys.(Conservative); ok {
		ms = append(ms, NewEnergyDrift(c))
	}
	return ms
}

// PeakNorm is the largest Euclidean norm seen over the run.
type PeakNorm struct {
	peak float64
}

func NewPeakNorm() *PeakNorm { return &PeakNorm{} }

func (p *PeakNorm) Name() string { return "peak_norm" }

func (p *PeakNorm) Observe(x dynamo.State, t float64) {
	p.peak = math.Max(p.peak, x.Norm())
}

func (p *PeakNorm) Value() float64 { return p.peak }

func (p *PeakNorm) Reset() { p.peak = 0 }

// Stability is the fraction of samples that are finite with every component
// within Limit. An empty run counts as stable.
type Stability struct {
	Limit float64

	bounded int
	samples int
}

func NewStability(limit float64) *Stability { return &Stability{Limit: limit} }

func (s *Stability) Name() string { return "stability" }

func (s *Stability) Observe(x dynamo.State, t float64) {
	s.samples++
	if x.IsValid() && floats.Norm(x, math.Inf(1)) <= s.Limit {
		s.bounded++
	}
}

func (s *Stability) Value() float64 {
	if s.samples == 0 {
		return 1
	}
	return float64(s.bounded) / float64(s.samples)
}

func (s *Stability) Reset() { s.bounded, s.samples = 0, 0 }
