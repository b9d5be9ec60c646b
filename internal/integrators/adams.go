package integrators

import (
	"fmt"

	"github.com/san-kum/odestep/internal/dynamo"
	"gonum.org/v1/gonum/floats"
)

// adamsPair is an Adams-Bashforth predictor with its Adams-Moulton corrector.
// predictor weights apply to f_n, f_n-1, ...; corrector weights apply to the
// predicted derivative first, then f_n, f_n-1, ...
type adamsPair struct {
	name      string
	order     int
	predictor []float64
	corrector []float64
	denom     float64
}

var (
	adams3 = adamsPair{
		name:      NamePC3,
		order:     3,
		predictor: []float64{23, -16, 5},
		corrector: []float64{5, 8, -1},
		denom:     12,
	}
	adams4 = adamsPair{
		name:      NamePC4,
		order:     4,
		predictor: []float64{55, -59, 37, -9},
		corrector: []float64{9, 19, -5, 1},
		denom:     24,
	}
)

const maxHistory = 4

// PredictorCorrector is a multi-step Adams method driven by a phase counter.
// Phase 0 stores f(x, t) as the first history slot and leaves x alone.
// Phases 1..Order()-1 store f(x, t) in the next slot and take a forward Euler
// step with it. Once the history is full every call predicts with
// Adams-Bashforth, evaluates f at the prediction, shifts that derivative into
// the history and corrects with Adams-Moulton: one evaluation per step.
//
// Because phase 0 does not advance the state, the state lags the driver clock
// by one step. The prediction is evaluated at t, which is the time it
// approximates in that lagged frame.
type PredictorCorrector struct {
	pair adamsPair

	history [maxHistory]dynamo.State
	phase   int
	dim     int
	pred    dynamo.State
}

func NewPC3() *PredictorCorrector { return &PredictorCorrector{pair: adams3} }

func NewPC4() *PredictorCorrector { return &PredictorCorrector{pair: adams4} }

func (p *PredictorCorrector) Name() string { return p.pair.name }
func (p *PredictorCorrector) Order() int   { return p.pair.order }

// Reset returns the method to phase 0 and forgets the history.
func (p *PredictorCorrector) Reset() {
	p.phase = 0
}

// Phase reports the internal counter: 0 while seeding, 1..Order()-1 while
// warming up and Order() once the recurrence is running.
func (p *PredictorCorrector) Phase() int { return p.phase }

// Steady reports whether warm-up has completed.
func (p *PredictorCorrector) Steady() bool { return p.phase == p.pair.order }

func (p *PredictorCorrector) ensureScratch(n int) {
	if p.dim != n {
		for i := range p.history {
			p.history[i] = make(dynamo.State, n)
		}
		p.pred = make(dynamo.State, n)
		p.dim = n
	}
}

// push drops the oldest derivative and appends f, reusing the dropped buffer.
func (p *PredictorCorrector) push(f dynamo.State) {
	k := p.pair.order
	oldest := p.history[0]
	copy(p.history[:k-1], p.history[1:k])
	copy(oldest, f)
	p.history[k-1] = oldest
}

// recent returns f_n-j, the j-th most recent stored derivative.
func (p *PredictorCorrector) recent(j int) dynamo.State {
	return p.history[p.pair.order-1-j]
}

func (p *PredictorCorrector) Step(sys dynamo.System, x dynamo.State, t, h float64) error {
	if p.phase > 0 && len(x) != p.dim {
		return fmt.Errorf("%w: state has %d components, history has %d", dynamo.ErrDimensionMismatch, len(x), p.dim)
	}
	p.ensureScratch(len(x))

	if p.phase < p.pair.order {
		f := sys.Derive(x, t)
		if err := dynamo.CheckDim(x, f); err != nil {
			return err
		}
		slot := p.history[p.phase]
		copy(slot, f)
		if p.phase > 0 {
			floats.AddScaled(x, h, slot)
		}
		p.phase++
		return nil
	}

	w := h / p.pair.denom
	copy(p.pred, x)
	for j, c := range p.pair.predictor {
		floats.AddScaled(p.pred, w*c, p.recent(j))
	}

	fp := sys.Derive(p.pred, t)
	if err := dynamo.CheckDim(p.pred, fp); err != nil {
		return err
	}
	p.push(fp)

	// recent(0) is now the predicted derivative.
	for j, c := range p.pair.corrector {
		floats.AddScaled(x, w*c, p.recent(j))
	}
	return nil
}
