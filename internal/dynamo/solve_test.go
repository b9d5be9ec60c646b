package dynamo_test

import (
	"context"
	"errors"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/odestep/internal/dynamo"
)

// recorder is a forward Euler step that records how the driver calls it.
type recorder struct {
	resets int
	times  []float64
	failAt int
}

func (r *recorder) Name() string { return "recorder" }
func (r *recorder) Order() int   { return 1 }
func (r *recorder) Reset() {
	r.resets++
	r.times = r.times[:0]
}

func (r *recorder) Step(sys dynamo.System, x dynamo.State, t, h float64) error {
	if r.failAt > 0 && len(r.times) == r.failAt {
		return errors.New("boom")
	}
	r.times = append(r.times, t)
	dx := sys.Derive(x, t)
	for i := range x {
		x[i] += h * dx[i]
	}
	return nil
}

type fixedDim struct{ n int }

func (f fixedDim) StateDim() int { return f.n }
func (f fixedDim) Derive(x dynamo.State, t float64) dynamo.State {
	return make(dynamo.State, f.n)
}

var decay = dynamo.SystemFunc(func(x dynamo.State, t float64) dynamo.State {
	return dynamo.State{-x[0]}
})

var _ = Describe("Driver", func() {
	unit := dynamo.NewInterval(0, 1)

	Describe("Solve", func() {
		It("records the initial sample plus one per step", func() {
			traj, err := dynamo.Solve(&recorder{}, decay, dynamo.State{1}, unit, 0.01)
			Expect(err).NotTo(HaveOccurred())
			Expect(traj).To(HaveLen(1 + int(math.Ceil(1/0.01))))

			traj, err = dynamo.Solve(&recorder{}, decay, dynamo.State{1}, unit, 0.3)
			Expect(err).NotTo(HaveOccurred())
			Expect(traj).To(HaveLen(5))
			Expect(traj.Final().T).To(BeNumerically("~", 1.2, 1e-12))
		})

		It("takes one more step when time lands exactly on Hi", func() {
			traj, err := dynamo.Solve(&recorder{}, decay, dynamo.State{1}, unit, 0.25)
			Expect(err).NotTo(HaveOccurred())
			Expect(traj.Times()).To(Equal([]float64{0, 0.25, 0.5, 0.75, 1.0, 1.25}))
		})

		It("resets the method and steps at the accumulated times", func() {
			r := &recorder{}
			_, err := dynamo.Solve(r, decay, dynamo.State{1}, dynamo.NewInterval(2, 3), 0.5)
			Expect(err).NotTo(HaveOccurred())
			Expect(r.resets).To(Equal(1))
			Expect(r.times).To(Equal([]float64{2, 2.5, 3}))
		})

		It("keeps snapshots independent of the live state and of x0", func() {
			x0 := dynamo.State{1}
			traj, err := dynamo.Solve(&recorder{}, decay, x0, unit, 0.5)
			Expect(err).NotTo(HaveOccurred())
			Expect(x0).To(Equal(dynamo.State{1}))

			traj[0].X[0] = 42
			Expect(traj[1].X[0]).To(Equal(0.5))
			Expect(traj[2].X[0]).To(Equal(0.25))
		})

		It("returns only the initial sample for an empty interval", func() {
			traj, err := dynamo.Solve(&recorder{}, decay, dynamo.State{1}, dynamo.NewInterval(1, 0), 0.1)
			Expect(err).NotTo(HaveOccurred())
			Expect(traj).To(HaveLen(1))
			Expect(traj.Final().T).To(Equal(1.0))
		})

		It("returns the partial trajectory with a wrapped step error", func() {
			traj, err := dynamo.Solve(&recorder{failAt: 3}, decay, dynamo.State{1}, unit, 0.1)
			Expect(traj).To(HaveLen(4))

			var simErr *dynamo.SimulationError
			Expect(errors.As(err, &simErr)).To(BeTrue())
			Expect(simErr.Step).To(Equal(3))
			Expect(simErr.Time).To(BeNumerically("~", 0.3, 1e-12))
			Expect(simErr.State).To(Equal(traj.Final().X))
		})
	})

	Describe("Eval", func() {
		It("agrees with the last sample of Solve", func() {
			traj, err := dynamo.Solve(&recorder{}, decay, dynamo.State{1}, unit, 0.01)
			Expect(err).NotTo(HaveOccurred())

			x := dynamo.State{1}
			Expect(dynamo.Eval(&recorder{}, decay, x, unit, 0.01)).To(Succeed())
			Expect(x).To(Equal(traj.Final().X))
		})
	})

	DescribeTable("rejects invalid step sizes",
		func(h float64) {
			_, err := dynamo.Solve(&recorder{}, decay, dynamo.State{1}, unit, h)
			Expect(err).To(MatchError(dynamo.ErrInvalidStep))
			Expect(dynamo.Eval(&recorder{}, decay, dynamo.State{1}, unit, h)).To(MatchError(dynamo.ErrInvalidStep))
		},
		Entry("zero", 0.0),
		Entry("negative", -0.1),
		Entry("NaN", math.NaN()),
		Entry("+Inf", math.Inf(1)),
	)

	It("checks the initial state against a dimensioned system", func() {
		_, err := dynamo.Solve(&recorder{}, fixedDim{n: 3}, dynamo.State{1, 2}, unit, 0.1)
		Expect(err).To(MatchError(dynamo.ErrDimensionMismatch))

		_, err = dynamo.Solve(&recorder{}, dynamo.NewCountingSystem(fixedDim{n: 2}), dynamo.State{1, 2}, unit, 0.1)
		Expect(err).NotTo(HaveOccurred())
	})

	It("counts derivative evaluations", func() {
		counter := dynamo.NewCountingSystem(decay)
		Expect(counter.StateDim()).To(Equal(-1))
		Expect(dynamo.Eval(&recorder{}, counter, dynamo.State{1}, unit, 0.3)).To(Succeed())
		Expect(counter.Evals).To(Equal(4))
	})

	Describe("Trajectory", func() {
		It("extracts components, times and states", func() {
			traj := dynamo.Trajectory{
				{T: 0, X: dynamo.State{1, 2}},
				{T: 0.5, X: dynamo.State{3, 4}},
			}
			Expect(traj.Dim()).To(Equal(2))
			Expect(traj.Component(1)).To(Equal([]float64{2, 4}))
			Expect(traj.Component(5)).To(Equal([]float64{0, 0}))
			Expect(traj.Times()).To(Equal([]float64{0, 0.5}))
			Expect(traj.States()).To(HaveLen(2))
			Expect(dynamo.Trajectory{}.Final()).To(Equal(dynamo.Sample{}))
		})
	})

	Describe("Ensemble", func() {
		It("runs independent jobs and keeps job order", func() {
			ens := dynamo.NewEnsemble()
			for _, h := range []float64{0.1, 0.05, 0.025} {
				ens.Add(dynamo.Job{Name: "decay", Method: &recorder{}, System: decay, X0: dynamo.State{1}, Interval: unit, Step: h})
			}
			Expect(ens.Len()).To(Equal(3))

			outcomes := ens.Run(context.Background())
			Expect(dynamo.FirstError(outcomes)).NotTo(HaveOccurred())
			Expect(outcomes[0].Trajectory).To(HaveLen(12))
			Expect(len(outcomes[2].Trajectory)).To(BeNumerically(">", len(outcomes[1].Trajectory)))
		})

		It("skips jobs once the context is canceled", func() {
			ctx, cancel := context.WithCancel(context.Background())
			cancel()

			outcomes := dynamo.NewEnsemble(dynamo.Job{Name: "a", Method: &recorder{}, System: decay, X0: dynamo.State{1}, Interval: unit, Step: 0.1}).Run(ctx)
			Expect(dynamo.FirstError(outcomes)).To(MatchError(context.Canceled))
			Expect(outcomes[0].Name).To(Equal("a"))
		})
	})
})
