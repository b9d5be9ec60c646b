package dynamo

// Sample is one recorded point of a run. X is owned by the sample.
type Sample struct {
	T float64
	X State
}

// Trajectory is the time-ordered output of Solve.
type Trajectory []Sample

// Final returns the last sample, or the zero Sample for an empty trajectory.
func (tr Trajectory) Final() Sample {
	if len(tr) == 0 {
		return Sample{}
	}
	return tr[len(tr)-1]
}

func (tr Trajectory) Times() []float64 {
	times := make([]float64, len(tr))
	for i, s := range tr {
		times[i] = s.T
	}
	return times
}

func (tr Trajectory) States() []State {
	states := make([]State, len(tr))
	for i, s := range tr {
		states[i] = s.X
	}
	return states
}

// Component extracts the i-th state variable over time. Samples shorter than
// i+1 contribute zero.
func (tr Trajectory) Component(i int) []float64 {
	data := make([]float64, len(tr))
	for k, s := range tr {
		if i < len(s.X) {
			data[k] = s.X[i]
		}
	}
	return data
}

// Dim returns the state dimension of the first sample.
func (tr Trajectory) Dim() int {
	if len(tr) == 0 {
		return 0
	}
	return len(tr[0].X)
}
