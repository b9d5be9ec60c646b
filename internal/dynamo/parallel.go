package dynamo

import (
	"context"
	"sync"
)

// Job is one independent Solve call. Jobs must not share a Method instance.
type Job struct {
	Name     string
	Method   Method
	System   System
	X0       State
	Interval Interval
	Step     float64
}

type Outcome struct {
	Name       string
	Trajectory Trajectory
	Err        error
}

// Ensemble runs independent jobs concurrently, one goroutine per job.
type Ensemble struct {
	jobs []Job
}

func NewEnsemble(jobs ...Job) *Ensemble {
	return &Ensemble{jobs: jobs}
}

func (e *Ensemble) Add(j Job) { e.jobs = append(e.jobs, j) }

func (e *Ensemble) Len() int { return len(e.jobs) }

// Run solves every job and returns outcomes in job order. Jobs that have not
// started when ctx is canceled report ctx.Err().
func (e *Ensemble) Run(ctx context.Context) []Outcome {
	outcomes := make([]Outcome, len(e.jobs))

	var wg sync.WaitGroup
	for i := range e.jobs {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()

			j := e.jobs[idx]
			outcomes[idx].Name = j.Name

			select {
			case <-ctx.Done():
				outcomes[idx].Err = ctx.Err()
				return
			default:
			}

			outcomes[idx].Trajectory, outcomes[idx].Err = Solve(j.Method, j.System, j.X0, j.Interval, j.Step)
		}(i)
	}

	wg.Wait()
	return outcomes
}

// FirstError returns the first failing outcome's error, if any.
func FirstError(outcomes []Outcome) error {
	for _, o := range outcomes {
		if o.Err != nil {
			return o.Err
		}
	}
	return nil
}
