// Package dynamo provides the core primitives for integrating initial-value
// problems of first-order ordinary differential equations.
//
// The package defines the fundamental types and the generic driver loop:
//
//   - [State]: vector representing the system state
//   - [System]: the right-hand side dX/dt = f(X, t)
//   - [Interval]: closed time range bounding a run
//   - [Method]: capability set every stepping method implements
//   - [Solve] and [Eval]: advance a State across an Interval
//
// # Example
//
//	sys := dynamo.SystemFunc(func(x dynamo.State, t float64) dynamo.State {
//		return dynamo.State{x[0]}
//	})
//	traj, err := dynamo.Solve(integrators.NewRK4(), sys, dynamo.State{1}, dynamo.NewInterval(0, 1), 0.01)
//
// # Thread Safety
//
// Methods hold per-run history and are NOT safe for concurrent use. One
// Method instance serves one run at a time; use [Ensemble] to run several
// independent jobs, each with its own Method.
package dynamo
