// Package dynamo provides the core primitives shared by the physlab
// integrators, models and tools.
//
// The package defines the types that flow between a force model, an
// integrator and the consumers of its output:
//
//   - [Force]: acceleration as a function of position
//   - [Hamiltonian]: total mechanical energy of a (position, velocity) pair
//   - [Integrator]: advances a [Force] from an initial condition
//   - [Trajectory]: index-aligned time, position and velocity series
//   - [StepEvent]: annotation left by a step that had to fall back
//
// # Example
//
//	osc := physics.HarmonicFromPeriod(1.0, 1.0)
//	integ := integrators.NewVarStep()
//	traj, err := integ.Integrate(osc, 0.1, 0.0, dynamo.DefaultConfig())
//
// # Thread Safety
//
// A [Trajectory] is built by a single integration run and is not safe for
// concurrent mutation. Finished trajectories can be read concurrently.
package dynamo
