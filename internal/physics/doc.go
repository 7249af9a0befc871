// Package physics provides the force and closed-form models used by physlab:
//
//   - [Harmonic]: point mass on a linear spring (F = -k·x)
//   - [LennardJones]: pair potential and force between two atoms
//   - [Puck]: ice-hockey puck sliding under air drag and ice friction
//
// [Harmonic] implements [dynamo.Force] and [dynamo.Hamiltonian] and is the
// model driven by the integrators package. The other two are evaluated in
// closed form.
//
// # Energy Conservation
//
//	osc := physics.HarmonicFromPeriod(1.0, 1.0)
//	e0 := osc.Energy(0.1, 0.0)
package physics
