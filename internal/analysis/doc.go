// Package analysis provides tools for inspecting integrated trajectories.
//
//   - [Resample]: linear interpolation of a non-uniform series onto a grid
//   - [PowerSpectrum], [DominantPeriod]: FFT-based period estimate
//   - [ZeroCrossings], [CrossingPeriod]: time-domain period estimate
//   - [NewPhasePortrait]: (position, velocity) portrait and its ASCII form
//
// Trajectories from the adaptive integrator are sampled non-uniformly, so
// the spectral tools resample before transforming:
//
//	period, err := analysis.DominantPeriod(tr.Times, tr.Positions, 0.01)
package analysis
