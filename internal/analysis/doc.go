// Package analysis turns sweep results into the reporting artifacts handed
// to plotting collaborators.
//
//   - [FitQuadratic]: least-squares parabola m = a k² + b k + c through the
//     critical-mass curve, with vertex, R² and summary statistics
//   - [NewPhasePortrait]: downsampled (N, φ, φ') traces of single trajectories
//   - [NewSectorMap]: the label of every (mass, φ0) cell at one k_rot
//
// None of these feed back into the critical-mass estimates.
package analysis
