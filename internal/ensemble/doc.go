// Package ensemble runs many trajectories at one sweep point, one per
// sampled initial phase, and reduces their sector labels to counts and
// fractions.
//
// Phases are drawn from [0, π) by a [PhaseRule]. Randomized rules use an
// explicitly seeded PCG generator, so the same seed and sample count always
// yield the same phases. Each trajectory runs in a bounded worker pool and
// writes its outcome to its own index slot; the reduction only adds integer
// counts. The result is therefore identical for any worker count.
//
// A diverging or ambiguous trajectory is Unclassified and counted on the
// result. Only invalid configuration or context cancellation aborts a run.
package ensemble
