// Package sector maps the late-time window of a trajectory to a discrete
// sector label.
//
// Three scale-free diagnostics are measured over the window: the energy share
// of the rotation-driven component, the fraction of time the field moves away
// from the vacuum, and the amplitude decay rate. A fixed priority list of
// inclusive thresholds then picks the label:
//
//	A  rotation_share    >= 0.10  rotation-imprinted
//	B  outbound_fraction >= 0.10  free oscillation with phase memory
//	C  decay_rate        >= 0.05  overdamped relaxation with phase memory
//	   otherwise                  Unclassified
//
// Classification of diagnostics is a pure function. A window that is too
// short or carries no energy yields [ErrAmbiguousWindow] and is counted as
// Unclassified by callers.
package sector
