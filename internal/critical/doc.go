// Package critical locates the critical mass at which the sector A population
// of an ensemble crosses one half, and runs the (k_rot, mass) sweeps that feed
// it.
//
// The crossing is defined only for a single downward crossing of P_A through
// 0.5 along increasing mass. No crossing, an upward crossing, or several
// crossings make the estimate undefined; the sweep reports such a k_rot as a
// missing curve point and carries on. A separate audit lists every place
// where P_A grows with mass.
package critical
