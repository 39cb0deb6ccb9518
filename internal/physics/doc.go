// Package physics defines the rotating scalar-field model studied by the
// phase-sector sweeps.
//
// The field obeys, in e-fold time N,
//
//	φ'' + (3 + ξ(N)) φ' + m² φ = S(N, k_rot)
//
// where ξ(N) is supplied by a [Background] and S by a [Source]. [RotatingField]
// integrates the full field together with its rotation-driven component (the
// response to S from rest at the origin). Because the equation is linear the
// free, initial-phase-driven component is their difference, which is what the
// sector diagnostics use to attribute late-time energy.
//
//	p := physics.DefaultParams()
//	p.Mass, p.KRot = 1.9, 0.33
//	field, err := physics.NewRotatingField(p)
//	x0 := field.InitialState(phi0)
package physics
