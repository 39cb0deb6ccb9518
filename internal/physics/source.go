package physics

import "math"

// Source is the transient rotational drive
//
//	S(N, k_rot) = k_rot · S0 · e^{-Γ N}
//
// It starts at k_rot·S0 and decays monotonically with rate Γ.
type Source struct {
	KRot      float64
	Amplitude float64
	Decay     float64
}

func NewSource(p Params) Source {
	return Source{KRot: p.KRot, Amplitude: p.SourceAmplitude, Decay: p.SourceDecay}
}

func (s Source) At(n float64) float64 {
	return s.KRot * s.Amplitude * math.Exp(-s.Decay*n)
}
