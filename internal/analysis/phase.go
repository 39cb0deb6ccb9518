package analysis

import (
	"github.com/san-kum/phasesector/internal/physics"
	"github.com/san-kum/phasesector/internal/sector"
	"github.com/san-kum/phasesector/internal/sim"
)

// PortraitPoint is one trace sample of the full field and its rotation
// component.
type PortraitPoint struct {
	N      float64 `json:"n"`
	Phi    float64 `json:"phi"`
	Vel    float64 `json:"vel"`
	RotPhi float64 `json:"rot_phi"`
	RotVel float64 `json:"rot_vel"`
}

// PhasePortrait holds a representative trajectory for plotting.
type PhasePortrait struct {
	Mass   float64         `json:"m_phi"`
	KRot   float64         `json:"k_rot"`
	Phi0   float64         `json:"phi0"`
	Label  sector.Label    `json:"label"`
	Points []PortraitPoint `json:"points"`
}

// NewPhasePortrait keeps at most maxPoints evenly spaced samples of the
// trace; the last sample is always kept. maxPoints <= 0 keeps everything.
func NewPhasePortrait(samples []sim.Sample, mass, kRot, phi0 float64, label sector.Label, maxPoints int) *PhasePortrait {
	pp := &PhasePortrait{Mass: mass, KRot: kRot, Phi0: phi0, Label: label}
	if len(samples) == 0 {
		return pp
	}

	stride := 1
	if maxPoints > 0 && len(samples) > maxPoints {
		stride = (len(samples) + maxPoints - 2) / (maxPoints - 1)
		if maxPoints == 1 {
			stride = len(samples)
		}
	}

	pp.Points = make([]PortraitPoint, 0, len(samples)/stride+1)
	for i := 0; i < len(samples); i += stride {
		pp.Points = append(pp.Points, toPoint(samples[i]))
	}
	if last := len(samples) - 1; last%stride != 0 {
		if maxPoints > 0 && len(pp.Points) >= maxPoints {
			pp.Points[len(pp.Points)-1] = toPoint(samples[last])
		} else {
			pp.Points = append(pp.Points, toPoint(samples[last]))
		}
	}
	return pp
}

func toPoint(s sim.Sample) PortraitPoint {
	return PortraitPoint{
		N:      s.N,
		Phi:    s.State[physics.Phi],
		Vel:    s.State[physics.Vel],
		RotPhi: s.State[physics.RotPhi],
		RotVel: s.State[physics.RotVel],
	}
}

// Bounds returns the extent of the (φ, φ') plane covered by the portrait.
func (p *PhasePortrait) Bounds() (minPhi, maxPhi, minVel, maxVel float64) {
	if len(p.Points) == 0 {
		return 0, 0, 0, 0
	}
	minPhi, maxPhi = p.Points[0].Phi, p.Points[0].Phi
	minVel, maxVel = p.Points[0].Vel, p.Points[0].Vel
	for _, pt := range p.Points[1:] {
		minPhi = min(minPhi, pt.Phi)
		maxPhi = max(maxPhi, pt.Phi)
		minVel = min(minVel, pt.Vel)
		maxVel = max(maxVel, pt.Vel)
	}
	return minPhi, maxPhi, minVel, maxVel
}
