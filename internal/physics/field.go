package physics

import (
	"github.com/san-kum/phasesector/internal/dynamo"
)

// State layout of RotatingField.
const (
	Phi = iota
	Vel
	RotPhi
	RotVel
	StateDim
)

// RotatingField integrates the full field (φ, φ') and its rotation-driven
// component (φ_rot, φ_rot') side by side. Both obey the same equation; only
// their initial conditions differ.
type RotatingField struct {
	params     Params
	massSq     float64
	source     Source
	background Background
}

func NewRotatingField(p Params) (*RotatingField, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &RotatingField{
		params:     p,
		massSq:     p.Mass * p.Mass,
		source:     NewSource(p),
		background: p.Background,
	}, nil
}

func (f *RotatingField) StateDim() int { return StateDim }

func (f *RotatingField) Params() Params { return f.params }

// Friction is the coefficient 3 + ξ(N) of the velocity term.
func (f *RotatingField) Friction(n float64) float64 {
	return f.params.FrictionBase + f.background.Xi(n)
}

func (f *RotatingField) Source(n float64) float64 {
	return f.source.At(n)
}

func (f *RotatingField) Derive(x dynamo.State, n float64) dynamo.State {
	s := f.source.At(n)
	fr := f.Friction(n)
	return dynamo.State{
		x[Vel],
		s - fr*x[Vel] - f.massSq*x[Phi],
		x[RotVel],
		s - fr*x[RotVel] - f.massSq*x[RotPhi],
	}
}

// InitialState places the field at phase phi0 at rest. The rotation
// component always starts at the origin.
func (f *RotatingField) InitialState(phi0 float64) dynamo.State {
	return dynamo.State{phi0, 0, 0, 0}
}

// Energy is the oscillator energy v² + m²φ² used by the diagnostics.
func Energy(mass, phi, vel float64) float64 {
	return vel*vel + mass*mass*phi*phi
}

// Split returns the free and rotation-driven energies of a state.
func Split(mass float64, x dynamo.State) (free, rot float64) {
	rot = Energy(mass, x[RotPhi], x[RotVel])
	free = Energy(mass, x[Phi]-x[RotPhi], x[Vel]-x[RotVel])
	return free, rot
}
