package physics

import (
	"errors"
	"math"

	"github.com/san-kum/phasesector/internal/dynamo"
)

const (
	DefaultFrictionBase    = 3.0
	DefaultNMax            = 60.0
	DefaultStep            = 0.01
	DefaultSourceDecay     = 2.0
	DefaultSourceAmplitude = 7.4
)

// Params is the immutable parameter set of one sweep point. Copy it to vary a
// field; nothing in the engine mutates a Params it was handed.
type Params struct {
	Mass            float64
	KRot            float64
	FrictionBase    float64
	NMax            float64
	Step            float64
	SourceDecay     float64
	SourceAmplitude float64
	Background      Background
}

func DefaultParams() Params {
	return Params{
		FrictionBase:    DefaultFrictionBase,
		NMax:            DefaultNMax,
		Step:            DefaultStep,
		SourceDecay:     DefaultSourceDecay,
		SourceAmplitude: DefaultSourceAmplitude,
		Background:      NewRadiation(DefaultRadiationEpsilon),
	}
}

// Steps is the number of fixed steps from N = 0 to NMax.
func (p Params) Steps() int {
	return int(math.Round(p.NMax / p.Step))
}

// Validate reports every invalid field, joined. The result matches
// dynamo.ErrConfiguration.
func (p Params) Validate() error {
	var errs []error
	check := func(field string, v float64, ok bool, reason string) {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			errs = append(errs, dynamo.Invalid(field, v, "must be finite"))
			return
		}
		if !ok {
			errs = append(errs, dynamo.Invalid(field, v, reason))
		}
	}

	check("mass", p.Mass, p.Mass >= 0, "must be non-negative")
	check("k_rot", p.KRot, p.KRot >= 0, "must be non-negative")
	check("friction_base", p.FrictionBase, p.FrictionBase > 0, "must be positive")
	check("n_max", p.NMax, p.NMax > 0, "must be positive")
	check("step", p.Step, p.Step > 0, "must be positive")
	if p.Step > 0 && p.NMax > 0 && p.Step > p.NMax {
		errs = append(errs, dynamo.Invalid("step", p.Step, "must not exceed n_max"))
	}
	check("source_decay", p.SourceDecay, p.SourceDecay >= 0, "must be non-negative")
	check("source_amplitude", p.SourceAmplitude, true, "")
	if p.Background == nil {
		errs = append(errs, dynamo.Invalid("background", nil, "must be set"))
	}

	return errors.Join(errs...)
}
