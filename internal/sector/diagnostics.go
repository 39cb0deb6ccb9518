package sector

import (
	"errors"
	"fmt"
	"math"

	"github.com/san-kum/phasesector/internal/metrics"
	"github.com/san-kum/phasesector/internal/sim"
)

// MinWindowSamples is the fewest window samples that can be classified.
const MinWindowSamples = 5

var ErrAmbiguousWindow = errors.New("sector: ambiguous late-time window")

type Diagnostic int

const (
	RotationShare Diagnostic = iota
	OutboundFraction
	DecayRate
)

func (d Diagnostic) String() string {
	switch d {
	case RotationShare:
		return "rotation_share"
	case OutboundFraction:
		return "outbound_fraction"
	case DecayRate:
		return "decay_rate"
	default:
		return fmt.Sprintf("Diagnostic(%d)", int(d))
	}
}

type Diagnostics struct {
	RotationShare    float64 `json:"rotation_share"`
	OutboundFraction float64 `json:"outbound_fraction"`
	DecayRate        float64 `json:"decay_rate"`
}

func (d Diagnostics) Get(k Diagnostic) float64 {
	switch k {
	case RotationShare:
		return d.RotationShare
	case OutboundFraction:
		return d.OutboundFraction
	case DecayRate:
		return d.DecayRate
	default:
		return math.NaN()
	}
}

func (d Diagnostics) finite() bool {
	for _, v := range []float64{d.RotationShare, d.OutboundFraction, d.DecayRate} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// Measure computes the window diagnostics for a field of the given mass.
func Measure(window []sim.Sample, mass float64) (Diagnostics, error) {
	if len(window) < MinWindowSamples {
		return Diagnostics{}, fmt.Errorf("%w: %d samples, need %d", ErrAmbiguousWindow, len(window), MinWindowSamples)
	}

	share := metrics.NewRotationShare(mass)
	outbound := metrics.NewOutboundFraction()
	decay := metrics.NewDecayRate(mass)
	for _, s := range window {
		share.Observe(s.State, s.N)
		outbound.Observe(s.State, s.N)
		decay.Observe(s.State, s.N)
	}

	d := Diagnostics{
		RotationShare:    share.Value(),
		OutboundFraction: outbound.Value(),
		DecayRate:        decay.Value(),
	}
	if share.Degenerate() > 0 {
		return d, fmt.Errorf("%w: %d samples with zero or non-finite energy", ErrAmbiguousWindow, share.Degenerate())
	}
	if !d.finite() {
		return d, fmt.Errorf("%w: non-finite diagnostics %+v", ErrAmbiguousWindow, d)
	}
	return d, nil
}
