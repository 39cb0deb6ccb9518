package metrics

import (
	"math"

	"github.com/san-kum/phasesector/internal/dynamo"
	"github.com/san-kum/phasesector/internal/physics"
)

// DecayRate is the mean amplitude decay rate of the full field between the
// first and last observed samples:
//
//	-(ln E_last - ln E_first) / (2 (N_last - N_first))
type DecayRate struct {
	mass          float64
	firstN, lastN float64
	firstE, lastE float64
	samples       int
}

func NewDecayRate(mass float64) *DecayRate {
	return &DecayRate{mass: mass}
}

func (d *DecayRate) Name() string { return "decay_rate" }

func (d *DecayRate) Observe(x dynamo.State, n float64) {
	if len(x) < physics.StateDim {
		return
	}
	e := physics.Energy(d.mass, x[physics.Phi], x[physics.Vel])
	if d.samples == 0 {
		d.firstN, d.firstE = n, e
	}
	d.lastN, d.lastE = n, e
	d.samples++
}

// Value is NaN with fewer than two samples or a non-positive endpoint energy.
func (d *DecayRate) Value() float64 {
	span := d.lastN - d.firstN
	if d.samples < 2 || span <= 0 || !(d.firstE > 0) || !(d.lastE > 0) {
		return math.NaN()
	}
	return -(math.Log(d.lastE) - math.Log(d.firstE)) / (2 * span)
}

func (d *DecayRate) Reset() {
	*d = DecayRate{mass: d.mass}
}
