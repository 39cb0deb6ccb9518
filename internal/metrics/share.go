package metrics

import (
	"math"

	"github.com/san-kum/phasesector/internal/dynamo"
	"github.com/san-kum/phasesector/internal/physics"
)

// RotationShare is the mean fraction of the field energy carried by the
// rotation-driven component, E_rot / (E_rot + E_free).
type RotationShare struct {
	mass       float64
	sum        float64
	samples    int
	degenerate int
}

func NewRotationShare(mass float64) *RotationShare {
	return &RotationShare{mass: mass}
}

func (r *RotationShare) Name() string { return "rotation_share" }

func (r *RotationShare) Observe(x dynamo.State, n float64) {
	if len(x) < physics.StateDim {
		return
	}
	free, rot := physics.Split(r.mass, x)
	total := free + rot
	if total == 0 || math.IsNaN(total) || math.IsInf(total, 0) {
		r.degenerate++
		return
	}
	r.sum += rot / total
	r.samples++
}

// Value is NaN when no sample carried energy.
func (r *RotationShare) Value() float64 {
	if r.samples == 0 {
		return math.NaN()
	}
	return r.sum / float64(r.samples)
}

// Degenerate counts samples with zero or non-finite total energy.
func (r *RotationShare) Degenerate() int { return r.degenerate }

func (r *RotationShare) Reset() {
	r.sum = 0
	r.samples = 0
	r.degenerate = 0
}
