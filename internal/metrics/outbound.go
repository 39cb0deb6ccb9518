package metrics

import (
	"github.com/san-kum/phasesector/internal/dynamo"
	"github.com/san-kum/phasesector/internal/physics"
)

// OutboundFraction is the fraction of samples where the field moves away
// from the vacuum, φ·φ' > 0. A monotone relaxation never does.
type OutboundFraction struct {
	outbound int
	samples  int
}

func NewOutboundFraction() *OutboundFraction {
	return &OutboundFraction{}
}

func (o *OutboundFraction) Name() string { return "outbound_fraction" }

func (o *OutboundFraction) Observe(x dynamo.State, n float64) {
	if len(x) < physics.StateDim {
		return
	}
	o.samples++
	if x[physics.Phi]*x[physics.Vel] > 0 {
		o.outbound++
	}
}

func (o *OutboundFraction) Value() float64 {
	if o.samples == 0 {
		return 0
	}
	return float64(o.outbound) / float64(o.samples)
}

func (o *OutboundFraction) Reset() {
	o.outbound = 0
	o.samples = 0
}
