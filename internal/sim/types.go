package sim

import (
	"github.com/san-kum/phasesector/internal/dynamo"
)

// DefaultWindow is the late-time window length in e-folds.
const DefaultWindow = 12.0

// InitialCondition starts the field at rest at phase Phi0.
type InitialCondition struct {
	Phi0 float64 `json:"phi0"`
}

// Sample is one point of a trajectory. State is never reused by the
// generator, so callers may retain it.
type Sample struct {
	N     float64      `json:"n"`
	State dynamo.State `json:"state"`
}

// Result is a driven-to-completion trajectory reduced to what the
// classifier and reporting need.
type Result struct {
	InitialCondition InitialCondition `json:"initial_condition"`
	Window           []Sample         `json:"-"`
	Trace            []Sample         `json:"trace,omitempty"`
	StepsTaken       int              `json:"steps_taken"`
	// WindowComplete is false when NMax is shorter than the configured
	// window or the run diverged before reaching NMax.
	WindowComplete bool  `json:"window_complete"`
	Divergent      bool  `json:"divergent"`
	Err            error `json:"-"`
}
