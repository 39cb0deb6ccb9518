package physics

import (
	"fmt"
	"math"

	"github.com/san-kum/phasesector/internal/dynamo"
)

// DefaultRadiationEpsilon is ε = -H'/H during radiation domination.
const DefaultRadiationEpsilon = 2.0

// Background supplies the friction correction ξ(N) added to the baseline 3.
type Background interface {
	Name() string
	Xi(n float64) float64
}

// Radiation is a radiation-dominated background: ξ = -ε for all N, so the
// friction 3 - ε is 1 for the canonical ε = 2.
type Radiation struct {
	Epsilon float64
}

func NewRadiation(epsilon float64) Radiation {
	return Radiation{Epsilon: epsilon}
}

func (r Radiation) Name() string         { return "radiation" }
func (r Radiation) Xi(n float64) float64 { return -r.Epsilon }

// Transition hands over smoothly from de Sitter friction at N = 0 to the
// radiation value: ξ(N) = -ε (1 - e^{-N/Width}).
type Transition struct {
	Epsilon float64
	Width   float64
}

func NewTransition(epsilon, width float64) Transition {
	return Transition{Epsilon: epsilon, Width: width}
}

func (t Transition) Name() string { return "transition" }

func (t Transition) Xi(n float64) float64 {
	return -t.Epsilon * (1 - math.Exp(-n/t.Width))
}

// NewBackground resolves a background by name.
func NewBackground(kind string, epsilon, width float64) (Background, error) {
	if math.IsNaN(epsilon) || math.IsInf(epsilon, 0) {
		return nil, dynamo.Invalid("background.epsilon", epsilon, "must be finite")
	}
	switch kind {
	case "", "radiation":
		return NewRadiation(epsilon), nil
	case "transition":
		if !(width > 0) || math.IsInf(width, 0) {
			return nil, dynamo.Invalid("background.width", width, "must be positive and finite")
		}
		return NewTransition(epsilon, width), nil
	default:
		return nil, dynamo.Invalid("background.kind", kind, fmt.Sprintf("unknown background (available: %v)", BackgroundKinds()))
	}
}

func BackgroundKinds() []string {
	return []string{"radiation", "transition"}
}
