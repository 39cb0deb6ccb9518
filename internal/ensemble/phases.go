package ensemble

import (
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/san-kum/phasesector/internal/dynamo"
)

const pcgStream = 0x9e3779b97f4a7c15

// PhaseRule draws n initial phases from [0, π).
type PhaseRule interface {
	Name() string
	Seed() uint64
	Phases(n int) []float64
}

// Grid places phases at cell midpoints (i+½)π/n. The seed is recorded only.
type Grid struct {
	seed uint64
}

func NewGrid(seed uint64) Grid { return Grid{seed: seed} }

func (g Grid) Name() string { return "grid" }
func (g Grid) Seed() uint64 { return g.seed }

func (g Grid) Phases(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = (float64(i) + 0.5) * math.Pi / float64(n)
	}
	return out
}

// Random draws n independent uniform phases.
type Random struct {
	seed uint64
}

func NewRandom(seed uint64) Random { return Random{seed: seed} }

func (r Random) Name() string { return "random" }
func (r Random) Seed() uint64 { return r.seed }

func (r Random) Phases(n int) []float64 {
	rng := rand.New(rand.NewPCG(r.seed, pcgStream))
	out := make([]float64, n)
	for i := range out {
		out[i] = clampPhase(math.Pi * rng.Float64())
	}
	return out
}

// Stratified draws one uniform phase inside each of n equal cells.
type Stratified struct {
	seed uint64
}

func NewStratified(seed uint64) Stratified { return Stratified{seed: seed} }

func (s Stratified) Name() string { return "stratified" }
func (s Stratified) Seed() uint64 { return s.seed }

func (s Stratified) Phases(n int) []float64 {
	rng := rand.New(rand.NewPCG(s.seed, pcgStream))
	out := make([]float64, n)
	for i := range out {
		out[i] = clampPhase((float64(i) + rng.Float64()) * math.Pi / float64(n))
	}
	return out
}

func clampPhase(p float64) float64 {
	if p >= math.Pi {
		return math.Nextafter(math.Pi, 0)
	}
	return p
}

func RuleNames() []string {
	return []string{"grid", "random", "stratified"}
}

func NewPhaseRule(name string, seed uint64) (PhaseRule, error) {
	switch name {
	case "grid", "":
		return NewGrid(seed), nil
	case "random":
		return NewRandom(seed), nil
	case "stratified":
		return NewStratified(seed), nil
	}
	return nil, dynamo.Invalid("sampling.rule", name, fmt.Sprintf("unknown phase rule (available: %v)", RuleNames()))
}
