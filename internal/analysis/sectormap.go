package analysis

import (
	"fmt"
	"math"
	"sort"

	"github.com/san-kum/phasesector/internal/ensemble"
	"github.com/san-kum/phasesector/internal/sector"
)

// SectorMap is the label of every sampled (mass, φ0) cell at one k_rot.
// Rows follow Masses, columns follow Phases.
type SectorMap struct {
	KRot   float64          `json:"k_rot"`
	Masses []float64        `json:"masses"`
	Phases []float64        `json:"phases"`
	Labels [][]sector.Label `json:"labels"`
}

// NewSectorMap requires every result to share the same phases, which holds
// for one phase rule and seed.
func NewSectorMap(kRot float64, results []*ensemble.Result) (*SectorMap, error) {
	sm := &SectorMap{KRot: kRot}
	if len(results) == 0 {
		return sm, nil
	}

	first := results[0].Outcomes
	sm.Phases = make([]float64, len(first))
	for i, o := range first {
		sm.Phases[i] = o.Phi0
	}

	for _, r := range results {
		if r.KRot != kRot {
			return nil, fmt.Errorf("analysis: result at k_rot=%g in map for k_rot=%g", r.KRot, kRot)
		}
		if len(r.Outcomes) != len(sm.Phases) {
			return nil, fmt.Errorf("analysis: m=%g has %d outcomes, want %d", r.Mass, len(r.Outcomes), len(sm.Phases))
		}
		row := make([]sector.Label, len(r.Outcomes))
		for i, o := range r.Outcomes {
			if o.Phi0 != sm.Phases[i] {
				return nil, fmt.Errorf("analysis: m=%g sampled different phases", r.Mass)
			}
			row[i] = o.Label
		}
		sm.Masses = append(sm.Masses, r.Mass)
		sm.Labels = append(sm.Labels, row)
	}
	return sm, nil
}

// Boundary estimates, per mass, the phase below which trajectories land in
// sector A: the midpoint between the largest A phase and the next sampled
// phase. A mass with no A cell reports 0, one with only A cells reports π.
func (sm *SectorMap) Boundary() []float64 {
	order := make([]int, len(sm.Phases))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool { return sm.Phases[order[a]] < sm.Phases[order[b]] })

	out := make([]float64, len(sm.Masses))
	for mi, row := range sm.Labels {
		last := -1
		for pos, idx := range order {
			if row[idx] == sector.A {
				last = pos
			}
		}
		switch {
		case last < 0:
			out[mi] = 0
		case last == len(order)-1:
			out[mi] = math.Pi
		default:
			out[mi] = (sm.Phases[order[last]] + sm.Phases[order[last+1]]) / 2
		}
	}
	return out
}

// Count returns how many cells of row mi carry label l.
func (sm *SectorMap) Count(mi int, l sector.Label) int {
	n := 0
	for _, v := range sm.Labels[mi] {
		if v == l {
			n++
		}
	}
	return n
}
