package ensemble

import (
	"fmt"

	"github.com/san-kum/phasesector/internal/sector"
)

// Tally is the mergeable part of an ensemble result. Merging is integer
// addition, so it is commutative and associative.
type Tally struct {
	Counts    [sector.NumLabels]int `json:"counts"`
	Divergent int                   `json:"divergent"`
	Ambiguous int                   `json:"ambiguous"`
}

func (t Tally) Merge(o Tally) Tally {
	for i := range t.Counts {
		t.Counts[i] += o.Counts[i]
	}
	t.Divergent += o.Divergent
	t.Ambiguous += o.Ambiguous
	return t
}

func (t Tally) Total() int {
	total := 0
	for _, c := range t.Counts {
		total += c
	}
	return total
}

func (t Tally) Count(l sector.Label) int {
	if !l.Valid() {
		return 0
	}
	return t.Counts[l]
}

// Fraction is Count(l)/Total, zero for an empty tally.
func (t Tally) Fraction(l sector.Label) float64 {
	total := t.Total()
	if total == 0 {
		return 0
	}
	return float64(t.Count(l)) / float64(total)
}

// Outcome is the classification of a single sampled trajectory.
type Outcome struct {
	Index       int                `json:"index"`
	Phi0        float64            `json:"phi0"`
	Label       sector.Label       `json:"label"`
	Diagnostics sector.Diagnostics `json:"diagnostics"`
	Steps       int                `json:"steps"`
	Divergent   bool               `json:"divergent,omitempty"`
	Ambiguous   bool               `json:"ambiguous,omitempty"`
}

func (o Outcome) tally() Tally {
	var t Tally
	t.Counts[o.Label]++
	if o.Divergent {
		t.Divergent++
	}
	if o.Ambiguous {
		t.Ambiguous++
	}
	return t
}

// Result is the ensemble at one (mass, k_rot) point.
type Result struct {
	Tally
	Mass     float64   `json:"m_phi"`
	KRot     float64   `json:"k_rot"`
	Rule     string    `json:"rule"`
	Seed     uint64    `json:"seed"`
	Outcomes []Outcome `json:"outcomes,omitempty"`
}

// PA is the population fraction of sector A.
func (r *Result) PA() float64 { return r.Fraction(sector.A) }

// Merge combines two ensembles taken at the same point, for example two
// seeds. Outcomes are concatenated receiver first and reindexed.
func (r *Result) Merge(o *Result) (*Result, error) {
	if r.Mass != o.Mass || r.KRot != o.KRot {
		return nil, fmt.Errorf("ensemble: cannot merge (m=%g, k=%g) with (m=%g, k=%g)", r.Mass, r.KRot, o.Mass, o.KRot)
	}
	out := &Result{
		Tally: r.Tally.Merge(o.Tally),
		Mass:  r.Mass,
		KRot:  r.KRot,
		Rule:  r.Rule,
		Seed:  r.Seed,
	}
	if r.Rule != o.Rule || r.Seed != o.Seed {
		out.Rule = "merged"
		out.Seed = 0
	}
	out.Outcomes = make([]Outcome, 0, len(r.Outcomes)+len(o.Outcomes))
	out.Outcomes = append(out.Outcomes, r.Outcomes...)
	out.Outcomes = append(out.Outcomes, o.Outcomes...)
	for i := range out.Outcomes {
		out.Outcomes[i].Index = i
	}
	return out, nil
}
