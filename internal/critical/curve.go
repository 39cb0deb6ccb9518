package critical

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/san-kum/phasesector/internal/dynamo"
)

// CurvePoint is one (k_rot, m_phi_crit) pair. MCrit is nil when undefined.
type CurvePoint struct {
	KRot  float64  `json:"k_rot"`
	MCrit *float64 `json:"m_phi_crit"`
}

// Curve is ordered by k_rot as configured.
type Curve []CurvePoint

func CurveFrom(estimates []Estimate) Curve {
	c := make(Curve, len(estimates))
	for i, e := range estimates {
		c[i] = CurvePoint{KRot: e.KRot}
		if e.Defined {
			m := e.MCrit
			c[i].MCrit = &m
		}
	}
	return c
}

// Defined returns the k_rot and m_phi_crit values of the defined points.
func (c Curve) Defined() (k, m []float64) {
	for _, p := range c {
		if p.MCrit != nil {
			k = append(k, p.KRot)
			m = append(m, *p.MCrit)
		}
	}
	return k, m
}

func (c Curve) Undefined() int {
	n := 0
	for _, p := range c {
		if p.MCrit == nil {
			n++
		}
	}
	return n
}

// MaxRangePoints bounds the number of masses a single sweep may expand to.
const MaxRangePoints = 1_000_000

// Range returns from, from+step, ... up to and including to when it lies on
// the grid. Values are rounded to 1e-10 so decimal steps print cleanly.
func Range(from, to, step float64) ([]float64, error) {
	for _, v := range []float64{from, to, step} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, dynamo.Invalid("mass range", v, "must be finite")
		}
	}
	if step <= 0 {
		return nil, dynamo.Invalid("mass step", step, "must be positive")
	}
	if to < from {
		return nil, dynamo.Invalid("mass range", fmt.Sprintf("%g..%g", from, to), "end before start")
	}

	span := (to - from) / step
	if math.IsInf(span, 0) || span >= MaxRangePoints {
		return nil, dynamo.Invalid("mass step", step, fmt.Sprintf("expands %g..%g to more than %d points", from, to, MaxRangePoints))
	}

	n := int(math.Floor(span+1e-9)) + 1
	out := make([]float64, n)
	if n == 1 {
		out[0] = from
	} else {
		floats.Span(out, from, from+float64(n-1)*step)
	}
	for i, v := range out {
		out[i] = math.Round(v*1e10) / 1e10
	}
	return out, nil
}
