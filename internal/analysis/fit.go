package analysis

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

var (
	ErrTooFewPoints = errors.New("analysis: quadratic fit needs at least 3 points")
	ErrSingularFit  = errors.New("analysis: singular fit")
)

// VertexKind tells whether the fitted vertex is a maximum or a minimum.
type VertexKind string

const (
	VertexNone    VertexKind = ""
	VertexMaximum VertexKind = "maximum"
	VertexMinimum VertexKind = "minimum"
)

// flatCurvature is the relative size of A below which the fit is treated as
// a straight line with no vertex.
const flatCurvature = 1e-12

// Fit is a quadratic m = A k² + B k + C through the critical-mass curve.
type Fit struct {
	A float64 `json:"a"`
	B float64 `json:"b"`
	C float64 `json:"c"`

	// Vertex k = -B/2A. Empty Vertex means the fit is a line.
	Vertex VertexKind `json:"vertex,omitempty"`
	KPeak  float64    `json:"k_peak,omitempty"`
	MPeak  float64    `json:"m_peak,omitempty"`

	R2   float64 `json:"r2"`
	Mean float64 `json:"mean_m_crit"`
	Std  float64 `json:"std_m_crit"`
	N    int     `json:"n"`
}

func (f *Fit) Eval(k float64) float64 {
	return f.A*k*k + f.B*k + f.C
}

// HasPeak reports whether the vertex is a maximum of m_crit.
func (f *Fit) HasPeak() bool { return f.Vertex == VertexMaximum }

// FitQuadratic fits m over k by least squares on the Vandermonde matrix
// [k² k 1].
func FitQuadratic(k, m []float64) (*Fit, error) {
	if len(k) != len(m) {
		return nil, fmt.Errorf("analysis: %d k values for %d masses", len(k), len(m))
	}
	n := len(k)
	if n < 3 {
		return nil, fmt.Errorf("%w: got %d", ErrTooFewPoints, n)
	}
	if d := distinct(k); d < 3 {
		return nil, fmt.Errorf("%w: %d distinct k values", ErrSingularFit, d)
	}

	x := mat.NewDense(n, 3, nil)
	for i, v := range k {
		x.Set(i, 0, v*v)
		x.Set(i, 1, v)
		x.Set(i, 2, 1)
	}
	y := mat.NewVecDense(n, append([]float64(nil), m...))

	var qr mat.QR
	qr.Factorize(x)
	var coef mat.VecDense
	if err := qr.SolveVecTo(&coef, false, y); err != nil {
		var cond mat.Condition
		if errors.As(err, &cond) {
			return nil, fmt.Errorf("%w: %v", ErrSingularFit, err)
		}
		return nil, err
	}

	fit := &Fit{A: coef.AtVec(0), B: coef.AtVec(1), C: coef.AtVec(2), N: n}
	if math.Abs(fit.A) > flatCurvature*(math.Abs(fit.B)+math.Abs(fit.C)+1) {
		fit.Vertex = VertexMinimum
		if fit.A < 0 {
			fit.Vertex = VertexMaximum
		}
		fit.KPeak = -fit.B / (2 * fit.A)
		fit.MPeak = fit.Eval(fit.KPeak)
	}

	fit.Mean, fit.Std = stat.PopMeanStdDev(m, nil)
	if fit.Std == 0 {
		fit.R2 = 1
	} else {
		est := make([]float64, n)
		for i, v := range k {
			est[i] = fit.Eval(v)
		}
		fit.R2 = stat.RSquaredFrom(est, m, nil)
	}
	return fit, nil
}

func distinct(vs []float64) int {
	seen := make(map[float64]struct{}, len(vs))
	for _, v := range vs {
		seen[v] = struct{}{}
	}
	return len(seen)
}
