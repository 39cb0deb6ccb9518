package critical

import (
	"errors"
	"fmt"
	"math"

	"github.com/san-kum/phasesector/internal/dynamo"
	"github.com/san-kum/phasesector/internal/ensemble"
)

// Threshold is the P_A level that defines the critical mass.
const Threshold = 0.5

var ErrUndefined = errors.New("critical: mass undefined")

// Point is one sample of P_A along a mass sweep.
type Point struct {
	Mass float64 `json:"m_phi"`
	PA   float64 `json:"p_a"`
}

// Estimate is the resolved crossing for one k_rot. Lower and Upper bracket
// the crossing when Defined.
type Estimate struct {
	KRot      float64 `json:"k_rot"`
	Defined   bool    `json:"defined"`
	MCrit     float64 `json:"m_phi_crit"`
	Lower     Point   `json:"lower"`
	Upper     Point   `json:"upper"`
	Crossings int     `json:"crossings"`
	Reason    string  `json:"reason,omitempty"`
}

// Points extracts P_A from ensemble results in sweep order.
func Points(results []*ensemble.Result) []Point {
	out := make([]Point, len(results))
	for i, r := range results {
		out[i] = Point{Mass: r.Mass, PA: r.PA()}
	}
	return out
}

func validatePoints(points []Point) error {
	for i, p := range points {
		if math.IsNaN(p.PA) || p.PA < 0 || p.PA > 1 {
			return dynamo.Invalid(fmt.Sprintf("points[%d].p_a", i), p.PA, "must lie in [0, 1]")
		}
		if math.IsNaN(p.Mass) || math.IsInf(p.Mass, 0) {
			return dynamo.Invalid(fmt.Sprintf("points[%d].m_phi", i), p.Mass, "must be finite")
		}
		if i > 0 && !(p.Mass > points[i-1].Mass) {
			return dynamo.Invalid("masses", p.Mass, "must be strictly increasing")
		}
	}
	return nil
}

func above(pa float64) bool { return pa >= Threshold }

// Resolve finds the critical mass for kRot. An undefined crossing returns
// the estimate with its reason and an error matching ErrUndefined; malformed
// input returns a configuration error.
func Resolve(kRot float64, points []Point) (Estimate, error) {
	est := Estimate{KRot: kRot}
	if err := validatePoints(points); err != nil {
		return est, err
	}
	if len(points) < 2 {
		est.Reason = "fewer than two masses"
		return est, fmt.Errorf("%w: k_rot=%g: %s", ErrUndefined, kRot, est.Reason)
	}

	bracket := -1
	upward := false
	for i := 1; i < len(points); i++ {
		prev, cur := above(points[i-1].PA), above(points[i].PA)
		if prev == cur {
			continue
		}
		est.Crossings++
		if prev && !cur {
			bracket = i - 1
		} else {
			upward = true
		}
	}

	switch {
	case est.Crossings == 0:
		est.Reason = "P_A never crosses 0.5"
	case est.Crossings > 1:
		est.Reason = fmt.Sprintf("P_A crosses 0.5 %d times", est.Crossings)
	case upward:
		est.Reason = "P_A crosses 0.5 upward"
	}
	if est.Reason != "" {
		return est, fmt.Errorf("%w: k_rot=%g: %s", ErrUndefined, kRot, est.Reason)
	}

	lo, hi := points[bracket], points[bracket+1]
	est.Defined = true
	est.Lower, est.Upper = lo, hi
	est.MCrit = lo.Mass + (Threshold-lo.PA)*(hi.Mass-lo.Mass)/(hi.PA-lo.PA)
	return est, nil
}
