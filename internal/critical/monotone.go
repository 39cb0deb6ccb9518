package critical

// Violation is a pair of adjacent sweep points where P_A grows with mass.
type Violation struct {
	KRot float64 `json:"k_rot"`
	From Point   `json:"from"`
	To   Point   `json:"to"`
}

// CheckMonotone lists every adjacent pair with P_A rising by more than tol.
// It reports; it never alters the points or the estimate.
func CheckMonotone(kRot float64, points []Point, tol float64) []Violation {
	var out []Violation
	for i := 1; i < len(points); i++ {
		if points[i].PA > points[i-1].PA+tol {
			out = append(out, Violation{KRot: kRot, From: points[i-1], To: points[i]})
		}
	}
	return out
}
