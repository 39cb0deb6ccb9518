package experiment

import (
	"time"

	"github.com/san-kum/phasesector/internal/analysis"
	"github.com/san-kum/phasesector/internal/config"
	"github.com/san-kum/phasesector/internal/critical"
	"github.com/san-kum/phasesector/internal/ensemble"
	"github.com/san-kum/phasesector/internal/sector"
)

// Report is everything one sweep produced.
type Report struct {
	Config     *config.Config            `json:"config"`
	Integrator string                    `json:"integrator"`
	Started    time.Time                 `json:"started"`
	Finished   time.Time                 `json:"finished"`
	Masses     []float64                 `json:"masses"`
	Series     []critical.Series         `json:"series"`
	Curve      critical.Curve            `json:"curve"`
	Audit      critical.Audit            `json:"audit"`
	Fit        *analysis.Fit             `json:"fit,omitempty"`
	FitError   string                    `json:"fit_error,omitempty"`
	SectorMaps []*analysis.SectorMap     `json:"sector_maps"`
	Portraits  []*analysis.PhasePortrait `json:"portraits,omitempty"`
}

// Row is one line of the ensemble table.
type Row struct {
	Mass      float64 `json:"m_phi"`
	KRot      float64 `json:"k_rot"`
	Total     int     `json:"n_total"`
	NA        int     `json:"n_a"`
	NB        int     `json:"n_b"`
	NC        int     `json:"n_c"`
	NU        int     `json:"n_u"`
	PA        float64 `json:"p_a"`
	PB        float64 `json:"p_b"`
	PC        float64 `json:"p_c"`
	PU        float64 `json:"p_u"`
	Divergent int     `json:"divergent"`
	Ambiguous int     `json:"ambiguous"`
}

func RowOf(r *ensemble.Result) Row {
	return Row{
		Mass:      r.Mass,
		KRot:      r.KRot,
		Total:     r.Total(),
		NA:        r.Count(sector.A),
		NB:        r.Count(sector.B),
		NC:        r.Count(sector.C),
		NU:        r.Count(sector.Unclassified),
		PA:        r.Fraction(sector.A),
		PB:        r.Fraction(sector.B),
		PC:        r.Fraction(sector.C),
		PU:        r.Fraction(sector.Unclassified),
		Divergent: r.Divergent,
		Ambiguous: r.Ambiguous,
	}
}

// Rows flattens the sweep, k_rot major.
func (r *Report) Rows() []Row {
	var rows []Row
	for _, s := range r.Series {
		for _, res := range s.Results {
			rows = append(rows, RowOf(res))
		}
	}
	return rows
}

func (r *Report) Estimates() []critical.Estimate {
	out := make([]critical.Estimate, len(r.Series))
	for i, s := range r.Series {
		out[i] = s.Estimate
	}
	return out
}

func (r *Report) Violations() []critical.Violation {
	var out []critical.Violation
	for _, s := range r.Series {
		out = append(out, s.Violations...)
	}
	return out
}
