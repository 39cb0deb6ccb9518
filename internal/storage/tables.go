package storage

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/san-kum/phasesector/internal/analysis"
	"github.com/san-kum/phasesector/internal/critical"
	"github.com/san-kum/phasesector/internal/experiment"
)

var ensembleHeader = []string{
	"m_phi", "k_rot", "N_total", "N_A", "N_B", "N_C", "N_U",
	"P_A", "P_B", "P_C", "P_U", "divergent", "ambiguous",
}

var curveHeader = []string{"k_rot", "m_phi_crit", "lower_m", "upper_m", "crossings", "reason"}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func writeCSV(path string, records [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.WriteAll(records); err != nil {
		return err
	}
	return f.Close()
}

func readCSV(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	return r.ReadAll()
}

func ensembleRecords(rows []experiment.Row) [][]string {
	out := [][]string{ensembleHeader}
	for _, r := range rows {
		out = append(out, []string{
			formatFloat(r.Mass), formatFloat(r.KRot),
			strconv.Itoa(r.Total), strconv.Itoa(r.NA), strconv.Itoa(r.NB), strconv.Itoa(r.NC), strconv.Itoa(r.NU),
			formatFloat(r.PA), formatFloat(r.PB), formatFloat(r.PC), formatFloat(r.PU),
			strconv.Itoa(r.Divergent), strconv.Itoa(r.Ambiguous),
		})
	}
	return out
}

func parseEnsemble(records [][]string) ([]experiment.Row, error) {
	if len(records) == 0 {
		return nil, fmt.Errorf("storage: empty ensemble table")
	}
	rows := make([]experiment.Row, 0, len(records)-1)
	for i, rec := range records[1:] {
		if len(rec) != len(ensembleHeader) {
			return nil, fmt.Errorf("storage: ensemble row %d has %d fields", i+1, len(rec))
		}
		p := parser{rec: rec}
		row := experiment.Row{
			Mass:      p.floatAt(0),
			KRot:      p.floatAt(1),
			Total:     p.intAt(2),
			NA:        p.intAt(3),
			NB:        p.intAt(4),
			NC:        p.intAt(5),
			NU:        p.intAt(6),
			PA:        p.floatAt(7),
			PB:        p.floatAt(8),
			PC:        p.floatAt(9),
			PU:        p.floatAt(10),
			Divergent: p.intAt(11),
			Ambiguous: p.intAt(12),
		}
		if p.err != nil {
			return nil, fmt.Errorf("storage: ensemble row %d: %w", i+1, p.err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func curveRecords(estimates []critical.Estimate) [][]string {
	out := [][]string{curveHeader}
	for _, e := range estimates {
		rec := []string{formatFloat(e.KRot), "", "", "", strconv.Itoa(e.Crossings), e.Reason}
		if e.Defined {
			rec[1] = formatFloat(e.MCrit)
			rec[2] = formatFloat(e.Lower.Mass)
			rec[3] = formatFloat(e.Upper.Mass)
		}
		out = append(out, rec)
	}
	return out
}

func parseCurve(records [][]string) (critical.Curve, error) {
	if len(records) == 0 {
		return nil, fmt.Errorf("storage: empty curve table")
	}
	curve := make(critical.Curve, 0, len(records)-1)
	for i, rec := range records[1:] {
		if len(rec) < 2 {
			return nil, fmt.Errorf("storage: curve row %d has %d fields", i+1, len(rec))
		}
		p := parser{rec: rec}
		pt := critical.CurvePoint{KRot: p.floatAt(0)}
		if rec[1] != "" {
			m := p.floatAt(1)
			pt.MCrit = &m
		}
		if p.err != nil {
			return nil, fmt.Errorf("storage: curve row %d: %w", i+1, p.err)
		}
		curve = append(curve, pt)
	}
	return curve, nil
}

func violationRecords(vs []critical.Violation) [][]string {
	out := [][]string{{"k_rot", "from_m", "from_p_a", "to_m", "to_p_a"}}
	for _, v := range vs {
		out = append(out, []string{
			formatFloat(v.KRot),
			formatFloat(v.From.Mass), formatFloat(v.From.PA),
			formatFloat(v.To.Mass), formatFloat(v.To.PA),
		})
	}
	return out
}

func sectorMapRecords(sm *analysis.SectorMap) [][]string {
	out := [][]string{{"m_phi", "phi0", "label"}}
	for mi, m := range sm.Masses {
		for pi, phi0 := range sm.Phases {
			out = append(out, []string{formatFloat(m), formatFloat(phi0), sm.Labels[mi][pi].Short()})
		}
	}
	return out
}

func portraitRecords(pp *analysis.PhasePortrait) [][]string {
	out := [][]string{{"n", "phi", "vel", "rot_phi", "rot_vel"}}
	for _, pt := range pp.Points {
		out = append(out, []string{
			formatFloat(pt.N), formatFloat(pt.Phi), formatFloat(pt.Vel),
			formatFloat(pt.RotPhi), formatFloat(pt.RotVel),
		})
	}
	return out
}

// parser keeps the first conversion error.
type parser struct {
	rec []string
	err error
}

func (p *parser) floatAt(i int) float64 {
	v, err := strconv.ParseFloat(p.rec[i], 64)
	if err != nil && p.err == nil {
		p.err = err
	}
	return v
}

func (p *parser) intAt(i int) int {
	v, err := strconv.Atoi(p.rec[i])
	if err != nil && p.err == nil {
		p.err = err
	}
	return v
}
