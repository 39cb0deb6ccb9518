package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/phasesector/internal/analysis"
	"github.com/san-kum/phasesector/internal/critical"
	"github.com/san-kum/phasesector/internal/experiment"
	"github.com/san-kum/phasesector/internal/sector"
	"github.com/san-kum/phasesector/internal/storage"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))
	valueStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("255"))
	okStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("82"))
	warnStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))

	sectorColors = map[sector.Label]lipgloss.Color{
		sector.A:            "213",
		sector.B:            "86",
		sector.C:            "220",
		sector.Unclassified: "242",
	}
)

func sectorStyle(l sector.Label) lipgloss.Style {
	return lipgloss.NewStyle().Bold(true).Foreground(sectorColors[l])
}

func printReport(w io.Writer, r *experiment.Report) {
	fmt.Fprintln(w, titleStyle.Render("critical mass"))
	printEstimates(w, r.Estimates())

	fmt.Fprintln(w)
	fmt.Fprintln(w, titleStyle.Render("ensembles"))
	printRows(w, r.Rows())

	if r.Fit != nil {
		fmt.Fprintln(w)
		printFit(w, r.Fit)
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, titleStyle.Render("audit"))
	a := r.Audit
	fmt.Fprintf(w, "  %s %s in %s\n",
		labelStyle.Render("trajectories:"),
		valueStyle.Render(humanize.Comma(int64(a.Trajectories))),
		r.Finished.Sub(r.Started).Round(time.Millisecond),
	)
	auditLine(w, "divergent:", a.Divergent)
	auditLine(w, "ambiguous:", a.Ambiguous)
	auditLine(w, "undefined crossings:", a.Undefined)
	auditLine(w, "monotonicity violations:", a.MonotoneViolations)
}

func auditLine(w io.Writer, label string, n int) {
	style := okStyle
	if n > 0 {
		style = warnStyle
	}
	fmt.Fprintf(w, "  %s %s\n", labelStyle.Render(label), style.Render(humanize.Comma(int64(n))))
}

func printEstimates(w io.Writer, estimates []critical.Estimate) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "K_ROT\tM_CRIT\tBRACKET\tNOTE")
	for _, e := range estimates {
		if e.Defined {
			fmt.Fprintf(tw, "%.4f\t%.4f\t[%.2f, %.2f]\t\n", e.KRot, e.MCrit, e.Lower.Mass, e.Upper.Mass)
		} else {
			fmt.Fprintf(tw, "%.4f\t-\t-\t%s\n", e.KRot, e.Reason)
		}
	}
	tw.Flush()
}

func printRows(w io.Writer, rows []experiment.Row) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "M_PHI\tK_ROT\tN\tN_A\tN_B\tN_C\tN_U\tP_A\tP_B\tP_C\tP_U\tDIV\tAMB")
	for _, r := range rows {
		fmt.Fprintf(tw, "%.2f\t%.4f\t%d\t%d\t%d\t%d\t%d\t%.3f\t%.3f\t%.3f\t%.3f\t%d\t%d\n",
			r.Mass, r.KRot, r.Total, r.NA, r.NB, r.NC, r.NU,
			r.PA, r.PB, r.PC, r.PU, r.Divergent, r.Ambiguous,
		)
	}
	tw.Flush()
}

func printFit(w io.Writer, f *analysis.Fit) {
	fmt.Fprintln(w, titleStyle.Render("quadratic fit"))
	fmt.Fprintf(w, "  m = %.4f k² + %.4f k + %.4f   (R² = %.4f, n = %d)\n", f.A, f.B, f.C, f.R2, f.N)
	if f.Vertex != analysis.VertexNone {
		fmt.Fprintf(w, "  %s k = %.4f, m = %.4f\n", labelStyle.Render(string(f.Vertex)+":"), f.KPeak, f.MPeak)
	}
	fmt.Fprintf(w, "  %s %.4f ± %.4f\n", labelStyle.Render("m_crit:"), f.Mean, f.Std)
}

func printComparison(w io.Writer, out []experiment.Comparison) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "INTEGRATOR\tP_A\tP_B\tP_C\tP_U\tDIV\tTIME")
	for _, c := range out {
		r := c.Result
		fmt.Fprintf(tw, "%s\t%.3f\t%.3f\t%.3f\t%.3f\t%d\t%v\n",
			c.Integrator,
			r.Fraction(sector.A), r.Fraction(sector.B), r.Fraction(sector.C), r.Fraction(sector.Unclassified),
			r.Divergent, c.Elapsed.Round(time.Millisecond),
		)
	}
	tw.Flush()
}

func printRuns(w io.Writer, runs []storage.RunMetadata) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tWHEN\tK_ROT\tMASSES\tSAMPLES\tRULE\tINTEG\tTRAJECTORIES")
	for _, run := range runs {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%d\t%s\t%s\t%s\n",
			run.ID,
			humanize.Time(run.Timestamp),
			joinFloats(run.KRot),
			len(run.Masses),
			run.Samples,
			run.Rule,
			run.Integrator,
			humanize.Comma(int64(run.Audit.Trajectories)),
		)
	}
	tw.Flush()
}

func printMetadata(w io.Writer, meta *storage.RunMetadata) {
	fmt.Fprintln(w, titleStyle.Render("run "+meta.ID))
	fmt.Fprintf(w, "  %s %s (%s)\n", labelStyle.Render("when:"), meta.Timestamp.Format("2006-01-02 15:04:05"), humanize.Time(meta.Timestamp))
	fmt.Fprintf(w, "  %s %s, %s rule, seed %d, %d samples\n", labelStyle.Render("setup:"), meta.Integrator, meta.Rule, meta.Seed, meta.Samples)
	fmt.Fprintf(w, "  %s %s trajectories, %d divergent, %d ambiguous\n",
		labelStyle.Render("audit:"),
		humanize.Comma(int64(meta.Audit.Trajectories)),
		meta.Audit.Divergent,
		meta.Audit.Ambiguous,
	)
}

func printRegistry(w io.Writer, r *experiment.Registry) {
	for _, s := range r.Sections() {
		fmt.Fprintf(w, "%s %s\n", titleStyle.Render(s.Title+":"), strings.Join(s.Names, ", "))
	}
}

func joinFloats(vs []float64) string {
	parts := make([]string, len(vs))
	for i, v := range vs {
		parts[i] = humanize.Ftoa(v)
	}
	return strings.Join(parts, ",")
}

// plotPA draws one P_A(m_phi) curve per k_rot. Rows arrive grouped by k_rot
// in sweep order.
func plotPA(w io.Writer, rows []experiment.Row) {
	var (
		series  [][]float64
		kRots   []float64
		current []float64
	)
	for i, r := range rows {
		if i > 0 && r.KRot != rows[i-1].KRot {
			series = append(series, current)
			current = nil
		}
		if len(current) == 0 {
			kRots = append(kRots, r.KRot)
		}
		current = append(current, r.PA)
	}
	if len(current) > 0 {
		series = append(series, current)
	}

	for i, data := range series {
		if len(data) < 2 {
			continue
		}
		graph := asciigraph.Plot(data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.LowerBound(0),
			asciigraph.UpperBound(1),
			asciigraph.Caption(fmt.Sprintf("P_A vs m_phi (k_rot = %.4f)", kRots[i])),
		)
		fmt.Fprintln(w)
		fmt.Fprintln(w, graph)
	}
}

func plotTrace(w io.Writer, pp *analysis.PhasePortrait) {
	if len(pp.Points) < 2 {
		return
	}
	phi := make([]float64, len(pp.Points))
	rot := make([]float64, len(pp.Points))
	for i, p := range pp.Points {
		phi[i] = p.Phi
		rot[i] = p.RotPhi
	}
	graph := asciigraph.PlotMany([][]float64{phi, rot},
		asciigraph.Height(15),
		asciigraph.Width(80),
		asciigraph.SeriesColors(asciigraph.Default, asciigraph.Magenta),
		asciigraph.Caption(fmt.Sprintf("phi and rotation component vs N (m_phi = %.2f, %s)", pp.Mass, pp.Label)),
	)
	fmt.Fprintln(w)
	fmt.Fprintln(w, graph)
}
