package experiment_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"math"

	"github.com/google/go-cmp/cmp"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/phasesector/internal/config"
	"github.com/san-kum/phasesector/internal/dynamo"
	"github.com/san-kum/phasesector/internal/experiment"
	"github.com/san-kum/phasesector/internal/sector"
)

var quiet = slog.New(slog.NewTextHandler(io.Discard, nil))

func referenceConfig(rule string) *config.Config {
	cfg := config.GetPreset("reference")
	cfg.Sampling.Rule = rule
	cfg.Sampling.Seed = 42
	cfg.Traces.Masses = []float64{2.0}
	cfg.Traces.Phases = 2
	return cfg
}

var _ = Describe("Reference study", func() {
	DescribeTable("locates the critical mass at k_rot = 0.33",
		func(rule string) {
			exp, err := experiment.New(referenceConfig(rule), quiet)
			Expect(err).NotTo(HaveOccurred())

			report, err := exp.Run(context.Background())
			Expect(err).NotTo(HaveOccurred())

			Expect(report.Curve).To(HaveLen(1))
			Expect(report.Curve[0].MCrit).NotTo(BeNil())
			Expect(*report.Curve[0].MCrit).To(BeNumerically("~", 1.965, 0.05))

			Expect(report.Violations()).To(BeEmpty())
			Expect(report.Audit.Trajectories).To(Equal(26 * 64))
			Expect(report.Audit.Divergent).To(BeZero())
			Expect(report.Audit.Ambiguous).To(BeZero())
			Expect(report.Audit.Undefined).To(BeZero())

			rows := report.Rows()
			Expect(rows).To(HaveLen(26))
			for _, row := range rows {
				Expect(row.NA + row.NB + row.NC + row.NU).To(Equal(row.Total))
				Expect(row.PA + row.PB + row.PC + row.PU).To(BeNumerically("~", 1, 1e-12))
			}
			Expect(rows[0].PA).To(Equal(1.0))

			Expect(report.Fit).To(BeNil())
			Expect(report.FitError).NotTo(BeEmpty())
			Expect(report.SectorMaps).To(HaveLen(1))
			Expect(report.SectorMaps[0].Labels).To(HaveLen(26))
			Expect(report.Portraits).To(HaveLen(2))
		},
		Entry("grid phases", "grid"),
		Entry("stratified phases, seed 42", "stratified"),
	)
})

var _ = Describe("Experiment", func() {
	var cfg *config.Config

	BeforeEach(func() {
		cfg = config.GetPreset("quick")
		cfg.Traces.Phases = 0
	})

	It("rejects an invalid configuration before running", func() {
		cfg.Sampling.Samples = -1
		_, err := experiment.New(cfg, quiet)
		Expect(err).To(MatchError(dynamo.ErrConfiguration))
	})

	It("produces identical tables for any pool sizes", func() {
		cfg.Workers, cfg.SweepWorkers = 1, 1
		serial, err := experiment.New(cfg, quiet)
		Expect(err).NotTo(HaveOccurred())
		a, err := serial.Run(context.Background())
		Expect(err).NotTo(HaveOccurred())

		wide := cfg.Clone()
		wide.Workers, wide.SweepWorkers = 3, 4
		parallel, err := experiment.New(wide, quiet)
		Expect(err).NotTo(HaveOccurred())
		b, err := parallel.Run(context.Background())
		Expect(err).NotTo(HaveOccurred())

		Expect(cmp.Diff(a.Rows(), b.Rows())).To(BeEmpty())
		Expect(cmp.Diff(a.Curve, b.Curve)).To(BeEmpty())
		Expect(a.Portraits).To(BeEmpty())
	})

	It("serializes the report as JSON", func() {
		exp, err := experiment.New(cfg, quiet)
		Expect(err).NotTo(HaveOccurred())
		report, err := exp.Run(context.Background())
		Expect(err).NotTo(HaveOccurred())

		data, err := json.Marshal(report)
		Expect(err).NotTo(HaveOccurred())
		Expect(string(data)).To(ContainSubstring(`"m_phi_crit"`))
	})

	It("samples and traces single points", func() {
		exp, err := experiment.New(cfg, quiet)
		Expect(err).NotTo(HaveOccurred())

		res, err := exp.Sample(context.Background(), 0.8, 0.33)
		Expect(err).NotTo(HaveOccurred())
		Expect(res.Total()).To(Equal(16))
		Expect(res.PA()).To(Equal(1.0))

		pp, verdict, err := exp.Trace(context.Background(), 0.8, 0.33, math.Pi/2)
		Expect(err).NotTo(HaveOccurred())
		Expect(verdict.Label).To(Equal(sector.A))
		Expect(pp.Label).To(Equal(sector.A))
		Expect(len(pp.Points)).To(BeNumerically("<=", cfg.Traces.MaxPoints))
		Expect(pp.Points[len(pp.Points)-1].N).To(BeNumerically("~", 60, 1e-9))
	})

	It("compares integrators on the same ensemble", func() {
		exp, err := experiment.New(cfg, quiet)
		Expect(err).NotTo(HaveOccurred())

		out, err := exp.Compare(context.Background(), 1.2, 0.33, []string{"rk4", "rk45", "heun"})
		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(HaveLen(3))
		for _, c := range out {
			Expect(c.Result.Total()).To(Equal(16))
			Expect(c.Result.PA()).To(Equal(1.0))
		}

		_, err = exp.Compare(context.Background(), 1.2, 0.33, []string{"euler"})
		Expect(err).To(MatchError(dynamo.ErrConfiguration))
	})
})

var _ = Describe("Registry", func() {
	It("lists every selectable component", func() {
		r := experiment.NewRegistry()
		Expect(r.Integrators).To(ContainElements("rk4", "rk45", "heun"))
		Expect(r.PhaseRules).To(ContainElements("grid", "random", "stratified"))
		Expect(r.Presets).To(ContainElement("reference"))
		Expect(r.Sections()).To(HaveLen(4))
	})
})
