package critical_test

import (
	"context"
	"io"
	"log/slog"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/phasesector/internal/critical"
	"github.com/san-kum/phasesector/internal/dynamo"
	"github.com/san-kum/phasesector/internal/ensemble"
	"github.com/san-kum/phasesector/internal/integrators"
	"github.com/san-kum/phasesector/internal/physics"
	"github.com/san-kum/phasesector/internal/sector"
	"github.com/san-kum/phasesector/internal/sim"
)

var _ = Describe("Sweeper", func() {
	var (
		sweeper *critical.Sweeper
		logger  *slog.Logger
	)

	BeforeEach(func() {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
		gen, err := sim.New(func() dynamo.Integrator { return integrators.NewRK4() })
		Expect(err).NotTo(HaveOccurred())
		classifier, err := sector.NewClassifier(sector.DefaultThresholds())
		Expect(err).NotTo(HaveOccurred())
		sampler, err := ensemble.NewSampler(gen, classifier, ensemble.WithWorkers(2), ensemble.WithLogger(logger))
		Expect(err).NotTo(HaveOccurred())
		sweeper = critical.NewSweeper(sampler, 2, logger)
	})

	It("brackets the reference crossing near m = 1.97", func() {
		masses, err := critical.Range(1.7, 2.2, 0.1)
		Expect(err).NotTo(HaveOccurred())

		sweep, err := sweeper.Run(context.Background(), critical.Plan{
			Base:    physics.DefaultParams(),
			Masses:  masses,
			KRots:   []float64{0.33},
			Samples: 64,
			Rule:    ensemble.NewGrid(0),
		})
		Expect(err).NotTo(HaveOccurred())

		Expect(sweep.Series).To(HaveLen(1))
		est := sweep.Series[0].Estimate
		Expect(est.Defined).To(BeTrue())
		Expect(est.MCrit).To(BeNumerically("~", 1.965, 0.05))
		Expect(sweep.Series[0].Violations).To(BeEmpty())

		Expect(sweep.Curve).To(HaveLen(1))
		Expect(*sweep.Curve[0].MCrit).To(Equal(est.MCrit))
		Expect(sweep.Audit.Trajectories).To(Equal(6 * 64))
		Expect(sweep.Audit.Divergent).To(BeZero())
		Expect(sweep.Audit.Ambiguous).To(BeZero())
	})

	It("reports a k_rot without a crossing as a missing point", func() {
		base := physics.DefaultParams()
		base.NMax = 30

		sweep, err := sweeper.Run(context.Background(), critical.Plan{
			Base:    base,
			Masses:  []float64{0.5, 0.7},
			KRots:   []float64{0.33, 0},
			Samples: 8,
			Rule:    ensemble.NewGrid(0),
		})
		Expect(err).NotTo(HaveOccurred())

		Expect(sweep.Curve).To(HaveLen(2))
		Expect(sweep.Curve[0].MCrit).To(BeNil())
		Expect(sweep.Curve[1].MCrit).To(BeNil())
		Expect(sweep.Audit.Undefined).To(Equal(2))
		Expect(sweep.Series[1].Points[0].PA).To(BeZero())
		for i, s := range sweep.Series {
			Expect(s.KRot).To(Equal([]float64{0.33, 0}[i]))
			Expect(s.Results).To(HaveLen(2))
			Expect(s.Results[1].Mass).To(Equal(0.7))
		}
	})

	It("rejects an invalid plan before doing any work", func() {
		_, err := sweeper.Run(context.Background(), critical.Plan{
			Base:    physics.DefaultParams(),
			Masses:  []float64{2, 1},
			KRots:   []float64{0.33},
			Samples: 8,
			Rule:    ensemble.NewGrid(0),
		})
		Expect(err).To(MatchError(dynamo.ErrConfiguration))
	})
})
