package critical_test

import (
	"encoding/json"
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/phasesector/internal/critical"
	"github.com/san-kum/phasesector/internal/dynamo"
)

func points(masses, pa []float64) []critical.Point {
	out := make([]critical.Point, len(masses))
	for i := range masses {
		out[i] = critical.Point{Mass: masses[i], PA: pa[i]}
	}
	return out
}

var _ = Describe("Resolve", func() {
	masses := []float64{1.0, 1.5, 2.0, 2.5}

	It("interpolates a single downward crossing", func() {
		est, err := critical.Resolve(0.33, points(masses, []float64{0.8, 0.6, 0.4, 0.2}))
		Expect(err).NotTo(HaveOccurred())
		Expect(est.Defined).To(BeTrue())
		Expect(est.MCrit).To(BeNumerically("~", 1.75, 1e-12))
		Expect(est.Lower.Mass).To(Equal(1.5))
		Expect(est.Upper.Mass).To(Equal(2.0))
		Expect(est.Crossings).To(Equal(1))
	})

	It("counts P_A exactly at one half as above", func() {
		est, err := critical.Resolve(0, points(masses, []float64{0.9, 0.5, 0.3, 0.1}))
		Expect(err).NotTo(HaveOccurred())
		Expect(est.MCrit).To(BeNumerically("~", 1.5, 1e-12))
	})

	DescribeTable("undefined crossings",
		func(pa []float64, reason string) {
			est, err := critical.Resolve(0.1, points(masses, pa))
			Expect(errors.Is(err, critical.ErrUndefined)).To(BeTrue())
			Expect(est.Defined).To(BeFalse())
			Expect(est.Reason).To(ContainSubstring(reason))
		},
		Entry("always above", []float64{0.9, 0.8, 0.7, 0.6}, "never"),
		Entry("always below", []float64{0.4, 0.3, 0.2, 0.1}, "never"),
		Entry("upward", []float64{0.1, 0.3, 0.6, 0.8}, "upward"),
		Entry("several", []float64{0.8, 0.3, 0.7, 0.2}, "3 times"),
	)

	It("needs two masses", func() {
		_, err := critical.Resolve(0.1, points([]float64{1}, []float64{0.7}))
		Expect(err).To(MatchError(critical.ErrUndefined))
	})

	It("rejects malformed sweeps", func() {
		_, err := critical.Resolve(0.1, points([]float64{1, 1, 2}, []float64{0.9, 0.6, 0.1}))
		Expect(errors.Is(err, dynamo.ErrConfiguration)).To(BeTrue())

		_, err = critical.Resolve(0.1, points([]float64{1, 2}, []float64{1.2, 0.1}))
		Expect(errors.Is(err, dynamo.ErrConfiguration)).To(BeTrue())
	})
})

var _ = Describe("CheckMonotone", func() {
	It("lists every increase", func() {
		pts := points([]float64{1, 2, 3, 4, 5}, []float64{0.9, 0.7, 0.75, 0.4, 0.6})
		v := critical.CheckMonotone(0.2, pts, 0)
		Expect(v).To(HaveLen(2))
		Expect(v[0].From.Mass).To(Equal(2.0))
		Expect(v[1].To.Mass).To(Equal(5.0))
	})

	It("ignores rises within tolerance", func() {
		pts := points([]float64{1, 2, 3}, []float64{0.9, 0.7, 0.72})
		Expect(critical.CheckMonotone(0.2, pts, 0.05)).To(BeEmpty())
	})

	It("does not alter the estimate", func() {
		pts := points([]float64{1, 2, 3, 4}, []float64{0.9, 0.7, 0.75, 0.2})
		Expect(critical.CheckMonotone(0, pts, 0)).To(HaveLen(1))
		est, err := critical.Resolve(0, pts)
		Expect(err).NotTo(HaveOccurred())
		Expect(est.MCrit).To(BeNumerically("~", 3+0.25/0.55, 1e-12))
	})
})

var _ = Describe("Curve", func() {
	It("marks undefined points as null", func() {
		curve := critical.CurveFrom([]critical.Estimate{
			{KRot: 0.1, Defined: true, MCrit: 1.2},
			{KRot: 0.2},
			{KRot: 0.3, Defined: true, MCrit: 1.9},
		})
		k, m := curve.Defined()
		Expect(k).To(Equal([]float64{0.1, 0.3}))
		Expect(m).To(Equal([]float64{1.2, 1.9}))
		Expect(curve.Undefined()).To(Equal(1))

		b, err := json.Marshal(curve)
		Expect(err).NotTo(HaveOccurred())
		Expect(string(b)).To(ContainSubstring(`{"k_rot":0.2,"m_phi_crit":null}`))
	})
})

var _ = Describe("Range", func() {
	It("includes the end point of a decimal grid", func() {
		r, err := critical.Range(0.5, 3.0, 0.1)
		Expect(err).NotTo(HaveOccurred())
		Expect(r).To(HaveLen(26))
		Expect(r[14]).To(Equal(1.9))
		Expect(r[25]).To(Equal(3.0))
	})

	It("rejects a non-positive step", func() {
		_, err := critical.Range(1, 2, 0)
		Expect(errors.Is(err, dynamo.ErrConfiguration)).To(BeTrue())
	})

	It("returns a single mass when the range is empty", func() {
		r, err := critical.Range(2, 2, 0.1)
		Expect(err).NotTo(HaveOccurred())
		Expect(r).To(Equal([]float64{2}))
	})

	DescribeTable("rejects steps that expand past the point limit",
		func(step float64) {
			var err error
			Expect(func() { _, err = critical.Range(0.5, 3.0, step) }).NotTo(Panic())
			Expect(errors.Is(err, dynamo.ErrConfiguration)).To(BeTrue())
		},
		Entry("tiny step", 1e-15),
		Entry("subnormal-scale step", 1e-300),
		Entry("twice the point limit", 1.25/critical.MaxRangePoints),
	)
})
