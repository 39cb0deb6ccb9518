package critical

import (
	"context"
	"errors"
	"log/slog"
	"math"

	"github.com/san-kum/phasesector/internal/dynamo"
	"github.com/san-kum/phasesector/internal/ensemble"
	"github.com/san-kum/phasesector/internal/physics"
)

// Plan is one full sweep over a (k_rot, mass) grid.
type Plan struct {
	Base              physics.Params
	Masses            []float64
	KRots             []float64
	Samples           int
	Rule              ensemble.PhaseRule
	MonotoneTolerance float64
}

func (p Plan) Validate() error {
	if len(p.Masses) == 0 {
		return dynamo.Invalid("sweep.masses", p.Masses, "must not be empty")
	}
	for i := 1; i < len(p.Masses); i++ {
		if !(p.Masses[i] > p.Masses[i-1]) {
			return dynamo.Invalid("sweep.masses", p.Masses, "must be strictly increasing")
		}
	}
	if len(p.KRots) == 0 {
		return dynamo.Invalid("sweep.k_rot", p.KRots, "must not be empty")
	}
	if p.Samples <= 0 {
		return dynamo.Invalid("sampling.samples", p.Samples, "must be positive")
	}
	if p.Rule == nil {
		return dynamo.Invalid("sampling.rule", nil, "must be set")
	}
	if math.IsNaN(p.MonotoneTolerance) || p.MonotoneTolerance < 0 {
		return dynamo.Invalid("monotone_tolerance", p.MonotoneTolerance, "must be non-negative")
	}
	for _, k := range p.KRots {
		q := p.Base
		q.KRot = k
		q.Mass = p.Masses[0]
		if err := q.Validate(); err != nil {
			return err
		}
	}
	return p.Base.Validate()
}

// Series is the sweep along mass at a single k_rot.
type Series struct {
	KRot       float64            `json:"k_rot"`
	Results    []*ensemble.Result `json:"results"`
	Points     []Point            `json:"points"`
	Estimate   Estimate           `json:"estimate"`
	Violations []Violation        `json:"violations,omitempty"`
}

// Audit counts everything that was reported rather than enforced.
type Audit struct {
	Trajectories       int `json:"trajectories"`
	Divergent          int `json:"divergent"`
	Ambiguous          int `json:"ambiguous"`
	Undefined          int `json:"undefined"`
	MonotoneViolations int `json:"monotone_violations"`
}

type Sweep struct {
	Series []Series `json:"series"`
	Curve  Curve    `json:"curve"`
	Audit  Audit    `json:"audit"`
}

// Sweeper runs sweep points on an outer pool; each point's ensemble uses the
// sampler's own pool.
type Sweeper struct {
	sampler *ensemble.Sampler
	workers int
	logger  *slog.Logger
}

func NewSweeper(sampler *ensemble.Sampler, workers int, logger *slog.Logger) *Sweeper {
	if logger == nil {
		logger = slog.Default()
	}
	return &Sweeper{sampler: sampler, workers: workers, logger: logger}
}

func (s *Sweeper) Run(ctx context.Context, plan Plan) (*Sweep, error) {
	if err := plan.Validate(); err != nil {
		return nil, err
	}

	nm := len(plan.Masses)
	results := make([]*ensemble.Result, len(plan.KRots)*nm)

	err := dynamo.ForEach(ctx, len(results), s.workers, func(ctx context.Context, i int) error {
		p := plan.Base
		p.KRot = plan.KRots[i/nm]
		p.Mass = plan.Masses[i%nm]
		res, err := s.sampler.Run(ctx, p, plan.Samples, plan.Rule)
		if err != nil {
			return err
		}
		results[i] = res
		return nil
	})
	if err != nil {
		return nil, err
	}

	sweep := &Sweep{Series: make([]Series, len(plan.KRots))}
	estimates := make([]Estimate, len(plan.KRots))
	for ki, k := range plan.KRots {
		row := results[ki*nm : (ki+1)*nm]
		series := Series{KRot: k, Results: row, Points: Points(row)}

		est, err := Resolve(k, series.Points)
		switch {
		case errors.Is(err, ErrUndefined):
			sweep.Audit.Undefined++
			s.logger.Warn("critical mass undefined", "k_rot", k, "reason", est.Reason)
		case err != nil:
			return nil, err
		default:
			s.logger.Info("critical mass resolved",
				"k_rot", k,
				"m_phi_crit", est.MCrit,
				"bracket", []float64{est.Lower.Mass, est.Upper.Mass},
			)
		}
		series.Estimate = est
		estimates[ki] = est

		series.Violations = CheckMonotone(k, series.Points, plan.MonotoneTolerance)
		for _, v := range series.Violations {
			s.logger.Warn("P_A increases with mass",
				"k_rot", k,
				"from_m", v.From.Mass, "from_p_a", v.From.PA,
				"to_m", v.To.Mass, "to_p_a", v.To.PA,
			)
		}
		sweep.Audit.MonotoneViolations += len(series.Violations)

		for _, r := range row {
			sweep.Audit.Trajectories += r.Total()
			sweep.Audit.Divergent += r.Divergent
			sweep.Audit.Ambiguous += r.Ambiguous
		}
		sweep.Series[ki] = series
	}
	sweep.Curve = CurveFrom(estimates)
	return sweep, nil
}
