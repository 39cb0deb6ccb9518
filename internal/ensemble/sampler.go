package ensemble

import (
	"context"
	"errors"
	"log/slog"

	"github.com/san-kum/phasesector/internal/dynamo"
	"github.com/san-kum/phasesector/internal/physics"
	"github.com/san-kum/phasesector/internal/sector"
	"github.com/san-kum/phasesector/internal/sim"
)

// Sampler runs ensembles of trajectories. It holds no per-run state and is
// safe for concurrent use.
type Sampler struct {
	gen        *sim.Generator
	classifier *sector.Classifier
	workers    int
	logger     *slog.Logger
}

type Option func(*Sampler)

// WithWorkers bounds the pool. Zero means one worker per CPU.
func WithWorkers(n int) Option {
	return func(s *Sampler) { s.workers = n }
}

func WithLogger(l *slog.Logger) Option {
	return func(s *Sampler) { s.logger = l }
}

func NewSampler(gen *sim.Generator, classifier *sector.Classifier, opts ...Option) (*Sampler, error) {
	s := &Sampler{gen: gen, classifier: classifier, logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	if gen == nil || classifier == nil {
		return nil, dynamo.Invalid("sampler", nil, "generator and classifier are required")
	}
	if s.workers < 0 {
		return nil, dynamo.Invalid("workers", s.workers, "must be non-negative")
	}
	return s, nil
}

// Run samples n initial phases with rule and classifies every trajectory.
func (s *Sampler) Run(ctx context.Context, p physics.Params, n int, rule PhaseRule) (*Result, error) {
	if n <= 0 {
		return nil, dynamo.Invalid("sampling.samples", n, "must be positive")
	}
	if rule == nil {
		return nil, dynamo.Invalid("sampling.rule", nil, "must be set")
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}

	phases := rule.Phases(n)
	outcomes := make([]Outcome, n)

	err := dynamo.ForEach(ctx, n, s.workers, func(ctx context.Context, i int) error {
		res, err := s.gen.Run(ctx, sim.InitialCondition{Phi0: phases[i]}, p)
		if err != nil {
			return err
		}
		v := s.classifier.ClassifyRun(res, p.Mass)
		outcomes[i] = Outcome{
			Index:       i,
			Phi0:        phases[i],
			Label:       v.Label,
			Diagnostics: v.Diagnostics,
			Steps:       res.StepsTaken,
			Divergent:   v.Divergent,
			Ambiguous:   v.Ambiguous,
		}
		s.report(p, phases[i], v)
		return nil
	})
	if err != nil {
		return nil, err
	}

	result := &Result{
		Mass:     p.Mass,
		KRot:     p.KRot,
		Rule:     rule.Name(),
		Seed:     rule.Seed(),
		Outcomes: outcomes,
	}
	for _, o := range outcomes {
		result.Tally = result.Tally.Merge(o.tally())
	}

	s.logger.Debug("ensemble complete",
		"m_phi", p.Mass,
		"k_rot", p.KRot,
		"samples", n,
		"p_a", result.PA(),
		"divergent", result.Divergent,
		"ambiguous", result.Ambiguous,
	)
	return result, nil
}

func (s *Sampler) report(p physics.Params, phi0 float64, v sector.Verdict) {
	switch {
	case v.Divergent:
		var simErr *dynamo.SimulationError
		attrs := []any{"m_phi", p.Mass, "k_rot", p.KRot, "phi0", phi0}
		if errors.As(v.Err, &simErr) {
			attrs = append(attrs, "step", simErr.Step, "n", simErr.N)
		}
		s.logger.Warn("trajectory diverged", attrs...)
	case v.Ambiguous:
		s.logger.Warn("ambiguous late-time window",
			"m_phi", p.Mass,
			"k_rot", p.KRot,
			"phi0", phi0,
			"error", v.Err,
		)
	}
}
