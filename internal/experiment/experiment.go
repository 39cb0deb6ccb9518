package experiment

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/san-kum/phasesector/internal/analysis"
	"github.com/san-kum/phasesector/internal/config"
	"github.com/san-kum/phasesector/internal/critical"
	"github.com/san-kum/phasesector/internal/dynamo"
	"github.com/san-kum/phasesector/internal/ensemble"
	"github.com/san-kum/phasesector/internal/integrators"
	"github.com/san-kum/phasesector/internal/physics"
	"github.com/san-kum/phasesector/internal/sector"
	"github.com/san-kum/phasesector/internal/sim"
)

// Experiment wires a validated configuration into the generator, classifier,
// sampler and sweeper.
type Experiment struct {
	cfg        *config.Config
	logger     *slog.Logger
	factory    dynamo.IntegratorFactory
	gen        *sim.Generator
	classifier *sector.Classifier
	sampler    *ensemble.Sampler
	sweeper    *critical.Sweeper
	rule       ensemble.PhaseRule
	base       physics.Params
	masses     []float64
}

func New(cfg *config.Config, logger *slog.Logger) (*Experiment, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	factory, err := integrators.Factory(cfg.Integrator)
	if err != nil {
		return nil, err
	}
	gen, err := sim.New(factory, sim.WithWindow(cfg.Window))
	if err != nil {
		return nil, err
	}
	classifier, err := sector.NewClassifier(cfg.Thresholds)
	if err != nil {
		return nil, err
	}
	sampler, err := ensemble.NewSampler(gen, classifier,
		ensemble.WithWorkers(cfg.Workers),
		ensemble.WithLogger(logger),
	)
	if err != nil {
		return nil, err
	}
	rule, err := cfg.PhaseRule()
	if err != nil {
		return nil, err
	}
	base, err := cfg.BaseParams()
	if err != nil {
		return nil, err
	}
	masses, err := cfg.Masses()
	if err != nil {
		return nil, err
	}

	return &Experiment{
		cfg:        cfg,
		logger:     logger,
		factory:    factory,
		gen:        gen,
		classifier: classifier,
		sampler:    sampler,
		sweeper:    critical.NewSweeper(sampler, cfg.SweepWorkers, logger),
		rule:       rule,
		base:       base,
		masses:     masses,
	}, nil
}

func (e *Experiment) Config() *config.Config { return e.cfg }

func (e *Experiment) Plan() critical.Plan {
	return critical.Plan{
		Base:              e.base,
		Masses:            e.masses,
		KRots:             e.cfg.Sweep.KRot,
		Samples:           e.cfg.Sampling.Samples,
		Rule:              e.rule,
		MonotoneTolerance: e.cfg.MonotoneTolerance,
	}
}

// Run executes the full sweep and assembles the report.
func (e *Experiment) Run(ctx context.Context) (*Report, error) {
	report := &Report{
		Config:     e.cfg,
		Integrator: e.cfg.Integrator,
		Masses:     e.masses,
		Started:    time.Now(),
	}

	e.logger.Info("sweep started",
		"k_rot", e.cfg.Sweep.KRot,
		"masses", len(e.masses),
		"samples", e.cfg.Sampling.Samples,
		"rule", e.rule.Name(),
		"integrator", e.cfg.Integrator,
	)

	sweep, err := e.sweeper.Run(ctx, e.Plan())
	if err != nil {
		return nil, err
	}
	report.Series = sweep.Series
	report.Curve = sweep.Curve
	report.Audit = sweep.Audit

	for _, s := range sweep.Series {
		sm, err := analysis.NewSectorMap(s.KRot, s.Results)
		if err != nil {
			return nil, err
		}
		report.SectorMaps = append(report.SectorMaps, sm)
	}

	k, m := sweep.Curve.Defined()
	fit, err := analysis.FitQuadratic(k, m)
	switch {
	case err == nil:
		report.Fit = fit
	case errors.Is(err, analysis.ErrTooFewPoints), errors.Is(err, analysis.ErrSingularFit):
		report.FitError = err.Error()
		e.logger.Debug("curve fit skipped", "reason", err)
	default:
		return nil, err
	}

	if report.Portraits, err = e.portraits(ctx); err != nil {
		return nil, err
	}

	report.Finished = time.Now()
	e.logger.Info("sweep finished",
		"trajectories", report.Audit.Trajectories,
		"divergent", report.Audit.Divergent,
		"ambiguous", report.Audit.Ambiguous,
		"undefined", report.Audit.Undefined,
		"elapsed", report.Finished.Sub(report.Started).Round(time.Millisecond),
	)
	return report, nil
}

// Sample runs a single ensemble at one sweep point.
func (e *Experiment) Sample(ctx context.Context, mass, kRot float64) (*ensemble.Result, error) {
	p, err := e.cfg.Params(mass, kRot)
	if err != nil {
		return nil, err
	}
	return e.sampler.Run(ctx, p, e.cfg.Sampling.Samples, e.rule)
}

// Trace integrates one trajectory with a full trace and classifies it.
func (e *Experiment) Trace(ctx context.Context, mass, kRot, phi0 float64) (*analysis.PhasePortrait, sector.Verdict, error) {
	p, err := e.cfg.Params(mass, kRot)
	if err != nil {
		return nil, sector.Verdict{}, err
	}
	every := e.cfg.Traces.Every
	if every <= 0 {
		every = 1
	}
	gen, err := e.gen.WithOptions(sim.WithTrace(every))
	if err != nil {
		return nil, sector.Verdict{}, err
	}
	res, err := gen.Run(ctx, sim.InitialCondition{Phi0: phi0}, p)
	if err != nil {
		return nil, sector.Verdict{}, err
	}
	v := e.classifier.ClassifyRun(res, mass)
	return analysis.NewPhasePortrait(res.Trace, mass, kRot, phi0, v.Label, e.cfg.Traces.MaxPoints), v, nil
}

func (e *Experiment) portraits(ctx context.Context) ([]*analysis.PhasePortrait, error) {
	tc := e.cfg.Traces
	if tc.Phases == 0 || tc.Every == 0 || len(tc.Masses) == 0 {
		return nil, nil
	}
	phases := ensemble.NewGrid(0).Phases(tc.Phases)

	type job struct{ k, m, phi0 float64 }
	var jobs []job
	for _, k := range e.cfg.Sweep.KRot {
		for _, m := range tc.Masses {
			for _, phi0 := range phases {
				jobs = append(jobs, job{k, m, phi0})
			}
		}
	}

	out := make([]*analysis.PhasePortrait, len(jobs))
	err := dynamo.ForEach(ctx, len(jobs), e.cfg.Workers, func(ctx context.Context, i int) error {
		pp, _, err := e.Trace(ctx, jobs[i].m, jobs[i].k, jobs[i].phi0)
		if err != nil {
			return fmt.Errorf("trace m=%g k=%g phi0=%.4f: %w", jobs[i].m, jobs[i].k, jobs[i].phi0, err)
		}
		out[i] = pp
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Comparison is one integrator's view of the same ensemble.
type Comparison struct {
	Integrator string
	Result     *ensemble.Result
	Elapsed    time.Duration
}

// Compare samples one point with each named integrator.
func (e *Experiment) Compare(ctx context.Context, mass, kRot float64, names []string) ([]Comparison, error) {
	p, err := e.cfg.Params(mass, kRot)
	if err != nil {
		return nil, err
	}
	out := make([]Comparison, 0, len(names))
	for _, name := range names {
		factory, err := integrators.Factory(name)
		if err != nil {
			return nil, err
		}
		gen, err := sim.New(factory, sim.WithWindow(e.cfg.Window))
		if err != nil {
			return nil, err
		}
		sampler, err := ensemble.NewSampler(gen, e.classifier,
			ensemble.WithWorkers(e.cfg.Workers),
			ensemble.WithLogger(e.logger),
		)
		if err != nil {
			return nil, err
		}
		start := time.Now()
		res, err := sampler.Run(ctx, p, e.cfg.Sampling.Samples, e.rule)
		if err != nil {
			return nil, err
		}
		out = append(out, Comparison{Integrator: name, Result: res, Elapsed: time.Since(start)})
	}
	return out, nil
}
