package sim

import (
	"context"
	"math"

	"github.com/san-kum/phasesector/internal/dynamo"
	"github.com/san-kum/phasesector/internal/physics"
)

const cancelCheckInterval = 512

// Generator produces trajectories of the rotating field. It is safe for
// concurrent use: every trajectory gets its own integrator from the factory.
type Generator struct {
	newIntegrator dynamo.IntegratorFactory
	window        float64
	traceStride   int
}

type Option func(*Generator)

// WithWindow sets the late-time window length in e-folds.
func WithWindow(w float64) Option {
	return func(g *Generator) { g.window = w }
}

// WithTrace keeps every stride-th sample of the whole run in Result.Trace.
// Zero disables tracing.
func WithTrace(stride int) Option {
	return func(g *Generator) { g.traceStride = stride }
}

func New(factory dynamo.IntegratorFactory, opts ...Option) (*Generator, error) {
	g := &Generator{newIntegrator: factory, window: DefaultWindow}
	for _, opt := range opts {
		opt(g)
	}
	if factory == nil {
		return nil, dynamo.Invalid("integrator", nil, "factory must be set")
	}
	if !(g.window > 0) || math.IsInf(g.window, 0) {
		return nil, dynamo.Invalid("window", g.window, "must be positive and finite")
	}
	if g.traceStride < 0 {
		return nil, dynamo.Invalid("trace_stride", g.traceStride, "must be non-negative")
	}
	return g, nil
}

func (g *Generator) Window() float64 { return g.window }

// WithOptions returns a copy of g with opts applied.
func (g *Generator) WithOptions(opts ...Option) (*Generator, error) {
	c := *g
	all := append([]Option{WithWindow(c.window), WithTrace(c.traceStride)}, opts...)
	return New(c.newIntegrator, all...)
}

func (g *Generator) Start(ic InitialCondition, p physics.Params) (*Trajectory, error) {
	if math.IsNaN(ic.Phi0) || math.IsInf(ic.Phi0, 0) {
		return nil, dynamo.Invalid("phi0", ic.Phi0, "must be finite")
	}
	field, err := physics.NewRotatingField(p)
	if err != nil {
		return nil, err
	}
	integ := g.newIntegrator()
	return &Trajectory{
		field: field,
		integ: integ,
		h:     p.Step,
		steps: p.Steps(),
		cur:   field.InitialState(ic.Phi0),
	}, nil
}

// Run drives one trajectory to NMax, keeping the late window. Divergence is
// recorded on the result, not returned: only invalid parameters and context
// cancellation produce an error.
func (g *Generator) Run(ctx context.Context, ic InitialCondition, p physics.Params) (*Result, error) {
	traj, err := g.Start(ic, p)
	if err != nil {
		return nil, err
	}

	windowSteps := int(math.Round(g.window / p.Step))
	first := traj.Steps() - windowSteps
	complete := first >= 0
	if first < 0 {
		first = 0
	}

	res := &Result{
		InitialCondition: ic,
		Window:           make([]Sample, 0, traj.Steps()-first+1),
	}
	if g.traceStride > 0 {
		res.Trace = make([]Sample, 0, traj.Steps()/g.traceStride+2)
	}

	for traj.Next() {
		i := traj.Index()
		if i%cancelCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}

		s := traj.Sample()
		if i >= first {
			res.Window = append(res.Window, s)
		}
		if g.traceStride > 0 && (i%g.traceStride == 0 || i == traj.Steps()) {
			res.Trace = append(res.Trace, s)
		}
	}

	res.StepsTaken = traj.Index()
	if traj.Divergent() {
		res.Divergent = true
		res.Err = traj.Err()
		complete = false
	}
	res.WindowComplete = complete
	return res, nil
}
