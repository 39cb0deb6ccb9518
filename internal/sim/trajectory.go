package sim

import (
	"github.com/san-kum/phasesector/internal/dynamo"
	"github.com/san-kum/phasesector/internal/physics"
)

// Trajectory is a lazy cursor over the samples of one field evolution,
// N = 0, h, 2h, ..., NMax. The first call to Next yields the initial state.
// A Trajectory is consumed once; it cannot be rewound.
type Trajectory struct {
	field *physics.RotatingField
	integ dynamo.Integrator
	h     float64
	steps int

	i       int
	cur     dynamo.State
	started bool
	done    bool
	err     error
}

func (t *Trajectory) Next() bool {
	if t.done {
		return false
	}
	if !t.started {
		t.started = true
		return true
	}
	if t.i >= t.steps {
		t.done = true
		return false
	}

	n := float64(t.i) * t.h
	next := t.integ.Step(t.field, t.cur, n, t.h)
	if !next.IsValid() {
		t.err = &dynamo.SimulationError{
			Step:    t.i + 1,
			N:       float64(t.i+1) * t.h,
			State:   next,
			Wrapped: dynamo.ErrDivergence,
		}
		t.done = true
		return false
	}

	t.cur = next
	t.i++
	return true
}

// Sample returns the current sample. Only valid after Next returned true.
func (t *Trajectory) Sample() Sample {
	return Sample{N: float64(t.i) * t.h, State: t.cur}
}

// Index is the step index of the current sample.
func (t *Trajectory) Index() int { return t.i }

// Steps is the total number of steps to NMax.
func (t *Trajectory) Steps() int { return t.steps }

func (t *Trajectory) Err() error { return t.err }

func (t *Trajectory) Divergent() bool { return t.err != nil }

// Done reports whether the cursor is exhausted.
func (t *Trajectory) Done() bool { return t.done }
