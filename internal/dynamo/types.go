package dynamo

import (
	"math"
)

// State is the integrated vector; its layout belongs to the System.
type State []float64

func (s State) Clone() State {
	c := make(State, len(s))
	copy(c, s)
	return c
}

func (s State) IsValid() bool {
	for _, v := range s {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// System is a first-order ODE dX/dN = f(X, N) in e-fold time N.
type System interface {
	Derive(x State, n float64) State
	StateDim() int
}

// Integrator advances a System by one fixed step h.
type Integrator interface {
	Name() string
	// Order is the global order of accuracy of the method.
	Order() int
	Step(sys System, x State, n, h float64) State
}

// ErrorEstimator is implemented by embedded-pair methods that can report the
// local truncation error of the step they just took.
type ErrorEstimator interface {
	Integrator
	StepWithError(sys System, x State, n, h float64) (State, float64)
}

// IntegratorFactory builds a fresh integrator for one worker.
type IntegratorFactory func() Integrator

type Metric interface {
	Name() string
	Observe(x State, n float64)
	Value() float64
	Reset()
}
