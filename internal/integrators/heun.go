package integrators

import "github.com/san-kum/phasesector/internal/dynamo"

// Heun is the explicit trapezoidal rule (second-order Runge-Kutta).
type Heun struct {
	predictor dynamo.State
}

func NewHeun() *Heun {
	return &Heun{}
}

func (e *Heun) Name() string { return "heun" }
func (e *Heun) Order() int   { return 2 }

func (e *Heun) Step(sys dynamo.System, x dynamo.State, n, h float64) dynamo.State {
	if len(e.predictor) != len(x) {
		e.predictor = make(dynamo.State, len(x))
	}

	k1 := sys.Derive(x, n)
	for i := range x {
		e.predictor[i] = x[i] + h*k1[i]
	}
	k2 := sys.Derive(e.predictor, n+h)

	result := make(dynamo.State, len(x))
	for i := range x {
		result[i] = x[i] + 0.5*h*(k1[i]+k2[i])
	}
	return result
}
