package integrators

import "github.com/san-kum/phasesector/internal/dynamo"

// RK4 is the classic fourth-order Runge-Kutta method. It is the integrator
// of record for every sweep.
type RK4 struct {
	k1, k2, k3, k4 dynamo.State
	scratch        dynamo.State
}

func NewRK4() *RK4 {
	return &RK4{}
}

func (r *RK4) Name() string { return "rk4" }
func (r *RK4) Order() int   { return 4 }

func (r *RK4) ensureScratch(n int) {
	if len(r.k1) != n {
		r.k1 = make(dynamo.State, n)
		r.k2 = make(dynamo.State, n)
		r.k3 = make(dynamo.State, n)
		r.k4 = make(dynamo.State, n)
		r.scratch = make(dynamo.State, n)
	}
}

func (r *RK4) Step(sys dynamo.System, x dynamo.State, n, h float64) dynamo.State {
	dim := len(x)
	r.ensureScratch(dim)

	copy(r.k1, sys.Derive(x, n))

	for i := 0; i < dim; i++ {
		r.scratch[i] = x[i] + h*0.5*r.k1[i]
	}
	copy(r.k2, sys.Derive(r.scratch, n+h*0.5))

	for i := 0; i < dim; i++ {
		r.scratch[i] = x[i] + h*0.5*r.k2[i]
	}
	copy(r.k3, sys.Derive(r.scratch, n+h*0.5))

	for i := 0; i < dim; i++ {
		r.scratch[i] = x[i] + h*r.k3[i]
	}
	copy(r.k4, sys.Derive(r.scratch, n+h))

	result := make(dynamo.State, dim)
	h6 := h / 6.0
	for i := 0; i < dim; i++ {
		result[i] = x[i] + h6*(r.k1[i]+2*r.k2[i]+2*r.k3[i]+r.k4[i])
	}

	return result
}
