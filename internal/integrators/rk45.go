package integrators

import (
	"math"

	"github.com/san-kum/phasesector/internal/dynamo"
)

// Dormand-Prince coefficients (RK45)
var (
	a2 = 1.0 / 5.0
	a3 = 3.0 / 10.0
	a4 = 4.0 / 5.0
	a5 = 8.0 / 9.0

	b21 = 1.0 / 5.0
	b31 = 3.0 / 40.0
	b32 = 9.0 / 40.0
	b41 = 44.0 / 45.0
	b42 = -56.0 / 15.0
	b43 = 32.0 / 9.0
	b51 = 19372.0 / 6561.0
	b52 = -25360.0 / 2187.0
	b53 = 64448.0 / 6561.0
	b54 = -212.0 / 729.0
	b61 = 9017.0 / 3168.0
	b62 = -355.0 / 33.0
	b63 = 46732.0 / 5247.0
	b64 = 49.0 / 176.0
	b65 = -5103.0 / 18656.0

	c1 = 35.0 / 384.0
	c3 = 500.0 / 1113.0
	c4 = 125.0 / 192.0
	c5 = -2187.0 / 6784.0
	c6 = 11.0 / 84.0

	dc1 = c1 - 5179.0/57600.0
	dc3 = c3 - 7571.0/16695.0
	dc4 = c4 - 393.0/640.0
	dc5 = c5 - -92097.0/339200.0
	dc6 = c6 - 187.0/2100.0
	dc7 = -1.0 / 40.0
)

// RK45 is the Dormand-Prince 5(4) pair used with a fixed step. The fifth-order
// solution is propagated; the embedded fourth-order solution only feeds the
// local error estimate used when comparing integrators.
type RK45 struct{}

func NewRK45() *RK45 {
	return &RK45{}
}

func (r *RK45) Name() string { return "rk45" }
func (r *RK45) Order() int   { return 5 }

func (r *RK45) Step(sys dynamo.System, x dynamo.State, n, h float64) dynamo.State {
	xNew, _ := r.StepWithError(sys, x, n, h)
	return xNew
}

// StepWithError returns the fifth-order step and the max-norm of the
// difference to the embedded fourth-order solution, scaled by the state.
func (r *RK45) StepWithError(sys dynamo.System, x dynamo.State, n, h float64) (dynamo.State, float64) {
	dim := len(x)

	k1 := sys.Derive(x, n)

	x2 := make(dynamo.State, dim)
	for i := 0; i < dim; i++ {
		x2[i] = x[i] + h*b21*k1[i]
	}
	k2 := sys.Derive(x2, n+a2*h)

	x3 := make(dynamo.State, dim)
	for i := 0; i < dim; i++ {
		x3[i] = x[i] + h*(b31*k1[i]+b32*k2[i])
	}
	k3 := sys.Derive(x3, n+a3*h)

	x4 := make(dynamo.State, dim)
	for i := 0; i < dim; i++ {
		x4[i] = x[i] + h*(b41*k1[i]+b42*k2[i]+b43*k3[i])
	}
	k4 := sys.Derive(x4, n+a4*h)

	x5 := make(dynamo.State, dim)
	for i := 0; i < dim; i++ {
		x5[i] = x[i] + h*(b51*k1[i]+b52*k2[i]+b53*k3[i]+b54*k4[i])
	}
	k5 := sys.Derive(x5, n+a5*h)

	x6 := make(dynamo.State, dim)
	for i := 0; i < dim; i++ {
		x6[i] = x[i] + h*(b61*k1[i]+b62*k2[i]+b63*k3[i]+b64*k4[i]+b65*k5[i])
	}
	k6 := sys.Derive(x6, n+h)

	xNew := make(dynamo.State, dim)
	for i := 0; i < dim; i++ {
		xNew[i] = x[i] + h*(c1*k1[i]+c3*k3[i]+c4*k4[i]+c5*k5[i]+c6*k6[i])
	}

	k7 := sys.Derive(xNew, n+h)

	errMax := 0.0
	for i := 0; i < dim; i++ {
		errEst := h * (dc1*k1[i] + dc3*k3[i] + dc4*k4[i] + dc5*k5[i] + dc6*k6[i] + dc7*k7[i])
		scale := math.Abs(x[i]) + math.Abs(h*k1[i]) + 1e-300
		errMax = math.Max(errMax, math.Abs(errEst)/scale)
	}

	return xNew, errMax
}
