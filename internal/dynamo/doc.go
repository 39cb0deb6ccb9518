// Package dynamo provides the numerical primitives shared by the phase-sector
// study.
//
// The package defines the fundamental interfaces and types for fixed-step
// integration of ordinary differential equations in e-fold time:
//
//   - [State]: vector representing the system state
//   - [System]: interface for ODE systems (dX/dN = f(X, N))
//   - [Integrator]: fixed-step numerical integrator
//   - [Metric]: streaming observer reducing a run to one number
//   - [ForEach]: bounded worker pool over an index range
//
// # Errors
//
// Recoverable numeric failures are reported as [ErrDivergence] wrapped in a
// [*SimulationError]. Invalid parameters are [*ConfigError] values wrapping
// [ErrConfiguration]; those abort a run.
//
// # Thread Safety
//
// Integrators keep scratch buffers and are NOT safe for concurrent use.
// Build one per worker from an [IntegratorFactory].
package dynamo
