package solver

import "fmt"

// SingularMatrixError wraps a failure to invert the system matrix,
// meaning the netlist as stamped has no unique solution (e.g. a
// shorted voltage source, or a floating node left with zero
// conductance to ground).
type SingularMatrixError struct {
	Err error
}

// NewSingularMatrixError wraps err as a SingularMatrixError.
func NewSingularMatrixError(err error) *SingularMatrixError {
	return &SingularMatrixError{Err: err}
}

func (e *SingularMatrixError) Error() string {
	return fmt.Sprintf("singular system matrix: %v", e.Err)
}

func (e *SingularMatrixError) Unwrap() error { return e.Err }

// NonConvergenceError reports that Newton-Raphson iteration reached
// MaxIterations without the relative change in the solution vector
// dropping below ConvergenceTolerance. LastX carries the final
// (unconverged) iterate for diagnostics.
type NonConvergenceError struct {
	Iterations int
	LastX      []float64
}

// NewNonConvergenceError builds a NonConvergenceError carrying the
// iteration count and the last iterate reached.
func NewNonConvergenceError(iterations int, lastX []float64) *NonConvergenceError {
	return &NonConvergenceError{Iterations: iterations, LastX: lastX}
}

func (e *NonConvergenceError) Error() string {
	return fmt.Sprintf("failed to converge after %d iterations", e.Iterations)
}

// InvalidNetlistError wraps a component's Validate failure, identifying
// a structurally or parametrically invalid netlist before any solve is
// attempted.
type InvalidNetlistError struct {
	Err error
}

// NewInvalidNetlistError wraps err as an InvalidNetlistError.
func NewInvalidNetlistError(err error) *InvalidNetlistError {
	return &InvalidNetlistError{Err: err}
}

func (e *InvalidNetlistError) Error() string {
	return fmt.Sprintf("invalid netlist: %v", e.Err)
}

func (e *InvalidNetlistError) Unwrap() error { return e.Err }
