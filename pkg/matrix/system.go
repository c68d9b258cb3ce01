package matrix

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// ErrSingular is returned (wrapped) by System.Solve when A has no
// inverse at the current iterate.
var ErrSingular = errors.New("singular system matrix")

// System owns the dense A, b, x of one solver call: A(dim x dim), b
// and x of length dim, where dim = numNodes + numAux. It is created
// once per netlist shape and reused across Newton iterations and,
// typically, across timesteps -- only Clear resets A and b between
// iterations; x (the latest operating point) is carried forward by the
// caller via SetX, matching the spec's "previous solve's x, or 0"
// initial guess.
type System struct {
	NumNodes int
	NumAux   int

	a *mat.Dense
	b *mat.VecDense
	x []float64
}

// NewSystem allocates a zeroed system sized for numNodes nodal
// equations and numAux auxiliary equations/variables. A zero-dimension
// system (empty netlist, or one with only ground references) leaves
// the underlying gonum matrices unallocated, since gonum's Dense and
// VecDense do not accept a zero dimension.
func NewSystem(numNodes, numAux int) *System {
	dim := numNodes + numAux
	s := &System{
		NumNodes: numNodes,
		NumAux:   numAux,
		x:        make([]float64, dim),
	}
	if dim > 0 {
		s.a = mat.NewDense(dim, dim, nil)
		s.b = mat.NewVecDense(dim, nil)
	}
	return s
}

// Dim is the total system size, numNodes+numAux.
func (s *System) Dim() int { return s.NumNodes + s.NumAux }

// Clear zeroes A and b in preparation for the next stamp pass. x is
// left untouched -- it is the caller's running iterate/operating point.
func (s *System) Clear() {
	if s.a == nil {
		return
	}
	s.a.Zero()
	s.b.Zero()
}

// AssemblyView returns a scoped write adapter positioned at offset,
// the absolute row/column at which an element owning numAux auxiliary
// variables begins.
func (s *System) AssemblyView(offset, numAux int) *AssemblyView {
	return newAssemblyView(s.a, s.b, s.NumNodes, numAux, offset)
}

// OperatingPointView returns a scoped read adapter over the current x,
// positioned the same way as AssemblyView.
func (s *System) OperatingPointView(offset, numAux int) *OperatingPointView {
	return newOperatingPointView(s.x, s.NumNodes, numAux, offset)
}

// X returns the system's current operating point / latest solved
// iterate. The returned slice is owned by System; callers that need to
// keep a snapshot across a call to Solve/SetX must copy it.
func (s *System) X() []float64 { return s.x }

// SetX overwrites the stored operating point with values.
func (s *System) SetX(values []float64) { copy(s.x, values) }

// Solve inverts A and multiplies it against b, the dense LU/inverse
// solve the spec calls for at this scale. It does not mutate x; callers
// decide when (and whether, after a convergence check) to adopt the
// result via SetX.
func (s *System) Solve() ([]float64, error) {
	dim := s.Dim()
	if dim == 0 {
		return nil, nil
	}

	var inv mat.Dense
	if err := inv.Inverse(s.a); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSingular, err)
	}

	var next mat.VecDense
	next.MulVec(&inv, s.b)

	result := make([]float64, dim)
	for i := 0; i < dim; i++ {
		result[i] = next.AtVec(i)
	}
	return result, nil
}
