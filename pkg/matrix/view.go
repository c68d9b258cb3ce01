package matrix

import "gonum.org/v1/gonum/mat"

// AssemblyView is the mutable, scoped adapter handed to an element
// during a stamp call. It exposes only the rows/columns the element is
// entitled to touch: the nodal equations/voltages (shared, read
// globally) and the element's own auxiliary slice starting at offset.
// A view never outlives the single Stamp call that received it.
type AssemblyView struct {
	a        *mat.Dense
	b        *mat.VecDense
	numNodes int
	numAux   int
	offset   int
}

func newAssemblyView(a *mat.Dense, b *mat.VecDense, numNodes, numAux, offset int) *AssemblyView {
	return &AssemblyView{a: a, b: b, numNodes: numNodes, numAux: numAux, offset: offset}
}

// CoefficientAdd accumulates value into A at (equation, variable). Out
// of range references -- ground, or an auxiliary index past this
// element's declared count -- are silently dropped.
func (v *AssemblyView) CoefficientAdd(equation EquationIndex, variable VariableIndex, value float64) {
	row, ok := resolve(equation.auxiliary, equation.index, v.numNodes, v.numAux, v.offset)
	if !ok {
		return
	}
	col, ok := resolve(variable.auxiliary, variable.index, v.numNodes, v.numAux, v.offset)
	if !ok {
		return
	}
	v.a.Set(row, col, v.a.At(row, col)+value)
}

// ResultAdd accumulates value into b at equation. Ground is dropped.
func (v *AssemblyView) ResultAdd(equation EquationIndex, value float64) {
	row, ok := resolve(equation.auxiliary, equation.index, v.numNodes, v.numAux, v.offset)
	if !ok {
		return
	}
	v.b.SetVec(row, v.b.AtVec(row)+value)
}

// OperatingPointView is the read-only adapter handed to an element so
// that nonlinear stamps (the diode) can linearize around the latest
// Newton iterate, and so update passes can read back the solved
// values. Ground always reads back as exactly 0.0.
type OperatingPointView struct {
	x        []float64
	numNodes int
	numAux   int
	offset   int
}

func newOperatingPointView(x []float64, numNodes, numAux, offset int) *OperatingPointView {
	return &OperatingPointView{x: x, numNodes: numNodes, numAux: numAux, offset: offset}
}

// GetVariable returns the current value of variable. NodalVoltage(0)
// (ground) always returns exactly 0.0. Any other out-of-range
// reference returns 0.0 as well -- ground currents are redundant by
// KCL closure, so this is the no-op, not an error.
func (v *OperatingPointView) GetVariable(variable VariableIndex) float64 {
	if !variable.auxiliary && variable.index == 0 {
		return 0
	}
	idx, ok := resolve(variable.auxiliary, variable.index, v.numNodes, v.numAux, v.offset)
	if !ok {
		return 0
	}
	return v.x[idx]
}
