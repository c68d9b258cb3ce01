// Package matrix implements the dense MNA system matrix and the scoped
// views elements use to stamp their coefficients.
package matrix

// EquationIndex names a row of the assembled system: either the KCL
// equation at a nodal voltage, or the j-th auxiliary equation owned by
// the element currently being stamped. The two cases are kept as a
// single wrapper struct, not two unrelated ints, so a nodal index can
// never be silently used where an auxiliary index was meant (and vice
// versa) -- resolve is the only place that interprets the tag, and it
// does so against the stamping element's own offset/count.
type EquationIndex struct {
	auxiliary bool
	index     int
}

// NodalEquation addresses the KCL equation at node k (k in 1..N). Node
// 0 (ground) is a legal value here -- it resolves to "no row" and is
// silently dropped by the views below.
func NodalEquation(node int) EquationIndex {
	return EquationIndex{index: node}
}

// AuxiliaryEquation addresses the j-th auxiliary equation (j in
// 0..m-1) owned by the element currently being stamped.
func AuxiliaryEquation(j int) EquationIndex {
	return EquationIndex{auxiliary: true, index: j}
}

// VariableIndex names a column of the assembled system: either a nodal
// voltage or the j-th auxiliary variable owned by the element
// currently being stamped.
type VariableIndex struct {
	auxiliary bool
	index     int
}

// NodalVoltage addresses the unknown V_k (k in 1..N). Node 0 resolves
// to the constant 0.0 when read through an OperatingPointView.
func NodalVoltage(node int) VariableIndex {
	return VariableIndex{index: node}
}

// AuxiliaryVariable addresses the j-th auxiliary unknown (e.g. the
// current through a voltage source) owned by the element currently
// being stamped.
func AuxiliaryVariable(j int) VariableIndex {
	return VariableIndex{auxiliary: true, index: j}
}

// resolve translates a nodal-or-auxiliary coordinate into an absolute,
// 0-based row/column of the (numNodes+totalAux)-sized system. offset is
// the absolute column/row at which the calling element's own auxiliary
// slice begins; numAux is that element's own auxiliary count, not the
// system's total. Ground (node 0) and any auxiliary index past the
// element's declared count resolve to ok=false -- the mechanism by
// which ground-relative stamps and zero-auxiliary elements are no-ops,
// not errors.
func resolve(auxiliary bool, index, numNodes, numAux, offset int) (int, bool) {
	if auxiliary {
		if index < 0 || index >= numAux {
			return 0, false
		}
		return offset + index, true
	}
	if index <= 0 || index > numNodes {
		return 0, false
	}
	return index - 1, true
}
