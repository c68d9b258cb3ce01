// Package netlist holds the ordered collection of components that make
// up a circuit to be solved, plus a line-oriented text reader for
// building one from a description file.
package netlist

import "github.com/kesslern/mnacore/pkg/element"

// Netlist is an ordered set of components sharing one node numbering
// space, where node 0 is always ground.
type Netlist struct {
	components []element.Component
}

// New returns an empty netlist.
func New() *Netlist {
	return &Netlist{}
}

// Add appends a component and returns the netlist for chaining.
func (n *Netlist) Add(c element.Component) *Netlist {
	n.components = append(n.components, c)
	return n
}

// Components returns the netlist's components in insertion order.
func (n *Netlist) Components() []element.Component {
	return n.components
}

// ComponentsMut returns the same slice as Components. Unlike a
// language where components might be stored by value, Go slice
// elements here are already interface values wrapping pointers, so
// there is no separate mutable view -- this exists for callers that
// want to make the read/write intent explicit at the call site.
func (n *Netlist) ComponentsMut() []element.Component {
	return n.components
}

// NumNodes returns the highest node index referenced by any component,
// i.e. the number of non-ground nodes in the circuit.
func (n *Netlist) NumNodes() int {
	max := 0
	for _, c := range n.components {
		if m := c.MaxNode(); m > max {
			max = m
		}
	}
	return max
}

// NumAuxiliary returns the total number of auxiliary variables/equations
// contributed across all components, in the same order the solver
// assigns their offsets.
func (n *Netlist) NumAuxiliary() int {
	total := 0
	for _, c := range n.components {
		total += c.NumAuxiliary()
	}
	return total
}
