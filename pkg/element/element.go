// Package element implements the six primitive two-terminal circuit
// elements: resistor, capacitor, inductor, ideal voltage source, ideal
// current source, and diode.
package element

import (
	"fmt"

	"github.com/kesslern/mnacore/pkg/matrix"
)

// Kind is a closed tag identifying which of the six primitives a
// Component is. Dispatch in this package goes through Go's interface
// method set (each element knows how to stamp itself), but Kind is
// carried alongside it for diagnostics and for callers that want to
// switch on element type without a type assertion.
type Kind int

const (
	KindResistor Kind = iota
	KindCapacitor
	KindInductor
	KindVoltageSource
	KindCurrentSource
	KindDiode
)

func (k Kind) String() string {
	switch k {
	case KindResistor:
		return "R"
	case KindCapacitor:
		return "C"
	case KindInductor:
		return "L"
	case KindVoltageSource:
		return "V"
	case KindCurrentSource:
		return "I"
	case KindDiode:
		return "D"
	default:
		return "?"
	}
}

// Stampable is the per-element protocol the solver drives every
// Newton iteration.
type Stampable interface {
	// NumAuxiliary returns how many auxiliary variables/equations this
	// element contributes (1 for a voltage source, 0 for everything
	// else specified here).
	NumAuxiliary() int

	// Stamp contributes this element's coefficients to asm and, for
	// nonlinear elements, linearizes around the operating point read
	// from op. dt is passed uniformly even to elements that ignore it.
	Stamp(asm *matrix.AssemblyView, op *matrix.OperatingPointView, dt float64)

	// Update harvests the converged solution (through op) into the
	// element's persistent state and readouts.
	Update(op *matrix.OperatingPointView, dt float64)
}

// Component is the full contract every netlist entry satisfies:
// terminal access, readouts, and the Stampable solver protocol.
type Component interface {
	Stampable

	Name() string
	Kind() Kind
	Nodes() (positive, negative int)
	MaxNode() int

	Voltage() float64
	Current() float64
	Power() float64

	// Validate reports a construction-time defect (non-positive R/C/L,
	// non-positive diode Vt/eta, a negative node id) so the solver can
	// report InvalidNetlist before ever stamping.
	Validate() error

	String() string
}

// base holds the fields and accessors common to every element: its
// name, terminal nodes, and the voltage/current pair every readout is
// built from. Concrete elements embed it and add their own parameters
// and persistent state.
type base struct {
	name               string
	kind               Kind
	positive, negative int
	voltage, current   float64
}

// autoTagCounts tracks, per Kind, how many unnamed elements of that
// kind have been constructed so far, so each gets a distinct tag (R1,
// R2, ...) instead of all unnamed resistors reporting the same name.
var autoTagCounts = map[Kind]int{}

func newBase(name string, kind Kind, positive, negative int) base {
	if name == "" {
		autoTagCounts[kind]++
		name = fmt.Sprintf("%s%d", kind.String(), autoTagCounts[kind])
	}
	return base{name: name, kind: kind, positive: positive, negative: negative}
}

func (b *base) Name() string { return b.name }

func (b *base) Kind() Kind { return b.kind }

func (b *base) Nodes() (int, int) { return b.positive, b.negative }

func (b *base) MaxNode() int {
	if b.positive > b.negative {
		return b.positive
	}
	return b.negative
}

func (b *base) Voltage() float64 { return b.voltage }
func (b *base) Current() float64 { return b.current }
func (b *base) Power() float64   { return b.voltage * b.current }

func (b *base) validateNodes() error {
	if b.positive < 0 || b.negative < 0 {
		return &InvalidParameterError{Element: b.Name(), Reason: "node id must not be negative"}
	}
	return nil
}

// InvalidParameterError reports a construction-time parameter defect:
// a non-positive R/C/L, a non-positive diode Vt or eta, or a negative
// node id.
type InvalidParameterError struct {
	Element string
	Reason  string
}

func (e *InvalidParameterError) Error() string {
	return e.Element + ": " + e.Reason
}
