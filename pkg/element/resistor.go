package element

import (
	"fmt"

	"github.com/kesslern/mnacore/pkg/matrix"
	"github.com/kesslern/mnacore/pkg/util"
)

// Resistor is the linear two-terminal element v = R*I.
type Resistor struct {
	base
	Resistance float64
}

// NewResistor builds a resistor between positive and negative with the
// given resistance in ohms.
func NewResistor(name string, positive, negative int, resistance float64) *Resistor {
	return &Resistor{base: newBase(name, KindResistor, positive, negative), Resistance: resistance}
}

func (r *Resistor) NumAuxiliary() int { return 0 }

func (r *Resistor) Validate() error {
	if err := r.validateNodes(); err != nil {
		return err
	}
	if r.Resistance <= 0 {
		return &InvalidParameterError{Element: r.Name(), Reason: "resistance must be > 0"}
	}
	return nil
}

// Stamp adds the resistor's conductance g=1/R to the diagonal terms at
// its two nodes and subtracts it from the cross terms. Current flowing
// out of the positive node is g*(v_p - v_n).
func (r *Resistor) Stamp(asm *matrix.AssemblyView, _ *matrix.OperatingPointView, _ float64) {
	g := 1.0 / r.Resistance

	ep := matrix.NodalEquation(r.positive)
	en := matrix.NodalEquation(r.negative)
	vp := matrix.NodalVoltage(r.positive)
	vn := matrix.NodalVoltage(r.negative)

	asm.CoefficientAdd(ep, vp, g)
	asm.CoefficientAdd(ep, vn, -g)
	asm.CoefficientAdd(en, vp, -g)
	asm.CoefficientAdd(en, vn, g)
}

func (r *Resistor) Update(op *matrix.OperatingPointView, _ float64) {
	vp := op.GetVariable(matrix.NodalVoltage(r.positive))
	vn := op.GetVariable(matrix.NodalVoltage(r.negative))
	r.voltage = vp - vn
	r.current = r.voltage / r.Resistance
}

func (r *Resistor) String() string {
	return fmt.Sprintf("%s: %s, v=%s, i=%s", r.Name(),
		util.FormatValueFactor(r.Resistance, "Ω"),
		util.FormatValueFactor(r.voltage, "V"),
		util.FormatValueFactor(r.current, "A"))
}
