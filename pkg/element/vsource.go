package element

import (
	"fmt"

	"github.com/kesslern/mnacore/pkg/matrix"
	"github.com/kesslern/mnacore/pkg/util"
)

// VoltageSource is the ideal element v_p - v_n = V, realized in MNA by
// introducing one auxiliary variable -- the current flowing through it
// -- and one auxiliary equation constraining the terminal voltages.
type VoltageSource struct {
	base
	Value float64
}

// NewVoltageSource builds an ideal DC voltage source between positive
// and negative with the given value in volts.
func NewVoltageSource(name string, positive, negative int, value float64) *VoltageSource {
	return &VoltageSource{base: newBase(name, KindVoltageSource, positive, negative), Value: value}
}

func (v *VoltageSource) NumAuxiliary() int { return 1 }

func (v *VoltageSource) Validate() error {
	return v.validateNodes()
}

// Stamp contributes the branch-current coupling (-1/+1 on the nodal
// rows) and the constraint equation V(p)-V(n)=V (1/-1 on its own
// auxiliary row, with V on the right-hand side).
func (v *VoltageSource) Stamp(asm *matrix.AssemblyView, _ *matrix.OperatingPointView, _ float64) {
	ep := matrix.NodalEquation(v.positive)
	en := matrix.NodalEquation(v.negative)
	aux := matrix.AuxiliaryVariable(0)
	auxEq := matrix.AuxiliaryEquation(0)
	vp := matrix.NodalVoltage(v.positive)
	vn := matrix.NodalVoltage(v.negative)

	asm.CoefficientAdd(ep, aux, -1.0)
	asm.CoefficientAdd(en, aux, 1.0)

	asm.CoefficientAdd(auxEq, vp, 1.0)
	asm.CoefficientAdd(auxEq, vn, -1.0)
	asm.ResultAdd(auxEq, v.Value)
}

func (v *VoltageSource) Update(op *matrix.OperatingPointView, _ float64) {
	vp := op.GetVariable(matrix.NodalVoltage(v.positive))
	vn := op.GetVariable(matrix.NodalVoltage(v.negative))
	v.voltage = vp - vn
	v.current = op.GetVariable(matrix.AuxiliaryVariable(0))
}

func (v *VoltageSource) String() string {
	return fmt.Sprintf("%s: %s, v=%s, i=%s", v.Name(),
		util.FormatValueFactor(v.Value, "V"),
		util.FormatValueFactor(v.voltage, "V"),
		util.FormatValueFactor(v.current, "A"))
}
