package element

import (
	"fmt"

	"github.com/kesslern/mnacore/pkg/matrix"
	"github.com/kesslern/mnacore/pkg/util"
)

// CurrentSource is the ideal element that injects a fixed current I
// from its negative node into its positive node. It contributes no
// auxiliary variable -- the current is already known, not solved for.
type CurrentSource struct {
	base
	Value float64
}

// NewCurrentSource builds an ideal DC current source between positive
// and negative with the given value in amperes.
func NewCurrentSource(name string, positive, negative int, value float64) *CurrentSource {
	return &CurrentSource{base: newBase(name, KindCurrentSource, positive, negative), Value: value}
}

func (i *CurrentSource) NumAuxiliary() int { return 0 }

func (i *CurrentSource) Validate() error {
	return i.validateNodes()
}

// Stamp adds the source current to b[E_p] and subtracts it from
// b[E_n] -- by KCL, current flows out of the positive node.
func (i *CurrentSource) Stamp(asm *matrix.AssemblyView, _ *matrix.OperatingPointView, _ float64) {
	ep := matrix.NodalEquation(i.positive)
	en := matrix.NodalEquation(i.negative)

	asm.ResultAdd(ep, i.Value)
	asm.ResultAdd(en, -i.Value)
}

func (i *CurrentSource) Update(op *matrix.OperatingPointView, _ float64) {
	vp := op.GetVariable(matrix.NodalVoltage(i.positive))
	vn := op.GetVariable(matrix.NodalVoltage(i.negative))
	i.voltage = vp - vn
	i.current = i.Value
}

func (i *CurrentSource) String() string {
	return fmt.Sprintf("%s: %s, v=%s, i=%s", i.Name(),
		util.FormatValueFactor(i.Value, "A"),
		util.FormatValueFactor(i.voltage, "V"),
		util.FormatValueFactor(i.current, "A"))
}
