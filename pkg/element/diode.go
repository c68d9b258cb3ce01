package element

import (
	"fmt"
	"math"

	"github.com/kesslern/mnacore/pkg/matrix"
	"github.com/kesslern/mnacore/pkg/util"
)

// maxExpArgument caps the exponent passed to math.Exp while linearizing
// the diode (exp(40) is already ~2.4e17; this keeps the companion-model
// conductance finite deep into forward bias during early Newton
// iterations, before the operating point has settled).
const maxExpArgument = 40.0

// Diode is the nonlinear element I = Is*(exp(v/(eta*Vt)) - 1). It owns
// no auxiliary variable; instead it linearizes itself every Newton
// iteration into a companion model -- a conductance g_d in parallel
// with an equivalent current source I_eq -- around the latest
// operating-point estimate of v = v_p - v_n.
type Diode struct {
	base
	Is  float64 // reverse saturation current, amperes
	Eta float64 // ideality/emission coefficient
	Vt  float64 // thermal voltage, volts (user-supplied, not kT/q derived)
}

// NewDiode builds a diode between positive and negative with the given
// saturation current, ideality factor, and thermal voltage.
func NewDiode(name string, positive, negative int, is, eta, vt float64) *Diode {
	return &Diode{base: newBase(name, KindDiode, positive, negative), Is: is, Eta: eta, Vt: vt}
}

func (d *Diode) NumAuxiliary() int { return 0 }

func (d *Diode) Validate() error {
	if err := d.validateNodes(); err != nil {
		return err
	}
	if d.Vt <= 0 {
		return &InvalidParameterError{Element: d.Name(), Reason: "thermal voltage Vt must be > 0"}
	}
	if d.Eta <= 0 {
		return &InvalidParameterError{Element: d.Name(), Reason: "ideality factor eta must be > 0"}
	}
	return nil
}

// Stamp reads the latest operating-point estimate v0 = v_p - v_n from
// op, computes the companion conductance g_d and equivalent current
// I_eq around it, and stamps g_d exactly like a resistor plus I_eq on
// the appropriate sides of b so that the linearized model reproduces
// I_d0 = Is*(exp(v0/(eta*Vt))-1) at v=v0.
func (d *Diode) Stamp(asm *matrix.AssemblyView, op *matrix.OperatingPointView, _ float64) {
	vp := matrix.NodalVoltage(d.positive)
	vn := matrix.NodalVoltage(d.negative)
	v0 := op.GetVariable(vp) - op.GetVariable(vn)

	vt := d.Eta * d.Vt
	expArg := v0 / vt
	if expArg > maxExpArgument {
		expArg = maxExpArgument
	}
	exp := math.Exp(expArg)

	gd := (d.Is / vt) * exp
	id0 := d.Is * (exp - 1)
	ieq := id0 - gd*v0

	ep := matrix.NodalEquation(d.positive)
	en := matrix.NodalEquation(d.negative)

	asm.CoefficientAdd(ep, vp, gd)
	asm.CoefficientAdd(ep, vn, -gd)
	asm.CoefficientAdd(en, vp, -gd)
	asm.CoefficientAdd(en, vn, gd)

	asm.ResultAdd(ep, -ieq)
	asm.ResultAdd(en, ieq)
}

func (d *Diode) Update(op *matrix.OperatingPointView, _ float64) {
	vp := op.GetVariable(matrix.NodalVoltage(d.positive))
	vn := op.GetVariable(matrix.NodalVoltage(d.negative))
	d.voltage = vp - vn

	vt := d.Eta * d.Vt
	expArg := d.voltage / vt
	if expArg > maxExpArgument {
		expArg = maxExpArgument
	}
	d.current = d.Is * (math.Exp(expArg) - 1)
}

func (d *Diode) String() string {
	return fmt.Sprintf("%s: Is=%s, eta=%.2f, Vt=%s, v=%s, i=%s", d.Name(),
		util.FormatValueFactor(d.Is, "A"), d.Eta, util.FormatValueFactor(d.Vt, "V"),
		util.FormatValueFactor(d.voltage, "V"),
		util.FormatValueFactor(d.current, "A"))
}
