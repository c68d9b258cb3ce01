package element

import (
	"fmt"

	"github.com/kesslern/mnacore/pkg/matrix"
	"github.com/kesslern/mnacore/pkg/util"
)

// Inductor is the reactive element v = L*di/dt, discretized with
// Backward Euler and rearranged to I_new = I_prev + dt*v/L: a Norton
// admittance ell=dt/L in parallel with a fixed current source I_prev.
type Inductor struct {
	base
	Inductance float64
	iPrev      float64 // current at the previous timestep boundary
}

// NewInductor builds an inductor between positive and negative with
// the given inductance in henries and initial current i0.
func NewInductor(name string, positive, negative int, inductance, i0 float64) *Inductor {
	l := &Inductor{base: newBase(name, KindInductor, positive, negative), Inductance: inductance, iPrev: i0}
	l.current = i0
	return l
}

func (l *Inductor) NumAuxiliary() int { return 0 }

func (l *Inductor) Validate() error {
	if err := l.validateNodes(); err != nil {
		return err
	}
	if l.Inductance <= 0 {
		return &InvalidParameterError{Element: l.Name(), Reason: "inductance must be > 0"}
	}
	return nil
}

// Stamp adds the Backward Euler companion admittance ell=dt/L and the
// matching Norton current source, -I_prev on the positive side of b.
func (l *Inductor) Stamp(asm *matrix.AssemblyView, _ *matrix.OperatingPointView, dt float64) {
	ell := dt / l.Inductance

	ep := matrix.NodalEquation(l.positive)
	en := matrix.NodalEquation(l.negative)
	vp := matrix.NodalVoltage(l.positive)
	vn := matrix.NodalVoltage(l.negative)

	asm.CoefficientAdd(ep, vp, ell)
	asm.CoefficientAdd(ep, vn, -ell)
	asm.CoefficientAdd(en, vp, -ell)
	asm.CoefficientAdd(en, vn, ell)

	asm.ResultAdd(ep, -l.iPrev)
	asm.ResultAdd(en, l.iPrev)
}

func (l *Inductor) Update(op *matrix.OperatingPointView, dt float64) {
	vp := op.GetVariable(matrix.NodalVoltage(l.positive))
	vn := op.GetVariable(matrix.NodalVoltage(l.negative))
	l.voltage = vp - vn

	l.current = l.iPrev + dt*l.voltage/l.Inductance
	l.iPrev = l.current
}

func (l *Inductor) String() string {
	return fmt.Sprintf("%s: %s, v=%s, i=%s", l.Name(),
		util.FormatValueFactor(l.Inductance, "H"),
		util.FormatValueFactor(l.voltage, "V"),
		util.FormatValueFactor(l.current, "A"))
}
