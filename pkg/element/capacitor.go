package element

import (
	"fmt"

	"github.com/kesslern/mnacore/pkg/matrix"
	"github.com/kesslern/mnacore/pkg/util"
)

// Capacitor is the reactive element i = C*dv/dt, discretized with
// Backward Euler into a conductance c=C/dt in parallel with a Norton
// current source driven by the previous step's voltage.
type Capacitor struct {
	base
	Capacitance float64
	vPrev       float64 // voltage at the previous timestep boundary
}

// NewCapacitor builds a capacitor between positive and negative with
// the given capacitance in farads and initial voltage v0.
func NewCapacitor(name string, positive, negative int, capacitance, v0 float64) *Capacitor {
	c := &Capacitor{base: newBase(name, KindCapacitor, positive, negative), Capacitance: capacitance, vPrev: v0}
	c.voltage = v0
	return c
}

func (c *Capacitor) NumAuxiliary() int { return 0 }

func (c *Capacitor) Validate() error {
	if err := c.validateNodes(); err != nil {
		return err
	}
	if c.Capacitance <= 0 {
		return &InvalidParameterError{Element: c.Name(), Reason: "capacitance must be > 0"}
	}
	return nil
}

// Stamp adds the Backward Euler companion conductance c=C/dt and its
// matching current source, C*v_prev/dt, onto the positive side of b.
func (c *Capacitor) Stamp(asm *matrix.AssemblyView, _ *matrix.OperatingPointView, dt float64) {
	g := c.Capacitance / dt

	ep := matrix.NodalEquation(c.positive)
	en := matrix.NodalEquation(c.negative)
	vp := matrix.NodalVoltage(c.positive)
	vn := matrix.NodalVoltage(c.negative)

	asm.CoefficientAdd(ep, vp, g)
	asm.CoefficientAdd(ep, vn, -g)
	asm.CoefficientAdd(en, vp, -g)
	asm.CoefficientAdd(en, vn, g)

	asm.ResultAdd(ep, g*c.vPrev)
	asm.ResultAdd(en, -g*c.vPrev)
}

func (c *Capacitor) Update(op *matrix.OperatingPointView, dt float64) {
	vp := op.GetVariable(matrix.NodalVoltage(c.positive))
	vn := op.GetVariable(matrix.NodalVoltage(c.negative))
	newVoltage := vp - vn

	c.current = c.Capacitance * (newVoltage - c.vPrev) / dt
	c.vPrev = newVoltage
	c.voltage = newVoltage
}

func (c *Capacitor) String() string {
	return fmt.Sprintf("%s: %s, v=%s, i=%s", c.Name(),
		util.FormatValueFactor(c.Capacitance, "F"),
		util.FormatValueFactor(c.voltage, "V"),
		util.FormatValueFactor(c.current, "A"))
}
