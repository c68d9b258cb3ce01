package solver_test

import (
	"errors"
	"math"
	"testing"

	"github.com/kesslern/mnacore/pkg/element"
	"github.com/kesslern/mnacore/pkg/netlist"
	"github.com/kesslern/mnacore/pkg/solver"
	"github.com/stretchr/testify/require"
)

// Scenario 1: single resistor across a 10V source.
func TestScenarioSingleResistor(t *testing.T) {
	v := element.NewVoltageSource("V1", 1, 0, 10.0)
	r := element.NewResistor("R1", 1, 0, 2.0)

	nl := netlist.New().Add(v).Add(r)
	d := solver.New(nl)

	require.NoError(t, d.Step(0.001))
	require.InDelta(t, 5.0, v.Current(), 1e-6)
	require.InDelta(t, 10.0, r.Voltage(), 1e-6)
	require.InDelta(t, 5.0, r.Current(), 1e-6)
}

// Scenario 2: resistive divider.
func TestScenarioResistiveDivider(t *testing.T) {
	v := element.NewVoltageSource("V1", 1, 0, 5.0)
	r1 := element.NewResistor("R1", 1, 2, 4.0)
	r2 := element.NewResistor("R2", 2, 0, 1.0)

	nl := netlist.New().Add(v).Add(r1).Add(r2)
	d := solver.New(nl)

	require.NoError(t, d.Step(0.001))
	require.InDelta(t, 1.0, v.Current(), 1e-6)
	require.InDelta(t, 4.0, r1.Voltage(), 1e-6)
	require.InDelta(t, 1.0, r2.Voltage(), 1e-6)
}

// Scenario 3: RC step to steady state.
func TestScenarioRCStepToSteadyState(t *testing.T) {
	v := element.NewVoltageSource("V1", 1, 0, 1.0)
	r := element.NewResistor("R1", 1, 2, 1000.0)
	c := element.NewCapacitor("C1", 2, 0, 0.001, 0)

	nl := netlist.New().Add(v).Add(r).Add(c)
	d := solver.New(nl)

	for i := 0; i < 1000; i++ {
		require.NoError(t, d.Step(0.001))
	}

	require.InDelta(t, 0.632120558829, c.Voltage(), 1e-3)
	require.InDelta(t, 0.367879441171, r.Voltage(), 1e-3)
	require.InDelta(t, 3.67879441171e-4, c.Current(), 1e-6)
}

// Scenario 4: current source into a capacitor, two different timesteps.
func TestScenarioCurrentSourceIntoCapacitor(t *testing.T) {
	i := element.NewCurrentSource("I1", 1, 0, 1.0)
	c := element.NewCapacitor("C1", 1, 0, 0.5, 0)

	nl := netlist.New().Add(i).Add(c)
	d := solver.New(nl)

	require.NoError(t, d.Step(0.25))
	require.InDelta(t, 0.50, c.Voltage(), 1e-6)

	require.NoError(t, d.Step(0.75))
	require.InDelta(t, 2.0, c.Voltage(), 1e-6)
}

// Scenario 5: RL step.
func TestScenarioRLStep(t *testing.T) {
	v := element.NewVoltageSource("V1", 1, 0, 1.0)
	r := element.NewResistor("R1", 1, 2, 0.001)
	l := element.NewInductor("L1", 2, 0, 0.01, 0)

	nl := netlist.New().Add(v).Add(r).Add(l)
	d := solver.New(nl)

	for i := 0; i < 1000; i++ {
		require.NoError(t, d.Step(0.001))
	}

	require.InDelta(t, 95.162581964, l.Current(), 0.1)
}

// Scenario 6: diode clamp.
func TestScenarioDiodeClamp(t *testing.T) {
	v := element.NewVoltageSource("V1", 1, 0, 10.0)
	r := element.NewResistor("R1", 1, 2, 10.0)
	dio := element.NewDiode("D1", 2, 0, 25e-9, 2.0, 0.026)

	nl := netlist.New().Add(v).Add(r).Add(dio)
	d := solver.New(nl)

	require.NoError(t, d.Step(0.001))
	require.InDelta(t, 0.905, dio.Voltage(), 0.01)
	require.InDelta(t, 0.909, dio.Current(), 0.01)
}

// Linear circuits converge in exactly one Newton iteration.
func TestLinearCircuitConvergesInOneIteration(t *testing.T) {
	v := element.NewVoltageSource("V1", 1, 0, 5.0)
	r1 := element.NewResistor("R1", 1, 2, 4.0)
	r2 := element.NewResistor("R2", 2, 0, 1.0)

	nl := netlist.New().Add(v).Add(r1).Add(r2)
	d := solver.New(nl)

	require.NoError(t, d.Step(0.001))
	require.Equal(t, 1, d.Iterations())

	require.NoError(t, d.Step(0.001))
	require.Equal(t, 1, d.Iterations())
}

// KCL: currents leaving a node via its incident elements sum to zero.
func TestKCLHoldsAtEveryNonGroundNode(t *testing.T) {
	v := element.NewVoltageSource("V1", 1, 0, 5.0)
	r1 := element.NewResistor("R1", 1, 2, 4.0)
	r2 := element.NewResistor("R2", 2, 0, 1.0)

	nl := netlist.New().Add(v).Add(r1).Add(r2)
	d := solver.New(nl)
	require.NoError(t, d.Step(0.001))

	// Node 1: current out through R1 must equal current supplied by V1.
	require.InDelta(t, v.Current(), r1.Current(), 1e-6)
	// Node 2: current into R1 equals current out through R2.
	require.InDelta(t, r1.Current(), r2.Current(), 1e-6)
}

// Element law: resistor Ohm's law and voltage-source constraint hold
// to high precision after a converged solve.
func TestElementLawsHoldAfterSolve(t *testing.T) {
	v := element.NewVoltageSource("V1", 1, 0, 5.0)
	r1 := element.NewResistor("R1", 1, 2, 4.0)
	r2 := element.NewResistor("R2", 2, 0, 1.0)

	nl := netlist.New().Add(v).Add(r1).Add(r2)
	d := solver.New(nl)
	require.NoError(t, d.Step(0.001))

	require.InDelta(t, 0, r1.Voltage()-4.0*r1.Current(), 1e-6)
	require.InDelta(t, 0, r2.Voltage()-1.0*r2.Current(), 1e-6)
	require.InDelta(t, 0, v.Voltage()-5.0, 1e-6)
}

// Ground fixed: querying node 0 always returns exactly 0.
func TestGroundNodeVoltageIsAlwaysZero(t *testing.T) {
	v := element.NewVoltageSource("V1", 1, 0, 5.0)
	r := element.NewResistor("R1", 1, 0, 1.0)
	nl := netlist.New().Add(v).Add(r)
	d := solver.New(nl)

	require.NoError(t, d.Step(0.001))
	require.Equal(t, 0.0, d.NodeVoltage(0))
	require.Equal(t, 0.0, d.NodeVoltage(-1))
}

// Determinism: two solves on equal netlists with equal dt produce
// bitwise-equal states.
func TestDeterminism(t *testing.T) {
	build := func() (*solver.Driver, *element.Resistor) {
		v := element.NewVoltageSource("V1", 1, 0, 5.0)
		r1 := element.NewResistor("R1", 1, 2, 4.0)
		r2 := element.NewResistor("R2", 2, 0, 1.0)
		nl := netlist.New().Add(v).Add(r1).Add(r2)
		return solver.New(nl), r1
	}

	d1, r1a := build()
	d2, r1b := build()

	require.NoError(t, d1.Step(0.001))
	require.NoError(t, d2.Step(0.001))

	require.Equal(t, r1a.Voltage(), r1b.Voltage())
	require.Equal(t, r1a.Current(), r1b.Current())
	require.Equal(t, d1.NodeVoltage(1), d2.NodeVoltage(1))
}

// Energy: capacitor stored-energy change matches the integral of v*I
// to Backward Euler accuracy over one step.
func TestCapacitorEnergyBalance(t *testing.T) {
	v := element.NewVoltageSource("V1", 1, 0, 1.0)
	r := element.NewResistor("R1", 1, 2, 1000.0)
	c := element.NewCapacitor("C1", 2, 0, 0.001, 0)
	nl := netlist.New().Add(v).Add(r).Add(c)
	d := solver.New(nl)

	dt := 0.001
	vBefore := c.Voltage()
	require.NoError(t, d.Step(dt))
	vAfter := c.Voltage()
	iAfter := c.Current()

	energyDelta := 0.5 * 0.001 * (vAfter*vAfter - vBefore*vBefore)
	workDone := vAfter * iAfter * dt
	require.InDelta(t, energyDelta, workDone, math.Abs(energyDelta)*0.05+1e-9)
}

// Boundary: empty netlist is a no-op.
func TestEmptyNetlistIsNoOp(t *testing.T) {
	nl := netlist.New()
	d := solver.New(nl)
	require.NoError(t, d.Step(0.001))
}

// Boundary: a voltage source shorted across itself produces SingularMatrix.
func TestVoltageSourceShortIsSingular(t *testing.T) {
	v := element.NewVoltageSource("V1", 1, 1, 5.0)
	nl := netlist.New().Add(v)
	d := solver.New(nl)

	err := d.Step(0.001)
	require.Error(t, err)
	var singular *solver.SingularMatrixError
	require.True(t, errors.As(err, &singular))
}

// Boundary: two voltage sources in series to ground solve cleanly.
func TestTwoVoltageSourcesInSeries(t *testing.T) {
	v1 := element.NewVoltageSource("V1", 1, 2, 3.0)
	v2 := element.NewVoltageSource("V2", 2, 0, 2.0)
	r := element.NewResistor("R1", 1, 0, 100.0)

	nl := netlist.New().Add(v1).Add(v2).Add(r)
	d := solver.New(nl)

	require.NoError(t, d.Step(0.001))
	require.InDelta(t, 5.0, d.NodeVoltage(1), 1e-6)
	require.InDelta(t, 2.0, d.NodeVoltage(2), 1e-6)
}

// Boundary: an invalid netlist (non-positive resistance) is rejected
// before any solve is attempted.
func TestInvalidNetlistRejectsNonPositiveResistance(t *testing.T) {
	v := element.NewVoltageSource("V1", 1, 0, 5.0)
	r := element.NewResistor("R1", 1, 0, -1.0)
	nl := netlist.New().Add(v).Add(r)
	d := solver.New(nl)

	err := d.Step(0.001)
	require.Error(t, err)
	var invalid *solver.InvalidNetlistError
	require.True(t, errors.As(err, &invalid))
}
