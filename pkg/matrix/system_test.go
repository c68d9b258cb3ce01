package matrix_test

import (
	"testing"

	"github.com/kesslern/mnacore/pkg/matrix"
	"github.com/stretchr/testify/require"
)

func TestSystemSolveSingleResistorAcrossVoltageSource(t *testing.T) {
	// V(1,0)=10, R(1,0)=2: dim = 1 node + 1 aux = 2.
	sys := matrix.NewSystem(1, 1)
	asm := sys.AssemblyView(1, 1)

	g := 1.0 / 2.0
	ep := matrix.NodalEquation(1)
	vp := matrix.NodalVoltage(1)
	asm.CoefficientAdd(ep, vp, g)

	aux := matrix.AuxiliaryVariable(0)
	auxEq := matrix.AuxiliaryEquation(0)
	asm.CoefficientAdd(ep, aux, -1.0)
	asm.CoefficientAdd(auxEq, vp, 1.0)
	asm.ResultAdd(auxEq, 10.0)

	x, err := sys.Solve()
	require.NoError(t, err)
	require.Len(t, x, 2)
	require.InDelta(t, 10.0, x[0], 1e-9)
	require.InDelta(t, 5.0, x[1], 1e-9)
}

func TestSystemSolveSingularReturnsWrappedError(t *testing.T) {
	sys := matrix.NewSystem(2, 0)
	// Leave A entirely zero: guaranteed singular.
	_, err := sys.Solve()
	require.Error(t, err)
	require.ErrorIs(t, err, matrix.ErrSingular)
}

func TestSystemSolveEmptyIsNoOp(t *testing.T) {
	sys := matrix.NewSystem(0, 0)
	x, err := sys.Solve()
	require.NoError(t, err)
	require.Nil(t, x)
}

func TestOperatingPointViewGroundAlwaysZero(t *testing.T) {
	sys := matrix.NewSystem(2, 0)
	sys.SetX([]float64{3.5, -1.2})

	op := sys.OperatingPointView(0, 0)
	require.Equal(t, 0.0, op.GetVariable(matrix.NodalVoltage(0)))
	require.Equal(t, 3.5, op.GetVariable(matrix.NodalVoltage(1)))
	require.Equal(t, -1.2, op.GetVariable(matrix.NodalVoltage(2)))
}

func TestAssemblyViewIgnoresGroundAndOutOfRangeAuxiliary(t *testing.T) {
	sys := matrix.NewSystem(1, 0)
	asm := sys.AssemblyView(1, 0)

	// Ground-referenced coefficients/results must be silently dropped.
	asm.CoefficientAdd(matrix.NodalEquation(0), matrix.NodalVoltage(0), 99.0)
	asm.ResultAdd(matrix.NodalEquation(0), 99.0)

	// Out-of-range auxiliary index (this element declared 0) is dropped too.
	asm.CoefficientAdd(matrix.AuxiliaryEquation(0), matrix.AuxiliaryVariable(0), 99.0)

	asm.CoefficientAdd(matrix.NodalEquation(1), matrix.NodalVoltage(1), 1.0)
	asm.ResultAdd(matrix.NodalEquation(1), 7.0)

	x, err := sys.Solve()
	require.NoError(t, err)
	require.InDelta(t, 7.0, x[0], 1e-9)
}
