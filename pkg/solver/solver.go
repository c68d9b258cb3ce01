// Package solver drives a netlist through backward-Euler transient
// steps, assembling and solving the MNA system once per timestep with
// Newton-Raphson iteration for the netlist's nonlinear elements.
package solver

import (
	"math"

	"github.com/kesslern/mnacore/pkg/matrix"
	"github.com/kesslern/mnacore/pkg/netlist"
)

// ConvergenceTolerance is the maximum relative change, between two
// successive Newton iterates, below which the solution is accepted.
const ConvergenceTolerance = 1e-4

// MaxIterations bounds Newton-Raphson iteration per timestep.
const MaxIterations = 1000

// absEpsilon guards the relative-change check against division by
// values close to zero, falling back to an absolute comparison there.
const absEpsilon = 1e-12

// Driver owns a netlist and the persistent system matrix used to solve
// it one timestep at a time. It is not safe for concurrent use on the
// same netlist.
type Driver struct {
	nl        *netlist.Netlist
	sys       *matrix.System
	offsets   []int
	numNodes  int
	numAux    int
	validated  bool
	time       float64
	iterations int
}

// New builds a driver around nl. The netlist's shape (node and
// auxiliary variable count) is fixed at this point; adding components
// to nl afterward and calling Step again rebuilds the system.
func New(nl *netlist.Netlist) *Driver {
	d := &Driver{nl: nl}
	d.rebuild()
	return d
}

func (d *Driver) rebuild() {
	d.numNodes = d.nl.NumNodes()
	offsets := make([]int, len(d.nl.Components()))
	offset := d.numNodes
	for i, c := range d.nl.Components() {
		offsets[i] = offset
		offset += c.NumAuxiliary()
	}
	d.offsets = offsets
	d.numAux = offset - d.numNodes
	d.sys = matrix.NewSystem(d.numNodes, d.numAux)
}

// Time returns the simulation time of the last successfully solved step.
func (d *Driver) Time() float64 { return d.time }

// Iterations returns the number of Newton iterations the last
// successful Step took to converge. Circuits with no nonlinear
// elements always report 1.
func (d *Driver) Iterations() int { return d.iterations }

// NodeVoltage returns the last-solved voltage at node, 0 for ground or
// an out-of-range node.
func (d *Driver) NodeVoltage(node int) float64 {
	if node <= 0 || node > d.numNodes {
		return 0
	}
	x := d.sys.X()
	if node-1 >= len(x) {
		return 0
	}
	return x[node-1]
}

// Step advances the circuit by one backward-Euler timestep of size dt,
// solving the nonlinear system via Newton-Raphson and then calling
// Update on every component so their reported Voltage/Current reflect
// the newly solved operating point.
func (d *Driver) Step(dt float64) error {
	if !d.validated {
		for _, c := range d.nl.Components() {
			if err := c.Validate(); err != nil {
				return NewInvalidNetlistError(err)
			}
		}
		d.validated = true
	}

	if d.nl.NumNodes() != d.numNodes || d.nl.NumAuxiliary() != d.numAux ||
		len(d.offsets) != len(d.nl.Components()) {
		d.rebuild()
	}

	// Prime the loop with one unconstrained assembly+solve from whatever
	// operating point the system currently holds (the previous step's
	// converged state, or all-zero on the very first step). For stamps
	// that don't depend on x -- every element but the diode -- this
	// primed solution is already the fixed point, so the first counted
	// iteration below immediately sees zero change and exits: linear
	// circuits converge in exactly one Newton iteration. Nonlinear
	// stamps keep iterating against the moving companion model.
	xCur, err := d.assembleAndSolve(dt)
	if err != nil {
		return err
	}
	d.sys.SetX(xCur)

	var lastX []float64
	iterations := 0
	converged := false

	for iterations = 1; iterations <= MaxIterations; iterations++ {
		xNext, err := d.assembleAndSolve(dt)
		if err != nil {
			return err
		}

		tol := relativeChange(xCur, xNext)
		d.sys.SetX(xNext)
		xCur = xNext
		lastX = xNext

		if tol < ConvergenceTolerance {
			converged = true
			break
		}
	}

	if !converged {
		return NewNonConvergenceError(iterations-1, lastX)
	}
	d.iterations = iterations

	for i, c := range d.nl.Components() {
		op := d.sys.OperatingPointView(d.offsets[i], c.NumAuxiliary())
		c.Update(op, dt)
	}

	d.time += dt
	return nil
}

// assembleAndSolve zeroes A and b, stamps every component against the
// system's current operating point, and solves once.
func (d *Driver) assembleAndSolve(dt float64) ([]float64, error) {
	d.sys.Clear()

	for i, c := range d.nl.Components() {
		asm := d.sys.AssemblyView(d.offsets[i], c.NumAuxiliary())
		op := d.sys.OperatingPointView(d.offsets[i], c.NumAuxiliary())
		c.Stamp(asm, op, dt)
	}

	x, err := d.sys.Solve()
	if err != nil {
		return nil, NewSingularMatrixError(err)
	}
	return x, nil
}

// relativeChange returns the largest relative difference between
// corresponding entries of cur and next, normalized against the new
// iterate (next), falling back to an absolute difference where next is
// near zero. An empty system (no unknowns) is reported as already
// converged.
func relativeChange(cur, next []float64) float64 {
	if len(next) == 0 {
		return 0
	}
	if len(cur) != len(next) {
		cur = make([]float64, len(next))
	}

	max := 0.0
	for i, n := range next {
		c := cur[i]
		diff := math.Abs(n - c)

		var rel float64
		if math.Abs(n) > absEpsilon {
			rel = diff / math.Abs(n)
		} else {
			rel = diff
		}
		if rel > max {
			max = rel
		}
	}
	return max
}
