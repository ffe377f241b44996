package enginetest

import (
	"math"

	phyengine "github.com/physicslab/phyengine-go"
)

// gmin leaks every analog node to ground so floating subcircuits stay
// solvable instead of making the system singular.
const gmin = 1e-12

// analog reports whether a code takes part in the nodal solve. Analog
// codes with no stamp (capacitor, inductor, transformer, coupled
// inductors, rectifier) still pin their nets into the system; they read
// as open at the operating point.
func analog(code phyengine.ElementCode) bool {
	return !code.Digital()
}

// solveAnalog computes the DC operating point: node voltages for every
// analog net plus branch currents through sources and closed switches.
//
// Unknowns are node voltages followed by active branch currents. A
// source's branch current is the current it delivers out of its first
// pin, so a battery driving a load reads positive.
func (c *circuitState) solveAnalog() phyengine.Status {
	// Index non-ground nets reachable from analog pins, in first-use order.
	index := make(map[int]int)
	var order []int
	for _, el := range c.elements {
		if !analog(el.code) {
			continue
		}
		for _, key := range el.pins {
			root := c.nets.find(key)
			if root == 0 {
				continue
			}
			if _, ok := index[root]; !ok {
				index[root] = len(order)
				order = append(order, root)
			}
		}
	}

	// Active branches: DC sources always, switches only when closed.
	// Both carry a single branch, so the current lands in branch[0].
	type branchRef struct {
		el      *element
		red     int
		black   int
		voltage float64
	}
	var branches []branchRef
	for _, el := range c.elements {
		for i := range el.branch {
			el.branch[i] = 0
		}
		switch el.code {
		case phyengine.CodeVoltageDC:
			branches = append(branches, branchRef{
				el:      el,
				red:     c.nets.find(el.pins[0]),
				black:   c.nets.find(el.pins[1]),
				voltage: el.params[0],
			})
		case phyengine.CodeSwitch:
			if el.params[0] != 0 {
				branches = append(branches, branchRef{
					el:    el,
					red:   c.nets.find(el.pins[0]),
					black: c.nets.find(el.pins[1]),
				})
			}
		}
	}

	nodes := len(order)
	n := nodes + len(branches)
	c.voltage = make(map[int]float64, nodes)
	if n == 0 {
		return phyengine.StatusOK
	}

	a := make([][]float64, n)
	for i := range a {
		a[i] = make([]float64, n)
	}
	rhs := make([]float64, n)

	at := func(root int) (int, bool) {
		if root == 0 {
			return 0, false
		}
		i, ok := index[root]
		return i, ok
	}

	for _, el := range c.elements {
		if el.code != phyengine.CodeResistor {
			continue
		}
		r := el.params[0]
		if r <= 0 {
			return phyengine.StatusInvalidParameter
		}
		g := 1 / r
		ra, oka := at(c.nets.find(el.pins[0]))
		rb, okb := at(c.nets.find(el.pins[1]))
		if oka {
			a[ra][ra] += g
			if okb {
				a[ra][rb] -= g
			}
		}
		if okb {
			a[rb][rb] += g
			if oka {
				a[rb][ra] -= g
			}
		}
	}
	for i := 0; i < nodes; i++ {
		a[i][i] += gmin
	}

	for k, br := range branches {
		row := nodes + k
		if ir, ok := at(br.red); ok {
			a[ir][row] -= 1
			a[row][ir] += 1
		}
		if ib, ok := at(br.black); ok {
			a[ib][row] += 1
			a[row][ib] -= 1
		}
		rhs[row] = br.voltage
	}

	x, ok := gaussianSolve(a, rhs)
	if !ok {
		return phyengine.StatusNoConvergence
	}

	for i, root := range order {
		c.voltage[root] = x[i]
	}
	for k, br := range branches {
		br.el.branch[0] = x[nodes+k]
	}
	return phyengine.StatusOK
}

// gaussianSolve runs in-place elimination with partial pivoting. A pivot
// collapsing to zero means the system has no unique solution.
func gaussianSolve(a [][]float64, b []float64) ([]float64, bool) {
	n := len(b)
	for col := 0; col < n; col++ {
		p := col
		for r := col + 1; r < n; r++ {
			if math.Abs(a[r][col]) > math.Abs(a[p][col]) {
				p = r
			}
		}
		if math.Abs(a[p][col]) < 1e-30 {
			return nil, false
		}
		a[col], a[p] = a[p], a[col]
		b[col], b[p] = b[p], b[col]

		piv := a[col][col]
		for r := col + 1; r < n; r++ {
			f := a[r][col] / piv
			if f == 0 {
				continue
			}
			for k := col; k < n; k++ {
				a[r][k] -= f * a[col][k]
			}
			b[r] -= f * b[col]
		}
	}

	x := make([]float64, n)
	for r := n - 1; r >= 0; r-- {
		sum := b[r]
		for k := r + 1; k < n; k++ {
			sum -= a[r][k] * x[k]
		}
		x[r] = sum / a[r][r]
	}
	return x, true
}
