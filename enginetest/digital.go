package enginetest

import (
	phyengine "github.com/physicslab/phyengine-go"
)

// maxSettleSweeps bounds combinational propagation so feedback loops
// (cross-coupled gates) terminate instead of oscillating forever.
const maxSettleSweeps = 64

// driveLogicInputs asserts every logic input's configured level onto its
// output net before propagation starts.
func (c *circuitState) driveLogicInputs() {
	for _, el := range c.elements {
		if el.code == phyengine.CodeLogicInput {
			c.setLevel(el.pins[0], el.params[0] != 0)
		}
	}
}

// settle sweeps combinational logic until no net changes level. Clocked
// element outputs reflect stored state only; state itself moves in
// clockStep.
func (c *circuitState) settle() {
	for i := 0; i < maxSettleSweeps; i++ {
		if !c.sweep() {
			return
		}
	}
}

// sweep evaluates every driving element once, in insertion order, and
// reports whether any output net changed.
func (c *circuitState) sweep() bool {
	changed := false
	for _, el := range c.elements {
		outs, ok := el.eval(c)
		if !ok {
			continue
		}
		for j, v := range outs {
			key := el.pins[j]
			if c.getLevel(key) != v {
				c.setLevel(key, v)
				changed = true
			}
		}
	}
	return changed
}

func (c *circuitState) getLevel(key int) bool {
	return c.level[c.nets.find(key)]
}

func (c *circuitState) setLevel(key int, v bool) {
	c.level[c.nets.find(key)] = v
}

// eval computes the element's output levels in native pin order, pins 0
// through outputs-1. Elements that drive nothing report false.
func (el *element) eval(c *circuitState) ([]bool, bool) {
	in := func(pin int) bool { return c.getLevel(el.pins[pin]) }

	switch el.code {
	case phyengine.CodeLogicInput:
		return []bool{el.params[0] != 0}, true
	case phyengine.CodeYesGate:
		return []bool{in(1)}, true
	case phyengine.CodeNoGate:
		return []bool{!in(1)}, true
	case phyengine.CodeOrGate:
		return []bool{in(1) || in(2)}, true
	case phyengine.CodeAndGate:
		return []bool{in(1) && in(2)}, true
	case phyengine.CodeXorGate:
		return []bool{in(1) != in(2)}, true
	case phyengine.CodeXnorGate:
		return []bool{in(1) == in(2)}, true
	case phyengine.CodeNandGate:
		return []bool{!(in(1) && in(2))}, true
	case phyengine.CodeNorGate:
		return []bool{!(in(1) || in(2))}, true
	case phyengine.CodeImpGate:
		return []bool{!in(1) || in(2)}, true
	case phyengine.CodeNimpGate:
		return []bool{in(1) && !in(2)}, true

	case phyengine.CodeHalfAdder:
		a, b := in(2), in(3)
		return []bool{a != b, a && b}, true
	case phyengine.CodeFullAdder:
		a, b, cin := in(2), in(3), in(4)
		return []bool{(a != b) != cin, (a && b) || (cin && (a != b))}, true
	case phyengine.CodeHalfSubtractor:
		a, b := in(2), in(3)
		return []bool{a != b, !a && b}, true
	case phyengine.CodeFullSubtractor:
		a, b, bin := in(2), in(3), in(4)
		return []bool{(a != b) != bin, (!a && b) || ((a == b) && bin)}, true
	case phyengine.CodeMultiplier:
		a := bit(in(4))<<1 | bit(in(5))
		b := bit(in(6))<<1 | bit(in(7))
		p := a * b
		return []bool{p&8 != 0, p&4 != 0, p&2 != 0, p&1 != 0}, true

	case phyengine.CodeDFlipflop, phyengine.CodeTFlipflop,
		phyengine.CodeRealTFlipflop, phyengine.CodeJKFlipflop:
		return []bool{el.state, !el.state}, true
	}
	return nil, false
}

func bit(b bool) int {
	if b {
		return 1
	}
	return 0
}

// clockStep advances clocked elements by one step. Edge-triggered types
// react to a low-to-high transition on their clock pin between steps;
// the real toggle flipflop treats every step as an edge while its input
// holds high. Stored state changes here; output nets catch up on the
// next settle, so every element samples pre-step levels.
func (c *circuitState) clockStep() {
	for _, el := range c.elements {
		switch el.code {
		case phyengine.CodeDFlipflop:
			clk := c.getLevel(el.pins[3])
			if clk && !el.prevClk {
				el.state = c.getLevel(el.pins[2])
			}
			el.prevClk = clk
		case phyengine.CodeTFlipflop:
			clk := c.getLevel(el.pins[3])
			if clk && !el.prevClk && c.getLevel(el.pins[2]) {
				el.state = !el.state
			}
			el.prevClk = clk
		case phyengine.CodeRealTFlipflop:
			if c.getLevel(el.pins[2]) {
				el.state = !el.state
			}
		case phyengine.CodeJKFlipflop:
			clk := c.getLevel(el.pins[3])
			if clk && !el.prevClk {
				j, k := c.getLevel(el.pins[2]), c.getLevel(el.pins[4])
				switch {
				case j && k:
					el.state = !el.state
				case j:
					el.state = true
				case k:
					el.state = false
				}
			}
			el.prevClk = clk
		}
	}
}
