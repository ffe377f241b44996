package circuit

// Constructors for every component kind the engine supports. Pin order here
// is the order results come back in; the names follow the component's
// physical layout (red/black for two-terminal analog parts, i*/o* for
// digital parts, l*/r* for four-terminal parts).

// NewGround returns a ground placeholder. Its single pin aliases the
// implicit ground node; the element itself never reaches the engine.
func NewGround(id string) *Element {
	return New(id, Ground, []string{"i"}, nil)
}

// NewResistor returns a resistor with the given resistance in ohms.
func NewResistor(id string, ohms float64) *Element {
	return New(id, Resistor, []string{"red", "black"}, map[string]float64{KeyResistance: ohms})
}

// NewCapacitor returns a capacitor with the given capacitance in farads.
func NewCapacitor(id string, farads float64) *Element {
	return New(id, BasicCapacitor, []string{"red", "black"}, map[string]float64{KeyCapacitance: farads})
}

// NewInductor returns an inductor with the given inductance in henries.
func NewInductor(id string, henries float64) *Element {
	return New(id, BasicInductor, []string{"red", "black"}, map[string]float64{KeyInductance: henries})
}

// NewBatterySource returns a DC voltage source. Pin "red" is the positive
// terminal.
func NewBatterySource(id string, volts float64) *Element {
	return New(id, BatterySource, []string{"red", "black"}, map[string]float64{KeyVoltage: volts})
}

// NewSwitch returns a simple switch in the given position.
func NewSwitch(id string, closed bool) *Element {
	return New(id, SimpleSwitch, []string{"red", "black"}, map[string]float64{KeyClosed: boolParam(closed)})
}

// NewTransformer returns an ideal transformer with the given primary to
// secondary voltage ratio. The ratio must be non-zero.
func NewTransformer(id string, ratio float64) *Element {
	return New(id, Transformer, []string{"l_up", "l_low", "r_up", "r_low"}, map[string]float64{KeyRatio: ratio})
}

// NewMutualInductor returns two coupled inductors with coupling
// coefficient k in [0, 1].
func NewMutualInductor(id string, l1, l2, k float64) *Element {
	return New(id, MutualInductor, []string{"l_up", "l_low", "r_up", "r_low"}, map[string]float64{
		KeyInductance1: l1,
		KeyInductance2: l2,
		KeyCoupling:    k,
	})
}

// NewRectifier returns a full-bridge rectifier.
func NewRectifier(id string) *Element {
	return New(id, Rectifier, []string{"l_up", "l_low", "r_up", "r_low"}, nil)
}

// NewLogicInput returns a logic source driving its pin to the given state.
func NewLogicInput(id string, on bool) *Element {
	return New(id, LogicInput, []string{"o"}, map[string]float64{KeyState: boolParam(on)})
}

// NewLogicOutput returns a logic probe.
func NewLogicOutput(id string) *Element {
	return New(id, LogicOutput, []string{"i"}, nil)
}

// NewYesGate returns a buffer gate.
func NewYesGate(id string) *Element { return newGate1(id, YesGate) }

// NewNoGate returns an inverter.
func NewNoGate(id string) *Element { return newGate1(id, NoGate) }

// NewOrGate returns a two-input OR gate.
func NewOrGate(id string) *Element { return newGate2(id, OrGate) }

// NewAndGate returns a two-input AND gate.
func NewAndGate(id string) *Element { return newGate2(id, AndGate) }

// NewXorGate returns a two-input XOR gate.
func NewXorGate(id string) *Element { return newGate2(id, XorGate) }

// NewXnorGate returns a two-input XNOR gate.
func NewXnorGate(id string) *Element { return newGate2(id, XnorGate) }

// NewNandGate returns a two-input NAND gate.
func NewNandGate(id string) *Element { return newGate2(id, NandGate) }

// NewNorGate returns a two-input NOR gate.
func NewNorGate(id string) *Element { return newGate2(id, NorGate) }

// NewImpGate returns a two-input implication gate.
func NewImpGate(id string) *Element { return newGate2(id, ImpGate) }

// NewNimpGate returns a two-input non-implication gate.
func NewNimpGate(id string) *Element { return newGate2(id, NimpGate) }

// NewHalfAdder returns a half adder: inputs i_up, i_low; sum o_up,
// carry o_low.
func NewHalfAdder(id string) *Element {
	return New(id, HalfAdder, []string{"i_up", "i_low", "o_up", "o_low"}, nil)
}

// NewFullAdder returns a full adder: inputs i_up, i_mid, i_low (carry in);
// sum o_up, carry o_low.
func NewFullAdder(id string) *Element {
	return New(id, FullAdder, []string{"i_up", "i_mid", "i_low", "o_up", "o_low"}, nil)
}

// NewHalfSubtractor returns a half subtractor: difference o_up, borrow o_low.
func NewHalfSubtractor(id string) *Element {
	return New(id, HalfSubtractor, []string{"i_up", "i_low", "o_up", "o_low"}, nil)
}

// NewFullSubtractor returns a full subtractor with borrow-in i_low.
func NewFullSubtractor(id string) *Element {
	return New(id, FullSubtractor, []string{"i_up", "i_mid", "i_low", "o_up", "o_low"}, nil)
}

// NewMultiplier returns a 2x2-bit multiplier: factor bits on the i pins
// (high to low), product bits on the o pins (high to low).
func NewMultiplier(id string) *Element {
	return New(id, Multiplier, []string{"i_up", "i_upmid", "i_lowmid", "i_low", "o_up", "o_upmid", "o_lowmid", "o_low"}, nil)
}

// NewDFlipflop returns a D flip-flop: data i_up, clock i_low, Q o_up,
// inverted Q o_low.
func NewDFlipflop(id string) *Element {
	return New(id, DFlipflop, []string{"i_up", "i_low", "o_up", "o_low"}, nil)
}

// NewTFlipflop returns a T flip-flop: toggle i_up, clock i_low.
func NewTFlipflop(id string) *Element {
	return New(id, TFlipflop, []string{"i_up", "i_low", "o_up", "o_low"}, nil)
}

// NewRealTFlipflop returns a single-input T flip-flop toggling on every
// clock step its input is high.
func NewRealTFlipflop(id string) *Element {
	return New(id, RealTFlipflop, []string{"i", "o_up", "o_low"}, nil)
}

// NewJKFlipflop returns a JK flip-flop: J i_up, clock i_mid, K i_low.
func NewJKFlipflop(id string) *Element {
	return New(id, JKFlipflop, []string{"i_up", "i_mid", "i_low", "o_up", "o_low"}, nil)
}

func newGate1(id string, m ModelID) *Element {
	return New(id, m, []string{"i", "o"}, nil)
}

func newGate2(id string, m ModelID) *Element {
	return New(id, m, []string{"i_up", "i_low", "o"}, nil)
}

func boolParam(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
