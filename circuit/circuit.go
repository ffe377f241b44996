package circuit

import "fmt"

// ModelID discriminates a component's kind. The values double as the
// engine type-table keys, so they are part of the bridge contract.
type ModelID string

const (
	Ground         ModelID = "Ground Component"
	Resistor       ModelID = "Resistor"
	BasicCapacitor ModelID = "Basic Capacitor"
	BasicInductor  ModelID = "Basic Inductor"
	BatterySource  ModelID = "Battery Source"
	SimpleSwitch   ModelID = "Simple Switch"
	PushSwitch     ModelID = "Push Switch"
	AirSwitch      ModelID = "Air Switch"
	Transformer    ModelID = "Transformer"
	MutualInductor ModelID = "Mutual Inductor"
	Rectifier      ModelID = "Rectifier"
	LogicInput     ModelID = "Logic Input"
	LogicOutput    ModelID = "Logic Output"
	OrGate         ModelID = "Or Gate"
	YesGate        ModelID = "Yes Gate"
	AndGate        ModelID = "And Gate"
	NoGate         ModelID = "No Gate"
	XorGate        ModelID = "Xor Gate"
	XnorGate       ModelID = "Xnor Gate"
	NandGate       ModelID = "Nand Gate"
	NorGate        ModelID = "Nor Gate"
	ImpGate        ModelID = "Imp Gate"
	NimpGate       ModelID = "Nimp Gate"
	HalfAdder      ModelID = "Half Adder"
	FullAdder      ModelID = "Full Adder"
	HalfSubtractor ModelID = "Half Subtractor"
	FullSubtractor ModelID = "Full Subtractor"
	Multiplier     ModelID = "Multiplier"
	DFlipflop      ModelID = "D Flipflop"
	TFlipflop      ModelID = "T Flipflop"
	RealTFlipflop  ModelID = "Real-T Flipflop"
	JKFlipflop     ModelID = "JK Flipflop"
)

// Parameter keys shared by constructors, the netlist format, and the
// engine mapping tables.
const (
	KeyResistance  = "resistance"
	KeyCapacitance = "capacitance"
	KeyInductance  = "inductance"
	KeyVoltage     = "voltage"
	KeyClosed      = "closed"
	KeyRatio       = "ratio"
	KeyInductance1 = "inductance1"
	KeyInductance2 = "inductance2"
	KeyCoupling    = "coupling"
	KeyState       = "state"
)

// Element is one circuit component: identity, kind, an ordered named pin
// list, and kind-specific parameters. Elements are never mutated once added
// to a graph; the analysis layer reads them and writes nothing back.
type Element struct {
	id     string
	model  ModelID
	pins   []string
	params map[string]float64
}

// New builds an element from raw parts. The constructors in this package
// cover every supported kind; New exists for models the constructors do not
// wrap and for tests that need deliberately malformed elements.
func New(id string, model ModelID, pinNames []string, params map[string]float64) *Element {
	e := &Element{
		id:     id,
		model:  model,
		pins:   append([]string(nil), pinNames...),
		params: make(map[string]float64, len(params)),
	}
	for k, v := range params {
		e.params[k] = v
	}
	return e
}

// ID returns the element's identity within its graph.
func (e *Element) ID() string { return e.id }

// Model returns the component-kind discriminator.
func (e *Element) Model() ModelID { return e.model }

// PinCount returns the number of declared pins.
func (e *Element) PinCount() int { return len(e.pins) }

// PinName returns the declared name of pin i.
func (e *Element) PinName(i int) string { return e.pins[i] }

// Pin returns pin i in declaration order. It panics when i is out of
// range, the same way a slice index would.
func (e *Element) Pin(i int) Pin {
	if i < 0 || i >= len(e.pins) {
		panic(fmt.Sprintf("circuit: element %s has no pin %d (pins: %d)", e.id, i, len(e.pins)))
	}
	return Pin{element: e, index: i}
}

// NamedPin looks a pin up by its declared name.
func (e *Element) NamedPin(name string) (Pin, bool) {
	for i, n := range e.pins {
		if n == name {
			return Pin{element: e, index: i}, true
		}
	}
	return Pin{}, false
}

// Param returns the named parameter and whether it is set.
func (e *Element) Param(key string) (float64, bool) {
	v, ok := e.params[key]
	return v, ok
}

// Pin addresses one terminal of an element.
type Pin struct {
	element *Element
	index   int
}

// Element returns the owning element.
func (p Pin) Element() *Element { return p.element }

// Index returns the pin's position in the element's declared order.
func (p Pin) Index() int { return p.index }

// Valid reports whether the pin addresses a real terminal.
func (p Pin) Valid() bool {
	return p.element != nil && p.index >= 0 && p.index < p.element.PinCount()
}

func (p Pin) String() string {
	if p.element == nil {
		return "<nil pin>"
	}
	return fmt.Sprintf("%s.%s", p.element.id, p.element.pins[p.index])
}

// Wire joins two pins into one electrical node.
type Wire struct {
	A, B Pin
}

// Graph is an ordered collection of elements and the wires between them.
// Iteration order is insertion order everywhere; nothing here depends on
// map ordering, so a fixed build sequence always produces the same graph.
type Graph struct {
	elements []*Element
	index    map[string]*Element
	wires    []Wire
}

// NewGraph returns an empty graph.
func NewGraph() *Graph {
	return &Graph{index: make(map[string]*Element)}
}

// Add appends elements in order. Identities must be unique within the graph.
func (g *Graph) Add(elems ...*Element) error {
	for _, e := range elems {
		if e == nil {
			return fmt.Errorf("circuit: nil element")
		}
		if e.id == "" {
			return fmt.Errorf("circuit: element with empty id")
		}
		if _, dup := g.index[e.id]; dup {
			return fmt.Errorf("circuit: duplicate element id %q", e.id)
		}
		g.index[e.id] = e
		g.elements = append(g.elements, e)
	}
	return nil
}

// Connect wires two pins together. Both pins must belong to elements
// already in the graph.
func (g *Graph) Connect(a, b Pin) error {
	for _, p := range []Pin{a, b} {
		if !p.Valid() {
			return fmt.Errorf("circuit: invalid pin %v", p)
		}
		if g.index[p.element.id] != p.element {
			return fmt.Errorf("circuit: pin %v belongs to an element outside this graph", p)
		}
	}
	g.wires = append(g.wires, Wire{A: a, B: b})
	return nil
}

// Element looks an element up by identity.
func (g *Graph) Element(id string) (*Element, bool) {
	e, ok := g.index[id]
	return e, ok
}

// Elements returns the elements in insertion order. The slice is shared;
// callers must not modify it.
func (g *Graph) Elements() []*Element { return g.elements }

// Wires returns the wires in insertion order. The slice is shared; callers
// must not modify it.
func (g *Graph) Wires() []Wire { return g.wires }
