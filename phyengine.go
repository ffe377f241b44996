package phyengine

// ABIVersion is the engine interface revision this package binds against.
// Loaders probe the engine's version export and refuse anything else.
const ABIVersion uint32 = 1

// Handle is an opaque reference to a native circuit allocated by the engine.
// A zero Handle is never valid.
type Handle uintptr

// ElementRef identifies one element inside a native circuit. References are
// assigned by the engine starting at 1; GroundRef is reserved.
type ElementRef int64

// GroundRef is the implicit ground node. Connecting any pin to
// (GroundRef, pin 0) merges it into ground.
const GroundRef ElementRef = 0

// ElementCode is the engine's element type discriminator.
type ElementCode int32

// Element type codes from the engine's type table. Codes at or above
// DigitalCodeBase are digital-capable.
const (
	CodeGround           ElementCode = 0
	CodeResistor         ElementCode = 1
	CodeCapacitor        ElementCode = 2
	CodeInductor         ElementCode = 3
	CodeVoltageDC        ElementCode = 4
	CodeSwitch           ElementCode = 12
	CodeTransformer      ElementCode = 14
	CodeCoupledInductors ElementCode = 15
	CodeRectifier        ElementCode = 54
	CodeLogicInput       ElementCode = 200
	CodeLogicOutput      ElementCode = 201
	CodeOrGate           ElementCode = 202
	CodeYesGate          ElementCode = 203
	CodeAndGate          ElementCode = 204
	CodeNoGate           ElementCode = 205
	CodeXorGate          ElementCode = 206
	CodeXnorGate         ElementCode = 207
	CodeNandGate         ElementCode = 208
	CodeNorGate          ElementCode = 209
	CodeImpGate          ElementCode = 211
	CodeNimpGate         ElementCode = 212
	CodeHalfAdder        ElementCode = 220
	CodeFullAdder        ElementCode = 221
	CodeHalfSubtractor   ElementCode = 222
	CodeFullSubtractor   ElementCode = 223
	CodeMultiplier       ElementCode = 224
	CodeDFlipflop        ElementCode = 225
	CodeTFlipflop        ElementCode = 226
	CodeRealTFlipflop    ElementCode = 227
	CodeJKFlipflop       ElementCode = 228
)

// DigitalCodeBase is the first digital-capable element code.
const DigitalCodeBase ElementCode = 200

// Digital reports whether the code belongs to a digital-capable element.
func (c ElementCode) Digital() bool { return c >= DigitalCodeBase }

// ABI is the fixed entry-point surface of a loaded engine. Implementations
// resolve every entry point up front and are immutable afterwards, so one
// ABI value may be shared read-only by any number of circuits.
//
// Only plain numeric values cross this boundary. Element parameter arrays
// travel with explicit lengths; there are no compound structures.
type ABI interface {
	// CreateCircuit allocates an empty circuit and returns its handle.
	CreateCircuit() (Handle, error)

	// DestroyCircuit releases the circuit and everything it owns. The
	// handle must not be used afterwards.
	DestroyCircuit(h Handle)

	// AddElement appends an element of the given type code with its
	// parameter list and returns the engine's reference for it.
	AddElement(h Handle, code ElementCode, params []float64) (ElementRef, error)

	// ConnectPins merges two pins into one node. Merging is idempotent.
	// Passing GroundRef as either side merges the other pin into ground.
	ConnectPins(h Handle, a ElementRef, aPin int, b ElementRef, bPin int) error

	// Analyze runs one analysis. Unused kind parameters are passed as zero.
	Analyze(h Handle, kind Kind, trStep, trStop, acOmega float64) error

	// DigitalClock advances clocked elements by exactly one step.
	DigitalClock(h Handle) error

	// PinVoltage reads the solved voltage at a pin, in the engine's own
	// pin index space.
	PinVoltage(h Handle, ref ElementRef, pin int) (float64, error)

	// PinDigital reads the logical state at a pin. Engines report false
	// for pins of non-digital elements.
	PinDigital(h Handle, ref ElementRef, pin int) (bool, error)

	// BranchCurrent reads the current through one of the element's branch
	// unknowns. Valid indices are 0..branches-1 per the element's type.
	BranchCurrent(h Handle, ref ElementRef, branch int) (float64, error)
}
