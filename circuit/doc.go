// Package circuit is the object model the bridge consumes: elements with
// ordered named pins, wires joining pins, and a graph holding both in
// insertion order.
//
// The model is deliberately inert. It knows component kinds and their
// parameters but nothing about the engine; translation into engine terms
// happens in the mapper package, and the bridge never writes results back
// into a graph.
//
// Build a graph with the typed constructors and Connect:
//
//	g := circuit.NewGraph()
//	v := circuit.NewBatterySource("V1", 5)
//	r := circuit.NewResistor("R1", 1000)
//	gnd := circuit.NewGround("G0")
//	if err := g.Add(v, r, gnd); err != nil { ... }
//	g.Connect(v.Pin(0), r.Pin(0))
//	g.Connect(v.Pin(1), r.Pin(1))
//	g.Connect(r.Pin(1), gnd.Pin(0))
//
// Wiring the same pair twice, or wiring transitively (A-B then B-C), is
// harmless: connectivity is resolved into pin groups during mapping.
package circuit
