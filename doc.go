// Package phyengine defines the boundary contract to the Phy-Engine circuit
// solver: the typed entry-point surface (ABI), opaque handles, analysis
// kinds, engine status codes, and the analysis request shape.
//
// The root package carries no behavior. Loading an engine, translating a
// circuit graph, and running analyses live in the subpackages.
//
// # Architecture Overview
//
//	phyengine/           Root package with the ABI contract and plain types
//	├── circuit/         Circuit object model: elements, pins, wires, graph
//	├── engine/          Library resolution and the two ABI backends
//	│                    (shared library via purego, WebAssembly via wazero)
//	├── mapper/          Graph -> native element layout and merge plan
//	├── sim/             Circuit lifecycle, analysis, result snapshots
//	├── netlist/         Text netlist format -> circuit graph + directive
//	├── enginetest/      In-memory reference engine for tests and offline use
//	├── errors/          Structured error types for every failure class
//	└── cmd/phyrun/      CLI: analyze, resolve, elements, inspect
//
// # Quick Start
//
// Build a graph, run one DC analysis against the engine found on this
// machine, and read per-pin results:
//
//	g := circuit.NewGraph()
//	src := circuit.NewBatterySource("V1", 5)
//	r := circuit.NewResistor("R1", 1000)
//	gnd := circuit.NewGround("G0")
//	g.Add(src, r, gnd)
//	g.Connect(src.Pin(0), r.Pin(0))
//	g.Connect(src.Pin(1), r.Pin(1))
//	g.Connect(r.Pin(1), gnd.Pin(0))
//
//	sample, err := sim.Analyze(g, phyengine.Request{Kind: phyengine.KindDC})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(sample.PinVoltage["R1"]) // [5 0]
//
// For repeated analyses against one circuit, construct a sim.Circuit and
// close it when done:
//
//	c, err := sim.New(g)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer c.Close()
//	sample, err := c.Analyze(phyengine.Request{Kind: phyengine.KindTR, TRStep: 1e-6, TRStop: 1e-3})
//
// # Engine Discovery
//
// The engine file is located by an ordered search: an explicit path option,
// the PHYSICSLAB_PHYENGINE_LIB environment variable, the native/ install
// directory, then the engine project's own build directories. Shared
// libraries and WebAssembly builds of the engine are interchangeable; the
// loader picks the backend by content.
//
// # Thread Safety
//
// A loaded ABI is immutable and safe to share across goroutines. A
// sim.Circuit owns one native handle and is NOT safe for concurrent use;
// run parallel analyses by constructing independent circuits. Native calls
// block and cannot be cancelled once issued, which is why no API here takes
// a context.
package phyengine
