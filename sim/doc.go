// Package sim realizes circuit graphs inside an engine and reads the
// results back out.
//
// # Lifecycle
//
// New translates a graph, acquires an engine, and builds the native
// circuit in one step, returning a built Circuit or nothing at all: a
// failure anywhere in construction destroys the partial native circuit
// and releases the binding first. Analyze runs any number of times
// against the built circuit; Close destroys it exactly once. After
// Close, only another Close is legal.
//
// # Engines
//
// By default a circuit resolves its engine through the library search
// order and shares it through the process-wide registry. Tests and
// embedded uses inject their own: WithRegistry swaps the sharing layer,
// WithBinding bypasses resolution with an already-loaded engine that
// the caller continues to own.
//
// # Results
//
// Every analysis returns a Sample, a plain snapshot keyed by element
// identity with values in object-model pin order. Samples copy
// everything out of the engine, so they outlive their circuit.
package sim
