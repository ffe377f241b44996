// Package mapper translates a circuit graph into the engine's terms: which
// elements to create, with what type codes and parameters, and which pins
// to merge into shared nodes.
//
// Mapping is pure and deterministic. Elements are visited in the graph's
// insertion order; the first ModelID missing from the static support table
// aborts the whole translation, so nothing partial ever reaches the engine.
// Ground placeholders take a different role during classification: they are
// dropped from the element list and instead mark their wire groups as
// grounded, which turns every pin in those groups into a merge against the
// engine's implicit ground node.
//
// Wires collapse through a union-find into connected pin groups before the
// merge plan is emitted, so duplicate and transitive wiring produce the
// same plan as minimal wiring.
//
// The pin correspondence table lives on each planned element: digital
// elements are declared inputs-first in the object model but indexed
// outputs-first by the engine, and every later readback goes through that
// permutation so callers only ever see object-model pin order.
package mapper
