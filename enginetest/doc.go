// Package enginetest provides an in-memory engine for tests that need
// real analysis results without a native library on disk.
//
// # Fidelity
//
// The engine implements the full call surface with the same reference
// numbering, ground merging, validation rules, and error shapes as a
// loaded library. Analog analysis solves the DC operating point:
// resistors conduct, DC sources and closed switches enforce their
// voltages and carry branch currents, and everything else reads as open.
// Branch current follows the delivered convention, positive out of the
// element's first pin, so a battery driving a load reads positive.
//
// Digital elements propagate in insertion order until levels stop
// changing, capped so feedback loops terminate. Clocked elements hold
// their state through analysis and move only on an explicit clock step,
// matching how the native engine separates analysis from clocking.
//
// # Failure injection
//
// FailCreate, FailAddElement, and FailAnalyze make specific calls fail
// with chosen statuses, which is how callers exercise rollback and
// error-mapping paths deterministically. Counters (Created, Destroyed,
// Live, AnalyzeCalls, ClockCalls, Closes) observe lifecycle traffic.
//
// # Registry use
//
// Loader plugs the engine into a binding registry, so the complete
// acquire, share, and release flow runs against in-memory state.
package enginetest
