// Package errors provides structured error types for the Phy-Engine bridge.
//
// Errors are categorized by Phase (where in the bridge the error occurred)
// and Kind (failure class). The Error type carries the diagnostic context
// the failure class needs: paths attempted during resolution, the offending
// element and ModelID, missing ABI symbols, or the native status code.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseLoad, errors.KindBinding).
//		Path("/opt/native/libphyengine.so").
//		Detail("version probe returned %d, want %d", got, want).
//		Build()
//
// Or use convenience constructors for the common patterns:
//
//	err := errors.NotAvailable("no engine library found", attempted)
//	err := errors.UnsupportedElement("B1", "Buzzer")
//	err := errors.FromStatus(errors.PhaseAnalyze, "circuit_analyze", status)
//
// All errors implement the standard error interface and support errors.Is
// matching by Phase and Kind, with zero target fields acting as wildcards.
// Nothing here is retried automatically; every failure is surfaced once,
// typed, to the caller.
package errors
