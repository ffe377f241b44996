package engine

// Symbol names exported by the solver library. Both the shared-library
// and the WebAssembly backend resolve entry points by these names.
const (
	symABIVersion     = "phyengine_abi_version"
	symCreateCircuit  = "create_circuit"
	symDestroyCircuit = "destroy_circuit"
	symAddElement     = "circuit_add_element"
	symConnectPins    = "circuit_connect_pins"
	symAnalyze        = "circuit_analyze"
	symDigitalClk     = "circuit_digital_clk"
	symPinVoltage     = "circuit_pin_voltage"
	symPinDigital     = "circuit_pin_digital"
	symBranchCurrent  = "circuit_branch_current"

	// Scratch allocator, required by the wasm backend only. Out-parameters
	// live in guest memory, so readbacks need a guest-side allocation.
	symMalloc = "malloc"
	symFree   = "free"
)

// requiredSymbols lists every symbol a library must export to be usable.
// Load resolves all of them up front so a broken build surfaces as one
// error naming everything missing instead of failing call by call.
var requiredSymbols = []string{
	symABIVersion,
	symCreateCircuit,
	symDestroyCircuit,
	symAddElement,
	symConnectPins,
	symAnalyze,
	symDigitalClk,
	symPinVoltage,
	symPinDigital,
	symBranchCurrent,
}

// wasmSymbols extends requiredSymbols with the allocator pair the
// WebAssembly backend needs for out-parameter scratch space.
var wasmSymbols = append(append([]string{}, requiredSymbols...), symMalloc, symFree)
