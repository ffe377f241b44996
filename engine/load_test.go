package engine

import (
	"encoding/binary"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	phyengine "github.com/physicslab/phyengine-go"
	"github.com/physicslab/phyengine-go/errors"
)

// The tests below run against a stub solver emitted directly as a wasm
// binary, so the whole wasm call path (instantiation, symbol binding,
// version probe, guest allocation, out-parameter readback) is exercised
// without an external library. The stub reflects its inputs in
// contrived ways so each assertion pins one leg of the marshaling:
//
//	create_circuit        returns handle 16
//	circuit_add_element   returns n_params+1
//	circuit_connect_pins  returns b_pin as its status
//	circuit_analyze       returns trunc(tr_step) as its status
//	circuit_pin_voltage   writes 42.5
//	circuit_pin_digital   writes 1
//	circuit_branch_current writes -0.25
//	malloc                bump allocator from offset 1024

const (
	valI32 = 0x7f
	valI64 = 0x7e
	valF64 = 0x7c
)

func uleb(v uint64) []byte {
	var b []byte
	for {
		c := byte(v & 0x7f)
		v >>= 7
		if v != 0 {
			c |= 0x80
		}
		b = append(b, c)
		if v == 0 {
			return b
		}
	}
}

func sleb(v int64) []byte {
	var b []byte
	for {
		c := byte(v & 0x7f)
		v >>= 7
		if (v == 0 && c&0x40 == 0) || (v == -1 && c&0x40 != 0) {
			return append(b, c)
		}
		b = append(b, c|0x80)
	}
}

func section(id byte, contents []byte) []byte {
	out := append([]byte{id}, uleb(uint64(len(contents)))...)
	return append(out, contents...)
}

func funcType(params, results []byte) []byte {
	out := append([]byte{0x60}, uleb(uint64(len(params)))...)
	out = append(out, params...)
	out = append(out, uleb(uint64(len(results)))...)
	return append(out, results...)
}

func exportEntry(name string, kind byte, idx uint64) []byte {
	out := append(uleb(uint64(len(name))), name...)
	out = append(out, kind)
	return append(out, uleb(idx)...)
}

// body wraps instructions into a code-section entry with no locals.
func body(instrs ...[]byte) []byte {
	flat := []byte{0x00}
	for _, in := range instrs {
		flat = append(flat, in...)
	}
	flat = append(flat, 0x0b)
	return append(uleb(uint64(len(flat))), flat...)
}

// bodyLocals is body with one block of i32 locals.
func bodyLocals(count int, instrs ...[]byte) []byte {
	flat := append([]byte{0x01}, uleb(uint64(count))...)
	flat = append(flat, valI32)
	for _, in := range instrs {
		flat = append(flat, in...)
	}
	flat = append(flat, 0x0b)
	return append(uleb(uint64(len(flat))), flat...)
}

func i32Const(v int32) []byte  { return append([]byte{0x41}, sleb(int64(v))...) }
func i64Const(v int64) []byte  { return append([]byte{0x42}, sleb(v)...) }
func localGet(i uint64) []byte { return append([]byte{0x20}, uleb(i)...) }
func localSet(i uint64) []byte { return append([]byte{0x21}, uleb(i)...) }

func f64Const(v float64) []byte {
	out := []byte{0x44}
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], math.Float64bits(v))
	return append(out, b[:]...)
}

var (
	globalGet0  = []byte{0x23, 0x00}
	globalSet0  = []byte{0x24, 0x00}
	i32Add      = []byte{0x6a}
	i64Add      = []byte{0x7c}
	i32TruncF64 = []byte{0xaa}
	f64Store    = []byte{0x39, 0x03, 0x00}
	i32Store8   = []byte{0x3a, 0x00, 0x00}
)

// buildSolverStub emits a core wasm module exporting the full solver
// entry-point set plus its memory.
func buildSolverStub(abiVersion int32) []byte {
	types := [][]byte{
		funcType(nil, []byte{valI32}),                                      // 0: abi_version, create_circuit
		funcType([]byte{valI32}, nil),                                      // 1: destroy_circuit, free
		funcType([]byte{valI32, valI32, valI32, valI64}, []byte{valI64}),   // 2: add_element
		funcType([]byte{valI32, valI64, valI32, valI64, valI32}, []byte{valI32}), // 3: connect_pins
		funcType([]byte{valI32, valI32, valF64, valF64, valF64}, []byte{valI32}), // 4: analyze
		funcType([]byte{valI32}, []byte{valI32}),                           // 5: digital_clk, malloc
		funcType([]byte{valI32, valI64, valI32, valI32}, []byte{valI32}),   // 6: readbacks
	}
	typeSec := uleb(uint64(len(types)))
	for _, ft := range types {
		typeSec = append(typeSec, ft...)
	}

	funcTypes := []byte{12, 0, 0, 1, 2, 3, 4, 5, 6, 6, 6, 5, 1}

	memSec := []byte{0x01, 0x00, 0x01} // one memory, min 1 page

	globalSec := []byte{0x01, valI32, 0x01} // one mutable i32
	globalSec = append(globalSec, i32Const(1024)...)
	globalSec = append(globalSec, 0x0b)

	exports := [][]byte{
		exportEntry(symABIVersion, 0x00, 0),
		exportEntry(symCreateCircuit, 0x00, 1),
		exportEntry(symDestroyCircuit, 0x00, 2),
		exportEntry(symAddElement, 0x00, 3),
		exportEntry(symConnectPins, 0x00, 4),
		exportEntry(symAnalyze, 0x00, 5),
		exportEntry(symDigitalClk, 0x00, 6),
		exportEntry(symPinVoltage, 0x00, 7),
		exportEntry(symPinDigital, 0x00, 8),
		exportEntry(symBranchCurrent, 0x00, 9),
		exportEntry(symMalloc, 0x00, 10),
		exportEntry(symFree, 0x00, 11),
		exportEntry("memory", 0x02, 0),
	}
	exportSec := uleb(uint64(len(exports)))
	for _, e := range exports {
		exportSec = append(exportSec, e...)
	}

	bodies := [][]byte{
		body(i32Const(abiVersion)),
		body(i32Const(16)),
		body(),
		body(localGet(3), i64Const(1), i64Add),
		body(localGet(4)),
		body(localGet(2), i32TruncF64),
		body(i32Const(0)),
		body(localGet(3), f64Const(42.5), f64Store, i32Const(0)),
		body(localGet(3), i32Const(1), i32Store8, i32Const(0)),
		body(localGet(3), f64Const(-0.25), f64Store, i32Const(0)),
		bodyLocals(1,
			globalGet0, localSet(1),
			globalGet0, localGet(0), i32Add, globalSet0,
			localGet(1)),
		body(),
	}
	codeSec := uleb(uint64(len(bodies)))
	for _, b := range bodies {
		codeSec = append(codeSec, b...)
	}

	mod := []byte{0x00, 0x61, 0x73, 0x6d, 0x01, 0x00, 0x00, 0x00}
	mod = append(mod, section(1, typeSec)...)
	mod = append(mod, section(3, funcTypes)...)
	mod = append(mod, section(5, memSec)...)
	mod = append(mod, section(6, globalSec)...)
	mod = append(mod, section(7, exportSec)...)
	mod = append(mod, section(10, codeSec)...)
	return mod
}

func writeStub(t *testing.T, name string, abiVersion int32) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, buildSolverStub(abiVersion), 0o644); err != nil {
		t.Fatalf("write stub: %v", err)
	}
	return path
}

func TestLoad_FileMissing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "gone.so"))
	if err == nil {
		t.Fatal("Load of a missing file returned nil error")
	}
	if !errors.IsKind(err, errors.KindBinding) {
		t.Errorf("Load error = %v, want kind %v", err, errors.KindBinding)
	}
}

func TestLoad_NativeRejectsGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "libphyengine.so")
	if err := os.WriteFile(path, []byte("not a shared library"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := Load(path)
	if err == nil {
		t.Fatal("Load of a garbage file returned nil error")
	}
	e, ok := errors.As(err)
	if !ok {
		t.Fatalf("Load error type = %T, want *errors.Error", err)
	}
	if e.Kind != errors.KindBinding || e.Path != path {
		t.Errorf("Load error = %v, want binding error for %q", e, path)
	}
}

func TestLoad_EmptyWasmModuleReportsSymbols(t *testing.T) {
	path := filepath.Join(t.TempDir(), "phyengine.wasm")
	empty := []byte{0x00, 0x61, 0x73, 0x6d, 0x01, 0x00, 0x00, 0x00}
	if err := os.WriteFile(path, empty, 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := Load(path)
	if err == nil {
		t.Fatal("Load of an empty module returned nil error")
	}
	e, ok := errors.As(err)
	if !ok {
		t.Fatalf("Load error type = %T, want *errors.Error", err)
	}
	if e.Kind != errors.KindBinding {
		t.Errorf("error kind = %v, want %v", e.Kind, errors.KindBinding)
	}
	if len(e.Symbols) != len(wasmSymbols) {
		t.Errorf("missing symbols = %v, want all %d entry points", e.Symbols, len(wasmSymbols))
	}
}

func TestLoad_WasmVersionMismatch(t *testing.T) {
	path := writeStub(t, "phyengine.wasm", 99)

	_, err := Load(path)
	if err == nil {
		t.Fatal("Load of a version-99 library returned nil error")
	}
	if !errors.IsKind(err, errors.KindBinding) {
		t.Errorf("Load error = %v, want kind %v", err, errors.KindBinding)
	}
	if !strings.Contains(err.Error(), "99") {
		t.Errorf("Load error %q does not name the reported version", err)
	}
}

func TestLoad_WasmStubFullSurface(t *testing.T) {
	// The extension lies on purpose: detection is by content.
	path := writeStub(t, "libphyengine.so", int32(phyengine.ABIVersion))

	b, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	defer b.Close()

	if b.Path() != path {
		t.Errorf("Path = %q, want %q", b.Path(), path)
	}

	h, err := b.CreateCircuit()
	if err != nil {
		t.Fatalf("CreateCircuit: %v", err)
	}
	if h != 16 {
		t.Errorf("CreateCircuit handle = %d, want 16", h)
	}

	ref, err := b.AddElement(h, phyengine.CodeResistor, []float64{100, 2, 3})
	if err != nil {
		t.Fatalf("AddElement: %v", err)
	}
	if ref != 4 {
		t.Errorf("AddElement ref = %d, want n_params+1 = 4", ref)
	}

	if err := b.ConnectPins(h, 1, 0, 2, 0); err != nil {
		t.Errorf("ConnectPins(b_pin=0): %v", err)
	}
	err = b.ConnectPins(h, 1, 0, 2, 2)
	if err == nil {
		t.Fatal("ConnectPins(b_pin=2) returned nil error")
	}
	if e, ok := errors.As(err); !ok || e.Status != phyengine.StatusInvalidParameter {
		t.Errorf("ConnectPins error = %v, want status %v", err, phyengine.StatusInvalidParameter)
	}

	if err := b.Analyze(h, phyengine.KindOP, 0, 0, 0); err != nil {
		t.Errorf("Analyze(tr_step=0): %v", err)
	}
	err = b.Analyze(h, phyengine.KindOP, 1, 0, 0)
	if err == nil {
		t.Fatal("Analyze(tr_step=1) returned nil error")
	}
	if e, ok := errors.As(err); !ok || e.Status != phyengine.StatusNoConvergence {
		t.Errorf("Analyze error = %v, want status %v", err, phyengine.StatusNoConvergence)
	}

	if err := b.DigitalClock(h); err != nil {
		t.Errorf("DigitalClock: %v", err)
	}

	v, err := b.PinVoltage(h, 1, 0)
	if err != nil {
		t.Fatalf("PinVoltage: %v", err)
	}
	if v != 42.5 {
		t.Errorf("PinVoltage = %v, want 42.5", v)
	}

	d, err := b.PinDigital(h, 1, 0)
	if err != nil {
		t.Fatalf("PinDigital: %v", err)
	}
	if !d {
		t.Error("PinDigital = false, want true")
	}

	c, err := b.BranchCurrent(h, 1, 0)
	if err != nil {
		t.Fatalf("BranchCurrent: %v", err)
	}
	if c != -0.25 {
		t.Errorf("BranchCurrent = %v, want -0.25", c)
	}

	b.DestroyCircuit(h)

	if err := b.Close(); err != nil {
		t.Errorf("Close: %v", err)
	}
	if err := b.Close(); err != nil {
		t.Errorf("second Close: %v", err)
	}
}

func TestLoad_WasmStubThroughRegistry(t *testing.T) {
	path := writeStub(t, "phyengine.wasm", int32(phyengine.ABIVersion))
	r := NewRegistry()

	a, err := r.Acquire(path)
	if err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	b, err := r.Acquire(path)
	if err != nil {
		t.Fatalf("second Acquire: %v", err)
	}
	if a != b {
		t.Error("registry loaded the stub twice")
	}
	if err := r.Release(a); err != nil {
		t.Fatalf("Release: %v", err)
	}
	if _, err := b.CreateCircuit(); err != nil {
		t.Errorf("binding unusable while still referenced: %v", err)
	}
	if err := r.Release(b); err != nil {
		t.Fatalf("final Release: %v", err)
	}
}
