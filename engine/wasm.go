package engine

import (
	"context"
	"fmt"
	"sync"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
	"github.com/tetratelabs/wazero/imports/wasi_snapshot_preview1"
	"go.uber.org/zap"

	phyengine "github.com/physicslab/phyengine-go"
	"github.com/physicslab/phyengine-go/errors"
)

// wasmBinding drives a WebAssembly build of the solver. The module owns
// one linear memory that every call reads and writes, so unlike the
// shared-library backend all calls are serialized under a single mutex.
//
// Out-parameters live in guest memory: an 8-byte scratch allocation is
// made once at load and reused by every readback under the same mutex.
type wasmBinding struct {
	path string
	ctx  context.Context
	rt   wazero.Runtime
	mod  api.Module

	mu      sync.Mutex
	fns     map[string]api.Function
	scratch uint32
	closed  bool
}

func loadWasm(path string, data []byte) (Binding, error) {
	ctx := context.Background()
	rt := wazero.NewRuntime(ctx)

	wasi_snapshot_preview1.MustInstantiate(ctx, rt)

	// Reactor-style build: suppress _start, run _initialize if exported.
	modConfig := wazero.NewModuleConfig().WithName("").WithStartFunctions()
	mod, err := rt.InstantiateWithConfig(ctx, data, modConfig)
	if err != nil {
		_ = rt.Close(ctx)
		return nil, errors.Binding(path, "instantiate wasm module", err)
	}
	if init := mod.ExportedFunction("_initialize"); init != nil {
		if _, err := init.Call(ctx); err != nil {
			_ = rt.Close(ctx)
			return nil, errors.Binding(path, "run module initializer", err)
		}
	}

	fns := make(map[string]api.Function, len(wasmSymbols))
	var missing []string
	for _, name := range wasmSymbols {
		fn := mod.ExportedFunction(name)
		if fn == nil {
			missing = append(missing, name)
			continue
		}
		fns[name] = fn
	}
	if len(missing) > 0 {
		_ = rt.Close(ctx)
		return nil, errors.MissingSymbols(path, missing)
	}

	w := &wasmBinding{path: path, ctx: ctx, rt: rt, mod: mod, fns: fns}

	res, err := fns[symABIVersion].Call(ctx)
	if err != nil {
		_ = rt.Close(ctx)
		return nil, errors.Binding(path, "probe abi version", err)
	}
	if v := api.DecodeU32(res[0]); v != phyengine.ABIVersion {
		_ = rt.Close(ctx)
		return nil, errors.Binding(path,
			fmt.Sprintf("abi version mismatch: library reports %d, bridge supports %d", v, phyengine.ABIVersion), nil)
	}

	w.scratch, err = w.guestAlloc(errors.PhaseLoad, 8)
	if err != nil {
		_ = rt.Close(ctx)
		return nil, err
	}

	Logger().Debug("bound wasm solver library", zap.String("path", path))
	return w, nil
}

func (w *wasmBinding) Path() string { return w.path }

func (w *wasmBinding) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return nil
	}
	w.closed = true
	w.guestFree(w.scratch)
	return w.rt.Close(w.ctx)
}

// call invokes an exported function, classifying a trap under the
// caller's phase. Callers must hold w.mu.
func (w *wasmBinding) call(phase errors.Phase, name string, args ...uint64) ([]uint64, error) {
	res, err := w.fns[name].Call(w.ctx, args...)
	if err != nil {
		return nil, errors.Wrap(phase, errors.KindBinding, err, "trap in "+name)
	}
	return res, nil
}

func (w *wasmBinding) guestAlloc(phase errors.Phase, size uint64) (uint32, error) {
	res, err := w.fns[symMalloc].Call(w.ctx, size)
	if err != nil {
		return 0, errors.Wrap(phase, errors.KindBinding, err, "trap in malloc")
	}
	ptr := api.DecodeU32(res[0])
	if ptr == 0 {
		return 0, errors.Wrap(phase, errors.KindBinding, nil, "guest allocator out of memory")
	}
	return ptr, nil
}

func (w *wasmBinding) guestFree(ptr uint32) {
	if ptr == 0 {
		return
	}
	if _, err := w.fns[symFree].Call(w.ctx, uint64(ptr)); err != nil {
		Logger().Warn("guest free trapped", zap.String("path", w.path), zap.Error(err))
	}
}

func (w *wasmBinding) CreateCircuit() (phyengine.Handle, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	res, err := w.call(errors.PhaseBuild, symCreateCircuit)
	if err != nil {
		return 0, err
	}
	h := phyengine.Handle(api.DecodeU32(res[0]))
	if h == 0 {
		return 0, errors.FromStatus(errors.PhaseBuild, symCreateCircuit, phyengine.StatusInternal)
	}
	return h, nil
}

func (w *wasmBinding) DestroyCircuit(h phyengine.Handle) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if _, err := w.fns[symDestroyCircuit].Call(w.ctx, uint64(h)); err != nil {
		Logger().Warn("destroy_circuit trapped", zap.String("path", w.path), zap.Error(err))
	}
}

func (w *wasmBinding) AddElement(h phyengine.Handle, code phyengine.ElementCode, params []float64) (phyengine.ElementRef, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	var ptr uint32
	if len(params) > 0 {
		var err error
		ptr, err = w.guestAlloc(errors.PhaseBuild, uint64(8*len(params)))
		if err != nil {
			return 0, err
		}
		defer w.guestFree(ptr)
		mem := w.mod.Memory()
		for i, v := range params {
			if !mem.WriteFloat64Le(ptr+uint32(8*i), v) {
				return 0, errors.Wrap(errors.PhaseBuild, errors.KindBinding, nil, "guest memory write out of range")
			}
		}
	}

	res, err := w.call(errors.PhaseBuild, symAddElement,
		uint64(h), api.EncodeI32(int32(code)), uint64(ptr), uint64(len(params)))
	if err != nil {
		return 0, err
	}
	ref := int64(res[0])
	if ref < 1 {
		return 0, errors.FromStatus(errors.PhaseBuild, symAddElement, refToStatus(ref))
	}
	return phyengine.ElementRef(ref), nil
}

func (w *wasmBinding) ConnectPins(h phyengine.Handle, a phyengine.ElementRef, aPin int, b phyengine.ElementRef, bPin int) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	res, err := w.call(errors.PhaseBuild, symConnectPins,
		uint64(h), api.EncodeI64(int64(a)), api.EncodeI32(int32(aPin)), api.EncodeI64(int64(b)), api.EncodeI32(int32(bPin)))
	if err != nil {
		return err
	}
	if st := phyengine.Status(api.DecodeI32(res[0])); st != 0 {
		return errors.FromStatus(errors.PhaseBuild, symConnectPins, st)
	}
	return nil
}

func (w *wasmBinding) Analyze(h phyengine.Handle, kind phyengine.Kind, trStep, trStop, acOmega float64) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	res, err := w.call(errors.PhaseAnalyze, symAnalyze,
		uint64(h), uint64(kind), api.EncodeF64(trStep), api.EncodeF64(trStop), api.EncodeF64(acOmega))
	if err != nil {
		return err
	}
	if st := phyengine.Status(api.DecodeI32(res[0])); st != 0 {
		return errors.FromStatus(errors.PhaseAnalyze, symAnalyze, st)
	}
	return nil
}

func (w *wasmBinding) DigitalClock(h phyengine.Handle) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	res, err := w.call(errors.PhaseAnalyze, symDigitalClk, uint64(h))
	if err != nil {
		return err
	}
	if st := phyengine.Status(api.DecodeI32(res[0])); st != 0 {
		return errors.FromStatus(errors.PhaseAnalyze, symDigitalClk, st)
	}
	return nil
}

func (w *wasmBinding) PinVoltage(h phyengine.Handle, ref phyengine.ElementRef, pin int) (float64, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	res, err := w.call(errors.PhaseExtract, symPinVoltage,
		uint64(h), api.EncodeI64(int64(ref)), api.EncodeI32(int32(pin)), uint64(w.scratch))
	if err != nil {
		return 0, err
	}
	if st := phyengine.Status(api.DecodeI32(res[0])); st != 0 {
		return 0, errors.FromStatus(errors.PhaseExtract, symPinVoltage, st)
	}
	v, ok := w.mod.Memory().ReadFloat64Le(w.scratch)
	if !ok {
		return 0, errors.Wrap(errors.PhaseExtract, errors.KindBinding, nil, "guest memory read out of range")
	}
	return v, nil
}

func (w *wasmBinding) PinDigital(h phyengine.Handle, ref phyengine.ElementRef, pin int) (bool, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	res, err := w.call(errors.PhaseExtract, symPinDigital,
		uint64(h), api.EncodeI64(int64(ref)), api.EncodeI32(int32(pin)), uint64(w.scratch))
	if err != nil {
		return false, err
	}
	if st := phyengine.Status(api.DecodeI32(res[0])); st != 0 {
		return false, errors.FromStatus(errors.PhaseExtract, symPinDigital, st)
	}
	b, ok := w.mod.Memory().ReadByte(w.scratch)
	if !ok {
		return false, errors.Wrap(errors.PhaseExtract, errors.KindBinding, nil, "guest memory read out of range")
	}
	return b != 0, nil
}

func (w *wasmBinding) BranchCurrent(h phyengine.Handle, ref phyengine.ElementRef, branch int) (float64, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	res, err := w.call(errors.PhaseExtract, symBranchCurrent,
		uint64(h), api.EncodeI64(int64(ref)), api.EncodeI32(int32(branch)), uint64(w.scratch))
	if err != nil {
		return 0, err
	}
	if st := phyengine.Status(api.DecodeI32(res[0])); st != 0 {
		return 0, errors.FromStatus(errors.PhaseExtract, symBranchCurrent, st)
	}
	v, ok := w.mod.Memory().ReadFloat64Le(w.scratch)
	if !ok {
		return 0, errors.Wrap(errors.PhaseExtract, errors.KindBinding, nil, "guest memory read out of range")
	}
	return v, nil
}
