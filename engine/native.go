package engine

import (
	"fmt"
	"sync"

	"github.com/ebitengine/purego"
	"go.uber.org/zap"

	phyengine "github.com/physicslab/phyengine-go"
	"github.com/physicslab/phyengine-go/errors"
)

// nativeBinding drives a platform shared library. Each field mirrors one
// exported entry point with its C signature; purego fills them in from
// the resolved symbol addresses.
//
// The solver guards per-circuit state internally, so calls need no
// serialization on this side.
type nativeBinding struct {
	path      string
	handle    uintptr
	closeOnce sync.Once

	abiVersion     func() uint32
	createCircuit  func() uintptr
	destroyCircuit func(uintptr)
	addElement     func(h uintptr, code int32, params *float64, n uint64) int64
	connectPins    func(h uintptr, a int64, aPin uint32, b int64, bPin uint32) int32
	analyze        func(h uintptr, kind uint32, trStep, trStop, acOmega float64) int32
	digitalClk     func(h uintptr) int32
	pinVoltage     func(h uintptr, ref int64, pin uint32, out *float64) int32
	pinDigital     func(h uintptr, ref int64, pin uint32, out *byte) int32
	branchCurrent  func(h uintptr, ref int64, branch uint32, out *float64) int32
}

func loadNative(path string) (Binding, error) {
	handle, err := dlOpen(path)
	if err != nil {
		return nil, errors.Binding(path, "cannot open shared library", err)
	}

	// Resolve everything before registering anything so a partial build
	// reports its full set of missing entry points at once.
	addrs := make(map[string]uintptr, len(requiredSymbols))
	var missing []string
	for _, name := range requiredSymbols {
		addr, err := dlSym(handle, name)
		if err != nil || addr == 0 {
			missing = append(missing, name)
			continue
		}
		addrs[name] = addr
	}
	if len(missing) > 0 {
		_ = dlClose(handle)
		return nil, errors.MissingSymbols(path, missing)
	}

	n := &nativeBinding{path: path, handle: handle}
	purego.RegisterFunc(&n.abiVersion, addrs[symABIVersion])
	purego.RegisterFunc(&n.createCircuit, addrs[symCreateCircuit])
	purego.RegisterFunc(&n.destroyCircuit, addrs[symDestroyCircuit])
	purego.RegisterFunc(&n.addElement, addrs[symAddElement])
	purego.RegisterFunc(&n.connectPins, addrs[symConnectPins])
	purego.RegisterFunc(&n.analyze, addrs[symAnalyze])
	purego.RegisterFunc(&n.digitalClk, addrs[symDigitalClk])
	purego.RegisterFunc(&n.pinVoltage, addrs[symPinVoltage])
	purego.RegisterFunc(&n.pinDigital, addrs[symPinDigital])
	purego.RegisterFunc(&n.branchCurrent, addrs[symBranchCurrent])

	if v := n.abiVersion(); v != phyengine.ABIVersion {
		_ = dlClose(handle)
		return nil, errors.Binding(path,
			fmt.Sprintf("abi version mismatch: library reports %d, bridge supports %d", v, phyengine.ABIVersion), nil)
	}

	Logger().Debug("bound native solver library", zap.String("path", path))
	return n, nil
}

func (n *nativeBinding) Path() string { return n.path }

func (n *nativeBinding) Close() error {
	var err error
	n.closeOnce.Do(func() {
		err = dlClose(n.handle)
	})
	return err
}

func (n *nativeBinding) CreateCircuit() (phyengine.Handle, error) {
	h := n.createCircuit()
	if h == 0 {
		return 0, errors.FromStatus(errors.PhaseBuild, symCreateCircuit, phyengine.StatusInternal)
	}
	return phyengine.Handle(h), nil
}

func (n *nativeBinding) DestroyCircuit(h phyengine.Handle) {
	n.destroyCircuit(uintptr(h))
}

func (n *nativeBinding) AddElement(h phyengine.Handle, code phyengine.ElementCode, params []float64) (phyengine.ElementRef, error) {
	var p *float64
	if len(params) > 0 {
		p = &params[0]
	}
	ref := n.addElement(uintptr(h), int32(code), p, uint64(len(params)))
	if ref < 1 {
		return 0, errors.FromStatus(errors.PhaseBuild, symAddElement, refToStatus(ref))
	}
	return phyengine.ElementRef(ref), nil
}

func (n *nativeBinding) ConnectPins(h phyengine.Handle, a phyengine.ElementRef, aPin int, b phyengine.ElementRef, bPin int) error {
	if st := n.connectPins(uintptr(h), int64(a), uint32(aPin), int64(b), uint32(bPin)); st != 0 {
		return errors.FromStatus(errors.PhaseBuild, symConnectPins, phyengine.Status(st))
	}
	return nil
}

func (n *nativeBinding) Analyze(h phyengine.Handle, kind phyengine.Kind, trStep, trStop, acOmega float64) error {
	if st := n.analyze(uintptr(h), uint32(kind), trStep, trStop, acOmega); st != 0 {
		return errors.FromStatus(errors.PhaseAnalyze, symAnalyze, phyengine.Status(st))
	}
	return nil
}

func (n *nativeBinding) DigitalClock(h phyengine.Handle) error {
	if st := n.digitalClk(uintptr(h)); st != 0 {
		return errors.FromStatus(errors.PhaseAnalyze, symDigitalClk, phyengine.Status(st))
	}
	return nil
}

func (n *nativeBinding) PinVoltage(h phyengine.Handle, ref phyengine.ElementRef, pin int) (float64, error) {
	var out float64
	if st := n.pinVoltage(uintptr(h), int64(ref), uint32(pin), &out); st != 0 {
		return 0, errors.FromStatus(errors.PhaseExtract, symPinVoltage, phyengine.Status(st))
	}
	return out, nil
}

func (n *nativeBinding) PinDigital(h phyengine.Handle, ref phyengine.ElementRef, pin int) (bool, error) {
	var out byte
	if st := n.pinDigital(uintptr(h), int64(ref), uint32(pin), &out); st != 0 {
		return false, errors.FromStatus(errors.PhaseExtract, symPinDigital, phyengine.Status(st))
	}
	return out != 0, nil
}

func (n *nativeBinding) BranchCurrent(h phyengine.Handle, ref phyengine.ElementRef, branch int) (float64, error) {
	var out float64
	if st := n.branchCurrent(uintptr(h), int64(ref), uint32(branch), &out); st != 0 {
		return 0, errors.FromStatus(errors.PhaseExtract, symBranchCurrent, phyengine.Status(st))
	}
	return out, nil
}

// refToStatus recovers the failure status AddElement encodes in a
// non-positive reference. Negative refs carry a negated status; zero
// has no status to recover and reads as internal.
func refToStatus(ref int64) phyengine.Status {
	if ref < 0 {
		return phyengine.Status(-ref)
	}
	return phyengine.StatusInternal
}
