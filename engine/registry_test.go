package engine

import (
	"fmt"
	"path/filepath"
	"testing"

	phyengine "github.com/physicslab/phyengine-go"
	"github.com/physicslab/phyengine-go/errors"
)

// stubBinding satisfies Binding without touching a real library.
type stubBinding struct {
	path   string
	closed bool
}

func (s *stubBinding) Path() string { return s.path }
func (s *stubBinding) Close() error {
	s.closed = true
	return nil
}

func (s *stubBinding) CreateCircuit() (phyengine.Handle, error) { return 1, nil }
func (s *stubBinding) DestroyCircuit(phyengine.Handle)          {}
func (s *stubBinding) AddElement(phyengine.Handle, phyengine.ElementCode, []float64) (phyengine.ElementRef, error) {
	return 1, nil
}
func (s *stubBinding) ConnectPins(phyengine.Handle, phyengine.ElementRef, int, phyengine.ElementRef, int) error {
	return nil
}
func (s *stubBinding) Analyze(phyengine.Handle, phyengine.Kind, float64, float64, float64) error {
	return nil
}
func (s *stubBinding) DigitalClock(phyengine.Handle) error { return nil }
func (s *stubBinding) PinVoltage(phyengine.Handle, phyengine.ElementRef, int) (float64, error) {
	return 0, nil
}
func (s *stubBinding) PinDigital(phyengine.Handle, phyengine.ElementRef, int) (bool, error) {
	return false, nil
}
func (s *stubBinding) BranchCurrent(phyengine.Handle, phyengine.ElementRef, int) (float64, error) {
	return 0, nil
}

func stubRegistry() (*Registry, *int) {
	loads := new(int)
	r := NewRegistry()
	r.loader = func(path string) (Binding, error) {
		*loads++
		return &stubBinding{path: path}, nil
	}
	return r, loads
}

func TestRegistry_AcquireShares(t *testing.T) {
	r, loads := stubRegistry()
	lib := filepath.Join(t.TempDir(), "libphyengine.so")

	a, err := r.Acquire(lib)
	if err != nil {
		t.Fatalf("first Acquire: %v", err)
	}
	b, err := r.Acquire(lib)
	if err != nil {
		t.Fatalf("second Acquire: %v", err)
	}
	if a != b {
		t.Error("two Acquires of the same path returned distinct bindings")
	}
	if *loads != 1 {
		t.Errorf("loader ran %d times, want 1", *loads)
	}
	if got := r.Refs(lib); got != 2 {
		t.Errorf("Refs = %d, want 2", got)
	}
}

func TestRegistry_EquivalentPathsShareEntry(t *testing.T) {
	r, loads := stubRegistry()
	dir := t.TempDir()
	direct := filepath.Join(dir, "libphyengine.so")
	dotted := filepath.Join(dir, "sub", "..", "libphyengine.so")

	a, err := r.Acquire(direct)
	if err != nil {
		t.Fatalf("Acquire(%q): %v", direct, err)
	}
	b, err := r.Acquire(dotted)
	if err != nil {
		t.Fatalf("Acquire(%q): %v", dotted, err)
	}
	if a != b {
		t.Error("equivalent paths loaded distinct bindings")
	}
	if *loads != 1 {
		t.Errorf("loader ran %d times, want 1", *loads)
	}
}

func TestRegistry_ReleaseClosesAtZero(t *testing.T) {
	r, loads := stubRegistry()
	lib := filepath.Join(t.TempDir(), "libphyengine.so")

	a, _ := r.Acquire(lib)
	b, _ := r.Acquire(lib)
	stub := a.(*stubBinding)

	if err := r.Release(a); err != nil {
		t.Fatalf("first Release: %v", err)
	}
	if stub.closed {
		t.Fatal("binding closed while still referenced")
	}
	if err := r.Release(b); err != nil {
		t.Fatalf("second Release: %v", err)
	}
	if !stub.closed {
		t.Fatal("binding not closed at zero references")
	}
	if got := r.Refs(lib); got != 0 {
		t.Errorf("Refs after eviction = %d, want 0", got)
	}

	// Reacquiring after eviction loads afresh.
	c, err := r.Acquire(lib)
	if err != nil {
		t.Fatalf("Acquire after eviction: %v", err)
	}
	if c == a {
		t.Error("Acquire after eviction returned the evicted binding")
	}
	if *loads != 2 {
		t.Errorf("loader ran %d times, want 2", *loads)
	}
}

func TestRegistry_ReleaseForeignBinding(t *testing.T) {
	r, _ := stubRegistry()

	err := r.Release(&stubBinding{path: filepath.Join(t.TempDir(), "libphyengine.so")})
	if err == nil {
		t.Fatal("Release of a never-acquired binding returned nil error")
	}
	if !errors.IsKind(err, errors.KindInvalidState) {
		t.Errorf("Release error = %v, want kind %v", err, errors.KindInvalidState)
	}
}

func TestRegistry_LoaderErrorPropagates(t *testing.T) {
	r := NewRegistry()
	want := fmt.Errorf("broken library")
	r.loader = func(string) (Binding, error) { return nil, want }
	lib := filepath.Join(t.TempDir(), "libphyengine.so")

	_, err := r.Acquire(lib)
	if err != want {
		t.Fatalf("Acquire error = %v, want %v", err, want)
	}
	if got := r.Refs(lib); got != 0 {
		t.Errorf("Refs after failed load = %d, want 0", got)
	}
}

func TestDefaultRegistry_Singleton(t *testing.T) {
	if DefaultRegistry() != DefaultRegistry() {
		t.Error("DefaultRegistry returned distinct instances")
	}
}
