package engine

import (
	"path/filepath"
	"sync"

	"go.uber.org/zap"

	"github.com/physicslab/phyengine-go/errors"
)

// Registry shares loaded bindings across circuits. Bindings are keyed by
// cleaned absolute path and reference counted: Acquire loads on first
// use, Release closes and evicts when the last holder lets go.
type Registry struct {
	mu      sync.Mutex
	entries map[string]*registryEntry

	// loader is swapped by tests to avoid touching real libraries.
	loader func(path string) (Binding, error)
}

type registryEntry struct {
	binding Binding
	refs    int
}

// NewRegistry returns an empty registry backed by Load.
func NewRegistry() *Registry {
	return NewRegistryWithLoader(Load)
}

// NewRegistryWithLoader returns a registry that loads through the given
// function instead of Load. In-memory engines plug in here.
func NewRegistryWithLoader(loader func(path string) (Binding, error)) *Registry {
	return &Registry{
		entries: make(map[string]*registryEntry),
		loader:  loader,
	}
}

var (
	defaultRegistry     *Registry
	defaultRegistryOnce sync.Once
)

// DefaultRegistry returns the process-wide registry used when a circuit
// is built without an explicit one.
func DefaultRegistry() *Registry {
	defaultRegistryOnce.Do(func() {
		defaultRegistry = NewRegistry()
	})
	return defaultRegistry
}

// Acquire returns the shared binding for path, loading the library on
// first use. Every successful Acquire must be paired with exactly one
// Release of the returned binding.
func (r *Registry) Acquire(path string) (Binding, error) {
	key, err := canonicalKey(path)
	if err != nil {
		return nil, errors.Binding(path, "canonicalize library path", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if e, ok := r.entries[key]; ok {
		e.refs++
		return e.binding, nil
	}

	b, err := r.loader(path)
	if err != nil {
		return nil, err
	}
	r.entries[key] = &registryEntry{binding: b, refs: 1}
	Logger().Debug("binding cached", zap.String("path", key))
	return b, nil
}

// Release drops one reference to b. The binding is closed and evicted
// when the count reaches zero. Releasing a binding the registry does
// not hold reports an invalid_state error.
func (r *Registry) Release(b Binding) error {
	if b == nil {
		return nil
	}
	key, err := canonicalKey(b.Path())
	if err != nil {
		return errors.Binding(b.Path(), "canonicalize library path", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.entries[key]
	if !ok || e.binding != b {
		return errors.InvalidState("release of a binding this registry does not hold")
	}
	e.refs--
	if e.refs > 0 {
		return nil
	}
	delete(r.entries, key)
	Logger().Debug("binding evicted", zap.String("path", key))
	return e.binding.Close()
}

// Refs reports the current reference count for path, zero when the
// library is not loaded.
func (r *Registry) Refs(path string) int {
	key, err := canonicalKey(path)
	if err != nil {
		return 0
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if e, ok := r.entries[key]; ok {
		return e.refs
	}
	return 0
}

func canonicalKey(path string) (string, error) {
	return filepath.Abs(path)
}
