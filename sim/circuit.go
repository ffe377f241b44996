package sim

import (
	"strings"

	"go.uber.org/zap"

	phyengine "github.com/physicslab/phyengine-go"
	"github.com/physicslab/phyengine-go/circuit"
	"github.com/physicslab/phyengine-go/engine"
	"github.com/physicslab/phyengine-go/errors"
	"github.com/physicslab/phyengine-go/mapper"
)

type state int

const (
	stateUnbuilt state = iota
	stateBuilt
	stateDestroyed
)

// Circuit is a graph realized inside an engine. It owns exactly one
// native handle from construction until Close.
//
// A Circuit is not safe for concurrent use: the native side keeps
// per-circuit solver state, so calls on one Circuit must not overlap.
// Independent Circuits are fully independent, even on one engine.
type Circuit struct {
	abi     phyengine.ABI
	handle  phyengine.Handle
	layout  *mapper.Layout
	refs    []phyengine.ElementRef
	release func() error
	state   state
}

type options struct {
	path     string
	registry *engine.Registry
	abi      phyengine.ABI
}

// Option adjusts how New obtains its engine.
type Option func(*options)

// WithLibraryPath hands the resolver an explicit library path, checked
// before the environment variable and the conventional directories.
func WithLibraryPath(path string) Option {
	return func(o *options) { o.path = path }
}

// WithRegistry acquires the binding from r instead of the process-wide
// default registry.
func WithRegistry(r *engine.Registry) Option {
	return func(o *options) { o.registry = r }
}

// WithBinding runs the circuit against an already-loaded engine,
// skipping resolution entirely. The caller keeps ownership: Close
// destroys the circuit but leaves the engine alone.
func WithBinding(abi phyengine.ABI) Option {
	return func(o *options) { o.abi = abi }
}

// New translates the graph and builds it inside an engine. Translation
// is pure and fail-fast, so an unsupported element or a bad parameter
// aborts before any engine call. If the engine rejects the circuit
// midway through construction, the partial native circuit is destroyed
// and the binding released before the error returns.
func New(g *circuit.Graph, opts ...Option) (*Circuit, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	if g == nil {
		return nil, errors.InvalidParameters(errors.PhaseMap, "nil graph")
	}

	layout, err := mapper.Map(g)
	if err != nil {
		return nil, err
	}

	abi := o.abi
	var release func() error
	if abi == nil {
		path, err := engine.Resolve(o.path)
		if err != nil {
			return nil, err
		}
		reg := o.registry
		if reg == nil {
			reg = engine.DefaultRegistry()
		}
		b, err := reg.Acquire(path)
		if err != nil {
			return nil, err
		}
		abi = b
		release = func() error { return reg.Release(b) }
	}

	c := &Circuit{abi: abi, layout: layout, release: release}
	if err := c.build(); err != nil {
		if rerr := c.releaseBinding(); rerr != nil {
			Logger().Warn("binding release after failed build", zap.Error(rerr))
		}
		return nil, err
	}
	c.state = stateBuilt
	Logger().Debug("circuit built",
		zap.Int("elements", len(layout.Elements)),
		zap.Int("merges", len(layout.Ops)))
	return c, nil
}

// build issues the engine calls realizing the layout: create, one add
// per element, then the merge plan. Any failure destroys the partial
// handle before returning, so no circuit outlives its error.
func (c *Circuit) build() error {
	h, err := c.abi.CreateCircuit()
	if err != nil {
		return err
	}

	refs := make([]phyengine.ElementRef, len(c.layout.Elements))
	for i := range c.layout.Elements {
		ne := &c.layout.Elements[i]
		ref, err := c.abi.AddElement(h, ne.Code, ne.Params)
		if err != nil {
			c.abi.DestroyCircuit(h)
			return elementContext(err, ne.Element)
		}
		refs[i] = ref
	}

	for _, op := range c.layout.Ops {
		var err error
		if op.Ground {
			err = c.abi.ConnectPins(h, refs[op.A.Elem], op.A.Pin, phyengine.GroundRef, 0)
		} else {
			err = c.abi.ConnectPins(h, refs[op.A.Elem], op.A.Pin, refs[op.B.Elem], op.B.Pin)
		}
		if err != nil {
			c.abi.DestroyCircuit(h)
			return err
		}
	}

	c.handle = h
	c.refs = refs
	return nil
}

// elementContext reshapes an engine error so it names the element being
// added when the engine refused it. Phase, kind, and status carry over.
func elementContext(err error, e *circuit.Element) error {
	be, ok := errors.As(err)
	if !ok {
		return err
	}
	return errors.New(be.Phase, be.Kind).
		Element(e.ID()).
		Model(string(e.Model())).
		Status(be.Status).
		Cause(err).
		Detail("engine rejected element").
		Build()
}

// Analyze runs one analysis and snapshots every element's pin and
// branch values. Kind-specific parameters are validated here, before
// anything crosses the boundary. When the request asks for a digital
// clock step, exactly one follows the analysis.
//
// Repeated calls reuse the same native circuit; solver state carried
// across calls, such as accumulated clock edges, is part of the
// contract. A fresh run needs a fresh Circuit.
func (c *Circuit) Analyze(req phyengine.Request) (*Sample, error) {
	switch c.state {
	case stateUnbuilt:
		return nil, errors.InvalidState("analyze on an unbuilt circuit")
	case stateDestroyed:
		return nil, errors.InvalidState("analyze on a closed circuit")
	}

	if missing := req.MissingParams(); len(missing) > 0 {
		return nil, errors.InvalidParameters(errors.PhaseAnalyze,
			"analysis %s requires %s", req.Kind, strings.Join(missing, ", "))
	}

	if err := c.abi.Analyze(c.handle, req.Kind, req.TRStep, req.TRStop, req.ACOmega); err != nil {
		return nil, err
	}
	if req.DigitalClock {
		if err := c.abi.DigitalClock(c.handle); err != nil {
			return nil, err
		}
	}
	Logger().Debug("analysis complete", zap.Stringer("kind", req.Kind))
	return extract(c.abi, c.handle, c.layout, c.refs)
}

// Close destroys the native circuit and lets go of the engine. The
// first call is the one that acts; closing an already-closed circuit
// is a no-op. Closing a zero-value Circuit reports invalid state.
func (c *Circuit) Close() error {
	switch c.state {
	case stateUnbuilt:
		return errors.InvalidState("close on an unbuilt circuit")
	case stateDestroyed:
		return nil
	}
	c.state = stateDestroyed
	c.abi.DestroyCircuit(c.handle)
	c.handle = 0
	return c.releaseBinding()
}

func (c *Circuit) releaseBinding() error {
	if c.release == nil {
		return nil
	}
	rel := c.release
	c.release = nil
	return rel()
}
