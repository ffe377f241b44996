package enginetest

import (
	"sync"

	phyengine "github.com/physicslab/phyengine-go"
	"github.com/physicslab/phyengine-go/engine"
	"github.com/physicslab/phyengine-go/errors"
)

// Engine is an in-memory solver implementing the full engine call
// surface. It solves the DC operating point over resistors, DC sources,
// and switches, and propagates logic levels through digital elements,
// which is enough to run realistic circuits without a native library.
//
// All methods are safe for concurrent use. Failures are reported with
// the same error shapes a loaded library produces.
type Engine struct {
	mu       sync.Mutex
	next     phyengine.Handle
	circuits map[phyengine.Handle]*circuitState

	created, destroyed       int
	addCalls, connectCalls   int
	analyzeCalls, clockCalls int
	closes                   int

	failCreate    bool
	failAddAt     int
	failAddStatus phyengine.Status
	failAnalyze   phyengine.Status
}

// New returns an empty engine.
func New() *Engine {
	return &Engine{next: 1, circuits: make(map[phyengine.Handle]*circuitState)}
}

type circuitState struct {
	elements []*element
	nets     unionFind
	nextKey  int // 0 is ground
	voltage  map[int]float64
	level    map[int]bool
}

type element struct {
	code    phyengine.ElementCode
	params  []float64
	pins    []int // net keys, native pin order
	branch  []float64
	state   bool // flipflop storage
	prevClk bool
}

func newCircuitState() *circuitState {
	c := &circuitState{
		nextKey: 1,
		voltage: make(map[int]float64),
		level:   make(map[int]bool),
	}
	c.nets.grow(1)
	return c
}

// unionFind collapses net keys; the smaller root wins a union so the
// ground key 0 always stays a root.
type unionFind struct {
	parent []int
}

func (u *unionFind) grow(n int) {
	for len(u.parent) < n {
		u.parent = append(u.parent, len(u.parent))
	}
}

func (u *unionFind) find(x int) int {
	for u.parent[x] != x {
		u.parent[x] = u.parent[u.parent[x]]
		x = u.parent[x]
	}
	return x
}

func (u *unionFind) union(a, b int) {
	ra, rb := u.find(a), u.find(b)
	if ra == rb {
		return
	}
	if rb < ra {
		ra, rb = rb, ra
	}
	u.parent[rb] = ra
}

func statusErr(phase errors.Phase, op string, st phyengine.Status) error {
	return errors.FromStatus(phase, op, st)
}

func (e *Engine) CreateCircuit() (phyengine.Handle, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.failCreate {
		return 0, statusErr(errors.PhaseBuild, "create_circuit", phyengine.StatusInternal)
	}
	h := e.next
	e.next++
	e.circuits[h] = newCircuitState()
	e.created++
	return h, nil
}

func (e *Engine) DestroyCircuit(h phyengine.Handle) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, ok := e.circuits[h]; ok {
		delete(e.circuits, h)
		e.destroyed++
	}
}

func (e *Engine) AddElement(h phyengine.Handle, code phyengine.ElementCode, params []float64) (phyengine.ElementRef, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.addCalls++
	if e.failAddAt > 0 && e.addCalls == e.failAddAt {
		st := e.failAddStatus
		if st == phyengine.StatusOK {
			st = phyengine.StatusInternal
		}
		return 0, statusErr(errors.PhaseBuild, "circuit_add_element", st)
	}

	c, ok := e.circuits[h]
	if !ok {
		return 0, statusErr(errors.PhaseBuild, "circuit_add_element", phyengine.StatusInvalidParameter)
	}
	sh, ok := shapes[code]
	if !ok {
		return 0, statusErr(errors.PhaseBuild, "circuit_add_element", phyengine.StatusInvalidParameter)
	}
	if len(params) != sh.params {
		return 0, statusErr(errors.PhaseBuild, "circuit_add_element", phyengine.StatusInvalidParameter)
	}

	el := &element{
		code:   code,
		params: append([]float64(nil), params...),
		pins:   make([]int, sh.pins),
		branch: make([]float64, sh.branches),
	}
	for i := range el.pins {
		el.pins[i] = c.nextKey
		c.nextKey++
	}
	c.nets.grow(c.nextKey)
	c.elements = append(c.elements, el)
	return phyengine.ElementRef(len(c.elements)), nil
}

// pinKey resolves an (element, pin) address to its net key. GroundRef
// addresses the reserved ground net and accepts only pin 0.
func (c *circuitState) pinKey(ref phyengine.ElementRef, pin int) (int, bool) {
	if ref == phyengine.GroundRef {
		return 0, pin == 0
	}
	idx := int(ref) - 1
	if idx < 0 || idx >= len(c.elements) {
		return 0, false
	}
	if pin < 0 || pin >= len(c.elements[idx].pins) {
		return 0, false
	}
	return c.elements[idx].pins[pin], true
}

func (e *Engine) ConnectPins(h phyengine.Handle, a phyengine.ElementRef, aPin int, b phyengine.ElementRef, bPin int) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.connectCalls++

	c, ok := e.circuits[h]
	if !ok {
		return statusErr(errors.PhaseBuild, "circuit_connect_pins", phyengine.StatusInvalidParameter)
	}
	ka, ok := c.pinKey(a, aPin)
	if !ok {
		return statusErr(errors.PhaseBuild, "circuit_connect_pins", phyengine.StatusInvalidParameter)
	}
	kb, ok := c.pinKey(b, bPin)
	if !ok {
		return statusErr(errors.PhaseBuild, "circuit_connect_pins", phyengine.StatusInvalidParameter)
	}
	c.nets.union(ka, kb)
	return nil
}

func (e *Engine) Analyze(h phyengine.Handle, kind phyengine.Kind, trStep, trStop, acOmega float64) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.analyzeCalls++
	if e.failAnalyze != phyengine.StatusOK {
		return statusErr(errors.PhaseAnalyze, "circuit_analyze", e.failAnalyze)
	}

	c, ok := e.circuits[h]
	if !ok {
		return statusErr(errors.PhaseAnalyze, "circuit_analyze", phyengine.StatusInvalidParameter)
	}
	if !kind.Valid() {
		return statusErr(errors.PhaseAnalyze, "circuit_analyze", phyengine.StatusInvalidParameter)
	}
	if kind.NeedsTransientParams() && (trStep <= 0 || trStop <= 0) {
		return statusErr(errors.PhaseAnalyze, "circuit_analyze", phyengine.StatusInvalidParameter)
	}
	if kind.NeedsOmega() && acOmega <= 0 {
		return statusErr(errors.PhaseAnalyze, "circuit_analyze", phyengine.StatusInvalidParameter)
	}

	if st := c.solveAnalog(); st != phyengine.StatusOK {
		return statusErr(errors.PhaseAnalyze, "circuit_analyze", st)
	}
	c.driveLogicInputs()
	c.settle()
	return nil
}

func (e *Engine) DigitalClock(h phyengine.Handle) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.clockCalls++

	c, ok := e.circuits[h]
	if !ok {
		return statusErr(errors.PhaseAnalyze, "circuit_digital_clk", phyengine.StatusInvalidParameter)
	}
	c.clockStep()
	c.settle()
	return nil
}

func (e *Engine) PinVoltage(h phyengine.Handle, ref phyengine.ElementRef, pin int) (float64, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	c, ok := e.circuits[h]
	if !ok {
		return 0, statusErr(errors.PhaseExtract, "circuit_pin_voltage", phyengine.StatusInvalidParameter)
	}
	key, ok := c.pinKey(ref, pin)
	if !ok {
		return 0, statusErr(errors.PhaseExtract, "circuit_pin_voltage", phyengine.StatusInvalidParameter)
	}
	return c.voltage[c.nets.find(key)], nil
}

func (e *Engine) PinDigital(h phyengine.Handle, ref phyengine.ElementRef, pin int) (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	c, ok := e.circuits[h]
	if !ok {
		return false, statusErr(errors.PhaseExtract, "circuit_pin_digital", phyengine.StatusInvalidParameter)
	}
	key, ok := c.pinKey(ref, pin)
	if !ok {
		return false, statusErr(errors.PhaseExtract, "circuit_pin_digital", phyengine.StatusInvalidParameter)
	}
	return c.level[c.nets.find(key)], nil
}

func (e *Engine) BranchCurrent(h phyengine.Handle, ref phyengine.ElementRef, branch int) (float64, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	c, ok := e.circuits[h]
	if !ok {
		return 0, statusErr(errors.PhaseExtract, "circuit_branch_current", phyengine.StatusInvalidParameter)
	}
	idx := int(ref) - 1
	if idx < 0 || idx >= len(c.elements) {
		return 0, statusErr(errors.PhaseExtract, "circuit_branch_current", phyengine.StatusInvalidParameter)
	}
	el := c.elements[idx]
	if branch < 0 || branch >= len(el.branch) {
		return 0, statusErr(errors.PhaseExtract, "circuit_branch_current", phyengine.StatusInvalidParameter)
	}
	return el.branch[branch], nil
}

// SameNet reports whether two pin addresses were merged into one node.
// Invalid addresses report false.
func (e *Engine) SameNet(h phyengine.Handle, a phyengine.ElementRef, aPin int, b phyengine.ElementRef, bPin int) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	c, ok := e.circuits[h]
	if !ok {
		return false
	}
	ka, ok := c.pinKey(a, aPin)
	if !ok {
		return false
	}
	kb, ok := c.pinKey(b, bPin)
	if !ok {
		return false
	}
	return c.nets.find(ka) == c.nets.find(kb)
}

// FailAddElement makes the n-th AddElement call (1-based, counted across
// all circuits) fail with the given status. A zero status reads as
// internal, matching a zero reference from the native side.
func (e *Engine) FailAddElement(n int, st phyengine.Status) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.failAddAt = n
	e.failAddStatus = st
}

// FailAnalyze makes every Analyze call fail with the given status until
// reset with StatusOK.
func (e *Engine) FailAnalyze(st phyengine.Status) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.failAnalyze = st
}

// FailCreate makes CreateCircuit fail while set.
func (e *Engine) FailCreate(fail bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.failCreate = fail
}

// Live reports circuits created and not yet destroyed.
func (e *Engine) Live() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.circuits)
}

func (e *Engine) Created() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.created
}

func (e *Engine) Destroyed() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.destroyed
}

func (e *Engine) AnalyzeCalls() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.analyzeCalls
}

func (e *Engine) ClockCalls() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.clockCalls
}

// Closes reports how many bindings served by Loader have been closed.
func (e *Engine) Closes() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.closes
}

func (e *Engine) noteClose() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.closes++
}

// boundEngine adapts Engine to engine.Binding for registry use.
type boundEngine struct {
	*Engine
	path string
}

func (b *boundEngine) Path() string { return b.path }
func (b *boundEngine) Close() error {
	b.noteClose()
	return nil
}

// Loader returns a registry loader that serves e for every path, so a
// registry built with engine.NewRegistryWithLoader drives the full
// acquire/release lifecycle against this engine.
func (e *Engine) Loader() func(path string) (engine.Binding, error) {
	return func(path string) (engine.Binding, error) {
		return &boundEngine{Engine: e, path: path}, nil
	}
}
