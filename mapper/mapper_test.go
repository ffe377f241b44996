package mapper

import (
	"reflect"
	"testing"

	phyengine "github.com/physicslab/phyengine-go"
	"github.com/physicslab/phyengine-go/circuit"
	"github.com/physicslab/phyengine-go/errors"
)

// sampleElement builds a minimal valid element for each supported ModelID.
func sampleElement(t *testing.T, m circuit.ModelID) *circuit.Element {
	t.Helper()
	switch m {
	case circuit.Resistor:
		return circuit.NewResistor("e", 1000)
	case circuit.BasicCapacitor:
		return circuit.NewCapacitor("e", 1e-6)
	case circuit.BasicInductor:
		return circuit.NewInductor("e", 1e-3)
	case circuit.BatterySource:
		return circuit.NewBatterySource("e", 5)
	case circuit.SimpleSwitch:
		return circuit.NewSwitch("e", true)
	case circuit.PushSwitch:
		return circuit.New("e", circuit.PushSwitch, []string{"red", "black"}, map[string]float64{circuit.KeyClosed: 0})
	case circuit.AirSwitch:
		return circuit.New("e", circuit.AirSwitch, []string{"red", "black"}, map[string]float64{circuit.KeyClosed: 1})
	case circuit.Transformer:
		return circuit.NewTransformer("e", 2)
	case circuit.MutualInductor:
		return circuit.NewMutualInductor("e", 1e-3, 2e-3, 0.9)
	case circuit.Rectifier:
		return circuit.NewRectifier("e")
	case circuit.LogicInput:
		return circuit.NewLogicInput("e", true)
	case circuit.LogicOutput:
		return circuit.NewLogicOutput("e")
	case circuit.OrGate:
		return circuit.NewOrGate("e")
	case circuit.YesGate:
		return circuit.NewYesGate("e")
	case circuit.AndGate:
		return circuit.NewAndGate("e")
	case circuit.NoGate:
		return circuit.NewNoGate("e")
	case circuit.XorGate:
		return circuit.NewXorGate("e")
	case circuit.XnorGate:
		return circuit.NewXnorGate("e")
	case circuit.NandGate:
		return circuit.NewNandGate("e")
	case circuit.NorGate:
		return circuit.NewNorGate("e")
	case circuit.ImpGate:
		return circuit.NewImpGate("e")
	case circuit.NimpGate:
		return circuit.NewNimpGate("e")
	case circuit.HalfAdder:
		return circuit.NewHalfAdder("e")
	case circuit.FullAdder:
		return circuit.NewFullAdder("e")
	case circuit.HalfSubtractor:
		return circuit.NewHalfSubtractor("e")
	case circuit.FullSubtractor:
		return circuit.NewFullSubtractor("e")
	case circuit.Multiplier:
		return circuit.NewMultiplier("e")
	case circuit.DFlipflop:
		return circuit.NewDFlipflop("e")
	case circuit.TFlipflop:
		return circuit.NewTFlipflop("e")
	case circuit.RealTFlipflop:
		return circuit.NewRealTFlipflop("e")
	case circuit.JKFlipflop:
		return circuit.NewJKFlipflop("e")
	}
	t.Fatalf("no sample for model %s", m)
	return nil
}

func TestMap_EverySupportedModel(t *testing.T) {
	for _, info := range Models() {
		t.Run(string(info.Model), func(t *testing.T) {
			g := circuit.NewGraph()
			e := sampleElement(t, info.Model)
			gnd := circuit.NewGround("g0")
			if err := g.Add(e, gnd); err != nil {
				t.Fatalf("Add returned error: %v", err)
			}
			if err := g.Connect(e.Pin(0), gnd.Pin(0)); err != nil {
				t.Fatalf("Connect returned error: %v", err)
			}

			layout, err := Map(g)
			if err != nil {
				t.Fatalf("Map returned error: %v", err)
			}
			if len(layout.Elements) != 1 {
				t.Fatalf("len(Elements) = %d, want exactly 1", len(layout.Elements))
			}

			ne := layout.Elements[0]
			if ne.Code != info.Code {
				t.Errorf("Code = %d, want %d", ne.Code, info.Code)
			}
			if len(ne.NativePins) != e.PinCount() {
				t.Errorf("len(NativePins) = %d, want %d", len(ne.NativePins), e.PinCount())
			}
			if ne.Branches != info.Branches {
				t.Errorf("Branches = %d, want %d", ne.Branches, info.Branches)
			}
		})
	}
}

func TestMap_UnsupportedModel(t *testing.T) {
	g := circuit.NewGraph()
	buzzer := circuit.New("B1", "Buzzer", []string{"red", "black"}, nil)
	if err := g.Add(buzzer); err != nil {
		t.Fatalf("Add returned error: %v", err)
	}

	_, err := Map(g)
	if err == nil {
		t.Fatal("Map accepted an unsupported model")
	}
	if !errors.IsKind(err, errors.KindUnsupportedElement) {
		t.Fatalf("error kind = %v, want unsupported_element", err)
	}
	e, _ := errors.As(err)
	if e.Model != "Buzzer" {
		t.Errorf("error names model %q, want Buzzer", e.Model)
	}
	if e.Element != "B1" {
		t.Errorf("error names element %q, want B1", e.Element)
	}
}

func TestMap_FailsOnFirstUnsupported(t *testing.T) {
	g := circuit.NewGraph()
	if err := g.Add(
		circuit.NewResistor("R1", 100),
		circuit.New("B1", "Buzzer", []string{"red", "black"}, nil),
		circuit.New("B2", "Speaker", []string{"red", "black"}, nil),
	); err != nil {
		t.Fatalf("Add returned error: %v", err)
	}

	_, err := Map(g)
	e, ok := errors.As(err)
	if !ok {
		t.Fatalf("Map error = %v, want bridge error", err)
	}
	if e.Model != "Buzzer" {
		t.Errorf("aborted on %q, want the first unsupported model Buzzer", e.Model)
	}
}

func TestMap_GroundExcludedAndAliased(t *testing.T) {
	g := circuit.NewGraph()
	r := circuit.NewResistor("R1", 1000)
	gnd := circuit.NewGround("G0")
	if err := g.Add(r, gnd); err != nil {
		t.Fatalf("Add returned error: %v", err)
	}
	if err := g.Connect(r.Pin(1), gnd.Pin(0)); err != nil {
		t.Fatalf("Connect returned error: %v", err)
	}

	layout, err := Map(g)
	if err != nil {
		t.Fatalf("Map returned error: %v", err)
	}

	if len(layout.Elements) != 1 {
		t.Fatalf("ground placeholder reached the element list: %d elements", len(layout.Elements))
	}
	if layout.Elements[0].Element != r {
		t.Error("wrong element survived mapping")
	}

	var grounds []MergeOp
	for _, op := range layout.Ops {
		if op.Ground {
			grounds = append(grounds, op)
		}
	}
	if len(grounds) != 1 {
		t.Fatalf("ground ops = %d, want 1", len(grounds))
	}
	if grounds[0].A != (PinAddr{Elem: 0, Pin: 1}) {
		t.Errorf("ground op targets %+v, want elem 0 pin 1", grounds[0].A)
	}
}

func TestMap_MergeIdempotence(t *testing.T) {
	build := func(wires [][2]int) *Layout {
		g := circuit.NewGraph()
		a := circuit.NewResistor("A", 100)
		b := circuit.NewResistor("B", 200)
		if err := g.Add(a, b); err != nil {
			t.Fatalf("Add returned error: %v", err)
		}
		elems := []*circuit.Element{a, b}
		for _, w := range wires {
			if err := g.Connect(elems[w[0]].Pin(0), elems[w[1]].Pin(0)); err != nil {
				t.Fatalf("Connect returned error: %v", err)
			}
		}
		layout, err := Map(g)
		if err != nil {
			t.Fatalf("Map returned error: %v", err)
		}
		return layout
	}

	once := build([][2]int{{0, 1}})
	twice := build([][2]int{{0, 1}, {1, 0}})

	if !reflect.DeepEqual(once.Ops, twice.Ops) {
		t.Errorf("redundant wiring changed the plan:\nonce:  %+v\ntwice: %+v", once.Ops, twice.Ops)
	}
}

func TestMap_TransitiveWiring(t *testing.T) {
	g := circuit.NewGraph()
	a := circuit.NewResistor("A", 100)
	b := circuit.NewResistor("B", 200)
	c := circuit.NewResistor("C", 300)
	if err := g.Add(a, b, c); err != nil {
		t.Fatalf("Add returned error: %v", err)
	}
	// A-B and B-C; all three pins form one node.
	g.Connect(a.Pin(0), b.Pin(0))
	g.Connect(b.Pin(0), c.Pin(0))

	layout, err := Map(g)
	if err != nil {
		t.Fatalf("Map returned error: %v", err)
	}

	// One group of three pins merges the two later pins into the first.
	if len(layout.Ops) != 2 {
		t.Fatalf("len(Ops) = %d, want 2", len(layout.Ops))
	}
	for _, op := range layout.Ops {
		if op.B != (PinAddr{Elem: 0, Pin: 0}) {
			t.Errorf("merge target %+v, want the group's first pin (elem 0 pin 0)", op.B)
		}
	}
}

func TestMap_DigitalPinPermutation(t *testing.T) {
	g := circuit.NewGraph()
	and := circuit.NewAndGate("AND1")
	if err := g.Add(and); err != nil {
		t.Fatalf("Add returned error: %v", err)
	}

	layout, err := Map(g)
	if err != nil {
		t.Fatalf("Map returned error: %v", err)
	}

	want := []int{1, 2, 0} // inputs shift down, output moves to native 0
	if !reflect.DeepEqual(layout.Elements[0].NativePins, want) {
		t.Errorf("NativePins = %v, want %v", layout.Elements[0].NativePins, want)
	}
}

func TestMap_AnalogIdentityPins(t *testing.T) {
	g := circuit.NewGraph()
	tr := circuit.NewTransformer("T1", 2)
	if err := g.Add(tr); err != nil {
		t.Fatalf("Add returned error: %v", err)
	}

	layout, err := Map(g)
	if err != nil {
		t.Fatalf("Map returned error: %v", err)
	}
	if !reflect.DeepEqual(layout.Elements[0].NativePins, []int{0, 1, 2, 3}) {
		t.Errorf("NativePins = %v, want identity", layout.Elements[0].NativePins)
	}
}

func TestMap_MissingParameter(t *testing.T) {
	g := circuit.NewGraph()
	bare := circuit.New("R1", circuit.Resistor, []string{"red", "black"}, nil)
	if err := g.Add(bare); err != nil {
		t.Fatalf("Add returned error: %v", err)
	}

	_, err := Map(g)
	if !errors.IsKind(err, errors.KindInvalidParameters) {
		t.Fatalf("error = %v, want invalid_parameters", err)
	}
	e, _ := errors.As(err)
	if e.Element != "R1" {
		t.Errorf("error names element %q, want R1", e.Element)
	}
}

func TestMap_ZeroRatioTransformer(t *testing.T) {
	g := circuit.NewGraph()
	if err := g.Add(circuit.NewTransformer("T1", 0)); err != nil {
		t.Fatalf("Add returned error: %v", err)
	}
	if _, err := Map(g); !errors.IsKind(err, errors.KindInvalidParameters) {
		t.Fatalf("error = %v, want invalid_parameters", err)
	}
}

func TestMap_PinCountMismatch(t *testing.T) {
	g := circuit.NewGraph()
	odd := circuit.New("R1", circuit.Resistor, []string{"a", "b", "c"}, map[string]float64{circuit.KeyResistance: 1})
	if err := g.Add(odd); err != nil {
		t.Fatalf("Add returned error: %v", err)
	}
	if _, err := Map(g); !errors.IsKind(err, errors.KindInvalidParameters) {
		t.Fatalf("error = %v, want invalid_parameters", err)
	}
}

func TestMap_Deterministic(t *testing.T) {
	build := func() *circuit.Graph {
		g := circuit.NewGraph()
		v := circuit.NewBatterySource("V1", 5)
		r1 := circuit.NewResistor("R1", 1000)
		r2 := circuit.NewResistor("R2", 2000)
		gnd := circuit.NewGround("G0")
		if err := g.Add(v, r1, r2, gnd); err != nil {
			t.Fatalf("Add returned error: %v", err)
		}
		g.Connect(v.Pin(0), r1.Pin(0))
		g.Connect(r1.Pin(1), r2.Pin(0))
		g.Connect(r2.Pin(1), v.Pin(1))
		g.Connect(v.Pin(1), gnd.Pin(0))
		return g
	}

	first, err := Map(build())
	if err != nil {
		t.Fatalf("Map returned error: %v", err)
	}
	for i := 0; i < 10; i++ {
		next, err := Map(build())
		if err != nil {
			t.Fatalf("Map returned error: %v", err)
		}
		if !reflect.DeepEqual(first.Ops, next.Ops) {
			t.Fatalf("run %d produced a different plan", i)
		}
		if len(first.Elements) != len(next.Elements) {
			t.Fatalf("run %d produced a different element count", i)
		}
		for j := range first.Elements {
			if first.Elements[j].Code != next.Elements[j].Code ||
				first.Elements[j].Element.ID() != next.Elements[j].Element.ID() {
				t.Fatalf("run %d changed element order", i)
			}
		}
	}
}

func TestMap_SwitchParamNormalized(t *testing.T) {
	g := circuit.NewGraph()
	sw := circuit.New("S1", circuit.SimpleSwitch, []string{"red", "black"}, map[string]float64{circuit.KeyClosed: 7})
	if err := g.Add(sw); err != nil {
		t.Fatalf("Add returned error: %v", err)
	}
	layout, err := Map(g)
	if err != nil {
		t.Fatalf("Map returned error: %v", err)
	}
	if got := layout.Elements[0].Params; len(got) != 1 || got[0] != 1 {
		t.Errorf("Params = %v, want [1]", got)
	}
}

func TestModels_SortedAndComplete(t *testing.T) {
	infos := Models()
	if len(infos) != len(models) {
		t.Fatalf("Models() returned %d rows, table has %d", len(infos), len(models))
	}
	for i := 1; i < len(infos); i++ {
		if infos[i].Code < infos[i-1].Code {
			t.Fatal("Models() not sorted by code")
		}
	}
	for _, info := range infos {
		if info.Digital != (info.Code >= phyengine.DigitalCodeBase) {
			t.Errorf("%s Digital = %v, disagrees with its code %d", info.Model, info.Digital, info.Code)
		}
	}
}

func TestUnionFind(t *testing.T) {
	u := newUnionFind(6)
	u.union(0, 1)
	u.union(2, 3)
	if u.find(0) == u.find(2) {
		t.Fatal("disjoint sets merged")
	}
	u.union(1, 2)
	if u.find(0) != u.find(3) {
		t.Fatal("transitive union not reflected")
	}
	// Re-merging changes nothing.
	root := u.find(0)
	u.union(3, 0)
	if u.find(0) != root || u.find(5) == root {
		t.Fatal("idempotent union changed the partition")
	}
}
