package mapper

import (
	phyengine "github.com/physicslab/phyengine-go"
	"github.com/physicslab/phyengine-go/circuit"
	"github.com/physicslab/phyengine-go/errors"
)

// NativeElement is one engine element to be created: the source object,
// its type code and parameter list, the object-to-native pin permutation,
// and the number of branch currents it will expose.
type NativeElement struct {
	Element    *circuit.Element
	Code       phyengine.ElementCode
	Params     []float64
	NativePins []int
	Branches   int
}

// NativePin translates an object-model pin index into the engine's index
// space for this element.
func (n *NativeElement) NativePin(objPin int) int {
	return n.NativePins[objPin]
}

// PinAddr addresses a pin of a planned element: the element's position in
// Layout.Elements and the pin index in the engine's space.
type PinAddr struct {
	Elem int
	Pin  int
}

// MergeOp is one connectivity call in the build plan. When Ground is set,
// pin A is merged into the implicit ground node; otherwise A is merged
// with B. Ops are ordered and idempotent, so replaying a plan is harmless.
type MergeOp struct {
	Ground bool
	A      PinAddr
	B      PinAddr
}

// Layout is the full translation of a graph: the elements to create, in
// the graph's insertion order with ground placeholders removed, and the
// ordered merge plan realizing the graph's connectivity.
type Layout struct {
	Elements []NativeElement
	Ops      []MergeOp
}

// element roles, decided once during classification
type role int

const (
	roleOrdinary role = iota
	roleGround
)

// Map translates a graph into a Layout. It is pure: no engine calls are
// made, so a failed mapping leaves nothing to roll back. The first element
// whose ModelID is not in the support table aborts with UnsupportedElement;
// parameter problems abort with InvalidParameters naming the element.
func Map(g *circuit.Graph) (*Layout, error) {
	elems := g.Elements()

	layout := &Layout{}
	roles := make([]role, len(elems))
	layoutIdx := make([]int, len(elems))
	elemIdx := make(map[*circuit.Element]int, len(elems))

	for i, e := range elems {
		elemIdx[e] = i
		if e.Model() == circuit.Ground {
			roles[i] = roleGround
			layoutIdx[i] = -1
			continue
		}

		spec, ok := models[e.Model()]
		if !ok {
			return nil, errors.UnsupportedElement(e.ID(), string(e.Model()))
		}
		if e.PinCount() != spec.pinCount {
			return nil, errors.New(errors.PhaseMap, errors.KindInvalidParameters).
				Element(e.ID()).
				Model(string(e.Model())).
				Detail("declared %d pins, model has %d", e.PinCount(), spec.pinCount).
				Build()
		}
		params, err := spec.params(e)
		if err != nil {
			return nil, err
		}

		pins := spec.pins
		if pins == nil {
			pins = identity(spec.pinCount)
		}

		roles[i] = roleOrdinary
		layoutIdx[i] = len(layout.Elements)
		layout.Elements = append(layout.Elements, NativeElement{
			Element:    e,
			Code:       spec.code,
			Params:     params,
			NativePins: pins,
			Branches:   spec.branches,
		})
	}

	// Dense pin keys: offsets[i] is the key of element i's pin 0.
	offsets := make([]int, len(elems))
	total := 0
	for i, e := range elems {
		offsets[i] = total
		total += e.PinCount()
	}

	uf := newUnionFind(total)
	for _, w := range g.Wires() {
		a := offsets[elemIdx[w.A.Element()]] + w.A.Index()
		b := offsets[elemIdx[w.B.Element()]] + w.B.Index()
		uf.union(a, b)
	}

	// Collect pin groups in first-appearance order, scanning elements in
	// insertion order and pins in object order.
	groupOf := make(map[int]int, total)
	type group struct {
		grounded bool
		pins     []PinAddr
	}
	var groups []*group

	key := 0
	for i, e := range elems {
		for p := 0; p < e.PinCount(); p++ {
			root := uf.find(key)
			gi, seen := groupOf[root]
			if !seen {
				gi = len(groups)
				groupOf[root] = gi
				groups = append(groups, &group{})
			}
			grp := groups[gi]
			if roles[i] == roleGround {
				grp.grounded = true
			} else {
				grp.pins = append(grp.pins, PinAddr{
					Elem: layoutIdx[i],
					Pin:  layout.Elements[layoutIdx[i]].NativePin(p),
				})
			}
			key++
		}
	}

	for _, grp := range groups {
		if grp.grounded {
			for _, p := range grp.pins {
				layout.Ops = append(layout.Ops, MergeOp{Ground: true, A: p})
			}
			continue
		}
		for _, p := range grp.pins[1:] {
			layout.Ops = append(layout.Ops, MergeOp{A: p, B: grp.pins[0]})
		}
	}

	return layout, nil
}

func identity(n int) []int {
	p := make([]int, n)
	for i := range p {
		p[i] = i
	}
	return p
}
