package sim

import "github.com/physicslab/phyengine-go/circuit"

// Sample is an immutable snapshot of one analysis. Every value is
// copied out of the engine before the snapshot is returned, so a Sample
// stays valid after its circuit closes.
//
// Elements lists the analyzed components in graph insertion order;
// ground placeholders never appear, they create no engine element. The
// maps are keyed by element identity. Voltage and digital lists follow
// the element's declared pin order. Branch current lists hold one value
// per through-branch unknown and are empty for elements without one.
type Sample struct {
	Elements      []*circuit.Element
	PinVoltage    map[string][]float64
	PinDigital    map[string][]bool
	BranchCurrent map[string][]float64
}

func newSample(n int) *Sample {
	return &Sample{
		Elements:      make([]*circuit.Element, 0, n),
		PinVoltage:    make(map[string][]float64, n),
		PinDigital:    make(map[string][]bool, n),
		BranchCurrent: make(map[string][]float64, n),
	}
}
