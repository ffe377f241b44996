package sim

import (
	phyengine "github.com/physicslab/phyengine-go"
	"github.com/physicslab/phyengine-go/mapper"
)

// extract reads every mapped element's results out of the engine. Pin
// values come back in the object model's declared order through the
// correspondence table, whatever the engine's internal indexing.
// Digital state is read for every pin; engines report false on pins of
// purely analog elements.
func extract(abi phyengine.ABI, h phyengine.Handle, layout *mapper.Layout, refs []phyengine.ElementRef) (*Sample, error) {
	s := newSample(len(layout.Elements))
	for i := range layout.Elements {
		ne := &layout.Elements[i]
		e := ne.Element
		ref := refs[i]

		volts := make([]float64, e.PinCount())
		digital := make([]bool, e.PinCount())
		for p := range volts {
			np := ne.NativePin(p)
			v, err := abi.PinVoltage(h, ref, np)
			if err != nil {
				return nil, err
			}
			volts[p] = v
			d, err := abi.PinDigital(h, ref, np)
			if err != nil {
				return nil, err
			}
			digital[p] = d
		}

		var amps []float64
		if ne.Branches > 0 {
			amps = make([]float64, ne.Branches)
			for b := range amps {
				a, err := abi.BranchCurrent(h, ref, b)
				if err != nil {
					return nil, err
				}
				amps[b] = a
			}
		}

		id := e.ID()
		s.Elements = append(s.Elements, e)
		s.PinVoltage[id] = volts
		s.PinDigital[id] = digital
		s.BranchCurrent[id] = amps
	}
	return s, nil
}
