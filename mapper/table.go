package mapper

import (
	"sort"

	phyengine "github.com/physicslab/phyengine-go"
	"github.com/physicslab/phyengine-go/circuit"
	"github.com/physicslab/phyengine-go/errors"
)

// modelSpec is one row of the static support table: the engine type code,
// the declared pin count, the number of through-branch unknowns, the object
// to native pin permutation (nil means identity), and the parameter
// extraction rule.
type modelSpec struct {
	code     phyengine.ElementCode
	pinCount int
	branches int
	pins     []int
	params   func(*circuit.Element) ([]float64, error)
}

// The engine's digital type table orders pins outputs-first, while the
// object model declares inputs first. outputsFirst builds the object-order
// to native-order permutation for a gate with the given shape.
func outputsFirst(inputs, outputs int) []int {
	p := make([]int, inputs+outputs)
	for i := 0; i < inputs; i++ {
		p[i] = outputs + i
	}
	for j := 0; j < outputs; j++ {
		p[inputs+j] = j
	}
	return p
}

func noParams(*circuit.Element) ([]float64, error) { return nil, nil }

func oneParam(key string) func(*circuit.Element) ([]float64, error) {
	return func(e *circuit.Element) ([]float64, error) {
		v, ok := e.Param(key)
		if !ok {
			return nil, missingParam(e, key)
		}
		return []float64{v}, nil
	}
}

// boolParam normalizes any non-zero value to 1.
func boolParam(key string) func(*circuit.Element) ([]float64, error) {
	return func(e *circuit.Element) ([]float64, error) {
		v, ok := e.Param(key)
		if !ok {
			return nil, missingParam(e, key)
		}
		if v != 0 {
			v = 1
		}
		return []float64{v}, nil
	}
}

func transformerParams(e *circuit.Element) ([]float64, error) {
	ratio, ok := e.Param(circuit.KeyRatio)
	if !ok {
		return nil, missingParam(e, circuit.KeyRatio)
	}
	if ratio == 0 {
		return nil, errors.New(errors.PhaseMap, errors.KindInvalidParameters).
			Element(e.ID()).
			Model(string(e.Model())).
			Detail("transformer ratio must be non-zero").
			Build()
	}
	return []float64{ratio}, nil
}

func mutualInductorParams(e *circuit.Element) ([]float64, error) {
	out := make([]float64, 0, 3)
	for _, key := range []string{circuit.KeyInductance1, circuit.KeyInductance2, circuit.KeyCoupling} {
		v, ok := e.Param(key)
		if !ok {
			return nil, missingParam(e, key)
		}
		out = append(out, v)
	}
	return out, nil
}

func missingParam(e *circuit.Element, key string) error {
	return errors.New(errors.PhaseMap, errors.KindInvalidParameters).
		Element(e.ID()).
		Model(string(e.Model())).
		Detail("missing parameter %q", key).
		Build()
}

func gate(code phyengine.ElementCode, inputs, outputs int) modelSpec {
	return modelSpec{
		code:     code,
		pinCount: inputs + outputs,
		pins:     outputsFirst(inputs, outputs),
		params:   noParams,
	}
}

// models is the static support table. A ModelID absent from this table (and
// not the ground placeholder) is unsupported and fails mapping outright.
var models = map[circuit.ModelID]modelSpec{
	circuit.Resistor:       {code: phyengine.CodeResistor, pinCount: 2, params: oneParam(circuit.KeyResistance)},
	circuit.BasicCapacitor: {code: phyengine.CodeCapacitor, pinCount: 2, params: oneParam(circuit.KeyCapacitance)},
	circuit.BasicInductor:  {code: phyengine.CodeInductor, pinCount: 2, params: oneParam(circuit.KeyInductance)},
	circuit.BatterySource:  {code: phyengine.CodeVoltageDC, pinCount: 2, branches: 1, params: oneParam(circuit.KeyVoltage)},
	circuit.SimpleSwitch:   {code: phyengine.CodeSwitch, pinCount: 2, branches: 1, params: boolParam(circuit.KeyClosed)},
	circuit.PushSwitch:     {code: phyengine.CodeSwitch, pinCount: 2, branches: 1, params: boolParam(circuit.KeyClosed)},
	circuit.AirSwitch:      {code: phyengine.CodeSwitch, pinCount: 2, branches: 1, params: boolParam(circuit.KeyClosed)},
	circuit.Transformer:    {code: phyengine.CodeTransformer, pinCount: 4, branches: 2, params: transformerParams},
	circuit.MutualInductor: {code: phyengine.CodeCoupledInductors, pinCount: 4, branches: 2, params: mutualInductorParams},
	circuit.Rectifier:      {code: phyengine.CodeRectifier, pinCount: 4, params: noParams},

	circuit.LogicInput: {code: phyengine.CodeLogicInput, pinCount: 1, params: boolParam(circuit.KeyState)},
	circuit.LogicOutput: {
		code: phyengine.CodeLogicOutput, pinCount: 1, params: noParams,
	},
	circuit.OrGate:         gate(phyengine.CodeOrGate, 2, 1),
	circuit.YesGate:        gate(phyengine.CodeYesGate, 1, 1),
	circuit.AndGate:        gate(phyengine.CodeAndGate, 2, 1),
	circuit.NoGate:         gate(phyengine.CodeNoGate, 1, 1),
	circuit.XorGate:        gate(phyengine.CodeXorGate, 2, 1),
	circuit.XnorGate:       gate(phyengine.CodeXnorGate, 2, 1),
	circuit.NandGate:       gate(phyengine.CodeNandGate, 2, 1),
	circuit.NorGate:        gate(phyengine.CodeNorGate, 2, 1),
	circuit.ImpGate:        gate(phyengine.CodeImpGate, 2, 1),
	circuit.NimpGate:       gate(phyengine.CodeNimpGate, 2, 1),
	circuit.HalfAdder:      gate(phyengine.CodeHalfAdder, 2, 2),
	circuit.FullAdder:      gate(phyengine.CodeFullAdder, 3, 2),
	circuit.HalfSubtractor: gate(phyengine.CodeHalfSubtractor, 2, 2),
	circuit.FullSubtractor: gate(phyengine.CodeFullSubtractor, 3, 2),
	circuit.Multiplier:     gate(phyengine.CodeMultiplier, 4, 4),
	circuit.DFlipflop:      gate(phyengine.CodeDFlipflop, 2, 2),
	circuit.TFlipflop:      gate(phyengine.CodeTFlipflop, 2, 2),
	circuit.RealTFlipflop:  gate(phyengine.CodeRealTFlipflop, 1, 2),
	circuit.JKFlipflop:     gate(phyengine.CodeJKFlipflop, 3, 2),
}

// Supported reports whether the ModelID maps to an engine element. The
// ground placeholder is handled separately and reports false here.
func Supported(m circuit.ModelID) bool {
	_, ok := models[m]
	return ok
}

// ModelInfo is one support table row in exported form.
type ModelInfo struct {
	Model    circuit.ModelID
	Code     phyengine.ElementCode
	Pins     int
	Branches int
	Digital  bool
}

// Models returns the support table ordered by engine code, then ModelID.
// The ground placeholder is not listed; it produces no engine element.
func Models() []ModelInfo {
	out := make([]ModelInfo, 0, len(models))
	for m, spec := range models {
		out = append(out, ModelInfo{
			Model:    m,
			Code:     spec.code,
			Pins:     spec.pinCount,
			Branches: spec.branches,
			Digital:  spec.code.Digital(),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Code != out[j].Code {
			return out[i].Code < out[j].Code
		}
		return out[i].Model < out[j].Model
	})
	return out
}
