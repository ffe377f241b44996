package enginetest

import (
	phyengine "github.com/physicslab/phyengine-go"
)

// shape describes one element code the way the solver sees it: total pin
// count in native order, required parameter count, through-branch
// unknowns, and how many leading pins are driven outputs (digital codes
// order pins outputs-first).
type shape struct {
	pins     int
	params   int
	branches int
	outputs  int
}

// shapes is the solver-side type table. Ground (code 0) is deliberately
// absent: grounding happens through pin merges against the reserved
// reference, never through an element.
var shapes = map[phyengine.ElementCode]shape{
	phyengine.CodeResistor:         {pins: 2, params: 1},
	phyengine.CodeCapacitor:        {pins: 2, params: 1},
	phyengine.CodeInductor:         {pins: 2, params: 1},
	phyengine.CodeVoltageDC:        {pins: 2, params: 1, branches: 1},
	phyengine.CodeSwitch:           {pins: 2, params: 1, branches: 1},
	phyengine.CodeTransformer:      {pins: 4, params: 1, branches: 2},
	phyengine.CodeCoupledInductors: {pins: 4, params: 3, branches: 2},
	phyengine.CodeRectifier:        {pins: 4},

	phyengine.CodeLogicInput:     {pins: 1, params: 1, outputs: 1},
	phyengine.CodeLogicOutput:    {pins: 1},
	phyengine.CodeOrGate:         {pins: 3, outputs: 1},
	phyengine.CodeYesGate:        {pins: 2, outputs: 1},
	phyengine.CodeAndGate:        {pins: 3, outputs: 1},
	phyengine.CodeNoGate:         {pins: 2, outputs: 1},
	phyengine.CodeXorGate:        {pins: 3, outputs: 1},
	phyengine.CodeXnorGate:       {pins: 3, outputs: 1},
	phyengine.CodeNandGate:       {pins: 3, outputs: 1},
	phyengine.CodeNorGate:        {pins: 3, outputs: 1},
	phyengine.CodeImpGate:        {pins: 3, outputs: 1},
	phyengine.CodeNimpGate:       {pins: 3, outputs: 1},
	phyengine.CodeHalfAdder:      {pins: 4, outputs: 2},
	phyengine.CodeFullAdder:      {pins: 5, outputs: 2},
	phyengine.CodeHalfSubtractor: {pins: 4, outputs: 2},
	phyengine.CodeFullSubtractor: {pins: 5, outputs: 2},
	phyengine.CodeMultiplier:     {pins: 8, outputs: 4},
	phyengine.CodeDFlipflop:      {pins: 4, outputs: 2},
	phyengine.CodeTFlipflop:      {pins: 4, outputs: 2},
	phyengine.CodeRealTFlipflop:  {pins: 3, outputs: 2},
	phyengine.CodeJKFlipflop:     {pins: 5, outputs: 2},
}
