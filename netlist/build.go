package netlist

import (
	"fmt"
	"sort"
	"strings"

	phyengine "github.com/physicslab/phyengine-go"
	"github.com/physicslab/phyengine-go/circuit"
)

// groundNet is the reserved net name. Members of this net are wired to
// a synthesized ground element.
const groundNet = "0"

// modelDef ties a card model token to the object model: the ModelID
// and the pin layout that nets bind to positionally.
type modelDef struct {
	model circuit.ModelID
	pins  []string
}

var (
	pinsAnalog2 = []string{"red", "black"}
	pinsAnalog4 = []string{"l_up", "l_low", "r_up", "r_low"}
	pinsGate1   = []string{"i", "o"}
	pinsGate2   = []string{"i_up", "i_low", "o"}
	pinsIn2Out2 = []string{"i_up", "i_low", "o_up", "o_low"}
	pinsIn3Out2 = []string{"i_up", "i_mid", "i_low", "o_up", "o_low"}
	pinsMul     = []string{"i_up", "i_upmid", "i_lowmid", "i_low", "o_up", "o_upmid", "o_lowmid", "o_low"}
	pinsRealT   = []string{"i", "o_up", "o_low"}
)

var models = map[string]modelDef{
	"ground":          {circuit.Ground, []string{"i"}},
	"resistor":        {circuit.Resistor, pinsAnalog2},
	"capacitor":       {circuit.BasicCapacitor, pinsAnalog2},
	"inductor":        {circuit.BasicInductor, pinsAnalog2},
	"battery":         {circuit.BatterySource, pinsAnalog2},
	"switch":          {circuit.SimpleSwitch, pinsAnalog2},
	"push_switch":     {circuit.PushSwitch, pinsAnalog2},
	"air_switch":      {circuit.AirSwitch, pinsAnalog2},
	"transformer":     {circuit.Transformer, pinsAnalog4},
	"mutual_inductor": {circuit.MutualInductor, pinsAnalog4},
	"rectifier":       {circuit.Rectifier, pinsAnalog4},
	"logic_input":     {circuit.LogicInput, []string{"o"}},
	"logic_output":    {circuit.LogicOutput, []string{"i"}},
	"yes":             {circuit.YesGate, pinsGate1},
	"no":              {circuit.NoGate, pinsGate1},
	"or":              {circuit.OrGate, pinsGate2},
	"and":             {circuit.AndGate, pinsGate2},
	"xor":             {circuit.XorGate, pinsGate2},
	"xnor":            {circuit.XnorGate, pinsGate2},
	"nand":            {circuit.NandGate, pinsGate2},
	"nor":             {circuit.NorGate, pinsGate2},
	"imp":             {circuit.ImpGate, pinsGate2},
	"nimp":            {circuit.NimpGate, pinsGate2},
	"half_adder":      {circuit.HalfAdder, pinsIn2Out2},
	"full_adder":      {circuit.FullAdder, pinsIn3Out2},
	"half_subtractor": {circuit.HalfSubtractor, pinsIn2Out2},
	"full_subtractor": {circuit.FullSubtractor, pinsIn3Out2},
	"multiplier":      {circuit.Multiplier, pinsMul},
	"d_flipflop":      {circuit.DFlipflop, pinsIn2Out2},
	"t_flipflop":      {circuit.TFlipflop, pinsIn2Out2},
	"real_t_flipflop": {circuit.RealTFlipflop, pinsRealT},
	"jk_flipflop":     {circuit.JKFlipflop, pinsIn3Out2},
}

// Model describes one card model token.
type Model struct {
	Alias string
	ID    circuit.ModelID
	Pins  []string
}

// Models lists every model token the parser accepts, sorted by alias.
func Models() []Model {
	out := make([]Model, 0, len(models))
	for alias, def := range models {
		pins := make([]string, len(def.pins))
		copy(pins, def.pins)
		out = append(out, Model{Alias: alias, ID: def.model, Pins: pins})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Alias < out[j].Alias })
	return out
}

func build(f *netlistFile) (*Deck, error) {
	g := circuit.NewGraph()
	nets := make(map[string][]circuit.Pin)
	var netOrder []string
	var req *phyengine.Request

	for _, ln := range f.Lines {
		switch {
		case ln.Card != nil:
			if err := addCard(g, nets, &netOrder, ln.Card); err != nil {
				return nil, err
			}
		case ln.Directive != nil:
			r, err := buildRequest(ln.Directive)
			if err != nil {
				return nil, err
			}
			if req != nil {
				return nil, fmt.Errorf("netlist: duplicate %s directive", ln.Directive.Name)
			}
			req = r
		}
	}

	if pins := nets[groundNet]; len(pins) > 0 {
		// Ident tokens cannot be "0", so the id is collision free.
		gnd := circuit.NewGround(groundNet)
		if err := g.Add(gnd); err != nil {
			return nil, fmt.Errorf("netlist: %w", err)
		}
		for _, p := range pins {
			if err := g.Connect(p, gnd.Pin(0)); err != nil {
				return nil, fmt.Errorf("netlist: %w", err)
			}
		}
	}
	for _, name := range netOrder {
		if name == groundNet {
			continue
		}
		pins := nets[name]
		for _, p := range pins[1:] {
			if err := g.Connect(pins[0], p); err != nil {
				return nil, fmt.Errorf("netlist: %w", err)
			}
		}
	}
	return &Deck{Graph: g, Request: req}, nil
}

func addCard(g *circuit.Graph, nets map[string][]circuit.Pin, netOrder *[]string, c *card) error {
	def, ok := models[strings.ToLower(c.Model)]
	if !ok {
		return fmt.Errorf("netlist: %s: unknown model %q", c.Name, c.Model)
	}

	var cardNets []string
	var params map[string]float64
	for _, it := range c.Items {
		if it.Net != "" {
			if params != nil {
				return fmt.Errorf("netlist: %s: net %q after parameters", c.Name, it.Net)
			}
			cardNets = append(cardNets, it.Net)
			continue
		}
		if params == nil {
			params = make(map[string]float64)
		}
		v, err := ParseValue(it.Value)
		if err != nil {
			return fmt.Errorf("netlist: %s: parameter %s: %w", c.Name, it.Key, err)
		}
		params[strings.ToLower(it.Key)] = v
	}
	if len(cardNets) != len(def.pins) {
		return fmt.Errorf("netlist: %s: model %s has %d pins, got %d nets",
			c.Name, c.Model, len(def.pins), len(cardNets))
	}

	e := circuit.New(c.Name, def.model, def.pins, params)
	if err := g.Add(e); err != nil {
		return fmt.Errorf("netlist: %w", err)
	}
	for i, net := range cardNets {
		if _, seen := nets[net]; !seen {
			*netOrder = append(*netOrder, net)
		}
		nets[net] = append(nets[net], e.Pin(i))
	}
	return nil
}

func buildRequest(d *directive) (*phyengine.Request, error) {
	if !strings.EqualFold(d.Name, ".analyze") {
		return nil, fmt.Errorf("netlist: unknown directive %s", d.Name)
	}
	req := &phyengine.Request{}
	kindSeen := false
	for _, a := range d.Args {
		if a.Flag != "" {
			if strings.EqualFold(a.Flag, "clk") {
				req.DigitalClock = true
				continue
			}
			if kindSeen {
				return nil, fmt.Errorf("netlist: unexpected analyze argument %q", a.Flag)
			}
			k, err := phyengine.ParseKind(a.Flag)
			if err != nil {
				return nil, fmt.Errorf("netlist: %w", err)
			}
			req.Kind = k
			kindSeen = true
			continue
		}
		v, err := ParseValue(a.Value)
		if err != nil {
			return nil, fmt.Errorf("netlist: analyze %s: %w", a.Key, err)
		}
		switch strings.ToLower(a.Key) {
		case "step":
			req.TRStep = v
		case "stop":
			req.TRStop = v
		case "omega":
			req.ACOmega = v
		default:
			return nil, fmt.Errorf("netlist: unknown analyze parameter %q", a.Key)
		}
	}
	if !kindSeen {
		return nil, fmt.Errorf("netlist: .analyze requires an analysis kind")
	}
	return req, nil
}
