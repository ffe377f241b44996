// Package netlist parses a line-oriented circuit description into a
// circuit.Graph and an optional analysis request.
//
// # Format
//
// Each non-blank line is either a comment, a card, or a directive.
// Comments start with *. A card declares one element:
//
//	<name> <model> <net...> [key=value ...]
//
// The model token picks an entry from the model table (resistor,
// battery, and, d_flipflop, ...) and the nets bind positionally to
// that model's pins. Two pins on the same net are connected. The net
// named 0 is ground: its members are wired to a synthesized ground
// element. Parameter values accept SPICE unit suffixes (1k, 4.7u,
// 2meg).
//
// A directive starts with a dot. The only one is .analyze, which maps
// onto an engine analysis request:
//
//	.analyze <kind> [step=<s>] [stop=<s>] [omega=<rad/s>] [clk]
//
// The kind is an analysis name or code accepted by phyengine.ParseKind.
// step and stop feed transient runs, omega feeds AC runs, and clk
// requests one digital clock step after the solve.
//
// # Example
//
//	* voltage divider
//	V1 battery 1 0 voltage=5
//	R1 resistor 1 2 resistance=500
//	R2 resistor 2 0 resistance=500
//	.analyze OP
package netlist
