package cmd

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	phyengine "github.com/physicslab/phyengine-go"
	"github.com/physicslab/phyengine-go/circuit"
	"github.com/physicslab/phyengine-go/mapper"
	"github.com/physicslab/phyengine-go/sim"
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	cellStyle = lipgloss.NewStyle().Padding(0, 1)

	borderStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(borderStyle).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		}).
		Headers(headers...)
}

func digitalModels() map[circuit.ModelID]bool {
	out := make(map[circuit.ModelID]bool)
	for _, mi := range mapper.Models() {
		out[mi.Model] = mi.Digital
	}
	return out
}

func writeTables(cmd *cobra.Command, req phyengine.Request, s *sim.Sample) {
	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "analysis: %s\n", req.Kind)

	digital := digitalModels()
	pins := newTable("ELEMENT", "MODEL", "PIN", "VOLTS", "LOGIC")
	for _, e := range s.Elements {
		id := e.ID()
		volts := s.PinVoltage[id]
		logic := s.PinDigital[id]
		for p := 0; p < e.PinCount(); p++ {
			elem, model := id, string(e.Model())
			if p > 0 {
				elem, model = "", ""
			}
			voltCell, logicCell := formatNumber(volts[p]), "-"
			if digital[e.Model()] {
				voltCell, logicCell = "-", formatLogic(logic[p])
			}
			pins.Row(elem, model, e.PinName(p), voltCell, logicCell)
		}
	}
	fmt.Fprintln(w, pins)

	branches := newTable("ELEMENT", "BRANCH", "AMPS")
	rows := 0
	for _, e := range s.Elements {
		for i, amps := range s.BranchCurrent[e.ID()] {
			branches.Row(e.ID(), strconv.Itoa(i), formatNumber(amps))
			rows++
		}
	}
	if rows > 0 {
		fmt.Fprintln(w, branches)
	}
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'g', 6, 64)
}

func formatLogic(high bool) string {
	if high {
		return "high"
	}
	return "low"
}

type elementJSON struct {
	ID    string    `json:"id"`
	Model string    `json:"model"`
	Pins  []string  `json:"pins"`
	Volts []float64 `json:"pin_voltage"`
	Logic []bool    `json:"pin_digital"`
	Amps  []float64 `json:"branch_current,omitempty"`
}

type sampleJSON struct {
	Kind     string        `json:"kind"`
	Clock    bool          `json:"digital_clock,omitempty"`
	Elements []elementJSON `json:"elements"`
}

func writeJSON(cmd *cobra.Command, req phyengine.Request, s *sim.Sample) error {
	out := sampleJSON{Kind: req.Kind.String(), Clock: req.DigitalClock}
	for _, e := range s.Elements {
		id := e.ID()
		pins := make([]string, e.PinCount())
		for i := range pins {
			pins[i] = e.PinName(i)
		}
		out.Elements = append(out.Elements, elementJSON{
			ID:    id,
			Model: string(e.Model()),
			Pins:  pins,
			Volts: s.PinVoltage[id],
			Logic: s.PinDigital[id],
			Amps:  s.BranchCurrent[id],
		})
	}
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
