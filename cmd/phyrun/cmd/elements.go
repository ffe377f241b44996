package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/physicslab/phyengine-go/circuit"
	"github.com/physicslab/phyengine-go/mapper"
	"github.com/physicslab/phyengine-go/netlist"
)

var elementsCmd = &cobra.Command{
	Use:   "elements",
	Short: "Print the supported element table",
	Long: `List every element the netlist format accepts: its card alias, object
model, engine element code, pin count, through-branch count, and
whether it is analog or digital.`,
	Args: cobra.NoArgs,
	RunE: runElements,
}

func init() {
	rootCmd.AddCommand(elementsCmd)
}

func runElements(cmd *cobra.Command, args []string) error {
	info := make(map[circuit.ModelID]mapper.ModelInfo)
	for _, mi := range mapper.Models() {
		info[mi.Model] = mi
	}

	t := newTable("ALIAS", "MODEL", "CODE", "PINS", "BRANCHES", "KIND")
	for _, m := range netlist.Models() {
		mi, ok := info[m.ID]
		if !ok {
			// The ground placeholder never reaches the engine.
			t.Row(m.Alias, string(m.ID), "-", strconv.Itoa(len(m.Pins)), "-", "net alias")
			continue
		}
		kind := "analog"
		if mi.Digital {
			kind = "digital"
		}
		t.Row(m.Alias, string(m.ID),
			strconv.Itoa(int(mi.Code)),
			strconv.Itoa(mi.Pins),
			strconv.Itoa(mi.Branches),
			kind)
	}
	fmt.Fprintln(cmd.OutOrStdout(), t)
	return nil
}
