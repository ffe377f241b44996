package cmd

import (
	"github.com/spf13/cobra"

	phyengine "github.com/physicslab/phyengine-go"
	"github.com/physicslab/phyengine-go/netlist"
	"github.com/physicslab/phyengine-go/sim"
)

var (
	kindFlag  string
	stepFlag  string
	stopFlag  string
	omegaFlag string
	clkFlag   bool
	jsonFlag  bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <netlist>",
	Short: "Run a netlist through the engine and print the readings",
	Long: `Parse a netlist file, build the circuit in the engine, run the analysis
from its .analyze directive, and print every element's pin voltages,
logic levels, and branch currents. A deck without a directive gets an
operating-point run; flags override individual directive fields.

Examples:
  phyrun analyze divider.cir
  phyrun analyze --kind TR --step 1u --stop 2m rc.cir
  phyrun analyze --fake --clk counter.cir`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().StringVar(&kindFlag, "kind", "",
		"analysis kind (OP, DC, AC, ACOP, TR, TROP)")
	analyzeCmd.Flags().StringVar(&stepFlag, "step", "",
		"transient time step in seconds, unit suffixes allowed")
	analyzeCmd.Flags().StringVar(&stopFlag, "stop", "",
		"transient stop time in seconds")
	analyzeCmd.Flags().StringVar(&omegaFlag, "omega", "",
		"AC angular frequency in rad/s")
	analyzeCmd.Flags().BoolVar(&clkFlag, "clk", false,
		"step the digital clock after the solve")
	analyzeCmd.Flags().BoolVar(&jsonFlag, "json", false,
		"machine-readable output")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	deck, err := netlist.ParseFile(args[0])
	if err != nil {
		return err
	}
	req, err := requestFromFlags(deck)
	if err != nil {
		return err
	}
	sample, err := sim.Analyze(deck.Graph, req, simOptions()...)
	if err != nil {
		return err
	}
	if jsonFlag {
		return writeJSON(cmd, req, sample)
	}
	writeTables(cmd, req, sample)
	return nil
}

// requestFromFlags starts from the deck's directive and lets flags
// override individual fields.
func requestFromFlags(deck *netlist.Deck) (phyengine.Request, error) {
	req := phyengine.Request{Kind: phyengine.KindOP}
	if deck.Request != nil {
		req = *deck.Request
	}
	if kindFlag != "" {
		k, err := phyengine.ParseKind(kindFlag)
		if err != nil {
			return req, err
		}
		req.Kind = k
	}
	overrides := []struct {
		raw string
		dst *float64
	}{
		{stepFlag, &req.TRStep},
		{stopFlag, &req.TRStop},
		{omegaFlag, &req.ACOmega},
	}
	for _, o := range overrides {
		if o.raw == "" {
			continue
		}
		v, err := netlist.ParseValue(o.raw)
		if err != nil {
			return req, err
		}
		*o.dst = v
	}
	if clkFlag {
		req.DigitalClock = true
	}
	return req, nil
}
