package cmd

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <netlist>",
	Short: "Interactively inspect a circuit",
	Long: `Build a netlist in the engine and walk its elements interactively:
pick an element to see its pin voltages, logic levels, and branch
currents, rerun with a different analysis, or step the digital clock.

The circuit stays built for the whole session, so flip-flop state
carries across clock steps.`,
	Args: cobra.ExactArgs(1),
	RunE: runInspect,
}

func init() {
	rootCmd.AddCommand(inspectCmd)
}

func runInspect(cmd *cobra.Command, args []string) error {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("inspect needs a terminal; use analyze --json for scripts")
	}
	p := tea.NewProgram(newInspectModel(args[0], simOptions()), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
