package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/physicslab/phyengine-go/engine"
	"github.com/physicslab/phyengine-go/enginetest"
	"github.com/physicslab/phyengine-go/sim"
)

var (
	// Global flags
	verbose bool
	fake    bool
	libPath string
)

var rootCmd = &cobra.Command{
	Use:   "phyrun",
	Short: "Circuit analysis through the Phy-Engine bridge",
	Long: `phyrun parses netlist files and runs them against the native Phy-Engine
solver library, or against the built-in reference engine.

Examples:
  phyrun analyze divider.cir                        # run the deck's .analyze directive
  phyrun analyze --kind TR --step 1u --stop 2m rc.cir
  phyrun analyze --fake --json adder.cir            # reference engine, machine output
  phyrun resolve                                    # show which library would load
  phyrun elements                                   # supported element table
  phyrun inspect divider.cir                        # interactive inspector`,
	Version:           "0.3.0",
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setupLogging,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false,
		"verbose engine logging")
	rootCmd.PersistentFlags().BoolVar(&fake, "fake", false,
		"use the built-in reference engine instead of a native library")
	rootCmd.PersistentFlags().StringVar(&libPath, "lib", "",
		"explicit engine library path")
}

func setupLogging(cmd *cobra.Command, args []string) error {
	if !verbose {
		return nil
	}
	logger, err := zap.NewDevelopment()
	if err != nil {
		return err
	}
	engine.SetLogger(logger)
	sim.SetLogger(logger)
	return nil
}

// simOptions translates the global flags into bridge options.
func simOptions() []sim.Option {
	if fake {
		return []sim.Option{sim.WithBinding(enginetest.New())}
	}
	var opts []sim.Option
	if libPath != "" {
		opts = append(opts, sim.WithLibraryPath(libPath))
	}
	return opts
}
