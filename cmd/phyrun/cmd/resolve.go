package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/physicslab/phyengine-go/engine"
	"github.com/physicslab/phyengine-go/errors"
)

var resolveCmd = &cobra.Command{
	Use:   "resolve",
	Short: "Show which engine library the bridge would load",
	Long: `Resolve the engine library the way the bridge does: the --lib flag
first, then the ` + engine.EnvLibraryPath + ` environment variable, then
the well-known install locations. Prints the winning path, or every
path tried when nothing resolves.`,
	Args: cobra.NoArgs,
	RunE: runResolve,
}

func init() {
	rootCmd.AddCommand(resolveCmd)
}

func runResolve(cmd *cobra.Command, args []string) error {
	path, err := engine.Resolve(libPath)
	if err != nil {
		if be, ok := errors.As(err); ok && len(be.Paths) > 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "no engine library found; paths tried:")
			for _, p := range be.Paths {
				fmt.Fprintln(cmd.OutOrStdout(), "  "+p)
			}
		}
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), path)
	return nil
}
