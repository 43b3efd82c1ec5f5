package root

import (
	"github.com/spf13/cobra"

	"github.com/versolve/versolve/cmd/resolve"
)

func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "versolve",
		Short: "Versolve is a package version solver",
		Long: `A conflict-driven package version solver written in Go.
Given a registry of package versions and their dependency constraints,
it finds a set of mutually compatible versions or explains why none exists.`,
	}

	// add sub-commands
	rootCmd.AddCommand(resolve.NewResolveCommand())

	return rootCmd
}
