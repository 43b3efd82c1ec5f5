package resolve

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/versolve/versolve/pkg/versolve"
	"github.com/versolve/versolve/pkg/versolve/registry"
	"github.com/versolve/versolve/pkg/versolve/solver"
	"github.com/versolve/versolve/pkg/versolve/version"
)

func NewResolveCommand() *cobra.Command {
	var registryPath string
	var trace bool

	cmd := &cobra.Command{
		Use:   "resolve <package> <version>",
		Short: "Resolves compatible versions for a package's dependency graph",
		Long: `Resolves a set of mutually compatible package versions for the given
root package, reading version and dependency data from a YAML registry file:

packages:
  root:
    "1.0.0":
      foo: "^1.0.0"
  foo:
    "1.0.0": {}

Supported constraints: exact ("1.2.3"), caret ("^1.2.3"), tilde ("~1.2.3")
and inequality ranges (">=1.0.0, <2.0.0").
`,
		Args: cobra.ExactArgs(2),
		PreRunE: func(cmd *cobra.Command, args []string) error {
			if _, err := os.Stat(registryPath); errors.Is(err, os.ErrNotExist) {
				return fmt.Errorf("registry file (%s) not found", registryPath)
			}
			if _, err := version.Parse(args[1]); err != nil {
				return err
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return solve(registryPath, versolve.Package(args[0]), version.MustParse(args[1]), trace)
		},
	}
	cmd.Flags().StringVarP(&registryPath, "registry", "r", "registry.yaml", "path to the YAML registry file")
	cmd.Flags().BoolVar(&trace, "trace", false, "stream solver steps to stderr")
	return cmd
}

func solve(path string, root versolve.Package, rootVersion version.Version, trace bool) error {
	reg, err := registry.LoadFile(path)
	if err != nil {
		return err
	}

	var options []solver.Option
	if trace {
		options = append(options, solver.WithTraceWriter(os.Stderr))
	}

	solution, err := solver.New(reg).Solve(context.Background(), root, rootVersion, options...)
	if err != nil {
		return err
	}
	if solErr := solution.Error(); solErr != nil {
		fmt.Printf("no solution found: %s\n", solErr)
		return nil
	}

	selection := solution.Selection()
	pkgs := make([]versolve.Package, 0, len(selection))
	for pkg := range selection {
		pkgs = append(pkgs, pkg)
	}
	sort.Slice(pkgs, func(i, j int) bool { return pkgs[i] < pkgs[j] })
	fmt.Println("solution found:")
	for _, pkg := range pkgs {
		fmt.Printf("%s = %s\n", pkg, selection[pkg])
	}
	return nil
}
