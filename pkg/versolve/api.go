// Package versolve defines the public types of the version solver: package
// identifiers, the Registry capability that supplies dependency data, the
// term and incompatibility model, and the errors a solve can end in.
package versolve

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/versolve/versolve/pkg/versolve/version"
)

// Package values uniquely identify packages within a single solve.
type Package string

func (p Package) String() string {
	return string(p)
}

// Registry supplies version and dependency data to the solver. Registries
// must be deterministic within a single solve: repeated calls with the same
// arguments return the same results. A Registry that caches may be shared
// read-only across concurrent solves; all other solver state is per-solve.
type Registry interface {
	// Versions returns all known versions of pkg, ordered from highest to
	// lowest. It returns ErrPackageNotFound if the package is unknown.
	Versions(ctx context.Context, pkg Package) ([]version.Version, error)

	// Dependencies returns the dependency constraints declared by the given
	// package version, as a map from package name to constraint string. It
	// returns ErrPackageNotFound or ErrVersionNotFound when the pair is
	// unknown.
	Dependencies(ctx context.Context, pkg Package, v version.Version) (map[Package]string, error)
}

// ErrPackageNotFound is returned by a Registry when a package is unknown.
var ErrPackageNotFound = errors.New("package not found")

// ErrVersionNotFound is returned by a Registry when a package exists but the
// requested version does not.
var ErrVersionNotFound = errors.New("version not found")

// NotSatisfiable is the terminal failure of a solve: the solver derived an
// incompatibility that rules out every choice. The incompatibility and the
// derivation graph it belongs to are sufficient for a caller to render a
// proof of unsatisfiability.
type NotSatisfiable struct {
	// Incompatibility is the terminal incompatibility.
	Incompatibility *Incompatibility
	// Graph holds every incompatibility seen during the solve; parent links
	// of ConflictDerived causes resolve against it.
	Graph *Graph
}

func (e *NotSatisfiable) Error() string {
	const msg = "version constraints not satisfiable"
	if e.Incompatibility == nil {
		return msg
	}
	chain := e.Graph.Causes(e.Incompatibility.ID())
	s := make([]string, len(chain))
	for i, in := range chain {
		s[i] = in.String()
	}
	return fmt.Sprintf("%s:\n%s", msg, strings.Join(s, "\n"))
}

// InternalError reports a violated solver invariant. It indicates a bug in
// the solver, never a property of the dependency graph being solved.
type InternalError struct {
	Reason string
}

func (e *InternalError) Error() string {
	return fmt.Sprintf("internal solver invariant violated: %s", e.Reason)
}
