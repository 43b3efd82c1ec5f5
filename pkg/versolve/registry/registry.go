// Package registry provides Registry backends: an in-memory fixture used by
// tests and the CLI, and a YAML loader for it. Registry backends are
// interchangeable; the solver only sees the versolve.Registry contract.
package registry

import (
	"context"
	"fmt"
	"sort"

	"github.com/versolve/versolve/pkg/versolve"
	"github.com/versolve/versolve/pkg/versolve/version"
)

type fixtureVersion struct {
	version version.Version
	deps    map[versolve.Package]string
}

// Fixture is an in-memory Registry. Populate it with Add, then treat it as
// read-only: a populated Fixture is safe to share across concurrent solves.
type Fixture struct {
	packages map[versolve.Package][]fixtureVersion
}

var _ versolve.Registry = (*Fixture)(nil)

func NewFixture() *Fixture {
	return &Fixture{packages: map[versolve.Package][]fixtureVersion{}}
}

// Add registers a package version with its dependency constraints. A nil
// deps map means the version has no dependencies. Add panics on a malformed
// version string; it is a fixture builder, not a parsing boundary. It returns
// the Fixture for chaining.
func (f *Fixture) Add(pkg versolve.Package, v string, deps map[versolve.Package]string) *Fixture {
	parsed := version.MustParse(v)
	if deps == nil {
		deps = map[versolve.Package]string{}
	}
	versions := append(f.packages[pkg], fixtureVersion{version: parsed, deps: deps})
	sort.Slice(versions, func(i, j int) bool {
		return versions[i].version.Compare(versions[j].version) > 0
	})
	f.packages[pkg] = versions
	return f
}

// Versions returns all known versions of pkg, highest first.
func (f *Fixture) Versions(_ context.Context, pkg versolve.Package) ([]version.Version, error) {
	versions, ok := f.packages[pkg]
	if !ok {
		return nil, fmt.Errorf("%q: %w", pkg, versolve.ErrPackageNotFound)
	}
	out := make([]version.Version, len(versions))
	for i, fv := range versions {
		out[i] = fv.version
	}
	return out, nil
}

// Dependencies returns the dependency constraints of pkg at v.
func (f *Fixture) Dependencies(_ context.Context, pkg versolve.Package, v version.Version) (map[versolve.Package]string, error) {
	versions, ok := f.packages[pkg]
	if !ok {
		return nil, fmt.Errorf("%q: %w", pkg, versolve.ErrPackageNotFound)
	}
	for _, fv := range versions {
		if fv.version.Equal(v) {
			out := make(map[versolve.Package]string, len(fv.deps))
			for dep, constraint := range fv.deps {
				out[dep] = constraint
			}
			return out, nil
		}
	}
	return nil, fmt.Errorf("%q %s: %w", pkg, v, versolve.ErrVersionNotFound)
}
