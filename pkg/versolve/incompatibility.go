package versolve

import (
	"fmt"
	"sort"
	"strings"
)

// ID is the stable identity of an incompatibility within one solve. IDs index
// into the Graph arena; ConflictDerived causes reference their parents by ID
// rather than by pointer, so the derivation graph has no ownership cycles.
type ID int

// CauseKind tags how an incompatibility came to be known.
type CauseKind int

const (
	// CauseRootDependency: declared by the root package.
	CauseRootDependency CauseKind = iota
	// CauseDependency: introduced by a decided package version's dependency.
	CauseDependency
	// CauseNoVersionsAvailable: no version of a package satisfies a required
	// set.
	CauseNoVersionsAvailable
	// CausePackageUnavailable: the registry could not supply a package or
	// version it was asked about.
	CausePackageUnavailable
	// CauseConflictDerived: learned by resolving two prior incompatibilities
	// during conflict resolution.
	CauseConflictDerived
)

// Cause records the provenance of an incompatibility.
type Cause struct {
	Kind CauseKind
	// Package is set for Dependency, NoVersionsAvailable and
	// PackageUnavailable causes.
	Package Package
	// ParentA and ParentB are set for ConflictDerived causes.
	ParentA, ParentB ID
}

func (c Cause) String() string {
	switch c.Kind {
	case CauseRootDependency:
		return "root dependency"
	case CauseDependency:
		return fmt.Sprintf("dependency of %s", c.Package)
	case CauseNoVersionsAvailable:
		return fmt.Sprintf("no versions of %s available", c.Package)
	case CausePackageUnavailable:
		return fmt.Sprintf("%s unavailable", c.Package)
	default:
		return fmt.Sprintf("derived from %d and %d", c.ParentA, c.ParentB)
	}
}

// Incompatibility is an immutable set of terms over distinct packages that
// cannot all hold at once. An incompatibility with no terms is the
// unsatisfiable sentinel.
type Incompatibility struct {
	id    ID
	terms map[Package]Term
	cause Cause
}

func (in *Incompatibility) ID() ID {
	return in.id
}

func (in *Incompatibility) Cause() Cause {
	return in.cause
}

// Len returns the number of terms.
func (in *Incompatibility) Len() int {
	return len(in.terms)
}

// Term returns the term for pkg, if any.
func (in *Incompatibility) Term(pkg Package) (Term, bool) {
	t, ok := in.terms[pkg]
	return t, ok
}

// Packages returns the packages referenced by the incompatibility, sorted by
// name.
func (in *Incompatibility) Packages() []Package {
	pkgs := make([]Package, 0, len(in.terms))
	for pkg := range in.terms {
		pkgs = append(pkgs, pkg)
	}
	sort.Slice(pkgs, func(i, j int) bool { return pkgs[i] < pkgs[j] })
	return pkgs
}

func (in *Incompatibility) String() string {
	if len(in.terms) == 0 {
		return "no valid selection exists"
	}
	parts := make([]string, 0, len(in.terms))
	for _, pkg := range in.Packages() {
		parts = append(parts, in.terms[pkg].String())
	}
	return fmt.Sprintf("{%s} (%s)", strings.Join(parts, ", "), in.cause)
}

// signature is a canonical rendering of the term set, used to detect when the
// same incompatibility would be derived twice.
func (in *Incompatibility) signature() string {
	parts := make([]string, 0, len(in.terms))
	for _, pkg := range in.Packages() {
		parts = append(parts, in.terms[pkg].String())
	}
	return strings.Join(parts, "|")
}

// Graph is the arena of all incompatibilities known to one solve, indexed by
// ID. It only grows: incompatibilities are immutable once added and are never
// removed, even across backjumps.
type Graph struct {
	incompatibilities []*Incompatibility
	byPackage         map[Package][]ID
	bySignature       map[string]ID
}

// NewGraph returns an empty derivation graph.
func NewGraph() *Graph {
	return &Graph{
		byPackage:   map[Package][]ID{},
		bySignature: map[string]ID{},
	}
}

// Add records a new incompatibility built from the given terms and cause and
// returns it. Terms over the same package are combined by intersection.
func (g *Graph) Add(terms []Term, cause Cause) *Incompatibility {
	byPkg := make(map[Package]Term, len(terms))
	for _, t := range terms {
		if prev, ok := byPkg[t.Package()]; ok {
			byPkg[t.Package()] = prev.Intersect(t)
			continue
		}
		byPkg[t.Package()] = t
	}
	in := &Incompatibility{
		id:    ID(len(g.incompatibilities)),
		terms: byPkg,
		cause: cause,
	}
	g.incompatibilities = append(g.incompatibilities, in)
	g.bySignature[in.signature()] = in.id
	for pkg := range byPkg {
		g.byPackage[pkg] = append(g.byPackage[pkg], in.id)
	}
	return in
}

// Get returns the incompatibility with the given ID.
func (g *Graph) Get(id ID) *Incompatibility {
	return g.incompatibilities[int(id)]
}

// Len returns the number of incompatibilities in the graph.
func (g *Graph) Len() int {
	return len(g.incompatibilities)
}

// Referencing returns the IDs of all incompatibilities with a term over pkg,
// in insertion order.
func (g *Graph) Referencing(pkg Package) []ID {
	return g.byPackage[pkg]
}

// Lookup returns the ID of an incompatibility with exactly the given terms,
// if one was already added.
func (g *Graph) Lookup(terms []Term) (ID, bool) {
	probe := &Incompatibility{terms: make(map[Package]Term, len(terms))}
	for _, t := range terms {
		if prev, ok := probe.terms[t.Package()]; ok {
			probe.terms[t.Package()] = prev.Intersect(t)
			continue
		}
		probe.terms[t.Package()] = t
	}
	id, ok := g.bySignature[probe.signature()]
	return id, ok
}

// Causes returns the transitive causes of the incompatibility with the given
// ID, in derivation order (leaves first, the incompatibility itself last).
// This is the raw material for rendering a proof of unsatisfiability.
func (g *Graph) Causes(id ID) []*Incompatibility {
	var out []*Incompatibility
	seen := map[ID]bool{}
	var walk func(ID)
	walk = func(cur ID) {
		if seen[cur] {
			return
		}
		seen[cur] = true
		in := g.Get(cur)
		if in.cause.Kind == CauseConflictDerived {
			walk(in.cause.ParentA)
			walk(in.cause.ParentB)
		}
		out = append(out, in)
	}
	walk(id)
	return out
}
