package solver

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/versolve/versolve/pkg/versolve"
	"github.com/versolve/versolve/pkg/versolve/version"
)

// ErrIncomplete is returned when the caller's context is cancelled before a
// solution could be found.
var ErrIncomplete = errors.New("cancelled before a solution could be found")

// Solver resolves a set of mutually compatible package versions for one root
// package. A Solver holds per-solve mutable state and must not be shared;
// the Registry it consults is the only collaborator that may be shared across
// concurrent solves.
type Solver struct {
	registry    versolve.Registry
	root        versolve.Package
	rootVersion version.Version

	graph  *versolve.Graph
	ps     *partialSolution
	queue  []versolve.Package
	queued map[versolve.Package]bool
	tracer Tracer
}

type Option func(s *Solver) error

func WithTracer(t Tracer) Option {
	return func(s *Solver) error {
		s.tracer = t
		return nil
	}
}

var defaults = []Option{
	func(s *Solver) error {
		if s.tracer == nil {
			s.tracer = DefaultTracer{}
		}
		return nil
	},
}

// New returns a Solver for the given root package and version.
func New(registry versolve.Registry, root versolve.Package, rootVersion version.Version, options ...Option) (*Solver, error) {
	s := &Solver{
		registry:    registry,
		root:        root,
		rootVersion: rootVersion,
		graph:       versolve.NewGraph(),
		ps:          newPartialSolution(),
		queued:      map[versolve.Package]bool{},
	}
	for _, option := range append(options, defaults...) {
		if err := option(s); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Solve runs unit propagation, conflict resolution and decision making to a
// fixed point. On success it returns the selected version for every decided
// package, including the root. Unsatisfiable inputs yield a
// *versolve.NotSatisfiable; a *versolve.InternalError indicates a solver bug.
func (s *Solver) Solve(ctx context.Context) (map[versolve.Package]version.Version, error) {
	if err := s.seed(ctx); err != nil {
		return nil, err
	}
	for {
		if ctx.Err() != nil {
			return nil, ErrIncomplete
		}
		if err := s.propagate(); err != nil {
			return nil, err
		}
		done, err := s.decide(ctx)
		if err != nil {
			return nil, err
		}
		if done {
			return s.ps.selection(), nil
		}
	}
}

// Graph returns the derivation graph accumulated so far. It is the caller's
// window into conflict explanations after a failed solve.
func (s *Solver) Graph() *versolve.Graph {
	return s.graph
}

// seed records the root decision at level 0 and materializes the root's
// declared dependencies as the initial incompatibilities.
func (s *Solver) seed(ctx context.Context) error {
	s.ps.decide(s.root, s.rootVersion, 0)
	s.tracer.Trace(Step{Kind: StepDecision, Package: s.root, Version: s.rootVersion, Level: 0})

	deps, err := s.registry.Dependencies(ctx, s.root, s.rootVersion)
	switch {
	case errors.Is(err, versolve.ErrPackageNotFound), errors.Is(err, versolve.ErrVersionNotFound):
		s.addIncompatibility(
			[]versolve.Term{versolve.NewTerm(s.root, version.Exactly(s.rootVersion))},
			versolve.Cause{Kind: versolve.CausePackageUnavailable, Package: s.root},
		)
		s.enqueue(s.root)
		return nil
	case err != nil:
		return err
	}
	if err := s.addDependencies(s.root, s.rootVersion, deps, versolve.CauseRootDependency); err != nil {
		return err
	}
	s.enqueue(s.root)
	return nil
}

// addDependencies adds one incompatibility {pkg@v, ¬dep@range} per declared
// dependency. Constraint strings are parsed here, at the registry boundary;
// the core only ever sees version sets.
func (s *Solver) addDependencies(pkg versolve.Package, v version.Version, deps map[versolve.Package]string, kind versolve.CauseKind) error {
	names := make([]versolve.Package, 0, len(deps))
	for dep := range deps {
		names = append(names, dep)
	}
	sort.Slice(names, func(i, j int) bool { return names[i] < names[j] })
	for _, dep := range names {
		set, err := version.ParseConstraint(deps[dep])
		if err != nil {
			return fmt.Errorf("dependencies of %s %s: %w", pkg, v, err)
		}
		if set.IsEmpty() {
			// A well-formed constraint can still denote the empty range
			// (e.g. ">=2.0.0, <1.0.0"). No version of dep can ever satisfy
			// it, so the depending version is unusable outright. The
			// negative term would be vacuously satisfied and give conflict
			// resolution no assignment to point at, so record the
			// single-term form instead.
			s.addIncompatibility(
				[]versolve.Term{versolve.NewTerm(pkg, version.Exactly(v))},
				versolve.Cause{Kind: versolve.CauseNoVersionsAvailable, Package: dep},
			)
			continue
		}
		s.addIncompatibility(
			[]versolve.Term{
				versolve.NewTerm(pkg, version.Exactly(v)),
				versolve.Not(dep, set),
			},
			versolve.Cause{Kind: kind, Package: pkg},
		)
		s.enqueue(dep)
	}
	s.enqueue(pkg)
	return nil
}

// addIncompatibility adds a non-learned incompatibility, reusing an existing
// one with identical terms. Reuse happens when a package version is decided
// again after a backjump; its dependency incompatibilities are already known.
func (s *Solver) addIncompatibility(terms []versolve.Term, cause versolve.Cause) *versolve.Incompatibility {
	if id, ok := s.graph.Lookup(terms); ok {
		return s.graph.Get(id)
	}
	return s.graph.Add(terms, cause)
}

func (s *Solver) enqueue(pkg versolve.Package) {
	if s.queued[pkg] {
		return
	}
	s.queued[pkg] = true
	s.queue = append(s.queue, pkg)
}

func (s *Solver) resetQueue(pkg versolve.Package) {
	s.queue = s.queue[:0]
	s.queued = map[versolve.Package]bool{}
	s.enqueue(pkg)
}
