// Package solver exposes the top-level entry point for resolving a dependency
// graph against a Registry.
package solver

import (
	"context"
	"errors"
	"io"

	"github.com/versolve/versolve/internal/solver"
	"github.com/versolve/versolve/pkg/versolve"
	"github.com/versolve/versolve/pkg/versolve/version"
)

// Solution is returned when the solver executed successfully. A successful
// execution can still end in an unsatisfiable problem; that outcome is
// reported through Error and Explanation rather than as a Go error, so
// callers can always inspect what the solver learned.
type Solution struct {
	err       *versolve.NotSatisfiable
	selection map[versolve.Package]version.Version
}

// Error returns the unsatisfiability result, or nil if a selection was found.
func (s *Solution) Error() error {
	if s.err == nil {
		return nil
	}
	return s.err
}

// Selection returns the chosen version for every decided package, including
// the root. It is nil when the problem was unsatisfiable.
func (s *Solution) Selection() map[versolve.Package]version.Version {
	return s.selection
}

// SelectedVersion returns the version chosen for pkg, if any.
func (s *Solution) SelectedVersion(pkg versolve.Package) (version.Version, bool) {
	v, ok := s.selection[pkg]
	return v, ok
}

// Explanation returns the derivation chain behind an unsatisfiable result:
// the terminal incompatibility's transitive causes in derivation order. It is
// nil when a selection was found.
func (s *Solution) Explanation() []*versolve.Incompatibility {
	if s.err == nil {
		return nil
	}
	return s.err.Graph.Causes(s.err.Incompatibility.ID())
}

type solveOptions struct {
	traceWriter io.Writer
}

type Option func(o *solveOptions)

// WithTraceWriter streams a line per solver step (decisions, derivations,
// conflicts, backjumps) to w.
func WithTraceWriter(w io.Writer) Option {
	return func(o *solveOptions) {
		o.traceWriter = w
	}
}

// Solver resolves package versions against a Registry. A Solver is stateless
// between calls; each Solve runs on fresh per-solve state, so a Solver may be
// used for concurrent solves as long as its Registry tolerates them.
type Solver struct {
	registry versolve.Registry
}

func New(registry versolve.Registry) *Solver {
	return &Solver{registry: registry}
}

// Solve resolves the dependency graph rooted at root@rootVersion. The
// returned Solution carries either a selection or an unsatisfiability
// explanation. A non-nil error is reserved for conditions outside the
// algorithm: malformed constraint strings, registry transport failures,
// cancellation, or a solver bug.
func (s *Solver) Solve(ctx context.Context, root versolve.Package, rootVersion version.Version, options ...Option) (*Solution, error) {
	opts := &solveOptions{}
	for _, option := range options {
		option(opts)
	}
	var internalOpts []solver.Option
	if opts.traceWriter != nil {
		internalOpts = append(internalOpts, solver.WithTracer(solver.LoggingTracer{Writer: opts.traceWriter}))
	}

	run, err := solver.New(s.registry, root, rootVersion, internalOpts...)
	if err != nil {
		return nil, err
	}
	selection, err := run.Solve(ctx)
	if err != nil {
		var unsat *versolve.NotSatisfiable
		if errors.As(err, &unsat) {
			return &Solution{err: unsat}, nil
		}
		return nil, err
	}
	return &Solution{selection: selection}, nil
}
