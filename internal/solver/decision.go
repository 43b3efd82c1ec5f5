package solver

import (
	"context"
	"errors"
	"sort"

	"github.com/versolve/versolve/pkg/versolve"
	"github.com/versolve/versolve/pkg/versolve/version"
)

// decide is invoked when propagation reaches a fixed point without conflict.
// It returns true when every required package has a decision, which means the
// solve is complete. Otherwise it either decides one package at a new
// decision level, or synthesizes an incompatibility describing why none could
// be chosen and leaves it for propagation to act on.
func (s *Solver) decide(ctx context.Context) (bool, error) {
	undecided := s.ps.requiredUndecided()
	if len(undecided) == 0 {
		return true, nil
	}
	sort.Slice(undecided, func(i, j int) bool { return undecided[i] < undecided[j] })

	// Fewest candidate versions first, so that near-impossible packages fail
	// fast; ties already broken by name through the sort above.
	var (
		chosen     versolve.Package
		allowed    version.Set
		matching   []version.Version
		haveChoice bool
	)
	for _, pkg := range undecided {
		set := s.ps.derivation(pkg)
		available, err := s.registry.Versions(ctx, pkg)
		switch {
		case errors.Is(err, versolve.ErrPackageNotFound):
			s.addIncompatibility(
				[]versolve.Term{versolve.NewTerm(pkg, set)},
				versolve.Cause{Kind: versolve.CausePackageUnavailable, Package: pkg},
			)
			s.enqueue(pkg)
			return false, nil
		case err != nil:
			return false, err
		}
		candidates := make([]version.Version, 0, len(available))
		for _, v := range available {
			if set.Contains(v) {
				candidates = append(candidates, v)
			}
		}
		if !haveChoice || len(candidates) < len(matching) {
			chosen, allowed, matching, haveChoice = pkg, set, candidates, true
		}
	}

	if len(matching) == 0 {
		s.addIncompatibility(
			[]versolve.Term{versolve.NewTerm(chosen, allowed)},
			versolve.Cause{Kind: versolve.CauseNoVersionsAvailable, Package: chosen},
		)
		s.enqueue(chosen)
		return false, nil
	}

	// Registries return versions highest first; sort defensively so the
	// choice does not depend on backend ordering.
	sort.Slice(matching, func(i, j int) bool { return matching[i].Compare(matching[j]) > 0 })
	v := matching[0]

	deps, err := s.registry.Dependencies(ctx, chosen, v)
	switch {
	case errors.Is(err, versolve.ErrPackageNotFound), errors.Is(err, versolve.ErrVersionNotFound):
		s.addIncompatibility(
			[]versolve.Term{versolve.NewTerm(chosen, version.Exactly(v))},
			versolve.Cause{Kind: versolve.CausePackageUnavailable, Package: chosen},
		)
		s.enqueue(chosen)
		return false, nil
	case err != nil:
		return false, err
	}

	s.ps.level++
	s.ps.decide(chosen, v, s.ps.level)
	s.tracer.Trace(Step{Kind: StepDecision, Package: chosen, Version: v, Level: s.ps.level})
	if err := s.addDependencies(chosen, v, deps, versolve.CauseDependency); err != nil {
		return false, err
	}
	return false, nil
}
