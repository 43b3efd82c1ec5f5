package solver

import (
	"fmt"

	"github.com/versolve/versolve/pkg/versolve"
	"github.com/versolve/versolve/pkg/versolve/version"
)

// resolveConflict is invoked with a satisfied incompatibility. It repeatedly
// replaces the conflict's most recently satisfied term with the
// incompatibility that forced it, deriving ever more general learned
// incompatibilities, until it can backjump: truncate the partial solution to
// the earliest implicated decision level and derive the negation of the one
// remaining term there. It returns the package whose constraint changed, so
// propagation can resume from it.
func (s *Solver) resolveConflict(conflict *versolve.Incompatibility) (versolve.Package, error) {
	current := conflict
	for {
		if s.terminal(current) {
			return "", &versolve.NotSatisfiable{Incompatibility: current, Graph: s.graph}
		}
		info, err := s.findSatisfier(current)
		if err != nil {
			return "", err
		}
		satisfier := info.assignment
		term, _ := current.Term(satisfier.term.Package())

		if satisfier.isDecision() || info.previousLevel != satisfier.level {
			s.ps.backtrack(info.previousLevel)
			s.tracer.Trace(Step{Kind: StepBackjump, Level: info.previousLevel})
			derived := term.Negate()
			if a := s.ps.derive(derived, current.ID(), info.previousLevel); a != nil {
				s.tracer.Trace(Step{Kind: StepDerivation, Term: derived, Level: info.previousLevel})
			}
			return term.Package(), nil
		}

		// Unit resolution: combine the conflict with the satisfier's cause,
		// eliminating the shared package's terms. If the satisfier only
		// partially satisfied the term, the uncovered remainder is carried
		// along as a negated term.
		cause := s.graph.Get(satisfier.cause)
		var terms []versolve.Term
		for _, pkg := range current.Packages() {
			if pkg == satisfier.term.Package() {
				continue
			}
			t, _ := current.Term(pkg)
			terms = append(terms, t)
		}
		for _, pkg := range cause.Packages() {
			if pkg == satisfier.term.Package() {
				continue
			}
			t, _ := cause.Term(pkg)
			terms = append(terms, t)
		}
		if !info.alone {
			terms = append(terms, satisfier.term.Difference(term).Negate())
		}

		if id, ok := s.graph.Lookup(terms); ok {
			return "", &versolve.InternalError{
				Reason: fmt.Sprintf("incompatibility %d re-derived during conflict resolution", id),
			}
		}
		current = s.graph.Add(terms, versolve.Cause{
			Kind:    versolve.CauseConflictDerived,
			ParentA: current.ID(),
			ParentB: cause.ID(),
		})
	}
}

// terminal reports whether the incompatibility admits no further resolution:
// either it has no terms, or its only term positively constrains the root,
// whose decision is never revisited.
func (s *Solver) terminal(in *versolve.Incompatibility) bool {
	switch in.Len() {
	case 0:
		return true
	case 1:
		pkg := in.Packages()[0]
		term, _ := in.Term(pkg)
		return term.Positive() && pkg == s.root
	}
	return false
}

type satisfierInfo struct {
	// assignment is the satisfier: the earliest assignment such that the
	// incompatibility is satisfied by the log up to and including it.
	assignment *assignment
	// previousLevel is the decision level of the latest assignment, other
	// than the satisfier, still needed to satisfy the incompatibility.
	previousLevel int
	// alone reports whether the satisfier satisfies its term without help
	// from earlier assignments on the same package.
	alone bool
}

func (s *Solver) findSatisfier(in *versolve.Incompatibility) (satisfierInfo, error) {
	satisfierIdx := -1
	var satisfierPkg versolve.Package
	earliest := map[versolve.Package]int{}
	for _, pkg := range in.Packages() {
		term, _ := in.Term(pkg)
		idx := s.earliestSatisfying(term)
		if idx < 0 {
			return satisfierInfo{}, &versolve.InternalError{
				Reason: fmt.Sprintf("incompatibility %d handed to conflict resolution is not satisfied", in.ID()),
			}
		}
		earliest[pkg] = idx
		if idx > satisfierIdx {
			satisfierIdx = idx
			satisfierPkg = pkg
		}
	}
	satisfier := s.ps.log[satisfierIdx]
	term, _ := in.Term(satisfierPkg)

	prevIdx := -1
	for pkg, idx := range earliest {
		if pkg != satisfierPkg && idx > prevIdx {
			prevIdx = idx
		}
	}
	selfIdx, alone := s.earliestWithSeed(term, satisfier)
	if selfIdx > prevIdx {
		prevIdx = selfIdx
	}
	previousLevel := 0
	if prevIdx >= 0 {
		previousLevel = s.ps.log[prevIdx].level
	}
	return satisfierInfo{assignment: satisfier, previousLevel: previousLevel, alone: alone}, nil
}

// earliestSatisfying returns the index of the earliest assignment such that
// the log up to and including it satisfies term, or -1 if none does.
func (s *Solver) earliestSatisfying(term versolve.Term) int {
	acc := version.Any()
	for _, a := range s.ps.log {
		if a.term.Package() != term.Package() {
			continue
		}
		acc = acc.Intersect(a.term.Allowed())
		if term.Relation(acc) == versolve.RelationSatisfied {
			return a.index
		}
	}
	return -1
}

// earliestWithSeed returns the index of the earliest assignment such that the
// log up to and including it, combined with the seed assignment, satisfies
// term. It returns alone=true if the seed satisfies term by itself.
func (s *Solver) earliestWithSeed(term versolve.Term, seed *assignment) (int, bool) {
	acc := seed.term.Allowed()
	if term.Relation(acc) == versolve.RelationSatisfied {
		return -1, true
	}
	for _, a := range s.ps.log[:seed.index] {
		if a.term.Package() != term.Package() {
			continue
		}
		acc = acc.Intersect(a.term.Allowed())
		if term.Relation(acc) == versolve.RelationSatisfied {
			return a.index, false
		}
	}
	return -1, false
}
