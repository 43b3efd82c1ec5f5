package solver

import (
	"github.com/versolve/versolve/pkg/versolve"
	"github.com/versolve/versolve/pkg/versolve/version"
)

// partialSolution is the ordered log of decisions and derivations made so
// far, plus the current decision level. The log is append-only except for
// truncation during backjumps; per-package caches are rebuilt on truncation.
type partialSolution struct {
	log   []*assignment
	level int

	// derived caches, per package, the intersection of every assigned term's
	// allowed set. Absent means unconstrained (the universal set).
	derived map[versolve.Package]version.Set
	// positive marks packages with at least one positive assignment; only
	// those packages require a decision.
	positive  map[versolve.Package]bool
	decisions map[versolve.Package]version.Version
}

func newPartialSolution() *partialSolution {
	return &partialSolution{
		derived:   map[versolve.Package]version.Set{},
		positive:  map[versolve.Package]bool{},
		decisions: map[versolve.Package]version.Version{},
	}
}

// derivation returns the accumulated constraint for pkg: the intersection of
// the allowed sets of every assignment on it, or the universal set if none.
func (ps *partialSolution) derivation(pkg versolve.Package) version.Set {
	if set, ok := ps.derived[pkg]; ok {
		return set
	}
	return version.Any()
}

func (ps *partialSolution) hasPositive(pkg versolve.Package) bool {
	return ps.positive[pkg]
}

func (ps *partialSolution) decision(pkg versolve.Package) (version.Version, bool) {
	v, ok := ps.decisions[pkg]
	return v, ok
}

// decide appends a decision selecting v for pkg at the given level.
func (ps *partialSolution) decide(pkg versolve.Package, v version.Version, level int) *assignment {
	a := &assignment{
		term:    versolve.NewTerm(pkg, version.Exactly(v)),
		kind:    assignmentDecision,
		version: v,
		level:   level,
		index:   len(ps.log),
	}
	ps.apply(a)
	return a
}

// derive appends a derivation of term at the given level, forced by the
// incompatibility with the given ID. It returns nil if the term would not
// change the accumulated constraint for its package; skipping such no-op
// derivations is what guarantees propagation terminates.
func (ps *partialSolution) derive(term versolve.Term, cause versolve.ID, level int) *assignment {
	next := ps.derivation(term.Package()).Intersect(term.Allowed())
	if next.Equal(ps.derivation(term.Package())) && (!term.Positive() || ps.positive[term.Package()]) {
		return nil
	}
	a := &assignment{
		term:  term,
		kind:  assignmentDerivation,
		cause: cause,
		level: level,
		index: len(ps.log),
	}
	ps.apply(a)
	return a
}

func (ps *partialSolution) apply(a *assignment) {
	ps.log = append(ps.log, a)
	pkg := a.term.Package()
	ps.derived[pkg] = ps.derivation(pkg).Intersect(a.term.Allowed())
	if a.term.Positive() {
		ps.positive[pkg] = true
	}
	if a.isDecision() {
		ps.decisions[pkg] = a.version
	}
}

// backtrack discards every assignment at a level greater than level and
// rebuilds the per-package caches from the surviving prefix.
func (ps *partialSolution) backtrack(level int) {
	keep := len(ps.log)
	for keep > 0 && ps.log[keep-1].level > level {
		keep--
	}
	ps.log = ps.log[:keep]
	ps.level = level
	ps.derived = map[versolve.Package]version.Set{}
	ps.positive = map[versolve.Package]bool{}
	ps.decisions = map[versolve.Package]version.Version{}
	for _, a := range ps.log {
		pkg := a.term.Package()
		ps.derived[pkg] = ps.derivation(pkg).Intersect(a.term.Allowed())
		if a.term.Positive() {
			ps.positive[pkg] = true
		}
		if a.isDecision() {
			ps.decisions[pkg] = a.version
		}
	}
}

// requiredUndecided returns the packages that have a positive accumulated
// constraint but no decision yet, in no particular order.
func (ps *partialSolution) requiredUndecided() []versolve.Package {
	var out []versolve.Package
	for pkg := range ps.positive {
		if _, ok := ps.decisions[pkg]; !ok {
			out = append(out, pkg)
		}
	}
	return out
}

// selection returns the decided package/version mapping.
func (ps *partialSolution) selection() map[versolve.Package]version.Version {
	out := make(map[versolve.Package]version.Version, len(ps.decisions))
	for pkg, v := range ps.decisions {
		out[pkg] = v
	}
	return out
}

// incompatibilityRelation classifies a whole incompatibility against the
// partial solution.
type incompatibilityRelation int

const (
	// relationSatisfied: every term is satisfied; the incompatibility's
	// terms all hold, which is a conflict.
	relationSatisfied incompatibilityRelation = iota
	// relationAlmostSatisfied: every term but one is satisfied and that one
	// is inconclusive; its negation can be derived.
	relationAlmostSatisfied
	// relationInconclusive: anything else, including a contradicted term.
	relationInconclusive
)

// relate classifies in against the current partial solution. For
// relationAlmostSatisfied the single unsatisfied term is returned.
func (ps *partialSolution) relate(in *versolve.Incompatibility) (incompatibilityRelation, versolve.Term) {
	var unsatisfied versolve.Term
	pending := 0
	for _, pkg := range in.Packages() {
		term, _ := in.Term(pkg)
		switch term.Relation(ps.derivation(pkg)) {
		case versolve.RelationContradicted:
			return relationInconclusive, versolve.Term{}
		case versolve.RelationInconclusive:
			pending++
			if pending > 1 {
				return relationInconclusive, versolve.Term{}
			}
			unsatisfied = term
		}
	}
	if pending == 1 {
		return relationAlmostSatisfied, unsatisfied
	}
	return relationSatisfied, versolve.Term{}
}
