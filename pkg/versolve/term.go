package versolve

import (
	"fmt"

	"github.com/versolve/versolve/pkg/versolve/version"
)

// Relation classifies a term against the constraint accumulated for its
// package in a partial solution.
type Relation int

const (
	// RelationSatisfied: the accumulated constraint implies the term.
	RelationSatisfied Relation = iota
	// RelationContradicted: the accumulated constraint implies the term's
	// negation.
	RelationContradicted
	// RelationInconclusive: neither holds.
	RelationInconclusive
)

func (r Relation) String() string {
	switch r {
	case RelationSatisfied:
		return "satisfied"
	case RelationContradicted:
		return "contradicted"
	default:
		return "inconclusive"
	}
}

// Term is the atomic proposition of the solver: the selected version of a
// package is (positive) or is not (negative) within a version set. Terms are
// immutable values.
type Term struct {
	pkg      Package
	set      version.Set
	positive bool
}

// NewTerm returns the positive term "pkg's version is in set".
func NewTerm(pkg Package, set version.Set) Term {
	return Term{pkg: pkg, set: set, positive: true}
}

// Not returns the negative term "pkg's version is not in set".
func Not(pkg Package, set version.Set) Term {
	return Term{pkg: pkg, set: set}
}

func (t Term) Package() Package {
	return t.pkg
}

func (t Term) Set() version.Set {
	return t.set
}

func (t Term) Positive() bool {
	return t.positive
}

// Negate returns the logical negation of the term: same package and set,
// flipped polarity.
func (t Term) Negate() Term {
	return Term{pkg: t.pkg, set: t.set, positive: !t.positive}
}

// Allowed returns the set of versions the term permits, folding polarity in:
// the set itself for a positive term, its complement for a negative one.
func (t Term) Allowed() version.Set {
	if t.positive {
		return t.set
	}
	return t.set.Complement()
}

// Intersect combines two terms over the same package into the single term
// equivalent to their conjunction.
func (t Term) Intersect(o Term) Term {
	switch {
	case t.positive && o.positive:
		return Term{pkg: t.pkg, set: t.set.Intersect(o.set), positive: true}
	case t.positive:
		return Term{pkg: t.pkg, set: t.set.Difference(o.set), positive: true}
	case o.positive:
		return Term{pkg: t.pkg, set: o.set.Difference(t.set), positive: true}
	default:
		return Term{pkg: t.pkg, set: t.set.Union(o.set)}
	}
}

// Difference returns the term equivalent to "t and not o".
func (t Term) Difference(o Term) Term {
	return t.Intersect(o.Negate())
}

// Relation classifies the term against derived, the intersection of all
// constraints a partial solution has accumulated for the term's package.
// Exactly one of the three relations holds for any non-empty derived set;
// the solver never accumulates an empty one, since the derivation that would
// empty it is a conflict first.
func (t Term) Relation(derived version.Set) Relation {
	if t.positive {
		switch {
		case derived.SubsetOf(t.set):
			return RelationSatisfied
		case derived.Disjoint(t.set):
			return RelationContradicted
		}
		return RelationInconclusive
	}
	switch {
	case derived.Disjoint(t.set):
		return RelationSatisfied
	case derived.SubsetOf(t.set):
		return RelationContradicted
	}
	return RelationInconclusive
}

func (t Term) String() string {
	if t.positive {
		return fmt.Sprintf("%s %s", t.pkg, t.set)
	}
	return fmt.Sprintf("not %s %s", t.pkg, t.set)
}
