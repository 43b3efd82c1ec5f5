package solver

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/versolve/versolve/pkg/versolve"
	"github.com/versolve/versolve/pkg/versolve/version"
)

func set(s string) version.Set {
	return version.MustParseConstraint(s)
}

func TestPartialSolutionDerivation(t *testing.T) {
	ps := newPartialSolution()

	assert.True(t, ps.derivation("foo").IsAny())
	assert.False(t, ps.hasPositive("foo"))

	require.NotNil(t, ps.derive(versolve.NewTerm("foo", set("^1.0.0")), 0, 0))
	assert.True(t, ps.derivation("foo").Equal(set("^1.0.0")))
	assert.True(t, ps.hasPositive("foo"))

	// a negative term narrows the same accumulated constraint
	require.NotNil(t, ps.derive(versolve.Not("foo", set("1.1.0")), 1, 0))
	assert.False(t, ps.derivation("foo").Contains(version.MustParse("1.1.0")))
	assert.True(t, ps.derivation("foo").Contains(version.MustParse("1.0.0")))
}

func TestPartialSolutionDuplicateDerivation(t *testing.T) {
	ps := newPartialSolution()

	require.NotNil(t, ps.derive(versolve.NewTerm("foo", set("^1.0.0")), 0, 0))
	// same constraint again changes nothing and must be skipped
	assert.Nil(t, ps.derive(versolve.NewTerm("foo", set("^1.0.0")), 0, 0))
	// a weaker constraint changes nothing either
	assert.Nil(t, ps.derive(versolve.NewTerm("foo", set(">=1.0.0")), 0, 0))
	assert.Len(t, ps.log, 1)
}

func TestPartialSolutionDecision(t *testing.T) {
	ps := newPartialSolution()

	ps.decide("root", version.MustParse("1.0.0"), 0)
	v, ok := ps.decision("root")
	require.True(t, ok)
	assert.True(t, v.Equal(version.MustParse("1.0.0")))
	assert.True(t, ps.derivation("root").Equal(set("1.0.0")))

	_, ok = ps.decision("foo")
	assert.False(t, ok)
}

func TestPartialSolutionRequiredUndecided(t *testing.T) {
	ps := newPartialSolution()

	ps.decide("root", version.MustParse("1.0.0"), 0)
	ps.derive(versolve.NewTerm("foo", set("^1.0.0")), 0, 0)
	// a negative-only package is not required
	ps.derive(versolve.Not("bar", set("^2.0.0")), 1, 0)

	assert.ElementsMatch(t, []versolve.Package{"foo"}, ps.requiredUndecided())
}

func TestPartialSolutionBacktrack(t *testing.T) {
	ps := newPartialSolution()

	ps.decide("root", version.MustParse("1.0.0"), 0)
	ps.derive(versolve.NewTerm("foo", set("^1.0.0")), 0, 0)
	ps.level = 1
	ps.decide("foo", version.MustParse("1.1.0"), 1)
	ps.derive(versolve.NewTerm("bar", set("^2.0.0")), 1, 1)
	ps.level = 2
	ps.decide("bar", version.MustParse("2.0.0"), 2)

	ps.backtrack(0)

	assert.Equal(t, 0, ps.level)
	assert.Len(t, ps.log, 2)
	_, ok := ps.decision("foo")
	assert.False(t, ok)
	_, ok = ps.decision("bar")
	assert.False(t, ok)
	assert.True(t, ps.derivation("bar").IsAny())
	assert.False(t, ps.hasPositive("bar"))
	// level-0 state survives
	_, ok = ps.decision("root")
	assert.True(t, ok)
	assert.True(t, ps.derivation("foo").Equal(set("^1.0.0")))
}

func TestPartialSolutionRelate(t *testing.T) {
	g := versolve.NewGraph()
	dependency := g.Add(
		[]versolve.Term{
			versolve.NewTerm("foo", set("1.1.0")),
			versolve.Not("bar", set("^2.0.0")),
		},
		versolve.Cause{Kind: versolve.CauseDependency, Package: "foo"},
	)

	ps := newPartialSolution()

	// nothing assigned: inconclusive
	rel, _ := ps.relate(dependency)
	assert.Equal(t, relationInconclusive, rel)

	// foo pinned: almost satisfied, bar's term is the unsatisfied one
	ps.decide("foo", version.MustParse("1.1.0"), 1)
	rel, unsatisfied := ps.relate(dependency)
	require.Equal(t, relationAlmostSatisfied, rel)
	assert.Equal(t, versolve.Package("bar"), unsatisfied.Package())

	// bar constrained away from ^2.0.0: fully satisfied, a conflict
	ps.derive(versolve.NewTerm("bar", set("^1.0.0")), 0, 1)
	rel, _ = ps.relate(dependency)
	assert.Equal(t, relationSatisfied, rel)

	// a contradicted term makes the whole incompatibility inconclusive
	other := g.Add(
		[]versolve.Term{
			versolve.NewTerm("foo", set("^2.0.0")),
			versolve.Not("bar", set("^2.0.0")),
		},
		versolve.Cause{Kind: versolve.CauseDependency, Package: "foo"},
	)
	rel, _ = ps.relate(other)
	assert.Equal(t, relationInconclusive, rel)
}
