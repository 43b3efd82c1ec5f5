package registry

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/versolve/versolve/pkg/versolve"
	"github.com/versolve/versolve/pkg/versolve/version"
)

func TestFixtureVersions(t *testing.T) {
	f := NewFixture().
		Add("foo", "1.0.0", nil).
		Add("foo", "2.0.0", nil).
		Add("foo", "1.5.0", nil)

	versions, err := f.Versions(context.Background(), "foo")
	require.NoError(t, err)
	require.Len(t, versions, 3)
	// highest first
	assert.True(t, versions[0].Equal(version.MustParse("2.0.0")))
	assert.True(t, versions[1].Equal(version.MustParse("1.5.0")))
	assert.True(t, versions[2].Equal(version.MustParse("1.0.0")))

	_, err = f.Versions(context.Background(), "missing")
	assert.ErrorIs(t, err, versolve.ErrPackageNotFound)
}

func TestFixtureDependencies(t *testing.T) {
	f := NewFixture().
		Add("foo", "1.0.0", map[versolve.Package]string{"bar": "^1.0.0"}).
		Add("foo", "2.0.0", nil)

	deps, err := f.Dependencies(context.Background(), "foo", version.MustParse("1.0.0"))
	require.NoError(t, err)
	assert.Equal(t, map[versolve.Package]string{"bar": "^1.0.0"}, deps)

	deps, err = f.Dependencies(context.Background(), "foo", version.MustParse("2.0.0"))
	require.NoError(t, err)
	assert.Empty(t, deps)

	_, err = f.Dependencies(context.Background(), "foo", version.MustParse("3.0.0"))
	assert.ErrorIs(t, err, versolve.ErrVersionNotFound)

	_, err = f.Dependencies(context.Background(), "missing", version.MustParse("1.0.0"))
	assert.ErrorIs(t, err, versolve.ErrPackageNotFound)
}

func TestFixtureDependenciesCopies(t *testing.T) {
	f := NewFixture().
		Add("foo", "1.0.0", map[versolve.Package]string{"bar": "^1.0.0"})

	deps, err := f.Dependencies(context.Background(), "foo", version.MustParse("1.0.0"))
	require.NoError(t, err)
	deps["bar"] = "mutated"

	again, err := f.Dependencies(context.Background(), "foo", version.MustParse("1.0.0"))
	require.NoError(t, err)
	assert.Equal(t, "^1.0.0", again["bar"])
}

const sampleRegistry = `
packages:
  root:
    "1.0.0":
      foo: "^1.0.0"
  foo:
    "1.0.0":
      bar: ">=1.0.0, <2.0.0"
    "1.1.0": {}
  bar:
    "1.0.0": {}
`

func TestLoad(t *testing.T) {
	f, err := Load(strings.NewReader(sampleRegistry))
	require.NoError(t, err)

	versions, err := f.Versions(context.Background(), "foo")
	require.NoError(t, err)
	require.Len(t, versions, 2)
	assert.True(t, versions[0].Equal(version.MustParse("1.1.0")))

	deps, err := f.Dependencies(context.Background(), "root", version.MustParse("1.0.0"))
	require.NoError(t, err)
	assert.Equal(t, map[versolve.Package]string{"foo": "^1.0.0"}, deps)
}

func TestLoadRejectsBadVersion(t *testing.T) {
	_, err := Load(strings.NewReader(`
packages:
  foo:
    "one.zero": {}
`))
	require.Error(t, err)
}

func TestLoadRejectsBadConstraint(t *testing.T) {
	_, err := Load(strings.NewReader(`
packages:
  foo:
    "1.0.0":
      bar: "!!nope"
`))
	require.Error(t, err)
}

func TestLoadRejectsUnknownFields(t *testing.T) {
	_, err := Load(strings.NewReader(`
pakages:
  foo:
    "1.0.0": {}
`))
	require.Error(t, err)
}
