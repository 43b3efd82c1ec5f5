package version

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseConstraint(t *testing.T) {
	type tc struct {
		Name    string
		Input   string
		In, Out []string
		Invalid bool
	}

	for _, tt := range []tc{
		{
			Name:  "exact",
			Input: "1.2.3",
			In:    []string{"1.2.3"},
			Out:   []string{"1.2.2", "1.2.4"},
		},
		{
			Name:  "explicit equals",
			Input: "=1.2.3",
			In:    []string{"1.2.3"},
			Out:   []string{"1.2.4"},
		},
		{
			Name:  "caret",
			Input: "^1.2.3",
			In:    []string{"1.2.3", "1.9.0"},
			Out:   []string{"1.2.2", "2.0.0"},
		},
		{
			Name:  "caret with leading zero",
			Input: "^0.1.2",
			In:    []string{"0.1.2", "0.1.9"},
			Out:   []string{"0.1.1", "0.2.0", "1.0.0"},
		},
		{
			Name:  "caret all zeros",
			Input: "^0.0.0",
			In:    []string{"0.0.0"},
			Out:   []string{"0.0.1"},
		},
		{
			Name:  "tilde",
			Input: "~1.2.3",
			In:    []string{"1.2.3", "1.2.9"},
			Out:   []string{"1.2.2", "1.3.0", "2.0.0"},
		},
		{
			Name:  "tilde single component",
			Input: "~1",
			In:    []string{"1", "1.0.9"},
			Out:   []string{"0.9", "1.1.0"},
		},
		{
			Name:  "range",
			Input: ">=1.0.0, <2.0.0",
			In:    []string{"1.0.0", "1.9.9"},
			Out:   []string{"0.9.9", "2.0.0"},
		},
		{
			Name:  "open lower bound",
			Input: ">1.0.0",
			In:    []string{"1.0.1"},
			Out:   []string{"1.0.0"},
		},
		{
			Name:  "inclusive upper bound",
			Input: "<=2.0.0",
			In:    []string{"2.0.0", "0.1.0"},
			Out:   []string{"2.0.1"},
		},
		{
			Name:  "wildcard",
			Input: "*",
			In:    []string{"0", "99.99"},
		},
		{
			Name:  "blank",
			Input: "",
			In:    []string{"1.0.0"},
		},
		{
			Name:    "dangling comma",
			Input:   ">=1.0.0,",
			Invalid: true,
		},
		{
			Name:    "garbage",
			Input:   "one.two",
			Invalid: true,
		},
		{
			Name:    "caret without version",
			Input:   "^",
			Invalid: true,
		},
	} {
		t.Run(tt.Name, func(t *testing.T) {
			set, err := ParseConstraint(tt.Input)
			if tt.Invalid {
				var perr *ParseError
				require.ErrorAs(t, err, &perr)
				return
			}
			require.NoError(t, err)
			for _, v := range tt.In {
				assert.True(t, set.Contains(MustParse(v)), "expected %q to allow %s", tt.Input, v)
			}
			for _, v := range tt.Out {
				assert.False(t, set.Contains(MustParse(v)), "expected %q to exclude %s", tt.Input, v)
			}
		})
	}
}

func TestConstraintLowersToRange(t *testing.T) {
	caret, err := ParseConstraint("^1.2.3")
	require.NoError(t, err)
	assert.True(t, caret.Equal(Range(MustParse("1.2.3"), MustParse("2"))))

	tilde, err := ParseConstraint("~1.2.3")
	require.NoError(t, err)
	assert.True(t, tilde.Equal(Range(MustParse("1.2.3"), MustParse("1.3"))))
}

func TestConstraintConjunction(t *testing.T) {
	set, err := ParseConstraint(">=1.0.0, <2.0.0, >1.5.0")
	require.NoError(t, err)
	assert.False(t, set.Contains(MustParse("1.5.0")))
	assert.True(t, set.Contains(MustParse("1.6.0")))
	assert.False(t, set.Contains(MustParse("2.0.0")))
}
