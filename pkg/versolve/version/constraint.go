package version

import "strings"

// ParseConstraint parses a constraint string into a Set. Supported forms:
//
//	"1.2.3"            exactly 1.2.3
//	"^1.2.3"           >=1.2.3, below the next leading nonzero component
//	"~1.2.3"           >=1.2.3, below the next second component
//	">=1.0.0, <2.0.0"  comma-separated comparisons, intersected
//	"*" or ""          any version
//
// Caret and tilde are sugar: they lower to a bounded range here, and the
// solver core only ever sees Sets.
func ParseConstraint(s string) (Set, error) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" || trimmed == "*" {
		return Any(), nil
	}
	set := Any()
	for _, part := range strings.Split(trimmed, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			return Set{}, &ParseError{Input: s, Reason: "empty comparison"}
		}
		one, err := parseComparison(s, part)
		if err != nil {
			return Set{}, err
		}
		set = set.Intersect(one)
	}
	return set, nil
}

// MustParseConstraint is ParseConstraint that panics on malformed input. For
// fixtures and tests.
func MustParseConstraint(s string) Set {
	set, err := ParseConstraint(s)
	if err != nil {
		panic(err)
	}
	return set
}

func parseComparison(input, part string) (Set, error) {
	parse := func(raw string) (Version, error) {
		v, err := Parse(raw)
		if err != nil {
			return nil, &ParseError{Input: input, Reason: err.(*ParseError).Reason}
		}
		return v, nil
	}
	switch {
	case strings.HasPrefix(part, "^"):
		v, err := parse(part[1:])
		if err != nil {
			return Set{}, err
		}
		return Range(v, caretUpper(v)), nil
	case strings.HasPrefix(part, "~"):
		v, err := parse(part[1:])
		if err != nil {
			return Set{}, err
		}
		return Range(v, tildeUpper(v)), nil
	case strings.HasPrefix(part, ">="):
		v, err := parse(part[2:])
		if err != nil {
			return Set{}, err
		}
		return AtLeast(v), nil
	case strings.HasPrefix(part, "<="):
		v, err := parse(part[2:])
		if err != nil {
			return Set{}, err
		}
		return AtMost(v), nil
	case strings.HasPrefix(part, ">"):
		v, err := parse(part[1:])
		if err != nil {
			return Set{}, err
		}
		return Above(v), nil
	case strings.HasPrefix(part, "<"):
		v, err := parse(part[1:])
		if err != nil {
			return Set{}, err
		}
		return Below(v), nil
	case strings.HasPrefix(part, "="):
		v, err := parse(part[1:])
		if err != nil {
			return Set{}, err
		}
		return Exactly(v), nil
	default:
		v, err := parse(part)
		if err != nil {
			return Set{}, err
		}
		return Exactly(v), nil
	}
}

// caretUpper returns the exclusive upper bound for a caret constraint: the
// first nonzero component is bumped and everything after it dropped, so
// ^1.2.3 allows <2.0.0 and ^0.1.2 allows <0.2.0. If every component is zero
// the last component is bumped.
func caretUpper(v Version) Version {
	for i, c := range v {
		if c != 0 {
			upper := make(Version, i+1)
			copy(upper, v[:i+1])
			upper[i]++
			return upper
		}
	}
	upper := make(Version, len(v))
	copy(upper, v)
	if len(upper) == 0 {
		return Version{1}
	}
	upper[len(upper)-1]++
	return upper
}

// tildeUpper returns the exclusive upper bound for a tilde constraint: the
// second component is bumped, so ~1.2.3 allows <1.3.0 and ~1 allows <1.1.
func tildeUpper(v Version) Version {
	upper := make(Version, 2)
	copy(upper, v)
	upper[1]++
	return upper
}
