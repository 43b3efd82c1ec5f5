// Package version implements the version and version-set algebra used by the
// solver: versions are ordered sequences of non-negative integers, and sets of
// versions are kept in a normal form of sorted, disjoint intervals.
package version

import (
	"fmt"
	"strconv"
	"strings"
)

// Version is an ordered sequence of non-negative integer components, compared
// lexicographically. Missing trailing components compare as zero, so "1.2" and
// "1.2.0" are equal. Versions are immutable value types.
type Version []uint64

// Parse parses a dotted version string such as "1.2.3". Any number of
// components is accepted.
func Parse(s string) (Version, error) {
	if strings.TrimSpace(s) == "" {
		return nil, &ParseError{Input: s, Reason: "empty version"}
	}
	parts := strings.Split(strings.TrimSpace(s), ".")
	v := make(Version, len(parts))
	for i, part := range parts {
		n, err := strconv.ParseUint(part, 10, 64)
		if err != nil {
			return nil, &ParseError{Input: s, Reason: fmt.Sprintf("component %q is not a non-negative integer", part)}
		}
		v[i] = n
	}
	return v, nil
}

// MustParse is Parse that panics on malformed input. For fixtures and tests.
func MustParse(s string) Version {
	v, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return v
}

// Compare returns -1, 0 or 1 depending on whether v is ordered before, equal
// to, or after o.
func (v Version) Compare(o Version) int {
	n := len(v)
	if len(o) > n {
		n = len(o)
	}
	for i := 0; i < n; i++ {
		var a, b uint64
		if i < len(v) {
			a = v[i]
		}
		if i < len(o) {
			b = o[i]
		}
		switch {
		case a < b:
			return -1
		case a > b:
			return 1
		}
	}
	return 0
}

// Equal reports whether v and o denote the same version, treating missing
// trailing components as zero.
func (v Version) Equal(o Version) bool {
	return v.Compare(o) == 0
}

func (v Version) String() string {
	if len(v) == 0 {
		return "0"
	}
	parts := make([]string, len(v))
	for i, c := range v {
		parts[i] = strconv.FormatUint(c, 10)
	}
	return strings.Join(parts, ".")
}

// ParseError is returned when a version or constraint string is malformed.
// Parsing happens at the registry boundary; a ParseError never originates
// from the solver core.
type ParseError struct {
	Input  string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("invalid version constraint %q: %s", e.Input, e.Reason)
}
