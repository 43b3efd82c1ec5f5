package version

import (
	"sort"
	"strings"
)

// bound is one edge of an interval. A nil version means the interval is
// unbounded on that side.
type bound struct {
	version   Version
	inclusive bool
}

// interval is a contiguous, possibly unbounded range of versions.
type interval struct {
	lo, hi bound
}

// Set is a set of versions in normal form: a sorted slice of disjoint,
// non-touching intervals. The zero value is the empty set. All operations are
// total and return new values; a Set is never mutated after construction.
type Set struct {
	intervals []interval
}

// Empty returns the set containing no versions.
func Empty() Set {
	return Set{}
}

// Any returns the set containing every version.
func Any() Set {
	return Set{intervals: []interval{{}}}
}

// Exactly returns the set containing only v.
func Exactly(v Version) Set {
	return Set{intervals: []interval{{
		lo: bound{version: v, inclusive: true},
		hi: bound{version: v, inclusive: true},
	}}}
}

// Range returns the half-open set [lo, hi).
func Range(lo, hi Version) Set {
	return normalize([]interval{{
		lo: bound{version: lo, inclusive: true},
		hi: bound{version: hi},
	}})
}

// AtLeast returns the set [v, ∞).
func AtLeast(v Version) Set {
	return Set{intervals: []interval{{lo: bound{version: v, inclusive: true}}}}
}

// Above returns the set (v, ∞).
func Above(v Version) Set {
	return Set{intervals: []interval{{lo: bound{version: v}}}}
}

// Below returns the set (-∞, v).
func Below(v Version) Set {
	return Set{intervals: []interval{{hi: bound{version: v}}}}
}

// AtMost returns the set (-∞, v].
func AtMost(v Version) Set {
	return Set{intervals: []interval{{hi: bound{version: v, inclusive: true}}}}
}

// cmpLower orders two lower bounds. A nil version is -∞; at equal versions an
// inclusive bound starts earlier than an exclusive one.
func cmpLower(a, b bound) int {
	switch {
	case a.version == nil && b.version == nil:
		return 0
	case a.version == nil:
		return -1
	case b.version == nil:
		return 1
	}
	if c := a.version.Compare(b.version); c != 0 {
		return c
	}
	switch {
	case a.inclusive == b.inclusive:
		return 0
	case a.inclusive:
		return -1
	default:
		return 1
	}
}

// cmpUpper orders two upper bounds. A nil version is +∞; at equal versions an
// inclusive bound extends further than an exclusive one.
func cmpUpper(a, b bound) int {
	switch {
	case a.version == nil && b.version == nil:
		return 0
	case a.version == nil:
		return 1
	case b.version == nil:
		return -1
	}
	if c := a.version.Compare(b.version); c != 0 {
		return c
	}
	switch {
	case a.inclusive == b.inclusive:
		return 0
	case a.inclusive:
		return 1
	default:
		return -1
	}
}

// nonEmpty reports whether the interval contains at least one version.
func (iv interval) nonEmpty() bool {
	if iv.lo.version == nil || iv.hi.version == nil {
		return true
	}
	c := iv.lo.version.Compare(iv.hi.version)
	if c != 0 {
		return c < 0
	}
	return iv.lo.inclusive && iv.hi.inclusive
}

// connected reports whether an interval ending at hi and one starting at lo
// overlap or touch, so that their union is a single interval.
func connected(hi bound, lo bound) bool {
	if hi.version == nil || lo.version == nil {
		return true
	}
	c := lo.version.Compare(hi.version)
	if c != 0 {
		return c < 0
	}
	return hi.inclusive || lo.inclusive
}

// normalize sorts intervals, drops empty ones and merges any that overlap or
// touch, producing the canonical representation.
func normalize(intervals []interval) Set {
	kept := make([]interval, 0, len(intervals))
	for _, iv := range intervals {
		if iv.nonEmpty() {
			kept = append(kept, iv)
		}
	}
	if len(kept) == 0 {
		return Set{}
	}
	sort.Slice(kept, func(i, j int) bool {
		return cmpLower(kept[i].lo, kept[j].lo) < 0
	})
	merged := []interval{kept[0]}
	for _, iv := range kept[1:] {
		last := &merged[len(merged)-1]
		if connected(last.hi, iv.lo) {
			if cmpUpper(iv.hi, last.hi) > 0 {
				last.hi = iv.hi
			}
			continue
		}
		merged = append(merged, iv)
	}
	return Set{intervals: merged}
}

// Contains reports whether v is in the set.
func (s Set) Contains(v Version) bool {
	probe := bound{version: v, inclusive: true}
	for _, iv := range s.intervals {
		if cmpLower(iv.lo, probe) <= 0 && cmpUpper(probe, iv.hi) <= 0 {
			return true
		}
	}
	return false
}

// IsEmpty reports whether the set contains no versions.
func (s Set) IsEmpty() bool {
	return len(s.intervals) == 0
}

// IsAny reports whether the set contains every version.
func (s Set) IsAny() bool {
	return len(s.intervals) == 1 && s.intervals[0].lo.version == nil && s.intervals[0].hi.version == nil
}

// Intersect returns the set of versions in both s and o.
func (s Set) Intersect(o Set) Set {
	var out []interval
	for _, a := range s.intervals {
		for _, b := range o.intervals {
			iv := interval{lo: a.lo, hi: a.hi}
			if cmpLower(b.lo, iv.lo) > 0 {
				iv.lo = b.lo
			}
			if cmpUpper(b.hi, iv.hi) < 0 {
				iv.hi = b.hi
			}
			if iv.nonEmpty() {
				out = append(out, iv)
			}
		}
	}
	return normalize(out)
}

// Union returns the set of versions in either s or o.
func (s Set) Union(o Set) Set {
	out := make([]interval, 0, len(s.intervals)+len(o.intervals))
	out = append(out, s.intervals...)
	out = append(out, o.intervals...)
	return normalize(out)
}

// Complement returns the set of versions not in s.
func (s Set) Complement() Set {
	if s.IsEmpty() {
		return Any()
	}
	var out []interval
	first := s.intervals[0]
	if first.lo.version != nil {
		out = append(out, interval{hi: bound{version: first.lo.version, inclusive: !first.lo.inclusive}})
	}
	for i := 0; i < len(s.intervals)-1; i++ {
		cur, next := s.intervals[i], s.intervals[i+1]
		out = append(out, interval{
			lo: bound{version: cur.hi.version, inclusive: !cur.hi.inclusive},
			hi: bound{version: next.lo.version, inclusive: !next.lo.inclusive},
		})
	}
	last := s.intervals[len(s.intervals)-1]
	if last.hi.version != nil {
		out = append(out, interval{lo: bound{version: last.hi.version, inclusive: !last.hi.inclusive}})
	}
	return normalize(out)
}

// Difference returns the set of versions in s but not in o.
func (s Set) Difference(o Set) Set {
	return s.Intersect(o.Complement())
}

// SubsetOf reports whether every version in s is also in o.
func (s Set) SubsetOf(o Set) bool {
	return s.Intersect(o.Complement()).IsEmpty()
}

// Disjoint reports whether s and o have no versions in common.
func (s Set) Disjoint(o Set) bool {
	return s.Intersect(o).IsEmpty()
}

// Equal reports whether s and o contain exactly the same versions. Because
// sets are always normalized, equality is structural.
func (s Set) Equal(o Set) bool {
	if len(s.intervals) != len(o.intervals) {
		return false
	}
	for i := range s.intervals {
		a, b := s.intervals[i], o.intervals[i]
		if cmpLower(a.lo, b.lo) != 0 || cmpUpper(a.hi, b.hi) != 0 {
			return false
		}
	}
	return true
}

func (iv interval) String() string {
	if iv.lo.version == nil && iv.hi.version == nil {
		return "*"
	}
	if iv.lo.version != nil && iv.hi.version != nil &&
		iv.lo.inclusive && iv.hi.inclusive && iv.lo.version.Equal(iv.hi.version) {
		return iv.lo.version.String()
	}
	var parts []string
	if iv.lo.version != nil {
		op := ">"
		if iv.lo.inclusive {
			op = ">="
		}
		parts = append(parts, op+iv.lo.version.String())
	}
	if iv.hi.version != nil {
		op := "<"
		if iv.hi.inclusive {
			op = "<="
		}
		parts = append(parts, op+iv.hi.version.String())
	}
	return strings.Join(parts, ", ")
}

func (s Set) String() string {
	if s.IsEmpty() {
		return "none"
	}
	parts := make([]string, len(s.intervals))
	for i, iv := range s.intervals {
		parts[i] = iv.String()
	}
	return strings.Join(parts, " || ")
}
