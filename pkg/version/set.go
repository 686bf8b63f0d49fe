package version

import (
	"sort"
	"strings"
)

// A cut is a position on the version line. A finite cut sits either
// immediately before or immediately after its version, so the half-open
// interval [{v before}, {v after}) contains exactly v. A nil version stands
// for the unbounded end of the interval it appears in.
type cut struct {
	v     *Version
	after bool
}

// interval is a half-open range [lo, hi) over cuts. A nil lo version means
// unbounded below, a nil hi version means unbounded above.
type interval struct {
	lo cut
	hi cut
}

// Set is a canonicalized union of disjoint half-open version intervals.
// The intervals are sorted, non-overlapping, non-adjacent and non-empty, so
// two sets describing the same versions are structurally equal. The zero
// value is the empty set.
type Set struct {
	spans []interval
}

// EmptySet returns the set containing no versions
func EmptySet() Set {
	return Set{}
}

// FullSet returns the set containing all versions
func FullSet() Set {
	return Set{spans: []interval{{}}}
}

// Singleton returns the set containing exactly the given version
func Singleton(v *Version) Set {
	return Set{spans: []interval{{lo: cut{v: v}, hi: cut{v: v, after: true}}}}
}

// AtLeast returns the set of versions >= v
func AtLeast(v *Version) Set {
	return Set{spans: []interval{{lo: cut{v: v}}}}
}

// GreaterThan returns the set of versions > v
func GreaterThan(v *Version) Set {
	return Set{spans: []interval{{lo: cut{v: v, after: true}}}}
}

// AtMost returns the set of versions <= v
func AtMost(v *Version) Set {
	return Set{spans: []interval{{hi: cut{v: v, after: true}}}}
}

// LessThan returns the set of versions < v
func LessThan(v *Version) Set {
	return Set{spans: []interval{{hi: cut{v: v}}}}
}

// rank orders the two finite cuts sharing a version: before < after.
func rank(after bool) int {
	if after {
		return 1
	}
	return 0
}

// cmpLo compares two lower cuts, where a nil version is unbounded below.
func cmpLo(a, b cut) int {
	switch {
	case a.v == nil && b.v == nil:
		return 0
	case a.v == nil:
		return -1
	case b.v == nil:
		return 1
	}
	if c := a.v.Compare(b.v); c != 0 {
		return c
	}
	return rank(a.after) - rank(b.after)
}

// cmpHi compares two upper cuts, where a nil version is unbounded above.
func cmpHi(a, b cut) int {
	switch {
	case a.v == nil && b.v == nil:
		return 0
	case a.v == nil:
		return 1
	case b.v == nil:
		return -1
	}
	if c := a.v.Compare(b.v); c != 0 {
		return c
	}
	return rank(a.after) - rank(b.after)
}

// cmpLoHi compares a lower cut against an upper cut as positions on the
// version line. An interval is non-empty exactly when its lo compares less
// than its hi.
func cmpLoHi(lo, hi cut) int {
	if lo.v == nil || hi.v == nil {
		return -1
	}
	if c := lo.v.Compare(hi.v); c != 0 {
		return c
	}
	return rank(lo.after) - rank(hi.after)
}

func maxLo(a, b cut) cut {
	if cmpLo(a, b) >= 0 {
		return a
	}
	return b
}

func maxHi(a, b cut) cut {
	if cmpHi(a, b) >= 0 {
		return a
	}
	return b
}

func minHi(a, b cut) cut {
	if cmpHi(a, b) <= 0 {
		return a
	}
	return b
}

// normalize establishes the canonical form: empty intervals dropped, the
// rest sorted by lower cut, overlapping and adjacent intervals merged.
func normalize(spans []interval) []interval {
	kept := make([]interval, 0, len(spans))
	for _, iv := range spans {
		if cmpLoHi(iv.lo, iv.hi) < 0 {
			kept = append(kept, iv)
		}
	}
	if len(kept) == 0 {
		return nil
	}

	sort.Slice(kept, func(i, j int) bool {
		if c := cmpLo(kept[i].lo, kept[j].lo); c != 0 {
			return c < 0
		}
		return cmpHi(kept[i].hi, kept[j].hi) < 0
	})

	merged := kept[:1]
	for _, iv := range kept[1:] {
		last := &merged[len(merged)-1]
		if cmpLoHi(iv.lo, last.hi) <= 0 {
			last.hi = maxHi(last.hi, iv.hi)
			continue
		}
		merged = append(merged, iv)
	}
	return merged
}

// IsEmpty reports whether the set contains no versions
func (s Set) IsEmpty() bool {
	return len(s.spans) == 0
}

// IsFull reports whether the set contains every version
func (s Set) IsFull() bool {
	return len(s.spans) == 1 && s.spans[0].lo.v == nil && s.spans[0].hi.v == nil
}

// Contains reports whether the set contains the given version
func (s Set) Contains(v *Version) bool {
	for _, iv := range s.spans {
		if iv.contains(v) {
			return true
		}
	}
	return false
}

func (iv interval) contains(v *Version) bool {
	if iv.lo.v != nil {
		c := v.Compare(iv.lo.v)
		if c < 0 || (c == 0 && iv.lo.after) {
			return false
		}
	}
	if iv.hi.v != nil {
		c := v.Compare(iv.hi.v)
		if c > 0 || (c == 0 && !iv.hi.after) {
			return false
		}
	}
	return true
}

// Complement returns the set of versions not in this set
func (s Set) Complement() Set {
	if s.IsEmpty() {
		return FullSet()
	}

	gaps := make([]interval, 0, len(s.spans)+1)
	if s.spans[0].lo.v != nil {
		gaps = append(gaps, interval{hi: s.spans[0].lo})
	}
	for i := 0; i < len(s.spans)-1; i++ {
		gaps = append(gaps, interval{lo: s.spans[i].hi, hi: s.spans[i+1].lo})
	}
	last := s.spans[len(s.spans)-1]
	if last.hi.v != nil {
		gaps = append(gaps, interval{lo: last.hi})
	}
	return Set{spans: normalize(gaps)}
}

// Intersect returns the set of versions in both sets
func (s Set) Intersect(o Set) Set {
	result := make([]interval, 0, len(s.spans))
	i, j := 0, 0
	for i < len(s.spans) && j < len(o.spans) {
		lo := maxLo(s.spans[i].lo, o.spans[j].lo)
		hi := minHi(s.spans[i].hi, o.spans[j].hi)
		if cmpLoHi(lo, hi) < 0 {
			result = append(result, interval{lo: lo, hi: hi})
		}
		if cmpHi(s.spans[i].hi, o.spans[j].hi) <= 0 {
			i++
		} else {
			j++
		}
	}
	return Set{spans: normalize(result)}
}

// Union returns the set of versions in either set
func (s Set) Union(o Set) Set {
	spans := make([]interval, 0, len(s.spans)+len(o.spans))
	spans = append(spans, s.spans...)
	spans = append(spans, o.spans...)
	return Set{spans: normalize(spans)}
}

// SubsetOf reports whether every version in this set is also in the other
func (s Set) SubsetOf(o Set) bool {
	return s.Intersect(o).Equal(s)
}

// Disjoint reports whether the two sets share no versions
func (s Set) Disjoint(o Set) bool {
	return s.Intersect(o).IsEmpty()
}

// Equal reports whether two sets contain exactly the same versions. Because
// the canonical form is unique this is a structural comparison of interval
// endpoints under the version order.
func (s Set) Equal(o Set) bool {
	if len(s.spans) != len(o.spans) {
		return false
	}
	for i := range s.spans {
		if !cutEqual(s.spans[i].lo, o.spans[i].lo) || !cutEqual(s.spans[i].hi, o.spans[i].hi) {
			return false
		}
	}
	return true
}

func cutEqual(a, b cut) bool {
	if (a.v == nil) != (b.v == nil) {
		return false
	}
	if a.v == nil {
		return true
	}
	return a.v.Compare(b.v) == 0 && a.after == b.after
}

// String returns a constraint-like rendering of the set, e.g.
// ">=1.0.0, <2.0.0" or "==1.5.0 || >=3.0.0".
func (s Set) String() string {
	if s.IsEmpty() {
		return "none"
	}
	if s.IsFull() {
		return "any"
	}
	parts := make([]string, len(s.spans))
	for i, iv := range s.spans {
		parts[i] = iv.String()
	}
	return strings.Join(parts, " || ")
}

func (iv interval) String() string {
	if iv.lo.v != nil && iv.hi.v != nil && iv.lo.v.Compare(iv.hi.v) == 0 {
		return "==" + iv.lo.v.String()
	}

	atoms := make([]string, 0, 2)
	if iv.lo.v != nil {
		if iv.lo.after {
			atoms = append(atoms, ">"+iv.lo.v.String())
		} else {
			atoms = append(atoms, ">="+iv.lo.v.String())
		}
	}
	if iv.hi.v != nil {
		if iv.hi.after {
			atoms = append(atoms, "<="+iv.hi.v.String())
		} else {
			atoms = append(atoms, "<"+iv.hi.v.String())
		}
	}
	return strings.Join(atoms, ", ")
}
