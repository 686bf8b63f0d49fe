package version

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	goversion "github.com/hashicorp/go-version"
)

// versionPattern is the accepted grammar: dotted non-negative integers with
// arbitrary arity ("1", "1.2", "1.2.3.4").
var versionPattern = regexp.MustCompile(`^[0-9]+(\.[0-9]+)*$`)

// ParseError reports an unparseable version or constraint. It is raised
// before any resolution work begins.
type ParseError struct {
	Kind   string // "version" or "constraint"
	Input  string
	Reason string
}

// Error returns a string representation of the parse error
func (e *ParseError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("invalid %s %q: %s", e.Kind, e.Input, e.Reason)
	}
	return fmt.Sprintf("invalid %s %q", e.Kind, e.Input)
}

// Version is an immutable package version with a total order. Ordering is
// lexicographic on the integer components with missing components treated as
// zero, so "1.0" and "1.0.0" compare equal.
type Version struct {
	raw string
	v   *goversion.Version
}

// Parse parses a version string
func Parse(s string) (*Version, error) {
	trimmed := strings.TrimSpace(s)
	if !versionPattern.MatchString(trimmed) {
		return nil, &ParseError{Kind: "version", Input: s, Reason: "expected dotted non-negative integers"}
	}
	v, err := goversion.NewVersion(trimmed)
	if err != nil {
		return nil, &ParseError{Kind: "version", Input: s, Reason: err.Error()}
	}
	return &Version{raw: trimmed, v: v}, nil
}

// MustParse parses a version string and panics on failure. Intended for
// literals in tests and fixtures.
func MustParse(s string) *Version {
	v, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return v
}

// String returns the version as originally written
func (v *Version) String() string {
	return v.raw
}

// Compare returns -1, 0 or 1 depending on whether v is ordered before, equal
// to, or after o.
func (v *Version) Compare(o *Version) int {
	return v.v.Compare(o.v)
}

// Equal reports whether two versions are equal under the version order
func (v *Version) Equal(o *Version) bool {
	return v.Compare(o) == 0
}

// LessThan reports whether v is ordered before o
func (v *Version) LessThan(o *Version) bool {
	return v.Compare(o) < 0
}

// Components returns the integer components as written, without zero padding.
// "1.4" yields [1 4]; "1.4.0" yields [1 4 0].
func (v *Version) Components() []uint64 {
	parts := strings.Split(v.raw, ".")
	comps := make([]uint64, len(parts))
	for i, p := range parts {
		n, _ := strconv.ParseUint(p, 10, 64)
		comps[i] = n
	}
	return comps
}
