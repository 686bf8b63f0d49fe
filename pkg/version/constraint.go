package version

import (
	"fmt"
	"strings"
)

// Constraint atoms in match order: two-character operators first so that
// ">=1.0" is not read as ">" applied to "=1.0".
var operators = []string{"==", ">=", "<=", "~=", ">", "<"}

// ParseConstraint parses a comma-separated conjunction of version atoms into
// a version set. Each atom is one of ==V, >=V, <=V, >V, <V or ~=V; whitespace
// around operators and commas is ignored. An empty constraint means any
// version.
func ParseConstraint(s string) (Set, error) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return FullSet(), nil
	}

	result := FullSet()
	for _, atom := range strings.Split(trimmed, ",") {
		set, err := parseAtom(strings.TrimSpace(atom), s)
		if err != nil {
			return Set{}, err
		}
		result = result.Intersect(set)
	}
	return result, nil
}

func parseAtom(atom, whole string) (Set, error) {
	if atom == "" {
		return Set{}, &ParseError{Kind: "constraint", Input: whole, Reason: "empty atom"}
	}

	for _, op := range operators {
		if !strings.HasPrefix(atom, op) {
			continue
		}
		ver, err := Parse(strings.TrimSpace(atom[len(op):]))
		if err != nil {
			return Set{}, &ParseError{Kind: "constraint", Input: whole, Reason: err.Error()}
		}
		switch op {
		case "==":
			return Singleton(ver), nil
		case ">=":
			return AtLeast(ver), nil
		case "<=":
			return AtMost(ver), nil
		case ">":
			return GreaterThan(ver), nil
		case "<":
			return LessThan(ver), nil
		case "~=":
			return compatibleRelease(ver, whole)
		}
	}
	return Set{}, &ParseError{Kind: "constraint", Input: whole, Reason: fmt.Sprintf("unrecognized atom %q", atom)}
}

// compatibleRelease expands ~=V into a half-open range: ~=X.Y.Z means
// >=X.Y.Z, <X.(Y+1).0 and ~=X.Y means >=X.Y, <(X+1).0. A single-component
// version has no release segment to pin and is rejected.
func compatibleRelease(ver *Version, whole string) (Set, error) {
	comps := ver.Components()
	if len(comps) < 2 {
		return Set{}, &ParseError{Kind: "constraint", Input: whole, Reason: "~= requires at least two version components"}
	}

	prefix := comps[:len(comps)-1]
	bumped := make([]string, len(prefix)+1)
	for i, c := range prefix[:len(prefix)-1] {
		bumped[i] = fmt.Sprintf("%d", c)
	}
	bumped[len(prefix)-1] = fmt.Sprintf("%d", prefix[len(prefix)-1]+1)
	bumped[len(prefix)] = "0"

	upper, err := Parse(strings.Join(bumped, "."))
	if err != nil {
		return Set{}, err
	}
	return AtLeast(ver).Intersect(LessThan(upper)), nil
}
