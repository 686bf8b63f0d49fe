package solver

import (
	"fmt"
	"strings"
)

// ResolutionError is returned when conflict analysis proves the requirements
// unsatisfiable. It carries the root of the derivation graph for
// programmatic inspection; Error renders the graph as a human explanation.
type ResolutionError struct {
	Incompatibility *Incompatibility
}

// Error returns the rendered explanation
func (e *ResolutionError) Error() string {
	return Explain(e.Incompatibility)
}

// Explain renders the derivation graph of a terminal incompatibility as
// numbered lines. External incompatibilities (requirements, dependencies,
// missing versions) are stated inline; each derived incompatibility gets a
// line of the form "Because X and Y, Z." and is referenced by number when it
// feeds further derivations.
func Explain(inc *Incompatibility) string {
	if inc == nil {
		return "version solving has failed"
	}
	if inc.Kind != KindConflict {
		return externalDescription(inc)
	}

	r := &reporter{numbered: make(map[*Incompatibility]int)}
	r.visit(inc)

	lines := make([]string, len(r.lines))
	for i, line := range r.lines {
		lines[i] = fmt.Sprintf("%d. %s", i+1, line)
	}
	return strings.Join(lines, "\n")
}

type reporter struct {
	lines    []string
	numbered map[*Incompatibility]int
}

// visit prints the lines for a derived incompatibility's parents before its
// own line and returns that line's number. Shared nodes are printed once.
func (r *reporter) visit(inc *Incompatibility) int {
	if n, ok := r.numbered[inc]; ok {
		return n
	}

	first := r.clause(inc.Cause1)
	second := r.clause(inc.Cause2)
	r.lines = append(r.lines, fmt.Sprintf("Because %s and %s, %s.", first, second, consequence(inc)))
	n := len(r.lines)
	r.numbered[inc] = n
	return n
}

// clause describes a cause inline: external incompatibilities by what they
// state, derived ones by their conclusion and line number.
func (r *reporter) clause(inc *Incompatibility) string {
	if inc == nil {
		return "version solving has failed"
	}
	if inc.Kind == KindConflict {
		n := r.visit(inc)
		return fmt.Sprintf("%s (%d)", consequence(inc), n)
	}
	return externalDescription(inc)
}

// externalDescription states a leaf incompatibility
func externalDescription(inc *Incompatibility) string {
	switch inc.Kind {
	case KindRoot:
		return fmt.Sprintf("resolving requires %s", inc.Dependency)
	case KindNoVersions:
		if len(inc.Terms) == 1 {
			return fmt.Sprintf("no versions of %s satisfy %s", inc.Package, inc.Terms[0].Versions)
		}
		return fmt.Sprintf("no versions of %s are available", inc.Package)
	case KindDependency:
		return fmt.Sprintf("%s %s depends on %s", inc.Package, inc.Version, inc.Dependency)
	default:
		return consequence(inc)
	}
}

// consequence states what a derived incompatibility forbids
func consequence(inc *Incompatibility) string {
	switch len(inc.Terms) {
	case 0:
		return "the requirements cannot be satisfied"
	case 1:
		t := inc.Terms[0]
		if t.Positive && t.Package == rootPackage {
			return "the requirements cannot be satisfied"
		}
		if t.Positive {
			return fmt.Sprintf("%s is forbidden", t)
		}
		return fmt.Sprintf("%s is required", t.Negate())
	default:
		parts := make([]string, len(inc.Terms))
		for i, t := range inc.Terms {
			parts[i] = t.String()
		}
		return fmt.Sprintf("%s are incompatible", strings.Join(parts, " and "))
	}
}
