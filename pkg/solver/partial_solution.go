package solver

import (
	"rimraf-adi.com/sirocco/pkg/version"
)

// Assignment is a term that has been added to the partial solution, either
// as a decision (an explicit version selection opening a new decision level)
// or as a derivation (a term entailed by unit propagation, annotated with the
// incompatibility that caused it).
type Assignment struct {
	Term          Term
	Version       *version.Version // set for decisions
	IsDecision    bool
	DecisionLevel int
	Cause         *Incompatibility // set for derivations
	index         int
}

// PartialSolution is the ordered log of assignments built so far. Decisions
// monotonically increase the decision level; derivations carry the level of
// the most recent decision. Assignments are indexed per package for version
// set queries and satisfier lookup.
type PartialSolution struct {
	assignments []*Assignment
	byPackage   map[string][]*Assignment
	level       int
}

// NewPartialSolution creates an empty partial solution
func NewPartialSolution() *PartialSolution {
	return &PartialSolution{byPackage: make(map[string][]*Assignment)}
}

// DecisionLevel returns the current decision level
func (ps *PartialSolution) DecisionLevel() int {
	return ps.level
}

func (ps *PartialSolution) append(a *Assignment) {
	a.index = len(ps.assignments)
	ps.assignments = append(ps.assignments, a)
	ps.byPackage[a.Term.Package] = append(ps.byPackage[a.Term.Package], a)
}

// Decide selects a specific version for a package at a new decision level
func (ps *PartialSolution) Decide(pkg string, v *version.Version) {
	ps.level++
	ps.append(&Assignment{
		Term:          Term{Package: pkg, Versions: version.Singleton(v), Positive: true},
		Version:       v,
		IsDecision:    true,
		DecisionLevel: ps.level,
	})
}

// seedRoot records the sentinel root decision at level 0
func (ps *PartialSolution) seedRoot(v *version.Version) {
	ps.append(&Assignment{
		Term:          Term{Package: rootPackage, Versions: version.Singleton(v), Positive: true},
		Version:       v,
		IsDecision:    true,
		DecisionLevel: 0,
	})
}

// Derive appends a derivation at the current decision level. It reports
// false, without appending, if the term would leave the package with no
// allowed versions.
func (ps *PartialSolution) Derive(t Term, cause *Incompatibility) bool {
	if ps.AllowedSet(t.Package).Intersect(t.set()).IsEmpty() {
		return false
	}
	ps.append(&Assignment{Term: t, DecisionLevel: ps.level, Cause: cause})
	return true
}

// AllowedSet computes the versions of a package permitted by the conjunction
// of its assignments. A package with no assignments is unconstrained.
func (ps *PartialSolution) AllowedSet(pkg string) version.Set {
	allowed := version.FullSet()
	for _, a := range ps.byPackage[pkg] {
		allowed = allowed.Intersect(a.Term.set())
	}
	return allowed
}

// hasDecision reports whether the package already has a decision assignment
func (ps *PartialSolution) hasDecision(pkg string) bool {
	for _, a := range ps.byPackage[pkg] {
		if a.IsDecision {
			return true
		}
	}
	return false
}

// satisfier returns the assignment whose prefix first satisfies the term, or
// nil if the partial solution does not satisfy it.
func (ps *PartialSolution) satisfier(t Term) *Assignment {
	target := t.set()
	allowed := version.FullSet()
	for _, a := range ps.byPackage[t.Package] {
		allowed = allowed.Intersect(a.Term.set())
		if allowed.SubsetOf(target) {
			return a
		}
	}
	return nil
}

// Backtrack drops every assignment above the given decision level
func (ps *PartialSolution) Backtrack(level int) {
	if level < 0 {
		level = 0
	}
	for len(ps.assignments) > 0 {
		last := ps.assignments[len(ps.assignments)-1]
		if last.DecisionLevel <= level {
			break
		}
		ps.assignments = ps.assignments[:len(ps.assignments)-1]
		stack := ps.byPackage[last.Term.Package]
		stack = stack[:len(stack)-1]
		if len(stack) == 0 {
			delete(ps.byPackage, last.Term.Package)
		} else {
			ps.byPackage[last.Term.Package] = stack
		}
	}
	ps.level = level
}

// PackagesToDecide lists the packages that have a positive assignment but no
// decision yet, in order of first mention. Resolution is complete when this
// list is empty.
func (ps *PartialSolution) PackagesToDecide() []string {
	pending := make([]string, 0)
	seen := make(map[string]bool)
	for _, a := range ps.assignments {
		pkg := a.Term.Package
		if pkg == rootPackage || seen[pkg] {
			continue
		}
		seen[pkg] = true
		positive := false
		for _, b := range ps.byPackage[pkg] {
			positive = positive || b.Term.Positive
		}
		if positive && !ps.hasDecision(pkg) {
			pending = append(pending, pkg)
		}
	}
	return pending
}

// Solution extracts the decided versions, excluding the root sentinel
func (ps *PartialSolution) Solution() map[string]string {
	result := make(map[string]string)
	for _, a := range ps.assignments {
		if a.IsDecision && a.Term.Package != rootPackage {
			result[a.Term.Package] = a.Version.String()
		}
	}
	return result
}
