package solver

import (
	"fmt"
	"strings"

	"rimraf-adi.com/sirocco/pkg/registry"
	"rimraf-adi.com/sirocco/pkg/version"
)

// rootPackage is the sentinel package whose single version carries the
// caller's requirements as its dependencies. It never appears in solutions.
const rootPackage = "$root"

// Term is a statement about a package that may be true or false for a given
// selection of package versions. A positive term asserts that the selected
// version of the package lies in the version set; a negative term asserts
// that it does not.
type Term struct {
	Package  string
	Versions version.Set
	Positive bool
}

// Negate returns the logical negation of the term
func (t Term) Negate() Term {
	return Term{Package: t.Package, Versions: t.Versions, Positive: !t.Positive}
}

// set returns the versions the term admits: the version set itself for a
// positive term, its complement for a negative one.
func (t Term) set() version.Set {
	if t.Positive {
		return t.Versions
	}
	return t.Versions.Complement()
}

// Intersect combines two terms on the same package:
// positive A and positive B admit A intersect B, positive A and negative B
// admit A minus B, and negative A and negative B forbid A union B.
func (t Term) Intersect(o Term) Term {
	switch {
	case t.Positive && o.Positive:
		return Term{Package: t.Package, Versions: t.Versions.Intersect(o.Versions), Positive: true}
	case t.Positive && !o.Positive:
		return Term{Package: t.Package, Versions: t.Versions.Intersect(o.Versions.Complement()), Positive: true}
	case !t.Positive && o.Positive:
		return Term{Package: t.Package, Versions: o.Versions.Intersect(t.Versions.Complement()), Positive: true}
	default:
		return Term{Package: t.Package, Versions: t.Versions.Union(o.Versions), Positive: false}
	}
}

// String returns a string representation of the term
func (t Term) String() string {
	name := t.Package
	if !t.Versions.IsFull() {
		name = fmt.Sprintf("%s %s", t.Package, t.Versions)
	}
	if t.Positive {
		return name
	}
	return "not " + name
}

// IncompatibilityKind identifies the origin of an incompatibility
type IncompatibilityKind int

const (
	// KindRoot expresses one of the caller's root requirements
	KindRoot IncompatibilityKind = iota
	// KindNoVersions means no available version falls in the required set
	KindNoVersions
	// KindDependency means a package version depends on another package
	KindDependency
	// KindConflict means derived during conflict resolution
	KindConflict
)

// Incompatibility is a set of terms that cannot all be true in any valid
// solution, with at most one term per package. Derived incompatibilities
// retain both parents so failures can be explained from the derivation graph.
type Incompatibility struct {
	Terms []Term
	Kind  IncompatibilityKind

	// Package and Version identify the depending release for KindDependency.
	Package string
	Version *version.Version
	// Dependency is the required package for KindRoot and KindDependency.
	Dependency registry.Dependency

	// Cause1 and Cause2 are the parents for KindConflict.
	Cause1 *Incompatibility
	Cause2 *Incompatibility
}

// newRootIncompatibility states that resolution requires the given
// dependency: {root, not dep}.
func newRootIncompatibility(dep registry.Dependency) *Incompatibility {
	return &Incompatibility{
		Terms: []Term{
			{Package: rootPackage, Versions: version.FullSet(), Positive: true},
			{Package: dep.Name, Versions: dep.Allowed, Positive: false},
		},
		Kind:       KindRoot,
		Package:    rootPackage,
		Dependency: dep,
	}
}

// newDependencyIncompatibility states that pkg at ver depends on dep:
// {pkg ==ver, not dep}.
func newDependencyIncompatibility(pkg string, ver *version.Version, dep registry.Dependency) *Incompatibility {
	return &Incompatibility{
		Terms: []Term{
			{Package: pkg, Versions: version.Singleton(ver), Positive: true},
			{Package: dep.Name, Versions: dep.Allowed, Positive: false},
		},
		Kind:       KindDependency,
		Package:    pkg,
		Version:    ver,
		Dependency: dep,
	}
}

// newNoVersionsIncompatibility states that no available version of pkg lies
// in the given set.
func newNoVersionsIncompatibility(pkg string, allowed version.Set) *Incompatibility {
	return &Incompatibility{
		Terms:   []Term{{Package: pkg, Versions: allowed, Positive: true}},
		Kind:    KindNoVersions,
		Package: pkg,
	}
}

// newConflictIncompatibility creates a derived incompatibility with both
// parents retained for explanation.
func newConflictIncompatibility(terms []Term, cause1, cause2 *Incompatibility) *Incompatibility {
	return &Incompatibility{
		Terms:  terms,
		Kind:   KindConflict,
		Cause1: cause1,
		Cause2: cause2,
	}
}

// isTerminal reports whether conflict resolution can go no further: the
// incompatibility is empty or asserts only that the root cannot be selected.
func (inc *Incompatibility) isTerminal() bool {
	if len(inc.Terms) == 0 {
		return true
	}
	return len(inc.Terms) == 1 && inc.Terms[0].Positive && inc.Terms[0].Package == rootPackage
}

// key is a canonical rendering used to deduplicate the incompatibility store
func (inc *Incompatibility) key() string {
	parts := make([]string, len(inc.Terms))
	for i, t := range inc.Terms {
		parts[i] = t.String()
	}
	return strings.Join(parts, "; ")
}

// String returns a string representation of the incompatibility
func (inc *Incompatibility) String() string {
	if len(inc.Terms) == 0 {
		return "{}"
	}
	parts := make([]string, len(inc.Terms))
	for i, t := range inc.Terms {
		parts[i] = t.String()
	}
	return fmt.Sprintf("{%s}", strings.Join(parts, ", "))
}
