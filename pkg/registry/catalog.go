package registry

import (
	"fmt"
	"sort"

	"rimraf-adi.com/sirocco/pkg/version"
)

// Dependency represents a requirement on another package. The constraint is
// kept both as the parsed version set used by the solver and as the original
// text used in explanations.
type Dependency struct {
	Name       string
	Constraint string
	Allowed    version.Set
}

// NewDependency parses a constraint string into a dependency
func NewDependency(name, constraint string) (Dependency, error) {
	allowed, err := version.ParseConstraint(constraint)
	if err != nil {
		return Dependency{}, err
	}
	return Dependency{Name: name, Constraint: constraint, Allowed: allowed}, nil
}

// String returns a string representation of the dependency
func (d Dependency) String() string {
	if d.Constraint == "" {
		return d.Name
	}
	return fmt.Sprintf("%s %s", d.Name, d.Constraint)
}

// DuplicateError reports a second registration of the same package version.
// Versions equal under the version order count as duplicates, so "1.0" and
// "1.0.0" collide.
type DuplicateError struct {
	Package string
	Version string
}

// Error returns a string representation of the duplicate error
func (e *DuplicateError) Error() string {
	return fmt.Sprintf("package %s %s registered twice", e.Package, e.Version)
}

// release is a single package version together with its dependencies, sorted
// by dependency name so that input map order never reaches the solver.
type release struct {
	version *version.Version
	deps    []Dependency
}

// Catalog is the fully materialized set of available package versions the
// solver draws from. All parsing and validation happens at registration time;
// queries during resolution never fail.
type Catalog struct {
	names    []string
	packages map[string][]release
}

// NewCatalog creates an empty catalog
func NewCatalog() *Catalog {
	return &Catalog{packages: make(map[string][]release)}
}

// AddPackage registers a package version and its dependencies. The deps map
// may be nil for a package without dependencies. Registering the same
// (package, version) pair twice is rejected.
func (c *Catalog) AddPackage(name, ver string, deps map[string]string) error {
	parsed, err := version.Parse(ver)
	if err != nil {
		return err
	}

	depNames := make([]string, 0, len(deps))
	for dep := range deps {
		depNames = append(depNames, dep)
	}
	sort.Strings(depNames)

	parsedDeps := make([]Dependency, 0, len(depNames))
	for _, dep := range depNames {
		d, err := NewDependency(dep, deps[dep])
		if err != nil {
			return err
		}
		parsedDeps = append(parsedDeps, d)
	}

	releases, known := c.packages[name]
	idx := sort.Search(len(releases), func(i int) bool {
		return releases[i].version.Compare(parsed) >= 0
	})
	if idx < len(releases) && releases[idx].version.Equal(parsed) {
		return &DuplicateError{Package: name, Version: ver}
	}

	releases = append(releases, release{})
	copy(releases[idx+1:], releases[idx:])
	releases[idx] = release{version: parsed, deps: parsedDeps}
	c.packages[name] = releases

	if !known {
		c.names = append(c.names, name)
	}
	return nil
}

// Has reports whether any version of the package is registered
func (c *Catalog) Has(name string) bool {
	_, ok := c.packages[name]
	return ok
}

// Versions returns the registered versions of a package in ascending order,
// or nil for an unknown package.
func (c *Catalog) Versions(name string) []*version.Version {
	releases := c.packages[name]
	if len(releases) == 0 {
		return nil
	}
	versions := make([]*version.Version, len(releases))
	for i, rel := range releases {
		versions[i] = rel.version
	}
	return versions
}

// Dependencies returns the dependencies of a package version, sorted by
// dependency name. The second result reports whether the version exists.
func (c *Catalog) Dependencies(name string, ver *version.Version) ([]Dependency, bool) {
	for _, rel := range c.packages[name] {
		if rel.version.Equal(ver) {
			return rel.deps, true
		}
	}
	return nil, false
}

// Packages returns the registered package names in first-registration order
func (c *Catalog) Packages() []string {
	names := make([]string, len(c.names))
	copy(names, c.names)
	return names
}
