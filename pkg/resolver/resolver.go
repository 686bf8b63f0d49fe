// Package resolver is the public surface of the sirocco version resolver.
// A Resolver accumulates a catalog of package versions and resolves root
// requirements against it with the PubGrub algorithm.
package resolver

import (
	"sort"

	"rimraf-adi.com/sirocco/pkg/registry"
	"rimraf-adi.com/sirocco/pkg/solver"
)

// Resolver accumulates available package versions and resolves requirements
// against them
type Resolver struct {
	catalog *registry.Catalog
	opts    []solver.Option
}

// New creates an empty resolver
func New(opts ...solver.Option) *Resolver {
	return &Resolver{catalog: registry.NewCatalog(), opts: opts}
}

// AddPackage registers an available package version with its dependencies.
// The deps map may be nil for a package without dependencies. Unparseable
// versions or constraints and duplicate (package, version) registrations are
// rejected before any resolution work.
func (r *Resolver) AddPackage(name, ver string, deps map[string]string) error {
	return r.catalog.AddPackage(name, ver, deps)
}

// Resolve finds one version per required package (transitively) satisfying
// every constraint, or returns a *solver.ResolutionError explaining why no
// such assignment exists. The returned map never includes the root sentinel.
func (r *Resolver) Resolve(requirements map[string]string) (map[string]string, error) {
	names := make([]string, 0, len(requirements))
	for name := range requirements {
		names = append(names, name)
	}
	sort.Strings(names)

	deps := make([]registry.Dependency, 0, len(names))
	for _, name := range names {
		dep, err := registry.NewDependency(name, requirements[name])
		if err != nil {
			return nil, err
		}
		deps = append(deps, dep)
	}
	return solver.Solve(r.catalog, deps, r.opts...)
}

// Resolve resolves requirements against a catalog given as
// package -> version -> dependency -> constraint. It is equivalent to
// building a Resolver and adding every entry; map iteration order never
// affects the outcome.
func Resolve(requirements map[string]string, available map[string]map[string]map[string]string) (map[string]string, error) {
	r := New()

	names := make([]string, 0, len(available))
	for name := range available {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		versions := available[name]
		vers := make([]string, 0, len(versions))
		for ver := range versions {
			vers = append(vers, ver)
		}
		sort.Strings(vers)
		for _, ver := range vers {
			if err := r.AddPackage(name, ver, versions[ver]); err != nil {
				return nil, err
			}
		}
	}
	return r.Resolve(requirements)
}
