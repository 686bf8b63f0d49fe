package solver

import (
	"errors"
	"fmt"
	"io"
	"sort"

	"rimraf-adi.com/sirocco/pkg/registry"
)

// Example is a small self-contained catalog with its root requirements,
// used by the CLI demo and examples commands.
type Example struct {
	Name         string
	Packages     map[string]map[string]map[string]string
	Requirements map[string]string
}

// Examples returns the bundled example catalogs: a plain dependency chain, a
// case where the newest version must be skipped, and an unsolvable conflict.
func Examples() []Example {
	return []Example{
		{
			Name: "no conflicts",
			Packages: map[string]map[string]map[string]string{
				"app": {"1.0.0": {"lib": ">=1.0.0"}},
				"lib": {"1.0.0": {"util": ">=1.0.0"}, "2.0.0": {"util": ">=2.0.0"}},
				"util": {"1.0.0": {}, "2.0.0": {}},
			},
			Requirements: map[string]string{"app": ">=1.0.0"},
		},
		{
			Name: "avoiding conflict by picking an older version",
			Packages: map[string]map[string]map[string]string{
				"web":  {"1.0.0": {}, "2.0.0": {"json": ">=9.0.0"}},
				"json": {"1.0.0": {}},
			},
			Requirements: map[string]string{"web": ">=1.0.0"},
		},
		{
			Name: "unsolvable conflict",
			Packages: map[string]map[string]map[string]string{
				"left":   {"1.0.0": {"shared": ">=2.0.0"}},
				"right":  {"1.0.0": {"shared": "<2.0.0"}},
				"shared": {"1.0.0": {}, "2.0.0": {}},
			},
			Requirements: map[string]string{"left": ">=1.0.0", "right": ">=1.0.0"},
		},
	}
}

// Run solves the example catalog and writes the outcome
func (e Example) Run(w io.Writer, opts ...Option) error {
	fmt.Fprintf(w, "=== %s ===\n", e.Name)

	catalog := registry.NewCatalog()
	for _, name := range sortedKeys(e.Packages) {
		for _, ver := range sortedKeys(e.Packages[name]) {
			if err := catalog.AddPackage(name, ver, e.Packages[name][ver]); err != nil {
				return err
			}
		}
	}

	requirements := make([]registry.Dependency, 0, len(e.Requirements))
	for _, name := range sortedKeys(e.Requirements) {
		dep, err := registry.NewDependency(name, e.Requirements[name])
		if err != nil {
			return err
		}
		requirements = append(requirements, dep)
	}

	result, err := Solve(catalog, requirements, opts...)
	if err != nil {
		var resolution *ResolutionError
		if !errors.As(err, &resolution) {
			return err
		}
		fmt.Fprintf(w, "no solution:\n%s\n", resolution.Error())
		return nil
	}

	for _, pkg := range sortedKeys(result) {
		fmt.Fprintf(w, "  %s %s\n", pkg, result[pkg])
	}
	return nil
}

func sortedKeys[M ~map[string]V, V any](m M) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
