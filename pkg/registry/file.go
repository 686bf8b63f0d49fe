package registry

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// File is the YAML catalog format consumed by the CLI:
//
//	packages:
//	  app:
//	    "1.0.0":
//	      lib: ">=2.0.0, <3.0.0"
//	  lib:
//	    "2.0.0": {}
//	    "2.1.0": {}
//	requirements:
//	  app: ">=1.0.0"
//
// Version keys should be quoted so the YAML parser keeps them as strings.
type File struct {
	Packages     map[string]map[string]map[string]string `yaml:"packages"`
	Requirements map[string]string                       `yaml:"requirements"`
}

// Load parses a YAML catalog document into a catalog and the root
// requirements. Package and version names are inserted in sorted order so
// document layout never affects resolution output.
func Load(data []byte) (*Catalog, []Dependency, error) {
	var file File
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, nil, fmt.Errorf("failed to parse catalog: %w", err)
	}

	catalog := NewCatalog()
	for _, name := range sortedKeys(file.Packages) {
		versions := file.Packages[name]
		for _, ver := range sortedKeys(versions) {
			if err := catalog.AddPackage(name, ver, versions[ver]); err != nil {
				return nil, nil, err
			}
		}
	}

	requirements := make([]Dependency, 0, len(file.Requirements))
	for _, name := range sortedKeys(file.Requirements) {
		dep, err := NewDependency(name, file.Requirements[name])
		if err != nil {
			return nil, nil, err
		}
		requirements = append(requirements, dep)
	}
	return catalog, requirements, nil
}

// LoadFile reads and parses a YAML catalog file
func LoadFile(path string) (*Catalog, []Dependency, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read catalog: %w", err)
	}
	return Load(data)
}

func sortedKeys[M ~map[string]V, V any](m M) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
