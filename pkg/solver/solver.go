package solver

import (
	"fmt"

	"rimraf-adi.com/sirocco/pkg/registry"
	"rimraf-adi.com/sirocco/pkg/version"
)

// ErrStepLimit is returned when the solver exceeds the configured round limit
var ErrStepLimit = fmt.Errorf("solver step limit exceeded")

// Solver resolves root requirements against a catalog using the PubGrub
// algorithm: unit propagation over a growing store of incompatibilities,
// with conflict-driven clause learning and backjumping.
//
// A solve run is single-threaded and owns all of its state; identical inputs
// produce identical assignments and identical failure explanations.
type Solver struct {
	catalog *registry.Catalog
	opts    Options

	partial   *PartialSolution
	byPackage map[string][]*Incompatibility
	seen      map[string]bool
}

// New creates a solver over the given catalog
func New(catalog *registry.Catalog, opts ...Option) *Solver {
	s := &Solver{catalog: catalog}
	for _, opt := range opts {
		if opt != nil {
			opt(&s.opts)
		}
	}
	return s
}

// Solve resolves the requirements against the catalog, returning one version
// per required package (transitively) or a *ResolutionError describing why
// no consistent assignment exists. Requirements must be sorted by package
// name by the caller so that input order never affects the outcome.
func (s *Solver) Solve(requirements []registry.Dependency) (map[string]string, error) {
	s.partial = NewPartialSolution()
	s.byPackage = make(map[string][]*Incompatibility)
	s.seen = make(map[string]bool)

	s.partial.seedRoot(version.MustParse("0"))
	for _, req := range requirements {
		s.addIncompatibility(newRootIncompatibility(req))
	}

	seed := rootPackage
	for steps := 0; ; steps++ {
		if s.opts.MaxSteps > 0 && steps >= s.opts.MaxSteps {
			return nil, fmt.Errorf("%w after %d rounds", ErrStepLimit, steps)
		}

		conflict := s.propagate(seed)
		if conflict != nil {
			next, terminal := s.resolveConflict(conflict)
			if terminal != nil {
				return nil, &ResolutionError{Incompatibility: terminal}
			}
			seed = next
			continue
		}

		next, done := s.decide()
		if done {
			return s.partial.Solution(), nil
		}
		seed = next
	}
}

// Solve is a convenience wrapper creating a single-use solver
func Solve(catalog *registry.Catalog, requirements []registry.Dependency, opts ...Option) (map[string]string, error) {
	return New(catalog, opts...).Solve(requirements)
}

// addIncompatibility records an incompatibility, indexing it by every
// package it mentions. The store is deduplicated and never shrinks within a
// solve.
func (s *Solver) addIncompatibility(inc *Incompatibility) {
	key := inc.key()
	if s.seen[key] {
		return
	}
	s.seen[key] = true
	for _, t := range inc.Terms {
		s.byPackage[t.Package] = append(s.byPackage[t.Package], inc)
	}
}
