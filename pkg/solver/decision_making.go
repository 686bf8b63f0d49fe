package solver

import "github.com/sirupsen/logrus"

// decide picks the next package and version, registering the chosen
// version's dependency incompatibilities. It prefers the package with the
// fewest candidate versions remaining and takes the highest version the
// partial solution still allows.
//
// When one of the new dependency incompatibilities is already satisfied up
// to the candidate's own term, deciding would conflict immediately. The
// incompatibilities stay registered but no decision is made; propagation
// then derives the exclusion of the candidate with the dependency as its
// cause, which keeps failure explanations anchored to the dependency that
// ruled the version out.
//
// Returns the package to propagate from next, or done=true when every
// package with a positive assignment has a decision and resolution is
// complete.
func (s *Solver) decide() (string, bool) {
	pending := s.partial.PackagesToDecide()
	if len(pending) == 0 {
		return "", true
	}

	pkg := pending[0]
	fewest := s.candidateCount(pkg)
	for _, p := range pending[1:] {
		if n := s.candidateCount(p); n < fewest {
			pkg, fewest = p, n
		}
	}

	allowed := s.partial.AllowedSet(pkg)
	versions := s.catalog.Versions(pkg)
	for i := len(versions) - 1; i >= 0; i-- {
		v := versions[i]
		if !allowed.Contains(v) {
			continue
		}

		deps, _ := s.catalog.Dependencies(pkg, v)
		conflicted := false
		for _, dep := range deps {
			inc := newDependencyIncompatibility(pkg, v, dep)
			s.addIncompatibility(inc)
			if s.wouldConflict(inc, pkg) {
				conflicted = true
			}
		}
		if conflicted {
			s.debug("version rejected", logrus.Fields{"package": pkg, "version": v.String()})
			return pkg, false
		}

		s.partial.Decide(pkg, v)
		s.debug("decided", logrus.Fields{
			"package": pkg,
			"version": v.String(),
			"level":   s.partial.DecisionLevel(),
		})
		return pkg, false
	}

	inc := newNoVersionsIncompatibility(pkg, allowed)
	s.addIncompatibility(inc)
	s.debug("no versions", logrus.Fields{"package": pkg, "allowed": allowed.String()})
	return pkg, false
}

// candidateCount counts the available versions of a package that the partial
// solution still allows
func (s *Solver) candidateCount(pkg string) int {
	allowed := s.partial.AllowedSet(pkg)
	count := 0
	for _, v := range s.catalog.Versions(pkg) {
		if allowed.Contains(v) {
			count++
		}
	}
	return count
}

// wouldConflict reports whether deciding the version this dependency
// incompatibility describes would satisfy it immediately: every term other
// than the deciding package's own is already satisfied.
func (s *Solver) wouldConflict(inc *Incompatibility, pkg string) bool {
	for _, t := range inc.Terms {
		if t.Package == pkg {
			continue
		}
		if s.partial.Satisfies(t) != Satisfied {
			return false
		}
	}
	return true
}
