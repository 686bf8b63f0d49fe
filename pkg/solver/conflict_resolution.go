package solver

import "github.com/sirupsen/logrus"

// resolveConflict walks a satisfied incompatibility back through the causes
// of its satisfying derivations until it either proves the problem
// unsolvable or learns an incompatibility and backjumps.
//
// Each iteration picks the term whose satisfier is the most recent
// assignment. If that satisfier is a decision, or sits at a strictly higher
// decision level than every other term's satisfier, the current
// incompatibility is learned, the solution backjumps to the previous level
// and the term's negation is derived there. Otherwise the satisfier is a
// derivation and the incompatibility is replaced by its resolvent with the
// derivation's cause.
//
// Returns the package to propagate from next, or the terminal
// incompatibility when resolution has failed.
func (s *Solver) resolveConflict(conflict *Incompatibility) (string, *Incompatibility) {
	for {
		if conflict.isTerminal() {
			return "", conflict
		}

		var worst *Assignment
		var worstTerm Term
		for _, t := range conflict.Terms {
			a := s.partial.satisfier(t)
			if a == nil {
				continue
			}
			if worst == nil || a.index > worst.index {
				worst = a
				worstTerm = t
			}
		}
		if worst == nil {
			return "", conflict
		}
		if worst.IsDecision && worst.DecisionLevel == 0 {
			return "", conflict
		}

		previousLevel := 0
		for _, t := range conflict.Terms {
			if t.Package == worstTerm.Package {
				continue
			}
			if a := s.partial.satisfier(t); a != nil && a.DecisionLevel > previousLevel {
				previousLevel = a.DecisionLevel
			}
		}

		if worst.IsDecision || worst.DecisionLevel > previousLevel {
			s.partial.Backtrack(previousLevel)
			s.addIncompatibility(conflict)
			derived := worstTerm.Negate()
			s.partial.Derive(derived, conflict)
			s.debug("backjumped", logrus.Fields{
				"level":   previousLevel,
				"learned": conflict.String(),
				"term":    derived.String(),
			})
			return worstTerm.Package, nil
		}

		cause := worst.Cause
		if cause == nil {
			return "", conflict
		}
		conflict = resolve(conflict, cause, worstTerm.Package)
		s.debug("resolved conflict", logrus.Fields{
			"pivot":    worstTerm.Package,
			"resolved": conflict.String(),
		})
	}
}

// resolve builds the resolvent of two incompatibilities on a pivot package:
// every term of both except those on the pivot, with terms on a shared
// package merged by intersection. Both parents are retained as causes.
func resolve(conflict, cause *Incompatibility, pivot string) *Incompatibility {
	order := make([]string, 0, len(conflict.Terms)+len(cause.Terms))
	merged := make(map[string]Term)

	for _, src := range [2]*Incompatibility{conflict, cause} {
		for _, t := range src.Terms {
			if t.Package == pivot {
				continue
			}
			if existing, ok := merged[t.Package]; ok {
				merged[t.Package] = existing.Intersect(t)
				continue
			}
			merged[t.Package] = t
			order = append(order, t.Package)
		}
	}

	terms := make([]Term, len(order))
	for i, pkg := range order {
		terms[i] = merged[pkg]
	}
	return newConflictIncompatibility(terms, conflict, cause)
}
