package solver

import "github.com/sirupsen/logrus"

// propagate runs unit propagation to fixpoint starting from the given
// package. Incompatibilities mentioning a changed package are examined
// newest first; almost-satisfied ones yield new derivations, a satisfied one
// is returned as a conflict.
func (s *Solver) propagate(start string) *Incompatibility {
	queue := []string{start}
	queued := map[string]bool{start: true}

	for len(queue) > 0 {
		pkg := queue[0]
		queue = queue[1:]
		queued[pkg] = false

		incs := s.byPackage[pkg]
		for i := len(incs) - 1; i >= 0; i-- {
			inc := incs[i]
			relation, unsatisfied := s.partial.Relation(inc)

			switch relation {
			case Satisfied:
				s.debug("conflict detected", logrus.Fields{
					"package":         pkg,
					"incompatibility": inc.String(),
				})
				return inc

			case AlmostSatisfied:
				derived := unsatisfied.Negate()
				if !s.partial.Derive(derived, inc) {
					return inc
				}
				s.debug("derived term", logrus.Fields{
					"package":         pkg,
					"incompatibility": inc.String(),
					"term":            derived.String(),
				})
				if !queued[derived.Package] {
					queue = append(queue, derived.Package)
					queued[derived.Package] = true
				}
			}
		}
	}
	return nil
}
