package solver

// propagate runs unit propagation to a fixed point. Whenever an
// incompatibility touching a changed package becomes satisfied, conflict
// resolution takes over; propagation then restarts from the backjumped state.
func (s *Solver) propagate() error {
rounds:
	for len(s.queue) > 0 {
		pkg := s.queue[0]
		s.queue = s.queue[1:]
		delete(s.queued, pkg)

		// Most recently added incompatibilities are checked first: learned
		// incompatibilities tend to fail fastest.
		refs := s.graph.Referencing(pkg)
		for i := len(refs) - 1; i >= 0; i-- {
			in := s.graph.Get(refs[i])
			relation, unsatisfied := s.ps.relate(in)
			switch relation {
			case relationSatisfied:
				s.tracer.Trace(Step{Kind: StepConflict, Incompatibility: in})
				changed, err := s.resolveConflict(in)
				if err != nil {
					return err
				}
				s.resetQueue(changed)
				continue rounds
			case relationAlmostSatisfied:
				derived := unsatisfied.Negate()
				if a := s.ps.derive(derived, in.ID(), s.ps.level); a != nil {
					s.tracer.Trace(Step{Kind: StepDerivation, Term: derived, Level: s.ps.level})
					s.enqueue(unsatisfied.Package())
				}
			}
		}
	}
	return nil
}
