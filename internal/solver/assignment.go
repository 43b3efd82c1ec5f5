package solver

import (
	"fmt"

	"github.com/versolve/versolve/pkg/versolve"
	"github.com/versolve/versolve/pkg/versolve/version"
)

// assignmentKind distinguishes decisions from derivations. A decision is an
// explicit version selection; a derivation is a term forced by unit
// propagation from some incompatibility.
type assignmentKind int

const (
	assignmentDecision assignmentKind = iota
	assignmentDerivation
)

// assignment is one entry in the partial solution's ordered log.
type assignment struct {
	term    versolve.Term
	kind    assignmentKind
	version version.Version // selected version, decisions only
	cause   versolve.ID     // forcing incompatibility, derivations only
	level   int             // decision level at the time of the assignment
	index   int             // position in the log, for satisfier ordering
}

func (a *assignment) isDecision() bool {
	return a.kind == assignmentDecision
}

func (a *assignment) String() string {
	if a.isDecision() {
		return fmt.Sprintf("decide %s %s (level %d)", a.term.Package(), a.version, a.level)
	}
	return fmt.Sprintf("derive %s (level %d, cause %d)", a.term, a.level, a.cause)
}
