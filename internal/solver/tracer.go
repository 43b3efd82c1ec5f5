package solver

import (
	"fmt"
	"io"

	"github.com/versolve/versolve/pkg/versolve"
	"github.com/versolve/versolve/pkg/versolve/version"
)

// StepKind identifies what the solver just did.
type StepKind int

const (
	StepDecision StepKind = iota
	StepDerivation
	StepConflict
	StepBackjump
)

// Step is a snapshot of a single solver action, handed to a Tracer.
type Step struct {
	Kind            StepKind
	Package         versolve.Package
	Version         version.Version
	Term            versolve.Term
	Incompatibility *versolve.Incompatibility
	Level           int
}

// Tracer observes solver steps as they happen.
type Tracer interface {
	Trace(s Step)
}

type DefaultTracer struct{}

func (DefaultTracer) Trace(_ Step) {
}

// LoggingTracer writes a line per solver step to Writer.
type LoggingTracer struct {
	Writer io.Writer
}

func (t LoggingTracer) Trace(s Step) {
	switch s.Kind {
	case StepDecision:
		fmt.Fprintf(t.Writer, "decide %s %s (level %d)\n", s.Package, s.Version, s.Level)
	case StepDerivation:
		fmt.Fprintf(t.Writer, "derive %s (level %d)\n", s.Term, s.Level)
	case StepConflict:
		fmt.Fprintf(t.Writer, "conflict %s\n", s.Incompatibility)
	case StepBackjump:
		fmt.Fprintf(t.Writer, "backjump to level %d\n", s.Level)
	}
}
