package domain

import (
	"errors"
	"fmt"
)

// DiagnosticCode identifies the failure class of a diagnostic. Codes map
// one-to-one onto the sentinel errors in errors.go.
type DiagnosticCode string

const (
	CodeNoMatchingSubpath   DiagnosticCode = "no-matching-subpath"
	CodeNoMatchingCondition DiagnosticCode = "no-matching-condition"
	CodeTargetFileMissing   DiagnosticCode = "target-file-missing"
	CodeUnresolved          DiagnosticCode = "unresolved"
	CodeCyclicReference     DiagnosticCode = "cyclic-reference"
	CodeReferenceNotBuilt   DiagnosticCode = "reference-not-built"
)

// Diagnostic is one user-facing failure. Diagnostics are collected across
// all nodes in a run rather than aborting on the first, so a single
// invocation reports every problem.
type Diagnostic struct {
	Code           DiagnosticCode `json:"code"`
	Specifier      string         `json:"specifier,omitempty"`
	Path           string         `json:"path,omitempty"`
	ContainingFile string         `json:"containingFile,omitempty"`
	Message        string         `json:"message"`
}

func (d Diagnostic) String() string {
	switch {
	case d.Specifier != "" && d.ContainingFile != "":
		return fmt.Sprintf("%s: %s (specifier %q in %s)", d.Code, d.Message, d.Specifier, d.ContainingFile)
	case d.Path != "":
		return fmt.Sprintf("%s: %s (%s)", d.Code, d.Message, d.Path)
	default:
		return fmt.Sprintf("%s: %s", d.Code, d.Message)
	}
}

// CodeForError maps a sentinel error to its diagnostic code. Unknown
// errors map to CodeUnresolved.
func CodeForError(err error) DiagnosticCode {
	switch {
	case errors.Is(err, ErrNoMatchingSubpath):
		return CodeNoMatchingSubpath
	case errors.Is(err, ErrNoMatchingCondition):
		return CodeNoMatchingCondition
	case errors.Is(err, ErrTargetFileMissing):
		return CodeTargetFileMissing
	case errors.Is(err, ErrCyclicReference):
		return CodeCyclicReference
	case errors.Is(err, ErrReferenceNotBuilt):
		return CodeReferenceNotBuilt
	default:
		return CodeUnresolved
	}
}

// PlanAction is the action chosen for one node of the build plan.
type PlanAction string

const (
	ActionSkip    PlanAction = "skip"
	ActionRebuild PlanAction = "rebuild"
)

// PlanStep is one entry of an ordered build plan.
type PlanStep struct {
	ConfigPath string         `json:"configPath"`
	Action     PlanAction     `json:"action"`
	State      StalenessState `json:"state"`
}

// BuildPlan is the ordered outcome of a successful validation: every node
// in dependency order with its chosen action.
type BuildPlan struct {
	Steps []PlanStep `json:"steps"`
}

// AllSkip reports whether the plan has no work, i.e. every node was fresh.
func (p *BuildPlan) AllSkip() bool {
	for _, s := range p.Steps {
		if s.Action != ActionSkip {
			return false
		}
	}
	return true
}
