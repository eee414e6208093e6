package executor

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrMissingInput is wrapped when an unconnected input has neither an
	// initial value nor a default.
	ErrMissingInput = errors.New("missing input value")
	// ErrPanic is wrapped when an evaluator panics.
	ErrPanic = errors.New("evaluator panicked")
	// ErrOutputMismatch is wrapped when an evaluator does not return exactly
	// its declared outputs.
	ErrOutputMismatch = errors.New("outputs do not match declaration")
)

// EvaluationError reports a node whose own evaluation failed.
type EvaluationError struct {
	Node string
	Err  error
}

func (e *EvaluationError) Error() string {
	return fmt.Sprintf("node %q failed: %v", e.Node, e.Err)
}

func (e *EvaluationError) Unwrap() error { return e.Err }

// SkippedError reports a node that never ran because Upstream did not
// produce a value it needs.
type SkippedError struct {
	Node     string
	Upstream string
}

func (e *SkippedError) Error() string {
	return fmt.Sprintf("node %q skipped: upstream %q produced no value", e.Node, e.Upstream)
}

// GroupError summarizes the members of a group that did not complete.
type GroupError struct {
	Node    string
	Failed  []string
	Skipped []string
}

func (e *GroupError) Error() string {
	var parts []string
	if len(e.Failed) > 0 {
		parts = append(parts, "failed: "+strings.Join(e.Failed, ", "))
	}
	if len(e.Skipped) > 0 {
		parts = append(parts, "skipped: "+strings.Join(e.Skipped, ", "))
	}
	return fmt.Sprintf("group %q incomplete (%s)", e.Node, strings.Join(parts, "; "))
}
