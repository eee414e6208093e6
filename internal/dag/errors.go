package dag

import (
	"fmt"
	"slices"
	"strings"
)

// StructuralError is implemented by every error that makes a set of
// declarations unbuildable or unschedulable. Structural errors are always
// fatal to the build attempt and are never retried.
type StructuralError interface {
	error
	structural()
}

// DuplicateNodeError reports two members sharing a name within one scope.
type DuplicateNodeError struct {
	Scope string
	Name  string
}

func (e *DuplicateNodeError) Error() string {
	return fmt.Sprintf("duplicate node %q in scope %s", e.Name, e.Scope)
}

// DuplicatePortError reports a component declaring the same port twice.
type DuplicatePortError struct {
	Node string
	Port string
}

func (e *DuplicatePortError) Error() string {
	return fmt.Sprintf("node %q declares port %q more than once", e.Node, e.Port)
}

// InvalidNameError reports a member or port name that is not a valid path
// segment.
type InvalidNameError struct {
	Path string
	Err  error
}

func (e *InvalidNameError) Error() string {
	return fmt.Sprintf("invalid name at %q: %v", e.Path, e.Err)
}

func (e *InvalidNameError) Unwrap() error { return e.Err }

// UnknownPortError reports a port path that does not resolve to a declared
// node and port, or that is not reachable from the declaring scope.
type UnknownPortError struct {
	Path   string
	Reason string
}

func (e *UnknownPortError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("unknown port %q", e.Path)
	}
	return fmt.Sprintf("unknown port %q: %s", e.Path, e.Reason)
}

// UnknownNodeError reports a lookup of a name that is not a member of the
// scope.
type UnknownNodeError struct {
	Scope string
	Name  string
}

func (e *UnknownNodeError) Error() string {
	return fmt.Sprintf("node %q not found in scope %s", e.Name, e.Scope)
}

// MultipleSourceError reports a second connection into an input port that
// already has a source.
type MultipleSourceError struct {
	Target    string
	Existing  string
	Duplicate string
}

func (e *MultipleSourceError) Error() string {
	return fmt.Sprintf("input %q is already connected to %q, cannot also connect %q", e.Target, e.Existing, e.Duplicate)
}

// CycleError reports a dependency cycle. Path is closed: its first and last
// elements are the same node.
type CycleError struct {
	Path []string
}

func (e *CycleError) Error() string {
	return "cycle detected: " + strings.Join(e.Path, " -> ")
}

// Contains reports whether the named node lies on the cycle.
func (e *CycleError) Contains(id string) bool {
	return slices.Contains(e.Path, id)
}

func (*DuplicateNodeError) structural()  {}
func (*DuplicatePortError) structural()  {}
func (*InvalidNameError) structural()    {}
func (*UnknownPortError) structural()    {}
func (*UnknownNodeError) structural()    {}
func (*MultipleSourceError) structural() {}
func (*CycleError) structural()          {}
