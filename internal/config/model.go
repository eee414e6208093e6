package config

import (
	"github.com/zclconf/go-cty/cty"
)

// Model is the unified, format-agnostic representation of a whole model.
// The root group is never addressed by name.
type Model struct {
	Root *Group
}

// NewModel wraps the given members and connections in an anonymous root
// group.
func NewModel(members []Member, connections []Connection) *Model {
	return &Model{Root: &Group{Members: members, Connections: connections}}
}

// Member is a declaration that can be placed in a group: a *Component or a
// nested *Group.
type Member interface {
	MemberName() string
}

// Port declares a named input or output slot.
type Port struct {
	Name string
	// Default is used for an input that has neither an incoming connection
	// nor an initial value. Nil means the input is required.
	Default *cty.Value
}

// Component is a leaf unit of computation.
type Component struct {
	Name      string
	Inputs    []Port
	Outputs   []Port
	Evaluator Evaluator
}

// MemberName implements Member.
func (c *Component) MemberName() string { return c.Name }

// Group is a composite declaration that owns a nested scope.
type Group struct {
	Name string
	// Parallel marks the group as parallel-eligible: its inner batches are
	// dispatched concurrently rather than one node at a time.
	Parallel bool
	// Exports lists the inner port paths (relative to the group) reachable
	// from outside. Nil exports everything.
	Exports     []string
	Members     []Member
	Connections []Connection
}

// MemberName implements Member.
func (g *Group) MemberName() string { return g.Name }

// Connection is a directed value-flow declaration between an output port and
// an input port. Both paths are relative to the declaring group.
type Connection struct {
	Source string
	Target string
}

// Connect is shorthand for building a Connection.
func Connect(source, target string) Connection {
	return Connection{Source: source, Target: target}
}

// Number is shorthand for a numeric port default.
func Number(f float64) *cty.Value {
	v := cty.NumberFloatVal(f)
	return &v
}
