// Package schema holds the HCL block structures of model files. The structs
// are decoded with gohcl; member blocks are read through Members so their
// source order is preserved.
package schema

import (
	"github.com/hashicorp/hcl/v2"
)

// Members is the body schema shared by files and group blocks: an ordered
// sequence of member declarations and connections.
var Members = &hcl.BodySchema{
	Blocks: []hcl.BlockHeaderSchema{
		{Type: "indep", LabelNames: []string{"name"}},
		{Type: "component", LabelNames: []string{"name"}},
		{Type: "group", LabelNames: []string{"name"}},
		{Type: "connect"},
	},
}

// Indep represents an `indep` block. Every attribute of its body is one
// constant output.
type Indep struct {
	Name string   `hcl:"name,label"`
	Body hcl.Body `hcl:",remain"`
}

// Component represents a `component` block: an expression component whose
// ports are derived from its equations.
type Component struct {
	Name      string             `hcl:"name,label"`
	Equations []string           `hcl:"equations"`
	Defaults  map[string]float64 `hcl:"defaults,optional"`
}

// Group represents a `group` block. Its remaining body holds nested members
// and connections, read with the Members schema.
type Group struct {
	Name     string   `hcl:"name,label"`
	Parallel bool     `hcl:"parallel,optional"`
	Exports  []string `hcl:"exports,optional"`
	Body     hcl.Body `hcl:",remain"`
}

// Connect represents a `connect` block. Paths are relative to the scope
// that declares the block.
type Connect struct {
	Source string `hcl:"source"`
	Target string `hcl:"target"`
}
