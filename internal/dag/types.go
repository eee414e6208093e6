package dag

import (
	"slices"
	"strings"
	"sync"

	"github.com/specialistvlad/pargrid/internal/config"
	"github.com/specialistvlad/pargrid/internal/nodeid"
	"github.com/zclconf/go-cty/cty"
)

// Kind distinguishes leaf components from composite groups.
type Kind int

const (
	// ComponentKind is a leaf node with an evaluator.
	ComponentKind Kind = iota
	// GroupKind is a composite node owning a nested Graph.
	GroupKind
)

func (k Kind) String() string {
	if k == GroupKind {
		return "group"
	}
	return "component"
}

// Node is a single vertex of a Graph scope.
type Node struct {
	name  string
	addr  nodeid.Address
	kind  Kind
	index int
	graph *Graph

	// inputs and outputs are the declared ports of a component, or the
	// forwarded ports of a group, in creation order.
	inputs   []string
	outputs  []string
	defaults map[string]cty.Value
	eval     config.Evaluator
	inner    *Graph
}

// Name returns the node's name within its scope.
func (n *Node) Name() string { return n.name }

// Address returns the absolute address of the node.
func (n *Node) Address() nodeid.Address { return n.addr }

// ID returns the canonical string form of the node's absolute address.
func (n *Node) ID() string { return n.addr.String() }

// String implements fmt.Stringer.
func (n *Node) String() string { return n.addr.String() }

// Kind reports whether the node is a component or a group.
func (n *Node) Kind() Kind { return n.kind }

// IsGroup is shorthand for Kind() == GroupKind.
func (n *Node) IsGroup() bool { return n.kind == GroupKind }

// Index is the declaration position of the node within its scope.
func (n *Node) Index() int { return n.index }

// Graph returns the scope the node belongs to.
func (n *Node) Graph() *Graph { return n.graph }

// Inputs returns the node's input port names.
func (n *Node) Inputs() []string { return n.inputs }

// Outputs returns the node's output port names.
func (n *Node) Outputs() []string { return n.outputs }

// Default returns the declared default of an input port.
func (n *Node) Default(port string) (cty.Value, bool) {
	v, ok := n.defaults[port]
	return v, ok
}

// Evaluator returns the evaluation contract of a component. It is nil for
// groups.
func (n *Node) Evaluator() config.Evaluator { return n.eval }

// Inner returns the nested scope of a group, or nil for a component.
func (n *Node) Inner() *Graph { return n.inner }

// Parallel reports whether a group is parallel-eligible.
func (n *Node) Parallel() bool { return n.inner != nil && n.inner.parallel }

// HasInput reports whether port is one of the node's inputs.
func (n *Node) HasInput(port string) bool { return slices.Contains(n.inputs, port) }

// HasOutput reports whether port is one of the node's outputs.
func (n *Node) HasOutput(port string) bool { return slices.Contains(n.outputs, port) }

// Endpoint is one end of an edge. A nil Node refers to the boundary of the
// enclosing group: Port is then the name of one of its forwarded ports.
type Endpoint struct {
	Node *Node
	Port string
}

// IsBoundary reports whether the endpoint is the enclosing group's boundary.
func (e Endpoint) IsBoundary() bool { return e.Node == nil }

// String renders the endpoint as a scope-relative port path.
func (e Endpoint) String() string {
	if e.Node == nil {
		return "<boundary>." + e.Port
	}
	return e.Node.name + "." + e.Port
}

// Edge is a directed value-flow connection between two members of a scope.
type Edge struct {
	From Endpoint
	To   Endpoint
}

func (e Edge) String() string {
	return e.From.String() + " -> " + e.To.String()
}

type portKey struct {
	node *Node
	port string
}

// Graph is one scope: the ordered members of a group plus the edges between
// them. A Graph is immutable once Build returns and is safe for concurrent
// reads.
type Graph struct {
	path     nodeid.Address
	parent   *Graph
	owner    *Node
	parallel bool
	exports  map[string]struct{}
	decl     *config.Group

	nodes  []*Node
	lookup map[string]*Node
	edges  []Edge

	// sources maps every connected input port in this scope to whatever
	// feeds it: a sibling's output or a forwarded port of the boundary.
	sources map[portKey]Endpoint
	// forwardIn and forwardOut map the owner's forwarded port names to the
	// inner endpoints they stand for.
	forwardIn  map[string]Endpoint
	forwardOut map[string]Endpoint

	deps       map[*Node][]*Node
	dependents map[*Node][]*Node

	// flat is shared by every scope of one build.
	flat *flatGraph
}

// Path returns the absolute address of the scope; empty for the root.
func (g *Graph) Path() nodeid.Address { return g.path }

// Parent returns the enclosing scope, or nil for the root. It exists for
// path resolution only; ownership runs strictly parent to child.
func (g *Graph) Parent() *Graph { return g.parent }

// Owner returns the group node that owns this scope, or nil for the root.
func (g *Graph) Owner() *Node { return g.owner }

// Root walks up to the outermost scope.
func (g *Graph) Root() *Graph {
	for g.parent != nil {
		g = g.parent
	}
	return g
}

// Parallel reports whether nodes of a batch in this scope may be dispatched
// concurrently.
func (g *Graph) Parallel() bool { return g.parallel }

// Nodes returns the members of the scope in declaration order.
func (g *Graph) Nodes() []*Node { return g.nodes }

// Node looks a member up by its scope-local name.
func (g *Graph) Node(name string) (*Node, bool) {
	n, ok := g.lookup[name]
	return n, ok
}

// Edges returns the member-to-member edges of the scope in creation order.
func (g *Graph) Edges() []Edge { return g.edges }

// Source returns the endpoint feeding the given input port, if connected.
func (g *Graph) Source(n *Node, port string) (Endpoint, bool) {
	ep, ok := g.sources[portKey{n, port}]
	return ep, ok
}

// ForwardedInput maps a forwarded input of the owner to its inner endpoint.
func (g *Graph) ForwardedInput(name string) (Endpoint, bool) {
	ep, ok := g.forwardIn[name]
	return ep, ok
}

// ForwardedOutput maps a forwarded output of the owner to its inner endpoint.
func (g *Graph) ForwardedOutput(name string) (Endpoint, bool) {
	ep, ok := g.forwardOut[name]
	return ep, ok
}

// Dependencies returns the members the named node consumes values from,
// ordered by declaration.
func (g *Graph) Dependencies(name string) ([]*Node, error) {
	n, ok := g.lookup[name]
	if !ok {
		return nil, &UnknownNodeError{Scope: scopeName(g.path), Name: name}
	}
	return g.deps[n], nil
}

// Dependents returns the members consuming values from the named node,
// ordered by declaration.
func (g *Graph) Dependents(name string) ([]*Node, error) {
	n, ok := g.lookup[name]
	if !ok {
		return nil, &UnknownNodeError{Scope: scopeName(g.path), Name: name}
	}
	return g.dependents[n], nil
}

// DependenciesOf is like Dependencies but takes the node itself.
func (g *Graph) DependenciesOf(n *Node) []*Node { return g.deps[n] }

// DependentsOf is like Dependents but takes the node itself.
func (g *Graph) DependentsOf(n *Node) []*Node { return g.dependents[n] }

// Walk visits every node of the scope and its nested scopes in pre-order.
func (g *Graph) Walk(fn func(n *Node)) {
	for _, n := range g.nodes {
		fn(n)
		if n.inner != nil {
			n.inner.Walk(fn)
		}
	}
}

// flatGraph is the leaf-level view used for cycle detection: groups expanded
// in place, one vertex per component.
type flatGraph struct {
	leaves []*Node
	next   map[*Node][]*Node

	once sync.Once
	err  error
}

func (f *flatGraph) addEdge(from, to *Node) {
	if slices.Contains(f.next[from], to) {
		return
	}
	f.next[from] = append(f.next[from], to)
}

func scopeName(path nodeid.Address) string {
	if path.IsRoot() {
		return "<root>"
	}
	return path.String()
}

func relPath(chain []*Node, port string) string {
	parts := make([]string, 0, len(chain)+1)
	for _, n := range chain {
		parts = append(parts, n.name)
	}
	return strings.Join(append(parts, port), ".")
}
