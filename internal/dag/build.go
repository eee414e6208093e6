package dag

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/specialistvlad/pargrid/internal/config"
	"github.com/specialistvlad/pargrid/internal/ctxlog"
	"github.com/specialistvlad/pargrid/internal/nodeid"
	"github.com/zclconf/go-cty/cty"
)

type direction int

const (
	dirInput direction = iota
	dirOutput
)

func (d direction) String() string {
	if d == dirOutput {
		return "output"
	}
	return "input"
}

// builder carries the state of a single Build invocation.
type builder struct {
	flat *flatGraph
	// sources maps every connected leaf input (absolute port path) to the
	// absolute output path feeding it, across all scopes.
	sources map[string]string
	edges   int
}

// Build constructs the root scope from an ordered list of member
// declarations and the connections declared at the root. The root scope is
// always dispatched concurrently.
func Build(ctx context.Context, members []config.Member, connections []config.Connection) (*Graph, error) {
	return build(ctx, &config.Group{Members: members, Connections: connections})
}

// BuildModel constructs the graph tree of a whole model.
func BuildModel(ctx context.Context, model *config.Model) (*Graph, error) {
	if model == nil || model.Root == nil {
		return nil, errors.New("model has no root group")
	}
	return build(ctx, model.Root)
}

func build(ctx context.Context, root *config.Group) (*Graph, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Build: Starting graph construction.")

	b := &builder{
		flat:    &flatGraph{next: make(map[*Node][]*Node)},
		sources: make(map[string]string),
	}

	// First pass: create every scope and node, depth first.
	g, err := b.newScope(nil, nodeid.Root, root)
	if err != nil {
		return nil, err
	}
	g.parallel = true
	logger.Debug("Build: Node creation complete.", "leaf_count", len(b.flat.leaves))

	// Second pass: resolve connections scope by scope.
	if err := b.connectScope(g); err != nil {
		return nil, err
	}
	logger.Debug("Build: Connection linking complete.", "connection_count", b.edges)

	g.finalize()
	logger.Debug("Build: Graph construction successful.", "root_nodes", len(g.nodes))
	return g, nil
}

func (b *builder) newScope(parent *Graph, path nodeid.Address, decl *config.Group) (*Graph, error) {
	g := &Graph{
		path:       path,
		parent:     parent,
		parallel:   decl.Parallel,
		decl:       decl,
		lookup:     make(map[string]*Node),
		sources:    make(map[portKey]Endpoint),
		forwardIn:  make(map[string]Endpoint),
		forwardOut: make(map[string]Endpoint),
		flat:       b.flat,
	}
	if decl.Exports != nil {
		g.exports = make(map[string]struct{}, len(decl.Exports))
		for _, e := range decl.Exports {
			g.exports[e] = struct{}{}
		}
	}

	for i, member := range decl.Members {
		if member == nil {
			return nil, fmt.Errorf("nil member at position %d in scope %s", i, scopeName(path))
		}
		name := member.MemberName()
		addr := path.Child(name)
		if err := nodeid.ValidateName(name); err != nil {
			return nil, &InvalidNameError{Path: addr.String(), Err: err}
		}
		if _, exists := g.lookup[name]; exists {
			return nil, &DuplicateNodeError{Scope: scopeName(path), Name: name}
		}

		n := &Node{name: name, addr: addr, index: i, graph: g}
		switch d := member.(type) {
		case *config.Component:
			if err := b.initComponent(n, d); err != nil {
				return nil, err
			}
		case *config.Group:
			n.kind = GroupKind
			inner, err := b.newScope(g, addr, d)
			if err != nil {
				return nil, err
			}
			inner.owner = n
			n.inner = inner
		default:
			return nil, fmt.Errorf("unsupported member type %T at %q", member, addr)
		}

		g.nodes = append(g.nodes, n)
		g.lookup[name] = n
	}

	return g, nil
}

func (b *builder) initComponent(n *Node, c *config.Component) error {
	n.kind = ComponentKind
	n.eval = c.Evaluator
	n.defaults = make(map[string]cty.Value)

	seen := make(map[string]struct{}, len(c.Inputs)+len(c.Outputs))
	declare := func(p config.Port) error {
		if err := nodeid.ValidateName(p.Name); err != nil {
			return &InvalidNameError{Path: n.addr.Child(p.Name).String(), Err: err}
		}
		if _, dup := seen[p.Name]; dup {
			return &DuplicatePortError{Node: n.addr.String(), Port: p.Name}
		}
		seen[p.Name] = struct{}{}
		return nil
	}

	for _, p := range c.Inputs {
		if err := declare(p); err != nil {
			return err
		}
		n.inputs = append(n.inputs, p.Name)
		if p.Default != nil {
			n.defaults[p.Name] = *p.Default
		}
	}
	for _, p := range c.Outputs {
		if err := declare(p); err != nil {
			return err
		}
		n.outputs = append(n.outputs, p.Name)
	}

	b.flat.leaves = append(b.flat.leaves, n)
	return nil
}

// connectScope validates the exports of g, resolves the connections declared
// in g, then recurses into nested scopes in declaration order.
func (b *builder) connectScope(g *Graph) error {
	for _, export := range g.decl.Exports {
		if _, err := b.resolve(g, export, nil); err != nil {
			return err
		}
	}
	for _, conn := range g.decl.Connections {
		if err := b.connect(g, conn); err != nil {
			return err
		}
	}
	for _, n := range g.nodes {
		if n.inner != nil {
			if err := b.connectScope(n.inner); err != nil {
				return err
			}
		}
	}
	return nil
}

// resolved is a port path resolved from some scope: the chain of members
// descended through (groups, ending with the component) and the port name.
type resolved struct {
	chain []*Node
	port  string
}

func (r resolved) leaf() *Node { return r.chain[len(r.chain)-1] }

func (r resolved) abs() string { return r.leaf().addr.Child(r.port).String() }

// resolve walks raw from scope down to a component port. A nil dir accepts
// either direction.
func (b *builder) resolve(scope *Graph, raw string, dir *direction) (resolved, error) {
	display := raw
	if !scope.path.IsRoot() {
		display = scope.path.String() + "." + raw
	}
	fail := func(format string, args ...any) (resolved, error) {
		return resolved{}, &UnknownPortError{Path: display, Reason: fmt.Sprintf(format, args...)}
	}

	addr, err := nodeid.Parse(raw)
	if err != nil {
		return fail("%v", err)
	}
	if addr.Len() < 2 {
		return fail("a port path needs at least a node and a port")
	}

	segs := addr.Path
	var res resolved
	g := scope
	for i, seg := range segs[:len(segs)-1] {
		n, ok := g.lookup[seg]
		if !ok {
			return fail("no node %q in scope %s", seg, scopeName(g.path))
		}
		res.chain = append(res.chain, n)
		last := i == len(segs)-2

		if n.kind == ComponentKind {
			if !last {
				return fail("%q is a component, not a group", n.addr)
			}
			break
		}
		if last {
			return fail("%q is a group; address a port of one of its members", n.addr)
		}
		if n.inner.exports != nil {
			rest := strings.Join(segs[i+1:], ".")
			if _, ok := n.inner.exports[rest]; !ok {
				return fail("%q is not exported by group %q", rest, n.addr)
			}
		}
		g = n.inner
	}

	res.port = segs[len(segs)-1]
	leaf := res.leaf()
	isIn, isOut := leaf.HasInput(res.port), leaf.HasOutput(res.port)
	switch {
	case !isIn && !isOut:
		return fail("node %q has no port %q", leaf.addr, res.port)
	case dir == nil:
	case *dir == dirInput && !isIn:
		return fail("%q is an output port; connections must target an input", res.port)
	case *dir == dirOutput && !isOut:
		return fail("%q is an input port; connections must start from an output", res.port)
	}
	return res, nil
}

func (b *builder) connect(scope *Graph, conn config.Connection) error {
	out, in := dirOutput, dirInput
	src, err := b.resolve(scope, conn.Source, &out)
	if err != nil {
		return err
	}
	dst, err := b.resolve(scope, conn.Target, &in)
	if err != nil {
		return err
	}

	target, source := dst.abs(), src.abs()
	if existing, ok := b.sources[target]; ok {
		return &MultipleSourceError{Target: target, Existing: existing, Duplicate: source}
	}
	b.sources[target] = source

	// Push the edge down to the lowest scope that contains both endpoints.
	k := 0
	for k < len(src.chain)-1 && k < len(dst.chain)-1 && src.chain[k] == dst.chain[k] {
		k++
	}
	owner := scope
	for _, grp := range src.chain[:k] {
		owner = grp.inner
	}

	edge := Edge{
		From: Endpoint{Node: src.chain[k], Port: b.forward(src.chain[k:], src.port, dirOutput)},
		To:   Endpoint{Node: dst.chain[k], Port: b.forward(dst.chain[k:], dst.port, dirInput)},
	}
	owner.edges = append(owner.edges, edge)
	owner.sources[portKey{edge.To.Node, edge.To.Port}] = edge.From
	b.flat.addEdge(src.leaf(), dst.leaf())
	b.edges++
	return nil
}

// forward makes the port at the end of chain reachable on chain[0] and
// returns its name there. Components expose their own ports; groups get a
// forwarded port named by the path relative to the group, created once.
func (b *builder) forward(chain []*Node, port string, dir direction) string {
	head := chain[0]
	if head.kind == ComponentKind {
		return port
	}

	inner, rest := head.inner, chain[1:]
	name := relPath(rest, port)
	mapping := inner.forwardIn
	if dir == dirOutput {
		mapping = inner.forwardOut
	}
	if _, ok := mapping[name]; ok {
		return name
	}

	ep := Endpoint{Node: rest[0], Port: b.forward(rest, port, dir)}
	mapping[name] = ep
	if dir == dirOutput {
		head.outputs = append(head.outputs, name)
	} else {
		head.inputs = append(head.inputs, name)
		inner.sources[portKey{ep.Node, ep.Port}] = Endpoint{Port: name}
	}
	return name
}

// finalize derives the per-node dependency lists of every scope.
func (g *Graph) finalize() {
	g.deps = make(map[*Node][]*Node, len(g.nodes))
	g.dependents = make(map[*Node][]*Node, len(g.nodes))
	for _, e := range g.edges {
		from, to := e.From.Node, e.To.Node
		if !slices.Contains(g.deps[to], from) {
			g.deps[to] = append(g.deps[to], from)
		}
		if !slices.Contains(g.dependents[from], to) {
			g.dependents[from] = append(g.dependents[from], to)
		}
	}
	byIndex := func(a, b *Node) int { return a.index - b.index }
	for _, n := range g.nodes {
		slices.SortFunc(g.deps[n], byIndex)
		slices.SortFunc(g.dependents[n], byIndex)
		if n.inner != nil {
			n.inner.finalize()
		}
	}
}
