package scheduler

import (
	"context"
	"errors"
	"slices"

	"github.com/specialistvlad/pargrid/internal/ctxlog"
	"github.com/specialistvlad/pargrid/internal/dag"
)

// Plan computes the schedule of g and of every nested scope. It fails with a
// *dag.CycleError if the model, or the graph of any scope with its groups
// collapsed, contains a cycle.
func Plan(ctx context.Context, g *dag.Graph) (*Schedule, error) {
	if g == nil {
		return nil, errors.New("cannot plan a nil graph")
	}
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Planning execution.", "scope", scopeLabel(g))

	if err := g.DetectCycles(ctx); err != nil {
		return nil, err
	}

	s, err := plan(ctx, g)
	if err != nil {
		return nil, err
	}
	logger.Debug("Execution planned.", "batches", len(s.batches), "nodes", s.NodeCount())
	return s, nil
}

func plan(ctx context.Context, g *dag.Graph) (*Schedule, error) {
	nodes := g.Nodes()
	s := &Schedule{
		graph: g,
		index: make(map[*dag.Node]int, len(nodes)),
		subs:  make(map[*dag.Node]*Schedule),
	}

	inDegree := make(map[*dag.Node]int, len(nodes))
	var current []*dag.Node
	for _, n := range nodes {
		inDegree[n] = len(g.DependenciesOf(n))
		if inDegree[n] == 0 {
			current = append(current, n)
		}
	}

	placed := 0
	for len(current) > 0 {
		batchIdx := len(s.batches)
		var next []*dag.Node
		for _, n := range current {
			s.index[n] = batchIdx
			for _, d := range g.DependentsOf(n) {
				inDegree[d]--
				if inDegree[d] == 0 {
					next = append(next, d)
				}
			}
		}
		s.batches = append(s.batches, Batch(current))
		placed += len(current)

		slices.SortFunc(next, func(a, b *dag.Node) int { return a.Index() - b.Index() })
		current = next
	}

	if placed < len(nodes) {
		return nil, collapsedCycle(g, inDegree)
	}

	for _, n := range nodes {
		if !n.IsGroup() {
			continue
		}
		sub, err := plan(ctx, n.Inner())
		if err != nil {
			return nil, err
		}
		s.subs[n] = sub
	}

	ctxlog.FromContext(ctx).Debug("Scope planned.", "scope", scopeLabel(g), "batches", len(s.batches))
	return s, nil
}

// collapsedCycle reports a cycle that only exists once groups are treated as
// single nodes, e.g. g.a -> c -> g.b with g a group.
func collapsedCycle(g *dag.Graph, inDegree map[*dag.Node]int) error {
	var stuck []*dag.Node
	for _, n := range g.Nodes() {
		if inDegree[n] > 0 {
			stuck = append(stuck, n)
		}
	}
	cycle := dag.FindCycle(stuck, func(n *dag.Node) []*dag.Node {
		var out []*dag.Node
		for _, d := range g.DependentsOf(n) {
			if inDegree[d] > 0 {
				out = append(out, d)
			}
		}
		return out
	})

	path := make([]string, 0, len(cycle))
	for _, n := range cycle {
		path = append(path, n.ID())
	}
	if len(path) == 0 {
		for _, n := range stuck {
			path = append(path, n.ID())
		}
	}
	return &dag.CycleError{Path: path}
}

func scopeLabel(g *dag.Graph) string {
	if g.Path().IsRoot() {
		return "<root>"
	}
	return g.Path().String()
}
