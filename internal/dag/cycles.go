package dag

import (
	"context"

	"github.com/specialistvlad/pargrid/internal/ctxlog"
)

// DetectCycles checks the whole model g belongs to for dependency cycles,
// with groups expanded in place. The check runs once per built graph; later
// calls return the memoised result.
func (g *Graph) DetectCycles(ctx context.Context) error {
	flat := g.flat
	flat.once.Do(func() {
		logger := ctxlog.FromContext(ctx)
		logger.Debug("Running cycle detection.", "leaf_count", len(flat.leaves))
		if cycle := FindCycle(flat.leaves, func(n *Node) []*Node { return flat.next[n] }); cycle != nil {
			flat.err = &CycleError{Path: ids(cycle)}
			logger.Debug("Cycle detected.", "path", flat.err.Error())
			return
		}
		logger.Debug("Cycle detection passed.")
	})
	return flat.err
}

type visitState int

const (
	unvisited visitState = iota
	inProgress
	done
)

// FindCycle runs a depth-first traversal over nodes, in order, following
// next. It returns the first cycle found as a closed path (first element
// repeated at the end), or nil if the nodes are acyclic.
func FindCycle(nodes []*Node, next func(*Node) []*Node) []*Node {
	state := make(map[*Node]visitState, len(nodes))
	var stack []*Node

	var visit func(n *Node) []*Node
	visit = func(n *Node) []*Node {
		switch state[n] {
		case done:
			return nil
		case inProgress:
			// Back edge: the cycle is the stack suffix starting at n.
			for i := len(stack) - 1; i >= 0; i-- {
				if stack[i] == n {
					cycle := append([]*Node{}, stack[i:]...)
					return append(cycle, n)
				}
			}
			return []*Node{n, n}
		}

		state[n] = inProgress
		stack = append(stack, n)
		for _, m := range next(n) {
			if cycle := visit(m); cycle != nil {
				return cycle
			}
		}
		stack = stack[:len(stack)-1]
		state[n] = done
		return nil
	}

	for _, n := range nodes {
		if state[n] == unvisited {
			if cycle := visit(n); cycle != nil {
				return cycle
			}
		}
	}
	return nil
}

func ids(nodes []*Node) []string {
	out := make([]string, len(nodes))
	for i, n := range nodes {
		out[i] = n.ID()
	}
	return out
}
