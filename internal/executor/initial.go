package executor

import (
	"context"
	"fmt"

	"github.com/specialistvlad/pargrid/internal/ctxlog"
	"github.com/specialistvlad/pargrid/internal/dag"
	"github.com/specialistvlad/pargrid/internal/nodeid"
	"github.com/zclconf/go-cty/cty"
)

// resolveInitial checks every initial value against the graph and returns
// the ones that apply, keyed by canonical port path. Values aimed at
// connected inputs are dropped with a warning.
func resolveInitial(ctx context.Context, root *dag.Graph, initial map[string]cty.Value) (map[string]cty.Value, error) {
	logger := ctxlog.FromContext(ctx)
	out := make(map[string]cty.Value, len(initial))

	for raw, v := range initial {
		fail := func(format string, args ...any) error {
			return &dag.UnknownPortError{Path: raw, Reason: fmt.Sprintf(format, args...)}
		}

		addr, err := nodeid.Parse(raw)
		if err != nil {
			return nil, fail("%v", err)
		}
		if addr.Len() < 2 {
			return nil, fail("a port path needs at least a node and a port")
		}

		scope := root
		var n *dag.Node
		segs := addr.Path
		for i, seg := range segs[:len(segs)-1] {
			m, ok := scope.Node(seg)
			if !ok {
				return nil, fail("no node %q in scope %s", seg, label(scope))
			}
			n = m
			if i < len(segs)-2 {
				if !m.IsGroup() {
					return nil, fail("%q is a component, not a group", m.ID())
				}
				scope = m.Inner()
			}
		}

		port := addr.Last()
		if n.IsGroup() {
			return nil, fail("%q is a group; initial values address component inputs", n.ID())
		}
		if !n.HasInput(port) {
			return nil, fail("node %q has no input %q", n.ID(), port)
		}
		if src, ok := scope.Source(n, port); ok {
			logger.Warn("Initial value ignored for connected input.", "port", addr.String(), "source", src.String())
			continue
		}
		out[addr.String()] = v
	}
	return out, nil
}

func label(g *dag.Graph) string {
	if g.Owner() == nil {
		return "<root>"
	}
	return g.Owner().ID()
}
