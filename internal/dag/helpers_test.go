package dag

import (
	"context"
	"testing"

	"github.com/specialistvlad/pargrid/internal/config"
	"github.com/stretchr/testify/require"
)

// comp declares a component with the given ports and no evaluator; the
// structural layer never calls it.
func comp(name string, inputs []string, outputs []string) *config.Component {
	c := &config.Component{Name: name}
	for _, in := range inputs {
		c.Inputs = append(c.Inputs, config.Port{Name: in})
	}
	for _, out := range outputs {
		c.Outputs = append(c.Outputs, config.Port{Name: out})
	}
	return c
}

func in(names ...string) []string  { return names }
func out(names ...string) []string { return names }

func names(nodes []*Node) []string {
	out := make([]string, len(nodes))
	for i, n := range nodes {
		out[i] = n.Name()
	}
	return out
}

func edgeStrings(g *Graph) []string {
	var out []string
	for _, e := range g.Edges() {
		out = append(out, e.String())
	}
	return out
}

// convergeDivergeGroups mirrors the nested converge-diverge topology:
// iv; g1{c1, g2{c2, c3}, c4}; g3{c5, c6}; c7.
func convergeDivergeGroups() *config.Model {
	g2 := &config.Group{Name: "g2", Parallel: true, Members: []config.Member{
		comp("c2", in("x1"), out("y1")),
		comp("c3", in("x1"), out("y1")),
	}}
	g1 := &config.Group{Name: "g1", Parallel: true,
		Members: []config.Member{
			comp("c1", in("x1"), out("y1", "y2")),
			g2,
			comp("c4", in("x1", "x2"), out("y1", "y2")),
		},
		Connections: []config.Connection{
			config.Connect("c1.y1", "g2.c2.x1"),
			config.Connect("c1.y2", "g2.c3.x1"),
		},
	}
	g3 := &config.Group{Name: "g3", Parallel: true, Members: []config.Member{
		comp("c5", in("x1"), out("y1")),
		comp("c6", in("x1"), out("y1")),
	}}
	return config.NewModel(
		[]config.Member{
			comp("iv", nil, out("x")),
			g1,
			g3,
			comp("c7", in("x1", "x2"), out("y1")),
		},
		[]config.Connection{
			config.Connect("iv.x", "g1.c1.x1"),
			config.Connect("g1.g2.c2.y1", "g1.c4.x1"),
			config.Connect("g1.g2.c3.y1", "g1.c4.x2"),
			config.Connect("g1.c4.y1", "g3.c5.x1"),
			config.Connect("g1.c4.y2", "g3.c6.x1"),
			config.Connect("g3.c5.y1", "c7.x1"),
			config.Connect("g3.c6.y1", "c7.x2"),
		},
	)
}

func mustBuild(t *testing.T, model *config.Model) *Graph {
	t.Helper()
	g, err := BuildModel(context.Background(), model)
	require.NoError(t, err)
	return g
}
