// Package fixtures declares the parallel topologies used to exercise the
// engine: fan-out, fan-in, diamond and converge-diverge, each flat and with
// parallel groups.
package fixtures

import (
	"sort"

	"github.com/specialistvlad/pargrid/internal/config"
	"github.com/specialistvlad/pargrid/internal/execcomp"
)

var c = config.Connect

func members(m ...config.Member) []config.Member { return m }

func parallel(name string, m []config.Member, conns ...config.Connection) *config.Group {
	return &config.Group{Name: name, Parallel: true, Members: m, Connections: conns}
}

// FanOut: p feeds comp1, whose single output feeds comp2 and comp3.
func FanOut() *config.Model {
	return config.NewModel(
		members(
			execcomp.Indep("p", execcomp.Number("x", 1.0)),
			execcomp.MustNew("comp1", "y = 3.0*x"),
			execcomp.MustNew("comp2", "y = -2.0*x"),
			execcomp.MustNew("comp3", "y = 5.0*x"),
		),
		[]config.Connection{
			c("comp1.y", "comp2.x"),
			c("comp1.y", "comp3.x"),
			c("p.x", "comp1.x"),
		},
	)
}

// FanOutGrouped is FanOut with the two consumers placed in a parallel group,
// followed by two more components reading the group's outputs.
func FanOutGrouped() *config.Model {
	return config.NewModel(
		members(
			execcomp.Indep("iv", execcomp.Number("x", 1.0)),
			execcomp.MustNew("c1", "y = 3.0*x"),
			parallel("sub", members(
				execcomp.MustNew("c2", "y = -2.0*x"),
				execcomp.MustNew("c3", "y = 5.0*x"),
			)),
			execcomp.MustNew("c2", "y = x"),
			execcomp.MustNew("c3", "y = x"),
		),
		[]config.Connection{
			c("iv.x", "c1.x"),
			c("c1.y", "sub.c2.x"),
			c("c1.y", "sub.c3.x"),
			c("sub.c2.y", "c2.x"),
			c("sub.c3.y", "c3.x"),
		},
	)
}

// FanIn: two independent chains converge on comp3.
func FanIn() *config.Model {
	return config.NewModel(
		members(
			execcomp.Indep("p1", execcomp.Number("x1", 1.0)),
			execcomp.Indep("p2", execcomp.Number("x2", 1.0)),
			execcomp.MustNew("comp1", "y = -2.0*x"),
			execcomp.MustNew("comp2", "y = 5.0*x"),
			execcomp.MustNew("comp3", "y = 3.0*x1 + 7.0*x2"),
		),
		[]config.Connection{
			c("comp1.y", "comp3.x1"),
			c("comp2.y", "comp3.x2"),
			c("p1.x1", "comp1.x"),
			c("p2.x2", "comp2.x"),
		},
	)
}

// FanInGrouped is FanIn with the two converging components in a parallel
// group.
func FanInGrouped() *config.Model {
	return config.NewModel(
		members(
			execcomp.Indep("iv", execcomp.Number("x1", 1.0), execcomp.Number("x2", 1.0)),
			parallel("sub", members(
				execcomp.MustNew("c1", "y = -2.0*x"),
				execcomp.MustNew("c2", "y = 5.0*x"),
			)),
			execcomp.MustNew("c3", "y = 3.0*x1 + 7.0*x2"),
		),
		[]config.Connection{
			c("sub.c1.y", "c3.x1"),
			c("sub.c2.y", "c3.x2"),
			c("iv.x1", "sub.c1.x"),
			c("iv.x2", "sub.c2.x"),
		},
	)
}

func diamondComponents() (c1, c2, c3, c4 *config.Component) {
	return execcomp.MustNew("c1", "y1 = 2.0*pow(x1, 2)", "y2 = 3.0*x1"),
		execcomp.MustNew("c2", "y1 = 0.5*x1"),
		execcomp.MustNew("c3", "y1 = 3.5*x1"),
		execcomp.MustNew("c4", "y1 = x1 + 2.0*x2", "y2 = 3.0*x1 - 5.0*x2")
}

// DiamondFlat: c1 splits into c2 and c3, which both feed c4.
func DiamondFlat() *config.Model {
	c1, c2, c3, c4 := diamondComponents()
	return config.NewModel(
		members(execcomp.Indep("iv", execcomp.Number("x", 2.0)), c1, c2, c3, c4),
		[]config.Connection{
			c("iv.x", "c1.x1"),
			c("c1.y1", "c2.x1"),
			c("c1.y2", "c3.x1"),
			c("c2.y1", "c4.x1"),
			c("c3.y1", "c4.x2"),
		},
	)
}

// Diamond is DiamondFlat with c2 and c3 in a parallel group.
func Diamond() *config.Model {
	c1, c2, c3, c4 := diamondComponents()
	return config.NewModel(
		members(execcomp.Indep("iv", execcomp.Number("x", 2.0)), c1, parallel("sub", members(c2, c3)), c4),
		[]config.Connection{
			c("iv.x", "c1.x1"),
			c("c1.y1", "sub.c2.x1"),
			c("c1.y2", "sub.c3.x1"),
			c("sub.c2.y1", "c4.x1"),
			c("sub.c3.y1", "c4.x2"),
		},
	)
}

func convergeDivergeTail() (c5, c6, c7 *config.Component) {
	return execcomp.MustNew("c5", "y1 = 0.8*x1"),
		execcomp.MustNew("c6", "y1 = 0.5*x1"),
		execcomp.MustNew("c7", "y1 = x1 + 3.0*x2")
}

// ConvergeDivergeFlat chains two diamonds: c1 -> {c2, c3} -> c4 -> {c5, c6} -> c7.
func ConvergeDivergeFlat() *config.Model {
	c1, c2, c3, c4 := diamondComponents()
	c5, c6, c7 := convergeDivergeTail()
	return config.NewModel(
		members(execcomp.Indep("iv", execcomp.Number("x", 2.0)), c1, c2, c3, c4, c5, c6, c7),
		[]config.Connection{
			c("iv.x", "c1.x1"),
			c("c1.y1", "c2.x1"),
			c("c1.y2", "c3.x1"),
			c("c2.y1", "c4.x1"),
			c("c3.y1", "c4.x2"),
			c("c4.y1", "c5.x1"),
			c("c4.y2", "c6.x1"),
			c("c5.y1", "c7.x1"),
			c("c6.y1", "c7.x2"),
		},
	)
}

// ConvergeDiverge is ConvergeDivergeFlat with each parallel pair in its own
// group.
func ConvergeDiverge() *config.Model {
	c1, c2, c3, c4 := diamondComponents()
	c5, c6, c7 := convergeDivergeTail()
	return config.NewModel(
		members(
			execcomp.Indep("iv", execcomp.Number("x", 2.0)),
			c1,
			parallel("g1", members(c2, c3)),
			c4,
			parallel("g2", members(c5, c6)),
			c7,
		),
		[]config.Connection{
			c("iv.x", "c1.x1"),
			c("c1.y1", "g1.c2.x1"),
			c("c1.y2", "g1.c3.x1"),
			c("g1.c2.y1", "c4.x1"),
			c("g1.c3.y1", "c4.x2"),
			c("c4.y1", "g2.c5.x1"),
			c("c4.y2", "g2.c6.x1"),
			c("g2.c5.y1", "c7.x1"),
			c("g2.c6.y1", "c7.x2"),
		},
	)
}

// ConvergeDivergeGroups nests the first diamond inside g1, with its parallel
// pair in g1.g2; some connections are made inside g1 and some at the root.
func ConvergeDivergeGroups() *config.Model {
	c1, c2, c3, c4 := diamondComponents()
	c5, c6, c7 := convergeDivergeTail()
	g1 := parallel("g1",
		members(c1, parallel("g2", members(c2, c3)), c4),
		c("c1.y1", "g2.c2.x1"),
		c("c1.y2", "g2.c3.x1"),
	)
	return config.NewModel(
		members(
			execcomp.Indep("iv", execcomp.Number("x", 2.0)),
			g1,
			parallel("g3", members(c5, c6)),
			c7,
		),
		[]config.Connection{
			c("iv.x", "g1.c1.x1"),
			c("g1.g2.c2.y1", "g1.c4.x1"),
			c("g1.g2.c3.y1", "g1.c4.x2"),
			c("g1.c4.y1", "g3.c5.x1"),
			c("g1.c4.y2", "g3.c6.x1"),
			c("g3.c5.y1", "c7.x1"),
			c("g3.c6.y1", "c7.x2"),
		},
	)
}

var registry = map[string]func() *config.Model{
	"fan_out":                 FanOut,
	"fan_out_grouped":         FanOutGrouped,
	"fan_in":                  FanIn,
	"fan_in_grouped":          FanInGrouped,
	"diamond_flat":            DiamondFlat,
	"diamond":                 Diamond,
	"converge_diverge_flat":   ConvergeDivergeFlat,
	"converge_diverge":        ConvergeDiverge,
	"converge_diverge_groups": ConvergeDivergeGroups,
}

// Get returns a freshly declared fixture by name.
func Get(name string) (*config.Model, bool) {
	fn, ok := registry[name]
	if !ok {
		return nil, false
	}
	return fn(), true
}

// Names lists every fixture name in sorted order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
