package hcl

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/specialistvlad/pargrid/internal/config"
	"github.com/specialistvlad/pargrid/internal/dag"
	"github.com/specialistvlad/pargrid/internal/executor"
	"github.com/specialistvlad/pargrid/internal/scheduler"
	"github.com/specialistvlad/pargrid/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func load(t *testing.T, files map[string]string) (*config.Model, error) {
	t.Helper()
	ctx, _ := testutil.NewContext(t)
	root := testutil.WriteFiles(t, files)
	return NewLoader().Load(ctx, root)
}

func run(t *testing.T, model *config.Model) *executor.Result {
	t.Helper()
	ctx, _ := testutil.NewContext(t)
	g, err := dag.BuildModel(ctx, model)
	require.NoError(t, err)
	sched, err := scheduler.Plan(ctx, g)
	require.NoError(t, err)
	res, err := executor.New().Execute(ctx, sched, nil)
	require.NoError(t, err)
	return res
}

func memberNames(members []config.Member) []string {
	var out []string
	for _, m := range members {
		out = append(out, m.MemberName())
	}
	return out
}

func TestLoad_PreservesDeclarationOrder(t *testing.T) {
	model, err := load(t, map[string]string{"main.hcl": `
		component "b" { equations = ["y = x"] }
		indep "a" {
		  z = 3.0
		  k = 1.0
		}
		group "g" {
		  component "inner2" { equations = ["y = x"] }
		  component "inner1" { equations = ["y = x"] }
		}
		component "a2" { equations = ["y = x"] }
	`})
	require.NoError(t, err)

	assert.Equal(t, []string{"b", "a", "g", "a2"}, memberNames(model.Root.Members))

	indep := model.Root.Members[1].(*config.Component)
	require.Len(t, indep.Outputs, 2)
	assert.Equal(t, "z", indep.Outputs[0].Name)
	assert.Equal(t, "k", indep.Outputs[1].Name)

	g := model.Root.Members[2].(*config.Group)
	assert.Equal(t, []string{"inner2", "inner1"}, memberNames(g.Members))
	assert.False(t, g.Parallel)
	assert.Nil(t, g.Exports)
}

func TestLoad_GroupAttributes(t *testing.T) {
	model, err := load(t, map[string]string{"main.hcl": `
		group "sub" {
		  parallel = true
		  exports  = ["c.x", "c.y"]
		  component "c" { equations = ["y = x"] }
		  component "d" { equations = ["y = x"] }
		  connect {
		    source = "c.y"
		    target = "d.x"
		  }
		}
	`})
	require.NoError(t, err)

	g := model.Root.Members[0].(*config.Group)
	assert.True(t, g.Parallel)
	assert.Equal(t, []string{"c.x", "c.y"}, g.Exports)
	assert.Equal(t, []config.Connection{config.Connect("c.y", "d.x")}, g.Connections)
}

func TestLoad_ComponentDefaults(t *testing.T) {
	model, err := load(t, map[string]string{"main.hcl": `
		component "c" {
		  equations = ["y = a*b"]
		  defaults  = { a = 4.0 }
		}
	`})
	require.NoError(t, err)

	res := run(t, model)
	v, ok := res.Value("c.y")
	require.True(t, ok)
	testutil.AssertNumber(t, 4, v, "a defaults to 4, b to 1")
}

func TestLoad_MergesFilesInLexicalOrder(t *testing.T) {
	model, err := load(t, map[string]string{
		"b.hcl":        `component "second" { equations = ["y = x"] }`,
		"a.hcl":        `indep "first" { x = 2.0 }`,
		"nested/c.hcl": `component "third" { equations = ["y = 2.0*x"] }`,
		"ignored.txt":  `not hcl`,
		"z.hcl": `
			connect {
			  source = "first.x"
			  target = "second.x"
			}
			connect {
			  source = "second.y"
			  target = "third.x"
			}
		`,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"first", "second", "third"}, memberNames(model.Root.Members))
	assert.Len(t, model.Root.Connections, 2)

	res := run(t, model)
	v, _ := res.Value("third.y")
	testutil.AssertNumber(t, 4, v)
}

func TestLoad_Errors(t *testing.T) {
	testCases := []struct {
		name        string
		hcl         string
		errContains string
	}{
		{
			name:        "syntax error",
			hcl:         `component "c" {`,
			errContains: "failed to parse HCL file",
		},
		{
			name:        "unknown block",
			hcl:         `step "print" "a" {}`,
			errContains: "Unsupported block type",
		},
		{
			name:        "unknown attribute",
			hcl: `
				component "c" {
				  equations = ["y = x"]
				  color     = "red"
				}
			`,
			errContains: "Unsupported argument",
		},
		{
			name:        "missing equations",
			hcl:         `component "c" {}`,
			errContains: "Missing required argument",
		},
		{
			name:        "missing label",
			hcl:         `component { equations = ["y = x"] }`,
			errContains: "Missing name for component",
		},
		{
			name:        "bad equation",
			hcl:         `component "c" { equations = ["y == x"] }`,
			errContains: `component "c"`,
		},
		{
			name:        "unknown function",
			hcl:         `component "c" { equations = ["y = sqrtx(x)"] }`,
			errContains: "sqrtx",
		},
		{
			name:        "connect without target",
			hcl:         `connect { source = "a.y" }`,
			errContains: "Missing required argument",
		},
		{
			name:        "indep with a block",
			hcl: `
				indep "iv" {
				  nested {}
				}
			`,
			errContains: "failed to decode HCL file",
		},
		{
			name:        "nested error names the group",
			hcl: `
				group "outer" {
				  component "c" { equations = [] }
				}
			`,
			errContains: "in group 'outer'",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := load(t, map[string]string{"main.hcl": tc.hcl})
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.errContains)
		})
	}
}

func TestLoad_MissingPath(t *testing.T) {
	_, err := NewLoader().Load(context.Background(), filepath.Join(t.TempDir(), "nope.hcl"))
	assert.ErrorContains(t, err, "error accessing path")
}

func TestLoad_EmptyDirectory(t *testing.T) {
	_, err := NewLoader().Load(context.Background(), t.TempDir())
	assert.ErrorContains(t, err, "no .hcl files found")
}

func TestLoad_Examples(t *testing.T) {
	testCases := []struct {
		file string
		want map[string]float64
	}{
		{"diamond.hcl", map[string]float64{"c4.y1": 46, "c4.y2": -93}},
		{"converge_diverge_groups.hcl", map[string]float64{"g1.c4.y1": 46, "c7.y1": -102.7}},
		{"fan_in_grouped.hcl", map[string]float64{"c3.y": 29}},
		{"sequential.hcl", map[string]float64{"steps.scale.y": 10, "steps.shift.y": 7}},
	}

	for _, tc := range testCases {
		t.Run(tc.file, func(t *testing.T) {
			ctx, _ := testutil.NewContext(t)
			model, err := NewLoader().Load(ctx, filepath.Join("..", "..", "examples", tc.file))
			require.NoError(t, err)

			res := run(t, model)
			require.True(t, res.Succeeded(), "failed: %v", res.Failed())
			for port, want := range tc.want {
				v, ok := res.Value(port)
				require.True(t, ok, "no value for %s", port)
				testutil.AssertNumber(t, want, v, port)
			}
		})
	}
}
