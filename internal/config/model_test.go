package config

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"
)

func TestConstant_ReturnsCopy(t *testing.T) {
	values := map[string]cty.Value{"x": cty.NumberIntVal(2)}
	eval := Constant(values)

	out, err := eval.Evaluate(context.Background(), nil)
	require.NoError(t, err)
	assert.True(t, out["x"].RawEquals(cty.NumberIntVal(2)))

	out["x"] = cty.NumberIntVal(5)
	again, err := eval.Evaluate(context.Background(), nil)
	require.NoError(t, err)
	assert.True(t, again["x"].RawEquals(cty.NumberIntVal(2)), "mutating a result must not leak into later runs")
}

func TestNewModel(t *testing.T) {
	c := &Component{Name: "c1"}
	g := &Group{Name: "sub"}
	m := NewModel([]Member{c, g}, []Connection{Connect("c1.y", "sub.c2.x")})

	require.NotNil(t, m.Root)
	assert.Empty(t, m.Root.Name)
	assert.Equal(t, "c1", m.Root.Members[0].MemberName())
	assert.Equal(t, "sub", m.Root.Members[1].MemberName())
	assert.Equal(t, Connection{Source: "c1.y", Target: "sub.c2.x"}, m.Root.Connections[0])
}
