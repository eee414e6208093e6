package ctyconv

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"
)

func TestToInterface(t *testing.T) {
	testCases := []struct {
		name string
		in   cty.Value
		want any
	}{
		{"number", cty.NumberFloatVal(-102.7), -102.7},
		{"integer", cty.NumberIntVal(46), 46.0},
		{"string", cty.StringVal("sub.c2"), "sub.c2"},
		{"bool", cty.True, true},
		{"null", cty.NullVal(cty.Number), nil},
		{"unknown", cty.UnknownVal(cty.Number), nil},
		{"tuple", cty.TupleVal([]cty.Value{cty.NumberIntVal(1), cty.StringVal("a")}), []any{1.0, "a"}},
		{"object", cty.ObjectVal(map[string]cty.Value{"y1": cty.NumberIntVal(8)}), map[string]any{"y1": 8.0}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ToInterface(tc.in)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestFromInterface(t *testing.T) {
	testCases := []struct {
		name string
		in   any
		want cty.Value
	}{
		{"float", 36.8, cty.NumberFloatVal(36.8)},
		{"int64", int64(-93), cty.NumberIntVal(-93)},
		{"uint8", uint8(7), cty.NumberUIntVal(7)},
		{"string", "x", cty.StringVal("x")},
		{"bool", false, cty.False},
		{"list", []any{1.0}, cty.TupleVal([]cty.Value{cty.NumberFloatVal(1)})},
		{"map", map[string]any{"a": "b"}, cty.ObjectVal(map[string]cty.Value{"a": cty.StringVal("b")})},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := FromInterface(tc.in)
			require.NoError(t, err)
			assert.True(t, tc.want.Equals(got).True(), "got %#v", got)
		})
	}

	t.Run("nil", func(t *testing.T) {
		got, err := FromInterface(nil)
		require.NoError(t, err)
		assert.True(t, got.IsNull())
	})

	t.Run("unsupported", func(t *testing.T) {
		_, err := FromInterface(make(chan int))
		assert.Error(t, err)
	})
}

func TestParseLiteral(t *testing.T) {
	assert.True(t, ParseLiteral("2.5").RawEquals(cty.MustParseNumberVal("2.5")))
	assert.True(t, ParseLiteral(" -3 ").RawEquals(cty.MustParseNumberVal("-3")))
	assert.Equal(t, cty.True, ParseLiteral("true"))
	assert.Equal(t, cty.StringVal("hello"), ParseLiteral("hello"))
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "-102.7", Format(cty.NumberFloatVal(-102.7)))
	assert.Equal(t, "46", Format(cty.NumberIntVal(46)))
	assert.Equal(t, "null", Format(cty.NullVal(cty.Number)))
	assert.Equal(t, "(unknown)", Format(cty.UnknownVal(cty.Number)))
	assert.Equal(t, "abc", Format(cty.StringVal("abc")))
}
