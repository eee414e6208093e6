package testutil

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"
)

// Float converts a known cty number to float64, failing the test otherwise.
func Float(t *testing.T, v cty.Value) float64 {
	t.Helper()

	require.True(t, v.IsKnown() && !v.IsNull(), "value is null or unknown")
	require.Equal(t, cty.Number, v.Type(), "value is %s, not a number", v.Type().FriendlyName())
	f, _ := v.AsBigFloat().Float64()
	return f
}

// AssertNumber checks that v is a number within 1e-9 of want.
func AssertNumber(t *testing.T, want float64, v cty.Value, msgAndArgs ...any) {
	t.Helper()
	require.InDelta(t, want, Float(t, v), 1e-9, msgAndArgs...)
}
