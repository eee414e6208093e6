// internal/nodeid/parser_test.go
package nodeid

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	testCases := []struct {
		name         string
		rawID        string
		expectErr    bool
		expectedAddr Address
	}{
		{
			name:         "single segment",
			rawID:        "comp1",
			expectedAddr: New("comp1"),
		},
		{
			name:         "nested port path",
			rawID:        "g1.g2.c2.y1",
			expectedAddr: New("g1", "g2", "c2", "y1"),
		},
		{
			name:         "hyphen and underscore",
			rawID:        "my-group.inner_comp",
			expectedAddr: New("my-group", "inner_comp"),
		},
		{
			name:      "error - empty path segment",
			rawID:     "a..b",
			expectErr: true,
		},
		{
			name:      "error - index segment is not supported",
			rawID:     "a.b[0]",
			expectErr: true,
		},
		{
			name:      "error - empty string",
			rawID:     "",
			expectErr: true,
		},
		{
			name:      "error - just hyphen",
			rawID:     "a.-.c",
			expectErr: true,
		},
		{
			name:      "error - trailing dot",
			rawID:     "a.",
			expectErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			addr, err := Parse(tc.rawID)

			if tc.expectErr {
				require.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.True(t, tc.expectedAddr.Equal(addr), "parsed %q, want %q", addr, tc.expectedAddr)
		})
	}
}

func TestMustParse_Panics(t *testing.T) {
	assert.Panics(t, func() { MustParse("a..b") })
	assert.NotPanics(t, func() { MustParse("a.b") })
}
