package cli

import (
	"bytes"
	"errors"
	"testing"

	"github.com/specialistvlad/pargrid/internal/app"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	testCases := []struct {
		name     string
		args     []string
		want     *app.Config
		wantExit bool
		wantErr  string
	}{
		{
			name: "positional model path",
			args: []string{"grid.hcl"},
			want: &app.Config{ModelPath: "grid.hcl", Workers: 10, Output: "text", LogFormat: "text", LogLevel: "info"},
		},
		{
			name: "model flag wins over shorthand",
			args: []string{"--model", "a.hcl", "-m", "b.hcl"},
			want: &app.Config{ModelPath: "a.hcl", Workers: 10, Output: "text", LogFormat: "text", LogLevel: "info"},
		},
		{
			name: "fixture with options",
			args: []string{
				"--fixture", "diamond", "--workers", "3", "--output", "JSON", "--plan-only",
				"--set", "iv.x=3", "--set", "c1.x2=4", "--snapshot", "out.snap",
				"--monitor-url", "http://localhost:3000", "--healthcheck-port", "8080",
				"--log-format", "json", "--log-level", "DEBUG",
			},
			want: &app.Config{
				Fixture:         "diamond",
				Set:             []string{"iv.x=3", "c1.x2=4"},
				Workers:         3,
				Output:          "json",
				PlanOnly:        true,
				SnapshotPath:    "out.snap",
				MonitorURL:      "http://localhost:3000",
				LogFormat:       "json",
				LogLevel:        "debug",
				HealthcheckPort: 8080,
			},
		},
		{name: "help", args: []string{"-h"}, wantExit: true},
		{name: "no model", args: nil, wantExit: true},
		{name: "unknown flag", args: []string{"--nope"}, wantErr: "flag provided but not defined: -nope"},
		{name: "model and fixture", args: []string{"--fixture", "diamond", "grid.hcl"}, wantErr: "cannot be used together"},
		{name: "bad output", args: []string{"--output", "xml", "grid.hcl"}, wantErr: `invalid Output "xml"`},
		{name: "bad workers", args: []string{"--workers", "-1", "grid.hcl"}, wantErr: "invalid Workers -1"},
		{name: "bad set", args: []string{"--set", "x", "grid.hcl"}, wantErr: `invalid assignment "x"`},
		{name: "extra args", args: []string{"a.hcl", "b.hcl"}, wantErr: "unexpected arguments: b.hcl"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			out := &bytes.Buffer{}
			cfg, exit, err := Parse(tc.args, out)

			if tc.wantErr != "" {
				require.Error(t, err)
				var exitErr *ExitError
				require.True(t, errors.As(err, &exitErr))
				assert.Equal(t, 2, exitErr.Code)
				assert.Contains(t, exitErr.Message, tc.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.wantExit, exit)
			if tc.wantExit {
				assert.Contains(t, out.String(), "Usage:")
				return
			}
			if tc.want != nil {
				assert.Equal(t, tc.want, cfg)
			}
		})
	}
}
