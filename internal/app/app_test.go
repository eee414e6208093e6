package app

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/specialistvlad/pargrid/internal/config"
	"github.com/specialistvlad/pargrid/internal/hcl"
	"github.com/specialistvlad/pargrid/internal/node"
	"github.com/specialistvlad/pargrid/internal/report"
	"github.com/specialistvlad/pargrid/internal/session"
	"github.com/specialistvlad/pargrid/internal/snapshot"
	"github.com/specialistvlad/pargrid/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"
)

const sequentialModel = `
	group "steps" {
	  parallel = false

	  component "scale" {
	    equations = ["y = 2.0*x"]
	    defaults  = { x = 5.0 }
	  }

	  component "shift" {
	    equations = ["y = x + offset"]
	    defaults  = { x = 4.0, offset = 3.0 }
	  }
	}
`

// setupApp builds an App whose reports go to the returned buffer. Logs are
// dumped on failure when PARGRID_TEST_LOGS=true.
func setupApp(t *testing.T, cfg Config, opts ...Option) (*App, *bytes.Buffer) {
	t.Helper()
	cfg.LogLevel = "debug"
	validated, err := NewConfig(cfg)
	require.NoError(t, err)

	out := &bytes.Buffer{}
	logs := &testutil.SafeBuffer{}
	t.Cleanup(func() {
		if t.Failed() {
			t.Logf("--- Full Log Output for %s ---\n%s", t.Name(), logs.String())
		}
	})
	return NewApp(out, logs, validated, hcl.NewLoader(), opts...), out
}

func writeModel(t *testing.T, content string) string {
	t.Helper()
	dir := testutil.WriteFiles(t, map[string]string{"main.hcl": content})
	return filepath.Join(dir, "main.hcl")
}

func TestRun_Fixture(t *testing.T) {
	a, out := setupApp(t, Config{Fixture: "diamond", Output: report.FormatJSON})

	res, err := a.Run(context.Background())
	require.NoError(t, err)
	require.True(t, res.Succeeded())

	var doc report.Document
	require.NoError(t, json.Unmarshal(out.Bytes(), &doc))
	assert.Equal(t, res.RunID, doc.RunID)
	assert.Len(t, doc.Nodes, 6)

	y2, ok := res.Value("c4.y2")
	require.True(t, ok)
	testutil.AssertNumber(t, -93, y2)
}

func TestRun_ModelFile(t *testing.T) {
	a, out := setupApp(t, Config{ModelPath: writeModel(t, sequentialModel)})

	res, err := a.Run(context.Background())
	require.NoError(t, err)

	y, ok := res.Value("steps.scale.y")
	require.True(t, ok)
	testutil.AssertNumber(t, 10, y)
	assert.Contains(t, out.String(), "steps.shift")
	assert.Contains(t, out.String(), "0 failed, 0 skipped")
}

func TestRun_SetOverridesDefaults(t *testing.T) {
	a, _ := setupApp(t, Config{
		ModelPath: writeModel(t, sequentialModel),
		Set:       []string{"steps.scale.x=21", "steps.shift.offset=-4"},
	})

	res, err := a.Run(context.Background())
	require.NoError(t, err)

	y, _ := res.Value("steps.scale.y")
	testutil.AssertNumber(t, 42, y)
	y, _ = res.Value("steps.shift.y")
	testutil.AssertNumber(t, 0, y)
}

func TestRun_FailedNodeIsIncomplete(t *testing.T) {
	a, out := setupApp(t, Config{
		ModelPath: writeModel(t, sequentialModel),
		Set:       []string{"steps.scale.x=abc"},
	})

	res, err := a.Run(context.Background())
	require.ErrorIs(t, err, ErrIncomplete)
	require.NotNil(t, res)

	assert.Equal(t, node.Failed, res.Status["steps.scale"])
	assert.Equal(t, node.Done, res.Status["steps.shift"])
	assert.Equal(t, node.Failed, res.Status["steps"])
	assert.Contains(t, out.String(), "Errors:")
}

func TestRun_PlanOnly(t *testing.T) {
	a, out := setupApp(t, Config{Fixture: "fan_in_grouped", PlanOnly: true})

	res, err := a.Run(context.Background())
	require.NoError(t, err)
	assert.Nil(t, res)
	assert.Contains(t, out.String(), "batch 0:")
	assert.Contains(t, out.String(), "(parallel):")
}

func TestRun_Snapshot(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.snap")
	a, _ := setupApp(t, Config{Fixture: "fan_out", SnapshotPath: path})

	res, err := a.Run(context.Background())
	require.NoError(t, err)

	snap, err := snapshot.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, res.RunID, snap.RunID)
	assert.Len(t, snap.Nodes, len(res.Nodes()))
}

func TestRun_LoadErrors(t *testing.T) {
	testCases := []struct {
		name    string
		model   string
		wantErr string
	}{
		{"syntax error", "component \"a\" {\n", "failed to load model"},
		{"cycle", `
			component "a" {
			  equations = ["y = x"]
			}
			component "b" {
			  equations = ["y = x"]
			}
			connect {
			  source = "a.y"
			  target = "b.x"
			}
			connect {
			  source = "b.y"
			  target = "a.x"
			}
		`, "failed to plan model"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			a, _ := setupApp(t, Config{ModelPath: writeModel(t, tc.model)})
			_, err := a.Run(context.Background())
			assert.ErrorContains(t, err, tc.wantErr)
		})
	}
}

func TestRun_UnknownInitialPort(t *testing.T) {
	a, _ := setupApp(t, Config{Fixture: "fan_out", Set: []string{"nope.x=1"}})

	_, err := a.Run(context.Background())
	assert.ErrorContains(t, err, "execution failed")
}

func TestRun_MonitorUnreachable(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	require.NoError(t, ln.Close())

	a, _ := setupApp(t, Config{Fixture: "fan_out", MonitorURL: "http://" + addr})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	_, err = a.Run(ctx)
	assert.ErrorContains(t, err, "failed to connect to monitor")
}

type failingFactory struct{}

func (failingFactory) NewSession(context.Context, *config.Model, session.Options) (session.Session, error) {
	return nil, errors.New("no backend")
}

func TestRun_CustomSessionFactory(t *testing.T) {
	a, _ := setupApp(t, Config{Fixture: "fan_out"}, WithSessionFactory(failingFactory{}))

	_, err := a.Run(context.Background())
	assert.ErrorContains(t, err, "no backend")
}

func TestHealthCheckServer(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := ln.Addr().(*net.TCPAddr).Port
	require.NoError(t, ln.Close())

	a, _ := setupApp(t, Config{Fixture: "fan_out", HealthcheckPort: port})
	require.NoError(t, a.healthCheckServer())
	defer a.closeHealthCheckServer()

	get := func(path string) (int, string) {
		resp, err := http.Get(fmt.Sprintf("http://127.0.0.1:%d%s", port, path))
		require.NoError(t, err)
		defer resp.Body.Close()
		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		return resp.StatusCode, string(body)
	}

	code, body := get("/health")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "OK", strings.TrimSpace(body))

	code, _ = get("/metrics")
	assert.Equal(t, http.StatusOK, code)

	require.NoError(t, a.closeHealthCheckServer())
	assert.Nil(t, a.httpServer)
}

func TestParseAssignments(t *testing.T) {
	initial, err := parseAssignments([]string{"a.x=3", "a.s=hello", "a.b=true", "a.x=4"})
	require.NoError(t, err)
	testutil.AssertNumber(t, 4, initial["a.x"])
	assert.Equal(t, cty.StringVal("hello"), initial["a.s"])
	assert.Equal(t, cty.True, initial["a.b"])

	_, err = parseAssignments([]string{"novalue"})
	assert.ErrorContains(t, err, `invalid assignment "novalue"`)

	initial, err = parseAssignments(nil)
	require.NoError(t, err)
	assert.Nil(t, initial)
}
