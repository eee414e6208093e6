package report

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/specialistvlad/pargrid/internal/dag"
	"github.com/specialistvlad/pargrid/internal/executor"
	"github.com/specialistvlad/pargrid/internal/fixtures"
	"github.com/specialistvlad/pargrid/internal/node"
	"github.com/specialistvlad/pargrid/internal/scheduler"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"
	"gopkg.in/yaml.v3"
)

func sampleResult() *executor.Result {
	return &executor.Result{
		RunID:    "run-1",
		Duration: 1500 * time.Millisecond,
		Values: map[string]map[string]cty.Value{
			"a": {"x": cty.NumberIntVal(2), "y": cty.NumberFloatVal(4.5)},
		},
		Status: map[string]node.Status{
			"a": node.Done,
			"b": node.Failed,
			"c": node.Skipped,
		},
		Errors: map[string]error{
			"b": errors.New("boom"),
		},
	}
}

func TestWrite_Text(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatText, sampleResult()))

	lines := strings.Split(buf.String(), "\n")
	require.GreaterOrEqual(t, len(lines), 4)
	assert.Equal(t, []string{"NODE", "STATUS", "PORT", "VALUE"}, strings.Fields(lines[0]))
	assert.Equal(t, []string{"a", "Done", "x", "2"}, strings.Fields(lines[1]))
	assert.Equal(t, []string{"y", "4.5"}, strings.Fields(lines[2]))
	assert.Equal(t, []string{"b", "Failed", "-", "-"}, strings.Fields(lines[3]))
	assert.Equal(t, []string{"c", "SkippedDueToUpstreamFailure", "-", "-"}, strings.Fields(lines[4]))

	out := buf.String()
	assert.Contains(t, out, "Errors:\n  b: boom\n")
	assert.Contains(t, out, "Run run-1: 1 done, 1 failed, 1 skipped in 1.5s")
}

func TestWrite_JSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatJSON, sampleResult()))

	var doc Document
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))
	assert.Equal(t, "run-1", doc.RunID)
	assert.Equal(t, "1.5s", doc.Duration)
	require.Len(t, doc.Nodes, 3)

	assert.Equal(t, "a", doc.Nodes[0].Path)
	assert.Equal(t, "Done", doc.Nodes[0].Status)
	assert.Equal(t, map[string]any{"x": 2.0, "y": 4.5}, doc.Nodes[0].Values)

	assert.Equal(t, "Failed", doc.Nodes[1].Status)
	assert.Equal(t, "boom", doc.Nodes[1].Error)
	assert.Nil(t, doc.Nodes[2].Values)
}

func TestWrite_YAML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatYAML, sampleResult()))

	var doc Document
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &doc))
	assert.Equal(t, "run-1", doc.RunID)
	require.Len(t, doc.Nodes, 3)
	assert.Equal(t, "SkippedDueToUpstreamFailure", doc.Nodes[2].Status)
	assert.Equal(t, 4.5, doc.Nodes[0].Values["y"])
	assert.Contains(t, buf.String(), "run_id: run-1")
}

func TestWrite_Errors(t *testing.T) {
	var buf bytes.Buffer
	assert.ErrorContains(t, Write(&buf, "xml", sampleResult()), `unsupported output format "xml"`)
	assert.ErrorContains(t, Write(&buf, FormatText, nil), "nothing to report")
}

func TestWritePlan(t *testing.T) {
	ctx := context.Background()
	model, ok := fixtures.Get("diamond")
	require.True(t, ok)
	g, err := dag.BuildModel(ctx, model)
	require.NoError(t, err)
	sched, err := scheduler.Plan(ctx, g)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WritePlan(&buf, sched))
	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "6 nodes in 4 top-level batches\n"), out)
	assert.Contains(t, out, "batch 0: iv")
	assert.Contains(t, out, "group sub (parallel):")
}
