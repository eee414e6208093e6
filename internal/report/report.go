// Package report renders execution results for humans and machines.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"text/tabwriter"

	"github.com/specialistvlad/pargrid/internal/ctyconv"
	"github.com/specialistvlad/pargrid/internal/executor"
	"github.com/specialistvlad/pargrid/internal/node"
	"github.com/specialistvlad/pargrid/internal/scheduler"
	"gopkg.in/yaml.v3"
)

// Supported output formats.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Formats lists every supported output format.
var Formats = []string{FormatText, FormatJSON, FormatYAML}

// Document is the structured form of a Result used by the JSON and YAML
// renderers.
type Document struct {
	RunID    string       `json:"run_id" yaml:"run_id"`
	Duration string       `json:"duration" yaml:"duration"`
	Nodes    []NodeReport `json:"nodes" yaml:"nodes"`
}

// NodeReport is the outcome of a single node.
type NodeReport struct {
	Path   string         `json:"path" yaml:"path"`
	Status string         `json:"status" yaml:"status"`
	Error  string         `json:"error,omitempty" yaml:"error,omitempty"`
	Values map[string]any `json:"values,omitempty" yaml:"values,omitempty"`
}

// NewDocument converts a Result into its structured form. Nodes appear in
// pre-order, groups before their members.
func NewDocument(res *executor.Result) (*Document, error) {
	doc := &Document{RunID: res.RunID, Duration: res.Duration.String()}
	for _, path := range res.Nodes() {
		nr := NodeReport{Path: path, Status: res.Status[path].String()}
		if err := res.Errors[path]; err != nil {
			nr.Error = err.Error()
		}
		if values := res.Values[path]; len(values) > 0 {
			nr.Values = make(map[string]any, len(values))
			for port, v := range values {
				native, err := ctyconv.ToInterface(v)
				if err != nil {
					return nil, fmt.Errorf("failed to convert value of %s.%s: %w", path, port, err)
				}
				nr.Values[port] = native
			}
		}
		doc.Nodes = append(doc.Nodes, nr)
	}
	return doc, nil
}

// Write renders res to w in the given format.
func Write(w io.Writer, format string, res *executor.Result) error {
	if res == nil {
		return fmt.Errorf("nothing to report")
	}
	switch format {
	case FormatText, "":
		return writeText(w, res)
	case FormatJSON:
		doc, err := NewDocument(res)
		if err != nil {
			return err
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(doc)
	case FormatYAML:
		doc, err := NewDocument(res)
		if err != nil {
			return err
		}
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unsupported output format %q", format)
	}
}

func writeText(w io.Writer, res *executor.Result) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "NODE\tSTATUS\tPORT\tVALUE")

	for _, path := range res.Nodes() {
		status := res.Status[path]
		values := res.Values[path]
		if len(values) == 0 {
			fmt.Fprintf(tw, "%s\t%s\t-\t-\n", path, status)
			continue
		}
		ports := make([]string, 0, len(values))
		for port := range values {
			ports = append(ports, port)
		}
		slices.Sort(ports)
		for i, port := range ports {
			if i == 0 {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", path, status, port, ctyconv.Format(values[port]))
			} else {
				fmt.Fprintf(tw, "\t\t%s\t%s\n", port, ctyconv.Format(values[port]))
			}
		}
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	var failed, skipped, done int
	for _, path := range res.Nodes() {
		switch res.Status[path] {
		case node.Done:
			done++
		case node.Failed:
			failed++
		case node.Skipped:
			skipped++
		}
	}

	if len(res.Errors) > 0 {
		fmt.Fprintln(w, "\nErrors:")
		for _, path := range res.Nodes() {
			if err := res.Errors[path]; err != nil {
				fmt.Fprintf(w, "  %s: %v\n", path, err)
			}
		}
	}
	_, err := fmt.Fprintf(w, "\nRun %s: %d done, %d failed, %d skipped in %s\n", res.RunID, done, failed, skipped, res.Duration)
	return err
}

// WritePlan renders the batch schedule without executing it.
func WritePlan(w io.Writer, sched *scheduler.Schedule) error {
	if sched == nil {
		return fmt.Errorf("nothing to report")
	}
	_, err := fmt.Fprintf(w, "%d nodes in %d top-level batches\n%s", sched.NodeCount(), len(sched.Batches()), sched.String())
	return err
}
