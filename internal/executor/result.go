package executor

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"strings"
	"time"

	"github.com/specialistvlad/pargrid/internal/dag"
	"github.com/specialistvlad/pargrid/internal/node"
	"github.com/specialistvlad/pargrid/internal/scheduler"
	"github.com/zclconf/go-cty/cty"
)

// Result is the outcome of one Execute call. Maps are keyed by absolute
// node path; Values holds, per node, the inputs it received and the outputs
// it produced.
type Result struct {
	RunID    string
	Duration time.Duration
	Values   map[string]map[string]cty.Value
	Status   map[string]node.Status
	Errors   map[string]error

	// order lists every node in pre-order, groups before their members.
	order []string
}

func (r *run) result(ctx context.Context, sched *scheduler.Schedule, d time.Duration) (*Result, error) {
	res := &Result{
		RunID:    r.id,
		Duration: d,
		Values:   make(map[string]map[string]cty.Value),
		Status:   make(map[string]node.Status),
		Errors:   make(map[string]error),
	}

	var walkErr error
	sched.Graph().Walk(func(n *dag.Node) {
		if walkErr != nil {
			return
		}
		id := n.ID()
		res.order = append(res.order, id)

		status, err := r.store.GetStatus(ctx, n.Address())
		if err != nil {
			walkErr = fmt.Errorf("failed to read status of %q: %w", id, err)
			return
		}
		res.Status[id] = status

		values, err := r.store.GetValues(ctx, n.Address())
		if err != nil {
			walkErr = fmt.Errorf("failed to read values of %q: %w", id, err)
			return
		}
		if values != nil {
			res.Values[id] = values
		}

		nodeErr, err := r.store.GetError(ctx, n.Address())
		if err != nil {
			walkErr = fmt.Errorf("failed to read error of %q: %w", id, err)
			return
		}
		if nodeErr != nil {
			res.Errors[id] = nodeErr
		}
	})
	if walkErr != nil {
		return nil, walkErr
	}
	return res, nil
}

// Nodes returns every node path in pre-order, groups before their members.
// For a Result that was not produced by Execute the paths are sorted.
func (r *Result) Nodes() []string {
	if r.order == nil {
		return slices.Sorted(maps.Keys(r.Status))
	}
	return r.order
}

// Value looks up a port by its absolute path, e.g. "sub.c2.y1". A group's
// forwarded ports resolve as well, e.g. "sub" + "c2.y1".
func (r *Result) Value(portPath string) (cty.Value, bool) {
	segs := strings.Split(portPath, ".")
	for i := len(segs) - 1; i >= 1; i-- {
		values, ok := r.Values[strings.Join(segs[:i], ".")]
		if !ok {
			continue
		}
		if v, ok := values[strings.Join(segs[i:], ".")]; ok {
			return v, true
		}
	}
	return cty.NilVal, false
}

// Failed returns the nodes whose status is Failed, in pre-order.
func (r *Result) Failed() []string { return r.withStatus(node.Failed) }

// Skipped returns the nodes whose status is Skipped, in pre-order.
func (r *Result) Skipped() []string { return r.withStatus(node.Skipped) }

// Succeeded reports whether every node is Done.
func (r *Result) Succeeded() bool {
	for _, id := range r.Nodes() {
		if r.Status[id] != node.Done {
			return false
		}
	}
	return true
}

func (r *Result) withStatus(status node.Status) []string {
	var ids []string
	for _, id := range r.Nodes() {
		if r.Status[id] == status {
			ids = append(ids, id)
		}
	}
	return ids
}
