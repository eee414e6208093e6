package executor

import (
	"context"
	"time"

	"github.com/specialistvlad/pargrid/internal/ctxlog"
	"github.com/specialistvlad/pargrid/internal/dag"
	"github.com/specialistvlad/pargrid/internal/node"
	"github.com/specialistvlad/pargrid/internal/scheduler"
	"github.com/zclconf/go-cty/cty"
	"golang.org/x/sync/errgroup"
)

// scope is one level of a run: the schedule of a graph scope together with
// the runtime state of its members.
type scope struct {
	*run
	// parent is the scope of the owning group; nil at the root.
	parent *scope
	sched  *scheduler.Schedule
	graph *dag.Graph
	// boundary holds the values that arrived on the owning group's
	// forwarded inputs. It is nil at the root.
	boundary map[string]cty.Value
	// states is populated before the first batch and only read afterwards.
	states map[*dag.Node]*node.State
}

// runScope executes the batches of sched in order and returns once every
// member of the scope has reached a terminal status.
func (r *run) runScope(ctx context.Context, parent *scope, sched *scheduler.Schedule, boundary map[string]cty.Value) {
	g := sched.Graph()
	s := &scope{
		run:      r,
		parent:   parent,
		sched:    sched,
		graph:    g,
		boundary: boundary,
		states:   make(map[*dag.Node]*node.State, len(g.Nodes())),
	}

	for _, n := range g.Nodes() {
		connected := 0
		for _, port := range n.Inputs() {
			if _, ok := g.Source(n, port); ok {
				connected++
			}
		}
		s.states[n] = node.NewState(connected)
	}

	// Values that reached the group boundary satisfy the inner ports they
	// are forwarded to.
	for _, n := range g.Nodes() {
		for _, port := range n.Inputs() {
			if src, ok := g.Source(n, port); ok && src.IsBoundary() {
				if _, has := boundary[src.Port]; has {
					s.states[n].Satisfy()
				}
			}
		}
	}

	limit := 1
	if g.Parallel() {
		limit = r.exec.workers
	}
	for i, batch := range sched.Batches() {
		s.runBatch(ctx, i, batch, limit)
	}
}

// runBatch dispatches every node of the batch to a pool of at most limit
// workers and waits for all of them. Node failures are recorded in the
// store, never returned, so one failure cannot cancel its siblings.
func (s *scope) runBatch(ctx context.Context, index int, batch scheduler.Batch, limit int) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Dispatching batch.", "scope", label(s.graph), "batch", index, "size", len(batch), "limit", limit)

	var eg errgroup.Group
	eg.SetLimit(limit)
	for _, n := range batch {
		eg.Go(func() error {
			s.dispatch(ctx, n)
			return nil
		})
	}
	_ = eg.Wait()

	logger.Debug("Batch complete.", "scope", label(s.graph), "batch", index)
}

// dispatch decides whether n can run and runs it.
func (s *scope) dispatch(ctx context.Context, n *dag.Node) {
	if n.IsGroup() {
		// Groups always run: readiness is decided per inner consumer.
		s.runGroup(ctx, n)
		return
	}
	if s.states[n].Status() != node.Ready {
		s.skip(ctx, n, s.missingUpstream(ctx, n))
		return
	}
	if err := ctx.Err(); err != nil {
		s.transition(ctx, n, node.Failed, &EvaluationError{Node: n.ID(), Err: err}, 0)
		return
	}
	s.runComponent(ctx, n)
}

// release satisfies every input port fed by one of the produced outputs of
// n. Ports fed by outputs that were not produced stay pending, which is what
// makes their consumers skip.
func (s *scope) release(ctx context.Context, n *dag.Node, produced map[string]cty.Value) {
	logger := ctxlog.FromContext(ctx)
	for _, e := range s.graph.Edges() {
		if e.From.Node != n {
			continue
		}
		if _, ok := produced[e.From.Port]; !ok {
			continue
		}
		if s.states[e.To.Node].Satisfy() {
			logger.Debug("Unlocking dependent node.", "nodeID", n.ID(), "dependentID", e.To.Node.ID())
		}
	}
}

// valueOf reads the value currently available at src.
func (s *scope) valueOf(ctx context.Context, src dag.Endpoint) (cty.Value, bool) {
	if src.IsBoundary() {
		v, ok := s.boundary[src.Port]
		return v, ok
	}
	values, err := s.store.GetValues(ctx, src.Node.Address())
	if err != nil {
		ctxlog.FromContext(ctx).Error("Failed to read node values from store.", "nodeID", src.Node.ID(), "error", err)
		return cty.NilVal, false
	}
	v, ok := values[src.Port]
	return v, ok
}

// missingUpstream names the first source of n that produced no value.
func (s *scope) missingUpstream(ctx context.Context, n *dag.Node) string {
	for _, port := range n.Inputs() {
		src, ok := s.graph.Source(n, port)
		if !ok {
			continue
		}
		if _, has := s.valueOf(ctx, src); has {
			continue
		}
		return s.origin(src)
	}
	return ""
}

// origin follows a boundary endpoint outwards to the node that was meant to
// produce the value.
func (s *scope) origin(src dag.Endpoint) string {
	for src.IsBoundary() {
		owner := s.graph.Owner()
		if s.parent == nil || owner == nil {
			return "<boundary>." + src.Port
		}
		next, ok := s.parent.graph.Source(owner, src.Port)
		if !ok {
			return owner.ID() + "." + src.Port
		}
		s, src = s.parent, next
	}
	return src.Node.ID()
}

func (s *scope) skip(ctx context.Context, n *dag.Node, upstream string) {
	if !s.states[n].Skip() {
		return
	}
	err := &SkippedError{Node: n.ID(), Upstream: upstream}
	ctxlog.FromContext(ctx).Info("⏭️ Node skipped due to upstream failure.", "nodeID", n.ID(), "upstream", upstream)
	s.transition(ctx, n, node.Skipped, err, 0)
}

// transition records a status change in the run state and the store, and
// notifies metrics and observers.
func (s *scope) transition(ctx context.Context, n *dag.Node, status node.Status, nodeErr error, d time.Duration) {
	logger := ctxlog.FromContext(ctx)
	s.states[n].SetStatus(status)

	if err := s.store.SetStatus(ctx, n.Address(), status); err != nil {
		logger.Error("Failed to record node status.", "nodeID", n.ID(), "error", err)
	}
	if nodeErr != nil {
		if err := s.store.SetError(ctx, n.Address(), nodeErr); err != nil {
			logger.Error("Failed to record node error.", "nodeID", n.ID(), "error", err)
		}
	}
	if status.IsTerminal() {
		recordOutcome(ctx, n, status, d)
	}

	ev := Event{
		RunID:    s.id,
		Node:     n.ID(),
		Status:   status,
		Err:      nodeErr,
		Duration: d,
		At:       time.Now(),
	}
	for _, o := range s.exec.observers {
		o.NodeStatusChanged(ctx, ev)
	}
}

func (s *scope) storeValues(ctx context.Context, n *dag.Node, values map[string]cty.Value) {
	if err := s.store.SetValues(ctx, n.Address(), values); err != nil {
		ctxlog.FromContext(ctx).Error("Failed to record node values.", "nodeID", n.ID(), "error", err)
	}
}
