package executor

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"
	"time"

	"github.com/specialistvlad/pargrid/internal/ctxlog"
	"github.com/specialistvlad/pargrid/internal/dag"
	"github.com/specialistvlad/pargrid/internal/node"
	"github.com/zclconf/go-cty/cty"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// runComponent evaluates a ready component and publishes its outputs.
func (s *scope) runComponent(ctx context.Context, n *dag.Node) {
	ctx, span := tracer.Start(ctx, "executor.Node",
		trace.WithAttributes(
			attribute.String("node.id", n.ID()),
			attribute.String("node.kind", n.Kind().String()),
		),
	)
	defer span.End()

	logger := ctxlog.FromContext(ctx).With("nodeID", n.ID())
	logger.Debug("Worker picked up node for execution.")
	s.transition(ctx, n, node.Running, nil, 0)

	trackActive(ctx, 1)
	start := time.Now()
	inputs, err := s.resolveInputs(ctx, n)
	var outputs map[string]cty.Value
	if err == nil {
		outputs, err = evaluate(ctx, n, inputs)
	}
	d := time.Since(start)
	trackActive(ctx, -1)

	values := maps.Clone(inputs)
	maps.Copy(values, outputs)
	s.storeValues(ctx, n, values)

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		logger.Error("Node execution failed.", "error", err)
		s.transition(ctx, n, node.Failed, err, d)
		return
	}

	logger.Debug("Node execution succeeded.", "duration", d)
	s.transition(ctx, n, node.Done, nil, d)
	s.release(ctx, n, outputs)
}

// resolveInputs gathers a value for every input port of n: the upstream
// value when connected, else the initial value, else the port default.
func (s *scope) resolveInputs(ctx context.Context, n *dag.Node) (map[string]cty.Value, error) {
	inputs := make(map[string]cty.Value, len(n.Inputs()))
	for _, port := range n.Inputs() {
		if src, ok := s.graph.Source(n, port); ok {
			v, ok := s.valueOf(ctx, src)
			if !ok {
				return inputs, &EvaluationError{Node: n.ID(), Err: fmt.Errorf("input %q: no value from %s", port, src)}
			}
			inputs[port] = v
			continue
		}
		if v, ok := s.initial[n.Address().Child(port).String()]; ok {
			inputs[port] = v
			continue
		}
		if v, ok := n.Default(port); ok {
			inputs[port] = v
			continue
		}
		return inputs, &EvaluationError{
			Node: n.ID(),
			Err:  fmt.Errorf("%w: input %q is not connected and has no initial value or default", ErrMissingInput, port),
		}
	}
	return inputs, nil
}

// evaluate calls the component's evaluator, turning panics and malformed
// results into evaluation errors.
func evaluate(ctx context.Context, n *dag.Node, inputs map[string]cty.Value) (outputs map[string]cty.Value, err error) {
	eval := n.Evaluator()
	if eval == nil {
		return nil, &EvaluationError{Node: n.ID(), Err: errors.New("component has no evaluator")}
	}

	defer func() {
		if r := recover(); r != nil {
			outputs = nil
			err = &EvaluationError{Node: n.ID(), Err: fmt.Errorf("%w: %v", ErrPanic, r)}
		}
	}()

	outputs, err = eval.Evaluate(ctx, maps.Clone(inputs))
	if err != nil {
		return nil, &EvaluationError{Node: n.ID(), Err: err}
	}
	if err := checkOutputs(n, outputs); err != nil {
		return nil, &EvaluationError{Node: n.ID(), Err: err}
	}
	return outputs, nil
}

func checkOutputs(n *dag.Node, outputs map[string]cty.Value) error {
	var missing, extra []string
	for _, port := range n.Outputs() {
		if _, ok := outputs[port]; !ok {
			missing = append(missing, port)
		}
	}
	for port := range outputs {
		if !n.HasOutput(port) {
			extra = append(extra, port)
		}
	}
	if len(missing) == 0 && len(extra) == 0 {
		return nil
	}
	slices.Sort(extra)

	var parts []string
	if len(missing) > 0 {
		parts = append(parts, "missing "+strings.Join(missing, ", "))
	}
	if len(extra) > 0 {
		parts = append(parts, "unexpected "+strings.Join(extra, ", "))
	}
	return fmt.Errorf("%w: %s", ErrOutputMismatch, strings.Join(parts, "; "))
}

// runGroup executes the nested schedule of a group and publishes the
// forwarded outputs its inner nodes produced.
func (s *scope) runGroup(ctx context.Context, n *dag.Node) {
	ctx, span := tracer.Start(ctx, "executor.Group",
		trace.WithAttributes(
			attribute.String("node.id", n.ID()),
			attribute.Bool("group.parallel", n.Parallel()),
		),
	)
	defer span.End()

	logger := ctxlog.FromContext(ctx).With("nodeID", n.ID())
	s.transition(ctx, n, node.Running, nil, 0)
	start := time.Now()

	inputs := make(map[string]cty.Value, len(n.Inputs()))
	for _, port := range n.Inputs() {
		src, ok := s.graph.Source(n, port)
		if !ok {
			continue
		}
		if v, ok := s.valueOf(ctx, src); ok {
			inputs[port] = v
		} else {
			logger.Debug("Forwarded input has no value; its inner consumer will be skipped.", "port", port)
		}
	}

	logger.Debug("Entering group.", "parallel", n.Parallel(), "inputs", len(inputs))
	s.runScope(ctx, s, s.sched.Sub(n), inputs)

	inner := n.Inner()
	outputs := make(map[string]cty.Value, len(n.Outputs()))
	for _, port := range n.Outputs() {
		ep, ok := inner.ForwardedOutput(port)
		if !ok {
			continue
		}
		values, err := s.store.GetValues(ctx, ep.Node.Address())
		if err != nil {
			logger.Error("Failed to read node values from store.", "innerID", ep.Node.ID(), "error", err)
			continue
		}
		if v, ok := values[ep.Port]; ok {
			outputs[port] = v
		}
	}

	values := maps.Clone(inputs)
	maps.Copy(values, outputs)
	s.storeValues(ctx, n, values)

	status, groupErr := s.groupStatus(ctx, n)
	d := time.Since(start)
	if groupErr != nil {
		span.RecordError(groupErr)
		span.SetStatus(codes.Error, groupErr.Error())
		logger.Warn("Group finished incomplete.", "status", status, "error", groupErr)
	} else {
		logger.Debug("Group finished.", "duration", d)
	}
	s.transition(ctx, n, status, groupErr, d)
	s.release(ctx, n, outputs)
}

// groupStatus folds the statuses of a group's direct members: Failed if any
// failed, else Skipped if any was skipped, else Done.
func (s *scope) groupStatus(ctx context.Context, n *dag.Node) (node.Status, error) {
	var failed, skipped []string
	for _, m := range n.Inner().Nodes() {
		st, err := s.store.GetStatus(ctx, m.Address())
		if err != nil {
			ctxlog.FromContext(ctx).Error("Failed to read node status from store.", "nodeID", m.ID(), "error", err)
			failed = append(failed, m.ID())
			continue
		}
		switch st {
		case node.Failed:
			failed = append(failed, m.ID())
		case node.Skipped:
			skipped = append(skipped, m.ID())
		}
	}

	switch {
	case len(failed) > 0:
		return node.Failed, &GroupError{Node: n.ID(), Failed: failed, Skipped: skipped}
	case len(skipped) > 0:
		return node.Skipped, &GroupError{Node: n.ID(), Skipped: skipped}
	default:
		return node.Done, nil
	}
}
