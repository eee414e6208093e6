package executor

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/specialistvlad/pargrid/internal/config"
	"github.com/specialistvlad/pargrid/internal/dag"
	"github.com/specialistvlad/pargrid/internal/scheduler"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"
)

var errBoom = errors.New("boom")

func mustPlan(t *testing.T, ctx context.Context, model *config.Model) *scheduler.Schedule {
	t.Helper()
	g, err := dag.BuildModel(ctx, model)
	require.NoError(t, err)
	sched, err := scheduler.Plan(ctx, g)
	require.NoError(t, err)
	return sched
}

// component declares a component with hand-written evaluation logic.
func component(name string, inputs, outputs []string, fn config.EvaluatorFunc) *config.Component {
	c := &config.Component{Name: name, Evaluator: fn}
	for _, in := range inputs {
		c.Inputs = append(c.Inputs, config.Port{Name: in})
	}
	for _, out := range outputs {
		c.Outputs = append(c.Outputs, config.Port{Name: out})
	}
	return c
}

// failing declares a component whose evaluation always returns errBoom.
func failing(name string, inputs, outputs []string) *config.Component {
	return component(name, inputs, outputs, func(context.Context, map[string]cty.Value) (map[string]cty.Value, error) {
		return nil, errBoom
	})
}

func ports(names ...string) []string { return names }

func group(name string, parallel bool, members ...config.Member) *config.Group {
	return &config.Group{Name: name, Parallel: parallel, Members: members}
}

// eventLog is an Observer collecting every event it receives.
type eventLog struct {
	mu     sync.Mutex
	events []Event
}

func (l *eventLog) NodeStatusChanged(_ context.Context, ev Event) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, ev)
}

func (l *eventLog) forNode(id string) []Event {
	l.mu.Lock()
	defer l.mu.Unlock()
	var out []Event
	for _, ev := range l.events {
		if ev.Node == id {
			out = append(out, ev)
		}
	}
	return out
}
