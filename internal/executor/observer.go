package executor

import (
	"context"
	"time"

	"github.com/specialistvlad/pargrid/internal/node"
)

// Event describes a single node status transition.
type Event struct {
	RunID  string
	Node   string
	Status node.Status
	Err    error
	// Duration is the evaluation time; zero for Running and Skipped.
	Duration time.Duration
	At       time.Time
}

// Observer is notified of every Running, Done, Failed and Skipped
// transition. Calls arrive from worker goroutines, so implementations must
// be safe for concurrent use. Observers cannot influence the run.
type Observer interface {
	NodeStatusChanged(ctx context.Context, ev Event)
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc func(ctx context.Context, ev Event)

// NodeStatusChanged calls f(ctx, ev).
func (f ObserverFunc) NodeStatusChanged(ctx context.Context, ev Event) { f(ctx, ev) }
