// Package session defines the core interfaces for creating and managing an
// execution session. It abstracts away the details of how a model is built,
// planned and executed.
package session

import (
	"context"

	"github.com/specialistvlad/pargrid/internal/config"
	"github.com/specialistvlad/pargrid/internal/executor"
	"github.com/specialistvlad/pargrid/internal/scheduler"
	"github.com/zclconf/go-cty/cty"
)

// Options tunes the executor a session creates.
type Options struct {
	// Workers bounds the per-batch worker pool. Zero means the executor
	// default.
	Workers   int
	Observers []executor.Observer
}

// SessionFactory creates an execution Session. Different implementations can
// support various backends, such as local or distributed execution.
type SessionFactory interface {
	NewSession(ctx context.Context, model *config.Model, opts Options) (Session, error)
}

// Session owns one built and planned model and can execute it any number of
// times. Every execution starts from fresh state.
type Session interface {
	// Plan returns the batch schedule computed when the session was created.
	Plan() *scheduler.Schedule
	// Execute runs the model once. initial supplies values for unconnected
	// inputs, keyed by absolute port path.
	Execute(ctx context.Context, initial map[string]cty.Value) (*executor.Result, error)
	// Close releases any resources held by the session. It accepts a context
	// to allow for graceful cleanup operations.
	Close(ctx context.Context) error
}
