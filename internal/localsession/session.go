// Package localsession provides a concrete implementation of the session.Session
// and session.SessionFactory interfaces for local, in-process execution.
package localsession

import (
	"context"
	"errors"
	"sync/atomic"

	"github.com/specialistvlad/pargrid/internal/config"
	"github.com/specialistvlad/pargrid/internal/ctxlog"
	"github.com/specialistvlad/pargrid/internal/dag"
	"github.com/specialistvlad/pargrid/internal/executor"
	"github.com/specialistvlad/pargrid/internal/inmemorystore"
	"github.com/specialistvlad/pargrid/internal/scheduler"
	"github.com/specialistvlad/pargrid/internal/session"
	"github.com/zclconf/go-cty/cty"
)

// ErrClosed is returned by Execute after Close.
var ErrClosed = errors.New("session is closed")

// SessionFactory implements session.SessionFactory for local runs.
type SessionFactory struct{}

var _ session.SessionFactory = (*SessionFactory)(nil)

// NewSession builds the model's graph, detects cycles, plans the batches and
// wires an executor. Structural errors surface here, before anything runs.
func (f *SessionFactory) NewSession(ctx context.Context, model *config.Model, opts session.Options) (session.Session, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Creating local session.")

	g, err := dag.BuildModel(ctx, model)
	if err != nil {
		return nil, err
	}
	sched, err := scheduler.Plan(ctx, g)
	if err != nil {
		return nil, err
	}

	execOpts := []executor.Option{
		executor.WithStoreFactory(inmemorystore.New),
		executor.WithObserver(opts.Observers...),
	}
	if opts.Workers > 0 {
		execOpts = append(execOpts, executor.WithWorkers(opts.Workers))
	}

	logger.Debug("Local session ready.", "nodes", sched.NodeCount(), "batches", len(sched.Batches()))
	return &Session{
		sched:    sched,
		executor: executor.New(execOpts...),
	}, nil
}

// Session implements session.Session for local runs.
type Session struct {
	sched    *scheduler.Schedule
	executor *executor.Executor
	closed   atomic.Bool
}

// Plan returns the schedule the session executes.
func (s *Session) Plan() *scheduler.Schedule {
	return s.sched
}

// Execute runs the planned model once.
func (s *Session) Execute(ctx context.Context, initial map[string]cty.Value) (*executor.Result, error) {
	if s.closed.Load() {
		return nil, ErrClosed
	}
	return s.executor.Execute(ctx, s.sched, initial)
}

// Close marks the session closed. Local sessions hold no other resources.
func (s *Session) Close(ctx context.Context) error {
	ctxlog.FromContext(ctx).Debug("Closing local session.")
	s.closed.Store(true)
	return nil
}
