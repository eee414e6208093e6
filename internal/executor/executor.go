package executor

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/specialistvlad/pargrid/internal/ctxlog"
	"github.com/specialistvlad/pargrid/internal/inmemorystore"
	"github.com/specialistvlad/pargrid/internal/nodestore"
	"github.com/specialistvlad/pargrid/internal/scheduler"
	"github.com/zclconf/go-cty/cty"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// DefaultWorkers is the worker pool size used when WithWorkers is not given.
const DefaultWorkers = 10

// Executor runs schedules. It holds no per-run state, so one Executor may
// run any number of schedules, concurrently or one after another.
type Executor struct {
	workers   int
	observers []Observer
	newStore  func() nodestore.Store
}

// Option configures an Executor.
type Option func(*Executor)

// WithWorkers bounds how many nodes of a batch are evaluated at once.
// Values below one are ignored.
func WithWorkers(n int) Option {
	return func(e *Executor) {
		if n > 0 {
			e.workers = n
		}
	}
}

// WithObserver registers observers for node status transitions.
func WithObserver(o ...Observer) Option {
	return func(e *Executor) {
		e.observers = append(e.observers, o...)
	}
}

// WithStoreFactory replaces the per-run result store.
func WithStoreFactory(f func() nodestore.Store) Option {
	return func(e *Executor) {
		if f != nil {
			e.newStore = f
		}
	}
}

// New creates an executor.
func New(opts ...Option) *Executor {
	e := &Executor{
		workers:  DefaultWorkers,
		newStore: inmemorystore.New,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Workers returns the configured worker pool size.
func (e *Executor) Workers() int { return e.workers }

// run carries the state of a single Execute call.
type run struct {
	exec    *Executor
	id      string
	store   nodestore.Store
	initial map[string]cty.Value
}

// Execute runs every node of sched once. initial supplies values for
// unconnected component inputs, keyed by absolute port path.
//
// Node failures are reported in the Result, never as an error. The error
// is non-nil only for misuse (a nil schedule or an initial value for an
// unknown port), in which case no node runs, or when ctx is canceled, in
// which case the Result is still complete.
func (e *Executor) Execute(ctx context.Context, sched *scheduler.Schedule, initial map[string]cty.Value) (*Result, error) {
	if sched == nil {
		return nil, errors.New("executor: nil schedule")
	}
	initMetrics(ctx)

	inits, err := resolveInitial(ctx, sched.Graph(), initial)
	if err != nil {
		return nil, err
	}

	r := &run{
		exec:    e,
		id:      uuid.NewString(),
		store:   e.newStore(),
		initial: inits,
	}

	ctx, span := tracer.Start(ctx, "executor.Execute",
		trace.WithAttributes(
			attribute.String("run.id", r.id),
			attribute.Int("run.node_count", sched.NodeCount()),
			attribute.Int("run.batch_count", len(sched.Batches())),
		),
	)
	defer span.End()

	ctx = ctxlog.With(ctx, "runID", r.id)
	logger := ctxlog.FromContext(ctx)
	logger.Info("🚀 Starting concurrent execution...",
		"nodes", sched.NodeCount(),
		"batches", len(sched.Batches()),
		"workers", e.workers,
	)

	start := time.Now()
	r.runScope(ctx, nil, sched, nil)

	res, err := r.result(ctx, sched, time.Since(start))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	failed, skipped := res.Failed(), res.Skipped()
	logger.Info("🏁 Execution finished.",
		"duration", res.Duration,
		"failed", len(failed),
		"skipped", len(skipped),
	)

	if err := ctx.Err(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "context canceled")
		return res, err
	}
	if len(failed) > 0 {
		span.SetStatus(codes.Error, "one or more nodes failed")
	}
	return res, nil
}
