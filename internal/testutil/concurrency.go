package testutil

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/specialistvlad/pargrid/internal/config"
	"github.com/zclconf/go-cty/cty"
)

// Recorder wraps component evaluators and records when each of them ran.
// It is used by concurrency tests to assert barriers and overlap.
type Recorder struct {
	mu      sync.Mutex
	records map[string]ExecutionRecord
	calls   map[string]int

	active    atomic.Int32
	maxActive atomic.Int32
}

// NewRecorder creates an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{
		records: make(map[string]ExecutionRecord),
		calls:   make(map[string]int),
	}
}

// Wrap instruments a component in place: its evaluator sleeps for the given
// duration before delegating, and the call is recorded under id.
func (r *Recorder) Wrap(id string, c *config.Component, sleep time.Duration) *config.Component {
	inner := c.Evaluator
	c.Evaluator = config.EvaluatorFunc(func(ctx context.Context, inputs map[string]cty.Value) (map[string]cty.Value, error) {
		start := time.Now()
		r.enter()
		defer r.active.Add(-1)

		if sleep > 0 {
			select {
			case <-time.After(sleep):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}
		out, err := inner.Evaluate(ctx, inputs)

		r.mu.Lock()
		r.records[id] = ExecutionRecord{Start: start, End: time.Now()}
		r.calls[id]++
		r.mu.Unlock()
		return out, err
	})
	return c
}

func (r *Recorder) enter() {
	n := r.active.Add(1)
	for {
		cur := r.maxActive.Load()
		if n <= cur || r.maxActive.CompareAndSwap(cur, n) {
			return
		}
	}
}

// Record returns the execution record of id.
func (r *Recorder) Record(id string) (ExecutionRecord, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.records[id]
	return rec, ok
}

// Calls returns how many times id was evaluated.
func (r *Recorder) Calls(id string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.calls[id]
}

// MaxActive returns the highest number of wrapped evaluators observed
// running at the same time.
func (r *Recorder) MaxActive() int {
	return int(r.maxActive.Load())
}
