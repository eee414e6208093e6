package node

import (
	"sync"
	"sync/atomic"
)

// State is the mutable, per-run record of one node. The graph itself is
// immutable; every run creates fresh State values so nothing carries over
// between runs.
type State struct {
	// pending counts connected input ports that have not received a value.
	pending atomic.Int32
	status  atomic.Int32
	// skipOnce ensures a node is marked as skipped exactly once.
	skipOnce sync.Once
}

// NewState creates a Pending state waiting on the given number of connected
// input ports. A node without connected inputs is immediately Ready.
func NewState(connectedInputs int) *State {
	s := &State{}
	s.pending.Store(int32(connectedInputs))
	if connectedInputs == 0 {
		s.SetStatus(Ready)
	}
	return s
}

// Pending atomically returns the current number of unsatisfied input ports.
func (s *State) Pending() int32 {
	return s.pending.Load()
}

// Satisfy marks one input port as satisfied and returns true when this was
// the last outstanding port, promoting the node to Ready.
func (s *State) Satisfy() bool {
	if s.pending.Add(-1) == 0 {
		s.status.CompareAndSwap(int32(Pending), int32(Ready))
		return true
	}
	return false
}

// SetStatus atomically sets the node's status.
func (s *State) SetStatus(st Status) {
	s.status.Store(int32(st))
}

// Status atomically retrieves the node's status.
func (s *State) Status() Status {
	return Status(s.status.Load())
}

// Skip marks the node Skipped. It returns true only for the first call.
func (s *State) Skip() bool {
	var skipped bool
	s.skipOnce.Do(func() {
		s.SetStatus(Skipped)
		skipped = true
	})
	return skipped
}
