// Package nodestore defines the interface for storing and retrieving the
// dynamic, mutable execution state of nodes during a run.
//
// # Why Node Store Exists
//
// The node store isolates **mutable execution state** (status, port values,
// errors) from the **immutable graph structure** owned by the dag package.
//
// This separation provides several architectural benefits:
//   - **Idempotence:** A fresh store per run means nothing carries over between runs
//   - **Concurrency:** Workers record results without touching the shared graph
//   - **Testability:** Execution state can be validated independently of structure
//   - **Flexibility:** Different storage backends can be swapped in
//
// # Lifecycle and Usage
//
// The node store is:
//  1. **Created** once per Execute call (ephemeral, not persistent across runs)
//  2. **Mutated** as nodes move through Running, Done, Failed or Skipped
//  3. **Queried** by downstream nodes pulling their input values
//  4. **Read back** into the run's Result, then discarded
package nodestore

import (
	"context"

	"github.com/specialistvlad/pargrid/internal/node"
	"github.com/specialistvlad/pargrid/internal/nodeid"
	"github.com/zclconf/go-cty/cty"
)

// Store is the interface for managing the mutable execution state of nodes.
//
// # Thread-Safety Requirements
//
// Implementations MUST be safe for concurrent reads and writes: every node of
// a batch records its result from its own goroutine while others read the
// values of completed upstream nodes.
type Store interface {
	// SetStatus updates the execution status of a node.
	SetStatus(ctx context.Context, id nodeid.Address, status node.Status) error

	// GetStatus retrieves the current execution status of a node.
	//
	// Returns node.Pending if no status has been set for this node yet.
	GetStatus(ctx context.Context, id nodeid.Address) (node.Status, error)

	// SetValues records the port values of a node: the inputs it received
	// and the outputs it produced.
	SetValues(ctx context.Context, id nodeid.Address, values map[string]cty.Value) error

	// GetValues retrieves the recorded port values of a node.
	//
	// Returns nil if nothing has been recorded.
	GetValues(ctx context.Context, id nodeid.Address) (map[string]cty.Value, error)

	// SetError records why a node failed or was skipped.
	SetError(ctx context.Context, id nodeid.Address, nodeErr error) error

	// GetError retrieves the recorded error of a node.
	//
	// Returns nil if the node succeeded or hasn't executed yet.
	GetError(ctx context.Context, id nodeid.Address) (error, error)
}
