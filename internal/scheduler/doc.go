// Package scheduler turns a validated dag.Graph into an execution plan.
//
// # How It Works
//
// Plan first runs the cycle detector over the flattened model, then layers
// every scope with Kahn's algorithm:
//  1. Collect every node whose dependencies are all already scheduled.
//  2. Emit them, in declaration order, as the next batch.
//  3. Repeat until every node of the scope is placed.
//
// Nodes sharing a batch have no direct or transitive dependency on each
// other and may run concurrently. A group is one node of its parent's plan;
// its own plan is computed recursively and independently and is reachable
// through Schedule.Sub.
//
// Plans are deterministic: the same declarations always produce the same
// batches in the same order.
package scheduler
