// Package inmemorystore provides an ephemeral, thread-safe, in-memory
// implementation of the nodestore.Store interface.
//
// # Concurrency Model
//
// The store uses sync.Map because the workload is write-heavy on
// independent keys: each node's state is written by exactly one worker,
// while downstream workers read completed values. sync.Map is optimized for
// this pattern where every key is written once or a few times and read many
// times.
package inmemorystore
