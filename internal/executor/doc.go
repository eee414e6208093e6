// Package executor runs a planned graph.
//
// Batches of a scope run strictly in sequence. Inside a batch every node is
// dispatched to a bounded worker pool; a node starts only once each of its
// connected input ports has received a value from upstream, so a fan-in
// node never starts before all of its producers have finished.
//
// Failures are contained: a failing node is recorded as Failed, and only the
// nodes that needed one of its values are Skipped. Everything else runs to
// completion and is reported in the Result.
//
// A group member runs its nested schedule recursively. Its forwarded inputs
// feed the inner consumers and its forwarded outputs are collected from the
// inner producers once the nested run is complete.
package executor
