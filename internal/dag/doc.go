// Package dag is the structural layer of the application. It takes the
// format-agnostic declarations from the config package and builds a tree of
// immutable, validated dependency graphs: one Graph per scope, where every
// group member owns the Graph of its own nested scope.
//
// Connections are resolved relative to the scope that declares them and are
// pushed down to the lowest scope containing both endpoints, so a group is a
// single node from the point of view of its parent. Ports crossing a group
// boundary are forwarded automatically and named by their path relative to
// the group (for example "c2.y1" on group "sub").
//
// Structural problems are reported with typed errors (DuplicateNodeError,
// UnknownPortError, MultipleSourceError, CycleError, ...) that can be
// inspected with errors.As.
package dag
