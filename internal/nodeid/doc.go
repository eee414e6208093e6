// internal/nodeid/doc.go

/*
Package nodeid provides a structured, type-safe representation for node
and port identifiers within a model, based on a dot-separated scoped path.

A node declared as `c2` inside group `g2`, itself inside group `g1`, has the
address `g1.g2.c2`; its output port `y1` is addressed as `g1.g2.c2.y1`.
Addresses are always relative to some scope, usually the root of the model.

This package enforces the identifier schema and centralizes all
formatting and parsing logic.
*/
package nodeid
