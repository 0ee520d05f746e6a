// Package filter compiles JSON-shaped boolean filter trees into backend
// predicates over a typed column schema.
//
// A filter tree is built from two node shapes:
//
//	Logical node:     {"operator": "and", "value": [NODE, ...]}
//	Comparison node:  {"column": "age", "operator": ">=", "value": 18}
//
// The "and" and "or" operators take a sequence of child nodes; "not"
// takes exactly one child node. Every other operator string makes the
// node a comparison against a named column. Classification is decided
// solely by whether the operator matches a configured logical alias.
//
// ARCHITECTURE:
//
// Two collaborating pieces form the core:
//
// Resolver (resolver.go):
// Validates and normalizes configuration once, at construction: the
// logical-operator alias table, per-column type/nullability constraints
// and structural limits. Bad configuration fails immediately with a
// ConstraintError - a programming or deployment defect, never conflated
// with per-query rejection. The resolver is immutable afterwards and
// safe to share across concurrent compiles.
//
// Compiler (compile.go):
// Recursively walks a filter tree, classifies each node, enforces
// depth/breadth/element limits as it descends, and folds child
// predicates through the backend's AND/OR/NOT combinators. All per-call
// state (element count, depth) is threaded through the recursion;
// nothing is shared between calls.
//
// The backend (backend.go) is an external collaborator: it resolves
// column names to handles, turns (column, operator, value) triples into
// opaque predicates, and combines them. Reference backends live in the
// filtersql and filtermem packages.
//
// Limit checks are the only defense against oversized untrusted input:
// compilation is synchronous, CPU-only and deterministic, so no
// timeouts or cancellation are needed. A hard recursion ceiling applies
// even when MaxDepth is left unbounded.
package filter
