// Package harness runs YAML-defined filter scenarios against both
// backends and snapshots the compiled SQL with goldie golden files.
//
// A scenario bundles one schema configuration, a set of rows, and a
// list of filter cases. Each case either expects a set of matching row
// ids or a compile error code. Every case runs twice: once against a
// fresh in-memory sqlite store and once against the in-memory row
// backend, and the two result sets must agree. That cross-check is the
// point of the harness - the sqlite backend's SQL rendering and the
// row backend's direct evaluation are independent implementations of
// the same semantics.
//
// Golden files live in testdata/golden and capture the rendered SQL,
// parameters, and match ids per case. Regenerate with:
//
//	go test ./internal/harness -update
package harness
