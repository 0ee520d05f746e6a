// Package filtermem is the in-memory reference backend for the filter
// compiler: predicates are closures over string-keyed rows.
//
// It exists for callers that filter already-materialized data (and for
// exercising the compiler without a database). String matching follows
// the compiler's pattern convention - % wildcard, / escape - and
// case-insensitive mode folds both sides after NFC normalization, so
// differently-composed Unicode spellings compare equal.
//
// Null semantics mirror SQL: a missing or nil field never satisfies a
// comparison or a string match, only an IsNull test.
package filtermem
