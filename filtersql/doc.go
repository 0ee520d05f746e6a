// Package filtersql is the SQL reference backend for the filter
// compiler, targeting SQLite.
//
// Predicates are parameterized SQL fragments: column names come from
// the schema the backend was constructed with, values always travel as
// ? placeholders and are never interpolated into the SQL text. String
// matches compile to LIKE with ESCAPE '/'; case-insensitive mode wraps
// both sides in lower(). The store enables PRAGMA case_sensitive_like
// so strict mode actually is strict.
//
// ApplyFilter produces a Query: SELECT over the schema table with the
// combined WHERE fragment and a deterministic ORDER BY rowid.
package filtersql
