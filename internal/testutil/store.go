// Package testutil provides shared sqlite fixtures for backend tests.
package testutil

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/roach88/sift/filter"
	"github.com/roach88/sift/filtersql"
)

// OpenStore opens a sqlite store in a per-test temp directory and
// closes it when the test finishes.
func OpenStore(t *testing.T) *filtersql.Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "filter_test.db")
	store, err := filtersql.Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

// CreateTable creates a table whose DDL affinity follows each column's
// filter type: TEXT for string columns, NUMERIC for numeric ones.
func CreateTable(t *testing.T, store *filtersql.Store, table string, columns []filtersql.Column) {
	t.Helper()
	defs := make([]string, 0, len(columns))
	for _, col := range columns {
		affinity := "NUMERIC"
		if col.Type == filter.ColumnString {
			affinity = "TEXT"
		}
		defs = append(defs, col.Name+" "+affinity)
	}
	ddl := fmt.Sprintf("CREATE TABLE %s (%s)", table, strings.Join(defs, ", "))
	_, err := store.Exec(context.Background(), ddl)
	require.NoError(t, err)
}

// InsertRows inserts rows in order, so rowids are the 1-based input
// positions - handy for asserting which rows a filter matched.
func InsertRows(t *testing.T, store *filtersql.Store, table string, columns []string, rows [][]any) {
	t.Helper()
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(columns)), ", ")
	stmt := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		table, strings.Join(columns, ", "), placeholders)
	for _, row := range rows {
		_, err := store.Exec(context.Background(), stmt, row...)
		require.NoError(t, err)
	}
}
