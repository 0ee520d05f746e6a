package filtersql

import (
	"fmt"
	"strings"

	"github.com/roach88/sift/filter"
)

// Column declares one schema column the backend can filter on.
type Column struct {
	Name string
	Type filter.ColumnType
}

// Backend compiles filter predicates to parameterized SQL fragments
// over a single table. It implements filter.Backend.
type Backend struct {
	table   string
	columns map[string]Column
}

// New creates a backend for one table and its filterable columns.
func New(table string, columns ...Column) *Backend {
	m := make(map[string]Column, len(columns))
	for _, col := range columns {
		m[col.Name] = col
	}
	return &Backend{table: table, columns: m}
}

// Table returns the table this backend queries.
func (b *Backend) Table() string {
	return b.table
}

// fragment is one compiled predicate: a SQL boolean expression with its
// positional parameters. Values are NEVER interpolated into the text.
type fragment struct {
	sql    string
	params []any
}

// asFragment unwraps an opaque predicate produced by this backend.
// Receiving anything else is a wiring bug in the caller, not input error.
func asFragment(p filter.Predicate) fragment {
	f, ok := p.(fragment)
	if !ok {
		panic(fmt.Sprintf("filtersql: foreign predicate %T", p))
	}
	return f
}

// ResolveColumn implements filter.Backend.
func (b *Backend) ResolveColumn(name string) (filter.ColumnHandle, bool) {
	col, ok := b.columns[name]
	if !ok {
		return nil, false
	}
	return col, true
}

// ColumnType implements filter.Backend using the declared schema.
func (b *Backend) ColumnType(handle filter.ColumnHandle) filter.ColumnType {
	col, ok := handle.(Column)
	if !ok {
		return filter.ColumnOther
	}
	return col.Type
}

// compareSQL maps a comparison operator to its SQL spelling.
func compareSQL(op filter.CompareOp) string {
	switch op {
	case filter.OpLt:
		return "<"
	case filter.OpLe:
		return "<="
	case filter.OpEq:
		return "="
	case filter.OpNe:
		return "<>"
	case filter.OpGe:
		return ">="
	case filter.OpGt:
		return ">"
	default:
		return ""
	}
}

// Compare implements filter.Backend.
func (b *Backend) Compare(handle filter.ColumnHandle, op filter.CompareOp, v filter.Value) (filter.Predicate, error) {
	col, ok := handle.(Column)
	if !ok {
		return nil, fmt.Errorf("foreign column handle %T", handle)
	}
	sqlOp := compareSQL(op)
	if sqlOp == "" {
		return nil, fmt.Errorf("unsupported comparison operator %v", op)
	}
	return fragment{
		sql:    fmt.Sprintf("%s %s ?", col.Name, sqlOp),
		params: []any{filter.GoValue(v)},
	}, nil
}

// IsNull implements filter.Backend.
func (b *Backend) IsNull(handle filter.ColumnHandle, negate bool) (filter.Predicate, error) {
	col, ok := handle.(Column)
	if !ok {
		return nil, fmt.Errorf("foreign column handle %T", handle)
	}
	if negate {
		return fragment{sql: col.Name + " IS NOT NULL"}, nil
	}
	return fragment{sql: col.Name + " IS NULL"}, nil
}

// StringMatch implements filter.Backend. The pattern arrives with the
// compiler's wildcard convention (% wildcard, / escape) and is passed to
// the driver as a parameter. Case-insensitive mode folds both sides with
// lower(); strict mode relies on the store's case_sensitive_like pragma.
func (b *Backend) StringMatch(handle filter.ColumnHandle, mode filter.CaseMode, pattern string) (filter.Predicate, error) {
	col, ok := handle.(Column)
	if !ok {
		return nil, fmt.Errorf("foreign column handle %T", handle)
	}
	switch mode {
	case filter.CaseIgnore:
		return fragment{
			sql:    fmt.Sprintf("lower(%s) LIKE lower(?) ESCAPE '%s'", col.Name, filter.Escape),
			params: []any{pattern},
		}, nil
	case filter.CaseStrict:
		return fragment{
			sql:    fmt.Sprintf("%s LIKE ? ESCAPE '%s'", col.Name, filter.Escape),
			params: []any{pattern},
		}, nil
	default:
		return nil, fmt.Errorf("unsupported case mode %v", mode)
	}
}

// combine folds fragments with a SQL connective, preserving input order.
func combine(connective string, preds []filter.Predicate) fragment {
	if len(preds) == 0 {
		// Vacuous truth for AND, but also the safest rendering for an
		// empty OR given the compiler permits empty child lists.
		return fragment{sql: "1 = 1"}
	}
	parts := make([]string, 0, len(preds))
	var params []any
	for _, p := range preds {
		f := asFragment(p)
		parts = append(parts, f.sql)
		params = append(params, f.params...)
	}
	return fragment{
		sql:    "(" + strings.Join(parts, " "+connective+" ") + ")",
		params: params,
	}
}

// And implements filter.Backend.
func (b *Backend) And(preds ...filter.Predicate) filter.Predicate {
	return combine("AND", preds)
}

// Or implements filter.Backend.
func (b *Backend) Or(preds ...filter.Predicate) filter.Predicate {
	return combine("OR", preds)
}

// Not implements filter.Backend.
func (b *Backend) Not(pred filter.Predicate) filter.Predicate {
	f := asFragment(pred)
	return fragment{
		sql:    "NOT (" + f.sql + ")",
		params: f.params,
	}
}

// ApplyFilter implements filter.Backend: it wraps the combined fragment
// into an executable SELECT over the backend's table.
func (b *Backend) ApplyFilter(pred filter.Predicate) (filter.QueryHandle, error) {
	f := asFragment(pred)
	return &Query{
		Table:  b.table,
		Where:  f.sql,
		Params: f.params,
	}, nil
}
