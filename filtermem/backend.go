package filtermem

import (
	"encoding/json"
	"fmt"

	"github.com/roach88/sift/filter"
)

// Row is one record to filter: column name to value. Numeric values may
// be any Go integer or float type; string columns hold strings. A
// missing key and an explicit nil both read as null.
type Row map[string]any

// Backend evaluates filter predicates directly over rows.
// It implements filter.Backend.
type Backend struct {
	columns map[string]filter.ColumnType
}

// New creates a backend for the given column schema.
func New(columns map[string]filter.ColumnType) *Backend {
	m := make(map[string]filter.ColumnType, len(columns))
	for name, typ := range columns {
		m[name] = typ
	}
	return &Backend{columns: m}
}

// column is the handle type: the resolved name plus its declared type.
type column struct {
	name string
	typ  filter.ColumnType
}

// predicate is one compiled node: a pure function over a row.
type predicate func(Row) bool

// asPredicate unwraps an opaque predicate produced by this backend.
func asPredicate(p filter.Predicate) predicate {
	f, ok := p.(predicate)
	if !ok {
		panic(fmt.Sprintf("filtermem: foreign predicate %T", p))
	}
	return f
}

// ResolveColumn implements filter.Backend.
func (b *Backend) ResolveColumn(name string) (filter.ColumnHandle, bool) {
	typ, ok := b.columns[name]
	if !ok {
		return nil, false
	}
	return column{name: name, typ: typ}, true
}

// ColumnType implements filter.Backend.
func (b *Backend) ColumnType(handle filter.ColumnHandle) filter.ColumnType {
	col, ok := handle.(column)
	if !ok {
		return filter.ColumnOther
	}
	return col.typ
}

// asNumber coerces a row value to float64 for comparison.
func asNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}

// Compare implements filter.Backend. Null and non-numeric row values
// never satisfy a comparison, matching SQL three-valued logic as far as
// a boolean predicate can.
func (b *Backend) Compare(handle filter.ColumnHandle, op filter.CompareOp, v filter.Value) (filter.Predicate, error) {
	col, ok := handle.(column)
	if !ok {
		return nil, fmt.Errorf("foreign column handle %T", handle)
	}
	want, ok := asNumber(filter.GoValue(v))
	if !ok {
		return nil, fmt.Errorf("column %s: comparison value is not numeric", col.name)
	}

	return predicate(func(row Row) bool {
		got, ok := asNumber(row[col.name])
		if !ok {
			return false
		}
		switch op {
		case filter.OpLt:
			return got < want
		case filter.OpLe:
			return got <= want
		case filter.OpEq:
			return got == want
		case filter.OpNe:
			return got != want
		case filter.OpGe:
			return got >= want
		case filter.OpGt:
			return got > want
		default:
			return false
		}
	}), nil
}

// IsNull implements filter.Backend.
func (b *Backend) IsNull(handle filter.ColumnHandle, negate bool) (filter.Predicate, error) {
	col, ok := handle.(column)
	if !ok {
		return nil, fmt.Errorf("foreign column handle %T", handle)
	}
	return predicate(func(row Row) bool {
		v, present := row[col.name]
		isNull := !present || v == nil
		return isNull != negate
	}), nil
}

// StringMatch implements filter.Backend.
func (b *Backend) StringMatch(handle filter.ColumnHandle, mode filter.CaseMode, pattern string) (filter.Predicate, error) {
	col, ok := handle.(column)
	if !ok {
		return nil, fmt.Errorf("foreign column handle %T", handle)
	}
	m, err := compilePattern(pattern, mode)
	if err != nil {
		return nil, fmt.Errorf("column %s: %w", col.name, err)
	}
	return predicate(func(row Row) bool {
		s, ok := row[col.name].(string)
		if !ok {
			return false
		}
		return m.match(s)
	}), nil
}

// And implements filter.Backend. An empty child list is vacuously true,
// for both connectives - same rendering the SQL backend picks.
func (b *Backend) And(preds ...filter.Predicate) filter.Predicate {
	fns := make([]predicate, len(preds))
	for i, p := range preds {
		fns[i] = asPredicate(p)
	}
	return predicate(func(row Row) bool {
		for _, fn := range fns {
			if !fn(row) {
				return false
			}
		}
		return true
	})
}

// Or implements filter.Backend.
func (b *Backend) Or(preds ...filter.Predicate) filter.Predicate {
	fns := make([]predicate, len(preds))
	for i, p := range preds {
		fns[i] = asPredicate(p)
	}
	return predicate(func(row Row) bool {
		if len(fns) == 0 {
			return true
		}
		for _, fn := range fns {
			if fn(row) {
				return true
			}
		}
		return false
	})
}

// Not implements filter.Backend.
func (b *Backend) Not(pred filter.Predicate) filter.Predicate {
	fn := asPredicate(pred)
	return predicate(func(row Row) bool {
		return !fn(row)
	})
}

// ApplyFilter implements filter.Backend: it wraps the combined
// predicate into a reusable row filter.
func (b *Backend) ApplyFilter(pred filter.Predicate) (filter.QueryHandle, error) {
	return &Query{pred: asPredicate(pred)}, nil
}

// Query is the executable result of applying a compiled filter.
type Query struct {
	pred predicate
}

// Matches reports whether a single row satisfies the filter.
func (q *Query) Matches(row Row) bool {
	return q.pred(row)
}

// Filter returns the rows satisfying the filter, in input order.
func (q *Query) Filter(rows []Row) []Row {
	var out []Row
	for _, row := range rows {
		if q.pred(row) {
			out = append(out, row)
		}
	}
	return out
}
