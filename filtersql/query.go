package filtersql

import (
	"context"
	"fmt"
)

// Query is the executable result of applying a compiled filter: a
// SELECT over the backend's table with the combined WHERE fragment.
//
// Every query orders by rowid so results are deterministic across runs.
type Query struct {
	Table  string
	Where  string
	Params []any
}

// SQL renders the full SELECT statement with ? placeholders.
func (q *Query) SQL() string {
	return fmt.Sprintf("SELECT rowid FROM %s WHERE %s ORDER BY rowid ASC", q.Table, q.Where)
}

// MatchIDs executes the query and returns the rowids of matching rows,
// in ascending order.
func (q *Query) MatchIDs(ctx context.Context, store *Store) ([]int64, error) {
	rows, err := store.Query(ctx, q.SQL(), q.Params...)
	if err != nil {
		return nil, fmt.Errorf("execute query: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan rowid: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}
	return ids, nil
}

// Count executes the query and returns the number of matching rows.
func (q *Query) Count(ctx context.Context, store *Store) (int, error) {
	ids, err := q.MatchIDs(ctx, store)
	if err != nil {
		return 0, err
	}
	return len(ids), nil
}
