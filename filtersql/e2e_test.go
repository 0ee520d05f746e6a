package filtersql_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/sift/filter"
	"github.com/roach88/sift/filtersql"
	"github.com/roach88/sift/internal/testutil"
)

var peopleColumns = []filtersql.Column{
	{Name: "age", Type: filter.ColumnNumeric},
	{Name: "height", Type: filter.ColumnNumeric},
	{Name: "name", Type: filter.ColumnString},
	{Name: "email", Type: filter.ColumnString},
}

func peopleConfig() filter.Config {
	return filter.Config{
		Aliases: filter.DefaultAliases(),
		Columns: filter.ColumnConfig{
			Numeric:  filter.StringList{"age", "height"},
			String:   filter.StringList{"name", "email"},
			Nullable: filter.StringList{"email"},
		},
	}
}

type env struct {
	store    *filtersql.Store
	compiler *filter.Compiler
}

func newEnv(t *testing.T, rows [][]any) *env {
	t.Helper()
	store := testutil.OpenStore(t)
	testutil.CreateTable(t, store, "people", peopleColumns)
	testutil.InsertRows(t, store, "people", []string{"age", "height", "name", "email"}, rows)

	backend := filtersql.New("people", peopleColumns...)
	res, err := filter.NewResolver(backend, peopleConfig())
	require.NoError(t, err)
	return &env{store: store, compiler: filter.NewCompiler(res)}
}

// matchIDs applies a filter tree and returns the matching rowids.
func (e *env) matchIDs(t *testing.T, tree any) []int64 {
	t.Helper()
	handle, err := e.compiler.Apply(tree)
	require.NoError(t, err)
	q, ok := handle.(*filtersql.Query)
	require.True(t, ok)
	ids, err := q.MatchIDs(context.Background(), e.store)
	require.NoError(t, err)
	return ids
}

func cmp(op, column string, value any) map[string]any {
	return map[string]any{"operator": op, "column": column, "value": value}
}

func strCmp(op, column, caseMode string, value any) map[string]any {
	return map[string]any{"operator": op, "column": column, "case": caseMode, "value": value}
}

func TestQuery_ConjunctionSelectsIntersection(t *testing.T) {
	e := newEnv(t, [][]any{
		{10, 20, "a", "a@x"},
		{10, 15, "b", "b@x"},
		{5, 15, "c", "c@x"},
	})

	tree := map[string]any{
		"operator": "and",
		"value": []any{
			cmp("==", "age", 10),
			cmp("==", "height", 15),
		},
	}
	assert.Equal(t, []int64{2}, e.matchIDs(t, tree))
}

func TestQuery_NumericOperatorMatrix(t *testing.T) {
	// Rows 1..3 carry ages 10, 15, 20.
	e := newEnv(t, [][]any{
		{10, 0, "", ""},
		{15, 0, "", ""},
		{20, 0, "", ""},
	})

	cases := []struct {
		op   string
		want []int64
	}{
		{"<", []int64{1}},
		{"<=", []int64{1, 2}},
		{"==", []int64{2}},
		{"!=", []int64{1, 3}},
		{">=", []int64{2, 3}},
		{">", []int64{3}},
	}
	for _, tc := range cases {
		t.Run(tc.op, func(t *testing.T) {
			assert.Equal(t, tc.want, e.matchIDs(t, cmp(tc.op, "age", 15)))
		})
	}
}

func TestQuery_StringMatchMatrix(t *testing.T) {
	// Rows 1..6.
	e := newEnv(t, [][]any{
		{0, 0, "Hello", ""},
		{0, 0, "hello", ""},
		{0, 0, "HelloWorld", ""},
		{0, 0, "helloworld", ""},
		{0, 0, "HelloWorldString", ""},
		{0, 0, "helloworldstring", ""},
	})

	cases := []struct {
		name     string
		op       string
		caseMode string
		value    string
		want     []int64
	}{
		{"strict exact", "match-strict", "strict", "Hello", []int64{1}},
		{"ignore exact", "match-strict", "ignore", "Hello", []int64{1, 2}},
		{"strict prefix", "match-prefix", "strict", "Hello", []int64{1, 3, 5}},
		{"ignore prefix", "match-prefix", "ignore", "Hello", []int64{1, 2, 3, 4, 5, 6}},
		{"strict suffix", "match-suffix", "strict", "World", []int64{3}},
		{"ignore suffix", "match-suffix", "ignore", "World", []int64{3, 4}},
		{"strict any", "match-any", "strict", "World", []int64{3, 5}},
		{"ignore any", "match-any", "ignore", "World", []int64{3, 4, 5, 6}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, e.matchIDs(t, strCmp(tc.op, "name", tc.caseMode, tc.value)))
		})
	}
}

// Wildcard characters in the search value are passed through to LIKE, so
// a literal % behaves as a wildcard rather than being escaped away.
func TestQuery_WildcardPassthrough(t *testing.T) {
	e := newEnv(t, [][]any{
		{0, 0, "door", ""},
		{0, 0, "deer", ""},
		{0, 0, "dye", ""},
	})

	ids := e.matchIDs(t, strCmp("match-strict", "name", "strict", "d%r"))
	assert.Equal(t, []int64{1, 2}, ids)
}

func TestQuery_NullHandling(t *testing.T) {
	e := newEnv(t, [][]any{
		{0, 0, "a", "a@x"},
		{0, 0, "b", nil},
		{0, 0, "c", nil},
	})

	assert.Equal(t, []int64{2, 3}, e.matchIDs(t, cmp("==", "email", nil)))
	assert.Equal(t, []int64{1}, e.matchIDs(t, cmp("!=", "email", nil)))

	_, err := e.compiler.Apply(cmp("==", "name", nil))
	require.Error(t, err)
	assert.True(t, filter.IsNullViolationError(err))
}

func TestQuery_NotAndNesting(t *testing.T) {
	e := newEnv(t, [][]any{
		{10, 0, "a", ""},
		{15, 0, "b", ""},
		{20, 0, "c", ""},
	})

	tree := map[string]any{
		"operator": "not",
		"value": map[string]any{
			"operator": "or",
			"value": []any{
				cmp("==", "age", 10),
				cmp("==", "age", 20),
			},
		},
	}
	assert.Equal(t, []int64{2}, e.matchIDs(t, tree))
}

func TestQuery_EmptyConjunctionMatchesAll(t *testing.T) {
	e := newEnv(t, [][]any{
		{10, 0, "a", ""},
		{20, 0, "b", ""},
	})

	tree := map[string]any{"operator": "and", "value": []any{}}
	assert.Equal(t, []int64{1, 2}, e.matchIDs(t, tree))

	q, err := e.compiler.Apply(tree)
	require.NoError(t, err)
	count, err := q.(*filtersql.Query).Count(context.Background(), e.store)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

// Hostile filter values must not be able to escape the WHERE clause.
func TestQuery_InjectionStaysData(t *testing.T) {
	e := newEnv(t, [][]any{
		{0, 0, "safe", ""},
	})

	ids := e.matchIDs(t, strCmp("match-strict", "name", "strict", "x'; DROP TABLE people; --"))
	assert.Empty(t, ids)

	// Table is still there and still queryable.
	assert.Equal(t, []int64{1}, e.matchIDs(t, strCmp("match-strict", "name", "strict", "safe")))
}
