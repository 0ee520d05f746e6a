package filtermem

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/sift/filter"
)

func newTestCompiler(t *testing.T) *filter.Compiler {
	t.Helper()
	backend := New(map[string]filter.ColumnType{
		"age":    filter.ColumnNumeric,
		"height": filter.ColumnNumeric,
		"name":   filter.ColumnString,
		"email":  filter.ColumnString,
	})
	res, err := filter.NewResolver(backend, filter.Config{
		Aliases: filter.DefaultAliases(),
		Columns: filter.ColumnConfig{
			Numeric:  filter.StringList{"age", "height"},
			String:   filter.StringList{"name", "email"},
			Nullable: filter.StringList{"email"},
		},
	})
	require.NoError(t, err)
	return filter.NewCompiler(res)
}

func applyQuery(t *testing.T, tree any) *Query {
	t.Helper()
	handle, err := newTestCompiler(t).Apply(tree)
	require.NoError(t, err)
	q, ok := handle.(*Query)
	require.True(t, ok)
	return q
}

func cmp(op, column string, value any) map[string]any {
	return map[string]any{"operator": op, "column": column, "value": value}
}

func strCmp(op, column, caseMode string, value any) map[string]any {
	return map[string]any{"operator": op, "column": column, "case": caseMode, "value": value}
}

func TestQuery_Conjunction(t *testing.T) {
	q := applyQuery(t, map[string]any{
		"operator": "and",
		"value": []any{
			cmp("==", "age", 10),
			cmp("==", "height", 15),
		},
	})

	rows := []Row{
		{"age": 10, "height": 20},
		{"age": 10, "height": 15},
		{"age": 5, "height": 15},
	}
	assert.Equal(t, []Row{rows[1]}, q.Filter(rows))
}

func TestQuery_NumericCoercion(t *testing.T) {
	q := applyQuery(t, cmp(">=", "age", 10))

	assert.True(t, q.Matches(Row{"age": 10}))
	assert.True(t, q.Matches(Row{"age": int64(12)}))
	assert.True(t, q.Matches(Row{"age": 10.5}))
	assert.True(t, q.Matches(Row{"age": uint32(11)}))
	assert.False(t, q.Matches(Row{"age": 9}))

	// Null and non-numeric row values never satisfy a comparison.
	assert.False(t, q.Matches(Row{"age": nil}))
	assert.False(t, q.Matches(Row{"age": "ten"}))
	assert.False(t, q.Matches(Row{}))
}

func TestQuery_StringMatchModes(t *testing.T) {
	rows := []Row{
		{"name": "Hello"},
		{"name": "hello"},
		{"name": "HelloWorld"},
		{"name": "helloworld"},
		{"name": "HelloWorldString"},
		{"name": "helloworldstring"},
	}

	cases := []struct {
		name     string
		op       string
		caseMode string
		value    string
		want     []int
	}{
		{"strict exact", "match-strict", "strict", "Hello", []int{0}},
		{"ignore exact", "match-strict", "ignore", "Hello", []int{0, 1}},
		{"strict prefix", "match-prefix", "strict", "Hello", []int{0, 2, 4}},
		{"ignore prefix", "match-prefix", "ignore", "Hello", []int{0, 1, 2, 3, 4, 5}},
		{"strict suffix", "match-suffix", "strict", "World", []int{2}},
		{"ignore suffix", "match-suffix", "ignore", "World", []int{2, 3}},
		{"strict any", "match-any", "strict", "World", []int{2, 4}},
		{"ignore any", "match-any", "ignore", "World", []int{2, 3, 4, 5}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			q := applyQuery(t, strCmp(tc.op, "name", tc.caseMode, tc.value))
			want := make([]Row, 0, len(tc.want))
			for _, i := range tc.want {
				want = append(want, rows[i])
			}
			assert.Equal(t, want, q.Filter(rows))
		})
	}
}

func TestQuery_NullTests(t *testing.T) {
	isNull := applyQuery(t, cmp("==", "email", nil))
	notNull := applyQuery(t, cmp("!=", "email", nil))

	present := Row{"email": "a@x"}
	explicit := Row{"email": nil}
	missing := Row{}

	assert.False(t, isNull.Matches(present))
	assert.True(t, isNull.Matches(explicit))
	assert.True(t, isNull.Matches(missing))

	assert.True(t, notNull.Matches(present))
	assert.False(t, notNull.Matches(explicit))
	assert.False(t, notNull.Matches(missing))
}

func TestQuery_NotAndNesting(t *testing.T) {
	q := applyQuery(t, map[string]any{
		"operator": "not",
		"value": map[string]any{
			"operator": "or",
			"value": []any{
				cmp("==", "age", 10),
				cmp("==", "age", 20),
			},
		},
	})

	assert.False(t, q.Matches(Row{"age": 10}))
	assert.True(t, q.Matches(Row{"age": 15}))
	assert.False(t, q.Matches(Row{"age": 20}))
}

func TestQuery_EmptySequencesAreVacuouslyTrue(t *testing.T) {
	and := applyQuery(t, map[string]any{"operator": "and", "value": []any{}})
	or := applyQuery(t, map[string]any{"operator": "or", "value": []any{}})

	row := Row{"age": 1}
	assert.True(t, and.Matches(row))
	assert.True(t, or.Matches(row))
}

func TestBackend_RejectsForeignHandle(t *testing.T) {
	b := New(map[string]filter.ColumnType{"age": filter.ColumnNumeric})

	_, err := b.Compare("bogus", filter.OpEq, filter.Int(1))
	assert.Error(t, err)
	_, err = b.IsNull("bogus", false)
	assert.Error(t, err)
	_, err = b.StringMatch("bogus", filter.CaseStrict, "x")
	assert.Error(t, err)

	assert.Equal(t, filter.ColumnOther, b.ColumnType("bogus"))
}

func TestAsPredicate_PanicsOnForeignPredicate(t *testing.T) {
	assert.Panics(t, func() { asPredicate("not a predicate") })
}
