package filter

// ColumnType is the semantic type of a schema column as far as the
// compiler cares: string columns take match operators, numeric columns
// take comparison operators, anything else is unusable in a filter.
type ColumnType int

const (
	ColumnOther ColumnType = iota
	ColumnString
	ColumnNumeric
)

// String returns the name of the column type.
func (t ColumnType) String() string {
	switch t {
	case ColumnString:
		return "string"
	case ColumnNumeric:
		return "numeric"
	default:
		return "other"
	}
}

// ColumnHandle is an opaque backend-owned column reference, produced by
// ResolveColumn and passed back unmodified to predicate constructors.
type ColumnHandle any

// Predicate is an opaque backend-owned compiled predicate. The compiler
// never inspects one; it only threads predicates through the backend's
// combinators.
type Predicate any

// QueryHandle is the opaque result of applying a predicate to the
// backend's query context (a prepared query, a row filter, ...).
type QueryHandle any

// Backend is the external collaborator the compiler targets.
//
// Implementations own the meaning of Predicate and QueryHandle. All
// methods are expected to be synchronous and side-effect free; the
// compiler calls them in depth-first, left-to-right input order, which
// may matter for the shape of generated expressions though not for
// boolean semantics.
//
// Patterns handed to StringMatch use "%" as the multi-character
// wildcard and "/" as the escape character; the user's search value is
// embedded verbatim.
type Backend interface {
	// ResolveColumn maps a column name to a backend handle.
	ResolveColumn(name string) (ColumnHandle, bool)

	// ColumnType reports the backend's own view of a column's type.
	// Backends without introspection return ColumnOther; the resolver
	// then trusts the declared configuration.
	ColumnType(col ColumnHandle) ColumnType

	// Compare builds a numeric comparison predicate.
	Compare(col ColumnHandle, op CompareOp, v Value) (Predicate, error)

	// IsNull builds a null test (negated when negate is true). Used for
	// ==/!= against null on nullable columns, where Compare semantics
	// would be wrong for SQL backends.
	IsNull(col ColumnHandle, negate bool) (Predicate, error)

	// StringMatch builds a string match predicate from a wildcard pattern.
	StringMatch(col ColumnHandle, mode CaseMode, pattern string) (Predicate, error)

	// And combines predicates conjunctively, in input order.
	And(preds ...Predicate) Predicate

	// Or combines predicates disjunctively, in input order.
	Or(preds ...Predicate) Predicate

	// Not negates a predicate.
	Not(pred Predicate) Predicate

	// ApplyFilter hands the fully combined predicate to the backend's
	// result-producing API. This is the only point where control leaves
	// the compiler.
	ApplyFilter(pred Predicate) (QueryHandle, error)
}
