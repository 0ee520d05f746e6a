package filter

// Compiler walks filter trees against one resolver. It holds no
// query-specific state: the element count and depth of an in-flight
// compile live on the call stack, so one Compiler serves concurrent
// callers.
type Compiler struct {
	res *Resolver
}

// NewCompiler creates a compiler bound to a resolver.
func NewCompiler(res *Resolver) *Compiler {
	return &Compiler{res: res}
}

// Result is the output of one successful compile: the fully combined
// backend predicate and the total element count of the tree.
type Result struct {
	Predicate Predicate
	Elements  int
}

// Compile compiles a decoded filter tree into a backend predicate.
//
// The input is the generic decoding of the JSON filter (string-keyed
// maps, []any sequences, scalars); JSON text parsing is the caller's
// job. The first violation encountered under depth-first, left-to-right
// evaluation aborts the call with a CompileError; no partial predicate
// is returned.
func (c *Compiler) Compile(node any) (Result, error) {
	t := &tracker{limits: c.res.Limits()}
	pred, err := c.step(node, t, 0)
	if err != nil {
		return Result{}, err
	}
	return Result{Predicate: pred, Elements: t.count}, nil
}

// Apply compiles the tree and hands the combined predicate to the
// backend's query context. This is the only point where control leaves
// the compiler.
func (c *Compiler) Apply(node any) (QueryHandle, error) {
	res, err := c.Compile(node)
	if err != nil {
		return nil, err
	}
	return c.res.Backend().ApplyFilter(res.Predicate)
}

// step processes one node: account for it, check limits against its
// value payload, classify it on the operator string, and delegate.
// Count accumulates across the whole call via the tracker; depth is
// shared between siblings, so it is threaded by value.
func (c *Compiler) step(v any, t *tracker, depth int) (Predicate, error) {
	n, err := decodeNode(v)
	if err != nil {
		return nil, err
	}

	depth++
	if err := t.enter(depth, n.value); err != nil {
		return nil, err
	}

	// A node is logical iff its operator matches a configured alias.
	// Nothing else about its shape participates in the dispatch.
	if role, ok := c.res.Role(n.operator); ok {
		switch role {
		case RoleAnd, RoleOr:
			return c.buildSequence(n, t, depth, role)
		case RoleNot:
			return c.buildUnary(n, t, depth)
		}
	}
	return c.buildComparison(n)
}

// buildSequence compiles an AND/OR node. The payload must be a genuine
// sequence; empty and singleton sequences are legal (limits permitting).
// Children compile left to right and combine in input order.
func (c *Compiler) buildSequence(n rawNode, t *tracker, depth int, role LogicalRole) (Predicate, error) {
	children, ok := asSequence(n.value)
	if !ok {
		return nil, newInvalidNode("", n.operator,
			"%s requires a sequence value, got %T", role, n.value)
	}

	preds := make([]Predicate, 0, len(children))
	for _, child := range children {
		pred, err := c.step(child, t, depth)
		if err != nil {
			return nil, err
		}
		preds = append(preds, pred)
	}

	backend := c.res.Backend()
	if role == RoleAnd {
		return backend.And(preds...), nil
	}
	return backend.Or(preds...), nil
}

// buildUnary compiles a NOT node. The payload must be a single node; a
// sequence is rejected, never silently unwrapped.
func (c *Compiler) buildUnary(n rawNode, t *tracker, depth int) (Predicate, error) {
	if _, isSeq := asSequence(n.value); isSeq {
		return nil, newInvalidNode("", n.operator, "cannot apply %s to a sequence", RoleNot)
	}
	pred, err := c.step(n.value, t, depth)
	if err != nil {
		return nil, err
	}
	return c.res.Backend().Not(pred), nil
}

// buildComparison compiles a leaf node comparing one column to one
// scalar value. Column type comes from the resolver's tables, fixed at
// construction; an unknown column fails the compile rather than falling
// back to backend introspection.
func (c *Compiler) buildComparison(n rawNode) (Predicate, error) {
	if !n.hasColumn || n.column == "" {
		return nil, newInvalidNode("", n.operator, "comparison node is missing a column")
	}

	spec, ok := c.res.Column(n.column)
	if !ok {
		return nil, &CompileError{
			Code:     ErrCodeUnknownColumn,
			Message:  "column is not declared in the constraint table",
			Column:   n.column,
			Operator: n.operator,
		}
	}

	if _, isSeq := asSequence(n.value); isSeq {
		return nil, newInvalidNode(n.column, n.operator, "comparison value must be a scalar")
	}
	val, err := ValueFromAny(n.value)
	if err != nil {
		return nil, newInvalidNode(n.column, n.operator, "bad comparison value: %v", err)
	}

	// Nullability gates everything else: a null value on a non-nullable
	// column is rejected before any operator dispatch.
	if IsNullValue(val) {
		return c.buildNullTest(n, spec)
	}

	switch spec.Type {
	case ColumnNumeric:
		return c.buildNumeric(n, spec, val)
	case ColumnString:
		return c.buildString(n, spec, val)
	default:
		return nil, newInvalidNode(n.column, n.operator, "column type %s is not filterable", spec.Type)
	}
}

// buildNullTest handles a null comparison value. Only ==/!= make sense
// against null, and they compile to the backend's dedicated null test
// because equality against null is not a null test in SQL backends.
func (c *Compiler) buildNullTest(n rawNode, spec ColumnSpec) (Predicate, error) {
	if !spec.Nullable {
		return nil, &CompileError{
			Code:     ErrCodeNullViolation,
			Message:  "null value on non-nullable column",
			Column:   n.column,
			Operator: n.operator,
		}
	}
	switch n.operator {
	case "==":
		return c.res.Backend().IsNull(spec.Handle, false)
	case "!=":
		return c.res.Backend().IsNull(spec.Handle, true)
	default:
		return nil, &CompileError{
			Code:     ErrCodeUnknownOperator,
			Message:  "operator cannot test null; use == or !=",
			Column:   n.column,
			Operator: n.operator,
		}
	}
}

// buildNumeric compiles a numeric comparison.
func (c *Compiler) buildNumeric(n rawNode, spec ColumnSpec, val Value) (Predicate, error) {
	op, ok := parseCompareOp(n.operator)
	if !ok {
		return nil, &CompileError{
			Code:     ErrCodeUnknownOperator,
			Message:  "not a numeric operator",
			Column:   n.column,
			Operator: n.operator,
		}
	}
	switch val.(type) {
	case Int, Float:
	default:
		return nil, newInvalidNode(n.column, n.operator, "numeric column requires a numeric value, got %T", val)
	}
	return c.res.Backend().Compare(spec.Handle, op, val)
}

// buildString compiles a string match. The case field is required: it
// selects strict (case-sensitive) or ignore (case-insensitive) matching.
// The search value is wrapped in wildcards per the match mode and passed
// through verbatim otherwise.
func (c *Compiler) buildString(n rawNode, spec ColumnSpec, val Value) (Predicate, error) {
	op, ok := parseMatchOp(n.operator)
	if !ok {
		return nil, &CompileError{
			Code:     ErrCodeUnknownOperator,
			Message:  "not a string match operator",
			Column:   n.column,
			Operator: n.operator,
		}
	}

	if !n.hasCase {
		return nil, newInvalidNode(n.column, n.operator, "string comparison requires a case field")
	}
	mode, ok := parseCaseMode(n.caseMode)
	if !ok {
		return nil, newInvalidNode(n.column, n.operator, "case must be %q or %q, got %q",
			CaseStrict, CaseIgnore, n.caseMode)
	}

	s, ok := val.(String)
	if !ok {
		return nil, newInvalidNode(n.column, n.operator, "string column requires a string value, got %T", val)
	}

	return c.res.Backend().StringMatch(spec.Handle, mode, buildPattern(op, string(s)))
}
