package filter

// rawNode is the minimally-decoded shape of one filter-tree node.
// Decoding stops here: the value payload stays generic because its
// interpretation (child list, child node, scalar) depends on how the
// operator classifies under the resolver's alias table.
type rawNode struct {
	operator string
	column   string
	value    any
	caseMode string

	hasColumn bool
	hasValue  bool
	hasCase   bool
}

// decodeNode validates the outer shape of a node: it must be a string-keyed
// map with a non-empty "operator" string and a "value" key. Unknown keys
// are tolerated so callers can carry annotations through the tree.
func decodeNode(v any) (rawNode, error) {
	m, ok := v.(map[string]any)
	if !ok {
		return rawNode{}, newInvalidNode("", "", "node must be an object, got %T", v)
	}

	var n rawNode

	opVal, ok := m["operator"]
	if !ok {
		return rawNode{}, newInvalidNode("", "", "node is missing an operator")
	}
	op, ok := opVal.(string)
	if !ok || op == "" {
		return rawNode{}, newInvalidNode("", "", "operator must be a non-empty string")
	}
	n.operator = op

	if colVal, ok := m["column"]; ok {
		col, ok := colVal.(string)
		if !ok {
			return rawNode{}, newInvalidNode("", op, "column must be a string")
		}
		n.column = col
		n.hasColumn = true
	}

	if val, ok := m["value"]; ok {
		n.value = val
		n.hasValue = true
	} else {
		return rawNode{}, newInvalidNode(n.column, op, "node is missing a value")
	}

	if caseVal, ok := m["case"]; ok {
		c, ok := caseVal.(string)
		if !ok {
			return rawNode{}, newInvalidNode(n.column, op, "case must be a string")
		}
		n.caseMode = c
		n.hasCase = true
	}

	return n, nil
}

// asSequence reports whether a value payload is a genuine ordered
// sequence of nodes. Strings and scalars are not sequences; neither are
// maps. YAML and JSON decoders both produce []any for arrays.
func asSequence(v any) ([]any, bool) {
	seq, ok := v.([]any)
	return seq, ok
}
