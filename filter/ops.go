package filter

// LogicalRole identifies the role an operator alias resolves to.
type LogicalRole int

const (
	RoleAnd LogicalRole = iota + 1
	RoleOr
	RoleNot
)

// String returns the canonical name of the role.
func (r LogicalRole) String() string {
	switch r {
	case RoleAnd:
		return "and"
	case RoleOr:
		return "or"
	case RoleNot:
		return "not"
	default:
		return "unknown"
	}
}

// CompareOp is a closed enum over the numeric comparison operators.
// Operator strings are parsed exactly once, at classification time;
// everything downstream dispatches exhaustively on the enum.
type CompareOp int

const (
	OpLt CompareOp = iota + 1
	OpLe
	OpEq
	OpNe
	OpGe
	OpGt
)

// parseCompareOp resolves an operator string to its CompareOp.
func parseCompareOp(s string) (CompareOp, bool) {
	switch s {
	case "<":
		return OpLt, true
	case "<=":
		return OpLe, true
	case "==":
		return OpEq, true
	case "!=":
		return OpNe, true
	case ">=":
		return OpGe, true
	case ">":
		return OpGt, true
	default:
		return 0, false
	}
}

// String returns the wire form of the operator.
func (op CompareOp) String() string {
	switch op {
	case OpLt:
		return "<"
	case OpLe:
		return "<="
	case OpEq:
		return "=="
	case OpNe:
		return "!="
	case OpGe:
		return ">="
	case OpGt:
		return ">"
	default:
		return "?"
	}
}

// MatchOp is a closed enum over the string match modes. Each mode
// selects where wildcards wrap the search value.
type MatchOp int

const (
	MatchPrefix MatchOp = iota + 1
	MatchSuffix
	MatchAny
	MatchStrict
)

// parseMatchOp resolves an operator string to its MatchOp.
func parseMatchOp(s string) (MatchOp, bool) {
	switch s {
	case "match-prefix":
		return MatchPrefix, true
	case "match-suffix":
		return MatchSuffix, true
	case "match-any":
		return MatchAny, true
	case "match-strict":
		return MatchStrict, true
	default:
		return 0, false
	}
}

// String returns the wire form of the match mode.
func (op MatchOp) String() string {
	switch op {
	case MatchPrefix:
		return "match-prefix"
	case MatchSuffix:
		return "match-suffix"
	case MatchAny:
		return "match-any"
	case MatchStrict:
		return "match-strict"
	default:
		return "?"
	}
}

// CaseMode selects case-sensitive vs case-insensitive string matching.
type CaseMode int

const (
	CaseStrict CaseMode = iota + 1
	CaseIgnore
)

// parseCaseMode resolves a case field string to its CaseMode.
func parseCaseMode(s string) (CaseMode, bool) {
	switch s {
	case "strict":
		return CaseStrict, true
	case "ignore":
		return CaseIgnore, true
	default:
		return 0, false
	}
}

// String returns the wire form of the case mode.
func (m CaseMode) String() string {
	switch m {
	case CaseStrict:
		return "strict"
	case CaseIgnore:
		return "ignore"
	default:
		return "?"
	}
}

// Wildcard and escape conventions for string match patterns. The user
// value is passed through verbatim: a literal "%" inside it keeps its
// wildcard meaning. Escaping user text is the caller's decision, not
// the compiler's.
const (
	// Wildcard is the multi-character wildcard appended by match modes.
	Wildcard = "%"

	// Escape is the escape character backends must honor in patterns.
	Escape = "/"
)

// buildPattern wraps the verbatim search value in wildcards per the
// match mode.
func buildPattern(op MatchOp, value string) string {
	switch op {
	case MatchPrefix:
		return value + Wildcard
	case MatchSuffix:
		return Wildcard + value
	case MatchAny:
		return Wildcard + value + Wildcard
	case MatchStrict:
		return value
	default:
		return value
	}
}
