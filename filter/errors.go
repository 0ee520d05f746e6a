package filter

import (
	"errors"
	"fmt"
)

// CompileErrorCode categorizes per-query compile failures.
type CompileErrorCode string

const (
	// ErrCodeMaxDepth indicates the tree nests deeper than MaxDepth
	// (or the hard recursion ceiling).
	ErrCodeMaxDepth CompileErrorCode = "MAX_DEPTH"

	// ErrCodeMaxBreadth indicates a logical node has more children than MaxBreadth.
	ErrCodeMaxBreadth CompileErrorCode = "MAX_BREADTH"

	// ErrCodeMaxElements indicates the tree has more nodes than MaxElements.
	ErrCodeMaxElements CompileErrorCode = "MAX_ELEMENTS"

	// ErrCodeUnknownOperator indicates an operator string not recognized
	// for the resolved column type.
	ErrCodeUnknownOperator CompileErrorCode = "UNKNOWN_OPERATOR"

	// ErrCodeUnknownColumn indicates a column name absent from the
	// resolver's constraint table.
	ErrCodeUnknownColumn CompileErrorCode = "UNKNOWN_COLUMN"

	// ErrCodeNullViolation indicates a null comparison value on a column
	// not marked nullable.
	ErrCodeNullViolation CompileErrorCode = "NULL_VIOLATION"

	// ErrCodeInvalidNode indicates a malformed node shape relative to its
	// classification (sequence under NOT, scalar under AND, missing case, ...).
	ErrCodeInvalidNode CompileErrorCode = "INVALID_NODE"
)

// CompileError is the rejection of one compile call over untrusted input.
//
// Compile errors abort the call immediately: no partial predicate is
// returned and nothing is retried. They are distinct from ConstraintError,
// which is raised once at resolver construction for configuration defects.
type CompileError struct {
	// Code identifies the error category.
	Code CompileErrorCode

	// Message is a human-readable description.
	Message string

	// Column names the column under comparison, when known.
	Column string

	// Operator is the operator string of the offending node, when known.
	Operator string

	// Limit is the violated structural limit for MAX_* codes.
	Limit int
}

// Error implements the error interface.
func (e *CompileError) Error() string {
	switch {
	case e.Column != "" && e.Operator != "":
		return fmt.Sprintf("%s: %s (column=%s, operator=%s)", e.Code, e.Message, e.Column, e.Operator)
	case e.Column != "":
		return fmt.Sprintf("%s: %s (column=%s)", e.Code, e.Message, e.Column)
	case e.Operator != "":
		return fmt.Sprintf("%s: %s (operator=%s)", e.Code, e.Message, e.Operator)
	default:
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
}

func newInvalidNode(column, operator, format string, args ...any) *CompileError {
	return &CompileError{
		Code:     ErrCodeInvalidNode,
		Message:  fmt.Sprintf(format, args...),
		Column:   column,
		Operator: operator,
	}
}

func newLimitError(code CompileErrorCode, limit int, format string, args ...any) *CompileError {
	return &CompileError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Limit:   limit,
	}
}

// compileErrorCode extracts the code from a wrapped CompileError, or "".
func compileErrorCode(err error) CompileErrorCode {
	var ce *CompileError
	if errors.As(err, &ce) {
		return ce.Code
	}
	return ""
}

// IsDepthError reports whether err is a depth-limit violation.
func IsDepthError(err error) bool { return compileErrorCode(err) == ErrCodeMaxDepth }

// IsBreadthError reports whether err is a breadth-limit violation.
func IsBreadthError(err error) bool { return compileErrorCode(err) == ErrCodeMaxBreadth }

// IsElementsError reports whether err is an element-count violation.
func IsElementsError(err error) bool { return compileErrorCode(err) == ErrCodeMaxElements }

// IsUnknownOperatorError reports whether err is an unrecognized-operator rejection.
func IsUnknownOperatorError(err error) bool { return compileErrorCode(err) == ErrCodeUnknownOperator }

// IsUnknownColumnError reports whether err is an unresolvable-column rejection.
func IsUnknownColumnError(err error) bool { return compileErrorCode(err) == ErrCodeUnknownColumn }

// IsNullViolationError reports whether err is a nullability rejection.
func IsNullViolationError(err error) bool { return compileErrorCode(err) == ErrCodeNullViolation }

// IsInvalidNodeError reports whether err is a node-shape rejection.
func IsInvalidNodeError(err error) bool { return compileErrorCode(err) == ErrCodeInvalidNode }

// ConstraintErrorCode categorizes resolver configuration defects.
type ConstraintErrorCode string

const (
	// ErrCodeMissingBackend indicates the schema backend handle is nil.
	ErrCodeMissingBackend ConstraintErrorCode = "MISSING_BACKEND"

	// ErrCodeMissingAlias indicates a logical role with no configured alias.
	ErrCodeMissingAlias ConstraintErrorCode = "MISSING_ALIAS"

	// ErrCodeAliasOverlap indicates the same literal configured for two roles.
	ErrCodeAliasOverlap ConstraintErrorCode = "ALIAS_OVERLAP"

	// ErrCodeColumnConflict indicates a column in both the string and
	// numeric constraint sets.
	ErrCodeColumnConflict ConstraintErrorCode = "COLUMN_CONFLICT"

	// ErrCodeColumnUnresolved indicates a configured column the backend
	// schema cannot resolve.
	ErrCodeColumnUnresolved ConstraintErrorCode = "COLUMN_UNRESOLVED"

	// ErrCodeColumnTypeMismatch indicates backend introspection contradicts
	// the declared column type.
	ErrCodeColumnTypeMismatch ConstraintErrorCode = "COLUMN_TYPE_MISMATCH"
)

// ConstraintError is an illegal resolver configuration, raised only at
// construction. Callers should treat it as a programming or deployment
// defect, not as input rejection.
type ConstraintError struct {
	Code    ConstraintErrorCode
	Message string

	// Column names the offending column for column-related codes.
	Column string
}

// Error implements the error interface.
func (e *ConstraintError) Error() string {
	if e.Column != "" {
		return fmt.Sprintf("%s: %s (column=%s)", e.Code, e.Message, e.Column)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func newConstraintError(code ConstraintErrorCode, column, format string, args ...any) *ConstraintError {
	return &ConstraintError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Column:  column,
	}
}

// IsConstraintError reports whether err is a configuration defect.
// Uses errors.As to handle wrapped errors.
func IsConstraintError(err error) bool {
	var ce *ConstraintError
	return errors.As(err, &ce)
}
