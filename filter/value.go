package filter

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Value is a sealed interface over the scalar types a comparison node
// may carry. Only Null, String, Int, Float and Bool implement it.
//
// Sequences and objects are deliberately excluded: a comparison value
// must be a scalar, and logical-node child lists are handled by the
// compiler before values are ever decoded.
type Value interface {
	filterValue() // Sealed - only these types implement it
}

// Null represents a JSON null comparison value.
// Using an explicit type keeps nil out of the Value union.
type Null struct{}

func (Null) filterValue() {}

// String represents a string comparison value.
type String string

func (String) filterValue() {}

// Int represents an integer comparison value. Always int64.
type Int int64

func (Int) filterValue() {}

// Float represents a floating-point comparison value.
type Float float64

func (Float) filterValue() {}

// Bool represents a boolean comparison value.
type Bool bool

func (Bool) filterValue() {}

// ValueFromAny converts a generic decoded JSON scalar into a Value.
// Integral json.Number values become Int; fractional ones become Float.
// Sequences and objects are rejected - they are never valid comparison
// payloads.
func ValueFromAny(v any) (Value, error) {
	switch val := v.(type) {
	case nil:
		return Null{}, nil
	case Value:
		return val, nil
	case string:
		return String(val), nil
	case bool:
		return Bool(val), nil
	case int:
		return Int(val), nil
	case int32:
		return Int(val), nil
	case int64:
		return Int(val), nil
	case float32:
		return Float(val), nil
	case float64:
		return Float(val), nil
	case json.Number:
		s := string(val)
		if strings.ContainsAny(s, ".eE") {
			f, err := val.Float64()
			if err != nil {
				return nil, fmt.Errorf("number out of range: %s", s)
			}
			return Float(f), nil
		}
		n, err := val.Int64()
		if err != nil {
			return nil, fmt.Errorf("number out of int64 range: %s", s)
		}
		return Int(n), nil
	default:
		return nil, fmt.Errorf("unsupported value type: %T", v)
	}
}

// GoValue returns the native Go representation of a Value.
// Null becomes nil. Useful for backends that hand values to drivers.
func GoValue(v Value) any {
	switch val := v.(type) {
	case Null:
		return nil
	case String:
		return string(val)
	case Int:
		return int64(val)
	case Float:
		return float64(val)
	case Bool:
		return bool(val)
	default:
		return nil
	}
}

// IsNullValue reports whether v is the Null value.
func IsNullValue(v Value) bool {
	_, ok := v.(Null)
	return ok
}
