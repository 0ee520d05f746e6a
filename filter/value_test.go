package filter

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValueFromAny(t *testing.T) {
	cases := []struct {
		name string
		in   any
		want Value
	}{
		{"nil", nil, Null{}},
		{"string", "hello", String("hello")},
		{"bool", true, Bool(true)},
		{"int", 42, Int(42)},
		{"int64", int64(-7), Int(-7)},
		{"float64", 1.5, Float(1.5)},
		{"json integer", json.Number("42"), Int(42)},
		{"json float", json.Number("1.5"), Float(1.5)},
		{"json exponent", json.Number("1e3"), Float(1000)},
		{"already a value", Int(3), Int(3)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ValueFromAny(tc.in)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestValueFromAny_Rejects(t *testing.T) {
	cases := []struct {
		name string
		in   any
	}{
		{"slice", []any{1, 2}},
		{"map", map[string]any{"a": 1}},
		{"struct", struct{}{}},
		{"out of range number", json.Number("99999999999999999999")},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ValueFromAny(tc.in)
			assert.Error(t, err)
		})
	}
}

func TestGoValue(t *testing.T) {
	assert.Nil(t, GoValue(Null{}))
	assert.Equal(t, "x", GoValue(String("x")))
	assert.Equal(t, int64(9), GoValue(Int(9)))
	assert.Equal(t, 2.5, GoValue(Float(2.5)))
	assert.Equal(t, true, GoValue(Bool(true)))
}

func TestIsNullValue(t *testing.T) {
	assert.True(t, IsNullValue(Null{}))
	assert.False(t, IsNullValue(String("")))
	assert.False(t, IsNullValue(Int(0)))
}
