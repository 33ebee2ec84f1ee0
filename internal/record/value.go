package record

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Value is the decoded value of a single record: a string-keyed mapping of
// scalars, nested mappings and the occasional list, exactly as the store
// reader produced it.
//
// The getters never fail. Each takes (or implies) a default that is returned
// when the key is missing, nil, or holds something of the wrong shape.
type Value map[string]any

// Get returns the raw value stored at key, or nil.
func (v Value) Get(key string) any {
	if v == nil {
		return nil
	}
	return v[key]
}

// Has reports whether key is present with a non-nil value.
func (v Value) Has(key string) bool {
	return v.Get(key) != nil
}

// GetString returns the value at key rendered as a string, or def when the
// key is missing or nil. Non-string scalars are formatted, so a numeric id
// still yields a usable key.
func (v Value) GetString(key, def string) string {
	raw := v.Get(key)
	if raw == nil {
		return def
	}
	return toString(raw)
}

// GetBool returns the boolean at key. Strings are compared case-insensitively
// against "true"; numbers are true when non-zero. Anything else yields def.
func (v Value) GetBool(key string, def bool) bool {
	switch b := v.Get(key).(type) {
	case nil:
		return def
	case bool:
		return b
	case string:
		return strings.EqualFold(strings.TrimSpace(b), "true")
	default:
		if f, ok := ToFloat(b); ok {
			return f != 0
		}
		return def
	}
}

// GetFloat returns the numeric value at key, parsing numeric strings, or def
// when the value is missing or not a number.
func (v Value) GetFloat(key string, def float64) float64 {
	if f, ok := ToFloat(v.Get(key)); ok {
		return f
	}
	return def
}

// GetNested returns the mapping stored at key. A missing or non-mapping value
// yields an empty (non-nil) Value so calls can be chained.
func (v Value) GetNested(key string) Value {
	if nested, ok := AsValue(v.Get(key)); ok {
		return nested
	}
	return Value{}
}

// AsValue converts raw into a Value when it is a string-keyed mapping.
func AsValue(raw any) (Value, bool) {
	switch m := raw.(type) {
	case Value:
		return m, m != nil
	case map[string]any:
		return Value(m), m != nil
	default:
		return nil, false
	}
}

// ToFloat converts a number or numeric string into a float64. NaN and
// infinities are rejected.
func ToFloat(raw any) (float64, bool) {
	var f float64
	switch n := raw.(type) {
	case float64:
		f = n
	case float32:
		f = float64(n)
	case int:
		f = float64(n)
	case int32:
		f = float64(n)
	case int64:
		f = float64(n)
	case uint:
		f = float64(n)
	case uint32:
		f = float64(n)
	case uint64:
		f = float64(n)
	case json.Number:
		parsed, err := n.Float64()
		if err != nil {
			return 0, false
		}
		f = parsed
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

func toString(raw any) string {
	switch s := raw.(type) {
	case string:
		return s
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(s)
	case json.Number:
		return s.String()
	default:
		return fmt.Sprint(raw)
	}
}
