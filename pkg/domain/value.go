package domain

import (
	"encoding/json"
	"reflect"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Value is an opaque JSON-shaped value: scalar, list, mapping or *Mapping.
type Value = any

// Mapping is a mapping that preserves insertion order when encoded.
type Mapping = orderedmap.OrderedMap[string, Value]

// NewMapping creates an empty ordered mapping.
func NewMapping() *Mapping {
	return orderedmap.New[string, Value]()
}

// Lookup indexes a mapping value by key.
// isMapping is false when v is not a mapping at all.
func Lookup(v Value, key string) (value Value, found bool, isMapping bool) {
	switch m := v.(type) {
	case *Mapping:
		if m == nil {
			return nil, false, true
		}
		value, found = m.Get(key)
		return value, found, true
	case map[string]any:
		value, found = m[key]
		return value, found, true
	case map[string]string:
		s, ok := m[key]
		return s, ok, true
	default:
		return nil, false, false
	}
}

// AsSequence returns v as a list of values, or false if v is not a list.
func AsSequence(v Value) ([]Value, bool) {
	switch s := v.(type) {
	case []any:
		return s, true
	case nil:
		return nil, false
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	out := make([]Value, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, true
}

// Identifier returns the identity of a domain item: the idKey field of a record,
// or the value itself for scalars.
func Identifier(v Value, idKey string) Value {
	if id, found, isMapping := Lookup(v, idKey); isMapping {
		if !found {
			return nil
		}
		return id
	}
	return v
}

// SameID compares two identifiers, treating all numeric representations as equal
// when they hold the same number (JSON decoding yields float64 or json.Number).
func SameID(a, b Value) bool {
	if fa, ok := toFloat(a); ok {
		fb, ok := toFloat(b)
		return ok && fa == fb
	}
	return reflect.DeepEqual(a, b)
}

// Equal reports whether a and b hold the same JSON-shaped value. Numbers compare by
// value whatever their Go type, and a *Mapping equals a plain map with the same
// entries, so values read back from a JSON store match freshly computed ones.
func Equal(a, b Value) bool {
	return reflect.DeepEqual(normalize(a), normalize(b))
}

func normalize(v Value) Value {
	if f, ok := toFloat(v); ok {
		return f
	}
	switch t := v.(type) {
	case nil, string, bool:
		return v
	case *Mapping:
		if t == nil {
			return nil
		}
		out := make(map[string]any, t.Len())
		for p := t.Oldest(); p != nil; p = p.Next() {
			out[p.Key] = normalize(p.Value)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, e := range t {
			out[k] = normalize(e)
		}
		return out
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		if rv.Kind() == reflect.Slice && rv.IsNil() {
			return nil
		}
		out := make([]any, rv.Len())
		for i := range out {
			out[i] = normalize(rv.Index(i).Interface())
		}
		return out
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return v
		}
		out := make(map[string]any, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			out[iter.Key().String()] = normalize(iter.Value().Interface())
		}
		return out
	}
	return v
}

// Clone returns a deep copy of v. Lists and mappings, ordered or not, are copied
// recursively; every other value is returned as is.
func Clone(v Value) Value {
	switch t := v.(type) {
	case []any:
		if t == nil {
			return t
		}
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = Clone(e)
		}
		return out
	case map[string]any:
		if t == nil {
			return t
		}
		out := make(map[string]any, len(t))
		for k, e := range t {
			out[k] = Clone(e)
		}
		return out
	case *Mapping:
		if t == nil {
			return t
		}
		out := NewMapping()
		for p := t.Oldest(); p != nil; p = p.Next() {
			out.Set(p.Key, Clone(p.Value))
		}
		return out
	default:
		return v
	}
}

func toFloat(v Value) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}
