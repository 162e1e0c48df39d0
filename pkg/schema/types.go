package schema

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/aretw0/lattice/pkg/domain"
)

// Type validates a single parameter value.
type Type interface {
	// Name returns the type as written in schemas (e.g. "int", "?string", "[int]").
	Name() string
	Validate(value any) error
}

type stringType struct{}

func (stringType) Name() string { return "string" }

func (stringType) Validate(value any) error {
	if _, ok := value.(string); !ok {
		return fmt.Errorf("expected string, got %T", value)
	}
	return nil
}

type intType struct{}

func (intType) Name() string { return "int" }

func (intType) Validate(value any) error {
	switch v := value.(type) {
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return nil
	case float64:
		// JSON decoding yields float64 for every number.
		if v == float64(int64(v)) {
			return nil
		}
		return fmt.Errorf("expected int, got float (not a whole number)")
	case json.Number:
		if _, err := v.Int64(); err != nil {
			return fmt.Errorf("expected int, got %q", v.String())
		}
		return nil
	default:
		return fmt.Errorf("expected int, got %T", value)
	}
}

type floatType struct{}

func (floatType) Name() string { return "float" }

func (floatType) Validate(value any) error {
	switch v := value.(type) {
	case float32, float64, int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return nil
	case json.Number:
		if _, err := v.Float64(); err != nil {
			return fmt.Errorf("expected float, got %q", v.String())
		}
		return nil
	default:
		return fmt.Errorf("expected float, got %T", value)
	}
}

type boolType struct{}

func (boolType) Name() string { return "bool" }

func (boolType) Validate(value any) error {
	if _, ok := value.(bool); !ok {
		return fmt.Errorf("expected bool, got %T", value)
	}
	return nil
}

type recordType struct{}

func (recordType) Name() string { return "record" }

func (recordType) Validate(value any) error {
	if _, _, isMapping := domain.Lookup(value, ""); !isMapping {
		return fmt.Errorf("expected record, got %T", value)
	}
	return nil
}

type anyType struct{}

func (anyType) Name() string { return "any" }

func (anyType) Validate(any) error { return nil }

type sliceType struct {
	elem Type
}

func (t sliceType) Name() string { return "[" + t.elem.Name() + "]" }

func (t sliceType) Validate(value any) error {
	items, ok := domain.AsSequence(value)
	if !ok {
		return fmt.Errorf("expected list, got %T", value)
	}
	for i, item := range items {
		if err := t.elem.Validate(item); err != nil {
			return fmt.Errorf("element %d: %w", i, err)
		}
	}
	return nil
}

type nullableType struct {
	inner Type
}

func (t nullableType) Name() string { return "?" + t.inner.Name() }

func (t nullableType) Validate(value any) error {
	if value == nil {
		return nil
	}
	return t.inner.Validate(value)
}

type customType struct {
	name     string
	validate func(any) error
}

func (t customType) Name() string { return t.name }

func (t customType) Validate(value any) error { return t.validate(value) }

// String accepts strings.
func String() Type { return stringType{} }

// Int accepts integers, whole floats and integral json.Number values.
func Int() Type { return intType{} }

// Float accepts any number.
func Float() Type { return floatType{} }

// Bool accepts booleans.
func Bool() Type { return boolType{} }

// Record accepts mappings, including ordered ones produced by aggregates.
func Record() Type { return recordType{} }

// Any accepts every value, null included.
func Any() Type { return anyType{} }

// Slice accepts lists whose elements all satisfy elem.
func Slice(elem Type) Type { return sliceType{elem: elem} }

// Nullable accepts null in addition to what inner accepts.
// Parameters fed by unset selections are null until the user picks something.
func Nullable(inner Type) Type { return nullableType{inner: inner} }

// Custom wraps a user-defined validation function.
func Custom(name string, validate func(any) error) Type {
	return customType{name: name, validate: validate}
}

// ParseType converts a type name to a Type.
// Supported: string, int, float, bool, record, any, [T] and ?T.
func ParseType(name string) (Type, error) {
	name = strings.TrimSpace(name)
	switch {
	case strings.HasPrefix(name, "?"):
		inner, err := ParseType(name[1:])
		if err != nil {
			return nil, err
		}
		return Nullable(inner), nil
	case len(name) > 2 && name[0] == '[' && name[len(name)-1] == ']':
		elem, err := ParseType(name[1 : len(name)-1])
		if err != nil {
			return nil, err
		}
		return Slice(elem), nil
	}

	switch name {
	case "string":
		return String(), nil
	case "int":
		return Int(), nil
	case "float":
		return Float(), nil
	case "bool":
		return Bool(), nil
	case "record":
		return Record(), nil
	case "any":
		return Any(), nil
	default:
		return nil, fmt.Errorf("unsupported type: %s", name)
	}
}

// ParseTypeMap converts field names mapped to type names into a Schema.
func ParseTypeMap(typeMap map[string]string) (Schema, error) {
	result := make(Schema, len(typeMap))
	for key, name := range typeMap {
		t, err := ParseType(name)
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", key, err)
		}
		result[key] = t
	}
	return result, nil
}
