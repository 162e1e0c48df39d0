package schema_test

import (
	"encoding/json"
	"testing"

	"github.com/aretw0/lattice/pkg/domain"
	"github.com/aretw0/lattice/pkg/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTypes(t *testing.T) {
	m := domain.NewMapping()
	m.Set("A", 1)

	tests := []struct {
		typ   schema.Type
		ok    []any
		wrong []any
	}{
		{typ: schema.String(), ok: []any{"x"}, wrong: []any{1, nil}},
		{typ: schema.Int(), ok: []any{1, int64(2), float64(3), json.Number("4")}, wrong: []any{1.5, "1", json.Number("1.5")}},
		{typ: schema.Float(), ok: []any{1, 1.5, json.Number("2.5")}, wrong: []any{"1.5", true}},
		{typ: schema.Bool(), ok: []any{true}, wrong: []any{"true"}},
		{typ: schema.Record(), ok: []any{m, map[string]any{}}, wrong: []any{[]any{}, "x"}},
		{typ: schema.Slice(schema.Int()), ok: []any{[]any{1, 2}, []int{3}}, wrong: []any{[]any{"a"}, 1}},
		{typ: schema.Nullable(schema.Int()), ok: []any{nil, 2001}, wrong: []any{"2001"}},
		{typ: schema.Any(), ok: []any{nil, "x", m}},
	}

	for _, tt := range tests {
		t.Run(tt.typ.Name(), func(t *testing.T) {
			for _, v := range tt.ok {
				assert.NoError(t, tt.typ.Validate(v), "%#v", v)
			}
			for _, v := range tt.wrong {
				assert.Error(t, tt.typ.Validate(v), "%#v", v)
			}
		})
	}
}

func TestParseType(t *testing.T) {
	for _, name := range []string{"string", "int", "float", "bool", "record", "any", "[int]", "?int", "?[string]", "[?int]"} {
		typ, err := schema.ParseType(name)
		require.NoError(t, err, name)
		assert.Equal(t, name, typ.Name())
	}

	_, err := schema.ParseType("decimal")
	assert.Error(t, err)
	_, err = schema.ParseType("?")
	assert.Error(t, err)
}

func TestCustom(t *testing.T) {
	year := schema.Custom("year", func(v any) error {
		return schema.Int().Validate(v)
	})
	assert.Equal(t, "year", year.Name())
	assert.NoError(t, year.Validate(2001))
	assert.Error(t, year.Validate("2001"))
}
