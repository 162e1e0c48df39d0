package compiler

import (
	"testing"

	"github.com/aretw0/lattice/internal/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const reviewerYAML = `
name: reviewer-filter
nodes:
  - id: A.data
    kind: query
    route: reviewers
  - id: A.value
    kind: clamp
    source: A.data
  - id: combinedFilter
    kind: aggregate
    fields:
      - {key: A, ref: A.value}
    dependencies:
      - A.data
      - {id: A.value, reset_only: true}
`

func TestParser_YAML(t *testing.T) {
	m, err := NewParser().Parse([]byte(reviewerYAML), FormatYAML)
	require.NoError(t, err)

	assert.Equal(t, "reviewer-filter", m.Name)
	require.Len(t, m.Nodes, 3)
	assert.Equal(t, "reviewers", m.Nodes[0].Route)
	assert.Equal(t, []dto.DependencySpec{
		{ID: "A.data"},
		{ID: "A.value", ResetOnly: true},
	}, m.Nodes[2].Dependencies)
	assert.Equal(t, []dto.FieldSpec{{Key: "A", Ref: "A.value"}}, m.Nodes[2].Fields)
}

func TestParser_JSON(t *testing.T) {
	data := `{"name":"n","nodes":[{"id":"x","kind":"constant","value":{"a":[1,2]}}]}`
	m, err := NewParser().Parse([]byte(data), FormatJSON)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"a": []any{float64(1), float64(2)}}, m.Nodes[0].Value)
}

func TestParser_Errors(t *testing.T) {
	tests := map[string]string{
		"missing id":   "nodes:\n  - kind: constant\n",
		"missing kind": "nodes:\n  - id: x\n",
		"duplicate":    "nodes:\n  - {id: x, kind: constant}\n  - {id: x, kind: constant}\n",
		"unknown key":  "nodes:\n  - {id: x, kind: constant, colour: red}\n",
		"bad yaml":     "nodes: [",
	}
	for name, doc := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := NewParser().Parse([]byte(doc), FormatYAML)
			assert.Error(t, err)
		})
	}
}

func TestFormatFromPath(t *testing.T) {
	assert.Equal(t, FormatJSON, FormatFromPath("graph.JSON"))
	assert.Equal(t, FormatYAML, FormatFromPath("graph.yml"))
	assert.Equal(t, FormatYAML, FormatFromPath("graph"))
}
