package domain_test

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/aretw0/lattice/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRef(t *testing.T) {
	tests := []struct {
		name    string
		ref     string
		want    domain.Ref
		wantErr bool
	}{
		{name: "bare id", ref: "reviewer.value", want: domain.Ref{Node: "reviewer.value"}},
		{name: "hierarchical id", ref: "widget/field", want: domain.Ref{Node: "widget/field"}},
		{name: "keyed", ref: "combinedFilter:A", want: domain.Ref{Node: "combinedFilter", Key: "A"}},
		{name: "splits on last colon", ref: "ns:node:key", want: domain.Ref{Node: "ns:node", Key: "key"}},
		{name: "empty", ref: "", wantErr: true},
		{name: "empty key", ref: "node:", wantErr: true},
		{name: "missing node", ref: ":key", wantErr: true},
		{name: "dotted key", ref: "node:a.b", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := domain.ParseRef(tt.ref)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, domain.ErrDeref)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.ref, got.String())
		})
	}
}

func TestRefNode(t *testing.T) {
	assert.Equal(t, domain.NodeID("a.b"), domain.RefNode("a.b"))
	assert.Equal(t, domain.NodeID("filter"), domain.RefNode("filter:year"))
	assert.Equal(t, domain.NodeID("filter"), domain.RefNode("filter:a.b"))
}

func TestSameID(t *testing.T) {
	assert.True(t, domain.SameID(1, float64(1)))
	assert.True(t, domain.SameID(int64(2001), json.Number("2001")))
	assert.True(t, domain.SameID("x", "x"))
	assert.False(t, domain.SameID(1, "1"))
	assert.False(t, domain.SameID(2001, 2002))
	assert.False(t, domain.SameID(nil, 0))
}

func TestIdentifier(t *testing.T) {
	record := map[string]any{"id": 7, "name": "ana"}
	assert.Equal(t, 7, domain.Identifier(record, "id"))
	assert.Equal(t, "ana", domain.Identifier(record, "name"))
	assert.Nil(t, domain.Identifier(record, "missing"))
	assert.Equal(t, 2001, domain.Identifier(2001, "id"))
}

func TestLookup(t *testing.T) {
	m := domain.NewMapping()
	m.Set("A", 1)

	v, found, isMapping := domain.Lookup(m, "A")
	assert.True(t, isMapping)
	assert.True(t, found)
	assert.Equal(t, 1, v)

	_, found, isMapping = domain.Lookup(map[string]any{"B": nil}, "A")
	assert.True(t, isMapping)
	assert.False(t, found)

	_, _, isMapping = domain.Lookup([]any{1}, "A")
	assert.False(t, isMapping)
}

func TestAsSequence(t *testing.T) {
	seq, ok := domain.AsSequence([]any{1, 2})
	require.True(t, ok)
	assert.Len(t, seq, 2)

	seq, ok = domain.AsSequence([]int{2001, 2002})
	require.True(t, ok)
	assert.Equal(t, []domain.Value{2001, 2002}, seq)

	_, ok = domain.AsSequence(nil)
	assert.False(t, ok)
	_, ok = domain.AsSequence("abc")
	assert.False(t, ok)
}

func TestMappingPreservesOrder(t *testing.T) {
	m := domain.NewMapping()
	m.Set("z", 1)
	m.Set("a", nil)

	data, err := json.Marshal(m)
	require.NoError(t, err)
	assert.JSONEq(t, `{"z":1,"a":null}`, string(data))
	assert.Equal(t, `{"z":1,"a":null}`, string(data))
}

func TestIDSet(t *testing.T) {
	s := domain.ParseIDs("b, a,,c ")
	assert.Equal(t, []domain.NodeID{"a", "b", "c"}, s.Sorted())
	assert.False(t, s.Add("a"))
	assert.True(t, s.Add("d"))

	c := s.Clone()
	c.Add("e")
	assert.False(t, s.Has("e"))
}

func TestErrorClassification(t *testing.T) {
	assert.True(t, domain.IsConstructionError(&domain.CycleError{Path: []domain.NodeID{"a", "b", "a"}}))
	assert.True(t, domain.IsConstructionError(&domain.DerefError{Ref: "x", Reason: "missing"}))

	remote := &domain.RemoteError{Route: "stats", Err: errors.New("boom")}
	assert.False(t, domain.IsConstructionError(remote))
	assert.ErrorIs(t, remote, domain.ErrRemote)
	assert.EqualError(t, &domain.CycleError{Path: []domain.NodeID{"a", "b", "a"}}, "dependency cycle detected: a -> b -> a")
}

func TestEdgeKindText(t *testing.T) {
	data, err := json.Marshal(domain.Edge{Target: "a", Kind: domain.ResetOnly})
	require.NoError(t, err)
	assert.JSONEq(t, `{"target":"a","kind":"reset_only"}`, string(data))

	var e domain.Edge
	require.NoError(t, json.Unmarshal(data, &e))
	assert.Equal(t, domain.ResetOnly, e.Kind)
}
