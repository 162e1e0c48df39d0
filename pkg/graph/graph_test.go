package graph_test

import (
	"testing"

	"github.com/aretw0/lattice/pkg/domain"
	"github.com/aretw0/lattice/pkg/graph"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGraph_Add(t *testing.T) {
	g := graph.New()
	require.NoError(t, g.Add("a", graph.Constant{Value: 1}, nil, false))
	require.NoError(t, g.Add("b", graph.Constant{Value: 2}, []domain.Edge{graph.On("a"), graph.ResetOn("c")}, true))

	t.Run("Duplicate", func(t *testing.T) {
		err := g.Add("a", graph.Constant{}, nil, false)
		var dup *domain.DuplicateNodeError
		require.ErrorAs(t, err, &dup)
		assert.Equal(t, domain.NodeID("a"), dup.ID)
	})

	t.Run("Reverse Index", func(t *testing.T) {
		assert.Equal(t, []domain.Dependent{{DependentID: "b", Kind: domain.Propagating}}, g.Dependents("a"))
		// The reverse index is updated even for dependencies that are not registered yet.
		assert.Equal(t, []domain.Dependent{{DependentID: "b", Kind: domain.ResetOnly}}, g.Dependents("c"))
	})

	t.Run("Declaration Order", func(t *testing.T) {
		assert.Equal(t, []domain.NodeID{"a", "b"}, g.IDs())
		n, ok := g.Node("b")
		require.True(t, ok)
		assert.Equal(t, []domain.NodeID{"a", "c"}, n.DependencyIDs())
		assert.True(t, n.Writable)
	})

	t.Run("Rejects Empty", func(t *testing.T) {
		assert.Error(t, g.Add("", graph.Constant{}, nil, false))
		assert.Error(t, g.Add("z", nil, nil, false))
	})
}

func TestGraph_Merge_LastWriteWins(t *testing.T) {
	g := graph.New()
	require.NoError(t, g.Add("src", graph.Constant{Value: 1}, nil, false))
	require.NoError(t, g.Add("x", graph.Constant{Value: "old"}, []domain.Edge{graph.On("src")}, false))

	other := graph.New()
	require.NoError(t, other.Add("x", graph.Constant{Value: "new"}, []domain.Edge{graph.ResetOn("src")}, true))
	require.NoError(t, other.Add("y", graph.Constant{Value: 3}, []domain.Edge{graph.On("x")}, false))

	g.Merge(other)

	assert.Equal(t, []domain.NodeID{"src", "x", "y"}, g.IDs(), "replaced nodes keep their position")
	x, _ := g.Node("x")
	assert.Equal(t, graph.Constant{Value: "new"}, x.Computator)
	assert.True(t, x.Writable)
	assert.Equal(t, []domain.Dependent{{DependentID: "x", Kind: domain.ResetOnly}}, g.Dependents("src"),
		"the replaced node's old edges must leave the reverse index")
	assert.Equal(t, []domain.Dependent{{DependentID: "y", Kind: domain.Propagating}}, g.Dependents("x"))

	// Mutating the merged graph must not leak back into the source graph.
	require.NoError(t, g.SetMany(map[domain.NodeID]domain.Value{"x": "edited"}))
	_, set := other.Current("x")
	assert.False(t, set)
}

func TestGraph_SetMany(t *testing.T) {
	g := graph.New()
	require.NoError(t, g.Add("w", graph.Constant{}, nil, true))
	require.NoError(t, g.Add("r", graph.Constant{}, nil, false))

	t.Run("Unknown", func(t *testing.T) {
		err := g.SetMany(map[domain.NodeID]domain.Value{"missing": 1})
		assert.ErrorIs(t, err, domain.ErrUnknownNode)
	})

	t.Run("Unwritable Is Atomic", func(t *testing.T) {
		err := g.SetMany(map[domain.NodeID]domain.Value{"w": 1, "r": 2})
		var unw *domain.UnwritableNodeError
		require.ErrorAs(t, err, &unw)
		assert.Equal(t, domain.NodeID("r"), unw.ID)

		_, set := g.Current("w")
		assert.False(t, set, "no value may be written when any entry is rejected")
	})

	t.Run("Writes Raw Value", func(t *testing.T) {
		require.NoError(t, g.SetMany(map[domain.NodeID]domain.Value{"w": 42}))
		v, set := g.Current("w")
		assert.True(t, set)
		assert.Equal(t, 42, v)
	})
}

func TestGraph_Deref(t *testing.T) {
	g := graph.New()
	require.NoError(t, g.Add("filter", graph.Constant{}, nil, false))
	require.NoError(t, g.Add("list", graph.Constant{}, nil, false))
	require.NoError(t, g.Add("pending", graph.Constant{}, nil, false))

	m := domain.NewMapping()
	m.Set("A", 1)
	m.Set("B", nil)
	require.NoError(t, g.Commit(map[domain.NodeID]domain.Value{"filter": m, "list": []any{1}}))

	v, err := g.Deref("filter:A")
	require.NoError(t, err)
	assert.Equal(t, 1, v)

	v, err = g.Deref("filter:B")
	require.NoError(t, err)
	assert.Nil(t, v, "a present key holding null is not an error")

	v, err = g.Deref("list")
	require.NoError(t, err)
	assert.Equal(t, []any{1}, v)

	for _, ref := range []string{"missing", "pending", "filter:C", "list:A", "filter:A.B"} {
		_, err := g.Deref(ref)
		assert.ErrorIs(t, err, domain.ErrDeref, ref)
	}
}

func TestGraph_Restore(t *testing.T) {
	g := graph.New()
	require.NoError(t, g.Add("r", graph.Constant{}, nil, false))

	g.Restore(map[domain.NodeID]domain.Value{"r": "kept", "ghost": 1})

	v, set := g.Current("r")
	assert.True(t, set)
	assert.Equal(t, "kept", v)
	assert.False(t, g.Has("ghost"))
	assert.Equal(t, map[domain.NodeID]domain.Value{"r": "kept"}, g.Values())
}

func TestGraph_Validate(t *testing.T) {
	t.Run("Dangling", func(t *testing.T) {
		g := graph.New()
		require.NoError(t, g.Add("a", graph.Constant{}, []domain.Edge{graph.On("ghost")}, false))
		assert.ErrorIs(t, g.Validate(), domain.ErrDeref)
	})

	t.Run("Propagating Cycle", func(t *testing.T) {
		g := graph.New()
		require.NoError(t, g.Add("a", graph.Constant{}, []domain.Edge{graph.On("b")}, false))
		require.NoError(t, g.Add("b", graph.Constant{}, []domain.Edge{graph.On("a")}, false))

		err := g.Validate()
		var cycle *domain.CycleError
		require.ErrorAs(t, err, &cycle)
		assert.Equal(t, []domain.NodeID{"a", "b", "a"}, cycle.Path)
	})

	t.Run("ResetOnly Loop Is Allowed", func(t *testing.T) {
		g := graph.New()
		require.NoError(t, g.Add("a", graph.Constant{}, []domain.Edge{graph.On("b")}, false))
		require.NoError(t, g.Add("b", graph.Constant{}, []domain.Edge{graph.ResetOn("a")}, false))
		assert.NoError(t, g.Validate())
	})
}

func TestPostOrder(t *testing.T) {
	deps := map[domain.NodeID][]domain.NodeID{
		"top":   {"left", "right"},
		"left":  {"base"},
		"right": {"base"},
	}
	next := func(id domain.NodeID) []domain.NodeID { return deps[id] }

	order, err := graph.PostOrder([]domain.NodeID{"top"}, next)
	require.NoError(t, err)
	assert.Equal(t, []domain.NodeID{"base", "left", "right", "top"}, order)

	assert.True(t, graph.Reaches("top", "base", next))
	assert.False(t, graph.Reaches("base", "top", next))
}
