package lattice_test

import (
	"context"
	"errors"
	"testing"

	"github.com/aretw0/lattice"
	"github.com/aretw0/lattice/pkg/domain"
	"github.com/aretw0/lattice/pkg/dsl"
	"github.com/aretw0/lattice/pkg/graph"
	"github.com/aretw0/lattice/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func yearsResolver() ports.RemoteResolver {
	return ports.ResolverFunc(func(_ context.Context, call domain.RemoteCall) (domain.Value, error) {
		switch call.Route {
		case "reviewers":
			return []any{map[string]any{"id": 1}, map[string]any{"id": 2}}, nil
		case "years":
			if call.Params["reviewer"] == 1 {
				return []any{2001, 2002}, nil
			}
			return []any{2001, 2002, 2003}, nil
		}
		return map[string]any{"params": call.Params["filter"]}, nil
	})
}

func filterGraph(t *testing.T) *graph.Graph {
	t.Helper()
	b := dsl.New()
	b.Add("A.data").Query("reviewers")
	b.Add("A.value").Clamp("A.data", nil)
	b.Add("B.data").Query("years").Param("reviewer", "A.value")
	b.Add("B.value").Clamp("B.data", nil)
	b.Add("combinedFilter").Aggregate().Field("A", "A.value").Field("B", "B.value").Passive()
	b.Add("statistics").Fetch("statistics").Param("filter", "combinedFilter")

	g, err := b.Build()
	require.NoError(t, err)
	return g
}

func TestEngine_ComputeAndApply(t *testing.T) {
	ctx := context.Background()
	g := filterGraph(t)
	eng := lattice.New(lattice.WithResolver(yearsResolver()), lattice.WithName("filters"))

	snaps, err := eng.Compute(ctx, g)
	require.NoError(t, err)
	assert.Len(t, snaps, 6)
	assert.Equal(t, []any{2001, 2002, 2003}, snaps["B.data"].Value)

	snaps, visited, err := eng.Apply(ctx, g, map[domain.NodeID]domain.Value{"A.value": 1, "B.value": 2003})
	require.NoError(t, err)
	assert.Equal(t, []domain.NodeID{"A.value", "B.data", "B.value"}, visited.Sorted())
	assert.Nil(t, snaps["B.value"].Value, "2003 is outside reviewer 1's years")

	snaps, visited, err = eng.Apply(ctx, g, nil, "combinedFilter")
	require.NoError(t, err)
	assert.Equal(t, []domain.NodeID{"combinedFilter", "statistics"}, visited.Sorted())
	m := snaps["combinedFilter"].Value.(*domain.Mapping)
	a, _ := m.Get("A")
	assert.Equal(t, 1, a)
}

func TestEngine_ApplyRejectsReadOnly(t *testing.T) {
	g := filterGraph(t)
	eng := lattice.New(lattice.WithResolver(yearsResolver()))
	_, err := eng.Compute(context.Background(), g)
	require.NoError(t, err)

	_, _, err = eng.Apply(context.Background(), g, map[domain.NodeID]domain.Value{"B.data": []any{}})
	assert.ErrorIs(t, err, domain.ErrUnwritableNode)
}

func TestEngine_ApplyKeepsEditsOnFailure(t *testing.T) {
	ctx := context.Background()
	down := false
	eng := lattice.New(lattice.WithResolver(ports.ResolverFunc(func(_ context.Context, call domain.RemoteCall) (domain.Value, error) {
		if down {
			return nil, &domain.RemoteError{Route: call.Route, Err: errors.New("unavailable")}
		}
		return call.Params["year"], nil
	})))

	b := dsl.New()
	b.Add("year").Value(2001)
	b.Add("stats").Fetch("stats").Param("year", "year")
	g, err := b.Build()
	require.NoError(t, err)
	_, err = eng.Compute(ctx, g)
	require.NoError(t, err)

	down = true
	_, _, err = eng.Apply(ctx, g, map[domain.NodeID]domain.Value{"year": 2002})
	require.ErrorIs(t, err, domain.ErrRemote)

	year, _ := g.Current("year")
	stats, _ := g.Current("stats")
	assert.Equal(t, 2002, year)
	assert.Equal(t, 2001, stats)
}

func TestEngine_HooksAndDefaults(t *testing.T) {
	var passes int
	eng := lattice.New(lattice.WithLifecycleHooks(domain.LifecycleHooks{
		OnPassEnd: func(context.Context, *domain.PassEvent) { passes++ },
	}))
	require.NotNil(t, eng.Logger())

	_, err := eng.Compute(context.Background(), filterGraph(t))
	assert.ErrorIs(t, err, domain.ErrNoResolver)
	assert.Equal(t, 1, passes)
}
