package registry_test

import (
	"context"
	"errors"
	"testing"

	"github.com/aretw0/lattice/pkg/domain"
	"github.com/aretw0/lattice/pkg/registry"
	"github.com/aretw0/lattice/pkg/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_Resolve(t *testing.T) {
	ctx := context.Background()
	reg := registry.New()
	reg.RegisterQuery("years", func(_ context.Context, params map[string]any) ([]any, error) {
		if params["reviewer"] == nil {
			return nil, nil
		}
		return []any{2001}, nil
	}, registry.WithParams(schema.Schema{"reviewer": schema.Nullable(schema.Int())}))
	reg.RegisterPort("stats", func(_ context.Context, params map[string]any) (any, error) {
		return map[string]any{"count": 3}, nil
	}, registry.WithDescription("filter statistics"))

	t.Run("Query", func(t *testing.T) {
		v, err := reg.Resolve(ctx, domain.RemoteCall{Route: "years", Strategy: domain.FetchQuery, Params: map[string]any{"reviewer": 1}})
		require.NoError(t, err)
		assert.Equal(t, []any{2001}, v)
	})

	t.Run("Nil Query Result Is Empty List", func(t *testing.T) {
		v, err := reg.Resolve(ctx, domain.RemoteCall{Route: "years", Strategy: domain.FetchQuery, Params: map[string]any{"reviewer": nil}})
		require.NoError(t, err)
		assert.Equal(t, []any{}, v)
	})

	t.Run("Port With Default Strategy", func(t *testing.T) {
		v, err := reg.Resolve(ctx, domain.RemoteCall{Route: "stats"})
		require.NoError(t, err)
		assert.Equal(t, map[string]any{"count": 3}, v)
	})

	t.Run("Unknown Route", func(t *testing.T) {
		_, err := reg.Resolve(ctx, domain.RemoteCall{Route: "nope"})
		assert.ErrorIs(t, err, domain.ErrRemote)
		assert.ErrorIs(t, err, registry.ErrRouteNotFound)
	})

	t.Run("Strategy Mismatch", func(t *testing.T) {
		_, err := reg.Resolve(ctx, domain.RemoteCall{Route: "stats", Strategy: domain.FetchQuery})
		var remote *domain.RemoteError
		require.ErrorAs(t, err, &remote)
		assert.Equal(t, "stats", remote.Route)
	})

	t.Run("Schema Violation", func(t *testing.T) {
		_, err := reg.Resolve(ctx, domain.RemoteCall{Route: "years", Strategy: domain.FetchQuery, Params: map[string]any{"reviewer": "one"}})
		assert.ErrorIs(t, err, domain.ErrRemote)
		assert.Len(t, schema.ValidationErrors(err), 1)
	})

	t.Run("Routes", func(t *testing.T) {
		routes := reg.Routes()
		require.Len(t, routes, 2)
		assert.Equal(t, "stats", routes[0].Name)
		assert.Equal(t, "filter statistics", routes[0].Description)
		assert.Equal(t, domain.FetchQuery, routes[1].Strategy)
	})
}

func TestRegistry_HandlerError(t *testing.T) {
	boom := errors.New("database unavailable")
	reg := registry.New()
	reg.RegisterPort("broken", func(context.Context, map[string]any) (any, error) {
		return nil, boom
	})

	_, err := reg.Resolve(context.Background(), domain.RemoteCall{Route: "broken"})
	var remote *domain.RemoteError
	require.ErrorAs(t, err, &remote)
	assert.Equal(t, "broken", remote.Route)
	assert.ErrorIs(t, err, boom)
}
