package tests

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/lattice/pkg/domain"
	"github.com/aretw0/lattice/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ValueStoreContractTest is a reusable test suite that verifies if an adapter complies with ports.ValueStore.
func ValueStoreContractTest(t *testing.T, store ports.ValueStore) {
	t.Helper()
	ctx := context.Background()
	sessionID := "contract-test-session-" + time.Now().Format("20060102150405")

	t.Run("Save and Load", func(t *testing.T) {
		values := ports.Values{
			"reviewer.value": "ana",
			"year.value":     2001,
			"filter":         map[string]any{"A": 1, "B": nil},
		}

		require.NoError(t, store.Save(ctx, sessionID, values), "Save should not return error")

		loaded, err := store.Load(ctx, sessionID)
		require.NoError(t, err, "Load should not return error")
		assert.Equal(t, "ana", loaded["reviewer.value"])
		// JSON-backed stores decode numbers as float64.
		assert.True(t, domain.SameID(2001, loaded["year.value"]))
		assert.Contains(t, loaded, domain.NodeID("filter"))
	})

	t.Run("Null Values Survive", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, sessionID, ports.Values{"a.value": nil}))

		loaded, err := store.Load(ctx, sessionID)
		require.NoError(t, err)
		v, ok := loaded["a.value"]
		assert.True(t, ok, "a stored null must remain distinguishable from an absent node")
		assert.Nil(t, v)
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+sessionID)
		assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, sessionID, ports.Values{"a": 1}))
		require.NoError(t, store.Delete(ctx, sessionID), "Delete should not return error")

		_, err := store.Load(ctx, sessionID)
		assert.ErrorIs(t, err, domain.ErrSessionNotFound, "Load after Delete should return ErrSessionNotFound")
	})

	t.Run("List", func(t *testing.T) {
		id1 := sessionID + "-1"
		id2 := sessionID + "-2"
		require.NoError(t, store.Save(ctx, id1, ports.Values{}))
		require.NoError(t, store.Save(ctx, id2, ports.Values{}))
		defer func() {
			_ = store.Delete(ctx, id1)
			_ = store.Delete(ctx, id2)
		}()

		sessions, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, sessions, id1)
		assert.Contains(t, sessions, id2)
	})
}
