package memory_test

import (
	"context"
	"testing"

	"github.com/aretw0/lattice/pkg/adapters/memory"
	"github.com/aretw0/lattice/pkg/domain"
	"github.com/aretw0/lattice/pkg/ports"
	"github.com/aretw0/lattice/pkg/ports/tests"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_Contract(t *testing.T) {
	store := memory.NewStore()
	tests.ValueStoreContractTest(t, store)
}

func TestMemoryStore_Isolation(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()

	values := ports.Values{"a": 1}
	require.NoError(t, store.Save(ctx, "s1", values))
	values["a"] = 2

	loaded, err := store.Load(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, 1, loaded["a"])

	loaded["a"] = 3
	again, err := store.Load(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, 1, again["a"])
}

func TestMemoryStore_NestedIsolation(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()

	years := []any{2001, 2002}
	filter := map[string]any{"A": 1}
	report := domain.NewMapping()
	report.Set("years", years)
	require.NoError(t, store.Save(ctx, "s1", ports.Values{"years": years, "filter": filter, "report": report}))

	years[0] = 1999
	filter["A"] = 2
	report.Set("extra", true)

	loaded, err := store.Load(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, []any{2001, 2002}, loaded["years"])
	assert.Equal(t, map[string]any{"A": 1}, loaded["filter"])
	m := loaded["report"].(*domain.Mapping)
	assert.Equal(t, 1, m.Len())
	stored, _ := m.Get("years")
	assert.Equal(t, []any{2001, 2002}, stored)

	loaded["filter"].(map[string]any)["A"] = 3
	again, err := store.Load(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"A": 1}, again["filter"])
}
