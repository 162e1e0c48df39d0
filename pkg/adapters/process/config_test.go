package process_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/aretw0/lattice/pkg/adapters/process"
	"github.com/aretw0/lattice/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadRoutes(t *testing.T) {
	dir := t.TempDir()

	t.Run("YAML", func(t *testing.T) {
		path := filepath.Join(dir, "resolvers.yaml")
		doc := `resolvers:
  - name: reviewers
    strategy: query
    command: sh
    args: ["-c", "echo []"]
    env: {REGION: eu}
  - command: ignored-without-name
`
		require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

		routes, err := process.LoadRoutes(path)
		require.NoError(t, err)
		require.Len(t, routes, 1)
		assert.Equal(t, "query", routes["reviewers"].Strategy)
		assert.Equal(t, map[string]string{"REGION": "eu"}, routes["reviewers"].Environment)

		r := process.NewRunner(process.WithRoutes(routes))
		assert.Equal(t, []string{"reviewers"}, r.Routes())
	})

	t.Run("JSON", func(t *testing.T) {
		path := filepath.Join(dir, "resolvers.json")
		require.NoError(t, os.WriteFile(path, []byte(`{"resolvers":[{"name":"stats","command":"cat"}]}`), 0o644))

		routes, err := process.LoadRoutes(path)
		require.NoError(t, err)
		assert.Equal(t, "cat", routes["stats"].Command)
	})

	t.Run("Missing File", func(t *testing.T) {
		routes, err := process.LoadRoutes(filepath.Join(dir, "nope.yaml"))
		require.NoError(t, err)
		assert.Empty(t, routes)
	})

	t.Run("Invalid Entries", func(t *testing.T) {
		_, err := process.ParseRoutes([]byte("resolvers:\n  - name: x\n"), false)
		assert.ErrorContains(t, err, "command is required")

		_, err = process.ParseRoutes([]byte("resolvers:\n  - {name: x, command: cat, strategy: stream}\n"), false)
		assert.ErrorContains(t, err, "unknown fetch strategy")

		_, err = process.ParseRoutes([]byte("{"), true)
		assert.Error(t, err)
	})
}

func TestRunner_WithRoutesStrategy(t *testing.T) {
	routes, err := process.ParseRoutes([]byte("resolvers:\n  - {name: r, command: cat, strategy: query}\n"), false)
	require.NoError(t, err)

	r := process.NewRunner(process.WithRoutes(routes), process.WithBaseDir(t.TempDir()))
	_, err = r.Resolve(t.Context(), domain.RemoteCall{Route: "r", Strategy: domain.FetchPort})
	assert.ErrorIs(t, err, domain.ErrRemote)
}
