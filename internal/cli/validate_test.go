package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	manifest := writeProject(t)

	def, report, err := Validate(Options{Manifest: manifest})
	require.NoError(t, err)
	assert.Equal(t, "picker", def.Name())
	assert.NoError(t, report.Err())
	assert.Len(t, report.Warnings, 1, "the query without params only refreshes on demand")

	resolvers := filepath.Join(t.TempDir(), "other.yaml")
	require.NoError(t, os.WriteFile(resolvers, []byte("resolvers: []\n"), 0o644))
	_, report, err = Validate(Options{Manifest: manifest, Resolvers: resolvers})
	require.NoError(t, err)
	assert.ErrorContains(t, report.Err(), "unregistered route 'items'")
}

func TestValidate_BrokenManifest(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lattice.yaml")
	doc := "nodes:\n  - {id: a, kind: aggregate, fields: [{key: b, ref: b}]}\n  - {id: b, kind: aggregate, fields: [{key: a, ref: a}]}\n"
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	_, _, err := Validate(Options{Manifest: path})
	assert.Error(t, err)
}
