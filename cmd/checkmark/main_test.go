package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/checkmark/pkg/domain"
)

const demoCatalog = "../../testdata/demo.yaml"

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return buf.String(), err
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "checkmark version")
}

func TestValidate(t *testing.T) {
	out, err := execute(t, "validate", demoCatalog)
	require.NoError(t, err)
	assert.Contains(t, out, `Catalog "demo" is valid!`)
}

func TestValidate_Broken(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
name: broken
nodes:
  - id: start
    entry: true
  - id: island
locations:
  - id: chest
    sections:
      - kind: item
        total: 1
        node: start
`), 0o644))

	_, err := execute(t, "validate", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nodes.island")
}

func TestStatusJSON(t *testing.T) {
	out, err := execute(t, "status", demoCatalog, "--json")
	require.NoError(t, err)

	var locs []domain.LocationStatus
	require.NoError(t, json.Unmarshal([]byte(out), &locs))
	require.Len(t, locs, 2)
	assert.Equal(t, "eastern_palace", locs[0].ID)
}

func TestGraph(t *testing.T) {
	out, err := execute(t, "graph", demoCatalog, "--levels")
	require.NoError(t, err)
	assert.Contains(t, out, "graph TD")
	assert.Contains(t, out, `light_world(("light_world"))`)
	assert.Contains(t, out, "class light_world normal;")
}

func TestSessionLifecycle(t *testing.T) {
	dir := t.TempDir()
	store := []string{"--store", "file", "--store-dir", dir}

	out, err := execute(t, append([]string{"session", "ls"}, store...)...)
	require.NoError(t, err)
	assert.Contains(t, out, "No saved sessions found.")

	snap := domain.Snapshot{ID: "run-1", Catalog: "demo", Items: map[string]int{"hammer": 1}}
	data, err := json.Marshal(snap)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "run-1.json"), data, 0o644))

	out, err = execute(t, append([]string{"session", "ls"}, store...)...)
	require.NoError(t, err)
	assert.Contains(t, out, "- run-1")

	out, err = execute(t, append([]string{"session", "inspect", "run-1"}, store...)...)
	require.NoError(t, err)
	assert.Contains(t, out, `"hammer": 1`)

	out, err = execute(t, append([]string{"session", "rm", "run-1"}, store...)...)
	require.NoError(t, err)
	assert.Contains(t, out, "Removed session 'run-1'")
}
