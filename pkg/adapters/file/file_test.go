package file_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/aretw0/checkmark/pkg/adapters/file"
	"github.com/aretw0/checkmark/pkg/domain"
	"github.com/aretw0/checkmark/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStore_Contract(t *testing.T) {
	ports.RunSnapshotStoreContract(t, file.NewStore(t.TempDir()))
}

func TestFileStore_AtomicOverwrite(t *testing.T) {
	dir := t.TempDir()
	store := file.NewStore(dir)
	ctx := context.Background()

	first := domain.NewSnapshot("run")
	first.Items["bow"] = 1
	require.NoError(t, store.Save(ctx, "run", first))

	second := domain.NewSnapshot("run")
	second.Items["bow"] = 2
	require.NoError(t, store.Save(ctx, "run", second))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp files must not be left behind")

	loaded, err := store.Load(ctx, "run")
	require.NoError(t, err)
	assert.Equal(t, 2, loaded.Items["bow"])
}

func TestFileStore_RejectsBadIDs(t *testing.T) {
	store := file.NewStore(t.TempDir())
	ctx := context.Background()

	assert.Error(t, store.Save(ctx, "", domain.NewSnapshot("")))
	assert.Error(t, store.Save(ctx, "../escape", domain.NewSnapshot("x")))
	_, err := store.Load(ctx, "a/b")
	assert.Error(t, err)
}

func TestFileStore_ListMissingDir(t *testing.T) {
	store := file.NewStore(filepath.Join(t.TempDir(), "missing"))
	ids, err := store.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestLoader_Load(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte("name: file\nnodes:\n  - id: start\n    entry: true\n"), 0644))

	cat, err := file.NewLoader(path).Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "file", cat.Name)

	_, err = file.NewLoader(filepath.Join(t.TempDir(), "nope.yaml")).Load(context.Background())
	assert.Error(t, err)
}

func TestLoader_Watch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte("name: a\n"), 0644))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	changes, err := file.NewLoader(path).Watch(ctx)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(path, []byte("name: b\n"), 0644))
	select {
	case <-changes:
	case <-time.After(2 * time.Second):
		t.Fatal("expected a change notification")
	}
}

func TestMemoryWatcher_Refresh(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ram.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"0x7EF4C0": 2, "16": 1}`), 0644))

	w := file.NewMemoryWatcher(path)
	batch, err := w.Refresh()
	require.NoError(t, err)
	assert.Equal(t, []ports.MemoryReading{{Address: 16, Value: 1}, {Address: 0x7EF4C0, Value: 2}}, batch)

	v, ok := w.Read(0x7EF4C0)
	assert.True(t, ok)
	assert.Equal(t, 2, v)

	require.NoError(t, os.WriteFile(path, []byte(`{"zz": 1}`), 0644))
	_, err = w.Refresh()
	assert.Error(t, err)
	_, ok = w.Read(16)
	assert.True(t, ok, "a bad dump keeps the last good readings")
}

func TestMemoryWatcher_Subscribe(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ram.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"1": 1}`), 0644))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	batches, err := file.NewMemoryWatcher(path).Subscribe(ctx)
	require.NoError(t, err)

	first := <-batches
	assert.Equal(t, []ports.MemoryReading{{Address: 1, Value: 1}}, first)

	require.NoError(t, os.WriteFile(path, []byte(`{"1": 5}`), 0644))
	select {
	case batch := <-batches:
		assert.Equal(t, []ports.MemoryReading{{Address: 1, Value: 5}}, batch)
	case <-time.After(2 * time.Second):
		t.Fatal("expected a new batch")
	}
}
