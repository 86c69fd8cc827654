package ports

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/checkmark/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunSnapshotStoreContract runs a suite of tests to verify that a SnapshotStore implementation
// adheres to the defined interface contract.
func RunSnapshotStoreContract(t *testing.T, store SnapshotStore) {
	ctx := context.Background()
	sessionID := "contract-test-session-" + time.Now().Format("20060102150405")

	t.Run("Save and Load", func(t *testing.T) {
		snap := domain.NewSnapshot(sessionID)
		snap.Catalog = "contract"
		snap.Sections["eastern_palace/0"] = domain.SectionState{Available: 2, UserManipulated: true}
		snap.Sections["link_house/0"] = domain.SectionState{Available: 1, Marking: domain.MarkInspected}
		snap.Items["bow"] = 1
		snap.Modes["world_state"] = "open"
		snap.Bosses["eastern_palace"] = "armos"
		snap.Prizes["eastern_palace"] = "green_pendant"

		require.NoError(t, store.Save(ctx, sessionID, snap), "Save should not return error")

		loaded, err := store.Load(ctx, sessionID)
		require.NoError(t, err, "Load should not return error")
		assert.Equal(t, "contract", loaded.Catalog)
		assert.Equal(t, snap.Sections, loaded.Sections)
		assert.Equal(t, 1, loaded.Items["bow"])
		assert.Equal(t, "open", loaded.Modes["world_state"])
		assert.Equal(t, "armos", loaded.Bosses["eastern_palace"])
		assert.Equal(t, "green_pendant", loaded.Prizes["eastern_palace"])
	})

	t.Run("Loaded Snapshot Is Isolated", func(t *testing.T) {
		snap := domain.NewSnapshot(sessionID)
		snap.Items["bow"] = 1
		require.NoError(t, store.Save(ctx, sessionID, snap))

		snap.Items["bow"] = 5
		loaded, err := store.Load(ctx, sessionID)
		require.NoError(t, err)
		assert.Equal(t, 1, loaded.Items["bow"])
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+sessionID)
		assert.ErrorIs(t, err, domain.ErrSnapshotNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, sessionID, domain.NewSnapshot(sessionID)))

		require.NoError(t, store.Delete(ctx, sessionID), "Delete should not return error")

		_, err := store.Load(ctx, sessionID)
		assert.ErrorIs(t, err, domain.ErrSnapshotNotFound, "Load after Delete should return ErrSnapshotNotFound")
	})

	t.Run("List", func(t *testing.T) {
		id1 := sessionID + "-1"
		id2 := sessionID + "-2"
		require.NoError(t, store.Save(ctx, id1, domain.NewSnapshot(id1)))
		require.NoError(t, store.Save(ctx, id2, domain.NewSnapshot(id2)))
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
