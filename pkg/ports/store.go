package ports

import (
	"context"

	"github.com/aretw0/checkmark/pkg/domain"
)

// SnapshotStore defines the interface for persisting tracker progress.
type SnapshotStore interface {
	// Save persists the snapshot under its session ID.
	Save(ctx context.Context, sessionID string, snap *domain.Snapshot) error

	// Load retrieves the snapshot for a given session ID.
	// Returns domain.ErrSnapshotNotFound if the session does not exist.
	Load(ctx context.Context, sessionID string) (*domain.Snapshot, error)

	// Delete removes the snapshot for a given session ID.
	Delete(ctx context.Context, sessionID string) error

	// List returns the IDs of stored sessions.
	List(ctx context.Context) ([]string, error)
}
