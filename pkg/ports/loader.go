package ports

import (
	"context"

	"github.com/aretw0/checkmark/pkg/schema"
)

// CatalogLoader defines how a tracker retrieves its static location catalog.
// This allows the storage layer (Loam, FS, Memory) to be decoupled.
type CatalogLoader interface {
	// Load returns the parsed catalog. It does not validate it; compilation does.
	Load(ctx context.Context) (*schema.Catalog, error)
}

// Watchable defines an interface for loaders that can notify about backend changes.
// This is typically used for hot-reload or dev-mode functionality.
type Watchable interface {
	// Watch returns a channel that is signaled when the underlying catalog changes.
	Watch(ctx context.Context) (<-chan struct{}, error)
}
