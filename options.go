package checkmark

import (
	"log/slog"

	"github.com/aretw0/checkmark/pkg/domain"
	"github.com/aretw0/checkmark/pkg/ports"
)

// Option defines a functional option for configuring the Tracker.
type Option func(*Tracker)

// WithLogger sets a custom structured logger for the tracker.
func WithLogger(logger *slog.Logger) Option {
	return func(t *Tracker) {
		t.logger = logger
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(t *Tracker) {
		t.hooks = hooks
	}
}

// WithLoader injects a custom CatalogLoader, bypassing path based loader selection in Open.
func WithLoader(l ports.CatalogLoader) Option {
	return func(t *Tracker) {
		t.loader = l
	}
}

// WithStore persists snapshots through Save and Restore.
func WithStore(store ports.SnapshotStore) Option {
	return func(t *Tracker) {
		t.store = store
	}
}

// WithSessionID fixes the session id. A random one is generated otherwise.
func WithSessionID(id string) Option {
	return func(t *Tracker) {
		t.id = id
	}
}

// WithHistoryLimit bounds the undo stack. Non-positive values keep command.DefaultHistoryLimit.
func WithHistoryLimit(limit int) Option {
	return func(t *Tracker) {
		t.historyLimit = limit
	}
}
