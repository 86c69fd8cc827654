package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/aretw0/checkmark"
	"github.com/aretw0/checkmark/internal/config"
	"github.com/aretw0/checkmark/pkg/adapters/file"
	"github.com/aretw0/checkmark/pkg/adapters/memory"
	"github.com/aretw0/checkmark/pkg/adapters/redis"
	"github.com/aretw0/checkmark/pkg/domain"
	"github.com/aretw0/checkmark/pkg/persistence/middleware"
	"github.com/aretw0/checkmark/pkg/ports"
	"github.com/aretw0/checkmark/pkg/session"
)

// backend bundles the configured snapshot store with its optional locker.
type backend struct {
	store  ports.SnapshotStore
	locker ports.DistributedLocker
	close  func() error
}

func openBackend() (*backend, error) {
	b, err := openStore()
	if err != nil {
		return nil, err
	}
	if cfg.EncryptionKey == "" {
		return b, nil
	}

	key, err := middleware.ParseKey(cfg.EncryptionKey)
	if err != nil {
		_ = b.close()
		return nil, err
	}
	mw, err := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: key})
	if err != nil {
		_ = b.close()
		return nil, err
	}
	b.store = middleware.Chain(b.store, mw)
	return b, nil
}

func openStore() (*backend, error) {
	switch cfg.Store {
	case config.StoreMemory:
		return &backend{store: memory.NewStore(), close: func() error { return nil }}, nil
	case config.StoreFile:
		return &backend{store: file.NewStore(cfg.StoreDir), close: func() error { return nil }}, nil
	case config.StoreRedis:
		s := redis.New(cfg.RedisAddr, "", 0, redis.WithPrefix(cfg.RedisPrefix), redis.WithTTL(cfg.RedisTTL))
		return &backend{
			store:  s,
			locker: redis.NewLocker(s.Client(), cfg.RedisPrefix),
			close:  s.Close,
		}, nil
	}
	return nil, fmt.Errorf("unknown store %q", cfg.Store)
}

func (b *backend) manager() *session.Manager {
	opts := []session.Option{session.WithLogger(logger)}
	if b.locker != nil {
		opts = append(opts, session.WithLocker(b.locker))
	}
	return session.NewManager(b.store, opts...)
}

func catalogPath(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return cfg.Catalog
}

// openTracker opens the catalog and, when sessionID names a stored session,
// restores it through the manager.
func openTracker(ctx context.Context, path, sessionID string, b *backend, mgr *session.Manager, hooks domain.LifecycleHooks) (*checkmark.Tracker, error) {
	opts := []checkmark.Option{
		checkmark.WithLogger(logger),
		checkmark.WithHistoryLimit(cfg.HistoryLimit),
		checkmark.WithLifecycleHooks(hooks),
	}
	if b != nil {
		opts = append(opts, checkmark.WithStore(b.store))
	}
	if sessionID != "" {
		opts = append(opts, checkmark.WithSessionID(sessionID))
	}

	tr, err := checkmark.Open(ctx, path, opts...)
	if err != nil {
		return nil, err
	}
	if sessionID == "" || mgr == nil {
		return tr, nil
	}

	snap, err := mgr.Load(ctx, sessionID)
	switch {
	case errors.Is(err, domain.ErrSnapshotNotFound):
		logger.InfoContext(ctx, "starting new session", "session", sessionID)
	case err != nil:
		return nil, fmt.Errorf("failed to load session %q: %w", sessionID, err)
	default:
		if snap.Catalog != "" && snap.Catalog != tr.CatalogName() {
			logger.WarnContext(ctx, "session was saved for another catalog",
				"session", sessionID, "saved", snap.Catalog, "catalog", tr.CatalogName())
		}
		tr.Load(ctx, snap)
	}
	return tr, nil
}
