package checkmark

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/aretw0/checkmark/internal/compiler"
	"github.com/aretw0/checkmark/internal/logging"
	"github.com/aretw0/checkmark/internal/runtime"
	"github.com/aretw0/checkmark/pkg/adapters/file"
	loamAdapter "github.com/aretw0/checkmark/pkg/adapters/loam"
	"github.com/aretw0/checkmark/pkg/command"
	"github.com/aretw0/checkmark/pkg/domain"
	"github.com/aretw0/checkmark/pkg/ports"
	"github.com/aretw0/checkmark/pkg/schema"
)

// Tracker is the high-level entry point for the checkmark library.
// It wraps the compiled runtime and an undo history behind a single mutex,
// so hosts may call it from any goroutine.
type Tracker struct {
	mu sync.Mutex

	id           string
	catalog      *schema.Catalog
	loader       ports.CatalogLoader
	store        ports.SnapshotStore
	engine       *runtime.Engine
	history      *command.History
	hooks        domain.LifecycleHooks
	logger       *slog.Logger
	historyLimit int
}

var _ ports.Tracker = (*Tracker)(nil)

// New compiles the catalog into a started tracker.
func New(ctx context.Context, cat *schema.Catalog, opts ...Option) (*Tracker, error) {
	t := &Tracker{}
	for _, opt := range opts {
		opt(t)
	}
	if err := t.init(ctx, cat); err != nil {
		return nil, err
	}
	return t, nil
}

// Open loads a catalog from path and compiles it.
// A .yaml, .yml or .json path is read as a single catalog file; any other
// path is opened as a Loam repository of location documents.
// If WithLoader is provided, path is ignored.
func Open(ctx context.Context, path string, opts ...Option) (*Tracker, error) {
	t := &Tracker{}
	for _, opt := range opts {
		opt(t)
	}
	if t.loader == nil {
		if path == "" {
			return nil, fmt.Errorf("path is required when no custom loader is provided")
		}
		l, err := NewLoader(path)
		if err != nil {
			return nil, err
		}
		t.loader = l
	}
	cat, err := t.loader.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}
	if err := t.init(ctx, cat); err != nil {
		return nil, err
	}
	return t, nil
}

// NewLoader picks a catalog loader for path: YAML and JSON files are read
// directly, anything else is opened as a loam document directory.
func NewLoader(path string) (ports.CatalogLoader, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("invalid path: %w", err)
	}
	switch strings.ToLower(filepath.Ext(absPath)) {
	case ".yaml", ".yml", ".json":
		return file.NewLoader(absPath), nil
	}
	l, err := loamAdapter.Open(absPath)
	if err != nil {
		return nil, err
	}
	return l, nil
}

func (t *Tracker) init(ctx context.Context, cat *schema.Catalog) error {
	if cat == nil {
		return fmt.Errorf("%w: catalog is nil", domain.ErrConfiguration)
	}
	if t.id == "" {
		t.id = uuid.NewString()
	}
	if t.logger == nil {
		t.logger = logging.NewNop()
	}
	t.logger = t.logger.With("session", t.id)
	if cat.Name != "" {
		t.logger = t.logger.With("catalog", cat.Name)
	}

	eng, err := t.compile(ctx, cat)
	if err != nil {
		return err
	}
	t.catalog = cat
	t.engine = eng
	t.history = command.NewHistory(
		command.WithLimit(t.historyLimit),
		command.WithLifecycleHooks(t.hooks),
		command.WithLogger(t.logger),
	)
	return nil
}

func (t *Tracker) compile(ctx context.Context, cat *schema.Catalog) (*runtime.Engine, error) {
	return compiler.Compile(ctx, cat,
		runtime.WithLogger(t.logger),
		runtime.WithLifecycleHooks(t.hooks),
	)
}

// ID returns the session id.
func (t *Tracker) ID() string {
	return t.id
}

// CatalogName returns the name of the compiled catalog.
func (t *Tracker) CatalogName() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.catalog.Name
}

// Catalog returns the catalog the tracker was compiled from. Callers must not modify it.
func (t *Tracker) Catalog() *schema.Catalog {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.catalog
}

// Item returns the effective count of an item, prize contributions included.
func (t *Tracker) Item(name string) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.engine.Context().Item(name)
}

// Owned returns the count the player owns.
func (t *Tracker) Owned(name string) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.engine.Owned(name)
}

// Mode returns the value of a mode setting.
func (t *Tracker) Mode(key string) string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.engine.Context().Mode(key)
}

// Collect clears the section, or marks it inspected on the first click of a markable section.
func (t *Tracker) Collect(ctx context.Context, ref domain.SectionRef, force bool) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	sec, err := t.engine.Section(ref)
	if err != nil {
		return err
	}
	cmd, err := command.CreateCollectSectionAction(sec, force)
	if err != nil {
		return err
	}
	return t.history.Execute(ctx, cmd)
}

// Uncollect gives back what the last collect took from the section.
func (t *Tracker) Uncollect(ctx context.Context, ref domain.SectionRef) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	sec, err := t.engine.Section(ref)
	if err != nil {
		return err
	}
	cmd, err := command.CreateUncollectSectionAction(sec)
	if err != nil {
		return err
	}
	return t.history.Execute(ctx, cmd)
}

// TogglePrize collects an uncollected boss or prize section, placing prize first
// when it is not empty, or uncollects a collected one.
func (t *Tracker) TogglePrize(ctx context.Context, ref domain.SectionRef, force bool, prize string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	sec, err := t.engine.Section(ref)
	if err != nil {
		return err
	}
	slot, err := t.engine.PlacementHandle(sec.Wiring().Placement)
	if err != nil {
		return fmt.Errorf("%w: section %s has no placement", domain.ErrCommandDeclined, ref)
	}
	cmd, err := command.CreateTogglePrizeSectionAction(sec, slot, force, prize)
	if err != nil {
		return err
	}
	return t.history.Execute(ctx, cmd)
}

// ChangePrize swaps the prize of a placement.
func (t *Tracker) ChangePrize(ctx context.Context, placement, prize string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	id, ok := t.engine.PlacementByName(placement)
	if !ok {
		return fmt.Errorf("%w: %q", domain.ErrUnknownPlacement, placement)
	}
	slot, err := t.engine.PlacementHandle(id)
	if err != nil {
		return err
	}
	cmd, err := command.CreateChangePrizeAction(slot, prize)
	if err != nil {
		return err
	}
	return t.history.Execute(ctx, cmd)
}

// SetBoss changes the boss of a placement. Boss changes are not undoable.
func (t *Tracker) SetBoss(ctx context.Context, placement, boss string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	id, ok := t.engine.PlacementByName(placement)
	if !ok {
		return fmt.Errorf("%w: %q", domain.ErrUnknownPlacement, placement)
	}
	return t.engine.SetBoss(ctx, id, boss)
}

// SetItem sets the owned count of an item as an undoable command.
// Setting the current count is a no-op.
func (t *Tracker) SetItem(ctx context.Context, name string, n int) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.engine.Owned(name) == n {
		return nil
	}
	cmd, err := command.CreateSetItemAction(t.engine, name, n)
	if err != nil {
		return err
	}
	return t.history.Execute(ctx, cmd)
}

// SetMode changes a mode setting. Mode changes are not undoable.
func (t *Tracker) SetMode(ctx context.Context, key, value string) error {
	if key == "" {
		return fmt.Errorf("%w: mode key is required", domain.ErrConfiguration)
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.engine.SetMode(ctx, key, value)
	return nil
}

// WriteMemory records one auto-tracker reading.
func (t *Tracker) WriteMemory(ctx context.Context, addr, value int) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.engine.WriteMemory(ctx, addr, value)
	return nil
}

// ApplyMemory merges a batch of readings and settles once.
func (t *Tracker) ApplyMemory(ctx context.Context, readings []ports.MemoryReading) {
	if len(readings) == 0 {
		return
	}
	batch := make(map[int]int, len(readings))
	for _, r := range readings {
		batch[r.Address] = r.Value
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.engine.ApplyMemory(ctx, batch)
}

// ClearMemory forgets every reading, as when the emulator disconnects.
func (t *Tracker) ClearMemory(ctx context.Context) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.engine.ClearMemory(ctx)
}

// Undo reverts the most recent command.
func (t *Tracker) Undo(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.history.Undo(ctx)
}

// Redo re-applies the most recently undone command.
func (t *Tracker) Redo(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.history.Redo(ctx)
}

func (t *Tracker) CanUndo() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.history.CanUndo()
}

func (t *Tracker) CanRedo() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.history.CanRedo()
}

// History lists the undoable commands, oldest first.
func (t *Tracker) History() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.history.Names()
}

// Unsaved reports whether auto-tracking changed persisted state since the last save or load.
func (t *Tracker) Unsaved() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.engine.Unsaved()
}

// Err reports a propagation failure of the current engine. Reload rebuilds it.
func (t *Tracker) Err() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.engine.Err()
}

// Snapshot captures the persisted state without saving it.
func (t *Tracker) Snapshot() *domain.Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.snapshot()
}

func (t *Tracker) snapshot() *domain.Snapshot {
	snap := t.engine.Save()
	snap.ID = t.id
	snap.Catalog = t.catalog.Name
	return snap
}

// Save captures the persisted state, writes it to the configured store and clears the unsaved flag.
func (t *Tracker) Save(ctx context.Context) (*domain.Snapshot, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	snap := t.snapshot()
	if t.store != nil {
		if err := t.store.Save(ctx, t.id, snap); err != nil {
			return nil, fmt.Errorf("failed to save session %s: %w", t.id, err)
		}
	}
	t.engine.MarkSaved()
	t.logger.InfoContext(ctx, "session saved", "sections", len(snap.Sections))
	return snap, nil
}

// Load applies a snapshot and drops the undo history.
func (t *Tracker) Load(ctx context.Context, snap *domain.Snapshot) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.engine.Load(ctx, snap)
	t.history.Clear()
}

// Restore loads the session's snapshot from the configured store.
// It returns domain.ErrSnapshotNotFound when nothing was saved yet.
func (t *Tracker) Restore(ctx context.Context) error {
	if t.store == nil {
		return fmt.Errorf("%w: no store configured", domain.ErrSnapshotNotFound)
	}
	snap, err := t.store.Load(ctx, t.id)
	if err != nil {
		return err
	}
	t.Load(ctx, snap)
	return nil
}

// Reset returns every section to its initial state and drops the undo history.
func (t *Tracker) Reset(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.engine.Reset(ctx)
	t.history.Clear()
	return nil
}

// Reload recompiles the catalog from the loader and carries the current
// state and auto-tracker readings over. The undo history is dropped.
func (t *Tracker) Reload(ctx context.Context) error {
	if t.loader == nil {
		return fmt.Errorf("reload requires a catalog loader")
	}
	cat, err := t.loader.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load catalog: %w", err)
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	eng, err := t.compile(ctx, cat)
	if err != nil {
		return err
	}
	eng.Load(ctx, t.snapshot())
	eng.ApplyMemory(ctx, t.engine.Memory())
	t.catalog = cat
	t.engine = eng
	t.history.Clear()
	t.logger.InfoContext(ctx, "catalog reloaded", "locations", len(cat.Locations))
	return nil
}
