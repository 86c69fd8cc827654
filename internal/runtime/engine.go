package runtime

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"time"

	"github.com/aretw0/checkmark/internal/logging"
	"github.com/aretw0/checkmark/pkg/domain"
)

// maxSettleRounds bounds the feedback between section side effects and the graph.
const maxSettleRounds = 64

// Engine owns the reactive accessibility graph.
type Engine struct {
	logger *slog.Logger
	hooks  domain.LifecycleHooks

	ctx    *Context
	memory map[int]int

	reqs       []*requirement
	nodes      []*Node
	values     []*value
	pools      []*pool
	placements []*placement
	sections   []*Section
	locations  []*Location

	reqNames       map[string]ReqID
	nodeNames      map[string]NodeID
	valueNames     map[string]ValueID
	poolNames      map[string]PoolID
	placementNames map[string]PlacementID
	locationIndex  map[string]int
	bossReqs       map[string]ReqID

	itemObservers    map[string][]ReqID
	modeObservers    map[string][]ReqID
	addressObservers map[int][]ValueID

	dirtyReqs     dirtySet
	nodeSeeds     dirtySet
	dirtyValues   dirtySet
	dirtyPools    dirtySet
	dirtySections dirtySet

	nodeBefore    map[NodeID]domain.AccessibilityLevel
	sectionBefore map[SectionID]sectionView
	reconciled    map[SectionID]bool
	unsavedRaised bool

	settleRounds int
	err          error

	started  bool
	settling bool
	unsaved  bool
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithLogger sets the structured logger. Defaults to a discarding logger.
func WithLogger(logger *slog.Logger) EngineOption {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) EngineOption {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithSettleRounds bounds the propagation rounds of a single settle.
// Defaults to 64.
func WithSettleRounds(n int) EngineOption {
	return func(e *Engine) {
		if n > 0 {
			e.settleRounds = n
		}
	}
}

// NewEngine creates an empty engine. Register the graph, then call Start.
func NewEngine(opts ...EngineOption) *Engine {
	e := &Engine{
		logger:           logging.NewNop(),
		ctx:              newContext(),
		memory:           make(map[int]int),
		reqNames:         make(map[string]ReqID),
		nodeNames:        make(map[string]NodeID),
		valueNames:       make(map[string]ValueID),
		poolNames:        make(map[string]PoolID),
		placementNames:   make(map[string]PlacementID),
		locationIndex:    make(map[string]int),
		bossReqs:         make(map[string]ReqID),
		itemObservers:    make(map[string][]ReqID),
		modeObservers:    make(map[string][]ReqID),
		addressObservers: make(map[int][]ValueID),
		nodeBefore:       make(map[NodeID]domain.AccessibilityLevel),
		sectionBefore:    make(map[SectionID]sectionView),
		reconciled:       make(map[SectionID]bool),
		settleRounds:     maxSettleRounds,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.ctx.onItem = func(name string) {
		for _, id := range e.itemObservers[name] {
			e.dirtyReqs.mark(int(id) - 1)
		}
	}
	e.ctx.onMode = func(key string) {
		for _, id := range e.modeObservers[key] {
			e.dirtyReqs.mark(int(id) - 1)
		}
	}
	return e
}

// Context exposes the item/mode context for reading.
func (e *Engine) Context() *Context {
	return e.ctx
}

// SetDefaults records the catalog's starting items and modes. Reset returns to them.
func (e *Engine) SetDefaults(items map[string]int, modes map[string]string) error {
	if err := e.checkBuilding(); err != nil {
		return err
	}
	e.ctx.setDefaults(items, modes)
	return nil
}

// Start computes the whole graph once. The topology is frozen afterwards.
func (e *Engine) Start(ctx context.Context) error {
	if e.started {
		return fmt.Errorf("engine already started")
	}
	e.started = true
	e.dirtyReqs.markAll()
	e.nodeSeeds.markAll()
	e.dirtyValues.markAll()
	e.dirtyPools.markAll()
	e.dirtySections.markAll()
	for _, s := range e.sections {
		s.valueDirty = true
	}
	e.propagate(ctx)
	e.discardEvents()
	e.unsaved = false
	e.logger.InfoContext(ctx, "engine started",
		"nodes", len(e.nodes),
		"requirements", len(e.reqs),
		"values", len(e.values),
		"sections", len(e.sections),
	)
	return nil
}

// Started reports whether Start has run.
func (e *Engine) Started() bool {
	return e.started
}

// SetItem sets the owned count of an item (never below zero).
func (e *Engine) SetItem(ctx context.Context, name string, n int) {
	if e.ctx.setItem(name, n) {
		e.settle(ctx)
	}
}

// AddItem adjusts the owned count of an item by delta (never below zero).
func (e *Engine) AddItem(ctx context.Context, name string, delta int) {
	e.SetItem(ctx, name, e.ctx.Owned(name)+delta)
}

// Owned returns the owned count of an item.
func (e *Engine) Owned(name string) int {
	return e.ctx.Owned(name)
}

// SetMode changes a mode setting. The empty value clears it.
func (e *Engine) SetMode(ctx context.Context, key, value string) {
	if e.ctx.setMode(key, value) {
		e.settle(ctx)
	}
}

// WriteMemory delivers one raw auto-tracker reading.
func (e *Engine) WriteMemory(ctx context.Context, addr, value int) {
	if old, ok := e.memory[addr]; ok && old == value {
		return
	}
	e.memory[addr] = value
	e.markAddress(addr)
	e.settle(ctx)
}

// ApplyMemory delivers several readings at once and settles once.
// Addresses not in readings keep their last value.
func (e *Engine) ApplyMemory(ctx context.Context, readings map[int]int) {
	touched := false
	for addr, v := range readings {
		if old, ok := e.memory[addr]; ok && old == v {
			continue
		}
		e.memory[addr] = v
		e.markAddress(addr)
		touched = true
	}
	if touched {
		e.settle(ctx)
	}
}

// ReplaceMemory delivers a full set of readings, dropping addresses not present.
func (e *Engine) ReplaceMemory(ctx context.Context, readings map[int]int) {
	touched := false
	for addr, old := range e.memory {
		if v, ok := readings[addr]; !ok || v != old {
			e.markAddress(addr)
			touched = true
		}
	}
	for addr := range readings {
		if _, ok := e.memory[addr]; !ok {
			e.markAddress(addr)
			touched = true
		}
	}
	if !touched {
		return
	}
	e.memory = maps.Clone(readings)
	if e.memory == nil {
		e.memory = make(map[int]int)
	}
	e.settle(ctx)
}

// ClearMemory forgets every reading, as when the auto-tracker disconnects.
func (e *Engine) ClearMemory(ctx context.Context) {
	e.ReplaceMemory(ctx, nil)
}

// Unsaved reports whether auto-tracking changed state since the last MarkSaved.
func (e *Engine) Unsaved() bool {
	return e.unsaved
}

// Err reports whether a settle ever hit the round bound. Once set, derived
// values may be stale and the engine should be rebuilt.
func (e *Engine) Err() error {
	return e.err
}

// MarkSaved clears the unsaved flag.
func (e *Engine) MarkSaved() {
	e.unsaved = false
}

func (e *Engine) markAddress(addr int) {
	for _, id := range e.addressObservers[addr] {
		e.dirtyValues.mark(int(id) - 1)
	}
}

func (e *Engine) checkBuilding() error {
	if e.started {
		return fmt.Errorf("%w: graph is frozen once the engine has started", domain.ErrConfiguration)
	}
	return nil
}

func (e *Engine) validReq(id ReqID) bool {
	return id > NoRequirement && int(id) <= len(e.reqs)
}

func (e *Engine) pending() bool {
	return !e.dirtyReqs.empty() ||
		!e.nodeSeeds.empty() ||
		!e.dirtyValues.empty() ||
		!e.dirtyPools.empty() ||
		!e.dirtySections.empty()
}

// settle propagates pending changes and then fires hooks.
// Calls made while a settle is running only queue work for the running loop.
func (e *Engine) settle(ctx context.Context) {
	if !e.started || e.settling {
		return
	}
	e.propagate(ctx)
	e.flush(ctx)
}

func (e *Engine) propagate(ctx context.Context) {
	e.settling = true
	defer func() { e.settling = false }()

	rounds := 0
	for e.pending() {
		if rounds == e.settleRounds {
			e.err = fmt.Errorf("%w after %d rounds", domain.ErrUnsettled, rounds)
			e.logger.ErrorContext(ctx, "propagation did not settle, dropping pending work", "rounds", rounds)
			e.dirtyReqs.clear()
			e.nodeSeeds.clear()
			e.dirtyValues.clear()
			e.dirtyPools.clear()
			e.dirtySections.clear()
			break
		}
		rounds++
		e.settleRequirements()
		e.settleNodes()
		e.settleValues()
		e.settlePools()
		e.settleSections()
	}
	e.logger.DebugContext(ctx, "propagation settled", "rounds", rounds)
}

// flush reports what changed during the last settle to the lifecycle hooks.
// The change records are detached first so hooks may mutate the engine again.
func (e *Engine) flush(ctx context.Context) {
	nodeBefore, sectionBefore, reconciled := e.nodeBefore, e.sectionBefore, e.reconciled
	raised := e.unsavedRaised
	e.nodeBefore = make(map[NodeID]domain.AccessibilityLevel)
	e.sectionBefore = make(map[SectionID]sectionView)
	e.reconciled = make(map[SectionID]bool)
	e.unsavedRaised = false

	now := time.Now()
	for _, id := range slices.Sorted(maps.Keys(nodeBefore)) {
		n := e.node(id)
		from := nodeBefore[id]
		if n.level == from || e.hooks.OnNodeChange == nil {
			continue
		}
		e.hooks.OnNodeChange(ctx, &domain.NodeEvent{
			EventBase: domain.EventBase{Timestamp: now, Type: domain.EventNodeChanged},
			NodeID:    n.name,
			From:      from,
			To:        n.level,
		})
	}

	for _, id := range slices.Sorted(maps.Keys(sectionBefore)) {
		s := e.section(id)
		b := sectionBefore[id]
		auto := reconciled[id]
		if !auto && b.available == s.state.Available && b.accessible == s.accessible && b.accessibility == s.accessibility {
			continue
		}
		evt := &domain.SectionEvent{
			EventBase:     domain.EventBase{Timestamp: now, Type: domain.EventSectionChanged},
			Ref:           s.ref,
			Kind:          s.def.Kind,
			Available:     s.state.Available,
			Accessible:    s.accessible,
			Accessibility: s.accessibility,
			AutoTracked:   auto,
		}
		if auto {
			e.logger.InfoContext(ctx, "section reconciled with auto-tracker", "section", s.ref.String(), "available", s.state.Available)
			if e.hooks.OnReconcile != nil {
				reconciledEvt := *evt
				reconciledEvt.Type = domain.EventReconciled
				e.hooks.OnReconcile(ctx, &reconciledEvt)
			}
		}
		if e.hooks.OnSectionChange != nil {
			e.hooks.OnSectionChange(ctx, evt)
		}
	}

	if raised && e.hooks.OnUnsaved != nil {
		e.hooks.OnUnsaved(ctx)
	}
}

func (e *Engine) discardEvents() {
	clear(e.nodeBefore)
	clear(e.sectionBefore)
	clear(e.reconciled)
	e.unsavedRaised = false
}
