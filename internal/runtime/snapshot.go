package runtime

import (
	"context"
	"maps"
	"time"

	"github.com/aretw0/checkmark/pkg/domain"
)

// Save captures the persisted state of every section, the owned items, the modes and the placements.
func (e *Engine) Save() *domain.Snapshot {
	snap := domain.NewSnapshot("")
	for _, s := range e.sections {
		snap.Sections[s.ref.String()] = s.state
	}
	snap.Items = e.ctx.Items()
	if snap.Items == nil {
		snap.Items = make(map[string]int)
	}
	snap.Modes = e.ctx.Modes()
	if snap.Modes == nil {
		snap.Modes = make(map[string]string)
	}
	for _, p := range e.placements {
		snap.Bosses[p.name] = p.boss
		snap.Prizes[p.name] = p.prize
	}
	snap.UpdatedAt = time.Now()
	return snap
}

// Load applies the entries present in a snapshot. Sections, items, modes and
// placements the snapshot does not mention keep their current values.
// Unknown keys are skipped.
func (e *Engine) Load(ctx context.Context, snap *domain.Snapshot) {
	if snap == nil {
		return
	}
	skipped := 0
	for key, st := range snap.Sections {
		ref, err := domain.ParseSectionRef(key)
		if err != nil {
			skipped++
			continue
		}
		s, err := e.Section(ref)
		if err != nil {
			skipped++
			continue
		}
		st.Available = max(0, min(st.Available, s.def.Total))
		if st != s.state {
			e.markSection(s)
			s.state = st
		}
		s.clears = nil
	}
	// Present readings stay authoritative over the stored counts.
	for _, s := range e.sections {
		if s.def.Value != NoValue {
			e.markSection(s)
			s.valueDirty = true
		}
	}
	for name, n := range snap.Items {
		e.ctx.setItem(name, n)
	}
	for key, v := range snap.Modes {
		e.ctx.setMode(key, v)
	}
	for name, boss := range snap.Bosses {
		if id, ok := e.placementNames[name]; ok {
			e.loadPlacement(e.placement(id), boss, e.placement(id).prize)
		} else {
			skipped++
		}
	}
	for name, prize := range snap.Prizes {
		if id, ok := e.placementNames[name]; ok {
			e.loadPlacement(e.placement(id), e.placement(id).boss, prize)
		} else {
			skipped++
		}
	}
	// A reconcile during the load means the stored snapshot is stale, so it
	// leaves the tracker unsaved.
	e.unsaved = false
	e.settle(ctx)
	e.logger.InfoContext(ctx, "snapshot loaded", "sections", len(snap.Sections), "skipped", skipped)
}

// settleClean propagates and reports the changes with the unsaved flag
// cleared, so OnUnsaved does not fire for the resulting state.
func (e *Engine) settleClean(ctx context.Context) {
	if !e.started || e.settling {
		e.unsaved = false
		return
	}
	e.propagate(ctx)
	e.unsaved = false
	e.unsavedRaised = false
	e.flush(ctx)
}

func (e *Engine) loadPlacement(p *placement, boss, prize string) {
	if p.boss == boss && p.prize == prize {
		return
	}
	p.boss, p.prize = boss, prize
	e.markPlacement(p)
}

// Reset returns every section to Available = Total with no marking, restores the
// catalog items, modes and placements, and clears the unsaved flag.
// Present auto-tracker readings are reconciled again afterwards.
func (e *Engine) Reset(ctx context.Context) {
	for _, s := range e.sections {
		e.markSection(s)
		s.state = domain.SectionState{Available: s.def.Total}
		s.clears = nil
		if s.def.Value != NoValue {
			s.valueDirty = true
		}
	}
	e.ctx.reset()
	for _, p := range e.placements {
		e.loadPlacement(p, p.defaultBoss, p.defaultPrize)
	}
	e.settleClean(ctx)
	e.logger.InfoContext(ctx, "tracker reset", "sections", len(e.sections))
}

// Memory returns a copy of the current auto-tracker readings.
func (e *Engine) Memory() map[int]int {
	return maps.Clone(e.memory)
}
