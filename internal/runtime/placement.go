package runtime

import (
	"context"
	"fmt"

	"github.com/aretw0/checkmark/pkg/domain"
)

type placement struct {
	name         string
	boss         string
	prize        string
	defaultBoss  string
	defaultPrize string
	sections     []SectionID
}

// AddPlacement registers a mutable boss/prize assignment with its catalog defaults.
func (e *Engine) AddPlacement(name, boss, prize string) (PlacementID, error) {
	if err := e.checkBuilding(); err != nil {
		return NoPlacement, err
	}
	if name == "" {
		return NoPlacement, fmt.Errorf("%w: placement name is required", domain.ErrConfiguration)
	}
	if _, dup := e.placementNames[name]; dup {
		return NoPlacement, fmt.Errorf("%w: duplicate placement %q", domain.ErrConfiguration, name)
	}
	id := PlacementID(len(e.placements) + 1)
	e.placements = append(e.placements, &placement{
		name: name, boss: boss, prize: prize, defaultBoss: boss, defaultPrize: prize,
	})
	e.placementNames[name] = id
	return id, nil
}

// MapBoss binds a boss kind to the requirement needed to defeat it.
func (e *Engine) MapBoss(boss string, req ReqID) error {
	if err := e.checkBuilding(); err != nil {
		return err
	}
	if !e.validReq(req) {
		return fmt.Errorf("%w: boss %q references an unknown requirement", domain.ErrConfiguration, boss)
	}
	e.bossReqs[boss] = req
	e.req(req).boss = true
	return nil
}

// PlacementByName resolves a placement id.
func (e *Engine) PlacementByName(name string) (PlacementID, bool) {
	id, ok := e.placementNames[name]
	return id, ok
}

// Placement returns the current boss and prize of a placement.
func (e *Engine) Placement(id PlacementID) (boss, prize string) {
	if !e.validPlacement(id) {
		return "", ""
	}
	p := e.placement(id)
	return p.boss, p.prize
}

// SetBoss changes the boss occupying a placement.
func (e *Engine) SetBoss(ctx context.Context, id PlacementID, boss string) error {
	if !e.validPlacement(id) {
		return fmt.Errorf("placement %d: %w", id, domain.ErrUnknownPlacement)
	}
	p := e.placement(id)
	if p.boss == boss {
		return nil
	}
	p.boss = boss
	e.markPlacement(p)
	e.settle(ctx)
	return nil
}

// SetPrize changes the prize held by a placement. A collected prize section moves its contribution.
func (e *Engine) SetPrize(ctx context.Context, id PlacementID, prize string) error {
	if !e.validPlacement(id) {
		return fmt.Errorf("placement %d: %w", id, domain.ErrUnknownPlacement)
	}
	p := e.placement(id)
	if p.prize == prize {
		return nil
	}
	p.prize = prize
	e.markPlacement(p)
	e.settle(ctx)
	return nil
}

func (e *Engine) placement(id PlacementID) *placement {
	return e.placements[id-1]
}

func (e *Engine) validPlacement(id PlacementID) bool {
	return id > NoPlacement && int(id) <= len(e.placements)
}

func (e *Engine) markPlacement(p *placement) {
	for _, s := range p.sections {
		e.markSection(e.section(s))
	}
}

// bossLevel is the level of the requirement bound to the placement's boss.
// Unknown or unset bosses do not restrict the section.
func (e *Engine) bossLevel(id PlacementID) domain.AccessibilityLevel {
	if id == NoPlacement {
		return domain.Normal
	}
	req, ok := e.bossReqs[e.placement(id).boss]
	if !ok {
		return domain.Normal
	}
	return e.req(req).level
}

// PlacementHandle binds a placement to its engine so callers can read and swap its contents.
type PlacementHandle struct {
	e  *Engine
	id PlacementID
}

// PlacementHandle returns a handle on a placement.
func (e *Engine) PlacementHandle(id PlacementID) (PlacementHandle, error) {
	if !e.validPlacement(id) {
		return PlacementHandle{}, fmt.Errorf("placement %d: %w", id, domain.ErrUnknownPlacement)
	}
	return PlacementHandle{e: e, id: id}, nil
}

func (h PlacementHandle) Name() string  { return h.e.placement(h.id).name }
func (h PlacementHandle) Boss() string  { return h.e.placement(h.id).boss }
func (h PlacementHandle) Prize() string { return h.e.placement(h.id).prize }

func (h PlacementHandle) SetBoss(ctx context.Context, boss string) error {
	return h.e.SetBoss(ctx, h.id, boss)
}

func (h PlacementHandle) SetPrize(ctx context.Context, prize string) error {
	return h.e.SetPrize(ctx, h.id, prize)
}
