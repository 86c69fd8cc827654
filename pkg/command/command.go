// Package command wraps section mutations in undoable commands.
//
// Factories validate their precondition first and return domain.ErrCommandDeclined
// instead of a command when it does not hold. A command never runs on construction:
// the caller invokes Do, and a History replays Undo and Do.
package command

import (
	"context"
	"fmt"

	"github.com/aretw0/checkmark/pkg/domain"
)

// Command is a symmetric, undoable mutation.
type Command interface {
	Do(ctx context.Context) error
	Undo(ctx context.Context) error
	Name() string
}

// Section is the part of a tracked section the commands drive.
type Section interface {
	Ref() domain.SectionRef
	State() domain.SectionState
	Accessibility() domain.AccessibilityLevel
	Markable() bool
	CanBeCleared(force bool) bool
	CanBeUncollected() bool
	Clear(ctx context.Context, force bool) int
	Uncollect(ctx context.Context) int
	Restore(ctx context.Context, st domain.SectionState)
	SetMarking(ctx context.Context, m domain.MarkKind)
	SetUserManipulated(v bool)
	ForgetClear()
	RememberClear(delta int)
}

// PrizeSlot is a placement whose prize can be swapped.
type PrizeSlot interface {
	Name() string
	Prize() string
	SetPrize(ctx context.Context, prize string) error
}

// Inventory owns item counts.
type Inventory interface {
	Owned(name string) int
	SetItem(ctx context.Context, name string, n int)
}

func declined(format string, args ...any) error {
	return fmt.Errorf("%w: %s", domain.ErrCommandDeclined, fmt.Sprintf(format, args...))
}

// CreateCollectSectionAction returns a command collecting the section.
// On a markable section at exactly Inspect with no marking, the command marks it
// as inspected instead of collecting (unless forced).
func CreateCollectSectionAction(sec Section, force bool) (Command, error) {
	if !sec.CanBeCleared(force) {
		return nil, declined("section %s cannot be collected", sec.Ref())
	}
	return &collectSection{sec: sec, force: force}, nil
}

type collectSection struct {
	sec    Section
	force  bool
	prev   domain.SectionState
	marked bool
}

func (c *collectSection) Name() string {
	return "collect " + c.sec.Ref().String()
}

func (c *collectSection) Do(ctx context.Context) error {
	if !c.sec.CanBeCleared(c.force) {
		return declined("section %s cannot be collected", c.sec.Ref())
	}
	c.prev = c.sec.State()
	c.marked = !c.force &&
		c.sec.Markable() &&
		c.sec.Accessibility() == domain.Inspect &&
		c.prev.Marking == domain.MarkUnknown
	if c.marked {
		c.sec.SetMarking(ctx, domain.MarkInspected)
		return nil
	}
	c.sec.Clear(ctx, c.force)
	c.sec.SetUserManipulated(true)
	return nil
}

func (c *collectSection) Undo(ctx context.Context) error {
	c.sec.Restore(ctx, c.prev)
	if !c.marked {
		c.sec.ForgetClear()
	}
	return nil
}

// CreateUncollectSectionAction returns a command giving back what the last collect took.
func CreateUncollectSectionAction(sec Section) (Command, error) {
	if !sec.CanBeUncollected() {
		return nil, declined("section %s has nothing to uncollect", sec.Ref())
	}
	return &uncollectSection{sec: sec}, nil
}

type uncollectSection struct {
	sec      Section
	prev     domain.SectionState
	restored int
}

func (c *uncollectSection) Name() string {
	return "uncollect " + c.sec.Ref().String()
}

func (c *uncollectSection) Do(ctx context.Context) error {
	if !c.sec.CanBeUncollected() {
		return declined("section %s has nothing to uncollect", c.sec.Ref())
	}
	c.prev = c.sec.State()
	c.restored = c.sec.Uncollect(ctx)
	c.sec.SetUserManipulated(true)
	return nil
}

func (c *uncollectSection) Undo(ctx context.Context) error {
	c.sec.Restore(ctx, c.prev)
	c.sec.RememberClear(c.restored)
	return nil
}

// CreateTogglePrizeSectionAction returns a command that collects an uncollected prize
// section after placing prize in its slot, or uncollects a collected one.
// An empty prize keeps the current placement.
func CreateTogglePrizeSectionAction(sec Section, slot PrizeSlot, force bool, prize string) (Command, error) {
	collected := sec.State().Available == 0
	if collected && !sec.CanBeUncollected() {
		return nil, declined("section %s has nothing to uncollect", sec.Ref())
	}
	if !collected && !sec.CanBeCleared(force) {
		return nil, declined("prize section %s cannot be collected", sec.Ref())
	}
	return &togglePrize{sec: sec, slot: slot, force: force, prize: prize}, nil
}

type togglePrize struct {
	sec   Section
	slot  PrizeSlot
	force bool
	prize string

	prev          domain.SectionState
	prevPrize     string
	wasCollected  bool
	uncollectedBy int
}

func (c *togglePrize) Name() string {
	return "toggle prize " + c.sec.Ref().String()
}

func (c *togglePrize) Do(ctx context.Context) error {
	c.prev = c.sec.State()
	c.prevPrize = c.slot.Prize()
	c.wasCollected = c.prev.Available == 0

	if c.wasCollected {
		if !c.sec.CanBeUncollected() {
			return declined("section %s has nothing to uncollect", c.sec.Ref())
		}
		c.uncollectedBy = c.sec.Uncollect(ctx)
		c.sec.SetUserManipulated(true)
		return nil
	}

	if !c.sec.CanBeCleared(c.force) {
		return declined("prize section %s cannot be collected", c.sec.Ref())
	}
	if c.prize != "" && c.prize != c.prevPrize {
		if err := c.slot.SetPrize(ctx, c.prize); err != nil {
			return fmt.Errorf("failed to place prize %q: %w", c.prize, err)
		}
	}
	c.sec.Clear(ctx, true)
	c.sec.SetUserManipulated(true)
	return nil
}

func (c *togglePrize) Undo(ctx context.Context) error {
	c.sec.Restore(ctx, c.prev)
	if c.wasCollected {
		c.sec.RememberClear(c.uncollectedBy)
	} else {
		c.sec.ForgetClear()
	}
	if c.slot.Prize() != c.prevPrize {
		if err := c.slot.SetPrize(ctx, c.prevPrize); err != nil {
			return fmt.Errorf("failed to restore prize %q: %w", c.prevPrize, err)
		}
	}
	return nil
}

// CreateChangePrizeAction returns a command placing a different prize in a slot.
func CreateChangePrizeAction(slot PrizeSlot, prize string) (Command, error) {
	if slot.Prize() == prize {
		return nil, declined("placement %s already holds %q", slot.Name(), prize)
	}
	return &changePrize{slot: slot, prize: prize}, nil
}

type changePrize struct {
	slot  PrizeSlot
	prize string
	prev  string
}

func (c *changePrize) Name() string {
	return "change prize " + c.slot.Name()
}

func (c *changePrize) Do(ctx context.Context) error {
	c.prev = c.slot.Prize()
	return c.slot.SetPrize(ctx, c.prize)
}

func (c *changePrize) Undo(ctx context.Context) error {
	return c.slot.SetPrize(ctx, c.prev)
}

// CreateSetItemAction returns a command setting the owned count of an item.
func CreateSetItemAction(inv Inventory, name string, n int) (Command, error) {
	if n < 0 {
		return nil, declined("item %q cannot have a negative count", name)
	}
	if inv.Owned(name) == n {
		return nil, declined("item %q already at %d", name, n)
	}
	return &setItem{inv: inv, name: name, n: n}, nil
}

type setItem struct {
	inv  Inventory
	name string
	n    int
	prev int
}

func (c *setItem) Name() string {
	return fmt.Sprintf("set %s to %d", c.name, c.n)
}

func (c *setItem) Do(ctx context.Context) error {
	c.prev = c.inv.Owned(c.name)
	c.inv.SetItem(ctx, c.name, c.n)
	return nil
}

func (c *setItem) Undo(ctx context.Context) error {
	c.inv.SetItem(ctx, c.name, c.prev)
	return nil
}
