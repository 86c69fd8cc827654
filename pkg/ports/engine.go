package ports

import (
	"context"

	"github.com/aretw0/checkmark/pkg/domain"
)

// Tracker is the surface host adapters (HTTP, MCP, CLI) drive.
// Implementations serialise every call; the checkmark.Tracker facade is the reference one.
type Tracker interface {
	ID() string

	// Locations returns the status of every location in catalog order.
	Locations() []domain.LocationStatus
	Location(id string) (domain.LocationStatus, error)

	Collect(ctx context.Context, ref domain.SectionRef, force bool) error
	Uncollect(ctx context.Context, ref domain.SectionRef) error
	SetItem(ctx context.Context, name string, n int) error
	SetMode(ctx context.Context, key, value string) error
	WriteMemory(ctx context.Context, addr, value int) error

	Undo(ctx context.Context) error
	Redo(ctx context.Context) error

	Snapshot() *domain.Snapshot
	Save(ctx context.Context) (*domain.Snapshot, error)
	Reset(ctx context.Context) error

	// Err is non-nil once propagation failed to settle.
	Err() error
}
