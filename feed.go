package checkmark

import (
	"context"
	"fmt"

	"github.com/aretw0/checkmark/pkg/ports"
)

// Attach subscribes to a memory source and applies every batch it delivers
// until ctx is canceled or the source closes its channel. The returned channel
// is closed once the feed stops.
func (t *Tracker) Attach(ctx context.Context, src ports.MemorySource) (<-chan struct{}, error) {
	batches, err := src.Subscribe(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to subscribe to memory source: %w", err)
	}
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			select {
			case <-ctx.Done():
				return
			case batch, ok := <-batches:
				if !ok {
					t.logger.InfoContext(ctx, "memory source closed")
					return
				}
				t.ApplyMemory(ctx, batch)
			}
		}
	}()
	return done, nil
}
