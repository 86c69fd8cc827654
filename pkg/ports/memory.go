package ports

import "context"

// MemoryReading is one emulator memory observation. Addresses are opaque integers.
type MemoryReading struct {
	Address int
	Value   int
}

// MemorySource delivers auto-tracking readings.
type MemorySource interface {
	// Read returns the last known value at addr.
	Read(addr int) (int, bool)

	// Subscribe streams batches of readings until ctx is canceled. Addresses
	// missing from a batch keep their last value. The channel is closed when
	// the source stops.
	Subscribe(ctx context.Context) (<-chan []MemoryReading, error)
}
