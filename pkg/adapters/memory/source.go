package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/aretw0/checkmark/pkg/ports"
)

// Source implements ports.MemorySource for tests and for hosts that receive
// readings over their own transport. Safe for concurrent use.
type Source struct {
	mu     sync.RWMutex
	values map[int]int
	subs   map[*subscriber]struct{}
}

// subscriber merges readings the consumer has not taken yet, keeping the
// latest value per address, so writers never block and nothing is lost.
type subscriber struct {
	mu      sync.Mutex
	pending map[int]int
	wake    chan struct{}
}

func (sub *subscriber) push(batch []ports.MemoryReading) {
	sub.mu.Lock()
	for _, r := range batch {
		sub.pending[r.Address] = r.Value
	}
	sub.mu.Unlock()
	select {
	case sub.wake <- struct{}{}:
	default:
	}
}

func (sub *subscriber) take() []ports.MemoryReading {
	sub.mu.Lock()
	defer sub.mu.Unlock()
	batch := make([]ports.MemoryReading, 0, len(sub.pending))
	for addr, v := range sub.pending {
		batch = append(batch, ports.MemoryReading{Address: addr, Value: v})
	}
	clear(sub.pending)
	sort.Slice(batch, func(i, j int) bool { return batch[i].Address < batch[j].Address })
	return batch
}

// NewSource creates an empty memory source.
func NewSource() *Source {
	return &Source{
		values: make(map[int]int),
		subs:   make(map[*subscriber]struct{}),
	}
}

// Read returns the last written value at addr.
func (s *Source) Read(addr int) (int, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[addr]
	return v, ok
}

// Write records a single reading and publishes it.
func (s *Source) Write(addr, value int) {
	s.mu.Lock()
	s.values[addr] = value
	s.mu.Unlock()
	s.publish([]ports.MemoryReading{{Address: addr, Value: value}})
}

// Replace swaps the whole memory image and publishes it as one batch.
func (s *Source) Replace(values map[int]int) {
	batch := make([]ports.MemoryReading, 0, len(values))
	s.mu.Lock()
	s.values = make(map[int]int, len(values))
	for addr, v := range values {
		s.values[addr] = v
		batch = append(batch, ports.MemoryReading{Address: addr, Value: v})
	}
	s.mu.Unlock()
	s.publish(batch)
}

// Subscribe streams batches until ctx is canceled. Readings published while
// the consumer is busy are merged into its next batch.
func (s *Source) Subscribe(ctx context.Context) (<-chan []ports.MemoryReading, error) {
	sub := &subscriber{
		pending: make(map[int]int),
		wake:    make(chan struct{}, 1),
	}
	s.mu.Lock()
	s.subs[sub] = struct{}{}
	s.mu.Unlock()

	out := make(chan []ports.MemoryReading)
	go func() {
		defer close(out)
		defer func() {
			s.mu.Lock()
			delete(s.subs, sub)
			s.mu.Unlock()
		}()
		for {
			select {
			case <-ctx.Done():
				return
			case <-sub.wake:
			}
			batch := sub.take()
			if len(batch) == 0 {
				continue
			}
			select {
			case out <- batch:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out, nil
}

func (s *Source) publish(batch []ports.MemoryReading) {
	if len(batch) == 0 {
		return
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	for sub := range s.subs {
		sub.push(batch)
	}
}
