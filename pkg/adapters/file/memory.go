package file

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strconv"
	"sync"

	"github.com/aretw0/checkmark/internal/logging"
	"github.com/aretw0/checkmark/pkg/ports"
)

// MemoryWatcher implements ports.MemorySource over a RAM dump file that an
// emulator bridge rewrites. The dump is a JSON object of address → value;
// addresses are decimal or 0x-prefixed hex strings.
type MemoryWatcher struct {
	Path   string
	logger *slog.Logger

	mu     sync.RWMutex
	values map[int]int
}

// MemoryWatcherOption configures a MemoryWatcher.
type MemoryWatcherOption func(*MemoryWatcher)

// WithLogger sets the logger used to report unreadable dumps.
func WithLogger(logger *slog.Logger) MemoryWatcherOption {
	return func(w *MemoryWatcher) {
		w.logger = logger
	}
}

// NewMemoryWatcher creates a watcher for the dump at path. Nothing is read until
// Refresh or Subscribe is called.
func NewMemoryWatcher(path string, opts ...MemoryWatcherOption) *MemoryWatcher {
	w := &MemoryWatcher{
		Path:   path,
		logger: logging.NewNop(),
		values: make(map[int]int),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Read returns the value at addr from the last successfully parsed dump.
func (w *MemoryWatcher) Read(addr int) (int, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	v, ok := w.values[addr]
	return v, ok
}

// Refresh re-reads the dump and returns it as a batch sorted by address.
func (w *MemoryWatcher) Refresh() ([]ports.MemoryReading, error) {
	values, err := readDump(w.Path)
	if err != nil {
		return nil, err
	}
	w.mu.Lock()
	w.values = values
	w.mu.Unlock()

	batch := make([]ports.MemoryReading, 0, len(values))
	for addr, v := range values {
		batch = append(batch, ports.MemoryReading{Address: addr, Value: v})
	}
	sort.Slice(batch, func(i, j int) bool { return batch[i].Address < batch[j].Address })
	return batch, nil
}

// Subscribe delivers the current dump (if any) and then a full batch after each
// change to the file. Unreadable dumps are logged and skipped; a partially
// written file is picked up again on the next write.
func (w *MemoryWatcher) Subscribe(ctx context.Context) (<-chan []ports.MemoryReading, error) {
	changes, err := watchFile(ctx, w.Path)
	if err != nil {
		return nil, err
	}

	out := make(chan []ports.MemoryReading, 1)
	go func() {
		defer close(out)
		emit := func() bool {
			batch, err := w.Refresh()
			if err != nil {
				if !os.IsNotExist(err) {
					w.logger.Warn("skipping unreadable memory dump", "path", w.Path, "err", err)
				}
				return true
			}
			select {
			case out <- batch:
				return true
			case <-ctx.Done():
				return false
			}
		}
		if !emit() {
			return
		}
		for range changes {
			if !emit() {
				return
			}
		}
	}()
	return out, nil
}

func readDump(path string) (map[int]int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var raw map[string]int
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse memory dump: %w", err)
	}
	values := make(map[int]int, len(raw))
	for key, v := range raw {
		addr, err := strconv.ParseInt(key, 0, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid address %q: %w", key, err)
		}
		values[int(addr)] = v
	}
	return values, nil
}
