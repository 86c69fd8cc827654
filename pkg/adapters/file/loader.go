package file

import (
	"context"
	"fmt"
	"os"

	"github.com/aretw0/checkmark/internal/compiler"
	"github.com/aretw0/checkmark/pkg/schema"
)

// Loader implements ports.CatalogLoader and ports.Watchable over a single
// YAML or JSON catalog file.
type Loader struct {
	Path   string
	parser *compiler.Parser
}

// NewLoader creates a loader for the catalog at path.
func NewLoader(path string) *Loader {
	return &Loader{Path: path, parser: compiler.NewParser()}
}

// Load reads and parses the catalog file.
func (l *Loader) Load(ctx context.Context) (*schema.Catalog, error) {
	data, err := os.ReadFile(l.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog: %w", err)
	}
	cat, err := l.parser.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", l.Path, err)
	}
	return cat, nil
}

// Watch signals whenever the catalog file changes.
func (l *Loader) Watch(ctx context.Context) (<-chan struct{}, error) {
	return watchFile(ctx, l.Path)
}
