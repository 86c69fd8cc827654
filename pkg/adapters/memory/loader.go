package memory

import (
	"context"
	"fmt"

	"github.com/aretw0/checkmark/internal/compiler"
	"github.com/aretw0/checkmark/pkg/schema"
)

// Loader implements ports.CatalogLoader over a catalog held in memory.
type Loader struct {
	catalog *schema.Catalog
}

// NewLoader wraps an already built catalog (e.g. from the dsl package).
func NewLoader(cat *schema.Catalog) *Loader {
	return &Loader{catalog: cat}
}

// NewLoaderFromBytes parses a YAML or JSON catalog document.
// This improves DX for tests that embed a catalog inline.
func NewLoaderFromBytes(data []byte) (*Loader, error) {
	cat, err := compiler.NewParser().Parse(data)
	if err != nil {
		return nil, err
	}
	return &Loader{catalog: cat}, nil
}

// Load returns the catalog.
func (l *Loader) Load(ctx context.Context) (*schema.Catalog, error) {
	if l.catalog == nil {
		return nil, fmt.Errorf("memory loader: no catalog")
	}
	return l.catalog, nil
}
