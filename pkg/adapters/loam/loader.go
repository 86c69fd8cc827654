package loam

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/aretw0/loam"
	"github.com/aretw0/checkmark/pkg/schema"
)

// Loader adapts a Loam repository to the ports.CatalogLoader interface.
type Loader struct {
	Repo *loam.TypedRepository[DocumentMetadata]
}

// New creates a new Loam adapter.
func New(repo *loam.TypedRepository[DocumentMetadata]) *Loader {
	return &Loader{Repo: repo}
}

// Open initializes a read-only Loam repository at path.
// Strict mode keeps numeric types consistent across markdown, YAML and JSON documents.
func Open(path string) (*Loader, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("invalid path: %w", err)
	}
	repo, err := loam.Init(absPath,
		loam.WithStrict(true),
		loam.WithReadOnly(true),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize loam: %w", err)
	}
	return New(loam.NewTypedRepository[DocumentMetadata](repo)), nil
}

type locationDoc struct {
	order int
	spec  schema.LocationSpec
}

// Load assembles the catalog from every document in the repository.
func (l *Loader) Load(ctx context.Context) (*schema.Catalog, error) {
	docs, err := l.Repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("loam list failed: %w", err)
	}

	cat := &schema.Catalog{}
	var manifest string
	seen := make(map[string]string)
	var locations []locationDoc

	for _, doc := range docs {
		meta := doc.Data
		rawID := meta.ID
		if rawID == "" {
			rawID = doc.ID
		}
		id := trimExtension(rawID)

		switch meta.Kind {
		case KindCatalog:
			if manifest != "" {
				return nil, fmt.Errorf("multiple catalog documents: '%s' and '%s'", manifest, doc.ID)
			}
			manifest = doc.ID
			cat.Name = meta.Name
			if cat.Name == "" {
				cat.Name = id
			}
			cat.Items = meta.Items
			cat.Modes = meta.Modes
			cat.Requirements = meta.Requirements
			cat.Nodes = meta.Nodes
			cat.Values = meta.Values
			cat.Pools = meta.Pools
			cat.Bosses = meta.Bosses
			cat.Placements = meta.Placements

		case "", KindLocation:
			if existingPath, ok := seen[id]; ok {
				return nil, fmt.Errorf("collision detected: ID '%s' is defined in both '%s' and '%s'", id, existingPath, doc.ID)
			}
			seen[id] = doc.ID
			locations = append(locations, locationDoc{
				order: meta.Order,
				spec:  schema.LocationSpec{ID: id, Name: meta.Name, Sections: meta.Sections},
			})

		default:
			return nil, fmt.Errorf("document '%s': unknown kind %q", doc.ID, meta.Kind)
		}
	}
	if manifest == "" {
		return nil, fmt.Errorf("no catalog document found")
	}

	sort.SliceStable(locations, func(i, j int) bool {
		if locations[i].order != locations[j].order {
			return locations[i].order < locations[j].order
		}
		return locations[i].spec.ID < locations[j].spec.ID
	})
	for _, loc := range locations {
		cat.Locations = append(cat.Locations, loc.spec)
	}
	return cat, nil
}

func trimExtension(id string) string {
	ext := filepath.Ext(id)
	if ext != "" {
		return filepath.ToSlash(strings.TrimSuffix(id, ext))
	}
	return filepath.ToSlash(id)
}

// Watch implements ports.Watchable.
func (l *Loader) Watch(ctx context.Context) (<-chan struct{}, error) {
	events, err := l.Repo.Watch(ctx, "**/*.{md,json,yaml,yml}")
	if err != nil {
		return nil, fmt.Errorf("failed to start loam watcher: %w", err)
	}

	ch := make(chan struct{}, 1)
	go func() {
		defer close(ch)
		for {
			select {
			case <-ctx.Done():
				return
			case _, ok := <-events:
				if !ok {
					return
				}
				// Loam debounces; coalesce anything still queued.
				select {
				case ch <- struct{}{}:
				default:
				}
			}
		}
	}()
	return ch, nil
}
