package dsl

import (
	"fmt"

	"github.com/aretw0/checkmark/pkg/adapters/memory"
	"github.com/aretw0/checkmark/pkg/schema"
)

// Builder manages the catalog construction. Elements keep their declaration order.
type Builder struct {
	cat *schema.Catalog

	reqs       map[string]*RequirementBuilder
	nodes      map[string]*NodeBuilder
	values     map[string]*ValueBuilder
	pools      map[string]*PoolBuilder
	locations  map[string]*LocationBuilder
	reqOrder   []*RequirementBuilder
	nodeOrder  []*NodeBuilder
	valueOrder []*ValueBuilder
	poolOrder  []*PoolBuilder
	locOrder   []*LocationBuilder
}

// New creates a new catalog builder.
func New(name string) *Builder {
	return &Builder{
		cat:       &schema.Catalog{Name: name},
		reqs:      make(map[string]*RequirementBuilder),
		nodes:     make(map[string]*NodeBuilder),
		values:    make(map[string]*ValueBuilder),
		pools:     make(map[string]*PoolBuilder),
		locations: make(map[string]*LocationBuilder),
	}
}

// Item sets the starting count of an item.
func (b *Builder) Item(name string, n int) *Builder {
	if b.cat.Items == nil {
		b.cat.Items = make(map[string]int)
	}
	b.cat.Items[name] = n
	return b
}

// Mode sets the starting value of a mode setting.
func (b *Builder) Mode(key, value string) *Builder {
	if b.cat.Modes == nil {
		b.cat.Modes = make(map[string]string)
	}
	b.cat.Modes[key] = value
	return b
}

// Boss maps a boss kind to the requirement needed to defeat it.
func (b *Builder) Boss(boss, requirement string) *Builder {
	if b.cat.Bosses == nil {
		b.cat.Bosses = make(map[string]string)
	}
	b.cat.Bosses[boss] = requirement
	return b
}

// Placement declares a boss/prize slot with its default contents.
func (b *Builder) Placement(id, boss, prize string) *Builder {
	for i, p := range b.cat.Placements {
		if p.ID == id {
			b.cat.Placements[i] = schema.PlacementSpec{ID: id, Boss: boss, Prize: prize}
			return b
		}
	}
	b.cat.Placements = append(b.cat.Placements, schema.PlacementSpec{ID: id, Boss: boss, Prize: prize})
	return b
}

// Requirement starts or resumes a requirement declaration.
func (b *Builder) Requirement(id string) *RequirementBuilder {
	if rb, ok := b.reqs[id]; ok {
		return rb
	}
	rb := &RequirementBuilder{spec: schema.RequirementSpec{ID: id, Type: "static", Args: map[string]any{}}}
	b.reqs[id] = rb
	b.reqOrder = append(b.reqOrder, rb)
	return rb
}

// Node starts or resumes a node declaration.
func (b *Builder) Node(id string) *NodeBuilder {
	if nb, ok := b.nodes[id]; ok {
		return nb
	}
	nb := &NodeBuilder{spec: schema.NodeSpec{ID: id}}
	b.nodes[id] = nb
	b.nodeOrder = append(b.nodeOrder, nb)
	return nb
}

// Value starts or resumes an auto-track value declaration.
func (b *Builder) Value(id string) *ValueBuilder {
	if vb, ok := b.values[id]; ok {
		return vb
	}
	vb := &ValueBuilder{spec: schema.ValueSpec{ID: id, Args: map[string]any{}}}
	b.values[id] = vb
	b.valueOrder = append(b.valueOrder, vb)
	return vb
}

// Pool starts or resumes a dungeon pool declaration.
func (b *Builder) Pool(id string) *PoolBuilder {
	if pb, ok := b.pools[id]; ok {
		return pb
	}
	pb := &PoolBuilder{spec: schema.PoolSpec{ID: id}}
	b.pools[id] = pb
	b.poolOrder = append(b.poolOrder, pb)
	return pb
}

// Location starts or resumes a location declaration. An empty name keeps the current one.
func (b *Builder) Location(id, name string) *LocationBuilder {
	if lb, ok := b.locations[id]; ok {
		if name != "" {
			lb.spec.Name = name
		}
		return lb
	}
	lb := &LocationBuilder{spec: schema.LocationSpec{ID: id, Name: name}}
	b.locations[id] = lb
	b.locOrder = append(b.locOrder, lb)
	return lb
}

// Catalog assembles the catalog without validating it.
func (b *Builder) Catalog() *schema.Catalog {
	cat := *b.cat
	cat.Requirements = make([]schema.RequirementSpec, 0, len(b.reqOrder))
	for _, rb := range b.reqOrder {
		cat.Requirements = append(cat.Requirements, rb.spec)
	}
	cat.Nodes = make([]schema.NodeSpec, 0, len(b.nodeOrder))
	for _, nb := range b.nodeOrder {
		cat.Nodes = append(cat.Nodes, nb.spec)
	}
	cat.Values = make([]schema.ValueSpec, 0, len(b.valueOrder))
	for _, vb := range b.valueOrder {
		cat.Values = append(cat.Values, vb.spec)
	}
	cat.Pools = make([]schema.PoolSpec, 0, len(b.poolOrder))
	for _, pb := range b.poolOrder {
		cat.Pools = append(cat.Pools, pb.spec)
	}
	cat.Locations = make([]schema.LocationSpec, 0, len(b.locOrder))
	for _, lb := range b.locOrder {
		loc := lb.spec
		loc.Sections = make([]schema.SectionSpec, 0, len(lb.sections))
		for _, sb := range lb.sections {
			loc.Sections = append(loc.Sections, sb.spec)
		}
		cat.Locations = append(cat.Locations, loc)
	}
	return &cat
}

// Build assembles and validates the catalog.
func (b *Builder) Build() (*schema.Catalog, error) {
	cat := b.Catalog()
	if err := schema.Validate(cat); err != nil {
		return nil, fmt.Errorf("invalid catalog %q: %w", cat.Name, err)
	}
	return cat, nil
}

// Loader builds the catalog into a static CatalogLoader.
func (b *Builder) Loader() (*memory.Loader, error) {
	cat, err := b.Build()
	if err != nil {
		return nil, err
	}
	return memory.NewLoader(cat), nil
}
