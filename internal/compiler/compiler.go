// Package compiler turns a schema.Catalog into a live runtime.Engine.
//
// Compilation fails fast: the catalog is validated first, and any structural
// problem is returned wrapped in domain.ErrConfiguration before a single
// element is wired.
package compiler

import (
	"context"
	"fmt"

	"github.com/aretw0/checkmark/internal/runtime"
	"github.com/aretw0/checkmark/pkg/domain"
	"github.com/aretw0/checkmark/pkg/schema"
)

// Compile validates the catalog, wires every element into a new engine and starts it.
func Compile(ctx context.Context, cat *schema.Catalog, opts ...runtime.EngineOption) (*runtime.Engine, error) {
	if err := schema.Validate(cat); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrConfiguration, err)
	}
	c := &compilation{cat: cat, e: runtime.NewEngine(opts...)}
	if err := c.build(); err != nil {
		return nil, err
	}
	if err := c.e.Start(ctx); err != nil {
		return nil, err
	}
	return c.e, nil
}

type compilation struct {
	cat *schema.Catalog
	e   *runtime.Engine

	reqs       map[string]runtime.ReqID
	nodes      map[string]runtime.NodeID
	values     map[string]runtime.ValueID
	pools      map[string]runtime.PoolID
	placements map[string]runtime.PlacementID
}

func (c *compilation) build() error {
	c.reqs = make(map[string]runtime.ReqID)
	c.nodes = make(map[string]runtime.NodeID)
	c.values = make(map[string]runtime.ValueID)
	c.pools = make(map[string]runtime.PoolID)
	c.placements = make(map[string]runtime.PlacementID)

	if err := c.e.SetDefaults(c.cat.Items, c.cat.Modes); err != nil {
		return err
	}
	steps := []func() error{
		c.requirements,
		c.graph,
		c.autoTrack,
		c.dungeonPools,
		c.bosses,
		c.locations,
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return err
		}
	}
	return nil
}

func (c *compilation) requirements() error {
	sorted, err := schema.SortRequirements(c.cat)
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrConfiguration, err)
	}
	for _, spec := range sorted {
		args, err := schema.DecodeRequirementArgs(spec)
		if err != nil {
			return fmt.Errorf("%w: requirement %q: %w", domain.ErrConfiguration, spec.ID, err)
		}
		def := runtime.RequirementDef{
			Kind:  runtime.RequirementKind(spec.Type),
			Level: domain.Normal,
			Item:  args.Item,
			Min:   args.Min,
			Key:   args.Key,
		}
		if args.Level != nil {
			def.Level = *args.Level
		}
		if args.Value != "" {
			def.Values = append(def.Values, args.Value)
		}
		def.Values = append(def.Values, args.Values...)
		if def.Kind == runtime.ReqSequenceBreak {
			def.Key = args.Name
		}
		for _, ref := range args.Refs() {
			def.Children = append(def.Children, c.reqs[ref])
		}
		id, err := c.e.AddRequirement(spec.ID, def)
		if err != nil {
			return err
		}
		c.reqs[spec.ID] = id
	}
	return nil
}

func (c *compilation) graph() error {
	for _, spec := range c.cat.Nodes {
		id, err := c.e.AddNode(spec.ID, spec.Entry)
		if err != nil {
			return err
		}
		c.nodes[spec.ID] = id
	}
	for _, spec := range c.cat.Nodes {
		for _, conn := range spec.Connections {
			limit := domain.Normal
			if conn.Max != "" {
				parsed, err := domain.ParseAccessibilityLevel(conn.Max)
				if err != nil {
					return fmt.Errorf("%w: node %q: %w", domain.ErrConfiguration, spec.ID, err)
				}
				limit = parsed
			}
			err := c.e.Connect(c.nodes[spec.ID], runtime.Connection{
				From:        c.nodes[conn.From],
				Requirement: c.reqs[conn.Requirement],
				Max:         limit,
			})
			if err != nil {
				return err
			}
		}
	}
	return nil
}

func (c *compilation) autoTrack() error {
	sorted, err := schema.SortValues(c.cat)
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrConfiguration, err)
	}
	for _, spec := range sorted {
		args, err := schema.DecodeValueArgs(spec)
		if err != nil {
			return fmt.Errorf("%w: value %q: %w", domain.ErrConfiguration, spec.ID, err)
		}
		def := runtime.ValueDef{
			Kind:        runtime.ValueKind(spec.Type),
			Address:     args.Address,
			Compare:     args.Compare,
			Operand:     args.Value,
			Adjustment:  args.Adjustment,
			Mask:        args.Mask,
			Shift:       args.Shift,
			Flag:        args.Flag,
			Multiplier:  args.Multiplier,
			Constant:    args.Constant,
			Requirement: c.reqs[args.Requirement],
		}
		if args.Max != nil {
			def.Max, def.HasMax = *args.Max, true
		}
		for _, ref := range args.Refs() {
			def.Children = append(def.Children, c.values[ref])
		}
		id, err := c.e.AddValue(spec.ID, def)
		if err != nil {
			return err
		}
		c.values[spec.ID] = id
	}
	return nil
}

func (c *compilation) dungeonPools() error {
	for _, spec := range c.cat.Pools {
		slots := make([]runtime.Slot, 0, len(spec.Slots))
		for _, s := range spec.Slots {
			slots = append(slots, runtime.Slot{Node: c.nodes[s.Node], Requirement: c.reqs[s.Requirement]})
		}
		id, err := c.e.AddPool(spec.ID, slots)
		if err != nil {
			return err
		}
		c.pools[spec.ID] = id
	}
	return nil
}

func (c *compilation) bosses() error {
	for boss, req := range c.cat.Bosses {
		if err := c.e.MapBoss(boss, c.reqs[req]); err != nil {
			return err
		}
	}
	for _, spec := range c.cat.Placements {
		id, err := c.e.AddPlacement(spec.ID, spec.Boss, spec.Prize)
		if err != nil {
			return err
		}
		c.placements[spec.ID] = id
	}
	return nil
}

func (c *compilation) locations() error {
	for _, spec := range c.cat.Locations {
		loc, err := c.e.AddLocation(spec.ID, spec.Name)
		if err != nil {
			return err
		}
		for _, s := range spec.Sections {
			_, err := c.e.AddSection(loc, runtime.SectionDef{
				Name:        s.Name,
				Kind:        domain.SectionKind(s.Kind),
				Total:       s.Total,
				Markable:    s.Markable,
				Node:        c.nodes[s.Node],
				Requirement: c.reqs[s.Requirement],
				Visible:     c.nodes[s.Visible],
				Pool:        c.pools[s.Pool],
				Value:       c.values[s.Value],
				Placement:   c.placements[s.Placement],
				ExitNode:    c.nodes[s.ExitNode],
			})
			if err != nil {
				return err
			}
		}
	}
	return nil
}
