package dsl

import (
	"github.com/aretw0/checkmark/pkg/domain"
	"github.com/aretw0/checkmark/pkg/schema"
)

// NodeBuilder provides a fluent API for configuring a node.
type NodeBuilder struct {
	spec schema.NodeSpec
}

// Entry marks the node as a starting point, always Normal.
func (n *NodeBuilder) Entry() *NodeBuilder {
	n.spec.Entry = true
	return n
}

// From adds an inbound connection gated by a requirement. An empty requirement is always open.
func (n *NodeBuilder) From(source, requirement string) *NodeBuilder {
	n.spec.Connections = append(n.spec.Connections, schema.ConnectionSpec{
		From:        source,
		Requirement: requirement,
	})
	return n
}

// FromAt adds an inbound connection whose contribution is capped at max.
func (n *NodeBuilder) FromAt(source, requirement string, max domain.AccessibilityLevel) *NodeBuilder {
	n.spec.Connections = append(n.spec.Connections, schema.ConnectionSpec{
		From:        source,
		Requirement: requirement,
		Max:         max.String(),
	})
	return n
}

// Spec returns the underlying schema.NodeSpec.
func (n *NodeBuilder) Spec() schema.NodeSpec {
	return n.spec
}

// PoolBuilder provides a fluent API for configuring a dungeon pool.
type PoolBuilder struct {
	spec schema.PoolSpec
}

// Slot adds an item slot reached through node and gated by requirement.
func (p *PoolBuilder) Slot(node, requirement string) *PoolBuilder {
	p.spec.Slots = append(p.spec.Slots, schema.SlotSpec{Node: node, Requirement: requirement})
	return p
}

// Slots adds n ungated slots at node.
func (p *PoolBuilder) Slots(node string, n int) *PoolBuilder {
	for range n {
		p.Slot(node, "")
	}
	return p
}
