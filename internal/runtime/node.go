package runtime

import (
	"fmt"
	"slices"

	"github.com/aretw0/checkmark/pkg/domain"
)

// Connection is one inbound way to reach a node.
type Connection struct {
	From        NodeID
	Requirement ReqID
	// Max caps the contribution of the connection.
	Max domain.AccessibilityLevel
}

// Edge returns an uncapped connection from a node gated by a requirement.
func Edge(from NodeID, req ReqID) Connection {
	return Connection{From: from, Requirement: req, Max: domain.Normal}
}

// Node is a named reachability point.
type Node struct {
	id      NodeID
	name    string
	entry   bool
	inbound []Connection
	level   domain.AccessibilityLevel
	// exits counts collected entrance sections leading into this node.
	exits int

	dependents []NodeID
	pools      []PoolID
	sections   []SectionID
}

func (n *Node) ID() NodeID                       { return n.id }
func (n *Node) Name() string                     { return n.name }
func (n *Node) Entry() bool                      { return n.entry }
func (n *Node) Level() domain.AccessibilityLevel { return n.level }
func (n *Node) Exits() int                       { return n.exits }
func (n *Node) Inbound() []Connection            { return slices.Clone(n.inbound) }

// AddNode registers a node. Entry nodes are always Normal.
func (e *Engine) AddNode(name string, entry bool) (NodeID, error) {
	if err := e.checkBuilding(); err != nil {
		return NoNode, err
	}
	if name == "" {
		return NoNode, fmt.Errorf("%w: node name is required", domain.ErrConfiguration)
	}
	if _, dup := e.nodeNames[name]; dup {
		return NoNode, fmt.Errorf("%w: duplicate node %q", domain.ErrConfiguration, name)
	}
	id := NodeID(len(e.nodes) + 1)
	e.nodes = append(e.nodes, &Node{id: id, name: name, entry: entry})
	e.nodeSeeds.grow()
	e.nodeNames[name] = id
	return id, nil
}

// Connect adds an inbound connection to a node.
func (e *Engine) Connect(to NodeID, c Connection) error {
	if err := e.checkBuilding(); err != nil {
		return err
	}
	if !e.validNode(to) || !e.validNode(c.From) {
		return fmt.Errorf("%w: connection %d -> %d references an unknown node", domain.ErrConfiguration, c.From, to)
	}
	if c.Requirement != NoRequirement && !e.validReq(c.Requirement) {
		return fmt.Errorf("%w: connection into %q references unknown requirement %d", domain.ErrConfiguration, e.node(to).name, c.Requirement)
	}
	if !c.Max.Valid() {
		return fmt.Errorf("%w: connection into %q has invalid cap %d", domain.ErrConfiguration, e.node(to).name, c.Max)
	}
	target := e.node(to)
	target.inbound = append(target.inbound, c)
	source := e.node(c.From)
	if !slices.Contains(source.dependents, to) {
		source.dependents = append(source.dependents, to)
	}
	if c.Requirement != NoRequirement {
		r := e.req(c.Requirement)
		if !slices.Contains(r.nodes, to) {
			r.nodes = append(r.nodes, to)
		}
	}
	return nil
}

// Node returns a node by id.
func (e *Engine) Node(id NodeID) *Node {
	if !e.validNode(id) {
		return nil
	}
	return e.node(id)
}

// NodeByName resolves a node id.
func (e *Engine) NodeByName(name string) (NodeID, bool) {
	id, ok := e.nodeNames[name]
	return id, ok
}

// Nodes returns every node in registration order.
func (e *Engine) Nodes() []*Node {
	return slices.Clone(e.nodes)
}

// NodeLevel returns the live accessibility of a node. NoNode is Normal.
func (e *Engine) NodeLevel(id NodeID) domain.AccessibilityLevel {
	if id == NoNode {
		return domain.Normal
	}
	return e.node(id).level
}

func (e *Engine) node(id NodeID) *Node {
	return e.nodes[id-1]
}

func (e *Engine) validNode(id NodeID) bool {
	return id > NoNode && int(id) <= len(e.nodes)
}

func (e *Engine) seedNode(id NodeID) {
	e.nodeSeeds.mark(int(id) - 1)
}

// evalNode joins the inbound connections. Sources below SequenceBreak are skipped.
func (e *Engine) evalNode(n *Node) domain.AccessibilityLevel {
	if n.entry || n.exits > 0 {
		return domain.Normal
	}
	result := domain.None
	for _, c := range n.inbound {
		source := e.node(c.From).level
		if source < domain.SequenceBreak {
			continue
		}
		candidate := domain.Meet(source, e.RequirementLevel(c.Requirement), c.Max)
		if candidate == domain.Normal {
			return domain.Normal
		}
		result = domain.Join(result, candidate)
	}
	return result
}

// settleNodes recomputes the region reachable from the seeded nodes.
//
// The region is reset to None and evalNode is iterated from there with a worklist.
// evalNode is monotone, so levels only rise and the loop stops at the least fixed
// point. Nodes outside the region never depend on it and keep their values.
func (e *Engine) settleNodes() {
	if e.nodeSeeds.empty() {
		return
	}

	inRegion := make([]bool, len(e.nodes))
	var region []NodeID
	var stack []NodeID
	for i := range e.nodes {
		if e.nodeSeeds.take(i) {
			stack = append(stack, NodeID(i+1))
		}
	}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if inRegion[id-1] {
			continue
		}
		inRegion[id-1] = true
		region = append(region, id)
		stack = append(stack, e.node(id).dependents...)
	}
	slices.Sort(region)

	before := make([]domain.AccessibilityLevel, len(region))
	for i, id := range region {
		n := e.node(id)
		before[i] = n.level
		if _, seen := e.nodeBefore[id]; !seen {
			e.nodeBefore[id] = n.level
		}
		n.level = domain.None
	}

	queued := make([]bool, len(e.nodes))
	work := slices.Clone(region)
	for _, id := range work {
		queued[id-1] = true
	}
	for len(work) > 0 {
		id := work[0]
		work = work[1:]
		queued[id-1] = false
		n := e.node(id)
		next := e.evalNode(n)
		if next == n.level {
			continue
		}
		n.level = next
		for _, dep := range n.dependents {
			if inRegion[dep-1] && !queued[dep-1] {
				queued[dep-1] = true
				work = append(work, dep)
			}
		}
	}

	changed := 0
	for i, id := range region {
		n := e.node(id)
		if n.level == before[i] {
			continue
		}
		changed++
		for _, p := range n.pools {
			e.dirtyPools.mark(int(p) - 1)
		}
		for _, s := range n.sections {
			e.markSection(e.section(s))
		}
	}
	e.logger.Debug("nodes settled", "region", len(region), "changed", changed)
}
