package runtime

import (
	"fmt"
	"slices"

	"github.com/aretw0/checkmark/pkg/domain"
)

// Slot is one item location inside a dungeon pool.
type Slot struct {
	Node        NodeID
	Requirement ReqID
}

// PoolStatus is the aggregate a dungeon pool provides to its sections.
type PoolStatus struct {
	// Accessible counts slots at SequenceBreak or better.
	Accessible int
	// Normal counts slots reachable with intended logic.
	Normal int
	// Visible is set when any slot can at least be inspected.
	Visible bool
}

// SequenceBreak reports whether part of the accessible count relies on a sequence break.
func (p PoolStatus) SequenceBreak() bool {
	return p.Normal < p.Accessible
}

type pool struct {
	name     string
	slots    []Slot
	status   PoolStatus
	sections []SectionID
}

// AddPool registers a dungeon pool over its item slots.
func (e *Engine) AddPool(name string, slots []Slot) (PoolID, error) {
	if err := e.checkBuilding(); err != nil {
		return NoPool, err
	}
	if _, dup := e.poolNames[name]; dup {
		return NoPool, fmt.Errorf("%w: duplicate pool %q", domain.ErrConfiguration, name)
	}
	id := PoolID(len(e.pools) + 1)
	for _, slot := range slots {
		if !e.validNode(slot.Node) {
			return NoPool, fmt.Errorf("%w: pool %q references an unknown node", domain.ErrConfiguration, name)
		}
		if slot.Requirement != NoRequirement && !e.validReq(slot.Requirement) {
			return NoPool, fmt.Errorf("%w: pool %q references an unknown requirement", domain.ErrConfiguration, name)
		}
	}
	e.pools = append(e.pools, &pool{name: name, slots: slices.Clone(slots)})
	e.dirtyPools.grow()
	e.poolNames[name] = id
	for _, slot := range slots {
		n := e.node(slot.Node)
		if !slices.Contains(n.pools, id) {
			n.pools = append(n.pools, id)
		}
		if slot.Requirement != NoRequirement {
			r := e.req(slot.Requirement)
			if !slices.Contains(r.pools, id) {
				r.pools = append(r.pools, id)
			}
		}
	}
	return id, nil
}

// PoolByName resolves a pool id.
func (e *Engine) PoolByName(name string) (PoolID, bool) {
	id, ok := e.poolNames[name]
	return id, ok
}

// Pool returns the live status of a pool.
func (e *Engine) Pool(id PoolID) PoolStatus {
	if id == NoPool {
		return PoolStatus{}
	}
	return e.pool(id).status
}

func (e *Engine) pool(id PoolID) *pool {
	return e.pools[id-1]
}

func (e *Engine) evalPool(p *pool) PoolStatus {
	var st PoolStatus
	for _, slot := range p.slots {
		level := domain.Meet(e.node(slot.Node).level, e.RequirementLevel(slot.Requirement))
		if level >= domain.SequenceBreak {
			st.Accessible++
		}
		if level == domain.Normal {
			st.Normal++
		}
		if level >= domain.Inspect {
			st.Visible = true
		}
	}
	return st
}

func (e *Engine) settlePools() {
	if e.dirtyPools.empty() {
		return
	}
	for i, p := range e.pools {
		if !e.dirtyPools.take(i) {
			continue
		}
		next := e.evalPool(p)
		if next == p.status {
			continue
		}
		p.status = next
		for _, s := range p.sections {
			e.markSection(e.section(s))
		}
	}
}
