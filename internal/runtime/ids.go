package runtime

// ReqID addresses a requirement. NoRequirement means "always Normal".
type ReqID int

// NodeID addresses a node. NoNode means "no node".
type NodeID int

// ValueID addresses an auto-track value. NoValue means "not auto-tracked".
type ValueID int

// PoolID addresses a dungeon pool.
type PoolID int

// PlacementID addresses a boss/prize placement.
type PlacementID int

// SectionID addresses a section.
type SectionID int

const (
	NoRequirement ReqID       = 0
	NoNode        NodeID      = 0
	NoValue       ValueID     = 0
	NoPool        PoolID      = 0
	NoPlacement   PlacementID = 0
)

// dirtySet tracks arena indexes awaiting recomputation.
type dirtySet struct {
	marked []bool
	count  int
}

func (d *dirtySet) grow() {
	d.marked = append(d.marked, false)
}

func (d *dirtySet) mark(i int) {
	if !d.marked[i] {
		d.marked[i] = true
		d.count++
	}
}

func (d *dirtySet) markAll() {
	for i := range d.marked {
		d.mark(i)
	}
}

// take clears the mark of i and reports whether it was set.
func (d *dirtySet) take(i int) bool {
	if !d.marked[i] {
		return false
	}
	d.marked[i] = false
	d.count--
	return true
}

func (d *dirtySet) empty() bool {
	return d.count == 0
}

func (d *dirtySet) clear() {
	for i := range d.marked {
		d.marked[i] = false
	}
	d.count = 0
}
