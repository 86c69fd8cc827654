package runtime

import (
	"fmt"
	"slices"

	"github.com/aretw0/checkmark/pkg/domain"
)

// RequirementKind selects how a requirement evaluates.
type RequirementKind string

const (
	ReqStatic        RequirementKind = "static"
	ReqItem          RequirementKind = "item"
	ReqMode          RequirementKind = "mode"
	ReqSequenceBreak RequirementKind = "sequence_break"
	ReqAll           RequirementKind = "all"
	ReqAny           RequirementKind = "any"
	ReqCap           RequirementKind = "cap"
)

// RequirementDef describes a requirement. Children must be registered before their parent.
type RequirementDef struct {
	Kind RequirementKind
	// Level is the constant for static, the ceiling for cap and the level granted
	// by a satisfied item or mode requirement.
	Level domain.AccessibilityLevel
	// Item and Min configure an item requirement.
	Item string
	Min  int
	// Key and Values configure a mode requirement; Key names the sequence break
	// for a sequence_break requirement.
	Key    string
	Values []string
	// Children are combined by all, any and cap.
	Children []ReqID
}

// Static returns a constant requirement.
func Static(level domain.AccessibilityLevel) RequirementDef {
	return RequirementDef{Kind: ReqStatic, Level: level}
}

// HasItem is Normal while at least min of the item are tracked.
func HasItem(item string, min int) RequirementDef {
	return RequirementDef{Kind: ReqItem, Item: item, Min: min, Level: domain.Normal}
}

// ModeIs is Normal while the mode key holds one of the values.
func ModeIs(key string, values ...string) RequirementDef {
	return RequirementDef{Kind: ReqMode, Key: key, Values: values, Level: domain.Normal}
}

// SequenceBreakEnabled is SequenceBreak while the named sequence break is not turned off.
func SequenceBreakEnabled(name string) RequirementDef {
	return RequirementDef{Kind: ReqSequenceBreak, Key: name}
}

// AllOf is the Meet of its children.
func AllOf(children ...ReqID) RequirementDef {
	return RequirementDef{Kind: ReqAll, Children: children}
}

// AnyOf is the Join of its children.
func AnyOf(children ...ReqID) RequirementDef {
	return RequirementDef{Kind: ReqAny, Children: children}
}

// Capped limits a child to the given level.
func Capped(child ReqID, level domain.AccessibilityLevel) RequirementDef {
	return RequirementDef{Kind: ReqCap, Children: []ReqID{child}, Level: level}
}

type requirement struct {
	name  string
	def   RequirementDef
	level domain.AccessibilityLevel

	dependents []ReqID
	nodes      []NodeID
	values     []ValueID
	pools      []PoolID
	sections   []SectionID
	boss       bool
}

// AddRequirement registers a requirement and returns its id.
func (e *Engine) AddRequirement(name string, def RequirementDef) (ReqID, error) {
	if err := e.checkBuilding(); err != nil {
		return NoRequirement, err
	}
	if name != "" {
		if _, dup := e.reqNames[name]; dup {
			return NoRequirement, fmt.Errorf("%w: duplicate requirement %q", domain.ErrConfiguration, name)
		}
	}
	id := ReqID(len(e.reqs) + 1)
	switch def.Kind {
	case ReqStatic:
	case ReqItem:
		if def.Item == "" {
			return NoRequirement, fmt.Errorf("%w: requirement %q: item is required", domain.ErrConfiguration, name)
		}
		if def.Min <= 0 {
			def.Min = 1
		}
	case ReqMode:
		if def.Key == "" || len(def.Values) == 0 {
			return NoRequirement, fmt.Errorf("%w: requirement %q: key and values are required", domain.ErrConfiguration, name)
		}
	case ReqSequenceBreak:
		if def.Key == "" {
			return NoRequirement, fmt.Errorf("%w: requirement %q: sequence break name is required", domain.ErrConfiguration, name)
		}
	case ReqAll, ReqAny:
	case ReqCap:
		if len(def.Children) != 1 {
			return NoRequirement, fmt.Errorf("%w: requirement %q: cap takes exactly one child", domain.ErrConfiguration, name)
		}
	default:
		return NoRequirement, fmt.Errorf("%w: requirement %q: unknown kind %q", domain.ErrConfiguration, name, def.Kind)
	}
	for _, child := range def.Children {
		if child <= NoRequirement || child >= id {
			return NoRequirement, fmt.Errorf("%w: requirement %q references unregistered child %d", domain.ErrConfiguration, name, child)
		}
	}

	def.Children = slices.Clone(def.Children)
	def.Values = slices.Clone(def.Values)
	e.reqs = append(e.reqs, &requirement{name: name, def: def})
	e.dirtyReqs.grow()
	if name != "" {
		e.reqNames[name] = id
	}
	for _, child := range def.Children {
		c := e.req(child)
		c.dependents = append(c.dependents, id)
	}
	switch def.Kind {
	case ReqItem:
		e.itemObservers[def.Item] = append(e.itemObservers[def.Item], id)
	case ReqMode:
		e.modeObservers[def.Key] = append(e.modeObservers[def.Key], id)
	case ReqSequenceBreak:
		key := domain.SequenceBreakModeKey(def.Key)
		e.modeObservers[key] = append(e.modeObservers[key], id)
	}
	return id, nil
}

// RequirementByName resolves a requirement id.
func (e *Engine) RequirementByName(name string) (ReqID, bool) {
	id, ok := e.reqNames[name]
	return id, ok
}

// RequirementLevel returns the live level of a requirement. NoRequirement is Normal.
func (e *Engine) RequirementLevel(id ReqID) domain.AccessibilityLevel {
	if id == NoRequirement {
		return domain.Normal
	}
	return e.req(id).level
}

// RequirementName returns the registered name of a requirement, or "" when it is anonymous or absent.
func (e *Engine) RequirementName(id ReqID) string {
	if id <= NoRequirement || int(id) > len(e.reqs) {
		return ""
	}
	return e.req(id).name
}

func (e *Engine) req(id ReqID) *requirement {
	return e.reqs[id-1]
}

func (e *Engine) evalRequirement(r *requirement) domain.AccessibilityLevel {
	switch r.def.Kind {
	case ReqStatic:
		return r.def.Level
	case ReqItem:
		if e.ctx.Item(r.def.Item) >= r.def.Min {
			return r.def.Level
		}
		return domain.None
	case ReqMode:
		current := e.ctx.Mode(r.def.Key)
		if current != "" && slices.Contains(r.def.Values, current) {
			return r.def.Level
		}
		return domain.None
	case ReqSequenceBreak:
		switch e.ctx.Mode(domain.SequenceBreakModeKey(r.def.Key)) {
		case "", domain.SequenceBreakOff:
			return domain.None
		default:
			return domain.SequenceBreak
		}
	case ReqAll:
		result := domain.Normal
		for _, child := range r.def.Children {
			if result = domain.Meet(result, e.req(child).level); result == domain.None {
				break
			}
		}
		return result
	case ReqAny:
		result := domain.None
		for _, child := range r.def.Children {
			if result = domain.Join(result, e.req(child).level); result == domain.Normal {
				break
			}
		}
		return result
	case ReqCap:
		return domain.Meet(e.req(r.def.Children[0]).level, r.def.Level)
	}
	return domain.None
}

// settleRequirements recomputes dirty requirements in index order.
// Parents always have a higher index than their children, so one ascending pass settles the DAG.
func (e *Engine) settleRequirements() {
	if e.dirtyReqs.empty() {
		return
	}
	for i, r := range e.reqs {
		if !e.dirtyReqs.take(i) {
			continue
		}
		next := e.evalRequirement(r)
		if next == r.level {
			continue
		}
		r.level = next
		for _, dep := range r.dependents {
			e.dirtyReqs.mark(int(dep) - 1)
		}
		for _, n := range r.nodes {
			e.seedNode(n)
		}
		for _, v := range r.values {
			e.dirtyValues.mark(int(v) - 1)
		}
		for _, p := range r.pools {
			e.dirtyPools.mark(int(p) - 1)
		}
		for _, s := range r.sections {
			e.markSection(e.section(s))
		}
		if r.boss {
			for _, pl := range e.placements {
				for _, s := range pl.sections {
					e.markSection(e.section(s))
				}
			}
		}
	}
}
