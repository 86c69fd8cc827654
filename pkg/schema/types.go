package schema

import "github.com/aretw0/checkmark/pkg/domain"

// Catalog is the full static description of a tracker.
type Catalog struct {
	Name         string            `yaml:"name" json:"name" mapstructure:"name"`
	Items        map[string]int    `yaml:"items,omitempty" json:"items,omitempty" mapstructure:"items"`
	Modes        map[string]string `yaml:"modes,omitempty" json:"modes,omitempty" mapstructure:"modes"`
	Requirements []RequirementSpec `yaml:"requirements,omitempty" json:"requirements,omitempty" mapstructure:"requirements"`
	Nodes        []NodeSpec        `yaml:"nodes,omitempty" json:"nodes,omitempty" mapstructure:"nodes"`
	Values       []ValueSpec       `yaml:"values,omitempty" json:"values,omitempty" mapstructure:"values"`
	Pools        []PoolSpec        `yaml:"pools,omitempty" json:"pools,omitempty" mapstructure:"pools"`
	// Bosses maps a boss kind to the requirement needed to defeat it.
	Bosses     map[string]string `yaml:"bosses,omitempty" json:"bosses,omitempty" mapstructure:"bosses"`
	Placements []PlacementSpec   `yaml:"placements,omitempty" json:"placements,omitempty" mapstructure:"placements"`
	Locations  []LocationSpec    `yaml:"locations,omitempty" json:"locations,omitempty" mapstructure:"locations"`
}

// RequirementSpec declares a requirement. Type is one of static, item, mode,
// sequence_break, all, any and cap.
type RequirementSpec struct {
	ID   string         `yaml:"id" json:"id" mapstructure:"id"`
	Type string         `yaml:"type" json:"type" mapstructure:"type"`
	Args map[string]any `yaml:"args,omitempty" json:"args,omitempty" mapstructure:"args"`
}

// RequirementArgs is the decoded form of RequirementSpec.Args.
type RequirementArgs struct {
	// Level is the static level, the cap ceiling, or the level granted by item and mode.
	Level *domain.AccessibilityLevel `mapstructure:"level"`
	Item  string                     `mapstructure:"item"`
	Min   int                        `mapstructure:"min"`
	Key   string                     `mapstructure:"key"`
	Value string                     `mapstructure:"value"`
	// Values is an alternative to Value accepting any of several settings.
	Values []string `mapstructure:"values"`
	// Name identifies a sequence break.
	Name     string   `mapstructure:"name"`
	Children []string `mapstructure:"children"`
	Child    string   `mapstructure:"child"`
}

// NodeSpec declares a node and its inbound connections.
type NodeSpec struct {
	ID          string           `yaml:"id" json:"id" mapstructure:"id"`
	Entry       bool             `yaml:"entry,omitempty" json:"entry,omitempty" mapstructure:"entry"`
	Connections []ConnectionSpec `yaml:"connections,omitempty" json:"connections,omitempty" mapstructure:"connections"`
}

// ConnectionSpec is one inbound path into a node.
type ConnectionSpec struct {
	From        string `yaml:"from" json:"from" mapstructure:"from"`
	Requirement string `yaml:"requirement,omitempty" json:"requirement,omitempty" mapstructure:"requirement"`
	// Max caps the contribution. Empty means normal.
	Max string `yaml:"max,omitempty" json:"max,omitempty" mapstructure:"max"`
}

// ValueSpec declares an auto-track value. Type is one of address_bool,
// address_value, bitwise_integer, flag_bool, sum, override, difference,
// conditional and static.
type ValueSpec struct {
	ID   string         `yaml:"id" json:"id" mapstructure:"id"`
	Type string         `yaml:"type" json:"type" mapstructure:"type"`
	Args map[string]any `yaml:"args,omitempty" json:"args,omitempty" mapstructure:"args"`
}

// ValueArgs is the decoded form of ValueSpec.Args.
type ValueArgs struct {
	Address    int      `mapstructure:"address"`
	Compare    string   `mapstructure:"compare"`
	Value      int      `mapstructure:"value"`
	Adjustment int      `mapstructure:"adjustment"`
	Max        *int     `mapstructure:"max"`
	Mask       int      `mapstructure:"mask"`
	Shift      uint     `mapstructure:"shift"`
	Flag       int      `mapstructure:"flag"`
	Multiplier int      `mapstructure:"multiplier"`
	Constant   int      `mapstructure:"constant"`
	Children   []string `mapstructure:"children"`
	// A and B are the operands of difference and the branches of conditional.
	A           string `mapstructure:"a"`
	B           string `mapstructure:"b"`
	Requirement string `mapstructure:"requirement"`
}

// PoolSpec declares a dungeon pool over item slots.
type PoolSpec struct {
	ID    string     `yaml:"id" json:"id" mapstructure:"id"`
	Slots []SlotSpec `yaml:"slots" json:"slots" mapstructure:"slots"`
}

// SlotSpec is one item slot of a pool.
type SlotSpec struct {
	Node        string `yaml:"node" json:"node" mapstructure:"node"`
	Requirement string `yaml:"requirement,omitempty" json:"requirement,omitempty" mapstructure:"requirement"`
}

// PlacementSpec declares a boss/prize slot and its default contents.
type PlacementSpec struct {
	ID    string `yaml:"id" json:"id" mapstructure:"id"`
	Boss  string `yaml:"boss,omitempty" json:"boss,omitempty" mapstructure:"boss"`
	Prize string `yaml:"prize,omitempty" json:"prize,omitempty" mapstructure:"prize"`
}

// LocationSpec declares a location and its sections, in index order.
type LocationSpec struct {
	ID       string        `yaml:"id" json:"id" mapstructure:"id"`
	Name     string        `yaml:"name,omitempty" json:"name,omitempty" mapstructure:"name"`
	Sections []SectionSpec `yaml:"sections" json:"sections" mapstructure:"sections"`
}

// SectionSpec is the static wiring of one section.
type SectionSpec struct {
	Name        string `yaml:"name,omitempty" json:"name,omitempty" mapstructure:"name"`
	Kind        string `yaml:"kind" json:"kind" mapstructure:"kind"`
	Total       int    `yaml:"total,omitempty" json:"total,omitempty" mapstructure:"total"`
	Markable    *bool  `yaml:"markable,omitempty" json:"markable,omitempty" mapstructure:"markable"`
	Node        string `yaml:"node,omitempty" json:"node,omitempty" mapstructure:"node"`
	Requirement string `yaml:"requirement,omitempty" json:"requirement,omitempty" mapstructure:"requirement"`
	Visible     string `yaml:"visible,omitempty" json:"visible,omitempty" mapstructure:"visible"`
	Pool        string `yaml:"pool,omitempty" json:"pool,omitempty" mapstructure:"pool"`
	Value       string `yaml:"value,omitempty" json:"value,omitempty" mapstructure:"value"`
	Placement   string `yaml:"placement,omitempty" json:"placement,omitempty" mapstructure:"placement"`
	ExitNode    string `yaml:"exit_node,omitempty" json:"exit_node,omitempty" mapstructure:"exit_node"`
}
