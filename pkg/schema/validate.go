package schema

import (
	"fmt"
	"slices"
	"strings"

	"github.com/aretw0/checkmark/pkg/domain"
)

var requirementTypes = []string{"static", "item", "mode", "sequence_break", "all", "any", "cap"}

var valueTypes = []string{
	"address_bool", "address_value", "bitwise_integer", "flag_bool",
	"sum", "override", "difference", "conditional", "static",
}

var comparisons = []string{"", "eq", "ne", "gt", "ge", "lt", "le"}

// Validate checks the catalog for structural errors: duplicate ids, unknown
// types and kinds, dangling references, negative totals and dependency cycles.
// It returns nil or an *AggregateError holding every failure found.
func Validate(cat *Catalog) error {
	v := &validator{cat: cat}
	v.run()
	if len(v.errs) > 0 {
		return &AggregateError{Errors: v.errs}
	}
	return nil
}

type validator struct {
	cat  *Catalog
	errs []error

	reqs       map[string]bool
	nodes      map[string]bool
	values     map[string]bool
	pools      map[string]bool
	placements map[string]bool
}

func (v *validator) fail(path, reason string, value any) {
	v.errs = append(v.errs, &ValidationError{Path: path, Reason: reason, Value: value})
}

func (v *validator) ids(table string, n int, id func(int) string) map[string]bool {
	seen := make(map[string]bool, n)
	for i := 0; i < n; i++ {
		key := id(i)
		path := fmt.Sprintf("%s[%d].id", table, i)
		switch {
		case key == "":
			v.fail(path, "id is required", nil)
		case seen[key]:
			v.fail(path, "duplicate id", key)
		}
		seen[key] = true
	}
	return seen
}

func (v *validator) ref(path string, table map[string]bool, id string, required bool) {
	if id == "" {
		if required {
			v.fail(path, "is required", nil)
		}
		return
	}
	if !table[id] {
		v.fail(path, "unknown reference", id)
	}
}

func (v *validator) run() {
	cat := v.cat
	if cat == nil {
		v.fail("catalog", "is nil", nil)
		return
	}
	v.reqs = v.ids("requirements", len(cat.Requirements), func(i int) string { return cat.Requirements[i].ID })
	v.nodes = v.ids("nodes", len(cat.Nodes), func(i int) string { return cat.Nodes[i].ID })
	v.values = v.ids("values", len(cat.Values), func(i int) string { return cat.Values[i].ID })
	v.pools = v.ids("pools", len(cat.Pools), func(i int) string { return cat.Pools[i].ID })
	v.placements = v.ids("placements", len(cat.Placements), func(i int) string { return cat.Placements[i].ID })
	v.ids("locations", len(cat.Locations), func(i int) string { return cat.Locations[i].ID })

	for name, n := range cat.Items {
		if n < 0 {
			v.fail("items."+name, "count cannot be negative", n)
		}
	}
	v.requirements()
	v.graph()
	v.autoTrack()
	for i, p := range cat.Pools {
		if len(p.Slots) == 0 {
			v.fail(fmt.Sprintf("pools[%d].slots", i), "pool needs at least one slot", nil)
		}
		for j, s := range p.Slots {
			path := fmt.Sprintf("pools[%d].slots[%d]", i, j)
			v.ref(path+".node", v.nodes, s.Node, true)
			v.ref(path+".requirement", v.reqs, s.Requirement, false)
		}
	}
	for boss, req := range cat.Bosses {
		v.ref("bosses."+boss, v.reqs, req, true)
	}
	v.locations()
}

func (v *validator) requirements() {
	for i, r := range v.cat.Requirements {
		path := fmt.Sprintf("requirements[%d]", i)
		if !slices.Contains(requirementTypes, r.Type) {
			v.fail(path+".type", "unknown requirement type", r.Type)
			continue
		}
		args, err := DecodeRequirementArgs(r)
		if err != nil {
			v.fail(path+".args", err.Error(), nil)
			continue
		}
		switch r.Type {
		case "item":
			if args.Item == "" {
				v.fail(path+".args.item", "is required", nil)
			}
			if args.Min < 0 {
				v.fail(path+".args.min", "cannot be negative", args.Min)
			}
		case "mode":
			if args.Key == "" {
				v.fail(path+".args.key", "is required", nil)
			}
			if args.Value == "" && len(args.Values) == 0 {
				v.fail(path+".args.value", "value or values is required", nil)
			}
		case "sequence_break":
			if args.Name == "" {
				v.fail(path+".args.name", "is required", nil)
			}
		case "all", "any":
			if len(args.Children) == 0 {
				v.fail(path+".args.children", "needs at least one child", nil)
			}
		case "cap":
			if args.Child == "" {
				v.fail(path+".args.child", "is required", nil)
			}
			if args.Level == nil {
				v.fail(path+".args.level", "is required", nil)
			}
		}
		for _, ref := range args.Refs() {
			v.ref(path+".args", v.reqs, ref, true)
		}
	}
	if _, err := SortRequirements(v.cat); err != nil {
		v.fail("requirements", err.Error(), nil)
	}
}

func (v *validator) graph() {
	for i, n := range v.cat.Nodes {
		for j, c := range n.Connections {
			path := fmt.Sprintf("nodes[%d].connections[%d]", i, j)
			v.ref(path+".from", v.nodes, c.From, true)
			v.ref(path+".requirement", v.reqs, c.Requirement, false)
			if c.Max != "" {
				if _, err := domain.ParseAccessibilityLevel(c.Max); err != nil {
					v.fail(path+".max", "unknown accessibility level", c.Max)
				}
			}
		}
	}
}

func (v *validator) autoTrack() {
	for i, val := range v.cat.Values {
		path := fmt.Sprintf("values[%d]", i)
		if !slices.Contains(valueTypes, val.Type) {
			v.fail(path+".type", "unknown value type", val.Type)
			continue
		}
		args, err := DecodeValueArgs(val)
		if err != nil {
			v.fail(path+".args", err.Error(), nil)
			continue
		}
		switch val.Type {
		case "address_bool":
			if !slices.Contains(comparisons, args.Compare) {
				v.fail(path+".args.compare", "unknown comparison", args.Compare)
			}
		case "sum", "override":
			if len(args.Children) == 0 {
				v.fail(path+".args.children", "needs at least one child", nil)
			}
		case "difference", "conditional":
			if args.A == "" || args.B == "" {
				v.fail(path+".args", "a and b are required", nil)
			}
		}
		if val.Type == "conditional" {
			v.ref(path+".args.requirement", v.reqs, args.Requirement, true)
		}
		for _, ref := range args.Refs() {
			v.ref(path+".args", v.values, ref, true)
		}
	}
	if _, err := SortValues(v.cat); err != nil {
		v.fail("values", err.Error(), nil)
	}
}

func (v *validator) locations() {
	for i, loc := range v.cat.Locations {
		for j, s := range loc.Sections {
			path := fmt.Sprintf("locations[%d].sections[%d]", i, j)
			kind := domain.SectionKind(s.Kind)
			if !kind.Valid() {
				v.fail(path+".kind", "unknown section kind", s.Kind)
				continue
			}
			if s.Total < 0 {
				v.fail(path+".total", "cannot be negative", s.Total)
			}
			v.ref(path+".requirement", v.reqs, s.Requirement, false)
			v.ref(path+".value", v.values, s.Value, false)
			v.ref(path+".exit_node", v.nodes, s.ExitNode, false)
			switch kind {
			case domain.KindDungeon:
				v.ref(path+".pool", v.pools, s.Pool, true)
				if s.Node != "" {
					v.fail(path+".node", "dungeon sections take their accessibility from the pool", s.Node)
				}
				if s.Requirement != "" {
					v.fail(path+".requirement", "dungeon sections take their accessibility from the pool", s.Requirement)
				}
			case domain.KindBoss, domain.KindPrize:
				v.ref(path+".node", v.nodes, s.Node, true)
				v.ref(path+".placement", v.placements, s.Placement, true)
			default:
				v.ref(path+".node", v.nodes, s.Node, true)
			}
			if s.Visible != "" {
				if !kind.Visible() {
					v.fail(path+".visible", "only entrance, dropdown, shop and take_any sections can be visible from a node", s.Visible)
				} else {
					v.ref(path+".visible", v.nodes, s.Visible, true)
				}
			}
		}
	}
}

// SortRequirements orders requirements so that children come before their parents.
func SortRequirements(cat *Catalog) ([]RequirementSpec, error) {
	deps := func(i int) []string {
		args, err := DecodeRequirementArgs(cat.Requirements[i])
		if err != nil {
			return nil
		}
		return args.Refs()
	}
	order, err := topoSort(len(cat.Requirements), func(i int) string { return cat.Requirements[i].ID }, deps)
	if err != nil {
		return nil, fmt.Errorf("requirement %w", err)
	}
	out := make([]RequirementSpec, len(order))
	for i, idx := range order {
		out[i] = cat.Requirements[idx]
	}
	return out, nil
}

// SortValues orders auto-track values so that children come before their parents.
func SortValues(cat *Catalog) ([]ValueSpec, error) {
	deps := func(i int) []string {
		args, err := DecodeValueArgs(cat.Values[i])
		if err != nil {
			return nil
		}
		return args.Refs()
	}
	order, err := topoSort(len(cat.Values), func(i int) string { return cat.Values[i].ID }, deps)
	if err != nil {
		return nil, fmt.Errorf("value %w", err)
	}
	out := make([]ValueSpec, len(order))
	for i, idx := range order {
		out[i] = cat.Values[idx]
	}
	return out, nil
}

// topoSort returns a dependency-first order, keeping author order where possible.
// Unknown dependencies are ignored; cycles are reported with their path.
func topoSort(n int, id func(int) string, deps func(int) []string) ([]int, error) {
	index := make(map[string]int, n)
	for i := 0; i < n; i++ {
		index[id(i)] = i
	}
	const (
		unvisited = iota
		visiting
		done
	)
	state := make([]int, n)
	order := make([]int, 0, n)
	var stack []string

	var visit func(i int) error
	visit = func(i int) error {
		switch state[i] {
		case done:
			return nil
		case visiting:
			return fmt.Errorf("cycle: %s -> %s", strings.Join(stack, " -> "), id(i))
		}
		state[i] = visiting
		stack = append(stack, id(i))
		for _, dep := range deps(i) {
			j, ok := index[dep]
			if !ok {
				continue
			}
			if err := visit(j); err != nil {
				return err
			}
		}
		stack = stack[:len(stack)-1]
		state[i] = done
		order = append(order, i)
		return nil
	}
	for i := 0; i < n; i++ {
		if err := visit(i); err != nil {
			return nil, err
		}
	}
	return order, nil
}
