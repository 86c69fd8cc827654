// Package validator lints a catalog for structural smells that are legal but
// almost always mistakes: unreachable nodes and declarations nothing uses.
package validator

import (
	"fmt"
	"slices"
	"strings"

	"github.com/aretw0/checkmark/pkg/schema"
)

// Issue is one lint finding.
type Issue struct {
	Path    string
	Message string
}

func (i Issue) String() string {
	return i.Path + ": " + i.Message
}

// ValidateGraph runs schema validation and the lint checks, failing on any finding.
func ValidateGraph(cat *schema.Catalog) error {
	if err := schema.Validate(cat); err != nil {
		return err
	}
	issues := Lint(cat)
	if len(issues) == 0 {
		return nil
	}
	lines := make([]string, len(issues))
	for i, issue := range issues {
		lines[i] = issue.String()
	}
	return fmt.Errorf("found %d errors:\n- %s", len(issues), strings.Join(lines, "\n- "))
}

// Lint reports unreachable nodes and unused requirements, values, pools and placements.
// It assumes the catalog passed schema.Validate.
func Lint(cat *schema.Catalog) []Issue {
	var issues []Issue
	issues = append(issues, reachability(cat)...)
	issues = append(issues, unused(cat)...)
	return issues
}

// reachability walks the connections forward from every entry node.
func reachability(cat *schema.Catalog) []Issue {
	outgoing := make(map[string][]string)
	var queue []string
	for _, n := range cat.Nodes {
		if n.Entry {
			queue = append(queue, n.ID)
		}
		for _, c := range n.Connections {
			outgoing[c.From] = append(outgoing[c.From], n.ID)
		}
	}
	if len(cat.Nodes) > 0 && len(queue) == 0 {
		return []Issue{{Path: "nodes", Message: "no entry node, every node is unreachable"}}
	}

	visited := make(map[string]bool)
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		if visited[current] {
			continue
		}
		visited[current] = true
		for _, next := range outgoing[current] {
			if !visited[next] {
				queue = append(queue, next)
			}
		}
	}

	var issues []Issue
	for _, n := range cat.Nodes {
		if !visited[n.ID] && !exitTarget(cat, n.ID) {
			issues = append(issues, Issue{Path: "nodes." + n.ID, Message: "unreachable from any entry node"})
		}
	}
	return issues
}

// exitTarget reports whether an entrance section can open the node.
func exitTarget(cat *schema.Catalog, node string) bool {
	for _, loc := range cat.Locations {
		for _, s := range loc.Sections {
			if s.ExitNode == node {
				return true
			}
		}
	}
	return false
}

func unused(cat *schema.Catalog) []Issue {
	reqs := make(map[string]bool)
	values := make(map[string]bool)
	pools := make(map[string]bool)
	placements := make(map[string]bool)

	for _, r := range cat.Requirements {
		if args, err := schema.DecodeRequirementArgs(r); err == nil {
			for _, ref := range args.Refs() {
				reqs[ref] = true
			}
		}
	}
	for _, n := range cat.Nodes {
		for _, c := range n.Connections {
			reqs[c.Requirement] = true
		}
	}
	for _, v := range cat.Values {
		if args, err := schema.DecodeValueArgs(v); err == nil {
			reqs[args.Requirement] = true
			for _, ref := range args.Refs() {
				values[ref] = true
			}
		}
	}
	for _, p := range cat.Pools {
		for _, s := range p.Slots {
			reqs[s.Requirement] = true
		}
	}
	for _, r := range cat.Bosses {
		reqs[r] = true
	}
	for _, loc := range cat.Locations {
		for _, s := range loc.Sections {
			reqs[s.Requirement] = true
			values[s.Value] = true
			pools[s.Pool] = true
			placements[s.Placement] = true
		}
	}

	var issues []Issue
	for _, r := range cat.Requirements {
		if !reqs[r.ID] {
			issues = append(issues, Issue{Path: "requirements." + r.ID, Message: "never referenced"})
		}
	}
	for _, v := range cat.Values {
		if !values[v.ID] {
			issues = append(issues, Issue{Path: "values." + v.ID, Message: "never referenced"})
		}
	}
	for _, p := range cat.Pools {
		if !pools[p.ID] {
			issues = append(issues, Issue{Path: "pools." + p.ID, Message: "no dungeon section draws from it"})
		}
	}
	for _, p := range cat.Placements {
		if !placements[p.ID] {
			issues = append(issues, Issue{Path: "placements." + p.ID, Message: "no boss or prize section uses it"})
		}
	}
	for _, loc := range cat.Locations {
		if len(loc.Sections) == 0 {
			issues = append(issues, Issue{Path: "locations." + loc.ID, Message: "has no sections"})
		}
	}
	slices.SortStableFunc(issues, func(a, b Issue) int { return strings.Compare(a.Path, b.Path) })
	return issues
}
