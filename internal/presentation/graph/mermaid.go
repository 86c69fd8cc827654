package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/checkmark/pkg/domain"
)

// GraphOverlay contains dynamic state data to visualize on the graph.
type GraphOverlay struct {
	// ShowLevels colours every node by its current accessibility level.
	ShowLevels bool
	// Highlight marks a single node, e.g. the node a location hangs off.
	Highlight string
}

var levelStyles = map[domain.AccessibilityLevel]string{
	domain.None:          "fill:#eceff1,stroke:#90a4ae,color:#000",
	domain.Inspect:       "fill:#e1f5fe,stroke:#01579b,color:#000",
	domain.Partial:       "fill:#fff3e0,stroke:#ef6c00,color:#000",
	domain.SequenceBreak: "fill:#f3e5f5,stroke:#6a1b9a,color:#000",
	domain.Normal:        "fill:#e8f5e9,stroke:#2e7d32,color:#000",
}

// GenerateMermaid produces a Mermaid flowchart syntax string from a list of nodes.
// It applies semantic styling:
// - Entry: ((Circle))
// - Unreachable: [/Parallelogram/]
// - Default: [Rectangle]
// Edges carry their requirement as a label; edges that currently contribute
// nothing are dotted. Overlay styles are applied if provided.
func GenerateMermaid(nodes []domain.NodeStatus, overlay *GraphOverlay) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	for _, node := range nodes {
		safeID := sanitizeMermaidID(node.ID)

		opener, closer := "[", "]"
		switch {
		case node.Entry:
			opener, closer = "((", "))"
		case node.Level == domain.None:
			opener, closer = "[/", "/]"
		}
		fmt.Fprintf(&sb, "    %s%s\"%s\"%s\n", safeID, opener, node.ID, closer)

		for _, e := range node.Inbound {
			safeFrom := sanitizeMermaidID(e.From)

			label := e.Requirement
			if e.Max != domain.Normal {
				// Capped edges never exceed their maximum level.
				label = strings.TrimSpace(fmt.Sprintf("%s ≤ %s", label, e.Max))
			}
			label = strings.ReplaceAll(label, "\"", "'")

			dotted := e.Level == domain.None
			switch {
			case label == "" && dotted:
				fmt.Fprintf(&sb, "    %s -.-> %s\n", safeFrom, safeID)
			case label == "":
				fmt.Fprintf(&sb, "    %s --> %s\n", safeFrom, safeID)
			case dotted:
				fmt.Fprintf(&sb, "    %s -. \"%s\" .-> %s\n", safeFrom, label, safeID)
			default:
				fmt.Fprintf(&sb, "    %s -- \"%s\" --> %s\n", safeFrom, label, safeID)
			}
		}
	}

	if overlay == nil {
		return sb.String()
	}

	sb.WriteString("\n    %% Overlay Styles\n")
	if overlay.ShowLevels {
		for _, level := range domain.Levels {
			fmt.Fprintf(&sb, "    classDef %s %s;\n", level, levelStyles[level])
		}
		for _, node := range nodes {
			fmt.Fprintf(&sb, "    class %s %s;\n", sanitizeMermaidID(node.ID), node.Level)
		}
	}
	if overlay.Highlight != "" {
		sb.WriteString("    classDef current stroke:#fbc02d,stroke-width:4px;\n")
		fmt.Fprintf(&sb, "    class %s current;\n", sanitizeMermaidID(overlay.Highlight))
	}

	return sb.String()
}

func sanitizeMermaidID(id string) string {
	s := strings.ReplaceAll(id, ".", "_")
	s = strings.ReplaceAll(s, "-", "_")
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, "\\", "_")
	return s
}
