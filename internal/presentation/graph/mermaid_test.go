package graph_test

import (
	"strings"
	"testing"

	"github.com/aretw0/checkmark/internal/presentation/graph"
	"github.com/aretw0/checkmark/pkg/domain"
)

func TestGenerateMermaid(t *testing.T) {
	tests := []struct {
		name     string
		nodes    []domain.NodeStatus
		overlay  *graph.GraphOverlay
		contains []string
		excludes []string
	}{
		{
			name: "Entry Node Shape",
			nodes: []domain.NodeStatus{
				{ID: "light_world", Entry: true, Level: domain.Normal},
			},
			contains: []string{`light_world(("light_world"))`},
		},
		{
			name: "Unreachable Node Shape",
			nodes: []domain.NodeStatus{
				{ID: "tower", Level: domain.None},
				{ID: "palace", Level: domain.Partial},
			},
			contains: []string{`tower[/"tower"/]`, `palace["palace"]`},
		},
		{
			name: "ID Sanitization",
			nodes: []domain.NodeStatus{
				{ID: "dw/south.east", Level: domain.Normal},
				{ID: "hyphen-ated", Level: domain.Normal},
			},
			contains: []string{
				`dw_south_east["dw/south.east"]`,
				`hyphen_ated["hyphen-ated"]`,
			},
		},
		{
			name: "Edges",
			nodes: []domain.NodeStatus{
				{ID: "back", Level: domain.SequenceBreak, Inbound: []domain.EdgeStatus{
					{From: "palace", Requirement: "bow_or_clip", Level: domain.SequenceBreak, Max: domain.Normal},
					{From: "light_world", Level: domain.None, Max: domain.Normal},
					{From: "ledge", Requirement: `say "hi"`, Level: domain.None, Max: domain.Inspect},
				}},
			},
			contains: []string{
				`palace -- "bow_or_clip" --> back`,
				`light_world -.-> back`,
				`ledge -. "say 'hi' ≤ inspect" .-> back`,
			},
		},
		{
			name: "No Overlay",
			nodes: []domain.NodeStatus{
				{ID: "a", Entry: true, Level: domain.Normal},
			},
			excludes: []string{"classDef"},
		},
		{
			name: "Level Overlay",
			nodes: []domain.NodeStatus{
				{ID: "a", Entry: true, Level: domain.Normal},
				{ID: "b", Level: domain.SequenceBreak},
			},
			overlay: &graph.GraphOverlay{ShowLevels: true, Highlight: "b"},
			contains: []string{
				"classDef sequence_break",
				"class a normal;",
				"class b sequence_break;",
				"class b current;",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := graph.GenerateMermaid(tt.nodes, tt.overlay)
			for _, want := range tt.contains {
				if !strings.Contains(got, want) {
					t.Errorf("GenerateMermaid() = \n%v\nWant substring: %v", got, want)
				}
			}
			for _, unwanted := range tt.excludes {
				if strings.Contains(got, unwanted) {
					t.Errorf("GenerateMermaid() = \n%v\nUnwanted substring: %v", got, unwanted)
				}
			}
		})
	}
}
