/*
Package checkmark is a reactive accessibility engine for randomizer item trackers.

A tracker knows a catalog of locations, each holding one or more sections (chests,
bosses, prizes, dungeon pools). Every section carries an accessibility level on the
lattice None < Inspect < Partial < SequenceBreak < Normal, derived from the items
the player owns, the mode settings of the seed, a reachability graph of nodes and
optional auto-tracker memory readings. When any input changes, only the affected
part of the graph is recomputed, and lifecycle hooks report what changed.

# Concept

The catalog (Logic) is compiled once into an arena-backed runtime. User actions
(collect, uncollect, toggle a prize, set an item) are undoable commands executed
through a bounded history, while auto-tracking readings silently reconcile section
state and raise the unsaved flag. Persistence goes through a SnapshotStore port, so
the engine can be embedded in a CLI, an HTTP server or an MCP tool server.

# Usage

Open a catalog file (YAML or JSON) or a Loam repository of location documents:

	package main

	import (
		"context"
		"fmt"
		"log"

		"github.com/aretw0/checkmark"
		"github.com/aretw0/checkmark/pkg/adapters/file"
		"github.com/aretw0/checkmark/pkg/domain"
	)

	func main() {
		ctx := context.Background()
		tr, err := checkmark.Open(ctx, "./alttp.yaml",
			checkmark.WithStore(file.NewStore("")),
			checkmark.WithSessionID("run-1"),
		)
		if err != nil {
			log.Fatal(err)
		}

		for _, loc := range tr.Locations() {
			fmt.Println(loc.ID, loc.Accessibility())
		}

		ref := domain.SectionRef{Location: "mushroom", Index: 0}
		if err := tr.Collect(ctx, ref, false); err != nil {
			log.Println(err)
		}
		if _, err := tr.Save(ctx); err != nil {
			log.Fatal(err)
		}
	}
*/
package checkmark
