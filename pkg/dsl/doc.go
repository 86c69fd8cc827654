/*
Package dsl provides a Go DSL (Domain Specific Language) for programmatically constructing checkmark catalogs.

It allows developers to describe requirements, the node graph, auto-track values and locations using
a fluent builder instead of YAML or JSON files. This is particularly useful for generated catalogs,
unit tests and IDE autocompletion.

Example usage:

	package main

	import (
		"github.com/aretw0/checkmark/pkg/domain"
		"github.com/aretw0/checkmark/pkg/dsl"
	)

	func main() {
		b := dsl.New("demo")
		b.Item("sword", 1)

		b.Requirement("has_hammer").Item("hammer", 1)

		b.Node("light_world").Entry()
		b.Node("dark_world").From("light_world", "has_hammer")

		b.Location("mushroom", "Mushroom").
			Section(domain.KindItem, "").
			Total(1).
			At("light_world")

		// The resulting loader can be passed to checkmark.Open via checkmark.WithLoader.
		loader, err := b.Loader()
		// ...
	}
*/
package dsl
