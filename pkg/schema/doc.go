// Package schema defines the tracker catalog: the static data table that wires
// items, modes, requirements, nodes, auto-track values, dungeon pools, boss and
// prize placements and locations together.
//
// A Catalog is plain data. It can be written in YAML or JSON, assembled with
// pkg/dsl, or loaded from a loam repository, and it is compiled into a live graph
// by internal/compiler.
//
// Variant-specific arguments of requirements and values live in an untyped "args"
// map and are decoded with mapstructure. Addresses may be written as integers or
// as hexadecimal strings ("0x7EF340"); levels are written by name.
//
//	requirements:
//	  - id: has_bow
//	    type: item
//	    args: {item: bow}
//	values:
//	  - id: eastern_palace_chests
//	    type: address_value
//	    args: {address: "0x7EF4C0", max: 3}
//
// Validate reports every structural problem at once as an *AggregateError.
package schema
