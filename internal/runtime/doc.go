// Package runtime implements the reactive accessibility graph.
//
// Every element (requirement, node, auto-track value, dungeon pool, placement and
// section) lives in an arena table owned by the Engine and is addressed by a typed
// index. The zero index of every ID type means "absent".
//
// Propagation is synchronous. A public mutation marks the directly affected
// elements, then the Engine settles the graph before returning: requirements and
// auto-track values are recomputed in index order (they are acyclic and children are
// always registered before their parents), nodes are recomputed as the least fixed
// point of their inbound connections over the affected region, then pools and
// sections are re-derived. Section side effects (entrance exits, prize contributions)
// feed back into the next settle round. Lifecycle hooks fire once the graph is settled.
//
// The Engine is not safe for concurrent use; hosts serialise access behind a single lock.
package runtime
