// Package tree defines the canonical people/memory-object hierarchy.
//
// A tree is a single rooted [Entity]. Depth 0 is always a synthetic root
// labelled with the container name (e.g. "Maastricht History Clinic"),
// depth 1 holds the primary subjects (people) and depth 2 the records that
// are "about" them (memory objects). Nothing in this package assumes a fixed
// depth; deeper static files are accepted as-is.
//
// # Invariants
//
// Every non-root entity has exactly one parent and no entity appears twice.
// [Validate] enforces this by pointer identity, and [Assemble] only ever
// attaches fresh copies, so trees built by this package are valid by
// construction.
//
// # Serialization
//
// The JSON shape is the one consumed by the static variant:
//
//	{"name": "Root", "children": [{"name": "A", "children": [{"name": "B", "url": "/x"}]}]}
//
// Use [ReadFile], [Read], [Write] and [Marshal] to convert between the JSON
// form and [Entity] values.
//
// # Assembly
//
// [Assemble] merges a container label, the top-level entities and a
// [ChildResolver] into a tree, applying an inclusion [Policy]:
//
//	root, err := tree.Assemble(ctx, "Clinic", people, resolve, tree.AssembleOptions{
//	    Policy: tree.IncludeWithChildren,
//	})
package tree
