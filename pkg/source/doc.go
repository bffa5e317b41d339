// Package source obtains the memory tree from its data sources.
//
// A [Resolver] produces the whole tree: [Static] reads one JSON document that
// already has the tree shape, [Remote] walks an Omeka S style API. The remote
// walk is split in three steps:
//
//  1. Resolve the container (item set) by id or by label search.
//  2. List the container's people, filtered by resource class.
//  3. Expand every person into the objects that reference it through a
//     relation property ([RelationExpander]) and assemble the result with
//     [tree.Assemble].
//
// Failing steps 1 or 2 fails the whole resolution with an error coded
// SOURCE_UNAVAILABLE or CONTAINER_NOT_FOUND. A failing step 3 only leaves the
// affected person without children. Nothing is retried and nothing is cached.
package source
