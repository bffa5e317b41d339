// Package pkg provides the core libraries of memorytree.
//
// # Overview
//
// Memorytree draws an oral-history collection as a tree: a root for the
// collection, one branch per person and one leaf per memory object that is
// about that person. Nodes carrying a URL link back to the source record.
//
// # Architecture
//
// The typical data flow:
//
//	static JSON file  |  Omeka S API
//	         ↓
//	    [source] package (resolve the tree, expand relations)
//	         ↓
//	    [tree] package (entities, assembly, validation)
//	         ↓
//	    [render/memtree/layout] package (vertical, horizontal, radial, organic)
//	         ↓
//	    [render/memtree/sink], [render/nodelink]
//	         ↓
//	    SVG / JSON / DOT / Graphviz SVG
//
// [pipeline] wires these stages together and is the only entry point used by
// the CLI, the HTTP viewer and the terminal browser.
//
// # Quick Start
//
//	root, _ := tree.ReadFile("data.json")
//	l, _ := layout.Compute(root, layout.Options{Kind: layout.Radial})
//	svg := sink.RenderSVG(l, sink.WithPalette(styles.Gold))
//
// # Main Packages
//
// [tree] - The Entity type, name fallbacks, walking, validation and the
// Assemble step that turns people plus a child resolver into one tree.
//
// [source] - Resolvers for the static file and the remote API, and the
// relation expander that finds the objects about a person.
//
// [integrations] - Rate-limited JSON HTTP client; [integrations/omeka] adds
// paginated Omeka S item and item set queries.
//
// [render/memtree/layout] - Node positions and edge paths for all geometries.
//
// [render/memtree/styles] - Colour palettes (gold, forest, mono).
//
// [render/memtree/sink] - Native SVG and JSON writers.
//
// [render/nodelink] - Graphviz DOT export and Graphviz-rendered SVG.
//
// [pipeline] - Options, defaults, validation and the Runner.
//
// [observability] - Hook registry; [observability/metrics] implements it with
// Prometheus.
//
// [errors] - Structured error codes.
//
// # Testing
//
//	go test ./pkg/...             # All tests
//	go test ./pkg/tree/...        # Specific package
//	go test -run Example ./pkg/...
package pkg
