// Package nodelink renders memory trees as Graphviz node-link diagrams.
//
// # Overview
//
// This is an alternative to the computed layouts in memtree/layout: Graphviz
// does the placement, nodes appear as filled ellipses connected by edges,
// coloured with the same palette as the native SVG sink.
//
// # Usage
//
// Convert a tree to DOT, then render to SVG:
//
//	dot := nodelink.ToDOT(root, nodelink.Options{Palette: styles.Gold})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// # DOT Format
//
// The [ToDOT] function produces Graphviz DOT source that can be:
//
//   - Rendered directly via [RenderSVG]
//   - Saved and processed with external Graphviz tools
//
// Nodes with a URL carry URL and target="_blank" attributes, which Graphviz
// turns into links in SVG output.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering; no Graphviz installation is required.
package nodelink
