// Package render provides the visual outputs of memorytree.
//
// # Overview
//
// Rendering is split in two families:
//
//   - Computed layouts (in the [memtree] subpackages): positions come from
//     [memtree/layout] and are drawn by [memtree/sink] as SVG or exported as
//     JSON, coloured by a [memtree/styles] palette.
//   - Node-link diagrams (in [nodelink]): Graphviz lays the tree out and
//     renders it to SVG.
//
//	l, err := layout.Compute(root, layout.Options{Kind: layout.Radial})
//	svg := sink.RenderSVG(l, sink.WithPalette(styles.Gold))
//
//	dot := nodelink.ToDOT(root, nodelink.Options{})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// [memtree]: github.com/matzehuels/memorytree/pkg/render/memtree
// [memtree/layout]: github.com/matzehuels/memorytree/pkg/render/memtree/layout
// [memtree/sink]: github.com/matzehuels/memorytree/pkg/render/memtree/sink
// [memtree/styles]: github.com/matzehuels/memorytree/pkg/render/memtree/styles
// [nodelink]: github.com/matzehuels/memorytree/pkg/render/nodelink
package render
