// Package sink turns a computed [layout.Layout] into output documents.
//
// # SVG Output
//
// [RenderSVG] draws edges first and nodes on top. Each node is a circle
// sized and coloured by its class, with its name above it. Nodes that carry
// a URL are wrapped in <a target="_blank">, so clicking them in a browser
// opens the record in a new tab; nodes without one are not clickable.
//
//	svg := sink.RenderSVG(l, sink.WithPalette(styles.Gold))
//
// # JSON Output
//
// [RenderJSON] exports the positioned nodes and edge paths for external
// tools, together with the palette and organic seed used.
package sink
