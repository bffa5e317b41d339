package sink

import (
	"bytes"
	"encoding/xml"
	"fmt"

	"github.com/matzehuels/memorytree/pkg/errors"
	"github.com/matzehuels/memorytree/pkg/render/memtree/layout"
	"github.com/matzehuels/memorytree/pkg/render/memtree/styles"
)

const nodeInteractionCSS = `
    .node circle { transition: r 0.2s ease, stroke-width 0.2s ease; stroke: white; stroke-width: 1.5; }
    a .node:hover circle { stroke-width: 3; }
    a .node text { cursor: pointer; }
    .node text { cursor: default; }`

// SVGOption configures SVG rendering via [RenderSVG].
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	palette     styles.Palette
	title       string
	interactive bool
}

// WithPalette sets the colour palette. Defaults to gold.
func WithPalette(p styles.Palette) SVGOption { return func(r *svgRenderer) { r.palette = p } }

// WithTitle sets the document <title>.
func WithTitle(s string) SVGOption { return func(r *svgRenderer) { r.title = s } }

// WithoutInteraction omits the embedded hover styles, e.g. for print.
func WithoutInteraction() SVGOption { return func(r *svgRenderer) { r.interactive = false } }

// RenderSVG renders l as a standalone SVG document.
func RenderSVG(l layout.Layout, opts ...SVGOption) []byte {
	r := svgRenderer{palette: styles.Gold, interactive: true}
	for _, opt := range opts {
		opt(&r)
	}
	p := r.palette

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f" style="background: %s">`+"\n",
		l.Width, l.Height, l.Width, l.Height, p.Background)
	if r.title != "" {
		fmt.Fprintf(&buf, "  <title>%s</title>\n", escape(r.title))
	}
	if r.interactive {
		fmt.Fprintf(&buf, "  <style>%s\n  </style>\n", nodeInteractionCSS)
	}

	buf.WriteString(`  <g class="links">` + "\n")
	for _, e := range l.Edges {
		fmt.Fprintf(&buf, `    <path class="link" d="%s" fill="none" stroke="%s" stroke-width="%g"/>`+"\n",
			e.Path, p.Link, p.LinkWidth)
	}
	buf.WriteString("  </g>\n")

	buf.WriteString(`  <g class="nodes">` + "\n")
	for _, n := range l.Nodes {
		renderNode(&buf, n, p)
	}
	buf.WriteString("  </g>\n")

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func renderNode(buf *bytes.Buffer, n layout.Node, p styles.Palette) {
	indent := "    "
	// Links with other schemes (javascript:, data:) render as plain nodes.
	linked := n.URL != "" && errors.ValidateLink(n.URL) == nil
	if linked {
		fmt.Fprintf(buf, `    <a href="%s" target="_blank" rel="noopener">`+"\n", escape(n.URL))
		indent += "  "
	}
	fmt.Fprintf(buf, `%s<g class="node %s" id="node-%s" transform="translate(%.2f,%.2f)">`+"\n",
		indent, n.Class, n.ID, n.X, n.Y)
	fmt.Fprintf(buf, `%s  <title>%s</title>`+"\n", indent, escape(n.Name))
	fmt.Fprintf(buf, `%s  <circle r="%g" fill="%s"/>`+"\n", indent, p.Radius(n.Class), p.Fill(n.Class))
	fmt.Fprintf(buf, `%s  <text dy="%g" text-anchor="middle" font-family="%s" font-size="%gpx" fill="%s">%s</text>`+"\n",
		indent, p.LabelOffset, escape(p.FontFamily), p.FontSize, p.Text, escape(n.Name))
	fmt.Fprintf(buf, "%s</g>\n", indent)
	if linked {
		buf.WriteString("    </a>\n")
	}
}

func escape(s string) string {
	var b bytes.Buffer
	xml.EscapeText(&b, []byte(s))
	return b.String()
}
