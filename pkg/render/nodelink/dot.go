package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/memorytree/pkg/errors"
	"github.com/matzehuels/memorytree/pkg/render/memtree/layout"
	"github.com/matzehuels/memorytree/pkg/render/memtree/styles"
	"github.com/matzehuels/memorytree/pkg/tree"
)

// Options configures node-link diagram rendering.
type Options struct {
	// Detailed adds the record id and URL to node labels.
	Detailed bool

	// RankDir is the Graphviz rank direction: TB (default), BT, LR or RL.
	RankDir string

	// Palette colours nodes and edges. The zero value selects styles.Gold.
	Palette styles.Palette
}

// ToDOT converts a memory tree to Graphviz DOT format.
// The resulting DOT string can be rendered using [RenderSVG].
func ToDOT(root *tree.Entity, opts Options) string {
	p := opts.Palette
	if p.Name == "" {
		p = styles.Gold
	}
	rankdir := opts.RankDir
	if rankdir == "" {
		rankdir = "TB"
	}

	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	fmt.Fprintf(&buf, "  rankdir=%s;\n", rankdir)
	buf.WriteString("  bgcolor=\"transparent\";\n")
	fmt.Fprintf(&buf, "  node [shape=ellipse, style=filled, fontname=%q, fontsize=%g, fontcolor=%q];\n",
		p.FontFamily, p.FontSize, p.Text)
	fmt.Fprintf(&buf, "  edge [color=%q, penwidth=%g, arrowhead=none];\n", p.Link, p.LinkWidth)
	buf.WriteString("  ranksep=0.6;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	var edges []string
	tree.Walk(root, func(e *tree.Entity, depth int, parent *tree.Entity) bool {
		class := layout.ClassLeaf
		switch {
		case depth == 0:
			class = layout.ClassRoot
		case !e.IsLeaf():
			class = layout.ClassBranch
		}
		id := nodeID(e)
		fmt.Fprintf(&buf, "  %q [%s];\n", id, strings.Join(fmtAttrs(e, class, p, opts.Detailed), ", "))
		if parent != nil {
			edges = append(edges, fmt.Sprintf("  %q -> %q;\n", nodeID(parent), id))
		}
		return true
	})

	buf.WriteString("\n")
	for _, e := range edges {
		buf.WriteString(e)
	}
	buf.WriteString("}\n")
	return buf.String()
}

// nodeID derives a stable DOT identifier from the entity's address. Names
// are not unique, so they are only used as labels.
func nodeID(e *tree.Entity) string {
	return fmt.Sprintf("n%p", e)
}

func fmtLabel(e *tree.Entity, detailed bool) string {
	if !detailed {
		return e.Name
	}
	parts := []string{e.Name}
	if e.ID != "" {
		parts = append(parts, "id: "+e.ID)
	}
	if e.URL != "" {
		parts = append(parts, e.URL)
	}
	return strings.Join(parts, "\n")
}

func fmtAttrs(e *tree.Entity, class layout.Class, p styles.Palette, detailed bool) []string {
	// Graphviz sizes are in inches; palette radii are in pixels at 72 dpi.
	size := 2 * p.Radius(class) / 72
	attrs := []string{
		fmt.Sprintf("label=%q", fmtLabel(e, detailed)),
		fmt.Sprintf("fillcolor=%q", p.Fill(class)),
		fmt.Sprintf("width=%.3f", size),
		fmt.Sprintf("height=%.3f", size),
	}
	if e.URL != "" && errors.ValidateLink(e.URL) == nil {
		attrs = append(attrs, fmt.Sprintf("URL=%q", e.URL), `target="_blank"`)
	}
	return attrs
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's pt-based svg header with a plain
// pixel viewBox so the output scales like the native sink's.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" xmlns:xlink="http://www.w3.org/1999/xlink" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}
