package pipeline

import (
	"context"
	"fmt"

	"github.com/matzehuels/memorytree/pkg/render/memtree/layout"
	"github.com/matzehuels/memorytree/pkg/render/memtree/sink"
	"github.com/matzehuels/memorytree/pkg/render/memtree/styles"
	"github.com/matzehuels/memorytree/pkg/render/nodelink"
	"github.com/matzehuels/memorytree/pkg/tree"
)

// Render generates output artifacts in the requested formats.
// runID is embedded in JSON output; it may be empty.
func Render(ctx context.Context, root *tree.Entity, l layout.Layout, runID string, opts Options) (map[string][]byte, error) {
	palette, err := styles.Lookup(opts.Palette)
	if err != nil {
		return nil, err
	}

	artifacts := make(map[string][]byte, len(opts.Formats))
	var dot string

	for _, format := range opts.Formats {
		var data []byte
		var err error

		switch format {
		case FormatSVG:
			data = sink.RenderSVG(l, buildSVGOptions(root, palette, opts)...)
		case FormatJSON:
			data, err = sink.RenderJSON(l, buildJSONOptions(l, runID, palette, opts)...)
		case FormatTree:
			data, err = tree.Marshal(root)
		case FormatDOT, FormatGraphviz:
			if dot == "" {
				dot = nodelink.ToDOT(root, nodelink.Options{Palette: palette, RankDir: rankDir(l.Kind)})
			}
			if format == FormatDOT {
				data = []byte(dot)
			} else {
				data, err = nodelink.RenderSVG(ctx, dot)
			}
		default:
			return nil, fmt.Errorf("unsupported format: %s", format)
		}

		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}

	return artifacts, nil
}

// buildSVGOptions builds SVG rendering options. The title defaults to the
// root label.
func buildSVGOptions(root *tree.Entity, p styles.Palette, opts Options) []sink.SVGOption {
	title := opts.Title
	if title == "" && root != nil {
		title = root.Name
	}
	return []sink.SVGOption{sink.WithPalette(p), sink.WithTitle(title)}
}

func buildJSONOptions(l layout.Layout, runID string, p styles.Palette, opts Options) []sink.JSONOption {
	jsonOpts := []sink.JSONOption{sink.WithJSONPalette(p.Name)}
	if runID != "" {
		jsonOpts = append(jsonOpts, sink.WithJSONRunID(runID))
	}
	// The seed only matters when the organic layout actually jitters.
	if l.Kind == layout.Organic && opts.Jitter > 0 {
		jsonOpts = append(jsonOpts, sink.WithJSONSeed(opts.seed()))
	}
	return jsonOpts
}

// rankDir maps a layout kind to the closest Graphviz rank direction.
func rankDir(k layout.Kind) string {
	switch k {
	case layout.VerticalUp, layout.Organic:
		return "BT"
	case layout.Horizontal:
		return "LR"
	}
	return "TB"
}
