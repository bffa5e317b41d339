package pipeline

import (
	"github.com/matzehuels/memorytree/pkg/render/memtree/layout"
	"github.com/matzehuels/memorytree/pkg/tree"
)

// GenerateLayout computes the layout of root for the layout options.
func GenerateLayout(root *tree.Entity, opts Options) (layout.Layout, error) {
	return layout.Compute(root, opts.LayoutOptions())
}
