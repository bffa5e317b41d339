// Package styles defines the colour palettes and node geometry of memory
// tree renderings.
package styles

import (
	"strings"

	"github.com/matzehuels/memorytree/pkg/errors"
	"github.com/matzehuels/memorytree/pkg/render/memtree/layout"
)

// Palette holds every visual constant a sink needs.
type Palette struct {
	Name       string
	Background string
	Link       string
	LinkWidth  float64

	Root, Branch, Leaf string // node fills by class
	Text               string

	RootRadius, BranchRadius, LeafRadius float64

	FontFamily  string
	FontSize    float64
	LabelOffset float64 // vertical label offset from the node centre
}

// Gold is the classic look: gold connectors, a gold root, pink people and
// green memory objects.
var Gold = Palette{
	Name:         "gold",
	Background:   "white",
	Link:         "#D4AF37",
	LinkWidth:    3,
	Root:         "#D4AF37",
	Branch:       "#FF69B4",
	Leaf:         "#4CAF50",
	Text:         "#333",
	RootRadius:   14,
	BranchRadius: 10,
	LeafRadius:   7,
	FontFamily:   "sans-serif",
	FontSize:     13,
	LabelOffset:  -16,
}

// Forest uses bark-coloured branches and leafy nodes, suited to the organic
// layout.
var Forest = Palette{
	Name:         "forest",
	Background:   "#FAF7F0",
	Link:         "#6D4C41",
	LinkWidth:    4,
	Root:         "#5D4037",
	Branch:       "#8BC34A",
	Leaf:         "#2E7D32",
	Text:         "#3E2723",
	RootRadius:   16,
	BranchRadius: 10,
	LeafRadius:   6,
	FontFamily:   "Georgia, serif",
	FontSize:     13,
	LabelOffset:  -14,
}

// Mono is a print friendly greyscale palette.
var Mono = Palette{
	Name:         "mono",
	Background:   "white",
	Link:         "#999",
	LinkWidth:    1.5,
	Root:         "#111",
	Branch:       "#555",
	Leaf:         "#AAA",
	Text:         "#111",
	RootRadius:   12,
	BranchRadius: 8,
	LeafRadius:   5,
	FontFamily:   "Helvetica, Arial, sans-serif",
	FontSize:     12,
	LabelOffset:  -12,
}

// Palettes lists the built-in palettes.
var Palettes = []Palette{Gold, Forest, Mono}

// Names returns the built-in palette names.
func Names() []string {
	out := make([]string, len(Palettes))
	for i, p := range Palettes {
		out[i] = p.Name
	}
	return out
}

// Lookup returns the palette called name. The empty name selects Gold.
func Lookup(name string) (Palette, error) {
	if name == "" {
		return Gold, nil
	}
	for _, p := range Palettes {
		if strings.EqualFold(p.Name, name) {
			return p, nil
		}
	}
	return Palette{}, errors.New(errors.ErrCodeInvalidPalette, "unknown palette: %q (must be one of: %s)", name, strings.Join(Names(), ", "))
}

// Fill returns the node fill colour for class c.
func (p Palette) Fill(c layout.Class) string {
	switch c {
	case layout.ClassRoot:
		return p.Root
	case layout.ClassBranch:
		return p.Branch
	}
	return p.Leaf
}

// Radius returns the node radius for class c.
func (p Palette) Radius(c layout.Class) float64 {
	switch c {
	case layout.ClassRoot:
		return p.RootRadius
	case layout.ClassBranch:
		return p.BranchRadius
	}
	return p.LeafRadius
}
