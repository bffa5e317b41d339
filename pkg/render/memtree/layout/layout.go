package layout

import (
	"fmt"
	"math"
	"strings"

	"github.com/matzehuels/memorytree/pkg/errors"
	"github.com/matzehuels/memorytree/pkg/tree"
)

// Kind selects the layout geometry.
type Kind string

const (
	Vertical   Kind = "vertical"
	VerticalUp Kind = "vertical-up"
	Horizontal Kind = "horizontal"
	Radial     Kind = "radial"
	Organic    Kind = "organic"
)

// Kinds lists all supported kinds in display order.
var Kinds = []Kind{Vertical, VerticalUp, Horizontal, Radial, Organic}

// ParseKind converts a configuration string into a Kind.
func ParseKind(s string) (Kind, error) {
	for _, k := range Kinds {
		if string(k) == strings.ToLower(s) {
			return k, nil
		}
	}
	return "", errors.New(errors.ErrCodeInvalidGeometry, "invalid layout kind: %q (must be one of: %s)", s, strings.Join(KindNames(), ", "))
}

// KindNames returns the names of [Kinds].
func KindNames() []string {
	names := make([]string, len(Kinds))
	for i, k := range Kinds {
		names[i] = string(k)
	}
	return names
}

// Class is the visual role of a node.
type Class string

const (
	ClassRoot   Class = "root"
	ClassBranch Class = "branch"
	ClassLeaf   Class = "leaf"
)

// Default option values.
const (
	DefaultWidth     = 1000.0
	DefaultHeight    = 700.0
	DefaultMargin    = 100.0
	DefaultSpread    = 60.0 // degrees
	DefaultCurveLift = 0.15
)

// Options configures [Compute].
type Options struct {
	Kind   Kind    `json:"kind" toml:"kind"`
	Width  float64 `json:"width" toml:"width"`
	Height float64 `json:"height" toml:"height"`

	// Margin is kept free on every side of the frame. Nil means
	// DefaultMargin; zero draws up to the frame edge.
	Margin *float64 `json:"margin,omitempty" toml:"margin"`

	// AngleSpan is the radial sweep in radians. Zero means a full circle.
	AngleSpan float64 `json:"angle_span,omitempty" toml:"angle_span"`

	// Spread is the organic fan angle of depth-1 branches, in degrees.
	Spread float64 `json:"spread,omitempty" toml:"spread"`

	// Jitter is the maximum random perturbation of organic branch angles,
	// in degrees. Zero disables it.
	Jitter float64 `json:"jitter,omitempty" toml:"jitter"`

	// Seed seeds the organic jitter.
	Seed uint64 `json:"seed,omitempty" toml:"seed"`

	// CurveLift lifts the midpoint of organic edges by this fraction of the
	// edge length.
	CurveLift float64 `json:"curve_lift,omitempty" toml:"curve_lift"`
}

// Float returns a pointer to v, for the optional fields of [Options].
func Float(v float64) *float64 { return &v }

func (o Options) margin() float64 {
	if o.Margin == nil {
		return DefaultMargin
	}
	return *o.Margin
}

// WithDefaults returns o with unset fields replaced by defaults.
func (o Options) WithDefaults() Options {
	if o.Kind == "" {
		o.Kind = Vertical
	}
	if o.Width == 0 {
		o.Width = DefaultWidth
	}
	if o.Height == 0 {
		o.Height = DefaultHeight
	}
	if o.Margin == nil {
		o.Margin = Float(DefaultMargin)
	}
	if o.AngleSpan == 0 {
		o.AngleSpan = 2 * math.Pi
	}
	if o.Spread == 0 {
		o.Spread = DefaultSpread
	}
	if o.CurveLift == 0 {
		o.CurveLift = DefaultCurveLift
	}
	return o
}

// Validate checks that the options describe a usable frame.
func (o Options) Validate() error {
	if _, err := ParseKind(string(o.Kind)); err != nil {
		return err
	}
	if o.Width <= 0 || o.Height <= 0 || math.IsNaN(o.Width) || math.IsNaN(o.Height) {
		return errors.New(errors.ErrCodeInvalidGeometry, "frame must be positive, got %gx%g", o.Width, o.Height)
	}
	if m := o.margin(); m < 0 || math.IsNaN(m) || 2*m >= o.Width || 2*m >= o.Height {
		return errors.New(errors.ErrCodeInvalidGeometry, "margin %g leaves no room in a %gx%g frame", m, o.Width, o.Height)
	}
	if o.AngleSpan < 0 || o.AngleSpan > 2*math.Pi {
		return errors.New(errors.ErrCodeInvalidGeometry, "angle span must be within (0, 2π], got %g", o.AngleSpan)
	}
	if o.Spread < 0 || o.Spread > 180 {
		return errors.New(errors.ErrCodeInvalidGeometry, "spread must be within [0, 180] degrees, got %g", o.Spread)
	}
	if o.Jitter < 0 {
		return errors.New(errors.ErrCodeInvalidGeometry, "jitter must not be negative, got %g", o.Jitter)
	}
	return nil
}

// Node is one positioned entity.
type Node struct {
	ID     string  `json:"id"` // pre-order path, e.g. "0.2.1"
	Name   string  `json:"name"`
	URL    string  `json:"url,omitempty"`
	Depth  int     `json:"depth"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Angle  float64 `json:"angle,omitempty"`  // radians; radial and organic only
	Radius float64 `json:"radius,omitempty"` // radial and organic only
	Class  Class   `json:"class"`
	Parent int     `json:"parent"` // index into Layout.Nodes, -1 for the root

	Entity *tree.Entity `json:"-"`
}

// Edge links Nodes[From] to Nodes[To].
type Edge struct {
	From int    `json:"from"`
	To   int    `json:"to"`
	Path string `json:"path"`
}

// Layout is the positioned tree.
type Layout struct {
	Kind   Kind    `json:"kind"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Nodes  []Node  `json:"nodes"`
	Edges  []Edge  `json:"edges"`
}

// Root returns the root node.
func (l Layout) Root() Node { return l.Nodes[0] }

// Compute positions every entity of root.
func Compute(root *tree.Entity, opts Options) (Layout, error) {
	if root == nil {
		return Layout{}, errors.Wrap(errors.ErrCodeInvalidTree, tree.ErrNilRoot, "compute layout")
	}
	if err := tree.Validate(root); err != nil {
		return Layout{}, errors.Wrap(errors.ErrCodeInvalidTree, err, "compute layout")
	}
	opts = opts.WithDefaults()
	if err := opts.Validate(); err != nil {
		return Layout{}, err
	}

	l := Layout{Kind: opts.Kind, Width: opts.Width, Height: opts.Height}
	l.Nodes = flatten(root)

	switch opts.Kind {
	case Vertical, VerticalUp, Horizontal:
		placeTidy(l.Nodes, opts)
	case Radial:
		placeRadial(l.Nodes, opts)
	case Organic:
		placeOrganic(l.Nodes, opts)
	default:
		return Layout{}, fmt.Errorf("unhandled layout kind %q", opts.Kind)
	}

	l.Edges = make([]Edge, 0, len(l.Nodes)-1)
	for i := 1; i < len(l.Nodes); i++ {
		n := l.Nodes[i]
		p := l.Nodes[n.Parent]
		var path string
		if opts.Kind == Organic {
			path = curvedPath(p.X, p.Y, n.X, n.Y, opts.CurveLift)
		} else {
			path = straightPath(p.X, p.Y, n.X, n.Y)
		}
		l.Edges = append(l.Edges, Edge{From: n.Parent, To: i, Path: path})
	}
	return l, nil
}

// flatten lists the entities in pre-order with parent links and classes.
func flatten(root *tree.Entity) []Node {
	nodes := make([]Node, 0, tree.Count(root))
	var visit func(e *tree.Entity, depth, parent int, id string)
	visit = func(e *tree.Entity, depth, parent int, id string) {
		class := ClassLeaf
		switch {
		case depth == 0:
			class = ClassRoot
		case !e.IsLeaf():
			class = ClassBranch
		}
		nodes = append(nodes, Node{
			ID:     id,
			Name:   e.Name,
			URL:    e.URL,
			Depth:  depth,
			Class:  class,
			Parent: parent,
			Entity: e,
		})
		self := len(nodes) - 1
		for i, c := range e.Children {
			visit(c, depth+1, self, fmt.Sprintf("%s.%d", id, i))
		}
	}
	visit(root, 0, -1, "0")
	return nodes
}

// children returns the indexes of each node's children, in order.
func children(nodes []Node) [][]int {
	out := make([][]int, len(nodes))
	for i := 1; i < len(nodes); i++ {
		p := nodes[i].Parent
		out[p] = append(out[p], i)
	}
	return out
}

func maxDepth(nodes []Node) int {
	d := 0
	for _, n := range nodes {
		d = max(d, n.Depth)
	}
	return d
}
