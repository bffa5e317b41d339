package sink

import (
	"encoding/json"

	"github.com/matzehuels/memorytree/pkg/render/memtree/layout"
)

// JSONOption configures JSON rendering via [RenderJSON].
type JSONOption func(*jsonRenderer)

type jsonRenderer struct {
	palette string
	seed    *uint64
	runID   string
}

// WithJSONPalette records the palette name so a consumer can draw the
// layout the same way.
func WithJSONPalette(name string) JSONOption { return func(r *jsonRenderer) { r.palette = name } }

// WithJSONSeed records the organic jitter seed for reproducible re-rendering.
func WithJSONSeed(seed uint64) JSONOption { return func(r *jsonRenderer) { r.seed = &seed } }

// WithJSONRunID tags the document with the pipeline run that produced it.
func WithJSONRunID(id string) JSONOption { return func(r *jsonRenderer) { r.runID = id } }

type jsonOutput struct {
	RunID   string        `json:"run_id,omitempty"`
	Kind    layout.Kind   `json:"kind"`
	Width   float64       `json:"width"`
	Height  float64       `json:"height"`
	Palette string        `json:"palette,omitempty"`
	Seed    *uint64       `json:"seed,omitempty"`
	Nodes   []layout.Node `json:"nodes"`
	Edges   []layout.Edge `json:"edges"`
}

// RenderJSON serializes l as indented JSON.
func RenderJSON(l layout.Layout, opts ...JSONOption) ([]byte, error) {
	var r jsonRenderer
	for _, opt := range opts {
		opt(&r)
	}
	out := jsonOutput{
		RunID:   r.runID,
		Kind:    l.Kind,
		Width:   l.Width,
		Height:  l.Height,
		Palette: r.palette,
		Seed:    r.seed,
		Nodes:   l.Nodes,
		Edges:   l.Edges,
	}
	if out.Nodes == nil {
		out.Nodes = []layout.Node{}
	}
	if out.Edges == nil {
		out.Edges = []layout.Edge{}
	}
	return json.MarshalIndent(out, "", "  ")
}
