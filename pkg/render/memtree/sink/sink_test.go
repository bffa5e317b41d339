package sink

import (
	"encoding/json"
	"encoding/xml"
	"io"
	"strings"
	"testing"

	"github.com/matzehuels/memorytree/pkg/render/memtree/layout"
	"github.com/matzehuels/memorytree/pkg/render/memtree/styles"
	"github.com/matzehuels/memorytree/pkg/tree"
)

func testLayout(t *testing.T) layout.Layout {
	t.Helper()
	root := &tree.Entity{Name: "Clinic", Children: []*tree.Entity{
		{Name: "Anna & Co", URL: "https://h/items/1?a=1&b=2", Children: []*tree.Entity{{Name: "Photo"}}},
		{Name: "Jan"},
	}}
	l, err := layout.Compute(root, layout.Options{Kind: layout.VerticalUp})
	if err != nil {
		t.Fatal(err)
	}
	return l
}

func TestRenderSVGWellFormed(t *testing.T) {
	svg := RenderSVG(testLayout(t), WithTitle("Clinic <memories>"))

	dec := xml.NewDecoder(strings.NewReader(string(svg)))
	for {
		_, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("SVG is not well-formed XML: %v\n%s", err, svg)
		}
	}
}

func TestRenderSVGLinks(t *testing.T) {
	s := string(RenderSVG(testLayout(t)))

	if got := strings.Count(s, `target="_blank"`); got != 1 {
		t.Errorf("found %d links, want 1 (only nodes with a URL)", got)
	}
	if !strings.Contains(s, `href="https://h/items/1?a=1&amp;b=2"`) {
		t.Error("link URL not escaped")
	}
	if !strings.Contains(s, ">Anna &amp; Co</text>") {
		t.Error("label not escaped")
	}
	if got := strings.Count(s, `class="link"`); got != 3 {
		t.Errorf("found %d edges, want 3", got)
	}
}

func TestRenderSVGDropsUnsafeLinks(t *testing.T) {
	root := &tree.Entity{Name: "Clinic", Children: []*tree.Entity{
		{Name: "Anna", URL: "javascript:alert(document.cookie)"},
		{Name: "Jan", URL: "/s/clinic/item/2"},
	}}
	l, err := layout.Compute(root, layout.Options{})
	if err != nil {
		t.Fatal(err)
	}
	s := string(RenderSVG(l))

	if strings.Contains(s, "javascript:") {
		t.Errorf("SVG must not link a javascript: URL:\n%s", s)
	}
	if !strings.Contains(s, ">Anna</text>") {
		t.Error("node with an unsafe link should still be drawn")
	}
	if !strings.Contains(s, `href="/s/clinic/item/2"`) {
		t.Error("relative links should be kept")
	}
	if got := strings.Count(s, "<a "); got != 1 {
		t.Errorf("found %d anchors, want 1", got)
	}
}

func TestRenderSVGPalette(t *testing.T) {
	l := testLayout(t)

	gold := string(RenderSVG(l))
	for _, want := range []string{`stroke="#D4AF37" stroke-width="3"`, `r="14" fill="#D4AF37"`, `r="10" fill="#FF69B4"`, `r="7" fill="#4CAF50"`, `dy="-16"`} {
		if !strings.Contains(gold, want) {
			t.Errorf("gold SVG missing %s", want)
		}
	}

	mono := string(RenderSVG(l, WithPalette(styles.Mono), WithoutInteraction()))
	if strings.Contains(mono, "#D4AF37") {
		t.Error("mono SVG should not use gold")
	}
	if strings.Contains(mono, "<style>") {
		t.Error("WithoutInteraction() should drop the style block")
	}
}

func TestRenderJSON(t *testing.T) {
	l := testLayout(t)
	data, err := RenderJSON(l, WithJSONPalette("gold"), WithJSONSeed(7), WithJSONRunID("run-1"))
	if err != nil {
		t.Fatalf("RenderJSON() error: %v", err)
	}

	var out struct {
		RunID   string `json:"run_id"`
		Kind    string `json:"kind"`
		Palette string `json:"palette"`
		Seed    uint64 `json:"seed"`
		Nodes   []struct {
			ID     string  `json:"id"`
			Name   string  `json:"name"`
			URL    string  `json:"url"`
			Class  string  `json:"class"`
			Parent int     `json:"parent"`
			Y      float64 `json:"y"`
		} `json:"nodes"`
		Edges []struct {
			From, To int
			Path     string
		} `json:"edges"`
	}
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatal(err)
	}
	if out.RunID != "run-1" || out.Kind != "vertical-up" || out.Palette != "gold" || out.Seed != 7 {
		t.Errorf("header = %+v", out)
	}
	if len(out.Nodes) != 4 || len(out.Edges) != 3 {
		t.Fatalf("%d nodes, %d edges", len(out.Nodes), len(out.Edges))
	}
	if out.Nodes[0].Class != "root" || out.Nodes[0].Parent != -1 {
		t.Errorf("root = %+v", out.Nodes[0])
	}
	if out.Nodes[1].URL != "https://h/items/1?a=1&b=2" {
		t.Errorf("url = %q", out.Nodes[1].URL)
	}
}

func TestRenderJSONEmptyLayout(t *testing.T) {
	data, err := RenderJSON(layout.Layout{Kind: layout.Radial})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `"nodes": []`) {
		t.Errorf("empty layout should encode empty arrays: %s", data)
	}
}
