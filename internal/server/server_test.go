package server

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/matzehuels/memorytree/pkg/observability"
	"github.com/matzehuels/memorytree/pkg/observability/metrics"
	"github.com/matzehuels/memorytree/pkg/pipeline"
	"github.com/matzehuels/memorytree/pkg/tree"
)

const testTree = `{
  "name": "Clinic",
  "children": [
    {"name": "Anna", "url": "https://example.org/items/1", "children": [{"name": "Photo <1>"}]},
    {"name": "Jan"}
  ]
}`

func newTestServer(t *testing.T, dataPath string, gatherer prometheus.Gatherer) *httptest.Server {
	t.Helper()
	srv := New(Config{
		Options:  pipeline.Options{DataPath: dataPath},
		Gatherer: gatherer,
		Logger:   log.New(io.Discard),
	})
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func writeData(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data.json")
	if err := os.WriteFile(path, []byte(testTree), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func get(t *testing.T, rawURL string) (*http.Response, string) {
	t.Helper()
	resp, err := http.Get(rawURL)
	if err != nil {
		t.Fatalf("GET %s: %v", rawURL, err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	return resp, string(body)
}

func TestViewer(t *testing.T) {
	ts := newTestServer(t, writeData(t), nil)

	resp, body := get(t, ts.URL+"/?layout=radial&palette=forest")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d: %s", resp.StatusCode, body)
	}
	if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("content type = %q", ct)
	}
	if resp.Header.Get("X-Run-ID") == "" {
		t.Error("missing X-Run-ID header")
	}
	for _, want := range []string{"<svg", `target="_blank"`, "https://example.org/items/1", "Photo &lt;1&gt;", `class="active">radial`} {
		if !strings.Contains(body, want) {
			t.Errorf("viewer missing %q", want)
		}
	}
	if strings.Contains(body, "Photo <1>") {
		t.Error("labels must be escaped")
	}
}

func TestSVGEndpoint(t *testing.T) {
	ts := newTestServer(t, writeData(t), nil)
	resp, body := get(t, ts.URL+"/svg")
	if resp.StatusCode != http.StatusOK || resp.Header.Get("Content-Type") != "image/svg+xml" {
		t.Fatalf("status = %d, type = %q", resp.StatusCode, resp.Header.Get("Content-Type"))
	}
	if !strings.HasPrefix(strings.TrimSpace(body), "<svg") {
		t.Errorf("body = %.60q", body)
	}
}

func TestLayoutEndpoint(t *testing.T) {
	ts := newTestServer(t, writeData(t), nil)

	q := url.Values{"layout": {"organic"}, "jitter": {"10"}, "seed": {"7"}}
	resp, body := get(t, ts.URL+"/api/layout?"+q.Encode())
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d: %s", resp.StatusCode, body)
	}

	var doc struct {
		RunID string        `json:"run_id"`
		Kind  string        `json:"kind"`
		Seed  uint64        `json:"seed"`
		Nodes []interface{} `json:"nodes"`
		Edges []interface{} `json:"edges"`
	}
	if err := json.Unmarshal([]byte(body), &doc); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if doc.Kind != "organic" || doc.Seed != 7 {
		t.Errorf("kind = %q, seed = %d", doc.Kind, doc.Seed)
	}
	if len(doc.Nodes) != 4 || len(doc.Edges) != 3 {
		t.Errorf("nodes = %d, edges = %d", len(doc.Nodes), len(doc.Edges))
	}
	if doc.RunID != resp.Header.Get("X-Run-ID") {
		t.Errorf("run id %q does not match header %q", doc.RunID, resp.Header.Get("X-Run-ID"))
	}
}

func TestTreeEndpoint(t *testing.T) {
	ts := newTestServer(t, writeData(t), nil)
	_, body := get(t, ts.URL+"/api/tree")

	root, err := tree.Read(strings.NewReader(body))
	if err != nil {
		t.Fatalf("tree endpoint should return a readable tree: %v", err)
	}
	if root.Name != "Clinic" || tree.Count(root) != 4 {
		t.Errorf("tree = %q with %d nodes", root.Name, tree.Count(root))
	}
}

func TestDegradedSource(t *testing.T) {
	ts := newTestServer(t, filepath.Join(t.TempDir(), "missing.json"), nil)
	resp, body := get(t, ts.URL+"/")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("degraded source should still render, status = %d", resp.StatusCode)
	}
	if resp.Header.Get("X-Degraded") != "true" {
		t.Error("missing X-Degraded header")
	}
	if !strings.Contains(body, tree.ErrorLabel) || !strings.Contains(body, "Data source unavailable") {
		t.Error("viewer should show the placeholder and a warning")
	}
}

func TestViewerDropsScriptLinks(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.json")
	data := `{"name": "Clinic", "children": [{"name": "Anna", "url": "javascript:alert(document.cookie)"}]}`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}
	ts := newTestServer(t, path, nil)

	for _, route := range []string{"/", "/svg"} {
		resp, body := get(t, ts.URL+route)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("%s status = %d", route, resp.StatusCode)
		}
		if strings.Contains(body, "javascript:") {
			t.Errorf("%s serves a javascript: link", route)
		}
		if !strings.Contains(body, "Anna") {
			t.Errorf("%s should still draw the node", route)
		}
	}
}

func TestLayoutEndpointZeroMarginAndSeed(t *testing.T) {
	ts := newTestServer(t, writeData(t), nil)

	q := url.Values{"layout": {"organic"}, "jitter": {"10"}, "seed": {"0"}, "margin": {"0"}, "width": {"150"}, "height": {"150"}}
	resp, body := get(t, ts.URL+"/api/layout?"+q.Encode())
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d: %s", resp.StatusCode, body)
	}
	var doc struct {
		Seed  *uint64 `json:"seed"`
		Nodes []struct {
			Y float64 `json:"y"`
		} `json:"nodes"`
	}
	if err := json.Unmarshal([]byte(body), &doc); err != nil {
		t.Fatal(err)
	}
	if doc.Seed == nil || *doc.Seed != 0 {
		t.Errorf("seed = %v, want explicit 0", doc.Seed)
	}
	if doc.Nodes[0].Y != 150 {
		t.Errorf("root Y = %g, want 150 with no margin", doc.Nodes[0].Y)
	}
}

func TestBadRequests(t *testing.T) {
	ts := newTestServer(t, writeData(t), nil)

	tests := []struct {
		query string
		code  string
	}{
		{"layout=spiral", "INVALID_GEOMETRY"},
		{"palette=neon", "INVALID_PALETTE"},
		{"width=wide", "INVALID_INPUT"},
		{"seed=-1", "INVALID_INPUT"},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			resp, body := get(t, ts.URL+"/api/layout?"+tt.query)
			if resp.StatusCode != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400: %s", resp.StatusCode, body)
			}
			var e errorResponse
			if err := json.Unmarshal([]byte(body), &e); err != nil {
				t.Fatal(err)
			}
			if e.Code != tt.code {
				t.Errorf("code = %q, want %q", e.Code, tt.code)
			}
		})
	}
}

func TestHealthz(t *testing.T) {
	ts := newTestServer(t, writeData(t), nil)
	resp, body := get(t, ts.URL+"/healthz")
	if resp.StatusCode != http.StatusOK || !strings.Contains(body, `"ok"`) {
		t.Errorf("healthz = %d %s", resp.StatusCode, body)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	observability.SetPipelineHooks(m)
	t.Cleanup(observability.Reset)

	ts := newTestServer(t, writeData(t), reg)
	get(t, ts.URL+"/api/layout")

	resp, body := get(t, ts.URL+"/metrics")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	for _, want := range []string{
		`memorytree_pipeline_stage_total{stage="fetch",status="success",variant="static"} 1`,
		`memorytree_pipeline_fetched_nodes{source="static"} 4`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("metrics missing %q", want)
		}
	}
}

func TestMetricsDisabled(t *testing.T) {
	ts := newTestServer(t, writeData(t), nil)
	resp, _ := get(t, ts.URL+"/metrics")
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404 without a gatherer", resp.StatusCode)
	}
}

func TestStatusFor(t *testing.T) {
	if got := statusFor(io.EOF); got != http.StatusInternalServerError {
		t.Errorf("statusFor(EOF) = %d", got)
	}
}
