package server

import (
	"context"
	"encoding/json"
	"errors"
	"html/template"
	"net/http"
	"net/url"
	"strconv"

	_ "embed"

	mterrors "github.com/matzehuels/memorytree/pkg/errors"
	"github.com/matzehuels/memorytree/pkg/pipeline"
	"github.com/matzehuels/memorytree/pkg/render/memtree/layout"
	"github.com/matzehuels/memorytree/pkg/render/memtree/styles"
)

//go:embed viewer.html.tmpl
var viewerSource string

var viewerTemplate = template.Must(template.New("viewer").Parse(viewerSource))

// viewerPage is the data passed to the viewer template.
type viewerPage struct {
	Title       string
	RunID       string
	Layout      string
	Palette     string
	Layouts     []layout.Kind
	Palettes    []string
	SVG         template.HTML
	Degraded    bool
	SourceError string
	Nodes       int
}

func (s *Server) handleViewer(w http.ResponseWriter, r *http.Request) {
	result, opts, ok := s.run(w, r, pipeline.FormatSVG)
	if !ok {
		return
	}

	page := viewerPage{
		Title:    result.Tree.Name,
		RunID:    result.RunID,
		Layout:   string(result.Layout.Kind),
		Palette:  opts.Palette,
		Layouts:  layout.Kinds,
		Palettes: styles.Names(),
		// The SVG sink escapes every label and URL.
		SVG:      template.HTML(result.Artifacts[pipeline.FormatSVG]),
		Degraded: result.Degraded,
		Nodes:    result.Stats.NodeCount,
	}
	if result.SourceError != nil {
		page.SourceError = mterrors.UserMessage(result.SourceError)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := viewerTemplate.Execute(w, page); err != nil {
		s.cfg.Logger.Error("render viewer", "err", err)
	}
}

// handleArtifact serves one rendered format as-is.
func (s *Server) handleArtifact(format, contentType string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		result, _, ok := s.run(w, r, format)
		if !ok {
			return
		}
		w.Header().Set("Content-Type", contentType)
		w.WriteHeader(http.StatusOK)
		w.Write(result.Artifacts[format])
	}
}

// run executes the pipeline for one request. On failure it writes the error
// response and returns ok=false.
func (s *Server) run(w http.ResponseWriter, r *http.Request, format string) (*pipeline.Result, pipeline.Options, bool) {
	opts, err := applyQuery(s.cfg.Options, r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return nil, opts, false
	}
	opts.Formats = []string{format}
	opts.Logger = s.cfg.Logger

	result, err := s.runner.Execute(r.Context(), opts)
	if err != nil {
		writeError(w, statusFor(err), err)
		return nil, opts, false
	}

	w.Header().Set("X-Run-ID", result.RunID)
	if result.Degraded {
		w.Header().Set("X-Degraded", "true")
	}
	if opts.Palette == "" {
		opts.Palette = pipeline.DefaultPalette
	}
	return result, opts, true
}

// applyQuery overrides base with the recognised query parameters.
func applyQuery(base pipeline.Options, q url.Values) (pipeline.Options, error) {
	opts := base
	if v := q.Get("layout"); v != "" {
		opts.Layout = v
	}
	if v := q.Get("palette"); v != "" {
		opts.Palette = v
	}

	floats := []struct {
		key string
		dst *float64
	}{
		{"width", &opts.Width},
		{"height", &opts.Height},
		{"angle_span", &opts.AngleSpan},
		{"spread", &opts.Spread},
		{"jitter", &opts.Jitter},
	}
	for _, f := range floats {
		v := q.Get(f.key)
		if v == "" {
			continue
		}
		n, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return opts, mterrors.Wrap(mterrors.ErrCodeInvalidInput, err, "query parameter %s", f.key)
		}
		*f.dst = n
	}

	if v := q.Get("margin"); v != "" {
		n, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return opts, mterrors.Wrap(mterrors.ErrCodeInvalidInput, err, "query parameter margin")
		}
		opts.Margin = &n
	}
	if v := q.Get("seed"); v != "" {
		n, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return opts, mterrors.Wrap(mterrors.ErrCodeInvalidInput, err, "query parameter seed")
		}
		opts.Seed = &n
	}
	return opts, nil
}

// statusFor maps a pipeline error to an HTTP status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	}
	switch mterrors.GetCode(err) {
	case mterrors.ErrCodeInvalidInput, mterrors.ErrCodeInvalidFormat, mterrors.ErrCodeInvalidGeometry,
		mterrors.ErrCodeInvalidPalette, mterrors.ErrCodeInvalidSource:
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, errorResponse{
		Error: mterrors.UserMessage(err),
		Code:  string(mterrors.GetCode(err)),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
