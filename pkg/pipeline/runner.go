package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/memorytree/pkg/observability"
	"github.com/matzehuels/memorytree/pkg/render/memtree/layout"
	"github.com/matzehuels/memorytree/pkg/tree"
)

// Runner encapsulates pipeline execution. The CLI, the HTTP viewer and the
// terminal browser all go through it.
//
// The Runner is stateless except for the logger - it doesn't store pipeline
// results. Multiple goroutines can safely use the same Runner with
// different options.
type Runner struct {
	Logger *log.Logger
}

// NewRunner creates a runner. A nil logger selects log.Default().
func NewRunner(logger *log.Logger) *Runner {
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Logger: logger}
}

// Execute runs the complete fetch → layout → render pipeline.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	result := &Result{RunID: uuid.NewString()}
	opts.Logger = opts.Logger.With("run", result.RunID[:8])

	// Stage 1: Fetch
	fetched, err := r.Fetch(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("fetch: %w", err)
	}
	result.Tree = fetched.Tree
	result.Degraded = fetched.Degraded
	result.SourceError = fetched.SourceError
	result.Stats.FetchTime = fetched.Duration
	result.Stats.NodeCount = tree.Count(fetched.Tree)
	result.Stats.LeafCount = len(tree.Leaves(fetched.Tree))
	result.Stats.Depth = tree.Depth(fetched.Tree)

	opts.Logger.Info("fetched tree",
		"source", opts.SourceName(),
		"people", len(fetched.Tree.Children),
		"nodes", result.Stats.NodeCount,
		"duration", result.Stats.FetchTime)

	// Stage 2: Layout
	layoutStart := time.Now()
	l, err := r.GenerateLayout(ctx, fetched.Tree, opts)
	if err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	result.Layout = l
	result.Stats.LayoutTime = time.Since(layoutStart)

	opts.Logger.Info("computed layout",
		"kind", l.Kind,
		"nodes", len(l.Nodes),
		"duration", result.Stats.LayoutTime)

	// Stage 3: Render
	renderStart := time.Now()
	artifacts, err := r.Render(ctx, fetched.Tree, l, result.RunID, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)

	opts.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// Fetch runs the fetch stage with hooks and timing.
func (r *Runner) Fetch(ctx context.Context, opts Options) (Fetched, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForFetch(); err != nil {
		return Fetched{}, err
	}

	kind := opts.Mode
	hooks := observability.Pipeline()
	hooks.OnFetchStart(ctx, kind)
	start := time.Now()

	fetched, err := Fetch(ctx, opts)
	d := time.Since(start)

	hookErr := err
	if hookErr == nil {
		hookErr = fetched.SourceError
	}
	count := 0
	if fetched.Tree != nil {
		count = tree.Count(fetched.Tree)
	}
	hooks.OnFetchComplete(ctx, kind, count, d, hookErr)

	if err != nil {
		return Fetched{}, err
	}
	fetched.Duration = d
	return fetched, nil
}

// GenerateLayout runs the layout stage with hooks.
func (r *Runner) GenerateLayout(ctx context.Context, root *tree.Entity, opts Options) (layout.Layout, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForLayout(); err != nil {
		return layout.Layout{}, err
	}

	hooks := observability.Pipeline()
	hooks.OnLayoutStart(ctx, opts.Layout, tree.Count(root))
	start := time.Now()
	l, err := GenerateLayout(root, opts)
	hooks.OnLayoutComplete(ctx, opts.Layout, time.Since(start), err)
	return l, err
}

// Render runs the render stage with hooks.
func (r *Runner) Render(ctx context.Context, root *tree.Entity, l layout.Layout, runID string, opts Options) (map[string][]byte, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForRender(); err != nil {
		return nil, err
	}

	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, opts.Formats)
	start := time.Now()
	artifacts, err := Render(ctx, root, l, runID, opts)
	hooks.OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
	return artifacts, err
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
