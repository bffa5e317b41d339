// Package pipeline provides the fetch → layout → render pipeline of memorytree.
//
// The same pipeline serves the CLI, the HTTP viewer and the terminal browser,
// so every entry point applies the same defaults, fallbacks and logging.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Fetch: obtain the tree from a static JSON file or an Omeka S API
//  2. Layout: compute node positions for the chosen geometry
//  3. Render: produce SVG, JSON, DOT or Graphviz-rendered SVG
//
// A source that cannot be read does not fail the run: the fetch stage logs
// the error and continues with a placeholder root labelled
// "Error loading data", and [Result.Degraded] is set.
//
// # Usage
//
//	runner := pipeline.NewRunner(logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Mode:     pipeline.ModeStatic,
//	    DataPath: "data.json",
//	    Layout:   "radial",
//	    Formats:  []string{"svg"},
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
package pipeline

import (
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/memorytree/pkg/errors"
	"github.com/matzehuels/memorytree/pkg/integrations/omeka"
	"github.com/matzehuels/memorytree/pkg/render/memtree/layout"
	"github.com/matzehuels/memorytree/pkg/render/memtree/styles"
	"github.com/matzehuels/memorytree/pkg/source"
	"github.com/matzehuels/memorytree/pkg/tree"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI, Server and TUI
// =============================================================================

const (
	// DefaultDataPath is the static data file read when none is given.
	DefaultDataPath = "data.json"

	// DefaultTimeout bounds every API request.
	DefaultTimeout = 30 * time.Second

	// DefaultConcurrency keeps relation queries sequential.
	DefaultConcurrency = 1

	// DefaultSeed is the organic jitter seed.
	DefaultSeed = uint64(42)

	// DefaultPalette is the default colour scheme.
	DefaultPalette = "gold"
)

// DefaultLayout is the default geometry: the classic upward-growing tree.
const DefaultLayout = layout.VerticalUp

// Source modes.
const (
	ModeStatic = source.KindStatic
	ModeRemote = source.KindRemote
)

// Format constants for output formats.
const (
	FormatSVG      = "svg"      // native SVG
	FormatJSON     = "json"     // positioned layout
	FormatTree     = "tree"     // assembled tree, readable as static input
	FormatDOT      = "dot"      // Graphviz source
	FormatGraphviz = "graphviz" // Graphviz-rendered SVG
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:      true,
	FormatJSON:     true,
	FormatTree:     true,
	FormatDOT:      true,
	FormatGraphviz: true,
}

// FormatNames lists the formats in display order.
var FormatNames = []string{FormatSVG, FormatJSON, FormatTree, FormatDOT, FormatGraphviz}

// FileExtension returns the file extension for format.
func FileExtension(format string) string {
	switch format {
	case FormatGraphviz:
		return "graphviz.svg"
	case FormatTree:
		return "tree.json"
	}
	return format
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the pipeline.
// It is read from a TOML config file and overridden by CLI flags.
type Options struct {
	// Fetch options
	Mode               string        `json:"mode,omitempty" toml:"mode"`
	DataPath           string        `json:"data_path,omitempty" toml:"data_path"`
	APIBase            string        `json:"api_base,omitempty" toml:"api_base"`
	ItemSetID          int           `json:"item_set_id,omitempty" toml:"item_set_id"`
	ItemSetLabel       string        `json:"item_set_label,omitempty" toml:"item_set_label"`
	ResourceClassID    int           `json:"resource_class_id,omitempty" toml:"resource_class_id"`
	RelationPropertyID int           `json:"relation_property_id,omitempty" toml:"relation_property_id"`
	Policy             string        `json:"policy,omitempty" toml:"policy"`
	Concurrency        int           `json:"concurrency,omitempty" toml:"concurrency"`
	PerPage            int           `json:"per_page,omitempty" toml:"per_page"`
	RateLimit          float64       `json:"rate_limit,omitempty" toml:"rate_limit"` // requests per second, 0 = unlimited
	Timeout            time.Duration `json:"timeout,omitempty" toml:"timeout"`

	// Layout options
	Layout    string   `json:"layout,omitempty" toml:"layout"`
	Width     float64  `json:"width,omitempty" toml:"width"`
	Height    float64  `json:"height,omitempty" toml:"height"`
	Margin    *float64 `json:"margin,omitempty" toml:"margin"`         // nil = layout default
	AngleSpan float64  `json:"angle_span,omitempty" toml:"angle_span"` // degrees, radial only
	Spread    float64  `json:"spread,omitempty" toml:"spread"`         // degrees, organic only
	Jitter    float64  `json:"jitter,omitempty" toml:"jitter"`         // degrees, organic only
	Seed      *uint64  `json:"seed,omitempty" toml:"seed"`             // nil = DefaultSeed
	CurveLift float64  `json:"curve_lift,omitempty" toml:"curve_lift"`

	// Render options
	Formats []string `json:"formats,omitempty" toml:"formats"`
	Palette string   `json:"palette,omitempty" toml:"palette"`
	Title   string   `json:"title,omitempty" toml:"title"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-" toml:"-"`

	// Resolver replaces the resolver built from the fetch options.
	Resolver source.Resolver `json:"-" toml:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// RunID identifies the run in logs, JSON output and server responses.
	RunID string

	// Tree is the assembled tree, or the placeholder if Degraded.
	Tree *tree.Entity

	// Layout contains the computed node positions and edge paths.
	Layout layout.Layout

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// Degraded is set when the source failed and the placeholder was used.
	Degraded bool

	// SourceError is the error that caused Degraded.
	SourceError error
}

// Stats contains pipeline execution statistics.
type Stats struct {
	NodeCount  int
	LeafCount  int
	Depth      int
	FetchTime  time.Duration
	LayoutTime time.Duration
	RenderTime time.Duration
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: %s)", format, strings.Join(FormatNames, ", "))
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateMode checks that a source mode is valid.
func ValidateMode(mode string) error {
	if mode != ModeStatic && mode != ModeRemote {
		return errors.New(errors.ErrCodeInvalidSource, "invalid mode: %q (must be one of: static, remote)", mode)
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks required fields and applies defaults for the full pipeline.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForFetch(); err != nil {
		return err
	}
	if err := o.ValidateForLayout(); err != nil {
		return err
	}
	if err := o.ValidateForRender(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// SetFetchDefaults sets default values for fetching.
func (o *Options) SetFetchDefaults() {
	if o.Mode == "" {
		o.Mode = ModeStatic
		if o.APIBase != "" {
			o.Mode = ModeRemote
		}
	}
	if o.Mode == ModeStatic && o.DataPath == "" {
		o.DataPath = DefaultDataPath
	}
	if o.RelationPropertyID == 0 {
		o.RelationPropertyID = source.DefaultRelationPropertyID
	}
	if o.Policy == "" {
		o.Policy = string(tree.IncludeAlways)
	}
	if o.Concurrency == 0 {
		o.Concurrency = DefaultConcurrency
	}
	if o.PerPage == 0 {
		o.PerPage = omeka.DefaultPerPage
	}
	if o.Timeout == 0 {
		o.Timeout = DefaultTimeout
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForFetch validates and sets defaults for fetching.
func (o *Options) ValidateForFetch() error {
	o.SetFetchDefaults()
	if o.Resolver != nil {
		return nil
	}
	if err := ValidateMode(o.Mode); err != nil {
		return err
	}
	if _, err := tree.ParsePolicy(o.Policy); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "policy")
	}
	if o.Concurrency < 0 || o.PerPage < 0 || o.RateLimit < 0 || o.Timeout < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "concurrency, per_page, rate_limit and timeout must not be negative")
	}

	switch o.Mode {
	case ModeStatic:
		return errors.ValidateSourcePath(o.DataPath)
	case ModeRemote:
		if err := errors.ValidateURL(o.APIBase); err != nil {
			return err
		}
		if o.ItemSetID < 0 || o.ResourceClassID < 0 || o.RelationPropertyID < 0 {
			return errors.New(errors.ErrCodeInvalidInput, "ids must not be negative")
		}
		if o.ItemSetID == 0 {
			if err := errors.ValidateLabel(o.ItemSetLabel); err != nil {
				return errors.Wrap(errors.ErrCodeInvalidSource, err, "remote mode needs item_set_id or item_set_label")
			}
		}
	}
	return nil
}

// SetLayoutDefaults sets default values for layout computation.
func (o *Options) SetLayoutDefaults() {
	if o.Layout == "" {
		o.Layout = string(DefaultLayout)
	}
	if o.Seed == nil {
		seed := DefaultSeed
		o.Seed = &seed
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForLayout validates and sets defaults for layout computation.
func (o *Options) ValidateForLayout() error {
	o.SetLayoutDefaults()
	kind, err := layout.ParseKind(o.Layout)
	if err != nil {
		return err
	}
	o.Layout = string(kind)
	return o.LayoutOptions().WithDefaults().Validate()
}

// LayoutOptions converts the layout fields into [layout.Options].
func (o *Options) LayoutOptions() layout.Options {
	return layout.Options{
		Kind:      layout.Kind(o.Layout),
		Width:     o.Width,
		Height:    o.Height,
		Margin:    o.Margin,
		AngleSpan: o.AngleSpan * math.Pi / 180,
		Spread:    o.Spread,
		Jitter:    o.Jitter,
		Seed:      o.seed(),
		CurveLift: o.CurveLift,
	}
}

func (o *Options) seed() uint64 {
	if o.Seed == nil {
		return DefaultSeed
	}
	return *o.Seed
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.Palette == "" {
		o.Palette = DefaultPalette
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForRender validates and sets defaults for rendering.
func (o *Options) ValidateForRender() error {
	o.SetRenderDefaults()
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	_, err := styles.Lookup(o.Palette)
	return err
}

// IsRemote returns true if the tree comes from an API.
func (o *Options) IsRemote() bool {
	return o.Mode == ModeRemote
}

// SourceName returns a short description of the data source for logs.
func (o *Options) SourceName() string {
	if o.Resolver != nil {
		return fmt.Sprintf("%T", o.Resolver)
	}
	if o.IsRemote() {
		if o.ItemSetID != 0 {
			return fmt.Sprintf("%s (item set %d)", o.APIBase, o.ItemSetID)
		}
		return fmt.Sprintf("%s (item set %q)", o.APIBase, o.ItemSetLabel)
	}
	return o.DataPath
}
