// Package pipeline provides the core visualization pipeline for jsontree.
//
// This package implements the complete decode → layout → query → render
// pipeline used by the CLI and the HTTP server. Centralizing it keeps both
// entry points consistent on defaults, caching and error codes.
//
// # Architecture
//
// The pipeline consists of four stages:
//
//  1. Decode: Parse JSON or YAML bytes into a [jsondoc.Value]
//  2. Layout: Compute node positions with [tree.Layout]
//  3. Query: Optionally resolve a path query to the node to highlight
//  4. Render: Generate output in various formats (SVG, PNG, PDF, DOT, JSON)
//
// Each stage can be run independently or as part of the complete pipeline.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Document: data,
//	    Query:    "$.items[0]",
//	    Formats:  []string{"svg"},
//	})
//	svg := result.Artifacts["svg"]
//
// Run individual stages:
//
//	doc, err := runner.DecodeDocument(ctx, data, jsondoc.FormatJSON)
//	g, err := runner.Layout(ctx, doc, opts)
//	id, err := runner.Query(ctx, g, "user.scores[1]")
//	artifacts, err := runner.Render(ctx, g, id, opts)
package pipeline

import (
	"io"
	"slices"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/jsontree/pkg/cache"
	jerrors "github.com/matzehuels/jsontree/pkg/errors"
	"github.com/matzehuels/jsontree/pkg/graph"
	"github.com/matzehuels/jsontree/pkg/jsondoc"
	"github.com/matzehuels/jsontree/pkg/render"
	"github.com/matzehuels/jsontree/pkg/render/sink"
	"github.com/matzehuels/jsontree/pkg/render/styles"
	"github.com/matzehuels/jsontree/pkg/tree"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and Server
// =============================================================================

const (
	// DefaultVizType is the default visualization type.
	DefaultVizType = graph.VizTypeTree

	// DefaultTheme is the default colour theme.
	DefaultTheme = graph.ThemeLight

	// DefaultMaxDocumentSize bounds documents accepted by the pipeline.
	DefaultMaxDocumentSize = 32 << 20
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	graph.FormatSVG:  true,
	graph.FormatPNG:  true,
	graph.FormatPDF:  true,
	graph.FormatDOT:  true,
	graph.FormatJSON: true,
}

// ValidVizTypes is the set of supported visualization types.
var ValidVizTypes = map[string]bool{
	graph.VizTypeTree:     true,
	graph.VizTypeNodelink: true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the visualization pipeline.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Decode options
	Document    []byte `json:"-"`
	InputFormat string `json:"input_format,omitempty"` // json (default) or yaml
	Name        string `json:"name,omitempty"`         // label for logs

	// Layout options
	HorizontalGap float64 `json:"horizontal_gap,omitempty"`
	VerticalGap   float64 `json:"vertical_gap,omitempty"`
	Margin        float64 `json:"margin,omitempty"`

	// Query options
	Query string `json:"query,omitempty"`

	// Render options
	Formats    []string `json:"formats,omitempty"`
	VizType    string   `json:"viz_type,omitempty"`
	Theme      string   `json:"theme,omitempty"`
	NodeWidth  float64  `json:"node_width,omitempty"`
	NodeHeight float64  `json:"node_height,omitempty"`
	Scale      float64  `json:"scale,omitempty"` // PNG scale factor

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Document is the decoded input.
	Document *jsondoc.Value

	// DocumentHash is the content hash of the canonical document JSON.
	DocumentHash string

	// Graph is the laid-out tree.
	Graph graph.Graph

	// Match is the node ID the query resolved to, or "" when no query was
	// given or nothing matched.
	Match string

	// Ambiguous lists node paths whose object key cannot be queried back.
	Ambiguous []string

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	NodeCount  int
	EdgeCount  int
	DecodeTime time.Duration
	LayoutTime time.Duration
	QueryTime  time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	LayoutHit bool // Whether the layout came from cache
	RenderHit bool // Whether all artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return jerrors.New(jerrors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: svg, png, pdf, dot, json)", format)
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

// ValidateTheme checks that a theme is valid.
func ValidateTheme(theme string) error {
	if _, ok := styles.ByName(theme); !ok || theme == "" {
		return jerrors.New(jerrors.ErrCodeInvalidTheme, "invalid theme: %q (must be one of: %v)", theme, styles.Names())
	}
	return nil
}

// ValidateVizType checks that a visualization type is valid.
func ValidateVizType(vizType string) error {
	if !ValidVizTypes[vizType] {
		return jerrors.New(jerrors.ErrCodeInvalidVizType, "invalid viz_type: %q (must be one of: tree, nodelink)", vizType)
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateForDecode checks the document and input format and applies defaults.
func (o *Options) ValidateForDecode() error {
	if len(o.Document) > DefaultMaxDocumentSize {
		return jerrors.New(jerrors.ErrCodeInvalidDocument, "document too large (max %d bytes)", DefaultMaxDocumentSize)
	}
	if o.InputFormat == "" {
		o.InputFormat = jsondoc.FormatJSON
	}
	if o.InputFormat != jsondoc.FormatJSON && o.InputFormat != jsondoc.FormatYAML {
		return jerrors.New(jerrors.ErrCodeInvalidFormat, "invalid input format: %q (must be json or yaml)", o.InputFormat)
	}
	o.setLoggerDefault()
	return nil
}

// SetLayoutDefaults sets default values for layout computation.
func (o *Options) SetLayoutDefaults() {
	eff := o.TreeOptions().WithDefaults()
	o.HorizontalGap = eff.HorizontalGap
	o.VerticalGap = eff.VerticalGap
	o.Margin = eff.Margin
	o.setLoggerDefault()
}

// ValidateForLayout validates and sets defaults for layout computation.
// Negative gaps are rejected rather than silently replaced.
func (o *Options) ValidateForLayout() error {
	if o.HorizontalGap < 0 || o.VerticalGap < 0 || o.Margin < 0 {
		return jerrors.New(jerrors.ErrCodeInvalidOptions, "gaps and margin must not be negative")
	}
	o.SetLayoutDefaults()
	return nil
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{graph.FormatSVG}
	}
	if o.VizType == "" {
		o.VizType = DefaultVizType
	}
	if o.Theme == "" {
		o.Theme = DefaultTheme
	}
	if o.NodeWidth <= 0 {
		o.NodeWidth = sink.DefaultNodeWidth
	}
	if o.NodeHeight <= 0 {
		o.NodeHeight = sink.DefaultNodeHeight
	}
	if o.Scale <= 0 {
		o.Scale = render.DefaultPNGScale
	}
	o.setLoggerDefault()
}

// ValidateForRender validates and sets defaults for rendering.
func (o *Options) ValidateForRender() error {
	o.SetRenderDefaults()
	if err := ValidateVizType(o.VizType); err != nil {
		return err
	}
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	return ValidateTheme(o.Theme)
}

// ValidateAndSetDefaults checks every stage's options. It is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if err := o.ValidateForDecode(); err != nil {
		return err
	}
	if err := o.ValidateForLayout(); err != nil {
		return err
	}
	if o.Query != "" {
		if err := jerrors.ValidateQuery(o.Query); err != nil {
			return err
		}
	}
	return o.ValidateForRender()
}

func (o *Options) setLoggerDefault() {
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// TreeOptions returns the layout engine options.
func (o *Options) TreeOptions() tree.Options {
	return tree.Options{
		HorizontalGap: o.HorizontalGap,
		VerticalGap:   o.VerticalGap,
		Margin:        o.Margin,
	}
}

// IsNodelink returns true if this is a nodelink visualization.
func (o *Options) IsNodelink() bool {
	return o.VizType == graph.VizTypeNodelink
}

// Palette returns the colour palette for the configured theme.
func (o *Options) Palette() styles.Palette {
	p, _ := styles.ByName(o.Theme)
	return p
}

// LayoutKeyOpts returns cache key options for layout computation.
func (o *Options) LayoutKeyOpts() cache.LayoutKeyOpts {
	eff := o.TreeOptions().WithDefaults()
	return cache.LayoutKeyOpts{
		HorizontalGap: eff.HorizontalGap,
		VerticalGap:   eff.VerticalGap,
		Margin:        eff.Margin,
	}
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
func (o *Options) ArtifactKeyOpts(format, highlight string) cache.ArtifactKeyOpts {
	k := cache.ArtifactKeyOpts{
		Format:     format,
		VizType:    o.VizType,
		Theme:      o.Theme,
		Highlight:  highlight,
		NodeWidth:  o.NodeWidth,
		NodeHeight: o.NodeHeight,
	}
	// JSON output does not depend on presentation options.
	if format == graph.FormatJSON {
		k.VizType, k.Theme, k.Highlight, k.NodeWidth, k.NodeHeight = "", "", "", 0, 0
	}
	if format == graph.FormatPNG {
		k.Format = format + "@" + formatScale(o.Scale)
	}
	return k
}

// SortedFormats returns the formats in a stable order.
func (o *Options) SortedFormats() []string {
	out := slices.Clone(o.Formats)
	slices.Sort(out)
	return slices.Compact(out)
}
