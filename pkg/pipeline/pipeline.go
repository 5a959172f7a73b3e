// Package pipeline runs flow graphs through preparation, layout, and
// rendering with caching.
//
// The CLI and the HTTP service share one [Runner] so both apply the same
// defaults, cache keys, and hooks:
//
//	runner := pipeline.NewRunner(c, nil, logger)
//	res, err := runner.Execute(ctx, g, pipeline.Options{Format: pipeline.FormatSVG})
//	os.Stdout.Write(res.Artifact)
//
// # Stages
//
//  1. Prepare: optionally break cycles, then assign levels when asked to
//     or when every node sits on level 0 while edges exist.
//  2. Layout: expand embedded flows bottom-up, then lay out the graph with
//     the layered engine (or export DOT for the graphviz engine).
//  3. Render: draw SVG, convert to PNG/PDF, or emit JSON or DOT.
//
// Layouts are cached by the hash of the input graph and the options that
// change them; renders by the hash of the layout and the render options.
package pipeline

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/flowlayout/pkg/cache"
	flowerrors "github.com/matzehuels/flowlayout/pkg/errors"
	"github.com/matzehuels/flowlayout/pkg/graph"
	"github.com/matzehuels/flowlayout/pkg/layout"
	"github.com/matzehuels/flowlayout/pkg/render/svg"
)

// =============================================================================
// Default Values
// =============================================================================

// Engines.
const (
	EngineLayered  = "layered"
	EngineGraphviz = "graphviz"
)

// Output formats.
const (
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatPDF  = "pdf"
	FormatJSON = "json"
	FormatDOT  = "dot"
)

const (
	// DefaultFormat is the output format when none is given.
	DefaultFormat = FormatSVG

	// DefaultScale is the PNG scale factor.
	DefaultScale = 2.0
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:  true,
	FormatPNG:  true,
	FormatPDF:  true,
	FormatJSON: true,
	FormatDOT:  true,
}

// ValidEngines is the set of supported layout engines.
var ValidEngines = map[string]bool{
	EngineLayered:  true,
	EngineGraphviz: true,
}

// =============================================================================
// Options
// =============================================================================

// Options configures a pipeline run. It doubles as the JSON body of the
// HTTP API.
type Options struct {
	// Layout engine constants.
	Layout layout.Options `json:"layout"`

	// Preparation.
	AssignLevels bool `json:"assign_levels,omitempty"`
	BreakCycles  bool `json:"break_cycles,omitempty"`
	ExpandFlows  bool `json:"expand_flows,omitempty"` // expand every embedded flow, not only those marked expanded

	// Engine is "layered" (default) or "graphviz".
	Engine string `json:"engine,omitempty"`

	// Rendering.
	Format string  `json:"format,omitempty"`
	Margin float64 `json:"margin,omitempty"`
	Scale  float64 `json:"scale,omitempty"`

	// Refresh skips cache reads; results are still written.
	Refresh bool `json:"refresh,omitempty"`

	Logger *log.Logger `json:"-"`
}

// SetDefaults fills zero fields.
func (o *Options) SetDefaults() {
	o.Layout = o.Layout.WithDefaults()
	if o.Engine == "" {
		o.Engine = EngineLayered
	}
	if o.Format == "" {
		o.Format = DefaultFormat
	}
	if o.Margin == 0 {
		o.Margin = svg.DefaultMargin
	}
	if o.Scale == 0 {
		o.Scale = DefaultScale
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// Validate applies defaults and checks every field.
func (o *Options) Validate() error {
	o.SetDefaults()
	if err := o.Layout.Validate(); err != nil {
		return err
	}
	if err := ValidateEngine(o.Engine); err != nil {
		return err
	}
	if err := ValidateFormat(o.Format); err != nil {
		return err
	}
	if o.Margin < 0 || o.Scale < 0 {
		return flowerrors.New(flowerrors.ErrCodeInvalidConfig, "margin and scale must not be negative")
	}
	return nil
}

// ValidateFormat checks that a format is supported.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return flowerrors.New(flowerrors.ErrCodeInvalidConfig,
			"invalid format: %q (must be one of: svg, png, pdf, json, dot)", format)
	}
	return nil
}

// ValidateEngine checks that an engine is supported.
func ValidateEngine(engine string) error {
	if !ValidEngines[engine] {
		return flowerrors.New(flowerrors.ErrCodeInvalidConfig,
			"invalid engine: %q (must be one of: layered, graphviz)", engine)
	}
	return nil
}

// LayoutKeyOpts returns the cache key options of the layout stage.
func (o *Options) LayoutKeyOpts() cache.LayoutKeyOpts {
	return cache.LayoutKeyOpts{
		AssignLevels: o.AssignLevels,
		BreakCycles:  o.BreakCycles,
		ExpandFlows:  o.ExpandFlows,
		Options:      engineOptions{Engine: o.Engine, Layout: o.Layout},
	}
}

type engineOptions struct {
	Engine string         `json:"engine"`
	Layout layout.Options `json:"layout"`
}

// RenderKeyOpts returns the cache key options of the render stage.
func (o *Options) RenderKeyOpts() cache.RenderKeyOpts {
	return cache.RenderKeyOpts{
		Format: o.Format,
		Engine: o.Engine,
		Margin: o.Margin,
		Scale:  o.Scale,
	}
}

// =============================================================================
// Result
// =============================================================================

// Result holds the outputs of Execute.
type Result struct {
	GraphHash string
	Layout    graph.Layout
	Artifact  []byte
	Format    string
	Stats     Stats
	CacheInfo CacheInfo
}

// Stats holds sizes and timings.
type Stats struct {
	NodeCount  int
	EdgeCount  int
	LayoutTime time.Duration
	RenderTime time.Duration
}

// CacheInfo reports which stages were served from cache.
type CacheInfo struct {
	LayoutHit bool
	RenderHit bool
}

// ContentType returns the MIME type of an output format.
func ContentType(format string) string {
	switch format {
	case FormatSVG:
		return "image/svg+xml"
	case FormatPNG:
		return "image/png"
	case FormatPDF:
		return "application/pdf"
	case FormatJSON:
		return "application/json"
	case FormatDOT:
		return "text/vnd.graphviz"
	default:
		return fmt.Sprintf("application/octet-stream; format=%s", format)
	}
}
