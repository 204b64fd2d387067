// Package pipeline provides the core diagram pipeline for ClassCanvas.
//
// This package implements the complete parse → layout → render pipeline that
// can be used by CLI and server components. By centralizing this logic, we
// ensure consistent behavior across all entry points and avoid code
// duplication.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Parse: Extract class structure from source files and infer relationships
//  2. Layout: Compute box positions and orthogonal relationship paths
//  3. Render: Generate output in various formats (PNG, SVG, DOT, JSON)
//
// Each stage can be run independently or as part of the complete pipeline.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{
//	    Files:   []parsers.SourceFile{{Name: "zoo.ts", Content: src}},
//	    Formats: []string{pipeline.FormatSVG},
//	}
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts[pipeline.FormatSVG]
//
// Run individual stages:
//
//	// Parse only
//	d, err := runner.Parse(ctx, opts)
//
//	// Layout with an existing diagram
//	lay, err := runner.ComputeLayout(ctx, d, opts)
//
//	// Render with an existing layout
//	artifacts, err := runner.Render(ctx, d, lay, opts)
package pipeline

import (
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/classcanvas/classcanvas/pkg/errors"
	"github.com/classcanvas/classcanvas/pkg/layout"
	"github.com/classcanvas/classcanvas/pkg/model"
	"github.com/classcanvas/classcanvas/pkg/parsers"
	"github.com/classcanvas/classcanvas/pkg/render"
)

// Format constants for output formats.
const (
	FormatPNG = "png"
	FormatSVG = "svg"
	// FormatSVGEmbed wraps the rendered PNG in an SVG image element,
	// for hosts that accept only SVG but want raster fidelity.
	FormatSVGEmbed = "svg-embed"
	FormatDOT      = "dot"
	// FormatGVSVG renders the DOT view through Graphviz instead of the
	// native layout engine.
	FormatGVSVG = "gv-svg"
	FormatJSON  = "json"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatPNG:      true,
	FormatSVG:      true,
	FormatSVGEmbed: true,
	FormatDOT:      true,
	FormatGVSVG:    true,
	FormatJSON:     true,
}

// DefaultScale is the raster scale factor when none is requested.
const DefaultScale = 1.0

// DefaultThemeName identifies the built-in theme in cache keys.
const DefaultThemeName = "default"

// Options configures a pipeline run. Zero values fall back to defaults
// via ValidateAndSetDefaults.
type Options struct {
	// Files are the source files to parse. At least one is required.
	Files []parsers.SourceFile

	// Registry selects the language parsers. Nil means the default
	// registry with all built-in languages.
	Registry *parsers.Registry

	// Formats lists the artifacts to produce. Defaults to SVG.
	Formats []string

	// Layout overrides the layout constants. The zero value means
	// layout.DefaultConfig().
	Layout layout.Config

	// Theme overrides box and edge colors. The zero value means
	// render.DefaultTheme().
	Theme render.Theme

	// ThemeName distinguishes themes in artifact cache keys.
	ThemeName string

	// Scale multiplies raster output dimensions. Defaults to 1.
	Scale float64

	// Refresh bypasses the parse cache and recomputes from source.
	Refresh bool

	// Logger overrides the runner's logger for this run.
	Logger *log.Logger
}

// ValidateAndSetDefaults validates options for a full pipeline run and
// fills in defaults.
func (o *Options) ValidateAndSetDefaults() error {
	if len(o.Files) == 0 {
		return errors.New(errors.ErrCodeInvalidInput, "at least one source file is required")
	}
	if o.Registry == nil {
		o.Registry = parsers.DefaultRegistry(o.Logger)
	}
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	for _, f := range o.Formats {
		if !ValidFormats[f] {
			return errors.New(errors.ErrCodeInvalidFormat, "unsupported format %q", f)
		}
	}
	if o.Layout.BoxWidth == 0 {
		o.Layout = layout.DefaultConfig()
	}
	if o.Theme.Background == "" {
		o.Theme = render.DefaultTheme()
	}
	if o.ThemeName == "" {
		o.ThemeName = DefaultThemeName
	}
	if o.Scale <= 0 {
		o.Scale = DefaultScale
	}
	return nil
}

// LanguageTag summarizes the languages the selected files map to, for
// cache keys and logging. Files without a registered parser are ignored;
// with none recognized the tag is "none".
func (o *Options) LanguageTag() string {
	seen := make(map[string]bool)
	for _, f := range o.Files {
		p, err := o.Registry.ParserForFile(f.Name)
		if err != nil {
			continue
		}
		seen[p.Language()] = true
	}
	if len(seen) == 0 {
		return "none"
	}
	langs := make([]string, 0, len(seen))
	for lang := range seen {
		langs = append(langs, lang)
	}
	sort.Strings(langs)
	return strings.Join(langs, "+")
}

// sourcePairs shapes the files for content hashing.
func (o *Options) sourcePairs() [][2]string {
	pairs := make([][2]string, len(o.Files))
	for i, f := range o.Files {
		pairs[i] = [2]string{f.Name, f.Content}
	}
	return pairs
}

// Stats captures per-stage timing and diagram size for a pipeline run.
type Stats struct {
	ParseTime  time.Duration `json:"parse_time"`
	LayoutTime time.Duration `json:"layout_time"`
	RenderTime time.Duration `json:"render_time"`

	ClassCount        int `json:"class_count"`
	RelationshipCount int `json:"relationship_count"`
	LevelCount        int `json:"level_count"`
}

// CacheInfo reports which stages were served from cache.
type CacheInfo struct {
	ParseHit  bool `json:"parse_hit"`
	LayoutHit bool `json:"layout_hit"`
	RenderHit bool `json:"render_hit"`
}

// Layout bundles the computed context with its routed paths. This is the
// unit the layout stage caches and the render stage consumes.
type Layout struct {
	Context *layout.Context `json:"context"`
	Routes  []layout.Route  `json:"routes"`
}

// Result holds the output of a complete pipeline run.
type Result struct {
	Diagram *model.ClassDiagram
	Layout  Layout

	// DiagramHash and LayoutHash identify the intermediate results for
	// cache keys and API responses.
	DiagramHash string
	LayoutHash  string

	Artifacts map[string][]byte
	Stats     Stats
	CacheInfo CacheInfo
}
