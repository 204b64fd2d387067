package pipeline

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/classcanvas/classcanvas/pkg/cache"
	"github.com/classcanvas/classcanvas/pkg/errors"
	"github.com/classcanvas/classcanvas/pkg/layout"
	"github.com/classcanvas/classcanvas/pkg/model"
	"github.com/classcanvas/classcanvas/pkg/observability"
	"github.com/classcanvas/classcanvas/pkg/render"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and server can use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

func (r *Runner) logger(opts Options) *log.Logger {
	if opts.Logger != nil {
		return opts.Logger
	}
	return r.Logger
}

// Execute runs the complete parse → layout → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	logger := r.logger(opts)

	result := &Result{
		Artifacts: make(map[string][]byte),
	}

	// Stage 1: Parse
	parseStart := time.Now()
	d, parseHit, err := r.ParseWithCacheInfo(ctx, opts)
	if err != nil {
		return nil, err
	}
	result.Diagram = d
	result.Stats.ParseTime = time.Since(parseStart)
	result.Stats.ClassCount = d.ClassCount()
	result.Stats.RelationshipCount = d.RelationshipCount()
	result.CacheInfo.ParseHit = parseHit

	if data, err := json.Marshal(d); err == nil {
		result.DiagramHash = cache.Hash(data)
	}

	logger.Info("parsed sources",
		"classes", d.ClassCount(),
		"relationships", d.RelationshipCount(),
		"duration", result.Stats.ParseTime)

	// Stage 2: Layout
	layoutStart := time.Now()
	lay, layoutHit, err := r.ComputeLayoutWithCacheInfo(ctx, d, opts)
	if err != nil {
		return nil, err
	}
	result.Layout = lay
	result.Stats.LayoutTime = time.Since(layoutStart)
	result.Stats.LevelCount = len(lay.Context.Levels)
	result.CacheInfo.LayoutHit = layoutHit

	if data, err := json.Marshal(lay); err == nil {
		result.LayoutHash = cache.Hash(data)
	}

	logger.Info("computed layout",
		"levels", len(lay.Context.Levels),
		"routes", len(lay.Routes),
		"duration", result.Stats.LayoutTime)

	// Stage 3: Render
	renderStart := time.Now()
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, d, lay, opts)
	if err != nil {
		return nil, err
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	logger.Info("rendered outputs",
		"formats", opts.Formats,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// ParseWithCacheInfo parses the source files with caching and returns
// cache hit info. The parsed diagram already has inferred relationships
// and propagated inheritance applied.
func (r *Runner) ParseWithCacheInfo(ctx context.Context, opts Options) (*model.ClassDiagram, bool, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, false, err
	}

	cacheHooks := observability.Cache()
	cacheKey := r.Keyer.DiagramKey(opts.LanguageTag(), cache.HashSources(opts.sourcePairs()))

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			d := model.NewClassDiagram()
			if err := json.Unmarshal(data, d); err == nil {
				cacheHooks.OnCacheHit(ctx, "diagram")
				return d, true, nil
			}
		}
		cacheHooks.OnCacheMiss(ctx, "diagram")
	}

	d, err := opts.Registry.ParseFiles(ctx, opts.Files, r.logger(opts))
	if err != nil {
		return nil, false, err
	}
	model.InferRelationships(d)
	model.PropagateInheritance(d)

	if data, err := json.Marshal(d); err == nil {
		if r.Cache.Set(ctx, cacheKey, data, cache.DefaultTTL) == nil {
			cacheHooks.OnCacheSet(ctx, "diagram", len(data))
		}
	}

	return d, false, nil
}

// Parse is a convenience wrapper that discards the cache hit info.
func (r *Runner) Parse(ctx context.Context, opts Options) (*model.ClassDiagram, error) {
	d, _, err := r.ParseWithCacheInfo(ctx, opts)
	return d, err
}

// ComputeLayoutWithCacheInfo computes positions and routes with caching
// and returns cache hit info.
func (r *Runner) ComputeLayoutWithCacheInfo(ctx context.Context, d *model.ClassDiagram, opts Options) (Layout, bool, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return Layout{}, false, err
	}

	hooks := observability.Pipeline()
	cacheHooks := observability.Cache()

	diagramData, err := json.Marshal(d)
	if err != nil {
		return Layout{}, false, errors.Wrap(errors.ErrCodeInternal, err, "serialize diagram for cache key")
	}
	cacheKey := r.Keyer.LayoutKey(cache.Hash(diagramData), cache.LayoutKeyOpts{
		BoxWidth:    opts.Layout.BoxWidth,
		LevelGap:    opts.Layout.LevelGap,
		MaxLevels:   opts.Layout.MaxLevels,
		OrderPasses: opts.Layout.OrderPasses,
	})

	if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
		var cached Layout
		if err := json.Unmarshal(data, &cached); err == nil && cached.Context != nil {
			cacheHooks.OnCacheHit(ctx, "layout")
			return cached, true, nil
		}
		// Fall through and recompute when deserialization fails.
	}
	cacheHooks.OnCacheMiss(ctx, "layout")

	hooks.OnLayoutStart(ctx, d.ClassCount())
	start := time.Now()
	lctx := layout.Compute(d, opts.Layout)
	logger := r.logger(opts)
	for i, level := range lctx.Levels {
		logger.Debug("level", "index", i, "classes", strings.Join(level, ", "))
	}
	routes := layout.RoutePaths(d, lctx)
	lay := Layout{Context: lctx, Routes: routes}
	hooks.OnLayoutComplete(ctx, len(lctx.Levels), time.Since(start), nil)

	if data, err := json.Marshal(lay); err == nil {
		if r.Cache.Set(ctx, cacheKey, data, cache.DefaultTTL) == nil {
			cacheHooks.OnCacheSet(ctx, "layout", len(data))
		}
	}

	return lay, false, nil
}

// ComputeLayout is a convenience wrapper that discards the cache hit info.
func (r *Runner) ComputeLayout(ctx context.Context, d *model.ClassDiagram, opts Options) (Layout, error) {
	lay, _, err := r.ComputeLayoutWithCacheInfo(ctx, d, opts)
	return lay, err
}

// RenderWithCacheInfo generates artifacts with caching and returns cache
// hit info. The hit flag is true only when every requested format was
// served from cache.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, d *model.ClassDiagram, lay Layout, opts Options) (map[string][]byte, bool, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, false, err
	}

	hooks := observability.Pipeline()
	cacheHooks := observability.Cache()

	layoutData, err := json.Marshal(lay)
	if err != nil {
		return nil, false, errors.Wrap(errors.ErrCodeInternal, err, "serialize layout for cache key")
	}
	layoutHash := cache.Hash(layoutData)

	artifacts := make(map[string][]byte)
	allCached := true
	for _, format := range opts.Formats {
		key := r.artifactKey(layoutHash, format, opts)
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			artifacts[format] = data
		} else {
			allCached = false
			break
		}
	}
	if allCached && len(artifacts) == len(opts.Formats) {
		cacheHooks.OnCacheHit(ctx, "artifact")
		return artifacts, true, nil
	}
	cacheHooks.OnCacheMiss(ctx, "artifact")

	hooks.OnRenderStart(ctx, opts.Formats)
	start := time.Now()
	artifacts = make(map[string][]byte)
	for _, format := range opts.Formats {
		data, err := r.renderFormat(ctx, d, lay, format, opts)
		if err != nil {
			hooks.OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
			return nil, false, err
		}
		artifacts[format] = data
	}
	hooks.OnRenderComplete(ctx, opts.Formats, time.Since(start), nil)

	for _, format := range opts.Formats {
		key := r.artifactKey(layoutHash, format, opts)
		if r.Cache.Set(ctx, key, artifacts[format], cache.DefaultTTL) == nil {
			cacheHooks.OnCacheSet(ctx, "artifact", len(artifacts[format]))
		}
	}

	return artifacts, false, nil
}

// Render is a convenience wrapper that discards the cache hit info.
func (r *Runner) Render(ctx context.Context, d *model.ClassDiagram, lay Layout, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, d, lay, opts)
	return artifacts, err
}

func (r *Runner) artifactKey(layoutHash, format string, opts Options) string {
	return r.Keyer.ArtifactKey(layoutHash, cache.ArtifactKeyOpts{
		Format: format,
		Scale:  opts.Scale,
		Theme:  opts.ThemeName,
	})
}

// renderFormat produces one artifact. Each format renders against its own
// clone of the layout context since label placement mutates it.
func (r *Runner) renderFormat(ctx context.Context, d *model.ClassDiagram, lay Layout, format string, opts Options) ([]byte, error) {
	switch format {
	case FormatPNG:
		return r.renderPNG(d, lay, opts)
	case FormatSVG:
		return render.RenderSVG(d, lay.Context.Clone(), lay.Routes, render.SVGWithTheme(opts.Theme)), nil
	case FormatSVGEmbed:
		png, err := r.renderPNG(d, lay, opts)
		if err != nil {
			return nil, err
		}
		w, h := lay.Context.Bounds()
		return render.WrapPNGInSVG(png, w, h), nil
	case FormatDOT:
		return []byte(render.ToDOT(d)), nil
	case FormatGVSVG:
		return render.RenderDOT(ctx, render.ToDOT(d))
	case FormatJSON:
		return json.Marshal(d)
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported format %q", format)
	}
}

func (r *Runner) renderPNG(d *model.ClassDiagram, lay Layout, opts Options) ([]byte, error) {
	canvas, err := render.NewCanvas(render.WithTheme(opts.Theme), render.WithScale(opts.Scale))
	if err != nil {
		return nil, err
	}
	return canvas.EncodePNG(d, lay.Context.Clone(), lay.Routes)
}
