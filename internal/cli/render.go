package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/classcanvas/classcanvas/pkg/config"
	"github.com/classcanvas/classcanvas/pkg/parsers"
	"github.com/classcanvas/classcanvas/pkg/pipeline"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output      string   // output file (single format) or base path (multiple)
	formats     []string // output formats: png, svg, svg-embed, dot, json
	scale       float64  // raster scale factor
	noCache     bool     // disable caching
	refresh     bool     // bypass the diagram cache and reparse
	interactive bool     // pick source files interactively
}

// newRenderCmd creates the render command for generating class diagrams.
//
// Default settings:
//   - format: svg
//   - scale: 1.0
//   - layout and theme: from the config file, falling back to built-ins
func newRenderCmd(cfg *config.Config) *cobra.Command {
	var formatsStr string
	opts := renderOpts{scale: 1.0}

	cmd := &cobra.Command{
		Use:   "render <file|dir>...",
		Short: "Render source files as a class diagram",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.formats = parseFormats(formatsStr)
			for _, f := range opts.formats {
				if !pipeline.ValidFormats[f] {
					return fmt.Errorf("invalid format: %s (must be 'png', 'svg', 'svg-embed', 'dot', 'gv-svg', or 'json')", f)
				}
			}
			return runRender(cmd.Context(), cfg, args, &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), png, svg-embed, dot, gv-svg, json (comma-separated)")
	cmd.Flags().Float64Var(&opts.scale, "scale", opts.scale, "raster scale factor for png output")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "reparse even when a cached diagram exists")
	cmd.Flags().BoolVarP(&opts.interactive, "interactive", "i", false, "pick source files interactively")

	return cmd
}

func runRender(ctx context.Context, cfg *config.Config, args []string, opts *renderOpts) error {
	logger := loggerFromContext(ctx)
	registry := parsers.DefaultRegistry(logger)

	files, err := collectSourceFiles(registry, args)
	if err != nil {
		return err
	}
	if opts.interactive {
		files, err = pickSourceFiles(files)
		if err != nil {
			return err
		}
		if len(files) == 0 {
			printInfo("Nothing selected")
			return nil
		}
	}

	runner, err := newRunner(ctx, cfg, opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Cache.Close()

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Rendering %d files", len(files)))
	spinner.Start()

	p := newProgress(logger)
	result, err := runner.Execute(ctx, pipeline.Options{
		Files:    files,
		Registry: registry,
		Formats:  opts.formats,
		Layout:   cfg.LayoutConfig(),
		Theme:    cfg.RenderTheme(),
		Scale:    opts.scale,
		Refresh:  opts.refresh,
		Logger:   logger,
	})
	spinner.Stop()
	if err != nil {
		return err
	}
	p.done(fmt.Sprintf("Rendered %d formats", len(opts.formats)))
	printStats(result.Stats.ClassCount, result.Stats.RelationshipCount, result.CacheInfo.RenderHit)

	base := basePath(opts.output, args[0])
	for _, format := range opts.formats {
		path := outputPath(base, format, len(opts.formats) == 1, opts.output)
		if err := os.WriteFile(path, result.Artifacts[format], 0o644); err != nil {
			return err
		}
		printFile(path)
	}
	printSuccess("Done")
	return nil
}

// basePath derives the base output path from the output flag and the first
// input argument. A directory input becomes its own name; a file input is
// stripped of its extension.
func basePath(output, input string) string {
	if output == "" {
		base := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
		if base == "" || base == "." {
			base = "diagram"
		}
		return base
	}
	ext := strings.TrimPrefix(filepath.Ext(output), ".")
	if pipeline.ValidFormats[ext] {
		return strings.TrimSuffix(output, "."+ext)
	}
	return output
}

// outputPath builds the path for one artifact. With a single format and an
// explicit --output, the output is used verbatim; otherwise the format
// becomes the extension.
func outputPath(base, format string, single bool, output string) string {
	if single && output != "" {
		return output
	}
	ext := format
	switch format {
	case pipeline.FormatSVGEmbed:
		ext = "svg"
		base += "_embed"
	case pipeline.FormatGVSVG:
		ext = "svg"
		base += "_gv"
	}
	return base + "." + ext
}
