// Package cli implements the classcanvas command-line interface.
//
// This package provides commands for parsing class structure out of source
// files, rendering class diagrams in several formats, serving the render
// API over HTTP, and managing the artifact cache. The CLI is built using
// cobra and supports verbose logging via the charmbracelet/log library.
//
// # Commands
//
// The main commands are:
//   - parse: Extract a class diagram from source files as JSON
//   - render: Generate PNG, SVG, DOT, or JSON diagrams
//   - serve: Run the HTTP render service
//   - cache: Manage the diagram and artifact cache
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Loggers are
// passed through context.Context to allow structured progress tracking.
//
// # Example
//
//	import "github.com/classcanvas/classcanvas/internal/cli"
//
//	func main() {
//	    if err := cli.Execute(context.Background()); err != nil {
//	        os.Exit(1)
//	    }
//	}
package cli

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/classcanvas/classcanvas/pkg/cache"
	"github.com/classcanvas/classcanvas/pkg/config"
	"github.com/classcanvas/classcanvas/pkg/parsers"
	"github.com/classcanvas/classcanvas/pkg/pipeline"
)

// appName is the application name used for directories and display.
const appName = "classcanvas"

// newRunner creates a pipeline runner backed by the configured cache.
func newRunner(ctx context.Context, cfg *config.Config, noCache bool) (*pipeline.Runner, error) {
	c, err := newCache(ctx, cfg, noCache)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(c, nil, loggerFromContext(ctx)), nil
}

// newCache selects a cache backend from the config. An unusable file
// backend degrades to the null cache rather than failing the command.
func newCache(ctx context.Context, cfg *config.Config, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	switch cfg.Cache.Backend {
	case "none":
		return cache.NewNullCache(), nil
	case "redis":
		return cache.NewRedisCacheURL(ctx, cfg.Cache.URL)
	case "mongo":
		return cache.NewMongoCache(ctx, cfg.Cache.URL, appName, "artifacts")
	default:
		dir := cfg.Cache.Dir
		if dir == "" {
			var err error
			if dir, err = cacheDir(); err != nil {
				return cache.NewNullCache(), nil
			}
		}
		return cache.NewFileCache(dir)
	}
}

// cacheDir returns the cache directory using XDG standard (~/.cache/classcanvas/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// collectSourceFiles expands the command arguments into source files.
// Directory arguments are walked recursively; only files with a supported
// extension are picked up. File arguments are taken as-is so an
// unsupported extension surfaces as an error later instead of silently
// vanishing.
func collectSourceFiles(registry *parsers.Registry, args []string) ([]parsers.SourceFile, error) {
	supported := make(map[string]bool)
	for _, ext := range registry.Extensions() {
		supported[ext] = true
	}

	var paths []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			paths = append(paths, arg)
			continue
		}
		err = filepath.WalkDir(arg, func(path string, d os.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() || !supported[strings.ToLower(filepath.Ext(path))] {
				return nil
			}
			paths = append(paths, path)
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	sort.Strings(paths)

	files := make([]parsers.SourceFile, 0, len(paths))
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		files = append(files, parsers.SourceFile{Name: filepath.Base(path), Content: string(data)})
	}
	return files, nil
}

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{pipeline.FormatSVG}
	}
	return strings.Split(s, ",")
}
