package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/classcanvas/classcanvas/pkg/config"
	"github.com/classcanvas/classcanvas/pkg/parsers"
	"github.com/classcanvas/classcanvas/pkg/pipeline"
)

// parseOpts holds the command-line flags for the parse command.
type parseOpts struct {
	output  string // output file path (stdout if empty)
	noCache bool   // disable the diagram cache
	refresh bool   // bypass the diagram cache and reparse
}

// newParseCmd creates the parse command. It extracts class structure from
// the given source files or directories and writes the diagram as JSON,
// the format the render command and the HTTP API accept back.
func newParseCmd(cfg *config.Config) *cobra.Command {
	var opts parseOpts

	cmd := &cobra.Command{
		Use:   "parse <file|dir>...",
		Short: "Extract a class diagram from source files as JSON",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runParse(cmd.Context(), cfg, args, &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (stdout if empty)")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "reparse even when a cached diagram exists")

	return cmd
}

func runParse(ctx context.Context, cfg *config.Config, args []string, opts *parseOpts) error {
	logger := loggerFromContext(ctx)
	registry := parsers.DefaultRegistry(logger)

	files, err := collectSourceFiles(registry, args)
	if err != nil {
		return err
	}
	logger.Debugf("Collected %d source files", len(files))

	runner, err := newRunner(ctx, cfg, opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Cache.Close()

	p := newProgress(logger)
	d, hit, err := runner.ParseWithCacheInfo(ctx, pipeline.Options{
		Files:    files,
		Registry: registry,
		Refresh:  opts.refresh,
		Logger:   logger,
	})
	if err != nil {
		return err
	}
	p.done(fmt.Sprintf("Parsed %d classes", d.ClassCount()))
	printStats(d.ClassCount(), d.RelationshipCount(), hit)

	data, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return err
	}
	if opts.output == "" {
		fmt.Println(string(data))
		return nil
	}
	if err := os.WriteFile(opts.output, data, 0o644); err != nil {
		return err
	}
	printSuccess("Wrote diagram")
	printFile(opts.output)
	printNextStep("Render it", fmt.Sprintf("%s render %s", appName, args[0]))
	return nil
}
