package cli

import (
	"context"
	"os"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/classcanvas/classcanvas/pkg/buildinfo"
	"github.com/classcanvas/classcanvas/pkg/config"
)

// Execute runs the classcanvas CLI and returns an error if any command fails.
// This is the main entry point for the CLI application.
//
// The function sets up the root command with all subcommands (parse, render,
// serve, cache), configures logging based on the --verbose flag, and executes
// the command tree.
//
// Logging:
//   - Default: info level (logs to stderr)
//   - With --verbose (-v): debug level
//
// The logger is attached to the context and accessible to all commands via
// loggerFromContext. The context carries cancellation from the caller, so
// Ctrl-C interrupts long renders and stops the serve command cleanly.
func Execute(ctx context.Context) error {
	var (
		verbose    bool
		configPath string
	)
	cfg := &config.Config{}

	root := &cobra.Command{
		Use:          appName,
		Short:        "ClassCanvas draws class diagrams from source code",
		Long:         `ClassCanvas is a CLI tool for extracting class structure from TypeScript, JavaScript, C++, and C# sources and rendering it as UML-style class diagrams.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level := charmlog.InfoLevel
			if verbose {
				level = charmlog.DebugLevel
			}
			ctx := withLogger(cmd.Context(), newLogger(os.Stderr, level))
			cmd.SetContext(ctx)

			loaded, err := config.Load(configPath)
			if err != nil {
				return err
			}
			*cfg = *loaded
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVar(&configPath, "config", "", "config file (default: ./"+config.DefaultFileName+")")

	root.AddCommand(newParseCmd(cfg))
	root.AddCommand(newRenderCmd(cfg))
	root.AddCommand(newServeCmd(cfg))
	root.AddCommand(newCacheCmd(cfg))
	root.AddCommand(newCompletionCmd())

	return root.ExecuteContext(ctx)
}
