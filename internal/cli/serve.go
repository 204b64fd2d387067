package cli

import (
	"github.com/spf13/cobra"

	"github.com/classcanvas/classcanvas/internal/server"
	"github.com/classcanvas/classcanvas/pkg/config"
)

// newServeCmd creates the serve command for running the HTTP render API.
func newServeCmd(cfg *config.Config) *cobra.Command {
	var (
		addr    string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP render service",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)

			runner, err := newRunner(ctx, cfg, noCache)
			if err != nil {
				return err
			}
			defer runner.Cache.Close()

			srv := server.New(server.Config{
				Addr:   addr,
				Runner: runner,
				Layout: cfg.LayoutConfig(),
				Theme:  cfg.RenderTheme(),
				Logger: logger,
			})
			printInfo("Listening on %s", addr)
			return srv.Run(ctx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}
