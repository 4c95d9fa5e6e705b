package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/harnesskit/internal/server"
)

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr      string
		noCache   bool
		withStore bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: `Serve the validate, export and diagram operations over HTTP, with
Prometheus metrics on /metrics. With --store the configured document store
is exposed under /v1/documents.

The server stops gracefully on SIGINT or SIGTERM.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if addr == "" {
				addr = c.Config.Server.Addr
			}
			runner, err := c.newRunner(noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			metrics := server.NewMetrics()
			metrics.Install()
			opts := []server.Option{server.WithMetrics(metrics)}

			if withStore {
				s, err := openStore(ctx, c.Config.Store)
				if err != nil {
					return err
				}
				defer s.Close()
				opts = append(opts, server.WithStore(s))
			}

			logger := loggerFromContext(ctx)
			logger.Debug("starting server", "store", withStore, "cache", !noCache)
			return server.New(runner, logger, opts...).ListenAndServe(ctx, addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, else :8080)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the diagram cache")
	cmd.Flags().BoolVar(&withStore, "store", false, "expose the configured document store")

	return cmd
}
