package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/shadergraph/internal/server"
)

// serveCommand creates the "serve" command, which exposes compilation,
// evaluation and the graph store over HTTP.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the compiler and graph store over HTTP",
		Long: `Start an HTTP server with JSON endpoints for compiling and evaluating
graphs, listing node types and storing graphs. The server stops cleanly on
interrupt.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg := c.Config.Server
			if addr == "" {
				addr = cfg.Addr
			}

			runner, err := c.newRunner(ctx)
			if err != nil {
				return err
			}
			defer runner.Close()

			st, err := c.newStore(ctx)
			if err != nil {
				return err
			}
			defer st.Close()

			srv := server.New(runner, st, c.Registry, c.compileOptions("", false), c.Logger)
			printInfo("Listening on http://%s", addr)
			return srv.ListenAndServe(ctx, addr, cfg.ReadTimeout.Duration, cfg.WriteTimeout.Duration)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config)")
	return cmd
}
