package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/shadergraph/pkg/buildinfo"
	"github.com/matzehuels/shadergraph/pkg/observability"
)

// SetVersion overrides the build information shown by --version and the
// version command. Empty values keep what the build recorded.
func SetVersion(v, c, d string) {
	if v != "" {
		buildinfo.Version = v
	}
	if c != "" {
		buildinfo.Commit = c
	}
	if d != "" {
		buildinfo.Date = d
	}
}

// Execute runs the shadergraph CLI until ctx is cancelled and returns the
// first command error.
//
// Logging goes to stderr at info level, or debug level with --verbose (-v).
// Verbose mode also logs compile, cache and request events.
// The logger is attached to the command context and available to helpers
// via loggerFromContext.
func Execute(ctx context.Context) error {
	var verbose bool

	c := New(os.Stderr, LogInfo)
	root := c.RootCommand()
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")

	loadConfig := root.PersistentPreRunE
	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if verbose {
			c.SetLogLevel(LogDebug)
			hooks := observability.NewLogHooks(c.Logger)
			observability.SetGraphHooks(hooks)
			observability.SetCacheHooks(hooks)
			observability.SetHTTPHooks(hooks)
		}
		return loadConfig(cmd, args)
	}

	return root.ExecuteContext(ctx)
}

// versionCommand prints the build information.
func (c *CLI) versionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), appName+" "+buildinfo.Version)
			fmt.Fprintf(cmd.OutOrStdout(), "commit: %s\nbuilt: %s\n", buildinfo.Commit, buildinfo.Date)
			return nil
		},
	}
}
