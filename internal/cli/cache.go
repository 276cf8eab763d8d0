package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/shadergraph/internal/config"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the compiled code cache",
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())

	return cmd
}

// cacheClearCommand creates the "cache clear" subcommand. It clears the
// configured backend, so a redis cache only loses keys under its prefix.
func (c *CLI) cacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove all cached shaders and diagrams",
		RunE: func(cmd *cobra.Command, args []string) error {
			ch, err := c.newCache(cmd.Context())
			if err != nil {
				return err
			}
			defer ch.Close()

			if err := ch.Clear(cmd.Context()); err != nil {
				return fmt.Errorf("clear cache: %w", err)
			}
			printSuccess("Cleared %s cache", c.cacheBackend())
			if dir, ok := c.cachePath(); ok {
				printDetail("Directory: %s", dir)
			}
			return nil
		},
	}
}

// cachePathCommand creates the "cache path" subcommand.
func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the cache directory path",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, ok := c.cachePath()
			if !ok {
				printInfo("The %s cache has no directory", c.cacheBackend())
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), dir)
			return nil
		},
	}
}

func (c *CLI) cacheBackend() string {
	if c.noCache {
		return config.BackendNone
	}
	return c.Config.Cache.Backend
}

// cachePath returns the file cache directory, or false for other backends.
func (c *CLI) cachePath() (string, bool) {
	if c.cacheBackend() != config.BackendFile {
		return "", false
	}
	if dir := c.Config.Cache.Dir; dir != "" {
		return dir, true
	}
	dir, err := cacheDir()
	if err != nil {
		return "", false
	}
	return dir, true
}
