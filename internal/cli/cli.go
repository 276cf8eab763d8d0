package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/shadergraph/internal/config"
	"github.com/matzehuels/shadergraph/pkg/buildinfo"
	"github.com/matzehuels/shadergraph/pkg/cache"
	"github.com/matzehuels/shadergraph/pkg/errors"
	"github.com/matzehuels/shadergraph/pkg/graph"
	sgio "github.com/matzehuels/shadergraph/pkg/io"
	"github.com/matzehuels/shadergraph/pkg/nodes"
	"github.com/matzehuels/shadergraph/pkg/pipeline"
	"github.com/matzehuels/shadergraph/pkg/store"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "shadergraph"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger   *log.Logger
	Config   *config.Config
	Registry *graph.Registry

	configPath string
	graphPath  string
	noCache    bool
}

// New creates a new CLI instance with a default logger and the built-in
// node catalogue.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger:   newLogger(w, level),
		Config:   config.Default(),
		Registry: nodes.Default(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Shadergraph builds fragment shaders from node graphs",
		Long:         `Shadergraph edits node graphs of math, texture and output nodes, evaluates them on the host and compiles them to WGSL for Bevy materials or plain wgpu pipelines.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := c.loadConfig(); err != nil {
				return err
			}
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default ./"+config.FileName+")")
	root.PersistentFlags().StringVarP(&c.graphPath, "graph", "g", "", "graph file (default from config, then "+sgio.DefaultFile+")")
	root.PersistentFlags().BoolVar(&c.noCache, "no-cache", false, "disable the code cache")

	root.AddCommand(c.newCommand())
	root.AddCommand(c.nodesCommand())
	root.AddCommand(c.showCommand())
	root.AddCommand(c.addCommand())
	root.AddCommand(c.removeCommand())
	root.AddCommand(c.connectCommand())
	root.AddCommand(c.disconnectCommand())
	root.AddCommand(c.setOutputCommand())
	root.AddCommand(c.setCommand())
	root.AddCommand(c.evalCommand())
	root.AddCommand(c.compileCommand())
	root.AddCommand(c.watchCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.graphsCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.versionCommand())
	root.AddCommand(c.completionCommand())

	return root
}

func (c *CLI) loadConfig() error {
	path := c.configPath
	if path == "" {
		path = config.Path(".")
	}
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}
	c.Config = cfg
	c.Logger.Debug("loaded config", "path", path, "target", cfg.Target, "cache", cfg.Cache.Backend)
	return nil
}

// =============================================================================
// Graph Files
// =============================================================================

// graphFile returns the graph file commands operate on.
func (c *CLI) graphFile() string {
	if c.graphPath != "" {
		return c.graphPath
	}
	if c.Config != nil && c.Config.Graph != "" {
		return c.Config.Graph
	}
	return sgio.DefaultFile
}

func isHCL(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".hcl")
}

// loadGraph reads a JSON graph, or an HCL graph when path ends in .hcl.
func (c *CLI) loadGraph(path string) (*graph.Graph, error) {
	if isHCL(path) {
		return sgio.ReadHCLFile(path, c.Registry)
	}
	return sgio.ReadGraphFile(path, c.Registry)
}

// saveGraph writes g as JSON. HCL graphs are authored by hand and never
// rewritten.
func (c *CLI) saveGraph(g *graph.Graph, path string) error {
	if isHCL(path) {
		return errors.New(errors.ErrCodeUnsupported, "%s is an HCL graph; edit it by hand or use a .json graph", path)
	}
	return sgio.WriteGraphFile(g, path)
}

// editGraph loads the current graph file, applies fn and saves the result.
func (c *CLI) editGraph(fn func(*graph.Graph) error) (*graph.Graph, error) {
	path := c.graphFile()
	g, err := c.loadGraph(path)
	if err != nil {
		return nil, err
	}
	if err := fn(g); err != nil {
		return nil, err
	}
	if err := c.saveGraph(g, path); err != nil {
		return nil, err
	}
	c.Logger.Debug("saved graph", "path", path, "nodes", g.Len())
	return g, nil
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner backed by the configured cache.
func (c *CLI) newRunner(ctx context.Context) (*pipeline.Runner, error) {
	ch, err := c.newCache(ctx)
	if err != nil {
		return nil, err
	}
	r := pipeline.NewRunner(ch, nil, c.Logger)
	r.TTL = c.Config.Cache.TTL.Duration
	return r, nil
}

func (c *CLI) newCache(ctx context.Context) (cache.Cache, error) {
	if c.noCache {
		return cache.NewNullCache(), nil
	}
	cfg := c.Config.Cache
	switch cfg.Backend {
	case config.BackendNone:
		return cache.NewNullCache(), nil
	case config.BackendRedis:
		return cache.NewRedisCache(ctx, cache.RedisConfig{URL: cfg.RedisURL, Addr: cfg.Addr, Prefix: cfg.Prefix})
	}
	dir := cfg.Dir
	if dir == "" {
		d, err := cacheDir()
		if err != nil {
			return cache.NewNullCache(), nil
		}
		dir = d
	}
	return cache.NewFileCache(dir)
}

// newStore opens the configured document store.
func (c *CLI) newStore(ctx context.Context) (store.Store, error) {
	cfg := c.Config.Store
	if cfg.Backend == config.BackendMongo {
		return store.NewMongoStore(ctx, store.MongoConfig{URI: cfg.URI, Database: cfg.Database, Collection: cfg.Collection})
	}
	return store.NewFileStore(cfg.Dir)
}

// compileOptions returns pipeline options from config with target
// overridden when set.
func (c *CLI) compileOptions(target string, validate bool) pipeline.Options {
	if target == "" {
		target = c.Config.Target
	}
	return pipeline.Options{
		Target:   graph.Target(target),
		Validate: validate,
		Blocks:   c.Config.Blocks,
	}
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/shadergraph/).
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
