package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/shadergraph/pkg/errors"
	"github.com/matzehuels/shadergraph/pkg/graph"
	"github.com/matzehuels/shadergraph/pkg/pipeline"
	"github.com/matzehuels/shadergraph/pkg/shader"
)

// compileOpts holds the flags of the compile and watch commands.
type compileOpts struct {
	target   string // bevy or wgsl; empty uses the config
	validate bool   // run naga over the wgsl output
	refresh  bool   // ignore cached code
	blocks   bool   // print each block under a header instead of the assembled source
	output   string // write the source here instead of stdout
	spirv    string // also write a SPIR-V binary here
	glsl     string // also write GLSL here
}

func (o *compileOpts) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&o.target, "target", "t", "", "code target: bevy or wgsl (default from config)")
	cmd.Flags().BoolVar(&o.validate, "validate", false, "validate the generated WGSL with naga (wgsl target only)")
	cmd.Flags().StringVarP(&o.output, "out", "o", "", "write the shader to a file instead of stdout")
	cmd.Flags().StringVar(&o.spirv, "spirv", "", "also write a SPIR-V binary (wgsl target only)")
	cmd.Flags().StringVar(&o.glsl, "glsl", "", "also write GLSL (wgsl target only)")
}

// compileCommand creates the "compile" command.
func (c *CLI) compileCommand() *cobra.Command {
	var opts compileOpts

	cmd := &cobra.Command{
		Use:   "compile [file]",
		Short: "Generate shader code from the graph",
		Long: `Generate shader code from everything reachable from the output node.

The bevy target writes a Bevy material fragment shader using #import lines.
The wgsl target writes a self-contained WGSL module that can be validated
and cross compiled to SPIR-V or GLSL. The file may be a .json or .hcl graph.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := c.graphFile()
			if len(args) == 1 {
				path = args[0]
			}
			return c.runCompile(cmd.Context(), cmd, path, opts)
		},
	}

	opts.register(cmd)
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "ignore cached code")
	cmd.Flags().BoolVar(&opts.blocks, "blocks", false, "print each generated block under a header")
	return cmd
}

func (c *CLI) runCompile(ctx context.Context, cmd *cobra.Command, path string, opts compileOpts) error {
	g, err := c.loadGraph(path)
	if err != nil {
		return err
	}
	runner, err := c.newRunner(ctx)
	if err != nil {
		return err
	}
	defer runner.Close()

	popts := c.compileOptions(opts.target, opts.validate || opts.spirv != "" || opts.glsl != "")
	popts.Refresh = opts.refresh

	message := "Compiling..."
	if popts.Validate {
		message = "Validating shader..."
	}
	var res *pipeline.Result
	err = c.withSpinner(ctx, message, func() error {
		res, err = runner.Compile(ctx, g, popts)
		return err
	})
	if err != nil {
		return err
	}

	if err := writeCrossCompiled(res, opts); err != nil {
		return err
	}

	if opts.output == "" {
		if opts.blocks {
			printBlocks(res.Code.Names(), func(name string) string {
				text, _ := res.Code.Block(name)
				return text
			})
			return nil
		}
		fmt.Fprint(cmd.OutOrStdout(), res.Source)
		return nil
	}

	if err := os.WriteFile(opts.output, []byte(res.Source), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", opts.output, err)
	}
	printSuccess("Compiled %s for %s", path, res.Code.Target)
	printFile(opts.output)
	printStats(g.Len(), len(g.Links()), res.CacheHit)
	if res.Validated {
		printDetail("validated with naga")
	}
	return nil
}

// writeCrossCompiled writes the SPIR-V and GLSL outputs requested in opts.
func writeCrossCompiled(res *pipeline.Result, opts compileOpts) error {
	if opts.spirv == "" && opts.glsl == "" {
		return nil
	}
	if res.Code.Target != graph.TargetWGSL {
		return errors.New(errors.ErrCodeUnsupported, "cross compiling needs the %s target", graph.TargetWGSL)
	}
	if opts.spirv != "" {
		bin, err := shader.SPIRV(res.Source)
		if err != nil {
			return err
		}
		if err := os.WriteFile(opts.spirv, bin, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", opts.spirv, err)
		}
		printFile(opts.spirv)
	}
	if opts.glsl != "" {
		src, err := shader.GLSL(res.Source)
		if err != nil {
			return err
		}
		if err := os.WriteFile(opts.glsl, []byte(src), 0o644); err != nil {
			return fmt.Errorf("write %s: %w", opts.glsl, err)
		}
		printFile(opts.glsl)
	}
	return nil
}

// watchCommand creates the "watch" command, which recompiles whenever the
// graph file changes on disk.
func (c *CLI) watchCommand() *cobra.Command {
	var (
		opts     compileOpts
		interval time.Duration
	)

	cmd := &cobra.Command{
		Use:   "watch [file]",
		Short: "Recompile the graph whenever its file changes",
		Long: `Poll the graph file and recompile when it changes. While the graph is
broken the last good shader is left in place and the error is logged.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := c.graphFile()
			if len(args) == 1 {
				path = args[0]
			}
			return c.runWatch(cmd.Context(), path, opts, interval)
		},
	}

	opts.register(cmd)
	cmd.Flags().DurationVar(&interval, "interval", 500*time.Millisecond, "poll interval")
	return cmd
}

func (c *CLI) runWatch(ctx context.Context, path string, opts compileOpts, interval time.Duration) error {
	logger := loggerFromContext(ctx)

	g, err := c.loadGraph(path)
	if err != nil {
		return err
	}
	mod := modTime(path)

	runner, err := c.newRunner(ctx)
	if err != nil {
		return err
	}
	defer runner.Close()

	ref := pipeline.NewRefresher(runner, g, c.compileOptions(opts.target, opts.validate))
	ref.OnRefresh = func(res *pipeline.Result, err error) {
		if err != nil {
			logger.Error("compile failed", "file", path, "err", err)
			return
		}
		if werr := writeWatchOutput(res, opts); werr != nil {
			logger.Error("write failed", "err", werr)
			return
		}
		logger.Info("compiled", "file", path, "target", res.Code.Target, "cached", res.CacheHit)
	}

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
			m := modTime(path)
			if m.Equal(mod) {
				continue
			}
			mod = m
			next, err := c.loadGraph(path)
			if err != nil {
				logger.Warn("reload failed", "file", path, "err", err)
				continue
			}
			ref.Replace(next)
		}
	}()

	printInfo("Watching %s", path)
	err = ref.Watch(ctx, interval)
	if ctx.Err() != nil {
		printInfo("Stopped watching")
		return nil
	}
	return err
}

func writeWatchOutput(res *pipeline.Result, opts compileOpts) error {
	if opts.output == "" {
		fmt.Print(res.Source)
		return nil
	}
	if err := os.WriteFile(opts.output, []byte(res.Source), 0o644); err != nil {
		return err
	}
	return writeCrossCompiled(res, opts)
}

func modTime(path string) time.Time {
	info, err := os.Stat(path)
	if err != nil {
		return time.Time{}
	}
	return info.ModTime()
}
