package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/shadergraph/pkg/pipeline"
	"github.com/matzehuels/shadergraph/pkg/render"
)

// renderOpts holds the flags of the render command.
type renderOpts struct {
	output   string  // output file; empty derives it from the graph file
	format   string  // dot, svg, pdf or png; empty derives it from output
	detailed bool    // show params and input defaults in node labels
	scale    float64 // PNG scale factor
}

// renderCommand creates the "render" command, which draws the graph as a
// node-link diagram.
func (c *CLI) renderCommand() *cobra.Command {
	var opts renderOpts

	cmd := &cobra.Command{
		Use:   "render [file]",
		Short: "Draw the graph as a DOT, SVG, PDF or PNG diagram",
		Long: `Draw the graph with Graphviz. Each node lists its inputs on the left and
its outputs on the right; the output node is outlined in bold.

PDF and PNG output need rsvg-convert from librsvg.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := c.graphFile()
			if len(args) == 1 {
				path = args[0]
			}
			format, out, err := resolveRenderTarget(path, opts)
			if err != nil {
				return err
			}

			g, err := c.loadGraph(path)
			if err != nil {
				return err
			}
			runner, err := c.newRunner(cmd.Context())
			if err != nil {
				return err
			}
			defer runner.Close()

			var (
				data   []byte
				cached bool
			)
			message := fmt.Sprintf("Rendering %s...", format)
			if format == render.FormatPDF || format == render.FormatPNG {
				message = fmt.Sprintf("Rendering %s with rsvg-convert...", format)
			}
			err = c.withSpinner(cmd.Context(), message, func() error {
				data, cached, err = runner.Render(cmd.Context(), g, pipeline.RenderOptions{
					Format:   format,
					Detailed: opts.detailed,
					Scale:    opts.scale,
				})
				return err
			})
			if err != nil {
				return err
			}

			if out == "-" {
				_, err := cmd.OutOrStdout().Write(data)
				return err
			}
			if err := os.WriteFile(out, data, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", out, err)
			}
			printSuccess("Rendered %s", path)
			printFile(out)
			printStats(g.Len(), len(g.Links()), cached)
			return nil
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file, - for stdout (default <graph>.<format>)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "", "dot, svg, pdf or png (default from --output, then svg)")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "show params and input defaults")
	cmd.Flags().Float64Var(&opts.scale, "scale", 2, "PNG scale factor")
	return cmd
}

// resolveRenderTarget picks the format and output path. An explicit format
// wins; otherwise the output extension decides, falling back to svg.
func resolveRenderTarget(graphPath string, opts renderOpts) (render.Format, string, error) {
	name := opts.format
	if name == "" && opts.output != "" && opts.output != "-" {
		name = strings.TrimPrefix(filepath.Ext(opts.output), ".")
	}
	if name == "" {
		name = string(render.FormatSVG)
	}
	format, err := render.ParseFormat(name)
	if err != nil {
		return "", "", err
	}
	out := opts.output
	if out == "" {
		out = strings.TrimSuffix(graphPath, filepath.Ext(graphPath)) + "." + string(format)
	}
	return format, out, nil
}
