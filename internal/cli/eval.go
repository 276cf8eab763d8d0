package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/shadergraph/pkg/graph"
)

// evalCommand creates the "eval" command, which computes a node's value on
// the host without generating code.
func (c *CLI) evalCommand() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "eval [id]",
		Short: "Evaluate a node, or the output node, on the host",
		Long: `Evaluate output 0 of a node using the literal defaults of unconnected
inputs. Without an id the output node is evaluated. Nodes that only exist
on the GPU, such as texture samples, report NOT_EVALUABLE.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := file
			if path == "" {
				path = c.graphFile()
			}
			g, err := c.loadGraph(path)
			if err != nil {
				return err
			}

			var id graph.NodeID
			if len(args) == 1 {
				if id, err = parseNodeID(args[0]); err != nil {
					return err
				}
			}

			runner, err := c.newRunner(cmd.Context())
			if err != nil {
				return err
			}
			defer runner.Close()

			prog := newProgress(loggerFromContext(cmd.Context()))
			v, err := runner.Evaluate(cmd.Context(), g, id)
			if err != nil {
				return err
			}
			prog.done("evaluated", "node", id, "kind", v.Kind())
			fmt.Fprintln(cmd.OutOrStdout(), v.String())
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "graph file to evaluate, .json or .hcl (default --graph)")
	return cmd
}
