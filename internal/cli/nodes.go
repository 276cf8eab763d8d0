package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/shadergraph/pkg/graph"
)

// nodesCommand creates the "nodes" command, which prints the catalogue.
func (c *CLI) nodesCommand() *cobra.Command {
	var category string

	cmd := &cobra.Command{
		Use:   "nodes",
		Short: "List the node types that can be added",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var rows [][]string
			for _, t := range c.Registry.Types() {
				if category != "" && !inCategory(t, category) {
					continue
				}
				rows = append(rows, []string{t.Name, strings.Join(t.Category, " / "), signature(t), params(t)})
			}
			if len(rows) == 0 {
				printWarning("No node types in category %q", category)
				return nil
			}

			tbl := catalogueTable("Type", "Category", "Signature", "Params").
				Rows(rows...).
				StyleFunc(func(row, col int) lipgloss.Style {
					switch {
					case row == -1:
						return listHeaderStyle
					case col == 0:
						return StyleValue
					case col == 2:
						return StyleKind
					}
					return StyleDim
				})
			fmt.Fprintln(cmd.OutOrStdout(), tbl.Render())
			return nil
		},
	}

	cmd.Flags().StringVar(&category, "category", "", "only list types under this category, e.g. Math")
	return cmd
}

func inCategory(t *graph.NodeType, category string) bool {
	for _, c := range t.Category {
		if strings.EqualFold(c, category) {
			return true
		}
	}
	return false
}

// params renders "op: Add|Sub" for enums and "value: 0" for literals.
func params(t *graph.NodeType) string {
	parts := make([]string, len(t.Params))
	for i, p := range t.Params {
		if len(p.Options) > 0 {
			parts[i] = p.Name + ": " + strings.Join(p.Options, "|")
		} else {
			parts[i] = p.Name + ": " + p.Default.String()
		}
	}
	return strings.Join(parts, ", ")
}
