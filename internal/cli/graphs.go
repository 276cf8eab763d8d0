package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/shadergraph/pkg/store"
)

// graphsCommand creates the "graphs" command group, which moves graphs
// between the working file and the configured document store.
func (c *CLI) graphsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "graphs",
		Short: "Manage graphs in the document store",
	}

	cmd.AddCommand(c.graphsListCommand())
	cmd.AddCommand(c.graphsPushCommand())
	cmd.AddCommand(c.graphsPullCommand())
	cmd.AddCommand(c.graphsRemoveCommand())

	return cmd
}

func (c *CLI) graphsListCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List stored graphs, most recently updated first",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := c.newStore(cmd.Context())
			if err != nil {
				return err
			}
			defer st.Close()

			docs, err := st.List(cmd.Context())
			if err != nil {
				return err
			}
			if len(docs) == 0 {
				printInfo("No stored graphs")
				printNextStep("Store the current graph", appName+" graphs push")
				return nil
			}

			rows := make([][]string, len(docs))
			for i, d := range docs {
				rows[i] = []string{d.ID.String(), d.Name, d.UpdatedAt.Local().Format("2006-01-02 15:04")}
			}
			tbl := catalogueTable("ID", "Name", "Updated").
				Rows(rows...).
				StyleFunc(func(row, col int) lipgloss.Style {
					if row == -1 {
						return listHeaderStyle
					}
					if col == 0 {
						return StyleDim
					}
					return StyleValue
				})
			fmt.Fprintln(cmd.OutOrStdout(), tbl.Render())
			return nil
		},
	}
}

func (c *CLI) graphsPushCommand() *cobra.Command {
	var name, id string

	cmd := &cobra.Command{
		Use:   "push",
		Short: "Store the current graph file",
		Long: `Store the current graph file as a new document and print its id.
With --id the existing document is replaced.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := c.graphFile()
			g, err := c.loadGraph(path)
			if err != nil {
				return err
			}
			if name == "" {
				name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
			}
			doc, err := store.NewDocument(name, g)
			if err != nil {
				return err
			}
			if id != "" {
				if doc.ID, err = store.ParseID(id); err != nil {
					return err
				}
			}

			st, err := c.newStore(cmd.Context())
			if err != nil {
				return err
			}
			defer st.Close()

			if err := st.Save(cmd.Context(), doc); err != nil {
				return err
			}
			printSuccess("Stored %s", name)
			printKeyValue("id", doc.ID.String())
			return nil
		},
	}

	cmd.Flags().StringVarP(&name, "name", "n", "", "document name (default the graph file name)")
	cmd.Flags().StringVar(&id, "id", "", "replace the document with this id")
	return cmd
}

func (c *CLI) graphsPullCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "pull <id>",
		Short: "Write a stored graph to the graph file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := store.ParseID(args[0])
			if err != nil {
				return err
			}
			path := c.graphFile()
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", path)
			}

			st, err := c.newStore(cmd.Context())
			if err != nil {
				return err
			}
			defer st.Close()

			doc, err := st.Load(cmd.Context(), id)
			if err != nil {
				return err
			}
			g, err := doc.Decode(c.Registry)
			if err != nil {
				return err
			}
			if err := c.saveGraph(g, path); err != nil {
				return err
			}
			printSuccess("Pulled %s", doc.Name)
			printFile(path)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "overwrite an existing graph file")
	return cmd
}

func (c *CLI) graphsRemoveCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"remove"},
		Short:   "Delete a stored graph",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := store.ParseID(args[0])
			if err != nil {
				return err
			}
			st, err := c.newStore(cmd.Context())
			if err != nil {
				return err
			}
			defer st.Close()

			if err := st.Delete(cmd.Context(), id); err != nil {
				return err
			}
			printSuccess("Deleted %s", id)
			return nil
		},
	}
}
