package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/shadergraph/pkg/errors"
	"github.com/matzehuels/shadergraph/pkg/graph"
	"github.com/matzehuels/shadergraph/pkg/nodes"
)

// newCommand creates the "new" command, which writes the default graph.
func (c *CLI) newCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "new",
		Short: "Create a graph holding only a fragment output node",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := c.graphFile()
			if _, err := os.Stat(path); err == nil && !force {
				return errors.New(errors.ErrCodeInvalidInput, "%s already exists (use --force to overwrite)", path)
			}
			g, err := nodes.NewDefaultGraph(c.Registry)
			if err != nil {
				return err
			}
			if err := c.saveGraph(g, path); err != nil {
				return err
			}
			printSuccess("Created graph")
			printFile(path)
			printNextStep("Add a node", appName+" add")
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "overwrite an existing graph file")
	return cmd
}

// showCommand creates the "show" command, which lists the graph's nodes.
func (c *CLI) showCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "List the nodes and links of the graph",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := c.graphFile()
			g, err := c.loadGraph(path)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), StyleTitle.Render(path))
			writeGraph(cmd.OutOrStdout(), g)
			printStats(g.Len(), len(g.Links()), false)
			return nil
		},
	}
}

// writeGraph prints one line per node: its id, type, params and inputs.
// Linked inputs show their producer, unlinked inputs their literal.
func writeGraph(w io.Writer, g *graph.Graph) {
	out, hasOut := g.Output()
	for _, id := range g.Nodes() {
		n, _ := g.Node(id)
		s := n.Sockets()

		mark := " "
		if hasOut && id == out {
			mark = StyleHighlight.Render(iconOutput)
		}
		parts := []string{fmt.Sprintf("%s #%d %s", mark, id, StyleValue.Render(n.Type().Name))}
		for _, p := range s.Params {
			if p.IsEnum() {
				parts = append(parts, StyleDim.Render(p.Name+"=")+p.Choice)
			} else {
				parts = append(parts, StyleDim.Render(p.Name+"=")+p.Value.String())
			}
		}
		for i, in := range s.Inputs {
			if src, ok := g.Producer(id, i); ok {
				srcNode, _ := g.Node(src.Node)
				name := srcNode.Sockets().Outputs[src.Index].Name
				parts = append(parts, StyleDim.Render(in.Name+"←")+fmt.Sprintf("#%d.%s", src.Node, name))
			} else {
				parts = append(parts, StyleDim.Render(in.Name+"=")+in.Default.String())
			}
		}
		fmt.Fprintln(w, strings.Join(parts, "  "))
	}
}

// addCommand creates the "add" command. Without a type it opens the
// interactive node picker.
func (c *CLI) addCommand() *cobra.Command {
	var output bool

	cmd := &cobra.Command{
		Use:   "add [type]",
		Short: "Add a node to the graph",
		Long: `Add a node of the given type to the graph and print its id.

The type is the display name from "shadergraph nodes", e.g. "Vec3 Math".
Without a type an interactive picker lists the catalogue.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			typeName := ""
			if len(args) == 1 {
				typeName = args[0]
			} else {
				picked, err := pickNodeType(c.Registry.Types())
				if err != nil {
					return err
				}
				if picked == nil {
					printInfo("Cancelled")
					return nil
				}
				typeName = picked.Name
			}

			n, err := c.Registry.New(typeName)
			if err != nil {
				return err
			}
			var id graph.NodeID
			if _, err := c.editGraph(func(g *graph.Graph) error {
				id = g.Add(n)
				if output {
					return g.SetOutput(id)
				}
				return nil
			}); err != nil {
				return err
			}
			printSuccess("Added #%d %s", id, typeName)
			return nil
		},
	}

	cmd.Flags().BoolVar(&output, "output", false, "make the new node the graph output")
	cmd.ValidArgsFunction = c.completeNodeTypes
	return cmd
}

func (c *CLI) removeCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"remove"},
		Short:   "Remove a node and its links",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseNodeID(args[0])
			if err != nil {
				return err
			}
			if _, err := c.editGraph(func(g *graph.Graph) error {
				if _, ok := g.Node(id); !ok {
					return errors.New(errors.ErrCodeNodeNotFound, "node %d not found", id).WithNode(id)
				}
				g.Remove(id)
				return nil
			}); err != nil {
				return err
			}
			printSuccess("Removed #%d", id)
			return nil
		},
	}
}

func (c *CLI) connectCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "connect <src[.output]> <dst.input>",
		Short: "Link an output socket to an input socket",
		Long: `Link an output socket to an input socket, replacing any existing link
into that input. Sockets are given by name or index:

  shadergraph connect 3 5.color
  shadergraph connect 2.out 4.b`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := c.editGraph(func(g *graph.Graph) error {
				src, out, err := parseSocketRef(g, args[0], true)
				if err != nil {
					return err
				}
				dst, in, err := parseSocketRef(g, args[1], false)
				if err != nil {
					return err
				}
				return g.Connect(src, out, dst, in)
			}); err != nil {
				return err
			}
			printSuccess("Connected %s %s %s", args[0], iconArrow, args[1])
			return nil
		},
	}
}

func (c *CLI) disconnectCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "disconnect <dst.input>",
		Short: "Remove the link into an input socket",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := c.editGraph(func(g *graph.Graph) error {
				dst, in, err := parseSocketRef(g, args[0], false)
				if err != nil {
					return err
				}
				g.Disconnect(dst, in)
				return nil
			}); err != nil {
				return err
			}
			printSuccess("Disconnected %s", args[0])
			return nil
		},
	}
}

func (c *CLI) setOutputCommand() *cobra.Command {
	var clear bool

	cmd := &cobra.Command{
		Use:   "set-output [id]",
		Short: "Choose the node the graph compiles from",
		Args:  cobra.RangeArgs(0, 1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if clear == (len(args) == 1) {
				return errors.New(errors.ErrCodeInvalidInput, "give a node id or --clear")
			}
			if _, err := c.editGraph(func(g *graph.Graph) error {
				if clear {
					g.ClearOutput()
					return nil
				}
				id, err := parseNodeID(args[0])
				if err != nil {
					return err
				}
				return g.SetOutput(id)
			}); err != nil {
				return err
			}
			if clear {
				printSuccess("Cleared output node")
			} else {
				printSuccess("Output is now #%s", strings.TrimPrefix(args[0], "#"))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&clear, "clear", false, "unset the output node")
	return cmd
}

// setCommand creates the "set" command, which edits a param or the literal
// default of an input.
func (c *CLI) setCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "set <id> <name> <value>",
		Short: "Set a param or an input default",
		Long: `Set a param or the literal an unconnected input falls back to.

Enum params take one of their options. Literals are numbers or comma
separated components, optionally wrapped in a constructor:

  shadergraph set 2 op Mul
  shadergraph set 2 a 0.5
  shadergraph set 4 color "color(1, 0.5, 0, 1)"`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseNodeID(args[0])
			if err != nil {
				return err
			}
			name, raw := args[1], args[2]
			if _, err := c.editGraph(func(g *graph.Graph) error {
				return setSocket(g, id, name, raw)
			}); err != nil {
				return err
			}
			printSuccess("Set #%d %s = %s", id, name, raw)
			return nil
		},
	}
}

// setSocket applies raw to the param or input called name. Params win when
// a node has both.
func setSocket(g *graph.Graph, id graph.NodeID, name, raw string) error {
	n, ok := g.Node(id)
	if !ok {
		return errors.New(errors.ErrCodeNodeNotFound, "node %d not found", id).WithNode(id)
	}
	s := n.Sockets()
	if p := s.Param(name); p != nil {
		if p.IsEnum() {
			return g.SetChoice(id, name, raw)
		}
		v, err := parseValue(raw, p.Value.Kind())
		if err != nil {
			return err
		}
		return g.SetParam(id, name, v)
	}
	idx := n.Type().InputIndex(name)
	if idx < 0 {
		return errors.New(errors.ErrCodeInvalidSocket, "node %d (%s) has no param or input %q", id, n.Type().Name, name).WithNode(id)
	}
	v, err := parseValue(raw, s.Inputs[idx].Kind)
	if err != nil {
		return err
	}
	return g.SetInputDefault(id, idx, v)
}

// completeNodeTypes completes the first argument with registered type names.
func (c *CLI) completeNodeTypes(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	var names []string
	for _, t := range c.Registry.Types() {
		if strings.HasPrefix(strings.ToLower(t.Name), strings.ToLower(toComplete)) {
			names = append(names, t.Name+"\t"+strings.Join(t.Category, "/"))
		}
	}
	return names, cobra.ShellCompDirectiveNoFileComp
}
