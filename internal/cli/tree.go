package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/jsontree/pkg/graph"
)

var kindStyles = map[string]lipgloss.Style{
	graph.KindObject:    lipgloss.NewStyle().Foreground(lipgloss.Color("#6C63FF")),
	graph.KindArray:     lipgloss.NewStyle().Foreground(lipgloss.Color("#2FAE66")),
	graph.KindPrimitive: lipgloss.NewStyle().Foreground(lipgloss.Color("#FF9800")),
}

// treeCommand creates the tree command for printing the node hierarchy.
func (c *CLI) treeCommand() *cobra.Command {
	var (
		flags     layoutFlags
		maxDepth  int
		showPaths bool
	)

	cmd := &cobra.Command{
		Use:   "tree [input]",
		Short: "Print the node hierarchy in the terminal",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runTree(cmd.Context(), argOrEmpty(args), flags, treeTextOptions{maxDepth: maxDepth, paths: showPaths})
		},
	}

	cmd.Flags().IntVarP(&maxDepth, "depth", "d", 0, "maximum depth to print (0 = unlimited)")
	cmd.Flags().BoolVarP(&showPaths, "paths", "p", false, "print each node's path")
	flags.register(cmd)

	return cmd
}

func (c *CLI) runTree(ctx context.Context, arg string, flags layoutFlags, opts treeTextOptions) error {
	runner, err := c.newRunner(ctx, flags.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	g, _, _, err := c.loadLayout(ctx, runner, arg, flags)
	if err != nil {
		return err
	}
	fmt.Fprint(c.Out, treeText(g, opts))
	return nil
}

type treeTextOptions struct {
	maxDepth int
	paths    bool
}

// treeText draws g with box-drawing connectors, one node per line.
func treeText(g graph.Graph, opts treeTextOptions) string {
	root := g.Root()
	if root == nil {
		return ""
	}

	nodes := make(map[string]*graph.Node, len(g.Nodes))
	for i := range g.Nodes {
		nodes[g.Nodes[i].ID] = &g.Nodes[i]
	}
	children := g.Children()

	var b strings.Builder
	var walk func(id, prefix string, last bool, depth int)
	walk = func(id, prefix string, last bool, depth int) {
		n := nodes[id]
		connector, next := "├── ", "│   "
		if last {
			connector, next = "└── ", "    "
		}
		if depth == 0 {
			connector, next = "", ""
		}

		b.WriteString(StyleDim.Render(prefix + connector))
		b.WriteString(kindStyles[n.Data.Kind].Render(n.Data.Label))
		if opts.paths {
			b.WriteString("  " + StyleDim.Render(n.Data.Path))
		}
		b.WriteByte('\n')

		kids := children[id]
		if opts.maxDepth > 0 && depth >= opts.maxDepth {
			if len(kids) > 0 {
				b.WriteString(StyleDim.Render(fmt.Sprintf("%s%s… %d more\n", prefix, next, len(kids))))
			}
			return
		}
		for i, child := range kids {
			walk(child, prefix+next, i == len(kids)-1, depth+1)
		}
	}
	walk(root.ID, "", true, 0)
	return b.String()
}
