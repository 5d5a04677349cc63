package cli

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/jsontree/pkg/pipeline"
)

// exploreCommand creates the interactive explorer command.
func (c *CLI) exploreCommand() *cobra.Command {
	var (
		flags layoutFlags
		theme string
	)

	cmd := &cobra.Command{
		Use:   "explore [input]",
		Short: "Browse a document interactively",
		Long: `Browse a document interactively.

Keys:
  ↑/↓ j/k   move
  /         search by path, enter to jump
  t         toggle light/dark colours
  q         quit

The path under the cursor is printed on exit.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runExplore(cmd.Context(), argOrEmpty(args), flags, theme)
		},
	}

	cmd.Flags().StringVar(&theme, "theme", "", "initial colour theme: light (default), dark")
	_ = cmd.RegisterFlagCompletionFunc("theme", completeThemes)
	flags.register(cmd)

	return cmd
}

func (c *CLI) runExplore(ctx context.Context, arg string, flags layoutFlags, theme string) error {
	runner, err := c.newRunner(ctx, flags.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	g, _, _, err := c.loadLayout(ctx, runner, arg, flags)
	if err != nil {
		return err
	}

	opts := pipeline.Options{Theme: theme}
	c.applyConfig(&opts)
	opts.SetRenderDefaults()
	if err := pipeline.ValidateTheme(opts.Theme); err != nil {
		return err
	}

	final, err := tea.NewProgram(NewExplorerModel(g, opts.Palette()), tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	if err != nil {
		return fmt.Errorf("explorer: %w", err)
	}
	if m, ok := final.(ExplorerModel); ok && m.Selected() != "" {
		fmt.Fprintln(c.Out, m.Selected())
	}
	return nil
}
