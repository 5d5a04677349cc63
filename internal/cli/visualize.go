package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	jerrors "github.com/matzehuels/jsontree/pkg/errors"
	"github.com/matzehuels/jsontree/pkg/graph"
	"github.com/matzehuels/jsontree/pkg/pipeline"
)

// visualizeCommand creates the visualize command for rendering from a layout.
func (c *CLI) visualizeCommand() *cobra.Command {
	var (
		rflags  renderFlags
		noCache bool
		opts    pipeline.Options
	)

	cmd := &cobra.Command{
		Use:   "visualize [layout.json]",
		Short: "Render a diagram from a computed layout",
		Long: `Render a diagram from a computed layout.

The visualize command takes a layout.json file (produced by 'layout' or
'render -f json') and renders it. The layout holds all positions, so this step
is purely about presentation.

Use 'render' as a shortcut to go directly from a document to visual output.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Formats = parseFormats(rflags.formats)
			return c.runVisualize(cmd.Context(), args[0], opts, rflags, noCache)
		},
	}

	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().StringVarP(&opts.Query, "query", "q", "", "path of the node to highlight")
	registerRenderFlags(cmd, &rflags, &opts)

	return cmd
}

// runVisualize loads the layout and renders it.
func (c *CLI) runVisualize(ctx context.Context, input string, opts pipeline.Options, rflags renderFlags, noCache bool) error {
	g, err := graph.ReadFile(input)
	if err != nil {
		return jerrors.Wrap(jerrors.ErrCodeInvalidDocument, err, "load layout %s", input)
	}
	if err := graph.Validate(g); err != nil {
		return jerrors.Wrap(jerrors.ErrCodeInvalidDocument, err, "invalid layout %s", input)
	}

	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	c.applyConfig(&opts)

	var highlight string
	if opts.Query != "" {
		highlight, err = runner.Query(ctx, g, opts.Query)
		switch {
		case pipeline.IsNoMatch(err):
			printWarning("No match for %s", opts.Query)
			c.Logger.Debug("query not resolved", "reason", jerrors.UserMessage(err))
		case err != nil:
			return err
		}
	}

	spinner := newSpinnerWithContext(ctx, "Rendering...")
	spinner.Start()
	artifacts, cacheHit, err := runner.RenderWithCacheInfo(ctx, g, highlight, opts)
	if err != nil {
		spinner.StopWithError("Visualization failed")
		return fmt.Errorf("visualize: %w", err)
	}
	spinner.Stop()

	return c.writeArtifacts(artifactWriteParams{
		artifacts: artifacts,
		formats:   formatsOrDefault(opts.Formats),
		base:      strings.TrimSuffix(strings.TrimSuffix(input, ".json"), ".layout"),
		output:    rflags.output,
		cacheHit:  cacheHit,
		nodes:     len(g.Nodes),
		edges:     len(g.Edges),
	})
}
