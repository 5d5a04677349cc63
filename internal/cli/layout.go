package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/jsontree/pkg/graph"
	"github.com/matzehuels/jsontree/pkg/pipeline"
)

// layoutFlags are the input and geometry flags shared by layout, render,
// query, tree and explore.
type layoutFlags struct {
	inputFormat string
	noCache     bool
	opts        pipeline.Options
}

func (f *layoutFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.inputFormat, "input-format", "", "input format: json, yaml (default: from file extension)")
	cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "disable caching")
	cmd.Flags().Float64Var(&f.opts.HorizontalGap, "horizontal-gap", 0, "horizontal distance between sibling subtrees (default 200)")
	cmd.Flags().Float64Var(&f.opts.VerticalGap, "vertical-gap", 0, "vertical distance between depth levels (default 100)")
	cmd.Flags().Float64Var(&f.opts.Margin, "margin", 0, "offset of the root from the origin (default 50)")

	_ = cmd.RegisterFlagCompletionFunc("input-format", completeInputFormats)
}

// layoutCommand creates the layout command for computing tree layouts.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		flags  layoutFlags
		output string
	)

	cmd := &cobra.Command{
		Use:   "layout [input]",
		Short: "Compute the tree layout of a JSON document",
		Long: `Compute the tree layout of a JSON document.

The input is a JSON or YAML file, "-" for stdin, or an http(s) URL. Without an
input the built-in sample document is used.

The output is a layout.json file (same format as 'render -f json') holding
every node's position, the edges and the path index. Render it later with
'visualize'.

Results are cached locally for faster subsequent runs.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runLayout(cmd.Context(), argOrEmpty(args), flags, output)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.layout.json, - for stdout)")
	flags.register(cmd)

	return cmd
}

// runLayout decodes the input, computes the layout, and writes output.
func (c *CLI) runLayout(ctx context.Context, arg string, flags layoutFlags, output string) error {
	runner, err := c.newRunner(ctx, flags.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	g, in, cacheHit, err := c.loadLayout(ctx, runner, arg, flags)
	if err != nil {
		return err
	}

	outputPath := output
	if outputPath == "" {
		outputPath = in.Name + ".layout.json"
	}
	if outputPath == inputStdin {
		return graph.Write(g, c.Out)
	}
	if err := graph.WriteFile(g, outputPath); err != nil {
		return fmt.Errorf("write output %s: %w", outputPath, err)
	}

	printSuccess("Layout complete")
	printFile(outputPath)
	printStats(len(g.Nodes), len(g.Edges), cacheHit)
	printNewline()
	printNextStep("Render", appName+" visualize "+outputPath)

	return nil
}

// loadLayout reads, decodes and lays out the input under a spinner.
func (c *CLI) loadLayout(ctx context.Context, runner *pipeline.Runner, arg string, flags layoutFlags) (graph.Graph, *input, bool, error) {
	in, err := c.readInput(ctx, arg, flags.inputFormat, runner.Cache, os.Stdin)
	if err != nil {
		return graph.Graph{}, nil, false, err
	}

	opts := flags.opts
	c.applyConfig(&opts)

	doc, err := runner.DecodeDocument(ctx, in.Data, in.Format)
	if err != nil {
		return graph.Graph{}, nil, false, err
	}

	p := newProgress(c.Logger)
	spinner := newSpinnerWithContext(ctx, "Computing layout...")
	spinner.Start()
	g, cacheHit, err := runner.LayoutWithCacheInfo(ctx, doc, opts)
	if err != nil {
		spinner.StopWithError("Layout failed")
		return graph.Graph{}, nil, false, fmt.Errorf("compute layout: %w", err)
	}
	spinner.Stop()
	p.done(fmt.Sprintf("Laid out %d nodes", len(g.Nodes)))

	if ctx.Err() != nil {
		return graph.Graph{}, nil, false, ctx.Err()
	}
	return g, in, cacheHit, nil
}

func argOrEmpty(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}
