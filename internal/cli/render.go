package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	jerrors "github.com/matzehuels/jsontree/pkg/errors"
	"github.com/matzehuels/jsontree/pkg/graph"
	"github.com/matzehuels/jsontree/pkg/pipeline"
	"github.com/matzehuels/jsontree/pkg/watch"
)

// renderFlags are the presentation flags shared by render and visualize.
type renderFlags struct {
	formats string
	output  string
}

func registerRenderFlags(cmd *cobra.Command, f *renderFlags, opts *pipeline.Options) {
	cmd.Flags().StringVarP(&f.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&f.formats, "format", "f", "", "output format(s): svg (default), png, pdf, dot, json (comma-separated)")
	cmd.Flags().StringVarP(&opts.VizType, "type", "t", "", "visualization type: tree (default), nodelink")
	cmd.Flags().StringVar(&opts.Theme, "theme", "", "colour theme: light (default), dark")
	cmd.Flags().Float64Var(&opts.NodeWidth, "node-width", 0, "node box width (default 150)")
	cmd.Flags().Float64Var(&opts.NodeHeight, "node-height", 0, "node box height (default 40)")
	cmd.Flags().Float64Var(&opts.Scale, "scale", 0, "PNG scale factor (default 2)")

	_ = cmd.RegisterFlagCompletionFunc("format", completeFormats)
	_ = cmd.RegisterFlagCompletionFunc("type", completeVizTypes)
	_ = cmd.RegisterFlagCompletionFunc("theme", completeThemes)
}

// renderCommand creates the render command: input document to visual output.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		flags   layoutFlags
		rflags  renderFlags
		doWatch bool
	)

	cmd := &cobra.Command{
		Use:   "render [input]",
		Short: "Render a JSON document as a tree diagram",
		Long: `Render a JSON document as a tree diagram.

Runs the full pipeline (decode, layout, query, render) and writes one file per
requested format. --query highlights the node the path resolves to; a query
that matches nothing is reported and the diagram is rendered without a
highlight.

With --watch the input file is re-rendered every time it is saved.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			flags.opts.Formats = parseFormats(rflags.formats)
			arg := argOrEmpty(args)
			if !doWatch {
				return c.runRender(cmd.Context(), arg, flags, rflags)
			}
			return c.watchRender(cmd.Context(), arg, flags, rflags)
		},
	}

	cmd.Flags().StringVarP(&flags.opts.Query, "query", "q", "", "path of the node to highlight, e.g. $.items[0]")
	cmd.Flags().BoolVarP(&doWatch, "watch", "w", false, "re-render when the input file changes")
	registerRenderFlags(cmd, &rflags, &flags.opts)
	flags.register(cmd)

	return cmd
}

// runRender executes the pipeline once and writes the artifacts.
func (c *CLI) runRender(ctx context.Context, arg string, flags layoutFlags, rflags renderFlags) error {
	runner, err := c.newRunner(ctx, flags.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	in, err := c.readInput(ctx, arg, flags.inputFormat, runner.Cache, os.Stdin)
	if err != nil {
		return err
	}

	opts := flags.opts
	c.applyConfig(&opts)
	opts.Document, opts.InputFormat, opts.Name = in.Data, in.Format, in.Name

	spinner := newSpinnerWithContext(ctx, "Rendering...")
	spinner.Start()
	result, err := runner.Execute(ctx, opts)
	if err != nil {
		spinner.StopWithError("Render failed")
		return err
	}
	spinner.Stop()

	if opts.Query != "" && result.Match == "" {
		printWarning("No match for %s", opts.Query)
	}

	return c.writeArtifacts(artifactWriteParams{
		artifacts: result.Artifacts,
		formats:   formatsOrDefault(opts.Formats),
		base:      in.Name,
		output:    rflags.output,
		cacheHit:  result.CacheInfo.LayoutHit && result.CacheInfo.RenderHit,
		nodes:     result.Stats.NodeCount,
		edges:     result.Stats.EdgeCount,
	})
}

// watchRender renders once, then again after every saved change until ctx
// is cancelled. Failed renders are reported and the watch continues.
func (c *CLI) watchRender(ctx context.Context, arg string, flags layoutFlags, rflags renderFlags) error {
	if arg == "" || arg == inputStdin || jerrors.IsURL(arg) {
		return jerrors.New(jerrors.ErrCodeInvalidInput, "--watch needs a local input file")
	}

	render := func(ctx context.Context) error {
		return c.runRender(ctx, arg, flags, rflags)
	}
	if err := render(ctx); err != nil {
		printError("%s", jerrors.UserMessage(err))
	}

	printInfo("Watching %s (Ctrl+C to stop)", arg)
	err := watch.File(ctx, arg, watch.DefaultDebounce, render, func(err error) {
		printError("%s", jerrors.UserMessage(err))
	})
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func formatsOrDefault(formats []string) []string {
	if len(formats) == 0 {
		return []string{graph.FormatSVG}
	}
	return formats
}
