package pipeline

import (
	"context"
	"strconv"

	jerrors "github.com/matzehuels/jsontree/pkg/errors"
	"github.com/matzehuels/jsontree/pkg/graph"
	"github.com/matzehuels/jsontree/pkg/render/nodelink"
	"github.com/matzehuels/jsontree/pkg/render/sink"
)

// Render generates output artifacts in the requested formats. The tree
// visualization draws SVG natively; nodelink goes through Graphviz. DOT and
// JSON output are the same for both.
func Render(ctx context.Context, g graph.Graph, highlight string, opts Options) (map[string][]byte, error) {
	if opts.IsNodelink() {
		return renderNodelink(ctx, g, highlight, opts)
	}
	return renderTree(ctx, g, highlight, opts)
}

func renderTree(ctx context.Context, g graph.Graph, highlight string, opts Options) (map[string][]byte, error) {
	svgOpts := []sink.SVGOption{
		sink.WithTheme(opts.Palette()),
		sink.WithNodeSize(opts.NodeWidth, opts.NodeHeight),
	}
	if highlight != "" {
		svgOpts = append(svgOpts, sink.WithHighlight(highlight))
	}

	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		var data []byte
		var err error

		switch format {
		case graph.FormatSVG:
			data = sink.RenderSVG(g, svgOpts...)
		case graph.FormatPNG:
			data, err = sink.RenderPNG(ctx, g, sink.WithPNGSVGOptions(svgOpts...), sink.WithScale(opts.Scale))
		case graph.FormatPDF:
			data, err = sink.RenderPDF(ctx, g, svgOpts...)
		case graph.FormatDOT:
			data = []byte(nodelink.ToDOT(g, nodelinkOptions(highlight, opts)))
		case graph.FormatJSON:
			data, err = graph.Marshal(g)
		default:
			return nil, jerrors.New(jerrors.ErrCodeInvalidFormat, "unsupported tree format: %s", format)
		}

		if err != nil {
			return nil, renderError(format, err)
		}
		artifacts[format] = data
	}
	return artifacts, nil
}

func renderNodelink(ctx context.Context, g graph.Graph, highlight string, opts Options) (map[string][]byte, error) {
	dot := nodelink.ToDOT(g, nodelinkOptions(highlight, opts))

	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		var data []byte
		var err error

		switch format {
		case graph.FormatSVG:
			data, err = nodelink.RenderSVG(ctx, dot)
		case graph.FormatPNG:
			data, err = nodelink.RenderPNG(ctx, dot, opts.Scale)
		case graph.FormatPDF:
			data, err = nodelink.RenderPDF(ctx, dot)
		case graph.FormatDOT:
			data = []byte(dot)
		case graph.FormatJSON:
			data, err = graph.Marshal(g)
		default:
			return nil, jerrors.New(jerrors.ErrCodeInvalidFormat, "unsupported nodelink format: %s", format)
		}

		if err != nil {
			return nil, renderError(format, err)
		}
		artifacts[format] = data
	}
	return artifacts, nil
}

func nodelinkOptions(highlight string, opts Options) nodelink.Options {
	return nodelink.Options{
		Theme:      opts.Palette(),
		Highlight:  highlight,
		NodeWidth:  opts.NodeWidth,
		NodeHeight: opts.NodeHeight,
	}
}

// renderError keeps coded errors (a missing rsvg-convert is UNSUPPORTED) and
// marks everything else internal.
func renderError(format string, err error) error {
	if jerrors.GetCode(err) != "" {
		return err
	}
	return jerrors.Wrap(jerrors.ErrCodeInternal, err, "render %s", format)
}

func formatScale(s float64) string {
	return strconv.FormatFloat(s, 'g', -1, 64)
}
