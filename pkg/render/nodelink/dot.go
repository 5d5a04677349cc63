package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/jsontree/pkg/graph"
	"github.com/matzehuels/jsontree/pkg/render"
	"github.com/matzehuels/jsontree/pkg/render/styles"
)

// pointsPerInch converts layout units (treated as points) to Graphviz inches.
const pointsPerInch = 72.0

// Options configures node-link diagram rendering.
type Options struct {
	// Theme colours nodes by kind. The zero value uses [styles.Light].
	Theme styles.Palette
	// Highlight outlines the node with this ID.
	Highlight string
	// NodeWidth and NodeHeight size the node boxes in points (default 150x40).
	NodeWidth, NodeHeight float64
}

func (o Options) withDefaults() Options {
	if o.Theme.Name == "" {
		o.Theme = styles.Light
	}
	if o.NodeWidth <= 0 {
		o.NodeWidth = 150
	}
	if o.NodeHeight <= 0 {
		o.NodeHeight = 40
	}
	return o
}

// ToDOT converts a laid-out graph to Graphviz DOT. Every node is pinned to its
// layout position (box centre, y axis flipped) so neato keeps the tree
// geometry instead of computing its own.
func ToDOT(g graph.Graph, opts Options) string {
	opts = opts.withDefaults()
	_, _, _, maxY := g.Bounds()

	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  layout=neato;\n")
	fmt.Fprintf(&buf, "  inputscale=%.0f;\n", pointsPerInch)
	buf.WriteString("  splines=line;\n")
	buf.WriteString("  overlap=true;\n")
	fmt.Fprintf(&buf, "  bgcolor=%s;\n", quote(opts.Theme.Background))
	fmt.Fprintf(&buf, "  node [shape=box, style=\"rounded,filled\", fixedsize=true, width=%.4f, height=%.4f, fontname=%s, fontsize=%.0f, fontcolor=%s, penwidth=2];\n",
		opts.NodeWidth/pointsPerInch, opts.NodeHeight/pointsPerInch, quote("Inter"), styles.FontSize, quote(opts.Theme.Text))
	fmt.Fprintf(&buf, "  edge [arrowhead=none, color=%s];\n", quote(opts.Theme.Edge))
	buf.WriteString("\n")

	for _, n := range g.Nodes {
		c := opts.Theme.Kind(n.Data.Kind)
		border, pen := c.Border, ""
		if opts.Highlight != "" && n.ID == opts.Highlight {
			border, pen = opts.Theme.Highlight, ", penwidth=3"
		}
		cx := n.Position.X + opts.NodeWidth/2
		cy := maxY - n.Position.Y + opts.NodeHeight/2
		fmt.Fprintf(&buf, "  %s [label=%s, tooltip=%s, pos=\"%s,%s!\", fillcolor=%s, color=%s%s];\n",
			quote(n.ID),
			quote(styles.TruncateLabel(n.Data.Label, opts.NodeWidth, styles.FontSize)),
			quote(n.Data.Path),
			fmtFloat(cx), fmtFloat(cy),
			quote(c.Fill), quote(border), pen)
	}

	buf.WriteString("\n")
	for _, e := range g.Edges {
		fmt.Fprintf(&buf, "  %s -> %s;\n", quote(e.Source), quote(e.Target))
	}

	buf.WriteString("}\n")
	return buf.String()
}

// quote renders s as a DOT double-quoted string. Non-ASCII text is kept as is;
// DOT input is UTF-8.
func quote(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 2)
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"', '\\':
			b.WriteByte('\\')
			b.WriteRune(r)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
	return b.String()
}

func fmtFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// RenderSVG renders a DOT graph to SVG using Graphviz's neato engine.
// Returns the SVG bytes ready for display or further conversion with [render.ToPDF] or [render.ToPNG].
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	gv.SetLayout(graphviz.NEATO)

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's pt-sized root element with a plain
// pixel-sized one so the output scales like the native renderer's.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" xmlns:xlink="http://www.w3.org/1999/xlink" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}

// RenderPDF renders a DOT graph as PDF via SVG conversion.
//
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPDF(ctx context.Context, dot string) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPDF(ctx, svg)
}

// RenderPNG renders a DOT graph as PNG via SVG conversion.
//
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPNG(ctx context.Context, dot string, scale float64) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPNG(ctx, svg, scale)
}
