package sink

import (
	"bytes"
	"fmt"

	"github.com/matzehuels/jsontree/pkg/graph"
	"github.com/matzehuels/jsontree/pkg/render/styles"
)

// Default node box size.
const (
	DefaultNodeWidth  = 150.0
	DefaultNodeHeight = 40.0
	defaultMargin     = 50.0
)

const nodeInteractionCSS = `
    .node rect { transition: stroke-width 0.15s ease; }
    .node:hover rect { stroke-width: 3; }
    .node text { pointer-events: none; }`

// SVGOption configures [RenderSVG].
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	palette    styles.Palette
	highlight  string
	nodeWidth  float64
	nodeHeight float64
}

// WithTheme sets the colour palette.
func WithTheme(p styles.Palette) SVGOption { return func(r *svgRenderer) { r.palette = p } }

// WithHighlight outlines the node with the given ID.
func WithHighlight(id string) SVGOption { return func(r *svgRenderer) { r.highlight = id } }

// WithNodeSize sets the node box size. Non-positive values keep the default.
func WithNodeSize(w, h float64) SVGOption {
	return func(r *svgRenderer) {
		if w > 0 {
			r.nodeWidth = w
		}
		if h > 0 {
			r.nodeHeight = h
		}
	}
}

// RenderSVG draws g as a standalone SVG document. Node positions are the
// top-left corners of the boxes; edges run from the bottom centre of the
// parent to the top centre of the child.
func RenderSVG(g graph.Graph, opts ...SVGOption) []byte {
	r := newSVGRenderer(opts...)
	width, height := r.canvas(g)

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		width, height, width, height)
	fmt.Fprintf(&buf, "  <style>%s\n  </style>\n", nodeInteractionCSS)
	fmt.Fprintf(&buf, `  <rect class="background" width="100%%" height="100%%" fill="%s"/>`+"\n", r.palette.Background)

	r.renderEdges(&buf, g)
	for i := range g.Nodes {
		r.renderNode(&buf, &g.Nodes[i])
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func newSVGRenderer(opts ...SVGOption) svgRenderer {
	r := svgRenderer{
		palette:    styles.Light,
		nodeWidth:  DefaultNodeWidth,
		nodeHeight: DefaultNodeHeight,
	}
	for _, opt := range opts {
		opt(&r)
	}
	return r
}

func (r *svgRenderer) canvas(g graph.Graph) (w, h float64) {
	margin := defaultMargin
	if g.Meta != nil && g.Meta.Margin > 0 {
		margin = g.Meta.Margin
	}
	if len(g.Nodes) == 0 {
		return 2 * margin, 2 * margin
	}
	_, _, maxX, maxY := g.Bounds()
	return maxX + r.nodeWidth + margin, maxY + r.nodeHeight + margin
}

func (r *svgRenderer) renderEdges(buf *bytes.Buffer, g graph.Graph) {
	if len(g.Edges) == 0 {
		return
	}
	pos := make(map[string]graph.Position, len(g.Nodes))
	for _, n := range g.Nodes {
		pos[n.ID] = n.Position
	}

	fmt.Fprintf(buf, `  <g class="edges" stroke="%s" stroke-width="1.5" fill="none">`+"\n", r.palette.Edge)
	for _, e := range g.Edges {
		src, okS := pos[e.Source]
		dst, okD := pos[e.Target]
		if !okS || !okD {
			continue
		}
		fmt.Fprintf(buf, `    <line id="%s" x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f"/>`+"\n",
			styles.EscapeXML(e.ID),
			src.X+r.nodeWidth/2, src.Y+r.nodeHeight,
			dst.X+r.nodeWidth/2, dst.Y)
	}
	buf.WriteString("  </g>\n")
}

func (r *svgRenderer) renderNode(buf *bytes.Buffer, n *graph.Node) {
	c := r.palette.Kind(n.Data.Kind)
	stroke, strokeWidth := c.Border, 2.0
	highlighted := n.ID == r.highlight && r.highlight != ""
	if highlighted {
		stroke, strokeWidth = r.palette.Highlight, 3.0
	}

	x, y := n.Position.X, n.Position.Y
	fmt.Fprintf(buf, `  <g class="node node-%s" data-path="%s">`+"\n", n.Data.Kind, styles.EscapeXML(n.Data.Path))
	fmt.Fprintf(buf, "    <title>%s</title>\n", styles.EscapeXML(n.Data.Path))
	if highlighted {
		fmt.Fprintf(buf, `    <rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" rx="%.0f" fill="none" stroke="%s" stroke-width="8"/>`+"\n",
			x-4, y-4, r.nodeWidth+8, r.nodeHeight+8, styles.NodeRadius+4, r.palette.Glow)
	}
	fmt.Fprintf(buf, `    <rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" rx="%.0f" fill="%s" stroke="%s" stroke-width="%.0f"/>`+"\n",
		x, y, r.nodeWidth, r.nodeHeight, styles.NodeRadius, c.Fill, stroke, strokeWidth)

	label := styles.TruncateLabel(n.Data.Label, r.nodeWidth, styles.FontSize)
	fmt.Fprintf(buf, `    <text x="%.1f" y="%.1f" text-anchor="middle" dominant-baseline="central" font-family="%s" font-size="%.0f" fill="%s">%s</text>`+"\n",
		x+r.nodeWidth/2, y+r.nodeHeight/2, styles.FontFamily, styles.FontSize, r.palette.Text, styles.EscapeXML(label))
	buf.WriteString("  </g>\n")
}
