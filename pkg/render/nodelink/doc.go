// Package nodelink renders laid-out JSON trees through Graphviz.
//
// # Overview
//
// [ToDOT] writes the tree as Graphviz DOT with every node pinned at its
// layout position (pos="x,y!") for the neato engine, so Graphviz draws the
// same geometry the native SVG renderer draws. The DOT text is useful on its
// own: save it and post-process it with any Graphviz tool.
//
// # Usage
//
//	dot := nodelink.ToDOT(g, nodelink.Options{Highlight: "$.items[0]"})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// For PDF or PNG output:
//
//	pdf, err := nodelink.RenderPDF(ctx, dot)
//	png, err := nodelink.RenderPNG(ctx, dot, 2.0)  // 2x scale
//
// # Coordinates
//
// Layout positions are top-left corners in points with y growing downward.
// DOT positions are node centres with y growing upward, so ToDOT shifts by
// half a node and flips y against the tallest node.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering. PDF and PNG conversion requires librsvg (rsvg-convert).
package nodelink
