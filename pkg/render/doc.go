// Package render turns laid-out JSON trees into pictures.
//
// # Overview
//
// The layout engine only produces coordinates. This package and its
// subpackages draw them:
//
//   - [sink]: native SVG of the tree (rounded boxes, kind colours, highlight)
//   - [nodelink]: Graphviz DOT with pinned positions, rendered via go-graphviz
//   - [styles]: colour themes and label helpers shared by both
//
// # Format Conversion
//
// The [ToPDF] and [ToPNG] functions convert any SVG to other formats using
// the external rsvg-convert tool (from librsvg):
//
//	svg := sink.RenderSVG(g, sink.WithTheme(styles.Dark))
//	pdf, err := render.ToPDF(ctx, svg)
//	png, err := render.ToPNG(ctx, svg, 2.0)  // 2x scale
//
// When rsvg-convert is missing both return an UNSUPPORTED error.
//
// [sink]: github.com/matzehuels/jsontree/pkg/render/sink
// [nodelink]: github.com/matzehuels/jsontree/pkg/render/nodelink
// [styles]: github.com/matzehuels/jsontree/pkg/render/styles
package render
