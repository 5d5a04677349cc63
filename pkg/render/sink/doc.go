// Package sink renders a laid-out tree as SVG, PNG or PDF.
//
// Each node is a rounded box coloured by kind, labelled with the node label
// (truncated to the box) and titled with its path so browsers show the path
// on hover. Parent and child are joined by straight lines.
//
//	svg := sink.RenderSVG(g,
//	    sink.WithTheme(styles.Dark),
//	    sink.WithHighlight("$.items[1]"),
//	)
//
// PNG and PDF go through [render.ToPNG] and [render.ToPDF].
//
// [render.ToPNG]: github.com/matzehuels/jsontree/pkg/render#ToPNG
// [render.ToPDF]: github.com/matzehuels/jsontree/pkg/render#ToPDF
package sink
