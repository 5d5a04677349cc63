// Package styles holds the colour themes and text helpers shared by the
// jsontree renderers.
//
// # Themes
//
// A [Palette] colours each node kind (object, array, primitive) with a fill
// and a border, plus the canvas, edge, text and highlight colours. Two
// palettes ship: [Light] and [Dark].
//
//	p, ok := styles.ByName("dark")
//	c := p.Kind(node.Data.Kind)
//
// # Text
//
// Renderers have no font metrics, so [TruncateLabel] estimates widths from
// an average character width and shortens labels that would overflow a node.
package styles
