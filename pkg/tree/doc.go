// Package tree turns a JSON document into a positioned node/edge graph.
//
// # Algorithm
//
// Layout runs in three phases over an arena of node records addressed by
// index. No phase recurses, so nesting depth is bounded by memory only.
//
//  1. Build: a work stack visits the document in pre-order. Every value gets a
//     record with its key ("root", a member name or "[i]"), its path ("$",
//     "$.user", "$.items[0]"), its kind (object, array or primitive) and its
//     depth. Because records are appended in pre-order, every child sits at a
//     higher index than its parent.
//
//  2. Coordinates: a forward sweep gives each leaf (a primitive or an empty
//     container) x = leaf × HorizontalGap in left-to-right order. A backward
//     sweep then visits children before parents and centers every internal
//     node over the span of its leaf descendants. y is depth × VerticalGap.
//
//  3. Normalization: all nodes are shifted so the minimum x equals Margin;
//     Margin is added to y as well.
//
// # Output
//
// [Layout] emits a [graph.Graph] in pre-order with one edge per non-root node
// ("e-<parent>-<child>") and the identity path index.
//
//	g, _ := tree.Layout(doc, tree.Options{})
//	g.PathToID["$.items[1].id"] // "$.items[1].id"
//
// # Labels
//
// Primitive labels are "<key>: <value>" where strings are JSON-quoted and
// numbers are printed the way JavaScript prints them, so 1.50 and 1.5e0 both
// show as 1.5. Containers are labelled "<key> {}" or "<key> []".
//
// # Path Ambiguity
//
// Member names are used verbatim in paths. A name containing '.', '[' or ']'
// produces a path that a query cannot address; [AmbiguousPaths] lists them.
package tree
