// Package graph provides the serialization types for laid-out JSON trees.
//
// This package defines the canonical wire format shared by the layout engine,
// the query resolver, the renderers, the cache and the HTTP API.
//
// # Core Types
//
//   - [Graph]: positioned nodes, parent→child edges and the path index
//   - [Node], [NodeData], [Position]: one visual node per JSON value
//   - [Edge]: a parent→child link
//   - [Meta]: the layout parameters and frame size a graph was built with
//
// # Identity
//
// A node's ID is its path ("$", "$.user.name", "$.items[0]"). The
// [Graph.PathToID] index maps every path to its ID, which is currently the
// identity mapping; consumers should still go through the index rather than
// rely on that.
//
// # Constants
//
// This package is the single source of truth for shared constants:
//
//	graph.KindObject      // "object"
//	graph.KindArray       // "array"
//	graph.KindPrimitive   // "primitive"
//	graph.VizTypeTree     // "tree"
//	graph.VizTypeNodelink // "nodelink"
//	graph.ThemeLight      // "light"
//	graph.ThemeDark       // "dark"
//
// # Serialization
//
//	{
//	  "nodes": [{"id": "$", "position": {"x": 50, "y": 50},
//	             "data": {"label": "root {}", "path": "$", "kind": "object"}}],
//	  "edges": [],
//	  "pathToId": {"$": "$"}
//	}
//
// Common operations:
//
//	data, _ := graph.Marshal(g)        // Graph → []byte
//	g, _ := graph.Unmarshal(data)      // []byte → Graph (validated)
//	graph.WriteFile(g, "layout.json")  // Graph → file
//	g, _ := graph.ReadFile("layout.json")
//
// # Concurrency
//
// A Graph is never mutated after it is built, so concurrent reads are safe.
package graph
