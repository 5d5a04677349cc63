package graph

import (
	"encoding/json"
	"math"
)

// =============================================================================
// Constants - Single Source of Truth
// =============================================================================

// Node kinds. Null and every scalar are primitives.
const (
	KindObject    = "object"
	KindArray     = "array"
	KindPrimitive = "primitive"
)

// Root node identity.
const (
	RootKey  = "root"
	RootPath = "$"
)

// Visualization types.
const (
	VizTypeTree     = "tree"
	VizTypeNodelink = "nodelink"
)

// Color themes.
const (
	ThemeLight = "light"
	ThemeDark  = "dark"
)

// Output formats.
const (
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatPDF  = "pdf"
	FormatDOT  = "dot"
	FormatJSON = "json"
)

// =============================================================================
// Graph - Laid-out Tree
// =============================================================================

// Graph is the canonical serialization format for a laid-out JSON tree.
// Nodes are listed in pre-order (parent before children, siblings in source
// order); edges follow the same order, one per non-root node.
type Graph struct {
	Nodes    []Node            `json:"nodes"`
	Edges    []Edge            `json:"edges"`
	PathToID map[string]string `json:"pathToId"`
	Meta     *Meta             `json:"meta,omitempty"`
}

// Meta records the parameters a graph was laid out with.
type Meta struct {
	HorizontalGap float64 `json:"horizontal_gap"`
	VerticalGap   float64 `json:"vertical_gap"`
	Margin        float64 `json:"margin"`
	Width         float64 `json:"width"`  // max x + margin
	Height        float64 `json:"height"` // max y + margin
}

// =============================================================================
// Node / Edge
// =============================================================================

// Node is one positioned JSON value.
type Node struct {
	ID       string   `json:"id"`
	Position Position `json:"position"`
	Data     NodeData `json:"data"`
}

// Position is the top-left anchor of a node in layout coordinates.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// NodeData carries the display payload of a node.
type NodeData struct {
	Label string `json:"label"`
	Path  string `json:"path"`
	Kind  string `json:"kind"`
	Key   string `json:"key"`
	Depth int    `json:"depth"`
	// Value holds the JSON encoding of primitive values. Containers leave it
	// empty; their content is the subtree below them.
	Value json.RawMessage `json:"value,omitempty"`
}

// Edge links a parent node to one of its children.
type Edge struct {
	ID     string `json:"id"`
	Source string `json:"source"`
	Target string `json:"target"`
}

// EdgeID returns the identifier of the edge from parent to child.
func EdgeID(parent, child string) string {
	return "e-" + parent + "-" + child
}

// IsContainer reports whether the node is an object or array.
func (n *Node) IsContainer() bool {
	return n.Data.Kind == KindObject || n.Data.Kind == KindArray
}

// =============================================================================
// Lookup helpers
// =============================================================================

// NodeByID returns the node with the given ID.
func (g *Graph) NodeByID(id string) (*Node, bool) {
	for i := range g.Nodes {
		if g.Nodes[i].ID == id {
			return &g.Nodes[i], true
		}
	}
	return nil, false
}

// Root returns the root node, or nil for an empty graph.
func (g *Graph) Root() *Node {
	if len(g.Nodes) == 0 {
		return nil
	}
	return &g.Nodes[0]
}

// Children returns the child IDs of every node, in order.
func (g *Graph) Children() map[string][]string {
	out := make(map[string][]string, len(g.Nodes))
	for _, e := range g.Edges {
		out[e.Source] = append(out[e.Source], e.Target)
	}
	return out
}

// Bounds returns the bounding box of the node anchors.
func (g *Graph) Bounds() (minX, minY, maxX, maxY float64) {
	if len(g.Nodes) == 0 {
		return 0, 0, 0, 0
	}
	minX, minY = math.Inf(1), math.Inf(1)
	maxX, maxY = math.Inf(-1), math.Inf(-1)
	for _, n := range g.Nodes {
		minX = math.Min(minX, n.Position.X)
		minY = math.Min(minY, n.Position.Y)
		maxX = math.Max(maxX, n.Position.X)
		maxY = math.Max(maxY, n.Position.Y)
	}
	return minX, minY, maxX, maxY
}
