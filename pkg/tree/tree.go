package tree

import (
	"encoding/json"
	"strconv"

	"github.com/matzehuels/jsontree/pkg/graph"
	"github.com/matzehuels/jsontree/pkg/jsondoc"
)

// =============================================================================
// Arena
// =============================================================================

// record is one node of the arena. Parent and children are arena indexes.
type record struct {
	key      string
	path     string
	kind     string
	value    *jsondoc.Value
	parent   int // -1 for the root
	children []int
	depth    int

	x, y   float64
	lo, hi float64 // x span of the leaf descendants
}

// Tree is a built and laid-out document.
type Tree struct {
	nodes []record
	opts  Options
}

// Build creates the arena for doc and computes its layout.
func Build(doc *jsondoc.Value, opts Options) *Tree {
	t := &Tree{opts: opts.WithDefaults()}
	t.build(doc)
	t.layout()
	return t
}

// Layout builds and lays out doc and returns the graph.
func Layout(doc *jsondoc.Value, opts Options) graph.Graph {
	return Build(doc, opts).Graph()
}

// Len returns the number of nodes.
func (t *Tree) Len() int { return len(t.nodes) }

// Options returns the effective options the tree was laid out with.
func (t *Tree) Options() Options { return t.opts }

// =============================================================================
// Build phase
// =============================================================================

type pending struct {
	value  *jsondoc.Value
	key    string
	path   string
	parent int
	depth  int
}

func (t *Tree) build(doc *jsondoc.Value) {
	stack := []pending{{value: doc, key: graph.RootKey, path: graph.RootPath, parent: -1}}

	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		idx := len(t.nodes)
		t.nodes = append(t.nodes, record{
			key:    p.key,
			path:   p.path,
			kind:   kindOf(p.value),
			value:  p.value,
			parent: p.parent,
			depth:  p.depth,
		})
		if p.parent >= 0 {
			t.nodes[p.parent].children = append(t.nodes[p.parent].children, idx)
		}

		// Push children in reverse so they pop in source order.
		switch p.value.Kind() {
		case jsondoc.Object:
			members := p.value.Members()
			for i := len(members) - 1; i >= 0; i-- {
				m := members[i]
				stack = append(stack, pending{
					value:  m.Value,
					key:    m.Key,
					path:   p.path + "." + m.Key,
					parent: idx,
					depth:  p.depth + 1,
				})
			}
		case jsondoc.Array:
			items := p.value.Items()
			for i := len(items) - 1; i >= 0; i-- {
				step := "[" + strconv.Itoa(i) + "]"
				stack = append(stack, pending{
					value:  items[i],
					key:    step,
					path:   p.path + step,
					parent: idx,
					depth:  p.depth + 1,
				})
			}
		}
	}
}

func kindOf(v *jsondoc.Value) string {
	switch v.Kind() {
	case jsondoc.Object:
		return graph.KindObject
	case jsondoc.Array:
		return graph.KindArray
	default:
		return graph.KindPrimitive
	}
}

// =============================================================================
// Layout phase
// =============================================================================

func (t *Tree) layout() {
	if len(t.nodes) == 0 {
		return
	}

	// Pre-order visits leaves left to right.
	leaf := 0
	for i := range t.nodes {
		n := &t.nodes[i]
		n.y = float64(n.depth) * t.opts.VerticalGap
		if len(n.children) == 0 {
			n.x = float64(leaf) * t.opts.HorizontalGap
			n.lo, n.hi = n.x, n.x
			leaf++
		}
	}

	// Children live at higher indexes than their parent, so a backward sweep
	// completes every subtree before its root.
	for i := len(t.nodes) - 1; i >= 0; i-- {
		n := &t.nodes[i]
		if len(n.children) == 0 {
			continue
		}
		first := &t.nodes[n.children[0]]
		n.lo, n.hi = first.lo, first.hi
		for _, c := range n.children[1:] {
			child := &t.nodes[c]
			n.lo = min(n.lo, child.lo)
			n.hi = max(n.hi, child.hi)
		}
		n.x = (n.lo + n.hi) / 2
	}

	minX := t.nodes[0].x
	for i := range t.nodes {
		minX = min(minX, t.nodes[i].x)
	}
	for i := range t.nodes {
		t.nodes[i].x = t.nodes[i].x - minX + t.opts.Margin
		t.nodes[i].y += t.opts.Margin
	}
}

// =============================================================================
// Emission phase
// =============================================================================

// Graph emits the laid-out tree in pre-order.
func (t *Tree) Graph() graph.Graph {
	g := graph.Graph{
		Nodes:    make([]graph.Node, 0, len(t.nodes)),
		Edges:    make([]graph.Edge, 0, max(len(t.nodes)-1, 0)),
		PathToID: make(map[string]string, len(t.nodes)),
		Meta: &graph.Meta{
			HorizontalGap: t.opts.HorizontalGap,
			VerticalGap:   t.opts.VerticalGap,
			Margin:        t.opts.Margin,
		},
	}

	for i := range t.nodes {
		n := &t.nodes[i]
		id := n.path
		g.PathToID[n.path] = id

		data := graph.NodeData{
			Label: label(n),
			Path:  n.path,
			Kind:  n.kind,
			Key:   n.key,
			Depth: n.depth,
		}
		if n.kind == graph.KindPrimitive {
			data.Value = json.RawMessage(n.value.AppendJSON(nil))
		}
		g.Nodes = append(g.Nodes, graph.Node{
			ID:       id,
			Position: graph.Position{X: n.x, Y: n.y},
			Data:     data,
		})

		if n.parent >= 0 {
			parentID := t.nodes[n.parent].path
			g.Edges = append(g.Edges, graph.Edge{
				ID:     graph.EdgeID(parentID, id),
				Source: parentID,
				Target: id,
			})
		}

		g.Meta.Width = max(g.Meta.Width, n.x+t.opts.Margin)
		g.Meta.Height = max(g.Meta.Height, n.y+t.opts.Margin)
	}
	return g
}

func label(n *record) string {
	switch n.kind {
	case graph.KindObject:
		return n.key + " {}"
	case graph.KindArray:
		return n.key + " []"
	default:
		return n.key + ": " + FormatPrimitive(n.value)
	}
}
