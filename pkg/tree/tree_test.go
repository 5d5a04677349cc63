package tree

import (
	"reflect"
	"strings"
	"testing"

	"github.com/matzehuels/jsontree/pkg/graph"
	"github.com/matzehuels/jsontree/pkg/jsondoc"
	"github.com/matzehuels/jsontree/pkg/jsonpath"
)

func mustParse(t *testing.T, s string) *jsondoc.Value {
	t.Helper()
	v, err := jsondoc.Parse([]byte(s))
	if err != nil {
		t.Fatalf("parse %s: %v", s, err)
	}
	return v
}

func layoutOf(t *testing.T, s string) graph.Graph {
	t.Helper()
	return Layout(mustParse(t, s), Options{})
}

func nodeByID(t *testing.T, g graph.Graph, id string) graph.Node {
	t.Helper()
	n, ok := g.NodeByID(id)
	if !ok {
		t.Fatalf("node %q not found", id)
	}
	return *n
}

func TestSingleMember(t *testing.T) {
	g := layoutOf(t, `{"a": 1}`)

	if len(g.Nodes) != 2 || len(g.Edges) != 1 {
		t.Fatalf("got %d nodes, %d edges, want 2, 1", len(g.Nodes), len(g.Edges))
	}

	root := g.Nodes[0]
	if root.ID != "$" || root.Data.Kind != graph.KindObject || root.Data.Label != "root {}" {
		t.Errorf("root = %+v", root)
	}

	child := g.Nodes[1]
	if child.ID != "$.a" || child.Data.Kind != graph.KindPrimitive {
		t.Errorf("child = %+v", child)
	}
	if child.Data.Label != "a: 1" {
		t.Errorf("label = %q, want %q", child.Data.Label, "a: 1")
	}
	if string(child.Data.Value) != "1" {
		t.Errorf("value = %s, want 1", child.Data.Value)
	}

	want := graph.Edge{ID: "e-$-$.a", Source: "$", Target: "$.a"}
	if g.Edges[0] != want {
		t.Errorf("edge = %+v, want %+v", g.Edges[0], want)
	}

	if root.Position != (graph.Position{X: 50, Y: 50}) {
		t.Errorf("root position = %+v", root.Position)
	}
	if child.Position != (graph.Position{X: 50, Y: 150}) {
		t.Errorf("child position = %+v", child.Position)
	}
}

func TestQueryAgainstLayout(t *testing.T) {
	g := layoutOf(t, `{"items":[{"id":1},{"id":2}]}`)

	path, err := jsonpath.Normalize("items[1].id")
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if path != "$.items[1].id" {
		t.Errorf("path = %q, want $.items[1].id", path)
	}

	id, ok := jsonpath.Resolve("items[1].id", g.PathToID)
	if !ok {
		t.Fatal("Resolve: no match")
	}
	if n := nodeByID(t, g, id); n.Data.Label != "id: 2" {
		t.Errorf("label = %q, want %q", n.Data.Label, "id: 2")
	}

	if n := nodeByID(t, g, "$.items[0]"); n.Data.Label != "[0] {}" || n.Data.Key != "[0]" {
		t.Errorf("items[0] = %+v", n.Data)
	}
}

func TestIndexOutOfRange(t *testing.T) {
	g := layoutOf(t, `[1,2,3]`)

	steps, err := jsonpath.Parse("$[5]")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(steps) != 1 || !steps[0].IsIndex || steps[0].Index != 5 {
		t.Errorf("steps = %v", steps)
	}
	if _, ok := jsonpath.Resolve("$[5]", g.PathToID); ok {
		t.Error("Resolve($[5]) matched, want no match")
	}
}

func TestSingleChildChain(t *testing.T) {
	g := layoutOf(t, `{"x":{"y":{"z":1}}}`)
	chain := []string{"$", "$.x", "$.x.y", "$.x.y.z"}

	for i := 0; i < len(chain)-1; i++ {
		parent := nodeByID(t, g, chain[i])
		child := nodeByID(t, g, chain[i+1])
		if parent.Position.X != child.Position.X {
			t.Errorf("%s.x = %v, %s.x = %v, want equal", parent.ID, parent.Position.X, child.ID, child.Position.X)
		}
		if child.Position.Y-parent.Position.Y != DefaultVerticalGap {
			t.Errorf("%s.y - %s.y = %v, want %v", child.ID, parent.ID, child.Position.Y-parent.Position.Y, DefaultVerticalGap)
		}
	}
}

func TestCenteringOverLeafSpan(t *testing.T) {
	// root has a leaf child and a two-leaf subtree; it centers over the
	// leaves (0..2), not over its direct children (0 and 1.5).
	g := layoutOf(t, `{"a": 1, "b": [2, 3]}`)

	want := map[string]float64{
		"$.a":    50,
		"$.b[0]": 250,
		"$.b[1]": 450,
		"$.b":    350,
		"$":      250,
	}
	for id, x := range want {
		if got := nodeByID(t, g, id).Position.X; got != x {
			t.Errorf("%s.x = %v, want %v", id, got, x)
		}
	}
}

func TestCenteringInvariant(t *testing.T) {
	g := layoutOf(t, `{"a":{"b":[1,{"c":2,"d":[]}],"e":"x"},"f":[[],[3,4,5]],"g":null}`)
	children := g.Children()

	pos := make(map[string]float64)
	for _, n := range g.Nodes {
		pos[n.ID] = n.Position.X
	}

	var leafSpan func(id string) (float64, float64)
	leafSpan = func(id string) (float64, float64) {
		kids := children[id]
		if len(kids) == 0 {
			return pos[id], pos[id]
		}
		lo, hi := leafSpan(kids[0])
		for _, k := range kids[1:] {
			l, h := leafSpan(k)
			lo, hi = min(lo, l), max(hi, h)
		}
		return lo, hi
	}

	for _, n := range g.Nodes {
		if len(children[n.ID]) == 0 {
			continue
		}
		lo, hi := leafSpan(n.ID)
		if n.Position.X != (lo+hi)/2 {
			t.Errorf("%s.x = %v, want midpoint %v", n.ID, n.Position.X, (lo+hi)/2)
		}
	}
}

func TestDeterminism(t *testing.T) {
	doc := mustParse(t, `{"z":[1,{"y":true}],"a":{"k":"v"},"m":null}`)
	first := Layout(doc, Options{})
	for i := 0; i < 5; i++ {
		if got := Layout(doc, Options{}); !reflect.DeepEqual(got, first) {
			t.Fatal("layout is not deterministic")
		}
	}
}

func TestUniquenessAndEdges(t *testing.T) {
	g := layoutOf(t, `{"a":[{"b":1},{"b":2}],"c":{"a":[[]]},"d":[null,true,"s"]}`)

	seen := make(map[string]bool)
	for _, n := range g.Nodes {
		if seen[n.ID] {
			t.Errorf("duplicate id %q", n.ID)
		}
		seen[n.ID] = true
		if g.PathToID[n.Data.Path] != n.ID {
			t.Errorf("PathToID[%q] = %q, want %q", n.Data.Path, g.PathToID[n.Data.Path], n.ID)
		}
	}

	incoming := make(map[string]int)
	for _, e := range g.Edges {
		incoming[e.Target]++
		if e.ID != graph.EdgeID(e.Source, e.Target) {
			t.Errorf("edge id = %q", e.ID)
		}
		if !strings.HasPrefix(e.Target, e.Source) {
			t.Errorf("edge %s -> %s: source is not the structural parent", e.Source, e.Target)
		}
	}
	for _, n := range g.Nodes[1:] {
		if incoming[n.ID] != 1 {
			t.Errorf("%s has %d incoming edges, want 1", n.ID, incoming[n.ID])
		}
	}
	if incoming["$"] != 0 {
		t.Errorf("root has %d incoming edges", incoming["$"])
	}

	if err := graph.Validate(g); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestPathsRoundTrip(t *testing.T) {
	g := layoutOf(t, `{"a":[{"b":1},[2,[3]]],"c d":{"e":{}}}`)
	for _, n := range g.Nodes {
		got, err := jsonpath.Normalize(n.ID)
		if err != nil {
			t.Errorf("Normalize(%q): %v", n.ID, err)
			continue
		}
		if got != n.ID {
			t.Errorf("Normalize(%q) = %q", n.ID, got)
		}
	}
}

func TestPreOrder(t *testing.T) {
	g := layoutOf(t, `{"b":{"c":1},"a":[2]}`)
	var ids []string
	for _, n := range g.Nodes {
		ids = append(ids, n.ID)
	}
	want := []string{"$", "$.b", "$.b.c", "$.a", "$.a[0]"}
	if !reflect.DeepEqual(ids, want) {
		t.Errorf("order = %v, want %v", ids, want)
	}
}

func TestScalarRoot(t *testing.T) {
	g := layoutOf(t, `"hello"`)
	if len(g.Nodes) != 1 || len(g.Edges) != 0 {
		t.Fatalf("got %d nodes, %d edges", len(g.Nodes), len(g.Edges))
	}
	n := g.Nodes[0]
	if n.Data.Label != `root: "hello"` {
		t.Errorf("label = %q", n.Data.Label)
	}
	if n.Position != (graph.Position{X: 50, Y: 50}) {
		t.Errorf("position = %+v", n.Position)
	}
}

func TestEmptyContainersAreLeaves(t *testing.T) {
	g := layoutOf(t, `{"o":{},"a":[]}`)
	if x := nodeByID(t, g, "$.o").Position.X; x != 50 {
		t.Errorf("$.o.x = %v, want 50", x)
	}
	if x := nodeByID(t, g, "$.a").Position.X; x != 250 {
		t.Errorf("$.a.x = %v, want 250", x)
	}
	if l := nodeByID(t, g, "$.a").Data.Label; l != "a []" {
		t.Errorf("label = %q, want %q", l, "a []")
	}
	if v := nodeByID(t, g, "$.o").Data.Value; v != nil {
		t.Errorf("container value = %s, want empty", v)
	}
}

func TestCustomGaps(t *testing.T) {
	g := Layout(mustParse(t, `[1,[2]]`), Options{HorizontalGap: 10, VerticalGap: 7, Margin: 5})

	want := map[string]graph.Position{
		"$":       {X: 10, Y: 5},
		"$[0]":    {X: 5, Y: 12},
		"$[1]":    {X: 15, Y: 12},
		"$[1][0]": {X: 15, Y: 19},
	}
	for id, p := range want {
		if got := nodeByID(t, g, id).Position; got != p {
			t.Errorf("%s = %+v, want %+v", id, got, p)
		}
	}
	if g.Meta.HorizontalGap != 10 || g.Meta.VerticalGap != 7 || g.Meta.Margin != 5 {
		t.Errorf("meta = %+v", g.Meta)
	}
	if g.Meta.Width != 20 || g.Meta.Height != 24 {
		t.Errorf("frame = %vx%v, want 20x24", g.Meta.Width, g.Meta.Height)
	}
}

func TestOptionsDefaults(t *testing.T) {
	o := Options{HorizontalGap: -1}.WithDefaults()
	if o.HorizontalGap != 200 || o.VerticalGap != 100 || o.Margin != 50 {
		t.Errorf("WithDefaults = %+v", o)
	}
}

func TestDeepNesting(t *testing.T) {
	const depth = 5000
	doc := mustParse(t, strings.Repeat(`{"a":`, depth)+"1"+strings.Repeat("}", depth))
	tr := Build(doc, Options{})
	if tr.Len() != depth+1 {
		t.Fatalf("Len() = %d, want %d", tr.Len(), depth+1)
	}
	g := tr.Graph()
	last := g.Nodes[len(g.Nodes)-1]
	if last.Position.Y != float64(depth)*DefaultVerticalGap+DefaultMargin {
		t.Errorf("deepest y = %v", last.Position.Y)
	}
	if last.Position.X != DefaultMargin {
		t.Errorf("deepest x = %v, want %v", last.Position.X, DefaultMargin)
	}
}

func TestAmbiguousPaths(t *testing.T) {
	g := layoutOf(t, `{"a.b":1,"ok":[{"x[0]":2}],"":3}`)
	got := AmbiguousPaths(g)
	want := []string{"$.a.b", "$.ok[0].x[0]", "$."}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("AmbiguousPaths = %v, want %v", got, want)
	}
}
