package sink

import (
	"encoding/xml"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/matzehuels/jsontree/pkg/graph"
	"github.com/matzehuels/jsontree/pkg/jsondoc"
	"github.com/matzehuels/jsontree/pkg/render/styles"
	"github.com/matzehuels/jsontree/pkg/tree"
)

func layoutOf(t *testing.T, src string) graph.Graph {
	t.Helper()
	doc, err := jsondoc.Parse([]byte(src))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	return tree.Layout(doc, tree.Options{})
}

func TestRenderSVGWellFormed(t *testing.T) {
	g := layoutOf(t, `{"name":"<Ada & co>","tags":["a","b"],"n":null}`)
	svg := RenderSVG(g)

	dec := xml.NewDecoder(strings.NewReader(string(svg)))
	for {
		_, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			t.Fatalf("invalid XML: %v", err)
		}
	}

	s := string(svg)
	if got := strings.Count(s, `<g class="node `); got != len(g.Nodes) {
		t.Errorf("node groups = %d, want %d", got, len(g.Nodes))
	}
	if got := strings.Count(s, "<line "); got != len(g.Edges) {
		t.Errorf("edges = %d, want %d", got, len(g.Edges))
	}
	if !strings.Contains(s, "&lt;Ada &amp; co&gt;") {
		t.Error("label text is not escaped")
	}
	if !strings.Contains(s, "<title>$.tags[1]</title>") {
		t.Error("missing path title")
	}
}

func TestRenderSVGCanvas(t *testing.T) {
	g := layoutOf(t, `[1,2]`)
	// Leaves at x=50 and x=250, depth 1 at y=150.
	svg := string(RenderSVG(g))
	if !strings.Contains(svg, `viewBox="0 0 450.0 240.0"`) {
		t.Errorf("unexpected canvas: %s", svg[:strings.Index(svg, "\n")])
	}

	svg = string(RenderSVG(g, WithNodeSize(100, 20)))
	if !strings.Contains(svg, `viewBox="0 0 400.0 220.0"`) {
		t.Errorf("unexpected canvas with custom node size: %s", svg[:strings.Index(svg, "\n")])
	}
}

func TestRenderSVGTheme(t *testing.T) {
	g := layoutOf(t, `{"a":[1]}`)

	light := string(RenderSVG(g))
	for _, c := range []string{styles.Light.Object.Fill, styles.Light.Array.Border, styles.Light.Primitive.Fill} {
		if !strings.Contains(light, c) {
			t.Errorf("light SVG missing colour %s", c)
		}
	}

	dark := string(RenderSVG(g, WithTheme(styles.Dark)))
	if !strings.Contains(dark, styles.Dark.Background) || strings.Contains(dark, styles.Light.Object.Fill) {
		t.Error("dark theme not applied")
	}
}

func TestRenderSVGHighlight(t *testing.T) {
	g := layoutOf(t, `{"a":1,"b":2}`)

	plain := string(RenderSVG(g))
	if strings.Contains(plain, styles.Light.Highlight) {
		t.Error("highlight colour present without highlight")
	}

	hl := string(RenderSVG(g, WithHighlight("$.b")))
	if got := strings.Count(hl, `stroke="`+styles.Light.Highlight+`"`); got != 1 {
		t.Errorf("highlighted nodes = %d, want 1", got)
	}

	missing := string(RenderSVG(g, WithHighlight("$.zzz")))
	if strings.Contains(missing, `stroke="`+styles.Light.Highlight+`"`) {
		t.Error("unknown highlight id should not highlight anything")
	}
}

func TestRenderSVGEmptyGraph(t *testing.T) {
	svg := string(RenderSVG(graph.Graph{}))
	if !strings.HasPrefix(svg, "<svg") || !strings.HasSuffix(svg, "</svg>\n") {
		t.Errorf("RenderSVG(empty) = %q", svg)
	}
}
