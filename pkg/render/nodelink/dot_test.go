package nodelink

import (
	"context"
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

func TestToDOT_Basic(t *testing.T) {
	g := layoutOf(t, `{"a":1}`)
	dot := ToDOT(g, Options{})

	if !strings.Contains(dot, "digraph G") {
		t.Error("ToDOT() output missing digraph declaration")
	}
	if !strings.Contains(dot, "layout=neato") {
		t.Error("ToDOT() output missing neato layout")
	}
	if !strings.Contains(dot, `"$" [label="root {}"`) {
		t.Error("ToDOT() output missing root node")
	}
	if !strings.Contains(dot, `"$" -> "$.a"`) {
		t.Error("ToDOT() output missing edge")
	}
}

func TestToDOT_PinnedPositions(t *testing.T) {
	// Root at (50,50), child at (50,150); maxY is 150.
	g := layoutOf(t, `{"a":1}`)
	dot := ToDOT(g, Options{})

	if !strings.Contains(dot, `pos="125,120!"`) {
		t.Errorf("root position not flipped and centred:\n%s", dot)
	}
	if !strings.Contains(dot, `pos="125,20!"`) {
		t.Errorf("child position not flipped and centred:\n%s", dot)
	}
}

func TestToDOT_Theme(t *testing.T) {
	g := layoutOf(t, `[true]`)

	dot := ToDOT(g, Options{Theme: styles.Dark})
	if !strings.Contains(dot, styles.Dark.Array.Fill) || !strings.Contains(dot, styles.Dark.Primitive.Border) {
		t.Error("ToDOT() dark theme colours missing")
	}

	dot = ToDOT(g, Options{Highlight: "$[0]"})
	if !strings.Contains(dot, `color="`+styles.Light.Highlight+`", penwidth=3`) {
		t.Error("ToDOT() highlight missing")
	}
}

func TestQuote(t *testing.T) {
	tests := []struct{ in, want string }{
		{"plain", `"plain"`},
		{`say "hi"`, `"say \"hi\""`},
		{`back\slash`, `"back\\slash"`},
		{"line\nbreak", `"line\nbreak"`},
		{"größe", `"größe"`},
	}
	for _, tt := range tests {
		if got := quote(tt.in); got != tt.want {
			t.Errorf("quote(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestRenderSVG(t *testing.T) {
	g := layoutOf(t, `{"items":[1,2],"ok":true}`)
	svg, err := RenderSVG(context.Background(), ToDOT(g, Options{}))
	if err != nil {
		t.Fatalf("RenderSVG: %v", err)
	}
	s := string(svg)
	if !strings.Contains(s, "<svg") || !strings.Contains(s, "viewBox=\"0 0 ") {
		t.Error("RenderSVG() output is not a normalized SVG")
	}
	if !strings.Contains(s, "items []") {
		t.Error("RenderSVG() output missing node label")
	}
}
