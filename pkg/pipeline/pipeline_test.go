package pipeline

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/jsontree/pkg/cache"
	jerrors "github.com/matzehuels/jsontree/pkg/errors"
	"github.com/matzehuels/jsontree/pkg/graph"
	"github.com/matzehuels/jsontree/pkg/jsondoc"
	"github.com/matzehuels/jsontree/pkg/jsonpath"
)

func quietLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{})
}

func newTestRunner(t *testing.T) *Runner {
	t.Helper()
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	r := NewRunner(c, nil, quietLogger())
	t.Cleanup(func() { r.Close() })
	return r
}

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"svg", false},
		{"png", false},
		{"pdf", false},
		{"dot", false},
		{"json", false},
		{"invalid", true},
		{"SVG", true}, // case-sensitive
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateFormat(tt.format)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
		}
		if err != nil && !jerrors.Is(err, jerrors.ErrCodeInvalidFormat) {
			t.Errorf("ValidateFormat(%q) code = %s", tt.format, jerrors.GetCode(err))
		}
	}
}

func TestValidateFormats(t *testing.T) {
	if err := ValidateFormats([]string{"svg", "png"}); err != nil {
		t.Errorf("Valid formats should pass: %v", err)
	}
	if err := ValidateFormats([]string{"svg", "invalid"}); err == nil {
		t.Error("Invalid format should fail")
	}
	if err := ValidateFormats(nil); err != nil {
		t.Errorf("Empty formats should pass: %v", err)
	}
}

func TestValidateTheme(t *testing.T) {
	tests := []struct {
		theme   string
		wantErr bool
	}{
		{"light", false},
		{"dark", false},
		{"solarized", true},
		{"", true},
	}
	for _, tt := range tests {
		err := ValidateTheme(tt.theme)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateTheme(%q) error = %v, wantErr %v", tt.theme, err, tt.wantErr)
		}
	}
}

func TestValidateVizType(t *testing.T) {
	tests := []struct {
		vizType string
		wantErr bool
	}{
		{"tree", false},
		{"nodelink", false},
		{"tower", true},
		{"", true},
	}
	for _, tt := range tests {
		err := ValidateVizType(tt.vizType)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateVizType(%q) error = %v, wantErr %v", tt.vizType, err, tt.wantErr)
		}
	}
}

func TestOptionsDefaults(t *testing.T) {
	opts := Options{Document: []byte("{}")}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("ValidateAndSetDefaults: %v", err)
	}

	if opts.InputFormat != jsondoc.FormatJSON {
		t.Errorf("InputFormat = %q", opts.InputFormat)
	}
	if opts.HorizontalGap != 200 || opts.VerticalGap != 100 || opts.Margin != 50 {
		t.Errorf("gaps = %v/%v/%v", opts.HorizontalGap, opts.VerticalGap, opts.Margin)
	}
	if len(opts.Formats) != 1 || opts.Formats[0] != graph.FormatSVG {
		t.Errorf("Formats = %v", opts.Formats)
	}
	if opts.VizType != DefaultVizType || opts.Theme != DefaultTheme {
		t.Errorf("VizType = %q, Theme = %q", opts.VizType, opts.Theme)
	}
	if opts.NodeWidth != 150 || opts.NodeHeight != 40 || opts.Scale != 2 {
		t.Errorf("node = %vx%v scale %v", opts.NodeWidth, opts.NodeHeight, opts.Scale)
	}
	if opts.Logger == nil {
		t.Error("Logger should default to a discard logger")
	}

	before := opts
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("second ValidateAndSetDefaults: %v", err)
	}
	if opts.HorizontalGap != before.HorizontalGap || opts.Theme != before.Theme {
		t.Error("ValidateAndSetDefaults is not idempotent")
	}
}

func TestOptionsValidation(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		code jerrors.Code
	}{
		{"negative gap", Options{HorizontalGap: -1}, jerrors.ErrCodeInvalidOptions},
		{"input format", Options{InputFormat: "xml"}, jerrors.ErrCodeInvalidFormat},
		{"theme", Options{Theme: "neon"}, jerrors.ErrCodeInvalidTheme},
		{"viz type", Options{VizType: "tower"}, jerrors.ErrCodeInvalidVizType},
		{"blank query", Options{Query: "   "}, jerrors.ErrCodeInvalidQuery},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.ValidateAndSetDefaults()
			if !jerrors.Is(err, tt.code) {
				t.Errorf("error = %v, want code %s", err, tt.code)
			}
		})
	}
}

func TestArtifactKeyOpts(t *testing.T) {
	opts := Options{}
	opts.SetRenderDefaults()

	svg := opts.ArtifactKeyOpts(graph.FormatSVG, "$.a")
	if svg.Highlight != "$.a" || svg.Theme != "light" {
		t.Errorf("svg key opts = %+v", svg)
	}
	js := opts.ArtifactKeyOpts(graph.FormatJSON, "$.a")
	if js.Highlight != "" || js.Theme != "" {
		t.Errorf("json key opts should ignore presentation: %+v", js)
	}
	if png := opts.ArtifactKeyOpts(graph.FormatPNG, ""); png.Format != "png@2" {
		t.Errorf("png key format = %q", png.Format)
	}
}

func TestExecute(t *testing.T) {
	r := newTestRunner(t)
	ctx := context.Background()

	res, err := r.Execute(ctx, Options{
		Document: []byte(jsondoc.SampleJSON),
		Query:    "user.scores[1].grade",
		Formats:  []string{"svg", "json", "dot"},
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	if res.Match != "$.user.scores[1].grade" {
		t.Errorf("Match = %q", res.Match)
	}
	if res.Stats.NodeCount != len(res.Graph.Nodes) || res.Stats.EdgeCount != res.Stats.NodeCount-1 {
		t.Errorf("stats = %+v", res.Stats)
	}
	if res.CacheInfo.LayoutHit || res.CacheInfo.RenderHit {
		t.Error("first run should miss the cache")
	}
	for _, f := range []string{"svg", "json", "dot"} {
		if len(res.Artifacts[f]) == 0 {
			t.Errorf("missing %s artifact", f)
		}
	}
	if !strings.Contains(string(res.Artifacts["svg"]), `stroke="#FF3860"`) {
		t.Error("matched node is not highlighted")
	}

	g, err := graph.Unmarshal(res.Artifacts["json"])
	if err != nil {
		t.Fatalf("json artifact: %v", err)
	}
	if len(g.Nodes) != len(res.Graph.Nodes) {
		t.Errorf("json artifact has %d nodes, want %d", len(g.Nodes), len(res.Graph.Nodes))
	}

	again, err := r.Execute(ctx, Options{
		Document: []byte(jsondoc.SampleJSON),
		Query:    "user.scores[1].grade",
		Formats:  []string{"json", "svg", "dot"},
	})
	if err != nil {
		t.Fatalf("second Execute: %v", err)
	}
	if !again.CacheInfo.LayoutHit || !again.CacheInfo.RenderHit {
		t.Errorf("second run cache info = %+v, want hits", again.CacheInfo)
	}
}

func TestExecuteNoMatchStillRenders(t *testing.T) {
	r := newTestRunner(t)
	res, err := r.Execute(context.Background(), Options{
		Document: []byte(`{"a":[1,2]}`),
		Query:    "a[5]",
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if res.Match != "" {
		t.Errorf("Match = %q, want none", res.Match)
	}
	if strings.Contains(string(res.Artifacts["svg"]), `stroke="#FF3860"`) {
		t.Error("nothing should be highlighted")
	}
}

func TestExecuteErrors(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		code jerrors.Code
	}{
		{"bad json", Options{Document: []byte(`{"a":`)}, jerrors.ErrCodeInvalidDocument},
		{"empty", Options{Document: nil}, jerrors.ErrCodeInvalidDocument},
		{"blank query", Options{Document: []byte(`{}`), Query: "   "}, jerrors.ErrCodeInvalidQuery},
		{"bad format", Options{Document: []byte(`{}`), Formats: []string{"gif"}}, jerrors.ErrCodeInvalidFormat},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newTestRunner(t)
			_, err := r.Execute(context.Background(), tt.opts)
			if !jerrors.Is(err, tt.code) {
				t.Errorf("error = %v, want code %s", err, tt.code)
			}
		})
	}
}

func TestExecuteYAML(t *testing.T) {
	r := newTestRunner(t)
	res, err := r.Execute(context.Background(), Options{
		Document:    []byte("name: x\ntags: [a, b]\n"),
		InputFormat: jsondoc.FormatYAML,
		Formats:     []string{"json"},
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if _, ok := res.Graph.PathToID["$.tags[1]"]; !ok {
		t.Error("YAML document was not laid out")
	}
}

func TestExecuteReportsAmbiguousKeys(t *testing.T) {
	r := newTestRunner(t)
	res, err := r.Execute(context.Background(), Options{
		Document: []byte(`{"a.b":1,"ok":2}`),
		Formats:  []string{"json"},
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if len(res.Ambiguous) != 1 || res.Ambiguous[0] != "$.a.b" {
		t.Errorf("Ambiguous = %v", res.Ambiguous)
	}
}

func TestQuery(t *testing.T) {
	r := newTestRunner(t)
	ctx := context.Background()
	doc, err := r.DecodeDocument(ctx, []byte(`{"items":[{"id":1}]}`), jsondoc.FormatJSON)
	if err != nil {
		t.Fatalf("DecodeDocument: %v", err)
	}
	g, err := r.Layout(ctx, doc, Options{})
	if err != nil {
		t.Fatalf("Layout: %v", err)
	}

	id, err := r.Query(ctx, g, "$.items[0].id")
	if err != nil || id != "$.items[0].id" {
		t.Errorf("Query = %q, %v", id, err)
	}

	_, err = r.Query(ctx, g, "items[3]")
	if !jerrors.Is(err, jerrors.ErrCodeNoMatch) || !errors.Is(err, jsonpath.ErrNoMatch) {
		t.Errorf("Query(no match) = %v", err)
	}

	_, err = r.Query(ctx, g, "items[x]")
	var se *jsonpath.SyntaxError
	if !jerrors.Is(err, jerrors.ErrCodeInvalidQuery) || !errors.As(err, &se) {
		t.Errorf("Query(bad) = %v", err)
	}
}

func TestIsNoMatch(t *testing.T) {
	r := newTestRunner(t)
	ctx := context.Background()
	g, err := r.Layout(ctx, jsondoc.Sample(), Options{})
	if err != nil {
		t.Fatalf("Layout: %v", err)
	}

	tests := []struct {
		query string
		want  bool
	}{
		{"items[9]", true},
		{"items[x]", true},
		{"a..b", true},
		{"items[", true},
		{"   ", false},
		{"items\x00", false},
	}
	for _, tt := range tests {
		_, err := r.Query(ctx, g, tt.query)
		if got := IsNoMatch(err); got != tt.want {
			t.Errorf("IsNoMatch(Query(%q)) = %v, want %v (err %v)", tt.query, got, tt.want, err)
		}
	}
	if IsNoMatch(nil) {
		t.Error("IsNoMatch(nil) = true")
	}
}

func TestExecuteMalformedQueryStillRenders(t *testing.T) {
	for _, query := range []string{"a[x]", "a..b", "$[5]"} {
		t.Run(query, func(t *testing.T) {
			r := newTestRunner(t)
			res, err := r.Execute(context.Background(), Options{
				Document: []byte(`[1,2,3]`),
				Query:    query,
				Formats:  []string{"json"},
			})
			if err != nil {
				t.Fatalf("Execute: %v", err)
			}
			if res.Match != "" {
				t.Errorf("Match = %q, want none", res.Match)
			}
			if len(res.Artifacts["json"]) == 0 {
				t.Error("json artifact missing")
			}
		})
	}
}

func TestLayoutCacheKeyedByOptions(t *testing.T) {
	r := newTestRunner(t)
	ctx := context.Background()
	doc := jsondoc.Sample()

	_, hit, err := r.LayoutWithCacheInfo(ctx, doc, Options{})
	if err != nil || hit {
		t.Fatalf("first layout hit=%v err=%v", hit, err)
	}
	_, hit, _ = r.LayoutWithCacheInfo(ctx, doc, Options{HorizontalGap: 200})
	if !hit {
		t.Error("explicit default gap should share the cache entry")
	}
	g, hit, _ := r.LayoutWithCacheInfo(ctx, doc, Options{HorizontalGap: 120})
	if hit {
		t.Error("different gap should miss the cache")
	}
	if g.Meta.HorizontalGap != 120 {
		t.Errorf("HorizontalGap = %v", g.Meta.HorizontalGap)
	}
}

func TestRenderNodelinkDOT(t *testing.T) {
	r := newTestRunner(t)
	ctx := context.Background()
	g, err := r.Layout(ctx, jsondoc.Sample(), Options{})
	if err != nil {
		t.Fatalf("Layout: %v", err)
	}
	artifacts, err := r.Render(ctx, g, "$.items", Options{VizType: graph.VizTypeNodelink, Formats: []string{"dot"}})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !strings.Contains(string(artifacts["dot"]), "layout=neato") {
		t.Error("nodelink DOT artifact missing")
	}
}
