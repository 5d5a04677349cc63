package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/jsontree/pkg/cache"
	jerrors "github.com/matzehuels/jsontree/pkg/errors"
	"github.com/matzehuels/jsontree/pkg/graph"
	"github.com/matzehuels/jsontree/pkg/jsondoc"
	"github.com/matzehuels/jsontree/pkg/jsonpath"
	"github.com/matzehuels/jsontree/pkg/observability"
	"github.com/matzehuels/jsontree/pkg/tree"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and server use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete decode → layout → query → render pipeline.
// A query that matches nothing is not an error: the result has no Match and
// the artifacts are rendered without a highlight.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	result := &Result{}

	// Stage 1: Decode
	decodeStart := time.Now()
	doc, err := r.DecodeDocument(ctx, opts.Document, opts.InputFormat)
	if err != nil {
		return nil, err
	}
	result.Document = doc
	result.DocumentHash = cache.Hash(doc.AppendJSON(nil))
	result.Stats.DecodeTime = time.Since(decodeStart)

	opts.Logger.Debug("decoded document",
		"name", opts.Name,
		"format", opts.InputFormat,
		"bytes", len(opts.Document),
		"duration", result.Stats.DecodeTime)

	// Stage 2: Layout
	layoutStart := time.Now()
	g, layoutHit, err := r.LayoutWithCacheInfo(ctx, doc, opts)
	if err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	result.Graph = g
	result.Stats.LayoutTime = time.Since(layoutStart)
	result.Stats.NodeCount = len(g.Nodes)
	result.Stats.EdgeCount = len(g.Edges)
	result.CacheInfo.LayoutHit = layoutHit
	result.Ambiguous = r.reportAmbiguous(g, opts.Logger)

	opts.Logger.Info("computed layout",
		"nodes", len(g.Nodes),
		"cached", layoutHit,
		"duration", result.Stats.LayoutTime)

	// Stage 3: Query
	if opts.Query != "" {
		queryStart := time.Now()
		id, err := r.Query(ctx, g, opts.Query)
		result.Stats.QueryTime = time.Since(queryStart)
		switch {
		case err == nil:
			result.Match = id
			opts.Logger.Info("query matched", "query", opts.Query, "node", id)
		case IsNoMatch(err):
			opts.Logger.Warn("No match", "query", opts.Query)
			opts.Logger.Debug("query not resolved", "query", opts.Query, "reason", jerrors.UserMessage(err))
		default:
			return nil, err
		}
	}

	// Stage 4: Render
	renderStart := time.Now()
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, g, result.Match, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	opts.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"cached", renderHit,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// DecodeDocument parses data as JSON or YAML.
func (r *Runner) DecodeDocument(ctx context.Context, data []byte, format string) (*jsondoc.Value, error) {
	start := time.Now()
	doc, err := jsondoc.DecodeFormat(bytes.NewReader(data), format)
	observability.Pipeline().OnDecodeComplete(ctx, format, len(data), time.Since(start), err)
	return doc, err
}

// LayoutWithCacheInfo lays out doc with caching and returns cache hit info.
// Layouts are keyed by the document's canonical JSON and the effective gaps.
func (r *Runner) LayoutWithCacheInfo(ctx context.Context, doc *jsondoc.Value, opts Options) (graph.Graph, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForLayout(); err != nil {
		return graph.Graph{}, false, err
	}

	docHash := cache.Hash(doc.AppendJSON(nil))
	cacheKey := r.Keyer.LayoutKey(docHash, opts.LayoutKeyOpts())
	hooks := observability.Pipeline()
	hooks.OnLayoutStart(ctx, docHash)

	if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
		if g, err := graph.Unmarshal(data); err == nil {
			observability.Cache().OnCacheHit(ctx, "layout")
			return g, true, nil
		}
		opts.Logger.Debug("discarding unreadable cached layout", "key", cacheKey)
	} else if err != nil {
		opts.Logger.Debug("layout cache read failed", "error", err)
	}
	observability.Cache().OnCacheMiss(ctx, "layout")

	start := time.Now()
	g := tree.Layout(doc, opts.TreeOptions())
	hooks.OnLayoutComplete(ctx, len(g.Nodes), time.Since(start), nil)

	if data, err := graph.Marshal(g); err == nil {
		if err := r.Cache.Set(ctx, cacheKey, data, cache.TTLLayout); err != nil {
			opts.Logger.Debug("layout cache write failed", "error", err)
		} else {
			observability.Cache().OnCacheSet(ctx, "layout", len(data))
		}
	}

	return g, false, nil
}

// Layout is a convenience wrapper that calls LayoutWithCacheInfo and discards the cache hit info.
func (r *Runner) Layout(ctx context.Context, doc *jsondoc.Value, opts Options) (graph.Graph, error) {
	g, _, err := r.LayoutWithCacheInfo(ctx, doc, opts)
	return g, err
}

// Query resolves query against g's path index and returns the node ID.
// Malformed queries fail with INVALID_QUERY wrapping a *jsonpath.SyntaxError;
// valid queries that name no node fail with NO_MATCH (which also satisfies
// errors.Is(err, jsonpath.ErrNoMatch)). Use [IsNoMatch] to treat both as
// "no match".
func (r *Runner) Query(ctx context.Context, g graph.Graph, query string) (string, error) {
	start := time.Now()
	id, err := r.query(g, query)
	observability.Pipeline().OnQuery(ctx, query, err == nil, time.Since(start), err)
	return id, err
}

func (r *Runner) query(g graph.Graph, query string) (string, error) {
	if err := jerrors.ValidateQuery(query); err != nil {
		return "", err
	}
	id, err := jsonpath.Lookup(query, g.PathToID)
	var se *jsonpath.SyntaxError
	switch {
	case err == nil:
		return id, nil
	case errors.As(err, &se):
		return "", jerrors.Wrap(jerrors.ErrCodeInvalidQuery, err, "%s at offset %d", se.Reason, se.Offset)
	case errors.Is(err, jsonpath.ErrNoMatch):
		return "", jerrors.Wrap(jerrors.ErrCodeNoMatch, err, "no node matches %q", query)
	default:
		return "", err
	}
}

// IsNoMatch reports whether err from [Runner.Query] means the query selects
// no node. A query that does not parse selects nothing, the same as a
// well-formed path that is absent from the index.
func IsNoMatch(err error) bool {
	var se *jsonpath.SyntaxError
	return jerrors.Is(err, jerrors.ErrCodeNoMatch) || errors.As(err, &se)
}

// RenderWithCacheInfo generates artifacts with caching and returns cache hit info.
// highlight is the node ID to outline, or "".
func (r *Runner) RenderWithCacheInfo(ctx context.Context, g graph.Graph, highlight string, opts Options) (map[string][]byte, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForRender(); err != nil {
		return nil, false, err
	}

	layoutData, err := graph.Marshal(g)
	if err != nil {
		return nil, false, fmt.Errorf("serialize layout for cache key: %w", err)
	}
	layoutHash := cache.Hash(layoutData)
	formats := opts.SortedFormats()

	artifacts := make(map[string][]byte, len(formats))
	for _, format := range formats {
		key := r.Keyer.ArtifactKey(layoutHash, opts.ArtifactKeyOpts(format, highlight))
		data, hit, err := r.Cache.Get(ctx, key)
		if err != nil || !hit {
			break
		}
		artifacts[format] = data
	}
	if len(artifacts) == len(formats) {
		observability.Cache().OnCacheHit(ctx, "artifact")
		return artifacts, true, nil
	}
	observability.Cache().OnCacheMiss(ctx, "artifact")

	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, formats)
	start := time.Now()
	rendered, err := Render(ctx, g, highlight, opts)
	hooks.OnRenderComplete(ctx, formats, time.Since(start), err)
	if err != nil {
		return nil, false, err
	}

	for format, data := range rendered {
		key := r.Keyer.ArtifactKey(layoutHash, opts.ArtifactKeyOpts(format, highlight))
		if err := r.Cache.Set(ctx, key, data, cache.TTLArtifact); err == nil {
			observability.Cache().OnCacheSet(ctx, "artifact", len(data))
		}
	}

	return rendered, false, nil
}

// Render is a convenience wrapper that calls RenderWithCacheInfo and discards the cache hit info.
func (r *Runner) Render(ctx context.Context, g graph.Graph, highlight string, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, g, highlight, opts)
	return artifacts, err
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}

func (r *Runner) reportAmbiguous(g graph.Graph, logger *log.Logger) []string {
	paths := tree.AmbiguousPaths(g)
	if len(paths) == 0 {
		return nil
	}
	const shown = 5
	logger.Warn("some keys cannot be queried by path",
		"count", len(paths),
		"examples", paths[:min(len(paths), shown)])
	return paths
}
