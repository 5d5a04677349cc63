package observability

import (
	"context"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// TracerName is the instrumentation scope used by [NewOTelHooks] when no
// tracer is given.
const TracerName = "github.com/matzehuels/jsontree"

// OTelHooks turns hook events into OpenTelemetry spans. Completion events
// carry a duration, so each becomes one span backdated to its start time.
// Cache events are recorded as span events on the active span.
type OTelHooks struct {
	tracer trace.Tracer
}

// NewOTelHooks creates hooks backed by tracer, or by the global provider's
// tracer if tracer is nil.
func NewOTelHooks(tracer trace.Tracer) *OTelHooks {
	if tracer == nil {
		tracer = otel.Tracer(TracerName)
	}
	return &OTelHooks{tracer: tracer}
}

func (h *OTelHooks) span(ctx context.Context, name string, duration time.Duration, err error, attrs ...attribute.KeyValue) {
	end := time.Now()
	_, span := h.tracer.Start(ctx, name,
		trace.WithTimestamp(end.Add(-duration)),
		trace.WithAttributes(attrs...),
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End(trace.WithTimestamp(end))
}

// -----------------------------------------------------------------------------
// PipelineHooks
// -----------------------------------------------------------------------------

func (h *OTelHooks) OnDecodeComplete(ctx context.Context, format string, size int, d time.Duration, err error) {
	h.span(ctx, "jsontree.decode", d, err,
		attribute.String("document.format", format),
		attribute.Int("document.size", size),
	)
}

func (h *OTelHooks) OnLayoutStart(ctx context.Context, docHash string) {
	trace.SpanFromContext(ctx).AddEvent("layout.start", trace.WithAttributes(
		attribute.String("document.hash", docHash),
	))
}

func (h *OTelHooks) OnLayoutComplete(ctx context.Context, nodeCount int, d time.Duration, err error) {
	h.span(ctx, "jsontree.layout", d, err, attribute.Int("layout.nodes", nodeCount))
}

func (h *OTelHooks) OnQuery(ctx context.Context, query string, matched bool, d time.Duration, err error) {
	h.span(ctx, "jsontree.query", d, err,
		attribute.String("query.text", query),
		attribute.Bool("query.matched", matched),
	)
}

func (h *OTelHooks) OnRenderStart(ctx context.Context, formats []string) {
	trace.SpanFromContext(ctx).AddEvent("render.start", trace.WithAttributes(
		attribute.StringSlice("render.formats", formats),
	))
}

func (h *OTelHooks) OnRenderComplete(ctx context.Context, formats []string, d time.Duration, err error) {
	h.span(ctx, "jsontree.render", d, err, attribute.String("render.formats", strings.Join(formats, ",")))
}

// -----------------------------------------------------------------------------
// CacheHooks
// -----------------------------------------------------------------------------

func (h *OTelHooks) OnCacheHit(ctx context.Context, keyType string) {
	trace.SpanFromContext(ctx).AddEvent("cache.hit", trace.WithAttributes(attribute.String("cache.key_type", keyType)))
}

func (h *OTelHooks) OnCacheMiss(ctx context.Context, keyType string) {
	trace.SpanFromContext(ctx).AddEvent("cache.miss", trace.WithAttributes(attribute.String("cache.key_type", keyType)))
}

func (h *OTelHooks) OnCacheSet(ctx context.Context, keyType string, size int) {
	trace.SpanFromContext(ctx).AddEvent("cache.set", trace.WithAttributes(
		attribute.String("cache.key_type", keyType),
		attribute.Int("cache.size", size),
	))
}

// -----------------------------------------------------------------------------
// HTTPHooks
// -----------------------------------------------------------------------------

func (h *OTelHooks) OnRequest(ctx context.Context, method, host, path string) {}

func (h *OTelHooks) OnResponse(ctx context.Context, method, host, path string, status int, d time.Duration) {
	h.span(ctx, "jsontree.fetch", d, nil,
		attribute.String("http.request.method", method),
		attribute.String("server.address", host),
		attribute.String("url.path", path),
		attribute.Int("http.response.status_code", status),
	)
}

func (h *OTelHooks) OnError(ctx context.Context, method, host, path string, err error) {
	h.span(ctx, "jsontree.fetch", 0, err,
		attribute.String("http.request.method", method),
		attribute.String("server.address", host),
		attribute.String("url.path", path),
	)
}

var (
	_ PipelineHooks = (*OTelHooks)(nil)
	_ CacheHooks    = (*OTelHooks)(nil)
	_ HTTPHooks     = (*OTelHooks)(nil)
)
