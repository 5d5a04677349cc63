package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/jsontree/pkg/buildinfo"
	jerrors "github.com/matzehuels/jsontree/pkg/errors"
	"github.com/matzehuels/jsontree/pkg/graph"
	"github.com/matzehuels/jsontree/pkg/jsondoc"
	"github.com/matzehuels/jsontree/pkg/jsonpath"
	"github.com/matzehuels/jsontree/pkg/pipeline"
	"github.com/matzehuels/jsontree/pkg/store"
)

// MatchHeader carries the matched node ID on render responses.
const MatchHeader = "X-Jsontree-Match"

// =============================================================================
// Request / Response Types
// =============================================================================

type layoutRequest struct {
	Document      json.RawMessage `json:"document"`
	HorizontalGap float64         `json:"horizontal_gap,omitempty"`
	VerticalGap   float64         `json:"vertical_gap,omitempty"`
	Margin        float64         `json:"margin,omitempty"`
}

type queryRequest struct {
	Query    string            `json:"query"`
	PathToID map[string]string `json:"path_to_id"`
}

type queryResponse struct {
	Query string  `json:"query"`
	Path  string  `json:"path"`
	ID    *string `json:"id"`
	Match bool    `json:"match"`
}

type renderRequest struct {
	Document json.RawMessage `json:"document"`
	Query    string          `json:"query,omitempty"`
	Format   string          `json:"format,omitempty"`
	Theme    string          `json:"theme,omitempty"`
	VizType  string          `json:"viz_type,omitempty"`
	Scale    float64         `json:"scale,omitempty"`
}

// =============================================================================
// Handlers
// =============================================================================

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": buildinfo.Version,
	})
}

func (s *Server) handleSample(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = io.WriteString(w, jsondoc.SampleJSON)
}

// handleLayout handles POST /api/v1/layout.
func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	var req layoutRequest
	if err := decodeBody(w, r, s.cfg.MaxBodyBytes, &req); err != nil {
		writeError(w, r, s.logger, err)
		return
	}
	if len(req.Document) == 0 {
		writeError(w, r, s.logger, jerrors.New(jerrors.ErrCodeInvalidDocument, "document is required"))
		return
	}

	doc, err := s.runner.DecodeDocument(r.Context(), req.Document, jsondoc.FormatJSON)
	if err != nil {
		writeError(w, r, s.logger, err)
		return
	}
	g, err := s.runner.Layout(r.Context(), doc, pipeline.Options{
		HorizontalGap: req.HorizontalGap,
		VerticalGap:   req.VerticalGap,
		Margin:        req.Margin,
	})
	if err != nil {
		writeError(w, r, s.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, g)
}

// handleQuery handles POST /api/v1/query. A query that matches nothing,
// including one that does not parse, is a successful response with
// match=false. Only blank, oversized or control-character queries are
// rejected.
func (s *Server) handleQuery(w http.ResponseWriter, r *http.Request) {
	var req queryRequest
	if err := decodeBody(w, r, s.cfg.MaxBodyBytes, &req); err != nil {
		writeError(w, r, s.logger, err)
		return
	}

	resp := queryResponse{Query: req.Query}
	id, err := s.runner.Query(r.Context(), graph.Graph{PathToID: req.PathToID}, req.Query)
	switch {
	case err == nil:
		resp.ID, resp.Match = &id, true
	case pipeline.IsNoMatch(err):
		s.logger.Debug("query not resolved", "query", req.Query, "reason", jerrors.UserMessage(err))
	default:
		writeError(w, r, s.logger, err)
		return
	}

	// Path stays empty when the query does not parse.
	resp.Path, _ = jsonpath.Normalize(req.Query)
	writeJSON(w, http.StatusOK, resp)
}

// handleRender handles POST /api/v1/render and responds with the artifact.
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	var req renderRequest
	if err := decodeBody(w, r, s.cfg.MaxBodyBytes, &req); err != nil {
		writeError(w, r, s.logger, err)
		return
	}
	if len(req.Document) == 0 {
		writeError(w, r, s.logger, jerrors.New(jerrors.ErrCodeInvalidDocument, "document is required"))
		return
	}
	format := req.Format
	if format == "" {
		format = graph.FormatSVG
	}

	res, err := s.runner.Execute(r.Context(), pipeline.Options{
		Document: req.Document,
		Name:     "request",
		Query:    req.Query,
		Formats:  []string{format},
		Theme:    req.Theme,
		VizType:  req.VizType,
		Scale:    req.Scale,
	})
	if err != nil {
		writeError(w, r, s.logger, err)
		return
	}

	if res.Match != "" {
		w.Header().Set(MatchHeader, res.Match)
	}
	w.Header().Set("Content-Type", contentType(format))
	_, _ = w.Write(res.Artifacts[format])
}

// handleCreateDocument handles POST /api/v1/documents. The body is the
// document itself; ?format=yaml accepts YAML and ?name= labels it.
func (s *Server) handleCreateDocument(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes))
	if err != nil {
		writeError(w, r, s.logger, bodyError(err))
		return
	}

	format := r.URL.Query().Get("format")
	if format == "" {
		format = jsondoc.FormatJSON
	}
	doc, err := s.runner.DecodeDocument(r.Context(), data, format)
	if err != nil {
		writeError(w, r, s.logger, err)
		return
	}

	d := store.NewDocument(r.URL.Query().Get("name"), doc, s.cfg.DocumentTTL)
	if err := s.store.Put(r.Context(), d); err != nil {
		writeError(w, r, s.logger, jerrors.Wrap(jerrors.ErrCodeInternal, err, "store document"))
		return
	}
	s.logger.Debug("stored document", "id", d.ID, "bytes", d.Size)
	writeJSON(w, http.StatusCreated, d)
}

// handleGetDocument handles GET /api/v1/documents/{id}.
func (s *Server) handleGetDocument(w http.ResponseWriter, r *http.Request) {
	d, err := s.loadDocument(r)
	if err != nil {
		writeError(w, r, s.logger, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = io.WriteString(w, d.Body)
}

// handleDocumentLayout handles GET /api/v1/documents/{id}/layout. Gaps may be
// passed as query parameters.
func (s *Server) handleDocumentLayout(w http.ResponseWriter, r *http.Request) {
	opts, err := layoutOptionsFromQuery(r.URL.Query())
	if err != nil {
		writeError(w, r, s.logger, err)
		return
	}
	d, err := s.loadDocument(r)
	if err != nil {
		writeError(w, r, s.logger, err)
		return
	}
	doc, err := d.Value()
	if err != nil {
		writeError(w, r, s.logger, jerrors.Wrap(jerrors.ErrCodeInternal, err, "decode stored document %s", d.ID))
		return
	}
	g, err := s.runner.Layout(r.Context(), doc, opts)
	if err != nil {
		writeError(w, r, s.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, g)
}

// handleDeleteDocument handles DELETE /api/v1/documents/{id}.
func (s *Server) handleDeleteDocument(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := jerrors.ValidateDocumentID(id); err != nil {
		writeError(w, r, s.logger, err)
		return
	}
	if err := s.store.Delete(r.Context(), id); err != nil {
		writeError(w, r, s.logger, jerrors.Wrap(jerrors.ErrCodeInternal, err, "delete document"))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) loadDocument(r *http.Request) (*store.Document, error) {
	id := chi.URLParam(r, "id")
	if err := jerrors.ValidateDocumentID(id); err != nil {
		return nil, err
	}
	d, err := s.store.Get(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, jerrors.Wrap(jerrors.ErrCodeDocumentNotFound, err, "document %s not found", id)
	}
	if err != nil {
		return nil, jerrors.Wrap(jerrors.ErrCodeInternal, err, "load document %s", id)
	}
	return d, nil
}

func layoutOptionsFromQuery(q url.Values) (pipeline.Options, error) {
	var opts pipeline.Options
	fields := []struct {
		name string
		dst  *float64
	}{
		{"horizontal_gap", &opts.HorizontalGap},
		{"vertical_gap", &opts.VerticalGap},
		{"margin", &opts.Margin},
	}
	for _, f := range fields {
		raw := q.Get(f.name)
		if raw == "" {
			continue
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return opts, jerrors.New(jerrors.ErrCodeInvalidOptions, "%s must be a number, got %q", f.name, raw)
		}
		*f.dst = v
	}
	return opts, nil
}
