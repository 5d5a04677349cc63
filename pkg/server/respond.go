package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5/middleware"

	jerrors "github.com/matzehuels/jsontree/pkg/errors"
	"github.com/matzehuels/jsontree/pkg/graph"
)

type errorBody struct {
	Code    jerrors.Code `json:"code"`
	Message string       `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError reports err as {code, message}. Uncoded errors never leak their
// text to the client.
func writeError(w http.ResponseWriter, r *http.Request, logger *log.Logger, err error) {
	status := jerrors.HTTPStatus(err)
	body := errorBody{Code: jerrors.GetCode(err), Message: jerrors.UserMessage(err)}
	if body.Code == "" || body.Code == jerrors.ErrCodeInternal {
		logger.Error("request failed", "path", r.URL.Path, "request_id", middleware.GetReqID(r.Context()), "error", err)
		body = errorBody{Code: jerrors.ErrCodeInternal, Message: "internal error"}
	}
	writeJSON(w, status, body)
}

func errNotFound(r *http.Request) error {
	return jerrors.New(jerrors.ErrCodeNotFound, "no route for %s %s", r.Method, r.URL.Path)
}

// decodeBody reads a JSON request body into v, bounded by limit bytes.
func decodeBody(w http.ResponseWriter, r *http.Request, limit int64, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, limit))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return bodyError(err)
	}
	return nil
}

func bodyError(err error) error {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return jerrors.New(jerrors.ErrCodeInvalidInput, "request body too large (max %d bytes)", tooLarge.Limit)
	}
	return jerrors.Wrap(jerrors.ErrCodeInvalidInput, err, "malformed request body")
}

var contentTypes = map[string]string{
	graph.FormatSVG:  "image/svg+xml",
	graph.FormatPNG:  "image/png",
	graph.FormatPDF:  "application/pdf",
	graph.FormatDOT:  "text/vnd.graphviz; charset=utf-8",
	graph.FormatJSON: "application/json",
}

func contentType(format string) string {
	if ct, ok := contentTypes[format]; ok {
		return ct
	}
	return "application/octet-stream"
}
