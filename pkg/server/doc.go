// Package server exposes the jsontree pipeline over HTTP.
//
// # Routes
//
//	GET    /healthz
//	GET    /api/v1/sample
//	POST   /api/v1/layout             {document, horizontal_gap, vertical_gap, margin}
//	POST   /api/v1/query              {query, path_to_id}
//	POST   /api/v1/render             {document, query, format, theme, viz_type}
//	POST   /api/v1/documents          raw JSON (or YAML with ?format=yaml)
//	GET    /api/v1/documents/{id}
//	GET    /api/v1/documents/{id}/layout
//	DELETE /api/v1/documents/{id}
//
// # Errors
//
// Failures are reported as JSON:
//
//	{"code": "INVALID_QUERY", "message": "unterminated bracket at offset 3"}
//
// The status code comes from [errors.HTTPStatus]. Errors without a code are
// logged and returned as INTERNAL_ERROR with a generic message.
//
// # Usage
//
//	runner := pipeline.NewRunner(c, nil, logger)
//	srv := server.New(server.Config{Addr: ":8080"}, runner, store.NewMemoryStore(), logger)
//	err := srv.ListenAndServe(ctx) // returns after ctx is cancelled and the server drained
package server
