// Package pkg provides the core libraries for jsontree, a JSON tree visualizer.
//
// # Overview
//
// jsontree turns a JSON (or YAML) document into a tree of boxes, one per
// value, places every box on a grid and lets any box be found again with a
// short path query such as $.user.scores[1].grade. The pkg directory is
// organized into these areas:
//
//  1. [jsondoc] - Order-preserving document model and JSON/YAML decoding
//  2. [tree] - Tree builder and layout engine
//  3. [jsonpath] - Path query parser and resolver
//  4. [graph] - Serialization types for laid-out trees
//  5. [render] - SVG, DOT, PNG and PDF output
//  6. [pipeline] - Orchestration (decode → layout → query → render)
//  7. [server] - HTTP API over the pipeline plus a document store
//  8. [cache], [store], [httputil], [watch], [observability] - Infrastructure
//
// # Architecture
//
// The typical data flow:
//
//	JSON/YAML document
//	         ↓
//	    [jsondoc] package (decode, keep member order)
//	         ↓
//	    [tree] package (nodes, edges, positions, path index)
//	         ↓
//	    [jsonpath] package (resolve a query to a node ID)
//	         ↓
//	    [render] package (SVG/PNG/PDF/DOT/JSON output)
//
// # Quick Start
//
// Lay out a document and find a node:
//
//	import (
//	    "github.com/matzehuels/jsontree/pkg/jsondoc"
//	    "github.com/matzehuels/jsontree/pkg/jsonpath"
//	    "github.com/matzehuels/jsontree/pkg/tree"
//	)
//
//	doc, _ := jsondoc.Parse([]byte(`{"items": [{"name": "Book"}]}`))
//	g := tree.Layout(doc, tree.Options{})
//
//	id, err := jsonpath.Lookup("items[0].name", g.PathToID)
//	// id == "$.items[0].name"
//
// Or let the pipeline do everything, with caching:
//
//	runner := pipeline.NewRunner(cache.NewNullCache(), nil, logger)
//	result, _ := runner.Execute(ctx, pipeline.Options{
//	    Document: data,
//	    Query:    "items[0].name",
//	    Formats:  []string{graph.FormatSVG},
//	})
//
// # Path Queries
//
// Queries start at the root "$" and chain ".name" members and "[N]" array
// indices. The leading "$" or "$." is optional. Keys that themselves contain
// dots or brackets cannot be addressed unambiguously; [tree.AmbiguousPaths]
// reports them.
//
// # Infrastructure
//
// [cache] stores layouts, rendered artifacts and downloads in a local
// directory or Redis. [store] keeps uploaded documents for the HTTP API in
// memory or MongoDB. [observability] emits OpenTelemetry spans for pipeline
// stages.
//
// [jsondoc]: github.com/matzehuels/jsontree/pkg/jsondoc
// [tree]: github.com/matzehuels/jsontree/pkg/tree
// [tree.AmbiguousPaths]: github.com/matzehuels/jsontree/pkg/tree#AmbiguousPaths
// [jsonpath]: github.com/matzehuels/jsontree/pkg/jsonpath
// [graph]: github.com/matzehuels/jsontree/pkg/graph
// [render]: github.com/matzehuels/jsontree/pkg/render
// [pipeline]: github.com/matzehuels/jsontree/pkg/pipeline
// [server]: github.com/matzehuels/jsontree/pkg/server
// [cache]: github.com/matzehuels/jsontree/pkg/cache
// [store]: github.com/matzehuels/jsontree/pkg/store
// [httputil]: github.com/matzehuels/jsontree/pkg/httputil
// [watch]: github.com/matzehuels/jsontree/pkg/watch
// [observability]: github.com/matzehuels/jsontree/pkg/observability
package pkg
