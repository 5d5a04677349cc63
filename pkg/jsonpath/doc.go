// Package jsonpath resolves a small JSONPath subset against a laid-out tree.
//
// # Grammar
//
// A query is an optional "$", an optional ".", then a sequence of steps:
//
//	field     a run of characters up to the next '.' or '['
//	[digits]  a non-negative array index
//
// Steps are separated by a single optional '.'. Examples:
//
//	$.user.address.city
//	items[0].name
//	user.scores[1].grade
//	$[5]
//
// Wildcards, recursive descent, slices, filters, quoted member names and
// negative indexes are not supported. Malformed queries (empty input, an
// unterminated bracket, a non-numeric index, an empty segment such as
// "a..b") fail as a whole; there is no partial result.
//
// # Resolution
//
// [Canonical] rebuilds "$" + ".name" / "[i]" from the steps, the same rule
// the layout uses for node paths, so resolution is a plain map lookup:
//
//	id, ok := jsonpath.Resolve("items[1].id", g.PathToID)
//
// [Resolve] collapses every failure to "no match". [Lookup] keeps the
// distinction between a [*SyntaxError] and [ErrNoMatch].
//
// # Limitations
//
// Member names are not escaped. A key containing '.', '[' or ']' yields a
// node path no query can reach; [IsPlainField] reports such keys.
package jsonpath
