// Package jsondoc provides an ordered, immutable JSON document model.
//
// Go's map-based decoding loses the member order of JSON objects, but the
// tree layout depends on it: siblings are laid out left to right in the order
// they appear in the source. This package keeps objects as ordered member
// lists so the order survives decoding, caching and re-encoding.
//
// # Decoding
//
// [Decode] reads JSON from a stream using the token API, never recursing, so
// documents of arbitrary depth are accepted. Numbers keep their literal text.
// Trailing data after the top-level value is rejected.
//
//	doc, err := jsondoc.Decode(r)
//	doc, err := jsondoc.Parse([]byte(`{"a": [1, 2]}`))
//
// [DecodeYAML] accepts YAML documents and maps them onto the same model:
// mappings keep their order, aliases are expanded and scalars are resolved by
// tag.
//
// # Duplicate Keys
//
// When an object repeats a key, the member keeps the position of the first
// occurrence and the value of the last one. Keys are therefore unique within
// an object, which keeps node paths unique.
//
// # Encoding
//
// [Value.MarshalJSON] writes compact JSON without HTML escaping, again without
// recursion. [Quote] exposes the string encoder for label formatting.
package jsondoc
