package jsondoc

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"path/filepath"
	"strings"

	jerrors "github.com/matzehuels/jsontree/pkg/errors"
)

// Input formats understood by [DecodeFormat].
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// FormatForPath guesses the input format from a file name.
func FormatForPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// DecodeFormat decodes r as JSON or YAML.
func DecodeFormat(r io.Reader, format string) (*Value, error) {
	switch format {
	case "", FormatJSON:
		return Decode(r)
	case FormatYAML:
		return DecodeYAML(r)
	default:
		return nil, jerrors.New(jerrors.ErrCodeInvalidFormat, "unsupported input format: %q", format)
	}
}

// Parse decodes a complete JSON document held in memory.
func Parse(data []byte) (*Value, error) {
	return Decode(bytes.NewReader(data))
}

type decodeFrame struct {
	v      *Value
	key    string
	hasKey bool
	seen   map[string]int
}

// Decode reads exactly one JSON value from r.
//
// Errors are reported as *errors.Error with code INVALID_DOCUMENT.
func Decode(r io.Reader) (*Value, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	var (
		stack []*decodeFrame
		root  *Value
	)

	attach := func(v *Value) {
		if len(stack) == 0 {
			root = v
			return
		}
		parent := stack[len(stack)-1]
		if parent.v.kind == Array {
			parent.v.items = append(parent.v.items, v)
			return
		}
		parent.v.members, parent.seen = setMember(parent.v.members, parent.seen, parent.key, v)
		parent.hasKey = false
	}

	for {
		tok, err := dec.Token()
		if err != nil {
			if errors.Is(err, io.EOF) {
				if root == nil || len(stack) > 0 {
					return nil, jerrors.Wrap(jerrors.ErrCodeInvalidDocument, io.ErrUnexpectedEOF, "decode JSON")
				}
				return root, nil
			}
			return nil, jerrors.Wrap(jerrors.ErrCodeInvalidDocument, err, "decode JSON")
		}

		if root != nil && len(stack) == 0 {
			return nil, jerrors.New(jerrors.ErrCodeInvalidDocument, "decode JSON: unexpected data after top-level value")
		}

		// Inside an object every other token is a member name.
		if len(stack) > 0 {
			top := stack[len(stack)-1]
			if top.v.kind == Object && !top.hasKey {
				if key, ok := tok.(string); ok {
					top.key, top.hasKey = key, true
					continue
				}
			}
		}

		switch t := tok.(type) {
		case json.Delim:
			switch t {
			case '{':
				stack = append(stack, &decodeFrame{v: &Value{kind: Object}})
			case '[':
				stack = append(stack, &decodeFrame{v: &Value{kind: Array}})
			case '}', ']':
				done := stack[len(stack)-1].v
				stack = stack[:len(stack)-1]
				attach(done)
			}
		case string:
			attach(StringValue(t))
		case json.Number:
			attach(NumberValue(t))
		case bool:
			attach(BoolValue(t))
		case nil:
			attach(NullValue())
		}
	}
}
