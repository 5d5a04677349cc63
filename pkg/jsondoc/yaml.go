package jsondoc

import (
	"encoding/json"
	"errors"
	"io"
	"math"
	"strconv"

	"gopkg.in/yaml.v3"

	jerrors "github.com/matzehuels/jsontree/pkg/errors"
)

// maxYAMLNodes caps alias expansion so a small document cannot expand into
// an unbounded tree.
const maxYAMLNodes = 1 << 20

// DecodeYAML reads a single YAML document from r.
//
// Mappings become objects in source order, sequences become arrays and
// aliases are expanded in place. Scalars are resolved by their tag: null,
// bool, int and float map to the JSON types, everything else is a string.
// Mapping keys must be scalars. Infinity and NaN have no JSON form and are
// rejected.
func DecodeYAML(r io.Reader) (*Value, error) {
	var doc yaml.Node
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, jerrors.New(jerrors.ErrCodeInvalidDocument, "decode YAML: empty document")
		}
		return nil, jerrors.Wrap(jerrors.ErrCodeInvalidDocument, err, "decode YAML")
	}
	return fromYAML(&doc)
}

type yamlFrame struct {
	node *yaml.Node
	v    *Value
	seen map[string]int
	next int
}

func fromYAML(root *yaml.Node) (*Value, error) {
	var (
		result *Value
		count  int
		stack  []*yamlFrame
	)

	// open converts a node to a Value; containers are pushed for filling.
	open := func(n *yaml.Node) (*Value, error) {
		for n.Kind == yaml.DocumentNode || n.Kind == yaml.AliasNode {
			if n.Kind == yaml.DocumentNode {
				if len(n.Content) == 0 {
					return NullValue(), nil
				}
				n = n.Content[0]
			} else {
				n = n.Alias
			}
		}
		count++
		if count > maxYAMLNodes {
			return nil, jerrors.New(jerrors.ErrCodeInvalidDocument, "decode YAML: document expands to more than %d nodes", maxYAMLNodes)
		}
		switch n.Kind {
		case yaml.MappingNode:
			v := &Value{kind: Object}
			stack = append(stack, &yamlFrame{node: n, v: v})
			return v, nil
		case yaml.SequenceNode:
			v := &Value{kind: Array, items: make([]*Value, 0, len(n.Content))}
			stack = append(stack, &yamlFrame{node: n, v: v})
			return v, nil
		case yaml.ScalarNode:
			return yamlScalar(n)
		default:
			return nil, jerrors.New(jerrors.ErrCodeInvalidDocument, "decode YAML: unsupported node at line %d", n.Line)
		}
	}

	v, err := open(root)
	if err != nil {
		return nil, err
	}
	result = v

	for len(stack) > 0 {
		top := stack[len(stack)-1]
		if top.next >= len(top.node.Content) {
			stack = stack[:len(stack)-1]
			continue
		}

		if top.node.Kind == yaml.SequenceNode {
			child := top.node.Content[top.next]
			top.next++
			cv, err := open(child)
			if err != nil {
				return nil, err
			}
			top.v.items = append(top.v.items, cv)
			continue
		}

		keyNode := top.node.Content[top.next]
		valNode := top.node.Content[top.next+1]
		top.next += 2
		for keyNode.Kind == yaml.AliasNode {
			keyNode = keyNode.Alias
		}
		if keyNode.Kind != yaml.ScalarNode {
			return nil, jerrors.New(jerrors.ErrCodeInvalidDocument, "decode YAML: non-scalar mapping key at line %d", keyNode.Line)
		}
		cv, err := open(valNode)
		if err != nil {
			return nil, err
		}
		top.v.members, top.seen = setMember(top.v.members, top.seen, keyNode.Value, cv)
	}

	return result, nil
}

func yamlScalar(n *yaml.Node) (*Value, error) {
	switch n.ShortTag() {
	case "!!null":
		return NullValue(), nil
	case "!!bool":
		var b bool
		if err := n.Decode(&b); err != nil {
			return nil, jerrors.Wrap(jerrors.ErrCodeInvalidDocument, err, "decode YAML bool at line %d", n.Line)
		}
		return BoolValue(b), nil
	case "!!int":
		var i int64
		if err := n.Decode(&i); err == nil {
			return NumberValue(json.Number(strconv.FormatInt(i, 10))), nil
		}
		return yamlFloat(n)
	case "!!float":
		return yamlFloat(n)
	default:
		return StringValue(n.Value), nil
	}
}

func yamlFloat(n *yaml.Node) (*Value, error) {
	var f float64
	if err := n.Decode(&f); err != nil {
		return nil, jerrors.Wrap(jerrors.ErrCodeInvalidDocument, err, "decode YAML number at line %d", n.Line)
	}
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return nil, jerrors.New(jerrors.ErrCodeInvalidDocument, "decode YAML: %q has no JSON representation (line %d)", n.Value, n.Line)
	}
	return NumberValue(json.Number(strconv.FormatFloat(f, 'g', -1, 64))), nil
}
