package jsondoc

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
)

// Kind identifies the JSON type of a [Value].
type Kind uint8

const (
	Null Kind = iota
	Bool
	Number
	String
	Object
	Array
)

var kindNames = [...]string{
	Null:   "null",
	Bool:   "boolean",
	Number: "number",
	String: "string",
	Object: "object",
	Array:  "array",
}

// String returns the JSON type name.
func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "Kind(" + strconv.Itoa(int(k)) + ")"
}

// IsContainer reports whether values of this kind have children.
func (k Kind) IsContainer() bool { return k == Object || k == Array }

// Member is one key/value pair of an object.
type Member struct {
	Key   string
	Value *Value
}

// Value is a JSON value. The zero value is null.
//
// Values are treated as immutable once built; the slices returned by
// [Value.Members] and [Value.Items] must not be modified.
type Value struct {
	kind    Kind
	boolean bool
	number  json.Number
	str     string
	members []Member
	items   []*Value
}

// NullValue returns a JSON null.
func NullValue() *Value { return &Value{kind: Null} }

// BoolValue returns a JSON boolean.
func BoolValue(b bool) *Value { return &Value{kind: Bool, boolean: b} }

// NumberValue returns a JSON number with the given literal text.
func NumberValue(n json.Number) *Value { return &Value{kind: Number, number: n} }

// StringValue returns a JSON string.
func StringValue(s string) *Value { return &Value{kind: String, str: s} }

// ObjectValue returns an object with the given members, in order.
// Later duplicates overwrite earlier ones in place.
func ObjectValue(members ...Member) *Value {
	v := &Value{kind: Object}
	var seen map[string]int
	for _, m := range members {
		v.members, seen = setMember(v.members, seen, m.Key, m.Value)
	}
	return v
}

// ArrayValue returns an array with the given items.
func ArrayValue(items ...*Value) *Value {
	return &Value{kind: Array, items: items}
}

// Kind returns the JSON type of v. A nil Value is null.
func (v *Value) Kind() Kind {
	if v == nil {
		return Null
	}
	return v.kind
}

// Bool returns the boolean payload; false for other kinds.
func (v *Value) Bool() bool { return v != nil && v.boolean }

// Number returns the literal text of a number; empty for other kinds.
func (v *Value) Number() json.Number {
	if v == nil {
		return ""
	}
	return v.number
}

// Str returns the string payload; empty for other kinds.
func (v *Value) Str() string {
	if v == nil {
		return ""
	}
	return v.str
}

// Members returns the ordered members of an object.
func (v *Value) Members() []Member {
	if v == nil {
		return nil
	}
	return v.members
}

// Items returns the elements of an array.
func (v *Value) Items() []*Value {
	if v == nil {
		return nil
	}
	return v.items
}

// Len returns the number of children of a container, or 0.
func (v *Value) Len() int {
	switch v.Kind() {
	case Object:
		return len(v.members)
	case Array:
		return len(v.items)
	}
	return 0
}

// Get returns the value of the named member of an object.
func (v *Value) Get(key string) (*Value, bool) {
	for _, m := range v.Members() {
		if m.Key == key {
			return m.Value, true
		}
	}
	return nil, false
}

// Index returns the i-th element of an array.
func (v *Value) Index(i int) (*Value, bool) {
	items := v.Items()
	if i < 0 || i >= len(items) {
		return nil, false
	}
	return items[i], true
}

func setMember(members []Member, seen map[string]int, key string, val *Value) ([]Member, map[string]int) {
	if seen == nil {
		seen = make(map[string]int)
	}
	if i, ok := seen[key]; ok {
		members[i].Value = val
		return members, seen
	}
	seen[key] = len(members)
	return append(members, Member{Key: key, Value: val}), seen
}

// FromAny converts a value produced by encoding/json (or built by hand) into
// a Value. Map keys are sorted, since Go maps carry no order.
func FromAny(x any) (*Value, error) {
	switch t := x.(type) {
	case nil:
		return NullValue(), nil
	case *Value:
		return t, nil
	case bool:
		return BoolValue(t), nil
	case string:
		return StringValue(t), nil
	case json.Number:
		return NumberValue(t), nil
	case float64:
		return NumberValue(json.Number(strconv.FormatFloat(t, 'g', -1, 64))), nil
	case float32:
		return NumberValue(json.Number(strconv.FormatFloat(float64(t), 'g', -1, 32))), nil
	case int:
		return NumberValue(json.Number(strconv.Itoa(t))), nil
	case int64:
		return NumberValue(json.Number(strconv.FormatInt(t, 10))), nil
	case []any:
		items := make([]*Value, 0, len(t))
		for _, e := range t {
			v, err := FromAny(e)
			if err != nil {
				return nil, err
			}
			items = append(items, v)
		}
		return ArrayValue(items...), nil
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		members := make([]Member, 0, len(keys))
		for _, k := range keys {
			v, err := FromAny(t[k])
			if err != nil {
				return nil, err
			}
			members = append(members, Member{Key: k, Value: v})
		}
		return ObjectValue(members...), nil
	default:
		return nil, fmt.Errorf("jsondoc: unsupported type %T", x)
	}
}

// =============================================================================
// Encoding
// =============================================================================

// MarshalJSON encodes v as compact JSON.
func (v *Value) MarshalJSON() ([]byte, error) {
	return v.AppendJSON(nil), nil
}

// UnmarshalJSON decodes JSON into v, preserving member order.
func (v *Value) UnmarshalJSON(data []byte) error {
	parsed, err := Parse(data)
	if err != nil {
		return err
	}
	*v = *parsed
	return nil
}

// String returns the compact JSON encoding of v.
func (v *Value) String() string {
	return string(v.AppendJSON(nil))
}

type encodeFrame struct {
	v    *Value
	next int
}

// AppendJSON appends the compact JSON encoding of v to dst.
func (v *Value) AppendJSON(dst []byte) []byte {
	stack := []encodeFrame{{v: v}}
	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		cur := top.v

		if !cur.Kind().IsContainer() {
			dst = appendScalar(dst, cur)
			stack = stack[:len(stack)-1]
			continue
		}

		open, closing := byte('['), byte(']')
		if cur.kind == Object {
			open, closing = '{', '}'
		}
		if top.next == 0 {
			dst = append(dst, open)
		}
		if top.next == cur.Len() {
			dst = append(dst, closing)
			stack = stack[:len(stack)-1]
			continue
		}
		if top.next > 0 {
			dst = append(dst, ',')
		}

		var child *Value
		if cur.kind == Object {
			m := cur.members[top.next]
			dst = append(dst, Quote(m.Key)...)
			dst = append(dst, ':')
			child = m.Value
		} else {
			child = cur.items[top.next]
		}
		top.next++
		stack = append(stack, encodeFrame{v: child})
	}
	return dst
}

func appendScalar(dst []byte, v *Value) []byte {
	switch v.Kind() {
	case Bool:
		return strconv.AppendBool(dst, v.boolean)
	case Number:
		return append(dst, v.number...)
	case String:
		return append(dst, Quote(v.str)...)
	default:
		return append(dst, "null"...)
	}
}

// Quote returns s as a JSON string literal. Unlike json.Marshal it leaves
// '<', '>' and '&' unescaped.
func Quote(s string) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(s)
	return string(bytes.TrimSuffix(buf.Bytes(), []byte{'\n'}))
}
