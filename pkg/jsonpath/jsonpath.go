package jsonpath

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// ErrNoMatch is returned by [Lookup] when a well-formed query names a path
// that is not in the index.
var ErrNoMatch = errors.New("jsonpath: no match")

// Step is one access in a query: a member name or an array index.
type Step struct {
	Field   string
	Index   int
	IsIndex bool
}

// FieldStep returns a member access step.
func FieldStep(name string) Step { return Step{Field: name} }

// IndexStep returns an array access step.
func IndexStep(i int) Step { return Step{Index: i, IsIndex: true} }

// String returns the canonical path fragment of the step.
func (s Step) String() string {
	if s.IsIndex {
		return "[" + strconv.Itoa(s.Index) + "]"
	}
	return "." + s.Field
}

// SyntaxError describes why a query could not be parsed.
type SyntaxError struct {
	Query  string
	Offset int // byte offset into the trimmed query
	Reason string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("jsonpath: %s at offset %d in %q", e.Reason, e.Offset, e.Query)
}

// Parse splits a query into steps. "$", "$." and "." address the root and
// yield no steps; a blank query is an error.
func Parse(query string) ([]Step, error) {
	q := strings.TrimSpace(query)
	if q == "" {
		return nil, &SyntaxError{Query: query, Reason: "empty query"}
	}

	s, pos := q, 0
	if strings.HasPrefix(s, "$") {
		s, pos = s[1:], pos+1
	}
	if strings.HasPrefix(s, ".") {
		s, pos = s[1:], pos+1
	}

	steps := []Step{}
	i := 0
	for i < len(s) {
		if s[i] == '[' {
			end := strings.IndexByte(s[i:], ']')
			if end < 0 {
				return nil, &SyntaxError{Query: q, Offset: pos + i, Reason: "unterminated bracket"}
			}
			inner := s[i+1 : i+end]
			if !isDigits(inner) {
				return nil, &SyntaxError{Query: q, Offset: pos + i + 1, Reason: fmt.Sprintf("non-numeric index %q", inner)}
			}
			n, err := strconv.Atoi(inner)
			if err != nil {
				return nil, &SyntaxError{Query: q, Offset: pos + i + 1, Reason: fmt.Sprintf("index %q out of range", inner)}
			}
			steps = append(steps, IndexStep(n))
			i += end + 1
		} else {
			j := i
			for j < len(s) && s[j] != '.' && s[j] != '[' {
				j++
			}
			if j == i {
				return nil, &SyntaxError{Query: q, Offset: pos + i, Reason: "empty segment"}
			}
			steps = append(steps, FieldStep(s[i:j]))
			i = j
		}
		if i < len(s) && s[i] == '.' {
			i++
		}
	}
	return steps, nil
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// Canonical rebuilds the node path addressed by steps.
func Canonical(steps []Step) string {
	var b strings.Builder
	b.WriteByte('$')
	for _, s := range steps {
		b.WriteString(s.String())
	}
	return b.String()
}

// Normalize parses a query and returns its canonical path.
func Normalize(query string) (string, error) {
	steps, err := Parse(query)
	if err != nil {
		return "", err
	}
	return Canonical(steps), nil
}

// Lookup resolves query against a path index. It returns a *SyntaxError for
// malformed queries and ErrNoMatch for well-formed queries that miss.
func Lookup(query string, index map[string]string) (string, error) {
	path, err := Normalize(query)
	if err != nil {
		return "", err
	}
	id, ok := index[path]
	if !ok {
		return "", ErrNoMatch
	}
	return id, nil
}

// Resolve resolves query against a path index, reporting only whether a
// node matched.
func Resolve(query string, index map[string]string) (string, bool) {
	id, err := Lookup(query, index)
	return id, err == nil
}

// IsPlainField reports whether a member name survives the trip through a
// query: it must be non-empty, free of '.', '[' and ']', and must not end in
// whitespace (queries are trimmed).
func IsPlainField(key string) bool {
	if key == "" || strings.ContainsAny(key, ".[]") {
		return false
	}
	r, _ := utf8.DecodeLastRuneInString(key)
	return !unicode.IsSpace(r)
}
