package tree

import (
	"math"
	"strconv"
	"strings"

	"github.com/matzehuels/jsontree/pkg/graph"
	"github.com/matzehuels/jsontree/pkg/jsondoc"
	"github.com/matzehuels/jsontree/pkg/jsonpath"
)

// FormatPrimitive renders a scalar for a node label. Strings are JSON-quoted,
// numbers use [FormatNumber], booleans and null are their literals.
func FormatPrimitive(v *jsondoc.Value) string {
	switch v.Kind() {
	case jsondoc.String:
		return jsondoc.Quote(v.Str())
	case jsondoc.Number:
		return FormatNumber(string(v.Number()))
	case jsondoc.Bool:
		return strconv.FormatBool(v.Bool())
	default:
		return "null"
	}
}

// FormatNumber prints a JSON number literal the way JavaScript's String()
// would after parsing it as a double: shortest round-trip digits, plain
// notation for magnitudes in [1e-6, 1e21), exponent notation otherwise.
func FormatNumber(lit string) string {
	f, err := strconv.ParseFloat(lit, 64)
	if err != nil && !math.IsInf(f, 0) {
		return lit
	}
	switch {
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	case f == 0:
		return "0"
	}

	abs := math.Abs(f)
	if abs >= 1e-6 && abs < 1e21 {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}

	s := strconv.FormatFloat(f, 'e', -1, 64)
	mantissa, exp, _ := strings.Cut(s, "e")
	sign := exp[:1]
	digits := strings.TrimLeft(exp[1:], "0")
	if digits == "" {
		digits = "0"
	}
	return mantissa + "e" + sign + digits
}

// AmbiguousPaths lists the paths of object members whose key cannot be
// addressed by a path query, in graph order.
func AmbiguousPaths(g graph.Graph) []string {
	data := make(map[string]graph.NodeData, len(g.Nodes))
	for _, n := range g.Nodes {
		data[n.ID] = n.Data
	}

	var out []string
	for _, e := range g.Edges {
		if data[e.Source].Kind != graph.KindObject {
			continue
		}
		if !jsonpath.IsPlainField(data[e.Target].Key) {
			out = append(out, e.Target)
		}
	}
	return out
}
