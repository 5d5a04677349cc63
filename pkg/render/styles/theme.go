package styles

import (
	"slices"

	"github.com/matzehuels/jsontree/pkg/graph"
)

// KindColors is the fill and border of one node kind.
type KindColors struct {
	Fill   string
	Border string
}

// Palette is a complete colour theme.
type Palette struct {
	Name       string
	Background string
	Text       string
	Edge       string
	Highlight  string
	Glow       string // translucent ring around the highlighted node

	Object    KindColors
	Array     KindColors
	Primitive KindColors
}

// Kind returns the colours for a node kind. Unknown kinds use the primitive
// colours.
func (p Palette) Kind(kind string) KindColors {
	switch kind {
	case graph.KindObject:
		return p.Object
	case graph.KindArray:
		return p.Array
	default:
		return p.Primitive
	}
}

// Light is the default theme.
var Light = Palette{
	Name:       graph.ThemeLight,
	Background: "#FFFFFF",
	Text:       "#222222",
	Edge:       "#B1B1B7",
	Highlight:  "#FF3860",
	Glow:       "rgba(255,56,96,0.25)",
	Object:     KindColors{Fill: "#E8E8FF", Border: "#6C63FF"},
	Array:      KindColors{Fill: "#E8F9EE", Border: "#2FAE66"},
	Primitive:  KindColors{Fill: "#FFF4E5", Border: "#FF9800"},
}

// Dark keeps the light theme's border hues on dimmed fills.
var Dark = Palette{
	Name:       graph.ThemeDark,
	Background: "#111827",
	Text:       "#E5E7EB",
	Edge:       "#4B5563",
	Highlight:  "#FF3860",
	Glow:       "rgba(255,56,96,0.35)",
	Object:     KindColors{Fill: "#25234A", Border: "#8C85FF"},
	Array:      KindColors{Fill: "#173626", Border: "#3DCB7B"},
	Primitive:  KindColors{Fill: "#3A2A12", Border: "#FFA726"},
}

var palettes = map[string]Palette{
	graph.ThemeLight: Light,
	graph.ThemeDark:  Dark,
}

// ByName returns the palette called name. The empty name is [Light].
func ByName(name string) (Palette, bool) {
	if name == "" {
		return Light, true
	}
	p, ok := palettes[name]
	return p, ok
}

// Names lists the available theme names in sorted order.
func Names() []string {
	names := make([]string, 0, len(palettes))
	for name := range palettes {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Toggle returns the other theme.
func Toggle(p Palette) Palette {
	if p.Name == graph.ThemeDark {
		return Light
	}
	return Dark
}
