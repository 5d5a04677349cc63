package styles

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/matzehuels/jsontree/pkg/graph"
)

func TestByName(t *testing.T) {
	tests := []struct {
		name   string
		want   string
		wantOK bool
	}{
		{"", graph.ThemeLight, true},
		{"light", graph.ThemeLight, true},
		{"dark", graph.ThemeDark, true},
		{"neon", "", false},
	}
	for _, tt := range tests {
		p, ok := ByName(tt.name)
		if ok != tt.wantOK || p.Name != tt.want {
			t.Errorf("ByName(%q) = %q, %v, want %q, %v", tt.name, p.Name, ok, tt.want, tt.wantOK)
		}
	}
}

func TestPaletteKind(t *testing.T) {
	if got := Light.Kind(graph.KindObject).Border; got != "#6C63FF" {
		t.Errorf("object border = %s", got)
	}
	if got := Light.Kind(graph.KindArray).Fill; got != "#E8F9EE" {
		t.Errorf("array fill = %s", got)
	}
	if got := Light.Kind("mystery"); got != Light.Primitive {
		t.Errorf("unknown kind = %v, want primitive colours", got)
	}
}

func TestToggle(t *testing.T) {
	if Toggle(Light).Name != graph.ThemeDark || Toggle(Dark).Name != graph.ThemeLight {
		t.Error("Toggle should switch between light and dark")
	}
}

func TestNames(t *testing.T) {
	if got := strings.Join(Names(), ","); got != "dark,light" {
		t.Errorf("Names() = %s", got)
	}
}

func TestTruncateLabel(t *testing.T) {
	short := "id: 1"
	if got := TruncateLabel(short, 150, FontSize); got != short {
		t.Errorf("TruncateLabel(%q) = %q", short, got)
	}

	long := strings.Repeat("x", 100)
	got := TruncateLabel(long, 150, FontSize)
	if !strings.HasSuffix(got, "..") || len(got) != MaxChars(150, FontSize) {
		t.Errorf("TruncateLabel(long) = %q (%d chars)", got, len(got))
	}

	wide := strings.Repeat("ü", 100)
	got = TruncateLabel(wide, 150, FontSize)
	if !utf8.ValidString(got) || utf8.RuneCountInString(got) != MaxChars(150, FontSize) {
		t.Errorf("TruncateLabel(wide) = %q", got)
	}
}

func TestEscapeXML(t *testing.T) {
	if got := EscapeXML(`a <b> & "c"`); got != "a &lt;b&gt; &amp; &#34;c&#34;" {
		t.Errorf("EscapeXML = %s", got)
	}
}
