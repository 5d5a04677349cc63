package styles

import (
	"bytes"
	"encoding/xml"
	"unicode/utf8"
)

// Node text metrics.
const (
	FontFamily    = "Inter, system-ui, Segoe UI, Arial, sans-serif"
	FontSize      = 12.0
	NodePadding   = 8.0
	NodeRadius    = 8.0
	fontCharWidth = 0.58
	ellipsis      = ".."
)

// MaxChars estimates how many characters of a fontSize label fit in width.
func MaxChars(width, fontSize float64) int {
	avail := width - 2*NodePadding
	n := int(avail / (fontSize * fontCharWidth))
	return max(n, 3)
}

// TruncateLabel shortens label to fit a node of the given width, marking the
// cut with "..". It counts runes so multi-byte text is never split.
func TruncateLabel(label string, width, fontSize float64) string {
	limit := MaxChars(width, fontSize)
	if utf8.RuneCountInString(label) <= limit {
		return label
	}
	runes := []rune(label)
	return string(runes[:limit-len(ellipsis)]) + ellipsis
}

// EscapeXML escapes s for use in SVG text and attribute values.
func EscapeXML(s string) string {
	var buf bytes.Buffer
	xml.EscapeText(&buf, []byte(s))
	return buf.String()
}
