package cli

import (
	"strings"
	"testing"
)

func TestExplainQuery(t *testing.T) {
	got, err := explainQuery("user.scores[1].grade")
	if err != nil {
		t.Fatalf("explainQuery() error: %v", err)
	}

	for _, want := range []string{
		`step 1   field "user"`,
		`step 2   field "scores"`,
		"step 3   index 1",
		`step 4   field "grade"`,
		"path     $.user.scores[1].grade",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("explainQuery() missing %q in:\n%s", want, got)
		}
	}
}

func TestExplainQueryRoot(t *testing.T) {
	got, err := explainQuery("$")
	if err != nil {
		t.Fatalf("explainQuery($) error: %v", err)
	}
	if !strings.Contains(got, "root     $") {
		t.Errorf("explainQuery($) = %q, want a root line", got)
	}
}

func TestExplainQuerySyntaxError(t *testing.T) {
	got, err := explainQuery("items[x]")
	if err == nil {
		t.Fatal("explainQuery(items[x]) should fail")
	}
	lines := strings.Split(strings.TrimRight(got, "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2:\n%s", len(lines), got)
	}
	if !strings.Contains(lines[0], "items[x]") {
		t.Errorf("first line = %q, want the query", lines[0])
	}
	if !strings.Contains(lines[1], "^") {
		t.Errorf("second line = %q, want a caret", lines[1])
	}
}
