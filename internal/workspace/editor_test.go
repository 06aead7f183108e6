package workspace

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/morozRed/tagjump/internal/history"
)

func TestSelectDocumentResolvesAgainstBase(t *testing.T) {
	base := t.TempDir()
	src := filepath.Join(base, "src")
	if err := os.MkdirAll(src, 0755); err != nil {
		t.Fatalf("mkdir failed: %v", err)
	}
	if err := os.WriteFile(filepath.Join(src, "main.c"), []byte("int main;\n"), 0644); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	e := NewFileEditor(base)
	if _, ok := e.ActiveDocument(); ok {
		t.Fatalf("expected no active document initially")
	}
	if !e.SelectDocument("src/main.c", 3) {
		t.Fatalf("expected relative path to resolve")
	}
	got, ok := e.ActiveDocument()
	want := history.Node{FilePath: filepath.Join(src, "main.c"), LineNumber: 3}
	if !ok || got != want {
		t.Fatalf("expected %v, got %v", want, got)
	}

	if e.SelectDocument("src/missing.c", 1) {
		t.Fatalf("expected missing file not to resolve")
	}
	if e.SelectDocument("src", 1) {
		t.Fatalf("expected a directory not to resolve")
	}
	if active, _ := e.ActiveDocument(); active != want {
		t.Fatalf("expected failed selects to keep the active document, got %v", active)
	}
}

func TestParseLocation(t *testing.T) {
	cases := []struct {
		input string
		path  string
		line  int
		col   int
	}{
		{input: "/src/main.c:12:4", path: "/src/main.c", line: 12, col: 4},
		{input: "/src/main.c:12", path: "/src/main.c", line: 12},
		{input: "/src/main.c", path: "/src/main.c"},
		{input: "/src/odd:name.c:7", path: "/src/odd:name.c", line: 7},
	}
	for _, tc := range cases {
		got, err := ParseLocation(tc.input)
		if err != nil {
			t.Fatalf("ParseLocation(%q) failed: %v", tc.input, err)
		}
		if got.Path != tc.path || got.Line != tc.line || got.Column != tc.col {
			t.Fatalf("ParseLocation(%q) = %+v", tc.input, got)
		}
	}

	if _, err := ParseLocation("  "); err == nil {
		t.Fatalf("expected error for empty location")
	}
}
