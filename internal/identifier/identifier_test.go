package identifier

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func writeSource(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}

func TestAtGoCallSite(t *testing.T) {
	path := writeSource(t, "main.go", `package main

func main() {
	findTags("x")
	cfg.Reload()
}
`)
	r := NewDefaultRegistry()

	got, err := r.At(context.Background(), path, 4, 4)
	if err != nil {
		t.Fatalf("At failed: %v", err)
	}
	if got != "findTags" {
		t.Fatalf("expected findTags, got %q", got)
	}

	got, err = r.At(context.Background(), path, 5, 7)
	if err != nil {
		t.Fatalf("At failed: %v", err)
	}
	if got != "Reload" {
		t.Fatalf("expected field identifier Reload, got %q", got)
	}
}

func TestAtCDeclaration(t *testing.T) {
	path := writeSource(t, "engine.c", "static int find_tags (void);\n")
	r := NewDefaultRegistry()

	got, err := r.At(context.Background(), path, 1, 14)
	if err != nil {
		t.Fatalf("At failed: %v", err)
	}
	if got != "find_tags" {
		t.Fatalf("expected find_tags, got %q", got)
	}
}

func TestAtUnsupportedExtensionUsesWordScan(t *testing.T) {
	path := writeSource(t, "notes.txt", "call tagsFindNext here\n")
	got, err := NewDefaultRegistry().At(context.Background(), path, 1, 10)
	if err != nil {
		t.Fatalf("At failed: %v", err)
	}
	if got != "tagsFindNext" {
		t.Fatalf("expected tagsFindNext, got %q", got)
	}
}

func TestAtErrors(t *testing.T) {
	r := NewDefaultRegistry()
	if _, err := r.At(context.Background(), filepath.Join(t.TempDir(), "missing.go"), 1, 1); err == nil {
		t.Fatalf("expected error for a missing file")
	}
	path := writeSource(t, "a.go", "package a\n")
	if _, err := r.At(context.Background(), path, 0, 1); err == nil {
		t.Fatalf("expected error for line 0")
	}
}

func TestWordAt(t *testing.T) {
	content := []byte("first line\n  foo_bar(baz);\r\nlast")
	cases := []struct {
		line int
		col  int
		want string
	}{
		{line: 2, col: 5, want: "foo_bar"},
		{line: 2, col: 10, want: "foo_bar"},
		{line: 2, col: 0, want: "foo_bar"},
		{line: 2, col: 11, want: "baz"},
		{line: 2, col: 2, want: ""},
		{line: 3, col: 2, want: "last"},
		{line: 9, col: 1, want: ""},
	}
	for _, tc := range cases {
		if got := WordAt(content, tc.line, tc.col); got != tc.want {
			t.Fatalf("WordAt(%d, %d) = %q, want %q", tc.line, tc.col, got, tc.want)
		}
	}
}

func TestForFile(t *testing.T) {
	r := NewDefaultRegistry()
	for file, want := range map[string]string{"a.go": "go", "b.PY": "python", "c.h": "c", "d.tsx": ""} {
		lang, ok := r.ForFile(file)
		if want == "" {
			if ok {
				t.Fatalf("expected no language for %s, got %s", file, lang.Name)
			}
			continue
		}
		if !ok || lang.Name != want {
			t.Fatalf("expected %s for %s, got %v", want, file, lang)
		}
	}
}
