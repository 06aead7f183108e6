package fileutil

import (
	"bytes"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestWriteIfChangedTracked(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.json")

	changed, err := WriteIfChangedTracked(path, []byte("a"))
	if err != nil || !changed {
		t.Fatalf("expected first write to change the file, got %v (%v)", changed, err)
	}
	changed, err = WriteIfChangedTracked(path, []byte("a"))
	if err != nil || changed {
		t.Fatalf("expected identical write to be skipped, got %v (%v)", changed, err)
	}
}

func TestWriteIfMissing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "file")
	created, err := WriteIfMissing(path, []byte("first"), 0644)
	if err != nil || !created {
		t.Fatalf("expected create, got %v (%v)", created, err)
	}
	created, err = WriteIfMissing(path, []byte("second"), 0644)
	if err != nil || created {
		t.Fatalf("expected existing file to be kept, got %v (%v)", created, err)
	}
	data, _ := os.ReadFile(path)
	if string(data) != "first" {
		t.Fatalf("expected original content, got %q", data)
	}
}

func TestHashFileStable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tags")
	if err := os.WriteFile(path, []byte("main\tmain.c\t1\n"), 0644); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	first, err := HashFile(path)
	if err != nil || len(first) != 16 {
		t.Fatalf("expected 16 char hash, got %q (%v)", first, err)
	}
	second, _ := HashFile(path)
	if first != second {
		t.Fatalf("expected stable hash, got %q and %q", first, second)
	}
}

func TestDedupeAndPrint(t *testing.T) {
	if got := DedupeStrings([]string{"b", "a", "b"}); !reflect.DeepEqual(got, []string{"b", "a"}) {
		t.Fatalf("unexpected dedupe result %v", got)
	}
	var buf bytes.Buffer
	if err := PrintJSON(&buf, map[string]int{"n": 1}); err != nil {
		t.Fatalf("PrintJSON failed: %v", err)
	}
	if buf.String() != "{\n  \"n\": 1\n}\n" {
		t.Fatalf("unexpected JSON %q", buf.String())
	}
}
