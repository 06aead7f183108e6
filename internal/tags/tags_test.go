package tags

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"
)

const sampleTags = "!_TAG_FILE_FORMAT\t2\t/extended format/\n" +
	"!_TAG_FILE_SORTED\t1\t/0=unsorted, 1=sorted/\n" +
	"find_tags\tsrc/ctags-engine.c\t/^find_tags (CodeSlayer *codeslayer,$/;\"\tf\tline:312\n" +
	"find_tags\tsrc/ctags-engine.h\t/^static GList *find_tags$/;\"\tp\tline:42\n" +
	"find_tag_action\tsrc/ctags-engine.c\t/^find_tag_action (CodeSlayer *codeslayer)$/;\"\tkind:function\tline:350\n" +
	"Find_Tags\tsrc/upper.c\t17;\"\tf\n" +
	"MAIN\tsrc/ctags-engine.c\t33\n"

func writeTags(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, DefaultTagFile)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write tags: %v", err)
	}
	return path
}

func TestParseLine(t *testing.T) {
	cases := []struct {
		line string
		want Candidate
		ok   bool
	}{
		{
			line: "find_tags\tsrc/a.c\t/^find_tags ()$/;\"\tf\tline:12",
			want: Candidate{Name: "find_tags", FilePath: "src/a.c", LineNumber: 12, Kind: "f"},
			ok:   true,
		},
		{
			line: "MAIN\tsrc/a.c\t33",
			want: Candidate{Name: "MAIN", FilePath: "src/a.c", LineNumber: 33},
			ok:   true,
		},
		{
			line: "pattern_only\tsrc/a.c\t/^int x;$/;\"\tv",
			want: Candidate{Name: "pattern_only", FilePath: "src/a.c", Kind: "v"},
			ok:   true,
		},
		{line: "!_TAG_PROGRAM_NAME\tUniversal Ctags\t//", ok: false},
		{line: "", ok: false},
		{line: "broken\tonly-two", ok: false},
	}

	for _, tc := range cases {
		got, ok := ParseLine(tc.line)
		if ok != tc.ok {
			t.Fatalf("ParseLine(%q): expected ok=%v, got %v", tc.line, tc.ok, ok)
		}
		if ok && got != tc.want {
			t.Fatalf("ParseLine(%q): expected %+v, got %+v", tc.line, tc.want, got)
		}
	}
}

func TestFileFindPreservesFileOrder(t *testing.T) {
	path := writeTags(t, t.TempDir(), sampleTags)
	file, err := OpenFile(path)
	if err != nil {
		t.Fatalf("OpenFile failed: %v", err)
	}
	defer file.Close()

	got, err := file.Find("find_tags", 0)
	if err != nil {
		t.Fatalf("Find failed: %v", err)
	}
	want := []Candidate{
		{Name: "find_tags", FilePath: "src/ctags-engine.c", LineNumber: 312, Kind: "f"},
		{Name: "find_tags", FilePath: "src/ctags-engine.h", LineNumber: 42, Kind: "p"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %+v, got %+v", want, got)
	}

	again, err := file.Find("find_tags", 0)
	if err != nil || len(again) != 2 {
		t.Fatalf("expected repeat lookup on the same file to rewind, got %d (%v)", len(again), err)
	}
}

func TestFileFindOptions(t *testing.T) {
	path := writeTags(t, t.TempDir(), sampleTags)
	file, err := OpenFile(path)
	if err != nil {
		t.Fatalf("OpenFile failed: %v", err)
	}
	defer file.Close()

	partial, _ := file.Find("find_tag", PartialMatch)
	if len(partial) != 3 {
		t.Fatalf("expected 3 prefix matches, got %+v", partial)
	}
	folded, _ := file.Find("find_tags", IgnoreCase)
	if len(folded) != 3 {
		t.Fatalf("expected 3 case-insensitive matches, got %+v", folded)
	}
	both, _ := file.Find("FIND_TAG", PartialMatch|IgnoreCase)
	if len(both) != 4 {
		t.Fatalf("expected 4 matches with both flags, got %+v", both)
	}
	none, _ := file.Find("", 0)
	if none != nil {
		t.Fatalf("expected empty name to match nothing, got %+v", none)
	}
}

func TestOpenFileMissing(t *testing.T) {
	if _, err := OpenFile(filepath.Join(t.TempDir(), "tags")); err == nil {
		t.Fatalf("expected an error for a missing tag file")
	}
	if _, err := OpenFile(t.TempDir()); err == nil {
		t.Fatalf("expected an error for a directory")
	}
}

func TestIndexMissingFileYieldsEmpty(t *testing.T) {
	dir := t.TempDir()
	index := NewIndex(func() string { return dir }, "", nil)

	if got := index.FindTags("find_tags", 0); got != nil {
		t.Fatalf("expected nil result without a tag file, got %+v", got)
	}
}

func TestIndexCachesUntilFileChanges(t *testing.T) {
	dir := t.TempDir()
	path := writeTags(t, dir, sampleTags)
	index := NewIndex(func() string { return dir }, DefaultTagFile, nil)

	first := index.FindTags("find_tags", 0)
	if len(first) != 2 {
		t.Fatalf("expected 2 matches, got %+v", first)
	}
	if index.CachedQueries() != 1 {
		t.Fatalf("expected one cached query, got %d", index.CachedQueries())
	}

	first[0].FilePath = "mutated"
	if again := index.FindTags("find_tags", 0); again[0].FilePath != "src/ctags-engine.c" {
		t.Fatalf("expected cached results to be copied, got %+v", again)
	}

	rewritten := "find_tags\tsrc/moved.c\t/^find_tags$/;\"\tf\tline:7\n"
	if err := os.WriteFile(path, []byte(rewritten), 0644); err != nil {
		t.Fatalf("failed to rewrite tags: %v", err)
	}
	future := time.Now().Add(time.Hour)
	if err := os.Chtimes(path, future, future); err != nil {
		t.Fatalf("failed to touch tags: %v", err)
	}

	got := index.FindTags("find_tags", 0)
	want := []Candidate{{Name: "find_tags", FilePath: "src/moved.c", LineNumber: 7, Kind: "f"}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected refreshed results %+v, got %+v", want, got)
	}
}

func TestIndexInvalidate(t *testing.T) {
	dir := t.TempDir()
	writeTags(t, dir, sampleTags)
	index := NewIndex(func() string { return dir }, DefaultTagFile, nil)

	index.FindTags("MAIN", 0)
	index.Invalidate()
	if index.CachedQueries() != 0 {
		t.Fatalf("expected cache to be empty after invalidate, got %d", index.CachedQueries())
	}
}

func TestIndexSuggest(t *testing.T) {
	dir := t.TempDir()
	writeTags(t, dir, sampleTags)
	index := NewIndex(func() string { return dir }, DefaultTagFile, nil)

	got := index.Suggest("find_tag_actoin", 3)
	if len(got) == 0 || got[0] != "find_tag_action" {
		t.Fatalf("expected find_tag_action suggestion, got %v", got)
	}
}
