package search

import "testing"

func TestSearchRanksSymbolNameMatches(t *testing.T) {
	index := Build([]Entry{
		{Name: "ParseDirectory", File: "src/parser.c"},
		{Name: "ResolveImports", File: "src/imports.c"},
		{Name: "ParseDirectory", File: "src/parser.h"},
	})
	if index.DocumentCount != 2 {
		t.Fatalf("expected duplicate names to share one document, got %d", index.DocumentCount)
	}

	results := Search(index, "parse directory", 5)
	if len(results) == 0 {
		t.Fatalf("expected results for partial query")
	}
	if results[0].ID != "ParseDirectory" {
		t.Fatalf("expected ParseDirectory to rank first, got %#v", results)
	}
}

func TestSearchTypoFallback(t *testing.T) {
	index := Build([]Entry{{Name: "tagsFindNext", File: "readtags.c"}})

	results := Search(index, "tagsfindnxt", 3)
	if len(results) == 0 {
		t.Fatalf("expected typo fallback results")
	}
	if results[0].ID != "tagsFindNext" {
		t.Fatalf("expected typo fallback to pick tagsFindNext, got %#v", results)
	}
}

func TestSearchDeterministicOrdering(t *testing.T) {
	index := &Index{
		DocumentCount: 2,
		AvgDocLength:  1,
		DocFreq:       map[string]int{"alpha": 2},
		Documents: []Document{
			{ID: "b", Length: 1, Terms: map[string]int{"alpha": 1}},
			{ID: "a", Length: 1, Terms: map[string]int{"alpha": 1}},
		},
	}

	results := Search(index, "alpha", 2)
	if len(results) != 2 {
		t.Fatalf("expected two results, got %d", len(results))
	}
	if results[0].ID != "a" || results[1].ID != "b" {
		t.Fatalf("expected stable tie-break by id, got %#v", results)
	}
}

func TestSplitWords(t *testing.T) {
	cases := map[string]string{
		"ParseDirectory":  "Parse Directory",
		"find_tag_action": "find tag action",
		"HTTPServer":      "HTTP Server",
		"main":            "main",
	}
	for input, want := range cases {
		if got := splitWords(input); got != want {
			t.Fatalf("splitWords(%q) = %q, want %q", input, got, want)
		}
	}
}
