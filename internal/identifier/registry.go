// Package identifier finds the symbol name under a cursor position so the
// CLI can look it up without the caller passing a selection.
package identifier

import (
	"path/filepath"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/c"
	"github.com/smacker/go-tree-sitter/golang"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/python"
	"github.com/smacker/go-tree-sitter/ruby"
	"github.com/smacker/go-tree-sitter/typescript/typescript"
)

// Language is a grammar plus the node types that name a symbol in it.
type Language struct {
	Name        string
	Extensions  []string
	Grammar     *sitter.Language
	Identifiers map[string]bool
}

// Registry maps file extensions to languages.
type Registry struct {
	languages map[string]*Language
	extToLang map[string]string
}

func NewRegistry() *Registry {
	return &Registry{
		languages: make(map[string]*Language),
		extToLang: make(map[string]string),
	}
}

func (r *Registry) Register(lang *Language) {
	r.languages[lang.Name] = lang
	for _, ext := range lang.Extensions {
		r.extToLang[ext] = lang.Name
	}
}

// ForFile returns the language for filename's extension.
func (r *Registry) ForFile(filename string) (*Language, bool) {
	name, ok := r.extToLang[strings.ToLower(filepath.Ext(filename))]
	if !ok {
		return nil, false
	}
	lang, ok := r.languages[name]
	return lang, ok
}

func (r *Registry) Languages() []string {
	out := make([]string, 0, len(r.languages))
	for name := range r.languages {
		out = append(out, name)
	}
	return out
}

func set(types ...string) map[string]bool {
	out := make(map[string]bool, len(types))
	for _, t := range types {
		out[t] = true
	}
	return out
}

// NewDefaultRegistry registers every bundled grammar.
func NewDefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(&Language{
		Name:        "go",
		Extensions:  []string{".go"},
		Grammar:     golang.GetLanguage(),
		Identifiers: set("identifier", "field_identifier", "type_identifier", "package_identifier"),
	})
	r.Register(&Language{
		Name:        "python",
		Extensions:  []string{".py"},
		Grammar:     python.GetLanguage(),
		Identifiers: set("identifier"),
	})
	r.Register(&Language{
		Name:        "ruby",
		Extensions:  []string{".rb"},
		Grammar:     ruby.GetLanguage(),
		Identifiers: set("identifier", "constant"),
	})
	r.Register(&Language{
		Name:        "javascript",
		Extensions:  []string{".js", ".jsx", ".mjs", ".cjs"},
		Grammar:     javascript.GetLanguage(),
		Identifiers: set("identifier", "property_identifier", "shorthand_property_identifier"),
	})
	r.Register(&Language{
		Name:        "typescript",
		Extensions:  []string{".ts", ".mts", ".cts"},
		Grammar:     typescript.GetLanguage(),
		Identifiers: set("identifier", "property_identifier", "shorthand_property_identifier", "type_identifier"),
	})
	r.Register(&Language{
		Name:        "c",
		Extensions:  []string{".c", ".h"},
		Grammar:     c.GetLanguage(),
		Identifiers: set("identifier", "field_identifier", "type_identifier"),
	})
	return r
}
