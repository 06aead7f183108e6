package identifier

import (
	"context"
	"fmt"
	"os"
	"unicode"
	"unicode/utf8"

	sitter "github.com/smacker/go-tree-sitter"
)

// At returns the identifier at line and col (both 1-based, col 0 meaning
// the start of the line) in path. Files without a grammar, or positions the
// grammar does not name, fall back to a word scan of the line.
func (r *Registry) At(ctx context.Context, path string, line, col int) (string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	if line <= 0 {
		return "", fmt.Errorf("line must be positive, got %d", line)
	}

	if lang, ok := r.ForFile(path); ok {
		name, err := FromSource(ctx, lang, content, line, col)
		if err != nil {
			return "", err
		}
		if name != "" {
			return name, nil
		}
	}
	return WordAt(content, line, col), nil
}

// FromSource parses content and returns the named identifier node covering
// the position, or "" when the node there is not an identifier.
func FromSource(ctx context.Context, lang *Language, content []byte, line, col int) (string, error) {
	p := sitter.NewParser()
	p.SetLanguage(lang.Grammar)
	tree, err := p.ParseCtx(ctx, nil, content)
	if err != nil {
		return "", fmt.Errorf("failed to parse %s source: %w", lang.Name, err)
	}
	defer tree.Close()

	point := sitter.Point{Row: uint32(line - 1), Column: uint32(max(col-1, 0))}
	node := tree.RootNode().NamedDescendantForPointRange(point, point)
	if node == nil || !lang.Identifiers[node.Type()] {
		return "", nil
	}
	return node.Content(content), nil
}

// WordAt returns the identifier-like word at the position. A cursor just
// past the end of a word still selects it.
func WordAt(content []byte, line, col int) string {
	text, ok := lineAt(content, line)
	if !ok {
		return ""
	}

	pos := max(col-1, 0)
	if pos > len(text) {
		pos = len(text)
	}
	if col <= 0 {
		for pos < len(text) {
			r, size := utf8.DecodeRune(text[pos:])
			if isWordRune(r) {
				break
			}
			pos += size
		}
	}

	start := pos
	for start > 0 {
		r, size := utf8.DecodeLastRune(text[:start])
		if !isWordRune(r) {
			break
		}
		start -= size
	}
	end := pos
	for end < len(text) {
		r, size := utf8.DecodeRune(text[end:])
		if !isWordRune(r) {
			break
		}
		end += size
	}
	return string(text[start:end])
}

func lineAt(content []byte, line int) ([]byte, bool) {
	current := 1
	start := 0
	for i, b := range content {
		if b != '\n' {
			continue
		}
		if current == line {
			return trimCR(content[start:i]), true
		}
		current++
		start = i + 1
	}
	if current == line && start <= len(content) {
		return trimCR(content[start:]), true
	}
	return nil, false
}

func trimCR(b []byte) []byte {
	if len(b) > 0 && b[len(b)-1] == '\r' {
		return b[:len(b)-1]
	}
	return b
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}
