// Package tags reads the tag index produced by the external indexer and
// answers symbol lookups against it.
package tags

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// Options mirror the readtags match flags.
type Options int

const (
	PartialMatch Options = 1 << iota
	IgnoreCase
)

var ErrIndexUnavailable = errors.New("tag index unavailable")

const (
	pseudoTagPrefix = "!_TAG_"
	fieldSeparator  = ";\""
	maxLineBytes    = 1024 * 1024
)

// Candidate is one match for a looked-up symbol.
type Candidate struct {
	Name       string `json:"name"`
	FilePath   string `json:"file_path"`
	LineNumber uint   `json:"line_number"`
	Kind       string `json:"kind,omitempty"`
}

// File is an open tag file in the ctags text format.
type File struct {
	path string
	f    *os.File
}

func OpenFile(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrIndexUnavailable, err)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("%w: %v", ErrIndexUnavailable, err)
	}
	if info.IsDir() {
		f.Close()
		return nil, fmt.Errorf("%w: %s is a directory", ErrIndexUnavailable, path)
	}
	return &File{path: path, f: f}, nil
}

func (t *File) Path() string {
	return t.path
}

func (t *File) Close() error {
	return t.f.Close()
}

// Find returns every entry matching name in file order.
func (t *File) Find(name string, options Options) ([]Candidate, error) {
	if name == "" {
		return nil, nil
	}
	var out []Candidate
	err := t.scan(func(c Candidate) {
		if matchName(c.Name, name, options) {
			out = append(out, c)
		}
	})
	return out, err
}

// Entries returns every tag in the file, pseudo tags excluded.
func (t *File) Entries() ([]Candidate, error) {
	var out []Candidate
	err := t.scan(func(c Candidate) {
		out = append(out, c)
	})
	return out, err
}

func (t *File) scan(fn func(Candidate)) error {
	if _, err := t.f.Seek(0, io.SeekStart); err != nil {
		return fmt.Errorf("failed to rewind tag file: %w", err)
	}
	scanner := bufio.NewScanner(t.f)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	for scanner.Scan() {
		candidate, ok := ParseLine(scanner.Text())
		if !ok {
			continue
		}
		fn(candidate)
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read tag file %s: %w", t.path, err)
	}
	return nil
}

// ParseLine decodes one "name<TAB>file<TAB>address;\"<TAB>fields" line.
func ParseLine(line string) (Candidate, bool) {
	line = strings.TrimRight(line, "\r")
	if line == "" || strings.HasPrefix(line, pseudoTagPrefix) {
		return Candidate{}, false
	}

	parts := strings.SplitN(line, "\t", 3)
	if len(parts) < 3 || parts[0] == "" || parts[1] == "" {
		return Candidate{}, false
	}

	candidate := Candidate{Name: parts[0], FilePath: parts[1]}
	address, fields := splitAddress(parts[2])

	if n, err := strconv.ParseUint(strings.TrimSpace(address), 10, 64); err == nil {
		candidate.LineNumber = uint(n)
	}
	for _, field := range fields {
		key, value, hasKey := strings.Cut(field, ":")
		switch {
		case !hasKey && len(field) > 0:
			candidate.Kind = field
		case key == "kind":
			candidate.Kind = value
		case key == "line":
			if n, err := strconv.ParseUint(value, 10, 64); err == nil {
				candidate.LineNumber = uint(n)
			}
		}
	}
	return candidate, true
}

func splitAddress(rest string) (string, []string) {
	idx := strings.LastIndex(rest, fieldSeparator)
	if idx < 0 {
		return rest, nil
	}
	address := rest[:idx]
	tail := strings.TrimPrefix(rest[idx+len(fieldSeparator):], "\t")
	if tail == "" {
		return address, nil
	}
	return address, strings.Split(tail, "\t")
}

func matchName(entry, query string, options Options) bool {
	if options&IgnoreCase != 0 {
		entry = strings.ToLower(entry)
		query = strings.ToLower(query)
	}
	if options&PartialMatch != 0 {
		return strings.HasPrefix(entry, query)
	}
	return entry == query
}
