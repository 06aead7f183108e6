// Package workspace is the filesystem-backed editor used by the CLI.
package workspace

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/morozRed/tagjump/internal/history"
)

// FileEditor treats a location as open when its file exists. Relative tag
// paths are resolved against Base, the folder the indexer ran in.
type FileEditor struct {
	Base string

	active    history.Node
	hasActive bool
}

func NewFileEditor(base string) *FileEditor {
	return &FileEditor{Base: base}
}

func (e *FileEditor) SetActive(node history.Node) {
	node.FilePath = e.absolute(node.FilePath)
	e.active = node
	e.hasActive = true
}

func (e *FileEditor) ActiveDocument() (history.Node, bool) {
	return e.active, e.hasActive
}

// SelectDocument focuses path when it is a regular file.
func (e *FileEditor) SelectDocument(path string, line int) bool {
	resolved := e.ResolvePath(path)
	info, err := os.Stat(resolved)
	if err != nil || !info.Mode().IsRegular() {
		return false
	}
	e.active = history.Node{FilePath: resolved, LineNumber: line}
	e.hasActive = true
	return true
}

func (e *FileEditor) ResolvePath(path string) string {
	if path == "" {
		return path
	}
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	return filepath.Join(e.Base, path)
}

func (e *FileEditor) absolute(path string) string {
	if path == "" || filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return path
}

// Location is a file position given on the command line.
type Location struct {
	Path   string
	Line   int
	Column int
}

func (l Location) Node() history.Node {
	return history.Node{FilePath: l.Path, LineNumber: l.Line}
}

// ParseLocation accepts "path", "path:line" or "path:line:col". The path
// is made absolute.
func ParseLocation(value string) (Location, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return Location{}, fmt.Errorf("empty location")
	}

	loc := Location{Path: value}
	nums := make([]int, 0, 2)
	rest := value
	for len(nums) < 2 {
		idx := strings.LastIndex(rest, ":")
		if idx <= 0 {
			break
		}
		n, err := strconv.Atoi(rest[idx+1:])
		if err != nil || n < 0 {
			break
		}
		nums = append([]int{n}, nums...)
		rest = rest[:idx]
	}
	loc.Path = rest
	switch len(nums) {
	case 1:
		loc.Line = nums[0]
	case 2:
		loc.Line, loc.Column = nums[0], nums[1]
	}

	abs, err := filepath.Abs(loc.Path)
	if err != nil {
		return Location{}, fmt.Errorf("failed to resolve %s: %w", loc.Path, err)
	}
	loc.Path = abs
	return loc, nil
}
