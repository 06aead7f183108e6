// Package history keeps the back/forward jump history shown by the
// previous/next navigation commands.
package history

import "fmt"

// DefaultMaxSize is the number of locations kept before the oldest is evicted.
const DefaultMaxSize = 25

// Node identifies a location in a file.
type Node struct {
	FilePath   string `json:"file_path"`
	LineNumber int    `json:"line_number"`
}

func (n Node) Equal(other Node) bool {
	return n.FilePath == other.FilePath && n.LineNumber == other.LineNumber
}

func (n Node) String() string {
	return fmt.Sprintf("%s:%d", n.FilePath, n.LineNumber)
}

// History is an ordered list of visited locations with a cursor. It behaves
// like browser history: recording a jump from the middle of the list drops
// everything after the cursor first.
//
// History is not safe for concurrent use; the engine serializes access.
type History struct {
	entries  []Node
	position int
	maxSize  int
}

func New(maxSize int) *History {
	if maxSize <= 0 {
		maxSize = DefaultMaxSize
	}
	return &History{maxSize: maxSize}
}

// Restore rebuilds a history from persisted entries. The position is
// clamped into range and the oldest entries are dropped to fit maxSize.
func Restore(maxSize int, entries []Node, position int) *History {
	h := New(maxSize)
	h.entries = append(h.entries, entries...)
	for len(h.entries) > h.maxSize {
		h.entries = h.entries[1:]
		position--
	}
	h.position = clamp(position, len(h.entries))
	return h
}

// Record stores a jump from one location to another.
func (h *History) Record(from, to Node) {
	if len(h.entries) == 0 {
		h.entries = append(h.entries, from)
		h.position = 0
	} else {
		h.pruneForward()
		if !h.entries[h.position].Equal(from) {
			h.entries = append(h.entries, from)
			h.position = len(h.entries) - 1
		}
	}

	h.entries = append(h.entries, to)
	h.position = len(h.entries) - 1

	for len(h.entries) > h.maxSize {
		h.entries = h.entries[1:]
		if h.position > 0 {
			h.position--
		}
	}
}

// Back moves the cursor one entry towards the start. It reports false when
// the cursor is already at the first entry.
func (h *History) Back() (Node, bool) {
	if h.position <= 0 {
		return Node{}, false
	}
	h.position--
	return h.entries[h.position], true
}

// Forward moves the cursor one entry towards the tail. It reports false when
// the cursor is already at the last entry.
func (h *History) Forward() (Node, bool) {
	if h.position >= len(h.entries)-1 {
		return Node{}, false
	}
	h.position++
	return h.entries[h.position], true
}

func (h *History) Clear() {
	h.entries = nil
	h.position = 0
}

// Current returns the entry under the cursor.
func (h *History) Current() (Node, bool) {
	if len(h.entries) == 0 {
		return Node{}, false
	}
	return h.entries[h.position], true
}

// Entries returns a copy of the recorded locations, oldest first.
func (h *History) Entries() []Node {
	return append([]Node(nil), h.entries...)
}

func (h *History) Position() int {
	return h.position
}

func (h *History) Len() int {
	return len(h.entries)
}

func (h *History) MaxSize() int {
	return h.maxSize
}

func (h *History) CanBack() bool {
	return h.position > 0
}

func (h *History) CanForward() bool {
	return h.position < len(h.entries)-1
}

func (h *History) pruneForward() {
	if h.position < len(h.entries)-1 {
		h.entries = h.entries[:h.position+1]
	}
}

func clamp(position, length int) int {
	if length == 0 || position < 0 {
		return 0
	}
	if position > length-1 {
		return length - 1
	}
	return position
}
