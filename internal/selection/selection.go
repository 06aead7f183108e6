// Package selection picks the single tag a "find tag" request jumps to.
package selection

import (
	"strings"

	"github.com/morozRed/tagjump/internal/tags"
)

const headerSuffix = ".h"

// Reason names the rule that picked a candidate.
type Reason string

const (
	ReasonActiveDocument Reason = "active-document"
	ReasonSource         Reason = "source"
	ReasonHeader         Reason = "header"
)

// Choose applies the tie-break in order: a candidate in the active document,
// then the first candidate outside a header, then the first candidate.
func Choose(candidates []tags.Candidate, activePath string) (tags.Candidate, Reason, bool) {
	if len(candidates) == 0 {
		return tags.Candidate{}, "", false
	}
	for _, candidate := range candidates {
		if candidate.FilePath == activePath {
			return candidate, ReasonActiveDocument, true
		}
	}
	for _, candidate := range candidates {
		if !IsHeader(candidate.FilePath) {
			return candidate, ReasonSource, true
		}
	}
	return candidates[0], ReasonHeader, true
}

func IsHeader(path string) bool {
	return strings.HasSuffix(path, headerSuffix)
}
