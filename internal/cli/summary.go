package cli

import (
	"fmt"
	"strings"
)

type RebuildSummary struct {
	Mode       string `json:"mode"`
	Profile    string `json:"profile"`
	Command    string `json:"command"`
	RunID      string `json:"run_id,omitempty"`
	TagFile    string `json:"tag_file,omitempty"`
	TagHash    string `json:"tag_hash,omitempty"`
	DurationMS int64  `json:"duration_ms,omitempty"`
	Error      string `json:"error,omitempty"`
}

type DoctorSummary struct {
	Mode        string          `json:"mode"`
	Profile     string          `json:"profile"`
	Indexer     string          `json:"indexer"`
	IndexerPath string          `json:"indexer_path,omitempty"`
	TagFile     string          `json:"tag_file"`
	TagEntries  int             `json:"tag_entries"`
	TagFresh    bool            `json:"tag_fresh"`
	Projects    int             `json:"projects"`
	Folders     map[string]bool `json:"folders,omitempty"`
	History     int             `json:"history"`
	Healthy     bool            `json:"healthy"`
	Missing     []string        `json:"missing,omitempty"`
	Suggestions []string        `json:"suggestions,omitempty"`
}

type StatusSummary struct {
	Mode        string `json:"mode"`
	Profile     string `json:"profile"`
	TagFile     string `json:"tag_file"`
	TagExists   bool   `json:"tag_exists"`
	Projects    int    `json:"projects"`
	History     int    `json:"history"`
	Position    int    `json:"position"`
	Active      string `json:"active,omitempty"`
	LastRebuild string `json:"last_rebuild,omitempty"`
}

func SummarizePaths(paths []string, limit int) string {
	if len(paths) == 0 {
		return "-"
	}
	if limit <= 0 || len(paths) <= limit {
		return strings.Join(paths, ", ")
	}
	return fmt.Sprintf("%s, ... (+%d)", strings.Join(paths[:limit], ", "), len(paths)-limit)
}
