// Package state persists the navigation session between CLI invocations.
package state

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/morozRed/tagjump/internal/fileutil"
	"github.com/morozRed/tagjump/internal/history"
)

const (
	StateFile           = "navigation.json"
	CurrentStateVersion = "2"
)

// RebuildRecord describes the most recent indexer run.
type RebuildRecord struct {
	RunID   string    `json:"run_id"`
	Command string    `json:"command"`
	At      time.Time `json:"at"`
	Error   string    `json:"error,omitempty"`
	TagHash string    `json:"tag_hash,omitempty"`
}

type State struct {
	Version   string         `json:"version"`
	UpdatedAt time.Time      `json:"updated_at"`
	Entries   []history.Node `json:"entries"`
	Position  int            `json:"position"`
	// Active is the location the CLI last navigated to.
	Active      *history.Node  `json:"active,omitempty"`
	LastRebuild *RebuildRecord `json:"last_rebuild,omitempty"`

	// Current and Jumps are the version 1 layout.
	Current *int           `json:"current,omitempty"`
	Jumps   []history.Node `json:"jumps,omitempty"`
}

func NewState() *State {
	return &State{
		Version: CurrentStateVersion,
		Entries: []history.Node{},
	}
}

func Path(profile string) string {
	return filepath.Join(profile, StateFile)
}

// Load reads the session. A missing file is an empty session.
func Load(profile string) (*State, error) {
	data, err := os.ReadFile(Path(profile))
	if err != nil {
		if os.IsNotExist(err) {
			return NewState(), nil
		}
		return nil, fmt.Errorf("failed to read navigation state: %w", err)
	}

	var s State
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to decode navigation state: %w", err)
	}
	migrateState(&s)
	return &s, nil
}

func (s *State) Save(profile string) error {
	if s.Version == "" {
		s.Version = CurrentStateVersion
	}
	if s.Entries == nil {
		s.Entries = []history.Node{}
	}
	s.UpdatedAt = time.Now().UTC()

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode navigation state: %w", err)
	}
	if err := os.MkdirAll(profile, 0755); err != nil {
		return fmt.Errorf("failed to create profile directory: %w", err)
	}
	return fileutil.WriteIfChanged(Path(profile), fileutil.EnsureTrailingNewline(data))
}

// History rebuilds the navigation history capped at maxSize.
func (s *State) History(maxSize int) *history.History {
	return history.Restore(maxSize, s.Entries, s.Position)
}

// SetHistory stores a history snapshot.
func (s *State) SetHistory(entries []history.Node, position int) {
	s.Entries = append([]history.Node{}, entries...)
	s.Position = position
}

func (s *State) SetActive(node history.Node) {
	s.Active = &node
}

func (s *State) ActiveNode() (history.Node, bool) {
	if s.Active == nil || s.Active.FilePath == "" {
		return history.Node{}, false
	}
	return *s.Active, true
}

func migrateState(s *State) {
	switch s.Version {
	case "", "1":
		if len(s.Entries) == 0 && len(s.Jumps) > 0 {
			s.Entries = s.Jumps
		}
		if s.Current != nil {
			s.Position = *s.Current
		}
		s.Jumps = nil
		s.Current = nil
		s.Version = CurrentStateVersion
	case CurrentStateVersion:
		// no-op
	default:
		// Keep unknown versions untouched but ensure entries are initialized.
	}
	if s.Entries == nil {
		s.Entries = []history.Node{}
	}
	if s.Position < 0 || s.Position >= len(s.Entries) {
		s.Position = max(0, len(s.Entries)-1)
	}
}
