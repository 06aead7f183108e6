// Package project stores the per-project source folders fed to the indexer.
//
// Each project owns <root>/projects/<key>/ctags.conf:
//
//	[main]
//	source_folder = "/src/app"
//	folder = "/src"
//
// source_folder may also be a list of folders.
package project

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
)

const (
	ProjectsDir = "projects"
	ConfigFile  = "ctags.conf"
)

var ErrInvalidKey = errors.New("invalid project key")

// Config is the indexing configuration of one project.
type Config struct {
	ProjectKey    string   `json:"project_key"`
	Folder        string   `json:"folder,omitempty"`
	SourceFolders []string `json:"source_folders"`
}

// SourceFolders decodes either a single string or a list of strings. A
// single string is split on whitespace, which is how it reaches the indexer
// command line.
type SourceFolders []string

func (s *SourceFolders) UnmarshalTOML(value any) error {
	switch v := value.(type) {
	case string:
		*s = strings.Fields(v)
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			str, ok := item.(string)
			if !ok {
				return fmt.Errorf("source_folder entries must be strings, got %T", item)
			}
			if str = strings.TrimSpace(str); str != "" {
				out = append(out, str)
			}
		}
		*s = out
	default:
		return fmt.Errorf("source_folder must be a string or list, got %T", value)
	}
	return nil
}

type configFile struct {
	Main struct {
		SourceFolder SourceFolders `toml:"source_folder"`
		Folder       string        `toml:"folder"`
	} `toml:"main"`
}

// Store reads and writes project configs under Root.
type Store struct {
	Root string
}

func NewStore(root string) *Store {
	return &Store{Root: root}
}

func (s *Store) ConfigPath(key string) string {
	return filepath.Join(s.Root, ProjectsDir, key, ConfigFile)
}

// List returns every configured project sorted by key.
func (s *Store) List() ([]Config, error) {
	dir := filepath.Join(s.Root, ProjectsDir)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}

	configs := make([]Config, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		cfg, ok, err := s.Get(entry.Name())
		if err != nil {
			return nil, err
		}
		if ok {
			configs = append(configs, *cfg)
		}
	}
	sort.Slice(configs, func(i, j int) bool {
		return configs[i].ProjectKey < configs[j].ProjectKey
	})
	return configs, nil
}

// Get loads a project config. A project without a config file is reported
// as absent, not as an error.
func (s *Store) Get(key string) (*Config, bool, error) {
	if err := validateKey(key); err != nil {
		return nil, false, err
	}
	path := s.ConfigPath(key)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to read %s: %w", path, err)
	}

	var file configFile
	if _, err := toml.Decode(string(data), &file); err != nil {
		return nil, false, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return &Config{
		ProjectKey:    key,
		Folder:        file.Main.Folder,
		SourceFolders: []string(file.Main.SourceFolder),
	}, true, nil
}

func (s *Store) Save(cfg Config) error {
	if err := validateKey(cfg.ProjectKey); err != nil {
		return err
	}
	path := s.ConfigPath(cfg.ProjectKey)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create project directory: %w", err)
	}

	main := map[string]any{}
	// A lone string is split on whitespace when read back.
	if len(cfg.SourceFolders) == 1 && !strings.ContainsAny(cfg.SourceFolders[0], " \t\n") {
		main["source_folder"] = cfg.SourceFolders[0]
	} else {
		main["source_folder"] = append([]string{}, cfg.SourceFolders...)
	}
	if cfg.Folder != "" {
		main["folder"] = cfg.Folder
	}

	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(map[string]any{"main": main}); err != nil {
		return fmt.Errorf("failed to encode project config: %w", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

func (s *Store) Remove(key string) error {
	if err := validateKey(key); err != nil {
		return err
	}
	if err := os.RemoveAll(filepath.Join(s.Root, ProjectsDir, key)); err != nil {
		return fmt.Errorf("failed to remove project %s: %w", key, err)
	}
	return nil
}

// ApplyEdit stores the source folder text entered for a project. Input is
// split on whitespace; an unchanged value is not saved, and an empty value
// never creates a new config. It reports whether anything was written.
func (s *Store) ApplyEdit(key, entered string) (bool, error) {
	return s.SetSourceFolders(key, strings.Fields(entered), "")
}

// SetSourceFolders is ApplyEdit for an explicit folder list. A non-empty
// root also replaces the project folder.
func (s *Store) SetSourceFolders(key string, folders []string, root string) (bool, error) {
	existing, ok, err := s.Get(key)
	if err != nil {
		return false, err
	}

	if ok {
		sameRoot := root == "" || root == existing.Folder
		if sameRoot && equalFolders(existing.SourceFolders, folders) {
			return false, nil
		}
		existing.SourceFolders = append([]string{}, folders...)
		if root != "" {
			existing.Folder = root
		}
		return true, s.Save(*existing)
	}

	if len(folders) == 0 {
		return false, nil
	}
	return true, s.Save(Config{ProjectKey: key, Folder: root, SourceFolders: append([]string{}, folders...)})
}

func equalFolders(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// SourceDirectories flattens the folders of every project, in order.
func SourceDirectories(configs []Config) []string {
	var dirs []string
	for _, cfg := range configs {
		dirs = append(dirs, cfg.SourceFolders...)
	}
	return dirs
}

func validateKey(key string) error {
	if key == "" || key == "." || key == ".." || strings.ContainsAny(key, `/\`) {
		return fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	return nil
}
