package tags

import (
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"github.com/morozRed/tagjump/internal/logging"
	"github.com/morozRed/tagjump/internal/search"
	"github.com/patrickmn/go-cache"
)

const DefaultTagFile = "tags"

// FolderFunc resolves the folder holding the tag file for the active profile.
type FolderFunc func() string

type stamp struct {
	modTime time.Time
	size    int64
}

// Index answers lookups against <folder>/<tag file>. Results are cached per
// query until the tag file changes on disk or Invalidate is called.
type Index struct {
	folder  FolderFunc
	tagFile string
	logger  *slog.Logger
	results *cache.Cache

	mu    sync.Mutex
	stamp stamp
}

func NewIndex(folder FolderFunc, tagFile string, logger *slog.Logger) *Index {
	if tagFile == "" {
		tagFile = DefaultTagFile
	}
	if logger == nil {
		logger = logging.NewDiscardLogger()
	}
	return &Index{
		folder:  folder,
		tagFile: tagFile,
		logger:  logger,
		results: cache.New(cache.NoExpiration, 10*time.Minute),
	}
}

func (x *Index) Path() string {
	return filepath.Join(x.folder(), x.tagFile)
}

// FindTags returns every candidate for name. A missing or unreadable index
// yields nil and a warning; it is never fatal.
func (x *Index) FindTags(name string, options Options) []Candidate {
	if name == "" {
		return nil
	}
	path := x.Path()
	if !x.refresh(path) {
		return nil
	}

	key := strconv.Itoa(int(options)) + "\x00" + name
	if cached, ok := x.results.Get(key); ok {
		return append([]Candidate(nil), cached.([]Candidate)...)
	}

	file, err := OpenFile(path)
	if err != nil {
		x.logger.Warn("could not open the tags file", "path", path, "error", err)
		return nil
	}
	defer file.Close()

	found, err := file.Find(name, options)
	if err != nil {
		x.logger.Warn("could not read the tags file", "path", path, "error", err)
		return nil
	}
	x.results.Set(key, found, cache.DefaultExpiration)
	x.logger.Debug("tag lookup", "name", name, "matches", len(found))
	return append([]Candidate(nil), found...)
}

// Suggest returns tag names close to name, best first.
func (x *Index) Suggest(name string, limit int) []string {
	path := x.Path()
	file, err := OpenFile(path)
	if err != nil {
		x.logger.Warn("could not open the tags file", "path", path, "error", err)
		return nil
	}
	defer file.Close()

	entries, err := file.Entries()
	if err != nil {
		x.logger.Warn("could not read the tags file", "path", path, "error", err)
		return nil
	}
	docs := make([]search.Entry, 0, len(entries))
	for _, entry := range entries {
		docs = append(docs, search.Entry{Name: entry.Name, File: entry.FilePath})
	}
	results := search.Search(search.Build(docs), name, limit)
	out := make([]string, 0, len(results))
	for _, result := range results {
		out = append(out, result.ID)
	}
	return out
}

// Invalidate drops cached results, e.g. after the index was regenerated.
func (x *Index) Invalidate() {
	x.mu.Lock()
	defer x.mu.Unlock()
	x.results.Flush()
	x.stamp = stamp{}
}

// CachedQueries reports how many lookups are currently cached.
func (x *Index) CachedQueries() int {
	return x.results.ItemCount()
}

func (x *Index) refresh(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		x.logger.Warn("could not open the tags file", "path", path, "error", err)
		x.Invalidate()
		return false
	}

	current := stamp{modTime: info.ModTime(), size: info.Size()}
	x.mu.Lock()
	defer x.mu.Unlock()
	if current != x.stamp {
		x.results.Flush()
		x.stamp = current
	}
	return true
}
