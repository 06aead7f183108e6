// Package engine ties tag lookup, destination selection, navigation history
// and index rebuilds together behind the handful of events an editor host
// raises.
package engine

import (
	"log/slog"
	"sort"
	"strings"
	"sync"

	"github.com/morozRed/tagjump/internal/history"
	"github.com/morozRed/tagjump/internal/logging"
	"github.com/morozRed/tagjump/internal/selection"
	"github.com/morozRed/tagjump/internal/tags"
)

// Editor is the host editor as seen by the engine.
type Editor interface {
	// ActiveDocument returns the focused location, if any.
	ActiveDocument() (history.Node, bool)
	// SelectDocument opens path at line and reports whether it resolved.
	SelectDocument(path string, line int) bool
}

// PathResolver is implemented by editors whose tag paths need rewriting
// before they can be compared with the active document.
type PathResolver interface {
	ResolvePath(path string) string
}

// Lookup finds tag candidates for a name.
type Lookup interface {
	FindTags(name string, options tags.Options) []tags.Candidate
}

// Rebuilder schedules a tag index rebuild.
type Rebuilder interface {
	Trigger() bool
	Stop()
}

// Jump is raised after every successful tag selection.
type Jump struct {
	From history.Node `json:"from"`
	To   history.Node `json:"to"`
}

// Result describes the outcome of a tag request.
type Result struct {
	Name       string           `json:"name"`
	Candidates []tags.Candidate `json:"candidates"`
	Selected   tags.Candidate   `json:"selected"`
	Reason     selection.Reason `json:"reason,omitempty"`
	Jump       *Jump            `json:"jump,omitempty"`
}

type Snapshot struct {
	Entries  []history.Node `json:"entries"`
	Position int            `json:"position"`
}

type Options struct {
	Editor    Editor
	Lookup    Lookup
	Rebuilder Rebuilder
	// History defaults to an empty history of history.DefaultMaxSize.
	History      *history.History
	MatchOptions tags.Options
	Logger       *slog.Logger
}

// Engine is owned by one host. All methods are safe for concurrent use and
// are serialized through a single lock; subscribers run outside it.
type Engine struct {
	editor       Editor
	lookup       Lookup
	rebuilder    Rebuilder
	matchOptions tags.Options
	logger       *slog.Logger

	mu          sync.Mutex
	history     *history.History
	subscribers map[int]func(Jump)
	nextSubID   int
}

func New(opts Options) *Engine {
	e := &Engine{
		editor:       opts.Editor,
		lookup:       opts.Lookup,
		rebuilder:    opts.Rebuilder,
		matchOptions: opts.MatchOptions,
		logger:       opts.Logger,
		history:      opts.History,
		subscribers:  make(map[int]func(Jump)),
	}
	if e.history == nil {
		e.history = history.New(history.DefaultMaxSize)
	}
	if e.logger == nil {
		e.logger = logging.NewDiscardLogger()
	}
	return e
}

// OnDocumentSaved asks for a debounced index rebuild.
func (e *Engine) OnDocumentSaved() {
	if e.rebuilder == nil {
		return
	}
	if e.rebuilder.Trigger() {
		e.logger.Debug("document saved, rebuild armed")
	}
}

// OnFindTagRequested looks up the selected text with the engine's default
// match options.
func (e *Engine) OnFindTagRequested(text string) (Result, bool) {
	return e.FindTag(text, e.matchOptions)
}

// FindTag jumps to the best definition of the selected text. It reports
// false when nothing was selected, nothing matched or the editor could not
// open the target; none of these are errors.
func (e *Engine) FindTag(text string, options tags.Options) (Result, bool) {
	name := strings.TrimSpace(text)
	result := Result{Name: name}
	if name == "" || e.editor == nil || e.lookup == nil {
		return result, false
	}

	e.mu.Lock()
	jump, ok := e.findTagLocked(&result, options)
	subscribers := e.subscriberList()
	e.mu.Unlock()

	if !ok {
		return result, false
	}
	for _, fn := range subscribers {
		fn(jump)
	}
	return result, true
}

func (e *Engine) findTagLocked(result *Result, options tags.Options) (Jump, bool) {
	from, ok := e.editor.ActiveDocument()
	if !ok {
		e.logger.Debug("find tag ignored, no active document", "name", result.Name)
		return Jump{}, false
	}

	candidates := e.lookup.FindTags(result.Name, options)
	if resolver, ok := e.editor.(PathResolver); ok {
		for i := range candidates {
			candidates[i].FilePath = resolver.ResolvePath(candidates[i].FilePath)
		}
	}
	result.Candidates = candidates

	chosen, reason, ok := selection.Choose(candidates, from.FilePath)
	if !ok {
		e.logger.Debug("no tag found", "name", result.Name)
		return Jump{}, false
	}
	result.Selected = chosen
	result.Reason = reason

	if !e.editor.SelectDocument(chosen.FilePath, int(chosen.LineNumber)) {
		e.logger.Debug("tag target did not resolve", "path", chosen.FilePath, "line", chosen.LineNumber)
		return Jump{}, false
	}

	to, ok := e.editor.ActiveDocument()
	if !ok {
		to = history.Node{FilePath: chosen.FilePath, LineNumber: int(chosen.LineNumber)}
	}
	jump := Jump{From: from, To: to}
	e.history.Record(from, to)
	result.Jump = &jump
	e.logger.Debug("jumped to tag", "name", result.Name, "to", to.String(), "reason", string(reason))
	return jump, true
}

// OnPrevious moves back one entry. The position moves even when the editor
// cannot resolve the target; the bool reports whether the editor moved.
func (e *Engine) OnPrevious() (history.Node, bool) {
	if e.editor == nil {
		return history.Node{}, false
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	node, ok := e.history.Back()
	if !ok {
		return history.Node{}, false
	}
	if !e.editor.SelectDocument(node.FilePath, node.LineNumber) {
		e.logger.Debug("previous location did not resolve", "location", node.String())
		return node, false
	}
	return node, true
}

// OnNext moves forward one entry. A target that no longer resolves clears
// the whole history.
func (e *Engine) OnNext() (history.Node, bool) {
	if e.editor == nil {
		return history.Node{}, false
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	node, ok := e.history.Forward()
	if !ok {
		return history.Node{}, false
	}
	if !e.editor.SelectDocument(node.FilePath, node.LineNumber) {
		e.logger.Info("next location is stale, clearing navigation history", "location", node.String())
		e.history.Clear()
		return node, false
	}
	return node, true
}

// Subscribe registers fn for jump notifications and returns a function that
// removes it.
func (e *Engine) Subscribe(fn func(Jump)) func() {
	e.mu.Lock()
	defer e.mu.Unlock()
	id := e.nextSubID
	e.nextSubID++
	e.subscribers[id] = fn
	return func() {
		e.mu.Lock()
		defer e.mu.Unlock()
		delete(e.subscribers, id)
	}
}

func (e *Engine) History() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return Snapshot{Entries: e.history.Entries(), Position: e.history.Position()}
}

func (e *Engine) ClearHistory() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.history.Clear()
}

// Close cancels any pending rebuild.
func (e *Engine) Close() {
	if e.rebuilder != nil {
		e.rebuilder.Stop()
	}
}

func (e *Engine) subscriberList() []func(Jump) {
	ids := make([]int, 0, len(e.subscribers))
	for id := range e.subscribers {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	out := make([]func(Jump), 0, len(ids))
	for _, id := range ids {
		out = append(out, e.subscribers[id])
	}
	return out
}
