package cli

import (
	"fmt"
	"strings"

	"github.com/morozRed/tagjump/internal/engine"
	"github.com/morozRed/tagjump/internal/fileutil"
	"github.com/morozRed/tagjump/internal/history"
	"github.com/morozRed/tagjump/internal/identifier"
	"github.com/morozRed/tagjump/internal/state"
	"github.com/morozRed/tagjump/internal/tags"
	"github.com/morozRed/tagjump/internal/workspace"
	"github.com/spf13/cobra"
)

// session is one CLI invocation's view of the persisted navigation state.
type session struct {
	rt     *runtime
	st     *state.State
	index  *tags.Index
	editor *workspace.FileEditor
	engine *engine.Engine
}

func openSession(rt *runtime) (*session, error) {
	st, err := state.Load(rt.profile)
	if err != nil {
		return nil, err
	}
	editor := workspace.NewFileEditor(rt.profile)
	if active, ok := st.ActiveNode(); ok {
		editor.SetActive(active)
	}
	index := rt.tagIndex()
	eng := engine.New(engine.Options{
		Editor:  editor,
		Lookup:  index,
		History: st.History(rt.cfg.HistorySize),
		Logger:  rt.logger,
	})
	return &session{rt: rt, st: st, index: index, editor: editor, engine: eng}, nil
}

func (s *session) save() error {
	snap := s.engine.History()
	s.st.SetHistory(snap.Entries, snap.Position)
	if active, ok := s.editor.ActiveDocument(); ok {
		s.st.SetActive(active)
	}
	return s.st.Save(s.rt.profile)
}

type findOutput struct {
	Query       string         `json:"query"`
	Found       bool           `json:"found"`
	Result      *engine.Result `json:"result,omitempty"`
	Suggestions []string       `json:"suggestions,omitempty"`
}

func RunFind(cmd *cobra.Command, args []string) error {
	rt, err := loadRuntime(cmd)
	if err != nil {
		return err
	}
	asJSON, err := OptionalBoolFlag(cmd, "json", false)
	if err != nil {
		return err
	}
	fuzzy, err := OptionalBoolFlag(cmd, "fuzzy", false)
	if err != nil {
		return err
	}
	options, err := ParseMatchOptions(cmd)
	if err != nil {
		return err
	}
	from, err := OptionalStringFlag(cmd, "from")
	if err != nil {
		return err
	}
	at, err := OptionalStringFlag(cmd, "at")
	if err != nil {
		return err
	}

	s, err := openSession(rt)
	if err != nil {
		return err
	}

	name := ""
	if len(args) > 0 {
		name = args[0]
	}
	if at != "" {
		loc, err := workspace.ParseLocation(at)
		if err != nil {
			return err
		}
		if name == "" {
			name, err = identifier.NewDefaultRegistry().At(commandContext(cmd), loc.Path, loc.Line, loc.Column)
			if err != nil {
				return err
			}
		}
		if from == "" {
			s.editor.SetActive(loc.Node())
		}
	}
	if from != "" {
		loc, err := workspace.ParseLocation(from)
		if err != nil {
			return err
		}
		s.editor.SetActive(loc.Node())
	}
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("no tag name: pass one as an argument or point --at at an identifier")
	}
	if _, ok := s.editor.ActiveDocument(); !ok {
		return fmt.Errorf("no active location: pass --from file:line")
	}

	result, found := s.engine.FindTag(name, options)
	out := findOutput{Query: result.Name, Found: found}
	if found {
		out.Result = &result
		if err := s.save(); err != nil {
			return err
		}
	} else if fuzzy {
		out.Suggestions = s.index.Suggest(result.Name, 5)
	}

	if asJSON {
		return fileutil.PrintJSON(cmd.OutOrStdout(), out)
	}
	if !found {
		if len(out.Suggestions) > 0 {
			return fmt.Errorf("tag %q not found (did you mean: %s)", out.Query, strings.Join(out.Suggestions, ", "))
		}
		return fmt.Errorf("tag %q not found", out.Query)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s:%d\n", result.Selected.FilePath, result.Selected.LineNumber)
	return nil
}

type moveOutput struct {
	Direction string        `json:"direction"`
	Moved     bool          `json:"moved"`
	Location  *history.Node `json:"location,omitempty"`
	Cleared   bool          `json:"cleared,omitempty"`
}

func RunBack(cmd *cobra.Command, args []string) error {
	return runMove(cmd, "back")
}

func RunForward(cmd *cobra.Command, args []string) error {
	return runMove(cmd, "forward")
}

func runMove(cmd *cobra.Command, direction string) error {
	rt, err := loadRuntime(cmd)
	if err != nil {
		return err
	}
	asJSON, err := OptionalBoolFlag(cmd, "json", false)
	if err != nil {
		return err
	}
	s, err := openSession(rt)
	if err != nil {
		return err
	}

	before := len(s.engine.History().Entries)
	var node history.Node
	var moved bool
	if direction == "back" {
		node, moved = s.engine.OnPrevious()
	} else {
		node, moved = s.engine.OnNext()
	}
	out := moveOutput{Direction: direction, Moved: moved}
	if node.FilePath != "" {
		out.Location = &node
	}
	out.Cleared = before > 0 && len(s.engine.History().Entries) == 0
	if err := s.save(); err != nil {
		return err
	}

	if asJSON {
		return fileutil.PrintJSON(cmd.OutOrStdout(), out)
	}
	w := cmd.OutOrStdout()
	switch {
	case moved:
		fmt.Fprintln(w, node.String())
	case out.Cleared:
		fmt.Fprintf(w, "%s no longer exists; navigation history cleared\n", node.String())
	case out.Location != nil:
		fmt.Fprintf(w, "%s no longer exists\n", node.String())
	default:
		fmt.Fprintf(w, "no %s location\n", direction)
	}
	return nil
}

func RunHistory(cmd *cobra.Command, args []string) error {
	rt, err := loadRuntime(cmd)
	if err != nil {
		return err
	}
	asJSON, err := OptionalBoolFlag(cmd, "json", false)
	if err != nil {
		return err
	}
	s, err := openSession(rt)
	if err != nil {
		return err
	}

	snap := s.engine.History()
	if asJSON {
		return fileutil.PrintJSON(cmd.OutOrStdout(), snap)
	}
	w := cmd.OutOrStdout()
	if len(snap.Entries) == 0 {
		fmt.Fprintln(w, "navigation history is empty")
		return nil
	}
	for i, entry := range snap.Entries {
		marker := " "
		if i == snap.Position {
			marker = ">"
		}
		fmt.Fprintf(w, "%s %2d %s\n", marker, i+1, entry.String())
	}
	return nil
}

func RunHistoryClear(cmd *cobra.Command, args []string) error {
	rt, err := loadRuntime(cmd)
	if err != nil {
		return err
	}
	s, err := openSession(rt)
	if err != nil {
		return err
	}
	s.engine.ClearHistory()
	if err := s.save(); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "navigation history cleared")
	return nil
}
