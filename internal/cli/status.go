package cli

import (
	"fmt"
	"os"

	"github.com/morozRed/tagjump/internal/fileutil"
	"github.com/morozRed/tagjump/internal/state"
	"github.com/spf13/cobra"
)

func RunStatus(cmd *cobra.Command, args []string) error {
	rt, err := loadRuntime(cmd)
	if err != nil {
		return err
	}
	asJSON, err := OptionalBoolFlag(cmd, "json", false)
	if err != nil {
		return err
	}

	st, err := state.Load(rt.profile)
	if err != nil {
		return err
	}
	configs, err := rt.projects.List()
	if err != nil {
		return err
	}

	summary := StatusSummary{
		Mode:     "status",
		Profile:  rt.profile,
		TagFile:  rt.tagPath(),
		Projects: len(configs),
		History:  len(st.Entries),
		Position: st.Position,
	}
	if info, err := os.Stat(summary.TagFile); err == nil && info.Mode().IsRegular() {
		summary.TagExists = true
	}
	if active, ok := st.ActiveNode(); ok {
		summary.Active = active.String()
	}
	if st.LastRebuild != nil {
		summary.LastRebuild = st.LastRebuild.At.Format("2006-01-02 15:04:05Z07:00")
		if st.LastRebuild.Error != "" {
			summary.LastRebuild += " (failed: " + st.LastRebuild.Error + ")"
		}
	}

	if asJSON {
		return fileutil.PrintJSON(cmd.OutOrStdout(), summary)
	}
	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "profile: %s\n", summary.Profile)
	fmt.Fprintf(w, "tags: %s exists=%t\n", summary.TagFile, summary.TagExists)
	fmt.Fprintf(w, "projects: %d\n", summary.Projects)
	if summary.History > 0 {
		fmt.Fprintf(w, "history: %d entries, at %d\n", summary.History, summary.Position+1)
	} else {
		fmt.Fprintln(w, "history: empty")
	}
	if summary.Active != "" {
		fmt.Fprintf(w, "active: %s\n", summary.Active)
	}
	if summary.LastRebuild != "" {
		fmt.Fprintf(w, "last rebuild: %s\n", summary.LastRebuild)
	}
	return nil
}
