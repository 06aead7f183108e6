package cli

import (
	"fmt"
	"os"
	"os/exec"
	"sort"
	"strings"

	"github.com/morozRed/tagjump/internal/config"
	"github.com/morozRed/tagjump/internal/fileutil"
	"github.com/morozRed/tagjump/internal/state"
	"github.com/morozRed/tagjump/internal/tags"
	"github.com/spf13/cobra"
)

// lookPath is swapped out by tests.
var lookPath = exec.LookPath

func RunDoctor(cmd *cobra.Command, args []string) error {
	rt, err := loadRuntime(cmd)
	if err != nil {
		return err
	}
	asJSON, err := OptionalBoolFlag(cmd, "json", false)
	if err != nil {
		return err
	}

	summary := DoctorSummary{
		Mode:    "doctor",
		Profile: rt.profile,
		Indexer: rt.cfg.Indexer,
		TagFile: rt.tagPath(),
		Folders: make(map[string]bool),
	}

	if _, err := os.Stat(config.Path(rt.profile)); err != nil {
		summary.Suggestions = append(summary.Suggestions, "run tagjump config init")
	}

	if path, err := lookPath(rt.cfg.Indexer); err == nil {
		summary.IndexerPath = path
	} else {
		summary.Missing = append(summary.Missing, "indexer "+rt.cfg.Indexer+" on PATH")
		summary.Suggestions = append(summary.Suggestions, "install universal-ctags or set indexer in "+config.FileName)
	}

	configs, err := rt.projects.List()
	if err != nil {
		summary.Missing = append(summary.Missing, "readable project configs")
	}
	summary.Projects = len(configs)
	if summary.Projects == 0 {
		summary.Missing = append(summary.Missing, "project source folders")
		summary.Suggestions = append(summary.Suggestions, "run tagjump project set <key> <folder>...")
	}
	var absent []string
	for _, cfg := range configs {
		for _, folder := range cfg.SourceFolders {
			info, err := os.Stat(folder)
			exists := err == nil && info.IsDir()
			summary.Folders[folder] = exists
			if !exists {
				absent = append(absent, folder)
			}
		}
	}
	if len(absent) > 0 {
		summary.Missing = append(summary.Missing, "source folders "+SummarizePaths(absent, 3))
	}

	st, stErr := state.Load(rt.profile)
	if stErr != nil {
		summary.Missing = append(summary.Missing, "valid navigation state")
		summary.Suggestions = append(summary.Suggestions, "run tagjump history clear")
	} else {
		summary.History = len(st.Entries)
	}

	if file, err := tags.OpenFile(rt.tagPath()); err == nil {
		entries, readErr := file.Entries()
		file.Close()
		if readErr == nil {
			summary.TagEntries = len(entries)
		}
		summary.TagFresh = true
		if stErr == nil && st.LastRebuild != nil && st.LastRebuild.TagHash != "" {
			if hash, err := fileutil.HashFile(rt.tagPath()); err == nil && hash != st.LastRebuild.TagHash {
				summary.TagFresh = false
			}
		}
	} else {
		summary.Missing = append(summary.Missing, "tag file "+rt.cfg.TagFile)
	}
	if summary.TagEntries == 0 || !summary.TagFresh {
		summary.Suggestions = append(summary.Suggestions, "run tagjump rebuild")
	}

	summary.Missing = fileutil.DedupeStrings(summary.Missing)
	sort.Strings(summary.Missing)
	summary.Suggestions = fileutil.DedupeStrings(summary.Suggestions)
	sort.Strings(summary.Suggestions)
	summary.Healthy = len(summary.Missing) == 0 && summary.TagEntries > 0

	if asJSON {
		return fileutil.PrintJSON(cmd.OutOrStdout(), summary)
	}

	w := cmd.OutOrStdout()
	status := "issues"
	if summary.Healthy {
		status = "ok"
	}
	fmt.Fprintf(w, "doctor: %s\n", status)
	fmt.Fprintf(w, "profile: %s\n", summary.Profile)
	indexer := summary.IndexerPath
	if indexer == "" {
		indexer = "not found"
	}
	fmt.Fprintf(w, "indexer: %s (%s)\n", summary.Indexer, indexer)
	fmt.Fprintf(w, "tags: %s entries=%d fresh=%t\n", summary.TagFile, summary.TagEntries, summary.TagFresh)
	fmt.Fprintf(w, "projects: %d history: %d\n", summary.Projects, summary.History)
	if len(summary.Missing) > 0 {
		fmt.Fprintf(w, "missing (%d): %s\n", len(summary.Missing), strings.Join(summary.Missing, ", "))
	}
	for _, suggestion := range summary.Suggestions {
		fmt.Fprintf(w, "next: %s\n", suggestion)
	}
	return nil
}
