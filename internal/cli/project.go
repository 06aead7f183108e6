package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/morozRed/tagjump/internal/fileutil"
	"github.com/spf13/cobra"
)

func RunProjectList(cmd *cobra.Command, args []string) error {
	rt, err := loadRuntime(cmd)
	if err != nil {
		return err
	}
	asJSON, err := OptionalBoolFlag(cmd, "json", false)
	if err != nil {
		return err
	}
	configs, err := rt.projects.List()
	if err != nil {
		return err
	}

	if asJSON {
		return fileutil.PrintJSON(cmd.OutOrStdout(), map[string]any{
			"profile":  rt.profile,
			"projects": configs,
		})
	}
	w := cmd.OutOrStdout()
	if len(configs) == 0 {
		fmt.Fprintln(w, "no projects configured")
		return nil
	}
	for _, cfg := range configs {
		fmt.Fprintf(w, "%s: %s\n", cfg.ProjectKey, SummarizePaths(cfg.SourceFolders, 0))
	}
	return nil
}

func RunProjectShow(cmd *cobra.Command, args []string) error {
	rt, err := loadRuntime(cmd)
	if err != nil {
		return err
	}
	asJSON, err := OptionalBoolFlag(cmd, "json", false)
	if err != nil {
		return err
	}
	cfg, ok, err := rt.projects.Get(args[0])
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("project %q not found", args[0])
	}

	if asJSON {
		return fileutil.PrintJSON(cmd.OutOrStdout(), cfg)
	}
	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "project: %s\n", cfg.ProjectKey)
	if cfg.Folder != "" {
		fmt.Fprintf(w, "folder: %s\n", cfg.Folder)
	}
	fmt.Fprintf(w, "config: %s\n", rt.projects.ConfigPath(cfg.ProjectKey))
	for _, folder := range cfg.SourceFolders {
		fmt.Fprintf(w, "- %s\n", folder)
	}
	return nil
}

// RunProjectSet replaces a project's source folders and, like saving the
// project form in the editor, rebuilds the tag index when anything changed.
func RunProjectSet(cmd *cobra.Command, args []string) error {
	rt, err := loadRuntime(cmd)
	if err != nil {
		return err
	}
	root, err := OptionalStringFlag(cmd, "folder")
	if err != nil {
		return err
	}
	noRebuild, err := OptionalBoolFlag(cmd, "no-rebuild", false)
	if err != nil {
		return err
	}

	folders := make([]string, 0, len(args)-1)
	for _, arg := range args[1:] {
		arg = strings.TrimSpace(arg)
		if arg == "" {
			continue
		}
		abs, err := filepath.Abs(arg)
		if err != nil {
			return fmt.Errorf("failed to resolve %s: %w", arg, err)
		}
		folders = append(folders, abs)
	}
	if root != "" {
		if root, err = filepath.Abs(root); err != nil {
			return fmt.Errorf("failed to resolve project folder: %w", err)
		}
	}

	saved, err := rt.projects.SetSourceFolders(args[0], folders, root)
	if err != nil {
		return err
	}
	w := cmd.OutOrStdout()
	if !saved {
		fmt.Fprintf(w, "project %s unchanged\n", args[0])
		return nil
	}
	fmt.Fprintf(w, "saved %s\n", rt.projects.ConfigPath(args[0]))

	if noRebuild {
		return nil
	}
	if _, err := runRebuild(commandContext(cmd), rt, rt.rebuildCommand()); err != nil {
		rt.logger.Warn("rebuild after project change failed", "error", err)
	}
	return nil
}

func RunProjectRemove(cmd *cobra.Command, args []string) error {
	rt, err := loadRuntime(cmd)
	if err != nil {
		return err
	}
	if _, ok, err := rt.projects.Get(args[0]); err != nil {
		return err
	} else if !ok {
		return fmt.Errorf("project %q not found", args[0])
	}
	if err := rt.projects.Remove(args[0]); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "removed project %s\n", args[0])
	return nil
}
