package cli

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/morozRed/tagjump/internal/fileutil"
	"github.com/spf13/cobra"
)

const (
	HookStart   = "# >>> tagjump rebuild hook >>>"
	HookEnd     = "# <<< tagjump rebuild hook <<<"
	DefaultHook = "post-commit"
)

var supportedHooks = map[string]bool{
	"post-commit":   true,
	"post-merge":    true,
	"post-checkout": true,
	"post-rewrite":  true,
}

func RunInstallHook(cmd *cobra.Command, args []string) error {
	profile, err := resolveProfile(cmd)
	if err != nil {
		return err
	}
	hookName, err := OptionalStringFlag(cmd, "hook")
	if err != nil {
		return err
	}
	if hookName == "" {
		hookName = DefaultHook
	}
	if !supportedHooks[hookName] {
		return fmt.Errorf("unsupported hook %q (supported: post-commit, post-merge, post-checkout, post-rewrite)", hookName)
	}

	workingDir, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to resolve working directory: %w", err)
	}
	_, gitDir, err := ResolveGitPaths(workingDir)
	if err != nil {
		return err
	}

	hookPath := filepath.Join(gitDir, "hooks", hookName)
	if err := os.MkdirAll(filepath.Dir(hookPath), 0755); err != nil {
		return fmt.Errorf("failed to create hook directory: %w", err)
	}

	existing := ""
	if data, err := os.ReadFile(hookPath); err == nil {
		existing = string(data)
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("failed to read existing hook: %w", err)
	}

	updated := UpsertRebuildHook(existing, profile)
	if err := os.WriteFile(hookPath, []byte(updated), 0755); err != nil {
		return fmt.Errorf("failed to write hook: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Installed %s hook at %s\n", hookName, hookPath)
	return nil
}

func ResolveGitPaths(workingDir string) (repoRoot string, gitDir string, err error) {
	repoRootOut, err := exec.Command("git", "-C", workingDir, "rev-parse", "--show-toplevel").Output()
	if err != nil {
		return "", "", fmt.Errorf("not inside a git repository")
	}

	gitDirOut, err := exec.Command("git", "-C", workingDir, "rev-parse", "--git-dir").Output()
	if err != nil {
		return "", "", fmt.Errorf("failed to resolve git directory: %w", err)
	}

	repoRoot = strings.TrimSpace(string(repoRootOut))
	gitDir = strings.TrimSpace(string(gitDirOut))
	if !filepath.IsAbs(gitDir) {
		gitDir = filepath.Join(repoRoot, gitDir)
	}
	return repoRoot, gitDir, nil
}

func UpsertRebuildHook(existingHook, profile string) string {
	block := BuildRebuildHookBlock(profile)

	if existingHook == "" {
		return "#!/bin/sh\n\n" + block + "\n"
	}

	start := strings.Index(existingHook, HookStart)
	end := strings.Index(existingHook, HookEnd)
	if start >= 0 && end >= start {
		end += len(HookEnd)
		updated := existingHook[:start] + block + existingHook[end:]
		return string(fileutil.EnsureTrailingNewline([]byte(updated)))
	}

	base := string(fileutil.EnsureTrailingNewline([]byte(existingHook)))
	if !strings.HasPrefix(base, "#!") {
		base = "#!/bin/sh\n" + base
	}
	return base + "\n" + block + "\n"
}

// BuildRebuildHookBlock runs the rebuild in the background so the git
// command is never held up by the indexer.
func BuildRebuildHookBlock(profile string) string {
	return fmt.Sprintf(
		"%s\nprofile=%q\nif command -v tagjump >/dev/null 2>&1; then\n  (tagjump rebuild --profile \"$profile\" >/dev/null 2>&1 &)\nfi\n%s",
		HookStart,
		profile,
		HookEnd,
	)
}
