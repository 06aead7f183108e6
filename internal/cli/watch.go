package cli

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/fsnotify/fsnotify"
	"github.com/morozRed/tagjump/internal/engine"
	"github.com/morozRed/tagjump/internal/ignore"
	"github.com/morozRed/tagjump/internal/project"
	"github.com/morozRed/tagjump/internal/rebuild"
	"github.com/spf13/cobra"
)

func RunWatch(cmd *cobra.Command, args []string) error {
	rt, err := loadRuntime(cmd)
	if err != nil {
		return err
	}
	configs, err := rt.projects.List()
	if err != nil {
		return err
	}
	roots := project.SourceDirectories(configs)
	if len(roots) == 0 {
		return fmt.Errorf("no project source folders configured: run tagjump project set <key> <folder>...")
	}
	if err := os.MkdirAll(rt.profile, 0755); err != nil {
		return fmt.Errorf("failed to create profile directory: %w", err)
	}

	ctx, stop := signal.NotifyContext(commandContext(cmd), os.Interrupt, syscall.SIGTERM)
	defer stop()

	scheduler := newWatchScheduler(rt, indexRunner, nil)
	eng := engine.New(engine.Options{Rebuilder: scheduler, Logger: rt.logger})
	defer eng.Close()

	fmt.Fprintf(cmd.OutOrStdout(), "watching %d source folders (debounce %s)\n", len(roots), rt.cfg.Debounce())
	return watchFolders(ctx, roots, ignore.NewMatcher(rt.cfg.Watch.Ignore), eng.OnDocumentSaved, rt.logger)
}

func newWatchScheduler(rt *runtime, runner rebuild.Runner, onComplete func(string, error)) *rebuild.Scheduler {
	index := rt.tagIndex()
	return rebuild.NewScheduler(rebuild.Options{
		Delay:   rt.cfg.Debounce(),
		Runner:  runner,
		Command: rt.rebuildCommand,
		OnComplete: func(runID string, err error) {
			index.Invalidate()
			finishRebuild(rt.profile, rt.tagPath(), rt.rebuildCommand(), runID, err, rt.logger)
			if onComplete != nil {
				onComplete(runID, err)
			}
		},
		Logger: rt.logger,
	})
}

// watchFolders calls saved for every file write under roots until ctx is
// done. Directories created later are watched as they appear.
func watchFolders(ctx context.Context, roots []string, matcher *ignore.Matcher, saved func(), logger *slog.Logger) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to start file watcher: %w", err)
	}
	defer watcher.Close()

	for _, root := range roots {
		if err := addTree(watcher, root, root, matcher, logger); err != nil {
			logger.Warn("could not watch source folder", "path", root, "error", err)
		}
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("file watcher error", "error", err)
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			root := owningRoot(roots, event.Name)
			rel, err := filepath.Rel(root, event.Name)
			if err != nil {
				continue
			}
			if event.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if !matcher.ShouldIgnore(rel, true) {
						if err := addTree(watcher, root, event.Name, matcher, logger); err != nil {
							logger.Debug("could not watch new directory", "path", event.Name, "error", err)
						}
					}
					continue
				}
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) && !event.Has(fsnotify.Remove) {
				continue
			}
			if matcher.ShouldIgnore(rel, false) {
				continue
			}
			logger.Debug("source changed", "path", event.Name, "op", event.Op.String())
			saved()
		}
	}
}

func addTree(watcher *fsnotify.Watcher, root, dir string, matcher *ignore.Matcher, logger *slog.Logger) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == dir {
				return err
			}
			logger.Debug("skipping unreadable path", "path", path, "error", err)
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if rel, relErr := filepath.Rel(root, path); relErr == nil && rel != "." && matcher.ShouldIgnore(rel, true) {
			return filepath.SkipDir
		}
		return watcher.Add(path)
	})
}

func owningRoot(roots []string, path string) string {
	best := ""
	for _, root := range roots {
		rel, err := filepath.Rel(root, path)
		if err != nil || rel == ".." || filepath.IsAbs(rel) || (len(rel) > 2 && rel[:3] == ".."+string(filepath.Separator)) {
			continue
		}
		if len(root) > len(best) {
			best = root
		}
	}
	if best == "" {
		return filepath.Dir(path)
	}
	return best
}
