package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/morozRed/tagjump/internal/fileutil"
	"github.com/morozRed/tagjump/internal/rebuild"
	"github.com/morozRed/tagjump/internal/state"
	"github.com/spf13/cobra"
)

// indexRunner is swapped out by tests.
var indexRunner rebuild.Runner = rebuild.ExecRunner{}

func RunRebuild(cmd *cobra.Command, args []string) error {
	rt, err := loadRuntime(cmd)
	if err != nil {
		return err
	}
	asJSON, err := OptionalBoolFlag(cmd, "json", false)
	if err != nil {
		return err
	}
	dryRun, err := OptionalBoolFlag(cmd, "dry-run", false)
	if err != nil {
		return err
	}

	command := rt.rebuildCommand()
	if dryRun {
		if asJSON {
			return fileutil.PrintJSON(cmd.OutOrStdout(), RebuildSummary{Mode: "dry-run", Command: command.String(), Profile: rt.profile})
		}
		fmt.Fprintln(cmd.OutOrStdout(), command.String())
		return nil
	}

	start := time.Now()
	progress := newRebuildProgress("rebuilding tags", asJSON)
	progress.Start()
	record, runErr := runRebuild(commandContext(cmd), rt, command)
	progress.Done(runErr)

	summary := RebuildSummary{
		Mode:       "rebuild",
		Command:    command.String(),
		Profile:    rt.profile,
		RunID:      record.RunID,
		TagFile:    rt.tagPath(),
		TagHash:    record.TagHash,
		DurationMS: time.Since(start).Milliseconds(),
		Error:      record.Error,
	}
	if asJSON {
		if err := fileutil.PrintJSON(cmd.OutOrStdout(), summary); err != nil {
			return err
		}
	}
	if runErr != nil {
		return fmt.Errorf("indexer failed: %w", runErr)
	}
	if !asJSON {
		fmt.Fprintf(cmd.OutOrStdout(), "rebuilt %s in %dms\n", summary.TagFile, summary.DurationMS)
	}
	return nil
}

// runRebuild runs the indexer once and records the outcome in the session.
func runRebuild(ctx context.Context, rt *runtime, command rebuild.Command) (state.RebuildRecord, error) {
	if err := os.MkdirAll(rt.profile, 0755); err != nil {
		return state.RebuildRecord{}, fmt.Errorf("failed to create profile directory: %w", err)
	}
	runID, runErr := rebuild.Execute(ctx, indexRunner, command, rt.logger)
	record := finishRebuild(rt.profile, rt.tagPath(), command, runID, runErr, rt.logger)
	return record, runErr
}

func finishRebuild(profile, tagPath string, command rebuild.Command, runID string, runErr error, logger *slog.Logger) state.RebuildRecord {
	record := state.RebuildRecord{
		RunID:   runID,
		Command: command.String(),
		At:      time.Now().UTC(),
	}
	if runErr != nil {
		record.Error = runErr.Error()
	}
	if hash, err := fileutil.HashFile(tagPath); err == nil {
		record.TagHash = hash
	}

	st, err := state.Load(profile)
	if err != nil {
		logger.Warn("could not load navigation state", "error", err)
		return record
	}
	st.LastRebuild = &record
	if err := st.Save(profile); err != nil {
		logger.Warn("could not save navigation state", "error", err)
	}
	return record
}
