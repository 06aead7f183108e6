package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/morozRed/tagjump/internal/config"
	"github.com/morozRed/tagjump/internal/fileutil"
	"github.com/morozRed/tagjump/internal/logging"
	"github.com/morozRed/tagjump/internal/project"
	"github.com/morozRed/tagjump/internal/rebuild"
	"github.com/morozRed/tagjump/internal/tags"
	"github.com/spf13/cobra"
)

const profileEnv = "TAGJUMP_PROFILE"

// runtime is everything a command needs from the active profile.
type runtime struct {
	profile  string
	cfg      *config.Config
	logger   *slog.Logger
	projects *project.Store
}

func resolveProfile(cmd *cobra.Command) (string, error) {
	profile, err := OptionalStringFlag(cmd, "profile")
	if err != nil {
		return "", err
	}
	if profile == "" {
		profile = os.Getenv(profileEnv)
	}
	if profile == "" {
		profile = config.DefaultProfileDir()
	}
	abs, err := filepath.Abs(profile)
	if err != nil {
		return "", fmt.Errorf("failed to resolve profile directory: %w", err)
	}
	return abs, nil
}

func loadRuntime(cmd *cobra.Command) (*runtime, error) {
	profile, err := resolveProfile(cmd)
	if err != nil {
		return nil, err
	}
	cfg, err := config.Load(profile)
	if err != nil {
		return nil, err
	}

	levelName, err := OptionalStringFlag(cmd, "log-level")
	if err != nil {
		return nil, err
	}
	if levelName == "" {
		levelName = cfg.Log.Level
	}
	formatName, err := OptionalStringFlag(cmd, "log-format")
	if err != nil {
		return nil, err
	}
	if formatName == "" {
		formatName = cfg.Log.Format
	}
	verbosity, err := OptionalCountFlag(cmd, "verbose")
	if err != nil {
		return nil, err
	}

	level := logging.LevelFromVerbosity(logging.LevelFromString(levelName), verbosity)
	logger := logging.NewLogger(cmd.ErrOrStderr(), level, logging.ParseFormat(formatName))

	return &runtime{
		profile:  profile,
		cfg:      cfg,
		logger:   logger,
		projects: project.NewStore(profile),
	}, nil
}

func (rt *runtime) tagPath() string {
	return filepath.Join(rt.profile, rt.cfg.TagFile)
}

func (rt *runtime) tagIndex() *tags.Index {
	return tags.NewIndex(func() string { return rt.profile }, rt.cfg.TagFile, rt.logger)
}

// rebuildCommand is built from the project store each time so edits are
// picked up by long-running commands.
func (rt *runtime) rebuildCommand() rebuild.Command {
	configs, err := rt.projects.List()
	if err != nil {
		rt.logger.Warn("could not list projects", "error", err)
	}
	dirs := fileutil.DedupeStrings(project.SourceDirectories(configs))
	return rebuild.BuildCommand(rt.cfg.Indexer, rt.profile, rt.cfg.TagFile, dirs)
}

func commandContext(cmd *cobra.Command) context.Context {
	if cmd != nil && cmd.Context() != nil {
		return cmd.Context()
	}
	return context.Background()
}
