package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func NewRootCommand(version string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "tagjump",
		Short: "Jump to tag definitions with back/forward history",
		Long: `tagjump looks up symbol definitions in a ctags index, picks the best
match for the file you are in, and remembers every jump so you can go
back and forward like in a browser.

The tag index is rebuilt by running ctags over the source folders of
every configured project. Settings, projects and the tag file live in
the profile directory.`,
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().String("profile", "", "Profile directory (default: $TAGJUMP_PROFILE or the user config dir)")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug|info|warn|error|silent")
	rootCmd.PersistentFlags().String("log-format", "", "Log format: text|json")
	rootCmd.PersistentFlags().CountP("verbose", "v", "Increase log verbosity (repeatable)")

	// Navigate Commands
	findCmd := &cobra.Command{
		Use:   "find [name]",
		Short: "Jump to the definition of a tag",
		Args:  cobra.MaximumNArgs(1),
		RunE:  RunFind,
	}
	findCmd.Flags().String("from", "", "Current location as file:line (default: last location)")
	findCmd.Flags().String("at", "", "Take the name from the identifier at file:line:col")
	findCmd.Flags().Bool("partial", false, "Match tags by prefix")
	findCmd.Flags().Bool("ignore-case", false, "Match tags case-insensitively")
	findCmd.Flags().Bool("fuzzy", false, "Suggest similar tag names when nothing matches")
	findCmd.Flags().Bool("json", false, "Print machine-readable result")

	backCmd := &cobra.Command{
		Use:     "back",
		Aliases: []string{"previous"},
		Short:   "Go back to the previous location",
		Args:    cobra.NoArgs,
		RunE:    RunBack,
	}
	backCmd.Flags().Bool("json", false, "Print machine-readable result")

	forwardCmd := &cobra.Command{
		Use:     "forward",
		Aliases: []string{"next"},
		Short:   "Go forward to the next location",
		Args:    cobra.NoArgs,
		RunE:    RunForward,
	}
	forwardCmd.Flags().Bool("json", false, "Print machine-readable result")

	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "Show the navigation history",
		Args:  cobra.NoArgs,
		RunE:  RunHistory,
	}
	historyCmd.Flags().Bool("json", false, "Print machine-readable history")
	historyCmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Forget every recorded location",
		Args:  cobra.NoArgs,
		RunE:  RunHistoryClear,
	})

	// Index Commands
	rebuildCmd := &cobra.Command{
		Use:   "rebuild",
		Short: "Regenerate the tag index from the project source folders",
		Args:  cobra.NoArgs,
		RunE:  RunRebuild,
	}
	rebuildCmd.Flags().Bool("dry-run", false, "Print the indexer command without running it")
	rebuildCmd.Flags().Bool("json", false, "Print machine-readable run summary")

	watchCmd := &cobra.Command{
		Use:   "watch",
		Short: "Rebuild the tag index shortly after source files change",
		Args:  cobra.NoArgs,
		RunE:  RunWatch,
	}

	// Project Commands
	projectCmd := &cobra.Command{
		Use:   "project",
		Short: "Manage the source folders of each project",
	}
	projectListCmd := &cobra.Command{
		Use:   "list",
		Short: "List configured projects",
		Args:  cobra.NoArgs,
		RunE:  RunProjectList,
	}
	projectListCmd.Flags().Bool("json", false, "Print machine-readable project list")
	projectShowCmd := &cobra.Command{
		Use:   "show <key>",
		Short: "Show one project",
		Args:  cobra.ExactArgs(1),
		RunE:  RunProjectShow,
	}
	projectShowCmd.Flags().Bool("json", false, "Print machine-readable project")
	projectSetCmd := &cobra.Command{
		Use:   "set <key> [folder...]",
		Short: "Set the source folders of a project and rebuild",
		Args:  cobra.MinimumNArgs(1),
		RunE:  RunProjectSet,
	}
	projectSetCmd.Flags().String("folder", "", "Project root folder")
	projectSetCmd.Flags().Bool("no-rebuild", false, "Save without rebuilding the tag index")
	projectRemoveCmd := &cobra.Command{
		Use:   "remove <key>",
		Short: "Remove a project",
		Args:  cobra.ExactArgs(1),
		RunE:  RunProjectRemove,
	}
	projectCmd.AddCommand(projectListCmd, projectShowCmd, projectSetCmd, projectRemoveCmd)

	// Inspect Commands
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect or create profile settings",
	}
	configShowCmd := &cobra.Command{
		Use:   "show",
		Short: "Print the effective settings",
		Args:  cobra.NoArgs,
		RunE:  RunConfigShow,
	}
	configShowCmd.Flags().Bool("json", false, "Print machine-readable settings")
	configInitCmd := &cobra.Command{
		Use:   "init",
		Short: "Write default settings to the profile",
		Args:  cobra.NoArgs,
		RunE:  RunConfigInit,
	}
	configInitCmd.Flags().Bool("force", false, "Overwrite existing settings")
	configCmd.AddCommand(configShowCmd, configInitCmd)

	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show the tag file, projects and navigation position",
		Args:  cobra.NoArgs,
		RunE:  RunStatus,
	}
	statusCmd.Flags().Bool("json", false, "Print machine-readable status output")

	doctorCmd := &cobra.Command{
		Use:   "doctor",
		Short: "Validate the indexer, tag file and project setup",
		Args:  cobra.NoArgs,
		RunE:  RunDoctor,
	}
	doctorCmd.Flags().Bool("json", false, "Print machine-readable doctor output")

	// Additional Commands
	installHookCmd := &cobra.Command{
		Use:   "install-hook",
		Short: "Install a git hook that rebuilds the tag index",
		Args:  cobra.NoArgs,
		RunE:  RunInstallHook,
	}
	installHookCmd.Flags().String("hook", DefaultHook, "Git hook to install: post-commit|post-merge|post-checkout|post-rewrite")

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "tagjump %s\n", version)
		},
	}

	rootCmd.AddCommand(
		findCmd,
		backCmd,
		forwardCmd,
		historyCmd,
		rebuildCmd,
		watchCmd,
		projectCmd,
		configCmd,
		statusCmd,
		doctorCmd,
		installHookCmd,
		versionCmd,
	)

	return rootCmd
}
