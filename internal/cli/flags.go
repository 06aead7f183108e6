package cli

import (
	"fmt"
	"strings"

	"github.com/morozRed/tagjump/internal/tags"
	"github.com/spf13/cobra"
)

func OptionalStringFlag(cmd *cobra.Command, name string) (string, error) {
	if cmd == nil || cmd.Flags().Lookup(name) == nil {
		return "", nil
	}
	value, err := cmd.Flags().GetString(name)
	if err != nil {
		return "", fmt.Errorf("failed to read --%s flag: %w", name, err)
	}
	return strings.TrimSpace(value), nil
}

func OptionalBoolFlag(cmd *cobra.Command, name string, defaultValue bool) (bool, error) {
	if cmd == nil || cmd.Flags().Lookup(name) == nil {
		return defaultValue, nil
	}
	value, err := cmd.Flags().GetBool(name)
	if err != nil {
		return false, fmt.Errorf("failed to read --%s flag: %w", name, err)
	}
	return value, nil
}

func OptionalIntFlag(cmd *cobra.Command, name string, defaultValue int) (int, error) {
	if cmd == nil || cmd.Flags().Lookup(name) == nil {
		return defaultValue, nil
	}
	value, err := cmd.Flags().GetInt(name)
	if err != nil {
		return 0, fmt.Errorf("failed to read --%s flag: %w", name, err)
	}
	return value, nil
}

func OptionalCountFlag(cmd *cobra.Command, name string) (int, error) {
	if cmd == nil || cmd.Flags().Lookup(name) == nil {
		return 0, nil
	}
	value, err := cmd.Flags().GetCount(name)
	if err != nil {
		return 0, fmt.Errorf("failed to read --%s flag: %w", name, err)
	}
	return value, nil
}

// ParseMatchOptions maps --partial and --ignore-case onto tag match flags.
func ParseMatchOptions(cmd *cobra.Command) (tags.Options, error) {
	partial, err := OptionalBoolFlag(cmd, "partial", false)
	if err != nil {
		return 0, err
	}
	ignoreCase, err := OptionalBoolFlag(cmd, "ignore-case", false)
	if err != nil {
		return 0, err
	}
	var opts tags.Options
	if partial {
		opts |= tags.PartialMatch
	}
	if ignoreCase {
		opts |= tags.IgnoreCase
	}
	return opts, nil
}
