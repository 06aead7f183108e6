package cli

import (
	"fmt"

	"github.com/morozRed/tagjump/internal/config"
	"github.com/morozRed/tagjump/internal/fileutil"
	toml "github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"
)

func RunConfigShow(cmd *cobra.Command, args []string) error {
	rt, err := loadRuntime(cmd)
	if err != nil {
		return err
	}
	asJSON, err := OptionalBoolFlag(cmd, "json", false)
	if err != nil {
		return err
	}

	if asJSON {
		return fileutil.PrintJSON(cmd.OutOrStdout(), rt.cfg)
	}
	data, err := toml.Marshal(rt.cfg)
	if err != nil {
		return fmt.Errorf("failed to encode settings: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "# %s\n%s", config.Path(rt.profile), data)
	return nil
}

func RunConfigInit(cmd *cobra.Command, args []string) error {
	profile, err := resolveProfile(cmd)
	if err != nil {
		return err
	}
	force, err := OptionalBoolFlag(cmd, "force", false)
	if err != nil {
		return err
	}

	path := config.Path(profile)
	if force {
		if err := config.Default().Save(profile); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
		return nil
	}

	data, err := toml.Marshal(config.Default())
	if err != nil {
		return fmt.Errorf("failed to encode settings: %w", err)
	}
	created, err := fileutil.WriteIfMissing(path, data, 0644)
	if err != nil {
		return err
	}
	if !created {
		fmt.Fprintf(cmd.OutOrStdout(), "%s already exists (use --force to overwrite)\n", path)
		return nil
	}
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
	return nil
}
