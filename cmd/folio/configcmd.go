package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/vango-dev/folio/internal/config"
)

func configCmd(flags *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Create or check the configuration",
	}
	cmd.AddCommand(configInitCmd(flags), configCheckCmd(flags))
	return cmd
}

func configInitCmd(flags *globalFlags) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a config file with the default settings",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := os.Stat(flags.configPath); err == nil && !force {
				return &os.PathError{Op: "init", Path: flags.configPath, Err: os.ErrExist}
			}
			if err := config.New().Save(flags.configPath); err != nil {
				return err
			}
			success(cmd.OutOrStdout(), "Wrote %s", flags.configPath)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite an existing file")
	return cmd
}

func configCheckCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Load and validate the configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(flags)
			if err != nil {
				return err
			}
			success(cmd.OutOrStdout(), "Configuration is valid (store: %s, addr: %s)", cfg.Store.Driver, cfg.Server.Addr)
			return nil
		},
	}
}
