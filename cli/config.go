package main

import (
	"errors"
	"fmt"
	"os"

	"dictdoy/pkg/config"

	"github.com/spf13/cobra"
)

var errConfigExists = errors.New("config file already exists")

func newConfigCommand() *cobra.Command {
	configCommand := &cobra.Command{
		Use:   "config",
		Short: "Inspect or create the configuration file",
	}

	configCommand.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Print the configuration file path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := configPath()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	})

	var force bool
	initCommand := &cobra.Command{
		Use:   "init",
		Short: "Write a configuration file with the default settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := configPath()
			if err != nil {
				return err
			}
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%w: %s (use --force to overwrite)", errConfigExists, path)
			}

			cfg := config.DefaultConfig()
			cfg.LLM.APIKey = "" // read from the environment at startup
			if err := config.SaveTo(path, cfg); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
			return nil
		},
	}
	initCommand.Flags().BoolVar(&force, "force", false, "overwrite an existing file")
	configCommand.AddCommand(initCommand)

	return configCommand
}

func configPath() (string, error) {
	if configFile != "" {
		return configFile, nil
	}
	return config.Path()
}
