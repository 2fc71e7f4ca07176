package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"dictdoy/pkg/logger"
	"dictdoy/pkg/runner"

	"github.com/spf13/cobra"
)

var (
	configFile string
	logLevel   string
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCommand().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	rootCommand := &cobra.Command{
		Use:           "dictdoy-cli",
		Short:         "English-Chinese dictionary for the terminal",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	flags := rootCommand.PersistentFlags()
	flags.StringVar(&configFile, "config", "", "config file (default is <user config dir>/Dictdoy/config.toml)")
	flags.StringVar(&logLevel, "log-level", "", "override log.level from the config file")

	rootCommand.AddCommand(
		newLookupCommand(),
		newExportCommand(),
		newConfigCommand(),
	)
	return rootCommand
}

// loadServices loads the configuration and the dictionary for a command.
func loadServices(cmd *cobra.Command) (*runner.Services, error) {
	svc, err := runner.Start(cmd.Context(), configFile, runner.LoadCallbacks{})
	if err != nil {
		return nil, err
	}
	if logLevel != "" {
		level, err := logger.ParseLevel(logLevel)
		if err != nil {
			return nil, fmt.Errorf("invalid --log-level: %w", err)
		}
		svc.Logger.SetLevel(level)
	}
	return svc, nil
}
