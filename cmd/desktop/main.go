package main

import (
	"context"
	"fmt"
	"os"

	"dictdoy/pkg/gui"
	"dictdoy/pkg/runner"
	"dictdoy/pkg/state"

	"github.com/spf13/pflag"
)

func main() {
	configFile := pflag.String("config", "", "config file (default is <user config dir>/Dictdoy/config.toml)")
	stateFile := pflag.String("state", "", "state file (default is state.toml next to the config file)")
	pflag.Parse()

	ctx := context.Background()
	svc, err := runner.Start(ctx, *configFile, runner.LoadCallbacks{
		OnError: func(stage string, err error) {
			fmt.Fprintf(os.Stderr, "%s: %v\n", stage, err)
		},
	})
	if err != nil {
		os.Exit(1)
	}

	path := *stateFile
	if path == "" {
		if path, err = state.DefaultPath(); err != nil {
			svc.Logger.Errorf("Failed to locate state file: %v", err)
			os.Exit(1)
		}
	}

	gui.CreateGUI(ctx, svc, state.NewStore(path, svc.Logger))
}
