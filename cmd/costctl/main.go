package main

import (
	"context"
	"fmt"
	"os"

	"costs/internal/cli"
	"costs/internal/cli/commands"
	applog "costs/internal/log"
)

func main() {
	cli.LoadEnvFile()

	provider := func(ctx context.Context) (commands.Service, func() error, error) {
		cfg, err := cli.LoadToolConfig()
		if err != nil {
			return nil, nil, err
		}
		cli.WarnEphemeral(os.Stderr, cfg)
		logger := applog.WithComponent(cli.SetupLogger(cfg), applog.ComponentCLI)
		res, err := cli.CreateBackend(ctx, logger, cfg)
		if err != nil {
			return nil, nil, err
		}
		return res.Service, res.Cleanup, nil
	}

	if err := commands.NewRootCmd(provider, os.Stdout).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
