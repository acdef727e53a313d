package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/riskibarqy/player-rating/internal/app"
	"github.com/riskibarqy/player-rating/internal/config"
	"github.com/riskibarqy/player-rating/internal/interfaces/cli"
	"github.com/riskibarqy/player-rating/internal/platform/logging"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	// Logs go to stderr so table output stays clean.
	logger := logging.New(logging.Options{
		Level:  max(cfg.LogLevel, logging.LevelWarn),
		Format: logging.FormatConsole,
		Output: os.Stderr,
	})
	logging.SetDefault(logger)
	defer func() { _ = logger.Sync() }()

	open := func(ctx context.Context) (cli.Services, func(), error) {
		container, err := app.Build(ctx, cfg, logger)
		if err != nil {
			return cli.Services{}, nil, err
		}
		return container.CLIServices(), container.Close, nil
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := cli.NewRootCommand(open, os.Stdout).ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		stop()
		_ = logger.Sync()
		os.Exit(1)
	}
}
