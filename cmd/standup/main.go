package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/johnquangdev/standup-assistant/internal/cli"
	"github.com/johnquangdev/standup-assistant/pkg/config"
	pkglogger "github.com/johnquangdev/standup-assistant/pkg/logger"
)

func main() {
	if err := run(); err != nil {
		cli.NewFormatter(os.Stderr).Error(err.Error())
		os.Exit(1)
	}
}

func run() error {
	_ = godotenv.Load()

	cfg, err := config.LoadStandup()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger, err := pkglogger.NewQuiet()
	if err != nil {
		return fmt.Errorf("initializing logger: %w", err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	deps := &cli.Dependencies{
		Standup: cfg,
		Logger:  logger,
		In:      os.Stdin,
		Out:     os.Stdout,
	}

	return cli.NewRootCmd(deps).ExecuteContext(ctx)
}
