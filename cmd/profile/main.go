package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/gophprofile/internal/buildinfo"
	"github.com/dmitrijs2005/gophprofile/internal/cli"
	"github.com/dmitrijs2005/gophprofile/internal/config"
	"github.com/dmitrijs2005/gophprofile/internal/logging"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("%v", err)
	}
}

func run() error {
	buildinfo.PrintBuildData(os.Stdout)

	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	logger, err := logging.New(logging.Options{
		Backend: cfg.Logger,
		Level:   cfg.LogLevel,
		Format:  cfg.LogFormat,
	}, os.Stderr)
	if err != nil {
		return fmt.Errorf("logger: %w", err)
	}
	if s, ok := logger.(interface{ Sync() error }); ok {
		defer func() { _ = s.Sync() }()
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := cli.NewApp(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := app.Close(); err != nil {
			logger.Error(ctx, "error closing app", "err", err)
		}
	}()

	app.Run(ctx)
	return nil
}
