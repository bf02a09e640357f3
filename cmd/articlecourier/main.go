package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"ArticleCourier/internal/app"
	"ArticleCourier/internal/config"
	"ArticleCourier/internal/logging"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.New("info").Error("configuration invalid", "error", err)
		os.Exit(1)
	}
	logger := logging.New(cfg.Logging.Level)

	application, err := app.New(cfg, logger)
	if err != nil {
		logger.Error("startup failed", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := application.Run(ctx); err != nil && err != context.Canceled {
		logger.Error("application stopped", "error", err)
		os.Exit(1)
	}
}
