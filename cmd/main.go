package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"buff_autoaccept/internal/application"
	"buff_autoaccept/pkg/logx"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	log := logx.New(os.Stdout, slog.LevelInfo)
	slog.SetDefault(log)

	if err := application.Run(ctx, log); err != nil {
		log.Error("application failed", logx.Error(err))
		cancel()
		os.Exit(1) //nolint:gocritic
	}

	log.Info("application stopped")
}
