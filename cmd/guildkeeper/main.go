package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sglre6355/guildkeeper/internal/bot"
	_ "github.com/sglre6355/guildkeeper/internal/modules/diagnostics"
	_ "github.com/sglre6355/guildkeeper/internal/modules/jointocreate"
	_ "github.com/sglre6355/guildkeeper/internal/modules/utility"
)

// version is set at build time via ldflags:
// go build -ldflags "-X main.version=1.0.0" ./cmd/guildkeeper
var version = "dev"

const shutdownTimeout = 30 * time.Second

func main() {
	os.Exit(run())
}

func run() int {
	// Bootstrap logger until the configured one is available
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	cfg, err := bot.LoadConfig()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		return 1
	}

	logger, closer, err := bot.NewLogger(cfg, os.Stdout)
	if err != nil {
		slog.Error("failed to configure logging", "error", err)
		return 1
	}
	defer closer.Close()
	slog.SetDefault(logger)

	slog.Info("starting guildkeeper", "version", version, "store_driver", cfg.Storage.Driver)

	b := bot.NewBot(cfg)
	if err := b.LoadModules(); err != nil {
		slog.Error("failed to load module config", "error", err)
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := b.Start(ctx); err != nil {
		slog.Error("failed to start bot", "error", err)
		return 1
	}

	<-ctx.Done()
	slog.Info("received termination signal, shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := b.Stop(shutdownCtx); err != nil {
		slog.Error("failed to shutdown", "error", err)
		return 1
	}

	slog.Info("completed bot shutdown")
	return 0
}
