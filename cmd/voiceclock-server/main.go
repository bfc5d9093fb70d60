package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"voiceclock/config"
	"voiceclock/internal/application"
	"voiceclock/internal/infra/cache"
	"voiceclock/internal/infra/googletts"
	"voiceclock/internal/server"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("loading config", "error", err)
		os.Exit(1)
	}

	logger := setupLogger(cfg.Log)

	speech := application.NewSpeechDelivery(
		cache.NewFS(cfg.Server.CacheDir),
		googletts.New(cfg.Server.Google, logger),
		cfg.Server.Google.Voice,
		"mp3",
		logger,
	)

	srv := server.New(cfg.Server.Addr, speech, &server.CannedResolver{}, logger)

	logger.Info("starting voice clock backend", "addr", cfg.Server.Addr)
	if err := srv.Start(context.Background()); err != nil {
		logger.Error("starting server", "error", err)
		os.Exit(1)
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	logger.Info("shutting down")
	if err := srv.Stop(); err != nil {
		logger.Error("stopping server", "error", err)
		os.Exit(1)
	}
}

func setupLogger(cfg config.LogConfig) *slog.Logger {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	return slog.New(handler)
}
