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
	"voiceclock/internal/infra/assets"
	"voiceclock/internal/infra/backend"
	"voiceclock/internal/infra/button"
	"voiceclock/internal/infra/cache"
	"voiceclock/internal/infra/espeak"
	"voiceclock/internal/infra/led"
	"voiceclock/internal/infra/player"
	"voiceclock/internal/infra/power"
	"voiceclock/internal/infra/probe"
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

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		logger.Info("shutting down")
		cancel()
	}()

	api := backend.NewClient(cfg.Backend.BaseURL, cfg.Backend.APIKey, backend.Timeouts{
		Synthesis:  cfg.Backend.SynthesisTimeoutValue(),
		NextAction: cfg.Backend.NextActionTimeoutValue(),
		Health:     cfg.Backend.HealthTimeoutValue(),
	})

	connectivity := probe.New(cfg.Probe.Addr, cfg.Probe.TimeoutValue(), api, logger)

	speech := application.NewSpeechDelivery(
		cache.NewFS(cfg.Device.CacheDir),
		api,
		cfg.TTS.Voice,
		cfg.TTS.Format,
		logger,
	)

	clips := assets.NewDir(cfg.Device.AssetsDir)
	audioOut := player.NewBeep()
	localVoice := espeak.NewVoice(cfg.Device.Language)

	var indicator application.Indicator = application.NoopIndicator{}
	if cfg.Device.LEDPath != "" {
		indicator = led.NewSysfs(cfg.Device.LEDPath, logger)
	}

	dispatcher := application.NewDispatcher(
		connectivity,
		api,
		speech,
		audioOut,
		clips,
		localVoice,
		power.NewSystem(logger),
		cfg.Device.SafeMax,
		logger,
	)

	clock := application.NewClock(
		createPressSource(cfg.Button, logger),
		dispatcher,
		indicator,
		audioOut,
		clips,
		cfg.Device.Debounce(),
		logger,
	)

	logger.Info("starting voice clock",
		"button_source", cfg.Button.Source,
		"debounce", cfg.Device.Debounce().String(),
	)

	if err := clock.Run(ctx); err != nil && err != context.Canceled {
		logger.Error("voice clock error", "error", err)
		os.Exit(1)
	}
}

func createPressSource(cfg config.ButtonConfig, logger *slog.Logger) application.PressSource {
	switch cfg.Source {
	case "http":
		return button.NewHTTPSource(cfg.HTTPAddr, logger)
	case "stdin":
		return button.NewStdinSource()
	default:
		logger.Warn("unknown button source, using http", "source", cfg.Source)
		return button.NewHTTPSource(cfg.HTTPAddr, logger)
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
