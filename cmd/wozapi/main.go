package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Augmented-Design-Capability-Studio/replay-prompt-eval/internal/api"
	"github.com/Augmented-Design-Capability-Studio/replay-prompt-eval/internal/config"
	"github.com/Augmented-Design-Capability-Studio/replay-prompt-eval/internal/llm"
	"github.com/Augmented-Design-Capability-Studio/replay-prompt-eval/internal/orchestrator"
	"github.com/Augmented-Design-Capability-Studio/replay-prompt-eval/internal/storeclient"
)

func main() {
	cfg := config.Load()
	setupLogging(cfg.LogLevel)

	slog.Info("wozapi starting", "port", cfg.APIPort)

	if cfg.OpenAIAPIKey == "" {
		slog.Error("OPENAI_API_KEY is required")
		os.Exit(1)
	}
	model := llm.NewClient(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, cfg.OpenAIModel, slog.Default())
	slog.Info("openai client ready", "model", cfg.OpenAIModel)

	messages := storeclient.New(cfg.StoreURL)
	orch := orchestrator.New(model, messages, cfg.MaxImageWidth, slog.Default())

	apiSrv := api.NewServer(orch, cfg.MediaDir, slog.Default())
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.APIPort),
		Handler: apiSrv.Handler(),
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("HTTP server error", "error", err)
			os.Exit(1)
		}
	}()

	slog.Info("wozapi ready", "port", cfg.APIPort, "media_dir", cfg.MediaDir, "store_url", cfg.StoreURL)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh
	slog.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("shutdown error", "error", err)
	}
	slog.Info("wozapi stopped")
}

func setupLogging(level string) {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl})
	slog.SetDefault(slog.New(handler))
}
