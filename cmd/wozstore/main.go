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

	"github.com/Augmented-Design-Capability-Studio/replay-prompt-eval/internal/config"
	"github.com/Augmented-Design-Capability-Studio/replay-prompt-eval/internal/store"
)

func main() {
	cfg := config.Load()
	setupLogging(cfg.LogLevel)

	slog.Info("wozstore starting", "port", cfg.StorePort, "file", cfg.DataFile)

	db, err := store.Open(cfg.DataFile)
	if err != nil {
		slog.Error("failed to open message store", "error", err)
		os.Exit(1)
	}

	storeSrv := store.NewServer(db, slog.Default())
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.StorePort),
		Handler: storeSrv.Handler(),
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("HTTP server error", "error", err)
			os.Exit(1)
		}
	}()

	slog.Info("wozstore ready", "port", cfg.StorePort)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh
	slog.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("shutdown error", "error", err)
	}
	slog.Info("wozstore stopped")
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
