package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/JRI98/chatrescuer/internal/config"
	"github.com/JRI98/chatrescuer/server/handlers"
	"github.com/JRI98/chatrescuer/server/services"
)

func main() {
	cfg, err := config.LoadServer()
	if err != nil {
		slog.Error("Could not load configuration", slog.Any("err", err))
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}))
	slog.SetDefault(logger)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	store, err := services.OpenStore(ctx, cfg.DatabaseDriver, cfg.DatabaseURL)
	if err != nil {
		slog.Error("Could not open store", slog.Any("err", err))
		os.Exit(1)
	}

	var events handlers.EventFeed = services.NopFeed{}
	if cfg.NATSURL != "" {
		events, err = services.NewNATSService(ctx, cfg.NATSURL)
		if err != nil {
			slog.Error("Could not initialize event feed", slog.Any("err", err))
			os.Exit(1)
		}
	} else {
		slog.Warn("No NATS URL configured, events are disabled")
	}

	handler := handlers.NewHandler(store, events)
	defer handler.Cleanup()

	e := newServer(handler, logger, cfg.SignatureSkew)

	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && err != http.ErrServerClosed {
			slog.Error("Server start error", slog.Any("err", err))
			os.Exit(1)
		}
	}()

	slog.Info("Server started", slog.String("port", cfg.Port), slog.String("driver", cfg.DatabaseDriver))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt)
	<-quit

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server shutdown error", slog.Any("err", err))
	} else {
		slog.Info("Server successfully shutdown")
	}
}
