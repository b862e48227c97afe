package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"wallettrack/internal/config"
	"wallettrack/internal/events"
	"wallettrack/internal/worker"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	// Setup structured logging
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	logger.Info("Starting wallettrack-exporter")

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}
	if cfg.AMQPURL == "" {
		logger.Error("AMQP_URL is required for the exporter")
		os.Exit(1)
	}

	client, err := events.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", "error", err)
		os.Exit(1)
	}
	defer client.Close()

	exportWorker := worker.NewExportWorker(cfg.APIBaseURL, cfg.ExportDir)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Write an initial snapshot so the directory is populated even before
	// the first event arrives.
	if err := exportWorker.RefreshSnapshot(ctx); err != nil {
		logger.Error("Initial snapshot failed", "error", err)
		// Don't exit - the API may simply not be up yet.
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return client.Consume(ctx, func(event *events.Event) error {
			return exportWorker.HandleEvent(ctx, event)
		})
	})

	logger.Info("Exporter running",
		"api_base_url", cfg.APIBaseURL,
		"export_dir", cfg.ExportDir,
		"queue", cfg.AMQPQueue)

	if err := g.Wait(); err != nil && err != context.Canceled {
		logger.Error("Event consumption failed", "error", err)
		os.Exit(1)
	}

	// Give the consumer a moment to finish the delivery in flight.
	time.Sleep(time.Second)
	logger.Info("Exporter shutdown complete")
}
