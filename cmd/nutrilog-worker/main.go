package main

import (
	"context"
	"os"
	"time"

	"nutrilog/internal/amqp"
	"nutrilog/internal/cli"
	applog "nutrilog/internal/log"
	"nutrilog/internal/sheets"
	gsheet "nutrilog/internal/sheets/google"
	"nutrilog/internal/sheets/memory"
	"nutrilog/internal/worker"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(applog.ComponentWorker)

	logger.Info("Starting nutrilog-worker")

	cfg := cli.LoadAndValidateConfig(logger)

	// Resolve the sync destination. Without a spreadsheet id the worker
	// still drains the queue, appending into an in-process store, so
	// local setups do not accumulate unacked messages.
	var appender sheets.MealAppender
	if cfg.GoogleSpreadsheetID != "" {
		client, err := gsheet.NewFromEnv(context.Background())
		if err != nil {
			logger.Error("Failed to initialize Google Sheets client", applog.FieldError, err)
			os.Exit(1)
		}
		appender = client
		logger.Info("Google Sheets client initialized", "spreadsheet_id", cfg.GoogleSpreadsheetID)
	} else {
		appender = memory.New()
		logger.Warn("No GOOGLE_SPREADSHEET_ID provided, syncing to in-memory store")
	}

	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", applog.FieldError, err)
		os.Exit(1)
	}
	defer amqpClient.Close()

	syncWorker := worker.NewSyncWorker(worker.JournalSource{Path: cfg.JournalPath}, appender)

	ctx, done := cli.GracefulShutdown(logger, 30*time.Second, func() {
		_ = amqpClient.Close()
	})

	consumeErr := make(chan error, 1)
	go func() {
		handler := func(msg *amqp.MealSyncMessage) error {
			return syncWorker.HandleSyncMessage(ctx, msg)
		}
		consumeErr <- amqpClient.ConsumeMealSync(ctx, handler)
	}()

	select {
	case err := <-consumeErr:
		if err != nil && err != context.Canceled {
			logger.Error("Message consumption failed", applog.FieldError, err)
			os.Exit(1)
		}
	case <-ctx.Done():
		<-done
	}
	logger.Info("Worker stopped")
}
