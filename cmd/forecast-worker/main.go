package main

import (
	"context"
	"errors"
	"os"
	"time"

	"fintrack/internal/amqp"
	"fintrack/internal/cli"
	"fintrack/internal/core"
	"fintrack/internal/forecast"
	"fintrack/internal/services"
	gsheet "fintrack/internal/sheets/google"
	"fintrack/internal/worker"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger()

	logger.Info("Starting forecast-worker")

	cfg := cli.LoadAndValidateConfig(logger)
	reg := core.DefaultRegistry(cfg.EuroINRRate)

	repo := cli.InitSQLite(logger, cfg.SQLiteDBPath)
	defer repo.Close()

	if cfg.GoogleSpreadsheetID == "" {
		logger.Error("GOOGLE_SPREADSHEET_ID is required for the forecast worker")
		os.Exit(1)
	}
	sheetsClient, err := gsheet.NewFromEnv(context.Background(), reg)
	if err != nil {
		logger.Error("Failed to initialize Google Sheets client", "error", err)
		os.Exit(1)
	}
	logger.Info("Google Sheets client initialized",
		"spreadsheet_id", cfg.GoogleSpreadsheetID,
		"sheet", cfg.ForecastSheetName)

	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", "error", err)
		os.Exit(1)
	}
	defer amqpClient.Close()

	forecastSvc := services.NewForecastService(repo, forecast.New(reg), cfg.ForecastCacheTTL)
	w := worker.NewForecastWorker(forecastSvc, sheetsClient, cfg.DefaultMonths)

	ctx, done := cli.GracefulShutdown(logger, 30*time.Second, nil)

	// Push once on startup so the sheet recovers from downtime.
	if err := w.Resync(ctx); err != nil {
		logger.Error("Startup resync failed", "error", err)
	}

	// A consume failure (broker restart closing the channel) ends Run; exit
	// so the supervisor restarts the worker instead of leaving an idle
	// process waiting for a signal that never relates to the failure.
	if err := w.Run(ctx, amqpClient, cfg.ResyncInterval); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Worker stopped with error", "error", err)
		return
	}

	cli.WaitForShutdown(ctx, done)
	logger.Info("forecast-worker stopped gracefully")
}
