package main

import (
	"context"
	"errors"
	"os"
	"time"

	"myfinance/internal/amqp"
	"myfinance/internal/cli"
	"myfinance/internal/log"
	"myfinance/internal/services"
	gsheet "myfinance/internal/sheets/google"
	"myfinance/internal/worker"
)

func main() {
	cli.LoadEnvFile()
	cfg := cli.LoadAndValidateConfig(log.New(log.DefaultConfig()))
	logger := cli.SetupLogger(cfg.LogLevel, log.ComponentWorker)

	logger.Info("Starting ledger-worker", log.FieldOperation, log.OpStartup)

	if !cfg.SheetsEnabled() {
		logger.Error("Google Sheets export is not configured, set GOOGLE_SPREADSHEET_ID",
			log.FieldErrorType, log.ErrorTypeConfiguration)
		os.Exit(1)
	}

	repo := cli.InitSQLite(logger, cfg.SQLiteDBPath)
	svc := services.NewLedgerService(repo,
		services.WithLocation(cfg.Location()),
		services.WithLogger(logger))

	sheetsClient, err := gsheet.New(context.Background(), gsheet.Options{
		SpreadsheetID:   cfg.GoogleSpreadsheetID,
		CredentialsJSON: cfg.GoogleServiceAccountJSON,
		CredentialsFile: cfg.GoogleServiceAccountFile,
	})
	if err != nil {
		logger.Error("Failed to initialize Google Sheets client",
			log.FieldError, err,
			log.FieldErrorType, log.ErrorTypeAuth)
		os.Exit(1)
	}
	logger.Info("Google Sheets client initialized", "spreadsheet_id", cfg.GoogleSpreadsheetID)

	w := worker.NewExportWorker(svc, repo, sheetsClient, cfg.GoogleSheetPrefix, logger)

	var amqpClient *amqp.Client
	if cfg.AMQPURL != "" {
		amqpClient, err = amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Warn("Failed to initialize AMQP client, relying on periodic export",
				log.FieldError, err,
				log.FieldErrorType, log.ErrorTypeNetwork)
			amqpClient = nil
		}
	}

	ctx, done := cli.GracefulShutdown(logger, 30*time.Second, func() {
		if amqpClient != nil {
			if err := amqpClient.Close(); err != nil {
				logger.Warn("Failed to close AMQP client", log.FieldError, err)
			}
		}
	})

	if amqpClient != nil {
		go func() {
			err := amqpClient.ConsumeLedgerEvents(ctx, w.HandleLedgerEvent)
			if err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("Event consumption stopped", log.FieldError, err)
			}
		}()
	} else {
		logger.Info("Change feed disabled, exporting on interval only", "interval", cfg.ExportInterval.String())
	}

	w.Run(ctx, cfg.ExportInterval)

	cli.WaitForShutdown(ctx, done)
	if err := repo.Close(); err != nil {
		logger.Warn("Failed to close SQLite repository", log.FieldError, err)
	}
	logger.Info("Worker stopped gracefully")
}
