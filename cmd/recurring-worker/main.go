package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"financehub/internal/amqp"
	"financehub/internal/config"
	"financehub/internal/log"
	"financehub/internal/services"
	"financehub/internal/storage"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	logger := log.New(log.Config{
		Level:     log.DefaultConfig().Level,
		Component: log.ComponentRecurring,
	})
	log.SetDefault(logger)

	logger.Info("Starting recurring-worker")

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
	if err != nil {
		logger.Error("Failed to initialize SQLite repository", "error", err, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}
	defer repo.Close()

	// Materialized transactions flow through the transaction service so
	// they reach the sync worker like any manually entered one.
	var amqpClient *amqp.Client
	if cfg.AMQPURL != "" {
		amqpClient, err = amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Warn("Failed to initialize AMQP client, continuing in SQLite-only mode", "error", err)
			amqpClient = nil
		} else {
			defer amqpClient.Close()
			logger.Info("AMQP client initialized - transactions will sync via financehub-worker")
		}
	} else {
		logger.Info("AMQP disabled - transactions will not sync to Google Sheets")
	}

	txService := services.NewTransactionService(repo, amqpClient)
	defer txService.Close()

	processor := services.NewRecurringProcessor(repo, txService)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	processingInterval := cfg.RecurringProcessInterval
	logger.Info("Recurring rule processor configured",
		"interval", processingInterval,
		"sqlite_db", cfg.SQLiteDBPath)

	ticker := time.NewTicker(processingInterval)
	defer ticker.Stop()

	// Run initial processing on startup
	logger.Info("Running initial recurring rule processing...")
	if count, err := processor.ProcessDueRules(ctx, time.Now()); err != nil {
		logger.Error("Initial processing failed", "error", err)
	} else {
		logger.Info("Initial processing complete", "transactions_created", count)
	}

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case now := <-ticker.C:
				logger.Info("Processing due recurring rules...")
				count, err := processor.ProcessDueRules(ctx, now)
				if err != nil {
					logger.Error("Periodic processing failed", "error", err)
				} else {
					logger.Info("Periodic processing complete",
						"transactions_created", count,
						"next_check", now.Add(processingInterval).Format("15:04:05"))
				}
			}
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		logger.Info("Shutdown signal received", "signal", sig.String())
	case <-ctx.Done():
		logger.Info("Context cancelled")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	logger.Info("Shutting down recurring-worker...")
	cancel()

	select {
	case <-shutdownCtx.Done():
		logger.Warn("Shutdown timeout reached")
	case <-time.After(2 * time.Second):
		logger.Info("Recurring-worker shutdown complete")
	}
}
