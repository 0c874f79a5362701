package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"feedrelay/app/api"
	"feedrelay/app/article"
	"feedrelay/app/cfg"
	"feedrelay/app/config"
	"feedrelay/app/database"
	"feedrelay/app/delivery"
	"feedrelay/app/tasks"
)

func main() {
	appConfig, err := cfg.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}
	if appConfig == nil {
		// Help was shown, exit gracefully
		return
	}

	logLevel := slog.LevelInfo
	if appConfig.Debug {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel})))

	slog.Info("Starting feedrelay", "version", appConfig.Version)

	db, err := database.NewConnection(appConfig.DatabasePath)
	if err != nil {
		slog.Error("Failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	version, dirty, err := database.RunMigrations(db)
	if err != nil {
		slog.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}
	slog.Info("Database ready", "path", appConfig.DatabasePath, "migration_version", version, "dirty", dirty)

	loader := config.NewLoader(appConfig.FeedsDir)
	configs, err := loader.LoadAll()
	if err != nil {
		slog.Error("Failed to load feed configurations", "error", err)
		os.Exit(1)
	}
	slog.Info("Loaded feed configurations", "count", len(configs), "dir", appConfig.FeedsDir)

	feedRepo := database.NewFeedRepository(db)
	fieldRepo := database.NewArticleFieldRepository(db)
	comparisonRepo := database.NewComparisonRepository(db)
	deliveryRepo := database.NewDeliveryRepository(db)

	parser := article.NewParser()
	engine := article.NewEngine(fieldRepo, comparisonRepo)
	classifier := article.NewClassifier(fieldRepo)
	filterer := article.NewFilterer()
	ledger := delivery.NewLedger(deliveryRepo)
	limiter := delivery.NewRateLimiter(ledger)

	httpClient := &http.Client{
		Timeout: 30 * time.Second,
		Transport: &http.Transport{
			MaxIdleConns:        10,
			IdleConnTimeout:     30 * time.Second,
			MaxIdleConnsPerHost: 5,
		},
	}

	scheduler := tasks.NewScheduler(configs, feedRepo, httpClient, parser, engine,
		classifier, filterer, ledger, limiter)
	scheduler.Start()
	defer scheduler.Stop()
	slog.Info("Background scheduler started", "workers", appConfig.WorkerCount, "interval_seconds", appConfig.SchedulerInterval)

	apiHandler := api.NewHandler(configs, feedRepo, fieldRepo, deliveryRepo, ledger, appConfig.Version)
	server := api.NewServer(apiHandler, appConfig.APIAccessKey)

	httpServer := &http.Server{
		Addr:         ":" + appConfig.Port,
		Handler:      server,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	serverErrChan := make(chan error, 1)
	go func() {
		slog.Info("HTTP server listening", "port", appConfig.Port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		slog.Info("Received signal", "signal", sig.String())
	case err := <-serverErrChan:
		slog.Error("Server error", "error", err)
	}

	slog.Info("Shutting down gracefully")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	}

	// Scheduler is stopped via defer
	slog.Info("Shutdown complete")
}
