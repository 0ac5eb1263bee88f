package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/studymate/reviewd/internal/api"
	"github.com/studymate/reviewd/internal/config"
	"github.com/studymate/reviewd/internal/db"
	"github.com/studymate/reviewd/internal/jobs"
	"github.com/studymate/reviewd/internal/logger"
	"github.com/studymate/reviewd/internal/repository/sqlite"
	"github.com/studymate/reviewd/internal/services"
	"github.com/studymate/reviewd/internal/worker"
)

func main() {
	cfg := config.Load()

	// Initialize logger
	log := logger.New(
		logger.WithLevel(logger.ParseLevel(cfg.LogLevel)),
		logger.WithColors(true),
	)
	logger.SetDefault(log)

	log.Info("===========================================")
	log.Info("Reviewd Server Starting")
	log.Info("===========================================")

	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration: %v", err)
		os.Exit(1)
	}
	log.Info("configuration loaded")
	log.Debug("addr=%s", cfg.Addr)
	log.Debug("db_path=%s", cfg.DBPath)
	log.Debug("log_level=%s", cfg.LogLevel)
	log.Debug("stats_worker_count=%d", cfg.StatsWorkerCount)
	log.Debug("stats_queue_size=%d", cfg.StatsQueueSize)
	log.Debug("default_page_size=%d", cfg.DefaultPageSize)
	log.Debug("max_page_size=%d", cfg.MaxPageSize)

	// Open database
	database, err := db.Open(cfg.DBPath)
	if err != nil {
		log.Error("failed to open database: %v", err)
		os.Exit(1)
	}
	defer func() {
		log.Debug("closing database connection")
		database.Close()
	}()

	// Initialize repositories
	masteryRepo := sqlite.NewMasteryRepository(database.DB)
	workbookRepo := sqlite.NewWorkbookRepository(database.DB)
	eventRepo := sqlite.NewEventRepository(database.DB)
	statsRepo := sqlite.NewStatsRepository(database.DB)

	// Initialize worker pool and queue
	statsPool := worker.NewPool(cfg.StatsWorkerCount, cfg.StatsQueueSize)
	statsService := services.NewStatsService(eventRepo, statsRepo)
	jobQueue := jobs.NewWorkerQueue(statsPool, statsService)

	// Initialize services
	reviewService := services.NewReviewService(masteryRepo, eventRepo, jobQueue)
	workbookService := services.NewWorkbookService(workbookRepo, eventRepo)

	srv := &api.Server{
		DB:              database,
		ReviewService:   reviewService,
		StatsService:    statsService,
		WorkbookService: workbookService,
		JobQueue:        jobQueue,
		StatsPool:       statsPool,
		CORSOrigins:     cfg.CORSOrigins,
		DefaultPageSize: cfg.DefaultPageSize,
		MaxPageSize:     cfg.MaxPageSize,
	}

	ctx, cancel := context.WithCancel(context.Background())
	statsPool.Start(ctx)

	// Configure HTTP server
	httpServer := &http.Server{
		Addr:         cfg.Addr,
		Handler:      srv.Routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start HTTP server
	go func() {
		log.Info("HTTP server listening on %s", cfg.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server error: %v", err)
			os.Exit(1)
		}
	}()

	// Wait for shutdown signal
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	sig := <-stop

	log.Info("received signal %v, initiating graceful shutdown", sig)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	log.Debug("shutting down HTTP server")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error: %v", err)
	}

	log.Debug("stopping worker pool")
	cancel()
	statsPool.Stop()

	log.Info("===========================================")
	log.Info("Reviewd Server Stopped")
	log.Info("===========================================")
}
