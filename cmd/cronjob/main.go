package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"pamigay-backend/internal/app"
	"pamigay-backend/internal/config"
	"pamigay-backend/internal/jobs"
	"pamigay-backend/internal/logger"
	"pamigay-backend/internal/scheduler"
	"pamigay-backend/internal/service"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	runOnce := flag.String("run-once", "", "Run a specific job once and exit (e.g., 'expire-donations', 'all')")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting Pamigay Cronjob Runner...", "log_level", cfg.Log.Level)

	if cfg.Storage.Type == "memory" {
		logger.Warn("Cronjob runner is using in-memory storage; it shares no data with the server")
	}

	rt, err := app.Build(context.Background(), cfg)
	if err != nil {
		logger.Error("Failed to initialize runtime", "error", err)
		log.Fatalf("Failed to initialize runtime: %v", err)
	}
	defer rt.Close()

	// Initialize Services
	lifecycle := service.NewDonationLifecycle(rt.Store, rt.Dispatcher, time.Now)

	// Initialize Job Runner
	jobRunner := jobs.NewJobRunner(lifecycle, rt.Store.Notifications(), cfg, time.Now)

	// Check if running a single job
	if *runOnce != "" {
		logger.Info("Running job once", "job", *runOnce)
		if !runJobOnce(jobRunner, *runOnce) {
			rt.Close()
			os.Exit(1)
		}
		logger.Info("Job execution completed", "job", *runOnce)
		return
	}

	// Initialize Scheduler
	cronScheduler, err := scheduler.NewScheduler(jobRunner)
	if err != nil {
		logger.Error("Failed to create scheduler", "error", err)
		rt.Close()
		os.Exit(1)
	}

	// Start scheduler
	cronScheduler.Start()
	logger.Info("Cronjob scheduler is running. Press Ctrl+C to stop.")

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	// Graceful shutdown
	logger.Info("Shutting down cronjob scheduler...")
	cronScheduler.Stop()
	logger.Info("Cronjob scheduler stopped. Goodbye!")
}

// runJobOnce runs a specific job once and reports whether the name was known
func runJobOnce(jobRunner *jobs.JobRunner, jobName string) bool {
	if jobName == "all" {
		jobRunner.RunAll()
		return true
	}
	if err := jobRunner.Run(jobName); err != nil {
		logger.Error("Unknown job name", "job", jobName)
		fmt.Printf("Available jobs:\n")
		fmt.Printf("  - %s\n", jobs.JobExpireDonations)
		fmt.Printf("  - %s\n", jobs.JobPurgeNotifications)
		fmt.Printf("  - all\n")
		return false
	}
	return true
}
