package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpapi "pamigay-backend/internal/api/http"
	"pamigay-backend/internal/app"
	"pamigay-backend/internal/config"
	"pamigay-backend/internal/logger"
	"pamigay-backend/internal/security"
	"pamigay-backend/internal/service"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting Pamigay Backend...", "log_level", cfg.Log.Level, "log_format", cfg.Log.Format)
	logger.Info("Server configuration", "address", cfg.GetServerAddress(), "storage", cfg.Storage.Type)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize storage and notification delivery
	rt, err := app.Build(ctx, cfg)
	if err != nil {
		logger.Error("Failed to initialize runtime", "error", err)
		log.Fatalf("Failed to initialize runtime: %v", err)
	}
	defer rt.Close()

	// Initialize Services
	lifecycle := service.NewDonationLifecycle(rt.Store, rt.Dispatcher, time.Now)
	browseSvc := service.NewBrowseService(rt.Store, time.Now)
	noteSvc := service.NewNotificationService(rt.Store.Notifications())

	// Initialize Security
	tokenManager := security.NewTokenManager(cfg.JWT.Secret, cfg.AccessTokenTTL())

	// Initialize HTTP handlers
	router := httpapi.NewRouter(httpapi.Handlers{
		Donations: httpapi.NewDonationHandler(lifecycle, browseSvc),
		Pickups:   httpapi.NewPickupHandler(lifecycle, browseSvc),
		Account:   httpapi.NewAccountHandler(browseSvc, noteSvc),
		Admin:     httpapi.NewAdminHandler(lifecycle, time.Now),
	}, httpapi.NewAuthMiddleware(tokenManager), cfg.RequestTimeout())

	srv := &http.Server{
		Addr:              cfg.GetServerAddress(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("HTTP server listening", "address", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("HTTP server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()

	// Graceful shutdown
	logger.Info("Shutting down HTTP server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown failed", "error", err)
	}
	logger.Info("Server stopped. Goodbye!")
}
