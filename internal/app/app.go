// Package app assembles storage and notification delivery from configuration.
// Both binaries share it.
package app

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"pamigay-backend/internal/config"
	"pamigay-backend/internal/db"
	"pamigay-backend/internal/logger"
	"pamigay-backend/internal/notify"
	"pamigay-backend/internal/repository"
	"pamigay-backend/internal/repository/memory"
	"pamigay-backend/internal/repository/postgres"
)

// Runtime holds the long-lived dependencies of a process.
type Runtime struct {
	Store      repository.Store
	Dispatcher *notify.Dispatcher

	closers []func()
}

// Build opens the configured store and starts the notification dispatcher.
// Call Close to drain pending events and release connections.
func Build(ctx context.Context, cfg *config.Config) (*Runtime, error) {
	rt := &Runtime{}

	store, err := rt.openStore(cfg)
	if err != nil {
		rt.Close()
		return nil, err
	}
	rt.Store = store

	sinks, err := rt.buildSinks(ctx, cfg, store)
	if err != nil {
		rt.Close()
		return nil, err
	}

	n := cfg.Notifications
	rt.Dispatcher = notify.NewDispatcher(notify.DispatcherConfig{
		Workers:         n.Workers,
		QueueSize:       n.QueueSize,
		DeliveryTimeout: time.Duration(n.DeliveryTimeoutSeconds) * time.Second,
	}, sinks...)
	rt.Dispatcher.Start(ctx)
	// Dispatcher closes first so queued events still reach open sinks.
	rt.closers = append([]func(){rt.Dispatcher.Close}, rt.closers...)

	return rt, nil
}

func (rt *Runtime) openStore(cfg *config.Config) (repository.Store, error) {
	if cfg.Storage.Type == "memory" {
		logger.Warn("Using in-memory storage; data is lost on restart")
		return memory.NewStore(), nil
	}

	logger.Info("Connecting to database...", "host", cfg.Database.Host, "port", cfg.Database.Port, "database", cfg.Database.Database)
	conn, err := db.Open(cfg.GetDatabaseConnectionString())
	if err != nil {
		return nil, err
	}
	rt.closers = append(rt.closers, func() { closeDB(conn) })
	logger.Info("Database connection established")

	if cfg.Database.AutoMigrate {
		if err := db.Migrate(conn); err != nil {
			return nil, err
		}
	}
	return postgres.NewStore(conn), nil
}

func (rt *Runtime) buildSinks(ctx context.Context, cfg *config.Config, store repository.Store) ([]notify.Sink, error) {
	n := cfg.Notifications
	renderer := notify.NewRenderer(store)
	sinks := []notify.Sink{notify.NewInboxSink(store, renderer)}

	if len(n.Kafka.Brokers) > 0 {
		kafka, err := notify.NewKafkaSink(n.Kafka.Brokers, n.Kafka.Topic)
		if err != nil {
			return nil, fmt.Errorf("kafka sink: %w", err)
		}
		rt.closers = append(rt.closers, func() {
			if err := kafka.Close(); err != nil {
				logger.Warn("Failed to close kafka producer", "error", err)
			}
		})
		sinks = append(sinks, kafka)
		logger.Info("Kafka sink enabled", "brokers", n.Kafka.Brokers, "topic", n.Kafka.Topic)
	}

	if n.SendGrid.APIKey != "" {
		sinks = append(sinks, notify.NewEmailSink(n.SendGrid.APIKey, n.SendGrid.FromEmail, n.SendGrid.FromName, store, renderer))
		logger.Info("Email sink enabled", "from", n.SendGrid.FromEmail)
	}

	if n.Firebase.CredentialsFile != "" {
		push, err := notify.NewPushSink(ctx, n.Firebase.CredentialsFile, store, renderer)
		if err != nil {
			return nil, fmt.Errorf("push sink: %w", err)
		}
		sinks = append(sinks, push)
		logger.Info("Push sink enabled")
	}

	return sinks, nil
}

// Close releases everything Build acquired, in order.
func (rt *Runtime) Close() {
	for _, c := range rt.closers {
		c()
	}
	rt.closers = nil
}

func closeDB(conn *sql.DB) {
	if err := conn.Close(); err != nil {
		logger.Warn("Failed to close database", "error", err)
	}
}
