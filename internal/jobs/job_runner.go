package jobs

import (
	"fmt"
	"time"

	"pamigay-backend/internal/config"
	"pamigay-backend/internal/logger"
	"pamigay-backend/internal/repository"
	"pamigay-backend/internal/service"
)

const (
	JobExpireDonations    = "expire-donations"
	JobPurgeNotifications = "purge-notifications"
)

// JobRunner coordinates all scheduled jobs
type JobRunner struct {
	lifecycle     service.DonationLifecycle
	notifications repository.NotificationRepository
	config        *config.Config
	now           service.Clock
}

// NewJobRunner creates a new job runner with all dependencies
func NewJobRunner(lifecycle service.DonationLifecycle, notifications repository.NotificationRepository, cfg *config.Config, clock service.Clock) *JobRunner {
	if clock == nil {
		clock = time.Now
	}
	return &JobRunner{
		lifecycle:     lifecycle,
		notifications: notifications,
		config:        cfg,
		now:           clock,
	}
}

// Config returns the configuration the runner was built with
func (jr *JobRunner) Config() *config.Config {
	return jr.config
}

// runWithRecovery wraps job execution with panic recovery
func (jr *JobRunner) runWithRecovery(jobName string, jobFunc func()) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Job panicked", "job", jobName, "panic", r)
		}
	}()

	logger.Info("Starting job", "job", jobName)
	start := time.Now()
	jobFunc()
	logger.Info("Job completed", "job", jobName, "duration", time.Since(start))
}

// Run executes a single job by name (for manual execution)
func (jr *JobRunner) Run(jobName string) error {
	switch jobName {
	case JobExpireDonations:
		jr.ExpireOverdueDonations()
	case JobPurgeNotifications:
		jr.PurgeOldNotifications()
	default:
		return fmt.Errorf("unknown job: %s", jobName)
	}
	return nil
}

// RunAll runs every job once (for manual execution)
func (jr *JobRunner) RunAll() {
	jr.ExpireOverdueDonations()
	jr.PurgeOldNotifications()
}
