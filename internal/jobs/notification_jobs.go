package jobs

import (
	"context"

	"pamigay-backend/internal/logger"
)

// PurgeOldNotifications deletes inbox rows older than the retention period
func (jr *JobRunner) PurgeOldNotifications() {
	jr.runWithRecovery("PurgeOldNotifications", func() {
		ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
		defer cancel()

		cutoff := jr.now().Add(-jr.config.NotificationRetention())
		n, err := jr.notifications.DeleteOlderThan(ctx, cutoff)
		if err != nil {
			logger.Error("Failed to purge old notifications", "error", err, "cutoff", cutoff)
			return
		}
		logger.Info("Purged old notifications", "count", n, "cutoff", cutoff)
	})
}
