package jobs

import (
	"context"
	"time"

	"pamigay-backend/internal/logger"
)

const jobTimeout = 5 * time.Minute

// ExpireOverdueDonations cancels open donations whose pickup deadline has
// passed. A failed sweep is picked up again on the next tick.
func (jr *JobRunner) ExpireOverdueDonations() {
	jr.runWithRecovery("ExpireOverdueDonations", func() {
		ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
		defer cancel()

		n, err := jr.lifecycle.ExpireOverdueDonations(ctx, jr.now())
		if err != nil {
			logger.Error("Failed to expire overdue donations", "error", err)
			return
		}
		logger.Info("Expired overdue donations", "count", n)
	})
}
