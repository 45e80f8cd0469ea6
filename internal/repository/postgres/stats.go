package postgres

import (
	"context"
	"database/sql"
	"errors"

	"pamigay-backend/internal/domain"
	"pamigay-backend/internal/logger"
	"pamigay-backend/internal/repository"
)

type statsRepository struct {
	db DBTX
}

func NewStatsRepository(db DBTX) repository.StatsRepository {
	return &statsRepository{db: db}
}

func (r *statsRepository) Increment(ctx context.Context, userID int32, donated, collected int32) error {
	query := `INSERT INTO user_stats (user_id, total_donated, total_collected, last_updated)
	          VALUES ($1, $2, $3, NOW())
	          ON CONFLICT (user_id) DO UPDATE SET
	              total_donated = user_stats.total_donated + EXCLUDED.total_donated,
	              total_collected = user_stats.total_collected + EXCLUDED.total_collected,
	              last_updated = EXCLUDED.last_updated`
	logger.DatabaseCall("UPSERT", "user_stats", "userID", userID, "donated", donated, "collected", collected)
	_, err := r.db.ExecContext(ctx, query, userID, donated, collected)
	logger.DatabaseResult("UPSERT", 1, err)
	return storageErr("increment user stats", err)
}

// Get returns zeroed stats for users that never completed a pickup.
func (r *statsRepository) Get(ctx context.Context, userID int32) (*domain.UserStats, error) {
	s := &domain.UserStats{UserID: userID}
	query := `SELECT total_donated, total_collected, last_updated FROM user_stats WHERE user_id = $1`
	err := r.db.QueryRowContext(ctx, query, userID).Scan(&s.TotalDonated, &s.TotalCollected, &s.LastUpdated)
	if errors.Is(err, sql.ErrNoRows) {
		return s, nil
	}
	if err != nil {
		return nil, storageErr("get user stats", err)
	}
	return s, nil
}
