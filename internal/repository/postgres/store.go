package postgres

import (
	"context"
	"database/sql"

	"pamigay-backend/internal/logger"
	"pamigay-backend/internal/repository"

	_ "github.com/lib/pq"
)

// DBTX is satisfied by both *sql.DB and *sql.Tx.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type Store struct {
	db   *sql.DB
	q    DBTX
	inTx bool
}

var _ repository.Store = (*Store)(nil)

func NewStore(db *sql.DB) *Store {
	return &Store{db: db, q: db}
}

func (s *Store) Donations() repository.DonationRepository { return NewDonationRepository(s.q) }
func (s *Store) Pickups() repository.PickupRepository     { return NewPickupRepository(s.q) }
func (s *Store) Stats() repository.StatsRepository         { return NewStatsRepository(s.q) }
func (s *Store) Users() repository.UserRepository          { return NewUserRepository(s.q) }
func (s *Store) Notifications() repository.NotificationRepository {
	return NewNotificationRepository(s.q)
}

func (s *Store) WithTx(ctx context.Context, fn func(tx repository.Store) error) error {
	if s.inTx {
		return fn(s)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return storageErr("begin transaction", err)
	}
	defer tx.Rollback()

	if err := fn(&Store{db: s.db, q: tx, inTx: true}); err != nil {
		logger.Debug("Transaction rolled back", "error", err)
		return err
	}
	if err := tx.Commit(); err != nil {
		return storageErr("commit transaction", err)
	}
	return nil
}
