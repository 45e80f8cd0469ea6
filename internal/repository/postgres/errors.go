package postgres

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"pamigay-backend/internal/domain"

	"github.com/lib/pq"
)

const (
	foreignKeyViolation = "23503"
	uniqueViolation     = "23505"
)

// storageErr translates driver errors into domain error kinds.
func storageErr(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: %s", domain.ErrNotFound, op)
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case uniqueViolation, foreignKeyViolation:
			return fmt.Errorf("%w: %s: %s", domain.ErrConflict, op, pqErr.Constraint)
		}
	}
	return fmt.Errorf("%w: %s: %w", domain.ErrStorage, op, err)
}

func notFound(op string) error {
	return fmt.Errorf("%w: %s", domain.ErrNotFound, op)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func int32Ptr(v sql.NullInt32) *int32 {
	if !v.Valid {
		return nil
	}
	return &v.Int32
}

func timePtr(v sql.NullTime) *time.Time {
	if !v.Valid {
		return nil
	}
	return &v.Time
}

func pageOffset(page, pageSize int32) int32 {
	if page < 1 {
		page = 1
	}
	return (page - 1) * pageSize
}
