package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"pamigay-backend/internal/domain"
	"pamigay-backend/internal/logger"
	"pamigay-backend/internal/repository"
)

type notificationRepository struct {
	db DBTX
}

func NewNotificationRepository(db DBTX) repository.NotificationRepository {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) Create(ctx context.Context, n *domain.Notification) error {
	logger.EnterMethod("notificationRepository.Create", "userID", n.UserID, "type", n.Type)

	query := `INSERT INTO notifications (user_id, type, title, message, related_id, is_read, created_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`
	logger.DatabaseCall("INSERT", "notifications", "userID", n.UserID)
	err := r.db.QueryRowContext(ctx, query, n.UserID, n.Type, n.Title, n.Message, n.RelatedID, n.IsRead, n.CreatedOn).Scan(&n.ID)
	logger.DatabaseResult("INSERT", 1, err, "notificationID", n.ID)

	if err != nil {
		logger.ExitMethodWithError("notificationRepository.Create", err, "userID", n.UserID)
		return storageErr("create notification", err)
	}
	logger.ExitMethod("notificationRepository.Create", "notificationID", n.ID)
	return nil
}

func (r *notificationRepository) List(ctx context.Context, userID int32, limit, offset int32) ([]domain.Notification, int32, error) {
	var count int32
	if err := r.db.QueryRowContext(ctx, `SELECT count(*) FROM notifications WHERE user_id = $1`, userID).Scan(&count); err != nil {
		return nil, 0, storageErr("count notifications", err)
	}

	query := `SELECT id, user_id, type, title, message, related_id, is_read, created_on
	          FROM notifications WHERE user_id = $1 ORDER BY created_on DESC, id DESC LIMIT $2 OFFSET $3`
	rows, err := r.db.QueryContext(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, 0, storageErr("list notifications", err)
	}
	defer rows.Close()

	var notes []domain.Notification
	for rows.Next() {
		var (
			n       domain.Notification
			related sql.NullInt32
		)
		if err := rows.Scan(&n.ID, &n.UserID, &n.Type, &n.Title, &n.Message, &related, &n.IsRead, &n.CreatedOn); err != nil {
			return nil, 0, storageErr("scan notification", err)
		}
		n.RelatedID = int32Ptr(related)
		notes = append(notes, n)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, storageErr("list notifications", err)
	}
	return notes, count, nil
}

func (r *notificationRepository) MarkAsRead(ctx context.Context, id, userID int32) error {
	query := `UPDATE notifications SET is_read = TRUE WHERE id = $1 AND user_id = $2`
	result, err := r.db.ExecContext(ctx, query, id, userID)
	if err != nil {
		return storageErr("mark notification read", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return storageErr("mark notification read", err)
	}
	if rows == 0 {
		return notFound(fmt.Sprintf("notification %d", id))
	}
	return nil
}

func (r *notificationRepository) MarkAllAsRead(ctx context.Context, userID int32) (int64, error) {
	result, err := r.db.ExecContext(ctx, `UPDATE notifications SET is_read = TRUE WHERE user_id = $1 AND is_read = FALSE`, userID)
	if err != nil {
		return 0, storageErr("mark all notifications read", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return 0, storageErr("mark all notifications read", err)
	}
	return rows, nil
}

func (r *notificationRepository) UnreadCount(ctx context.Context, userID int32) (int32, error) {
	var count int32
	err := r.db.QueryRowContext(ctx, `SELECT count(*) FROM notifications WHERE user_id = $1 AND is_read = FALSE`, userID).Scan(&count)
	if err != nil {
		return 0, storageErr("count unread notifications", err)
	}
	return count, nil
}

func (r *notificationRepository) DeleteOlderThan(ctx context.Context, before time.Time) (int64, error) {
	logger.DatabaseCall("DELETE", "notifications", "before", before)
	result, err := r.db.ExecContext(ctx, `DELETE FROM notifications WHERE created_on < $1`, before)
	if err != nil {
		return 0, storageErr("purge notifications", err)
	}
	rows, err := result.RowsAffected()
	logger.DatabaseResult("DELETE", rows, err)
	if err != nil {
		return 0, storageErr("purge notifications", err)
	}
	return rows, nil
}
