package service

import (
	"context"

	"pamigay-backend/internal/domain"
	"pamigay-backend/internal/logger"
	"pamigay-backend/internal/repository"
)

const defaultNotificationLimit int32 = 50

type notificationService struct {
	noteRepo repository.NotificationRepository
}

func NewNotificationService(noteRepo repository.NotificationRepository) NotificationService {
	return &notificationService{noteRepo: noteRepo}
}

func (s *notificationService) GetNotifications(ctx context.Context, userID int32, page, pageSize int32) ([]domain.Notification, int32, error) {
	page, pageSize = normalizePage(page, pageSize, defaultNotificationLimit)
	return s.noteRepo.List(ctx, userID, pageSize, (page-1)*pageSize)
}

func (s *notificationService) MarkAsRead(ctx context.Context, userID, notificationID int32) error {
	return s.noteRepo.MarkAsRead(ctx, notificationID, userID)
}

func (s *notificationService) MarkAllAsRead(ctx context.Context, userID int32) (int64, error) {
	n, err := s.noteRepo.MarkAllAsRead(ctx, userID)
	if err != nil {
		return 0, err
	}
	logger.Debug("Notifications marked as read", "userID", userID, "count", n)
	return n, nil
}

func (s *notificationService) UnreadCount(ctx context.Context, userID int32) (int32, error) {
	return s.noteRepo.UnreadCount(ctx, userID)
}
