package service

import (
	"context"
	"time"

	"pamigay-backend/internal/domain"
)

// DonationLifecycle owns every state change of a donation and its pickup
// requests. Each operation runs in a single storage transaction.
type DonationLifecycle interface {
	CreateDonation(ctx context.Context, ownerID int32, details domain.DonationDetails, deadline time.Time, window domain.PickupWindow) (*domain.Donation, error)
	UpdateDonation(ctx context.Context, donationID, ownerID int32, details domain.DonationDetails, deadline time.Time, window domain.PickupWindow) (*domain.Donation, error)
	RequestPickup(ctx context.Context, donationID, requesterID int32, notes string, pickupTime *time.Time) (*domain.PickupRequest, error)
	AcceptPickup(ctx context.Context, pickupID, ownerID int32) (*domain.PickupRequest, error)
	RejectPickup(ctx context.Context, pickupID, ownerID int32) (*domain.PickupRequest, error)
	CompletePickup(ctx context.Context, pickupID, actorID int32, rating *int32) (*domain.PickupRequest, error)
	CancelPickup(ctx context.Context, pickupID, requesterID int32) (*domain.PickupRequest, error)
	ExpireOverdueDonations(ctx context.Context, now time.Time) (int, error)
	DeleteDonation(ctx context.Context, donationID, ownerID int32) error
}

type BrowseService interface {
	GetDonation(ctx context.Context, id int32) (*domain.Donation, error)
	ListAvailable(ctx context.Context, category string, page, pageSize int32) ([]domain.Donation, int32, error)
	ListByOwner(ctx context.Context, ownerID int32, status domain.DonationStatus, page, pageSize int32) ([]domain.Donation, int32, error)
	ListDonationPickups(ctx context.Context, donationID, ownerID int32) ([]domain.PickupRequest, error)
	ListMyPickups(ctx context.Context, requesterID int32, status domain.PickupStatus, page, pageSize int32) ([]domain.PickupRequest, int32, error)
	GetStats(ctx context.Context, userID int32) (*domain.UserStats, error)
}

type NotificationService interface {
	GetNotifications(ctx context.Context, userID int32, page, pageSize int32) ([]domain.Notification, int32, error)
	MarkAsRead(ctx context.Context, userID, notificationID int32) error
	MarkAllAsRead(ctx context.Context, userID int32) (int64, error)
	UnreadCount(ctx context.Context, userID int32) (int32, error)
}

// Clock returns the current time. Tests pin it.
type Clock func() time.Time

const (
	defaultPageSize int32 = 20
	maxPageSize     int32 = 100
)

func normalizePage(page, pageSize, fallback int32) (int32, int32) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = fallback
	}
	return page, min(pageSize, maxPageSize)
}
