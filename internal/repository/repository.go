package repository

import (
	"context"
	"time"

	"pamigay-backend/internal/domain"
)

// DonationFilter narrows donation listings. Zero values match everything.
type DonationFilter struct {
	OwnerID       int32
	Status        domain.DonationStatus
	Category      string
	DeadlineAfter time.Time
}

type DonationRepository interface {
	Create(ctx context.Context, donation *domain.Donation) error
	GetByID(ctx context.Context, id int32) (*domain.Donation, error)
	// GetForUpdate locks the donation row until the surrounding transaction ends.
	GetForUpdate(ctx context.Context, id int32) (*domain.Donation, error)
	UpdateStatus(ctx context.Context, id int32, status domain.DonationStatus, acceptedPickupID *int32, at time.Time) error
	// Update rewrites the restaurant editable fields and updated_on. Status and
	// the accepted pickup are left alone.
	Update(ctx context.Context, donation *domain.Donation) error
	Delete(ctx context.Context, id int32) error
	List(ctx context.Context, filter DonationFilter, page, pageSize int32) ([]domain.Donation, int32, error)
	// ExpireOverdue cancels every AVAILABLE donation whose deadline is before now
	// and returns the rows it changed.
	ExpireOverdue(ctx context.Context, now time.Time) ([]domain.Donation, error)
}

type PickupRepository interface {
	Create(ctx context.Context, pickup *domain.PickupRequest) error
	GetByID(ctx context.Context, id int32) (*domain.PickupRequest, error)
	GetForUpdate(ctx context.Context, id int32) (*domain.PickupRequest, error)
	Update(ctx context.Context, pickup *domain.PickupRequest) error
	HasActive(ctx context.Context, donationID, requesterID int32) (bool, error)
	// CancelRequested moves every REQUESTED pickup of the donation except
	// exceptID to CANCELLED and returns them. exceptID 0 cancels all.
	CancelRequested(ctx context.Context, donationID, exceptID int32, at time.Time) ([]domain.PickupRequest, error)
	DeleteCancelled(ctx context.Context, donationID int32) error
	ListByDonation(ctx context.Context, donationID int32) ([]domain.PickupRequest, error)
	ListByRequester(ctx context.Context, requesterID int32, status domain.PickupStatus, page, pageSize int32) ([]domain.PickupRequest, int32, error)
}

type StatsRepository interface {
	Increment(ctx context.Context, userID int32, donated, collected int32) error
	Get(ctx context.Context, userID int32) (*domain.UserStats, error)
}

type NotificationRepository interface {
	Create(ctx context.Context, n *domain.Notification) error
	List(ctx context.Context, userID int32, limit, offset int32) ([]domain.Notification, int32, error)
	MarkAsRead(ctx context.Context, id, userID int32) error
	MarkAllAsRead(ctx context.Context, userID int32) (int64, error)
	UnreadCount(ctx context.Context, userID int32) (int32, error)
	DeleteOlderThan(ctx context.Context, before time.Time) (int64, error)
}

type UserRepository interface {
	GetByID(ctx context.Context, id int32) (*domain.User, error)
}

// Store hands out repositories bound to one connection or transaction.
type Store interface {
	Donations() DonationRepository
	Pickups() PickupRepository
	Stats() StatsRepository
	Notifications() NotificationRepository
	Users() UserRepository
	// WithTx runs fn inside a transaction. fn receives a Store bound to the
	// transaction; returning an error rolls everything back. Nested calls
	// join the outer transaction.
	WithTx(ctx context.Context, fn func(tx Store) error) error
}
