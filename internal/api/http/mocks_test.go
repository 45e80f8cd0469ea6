package http_test

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"pamigay-backend/internal/domain"
)

// MockLifecycle
type MockLifecycle struct {
	mock.Mock
}

func (m *MockLifecycle) CreateDonation(ctx context.Context, ownerID int32, details domain.DonationDetails, deadline time.Time, window domain.PickupWindow) (*domain.Donation, error) {
	args := m.Called(ctx, ownerID, details, deadline, window)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Donation), args.Error(1)
}
func (m *MockLifecycle) UpdateDonation(ctx context.Context, donationID, ownerID int32, details domain.DonationDetails, deadline time.Time, window domain.PickupWindow) (*domain.Donation, error) {
	args := m.Called(ctx, donationID, ownerID, details, deadline, window)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Donation), args.Error(1)
}
func (m *MockLifecycle) RequestPickup(ctx context.Context, donationID, requesterID int32, notes string, pickupTime *time.Time) (*domain.PickupRequest, error) {
	args := m.Called(ctx, donationID, requesterID, notes, pickupTime)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PickupRequest), args.Error(1)
}
func (m *MockLifecycle) AcceptPickup(ctx context.Context, pickupID, ownerID int32) (*domain.PickupRequest, error) {
	args := m.Called(ctx, pickupID, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PickupRequest), args.Error(1)
}
func (m *MockLifecycle) RejectPickup(ctx context.Context, pickupID, ownerID int32) (*domain.PickupRequest, error) {
	args := m.Called(ctx, pickupID, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PickupRequest), args.Error(1)
}
func (m *MockLifecycle) CompletePickup(ctx context.Context, pickupID, actorID int32, rating *int32) (*domain.PickupRequest, error) {
	args := m.Called(ctx, pickupID, actorID, rating)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PickupRequest), args.Error(1)
}
func (m *MockLifecycle) CancelPickup(ctx context.Context, pickupID, requesterID int32) (*domain.PickupRequest, error) {
	args := m.Called(ctx, pickupID, requesterID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PickupRequest), args.Error(1)
}
func (m *MockLifecycle) ExpireOverdueDonations(ctx context.Context, now time.Time) (int, error) {
	args := m.Called(ctx, now)
	return args.Int(0), args.Error(1)
}
func (m *MockLifecycle) DeleteDonation(ctx context.Context, donationID, ownerID int32) error {
	args := m.Called(ctx, donationID, ownerID)
	return args.Error(0)
}

// MockBrowse
type MockBrowse struct {
	mock.Mock
}

func (m *MockBrowse) GetDonation(ctx context.Context, id int32) (*domain.Donation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Donation), args.Error(1)
}
func (m *MockBrowse) ListAvailable(ctx context.Context, category string, page, pageSize int32) ([]domain.Donation, int32, error) {
	args := m.Called(ctx, category, page, pageSize)
	return args.Get(0).([]domain.Donation), args.Get(1).(int32), args.Error(2)
}
func (m *MockBrowse) ListByOwner(ctx context.Context, ownerID int32, status domain.DonationStatus, page, pageSize int32) ([]domain.Donation, int32, error) {
	args := m.Called(ctx, ownerID, status, page, pageSize)
	return args.Get(0).([]domain.Donation), args.Get(1).(int32), args.Error(2)
}
func (m *MockBrowse) ListDonationPickups(ctx context.Context, donationID, ownerID int32) ([]domain.PickupRequest, error) {
	args := m.Called(ctx, donationID, ownerID)
	return args.Get(0).([]domain.PickupRequest), args.Error(1)
}
func (m *MockBrowse) ListMyPickups(ctx context.Context, requesterID int32, status domain.PickupStatus, page, pageSize int32) ([]domain.PickupRequest, int32, error) {
	args := m.Called(ctx, requesterID, status, page, pageSize)
	return args.Get(0).([]domain.PickupRequest), args.Get(1).(int32), args.Error(2)
}
func (m *MockBrowse) GetStats(ctx context.Context, userID int32) (*domain.UserStats, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.UserStats), args.Error(1)
}

// MockNotifications
type MockNotifications struct {
	mock.Mock
}

func (m *MockNotifications) GetNotifications(ctx context.Context, userID int32, page, pageSize int32) ([]domain.Notification, int32, error) {
	args := m.Called(ctx, userID, page, pageSize)
	return args.Get(0).([]domain.Notification), args.Get(1).(int32), args.Error(2)
}
func (m *MockNotifications) MarkAsRead(ctx context.Context, userID, notificationID int32) error {
	args := m.Called(ctx, userID, notificationID)
	return args.Error(0)
}
func (m *MockNotifications) MarkAllAsRead(ctx context.Context, userID int32) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}
func (m *MockNotifications) UnreadCount(ctx context.Context, userID int32) (int32, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int32), args.Error(1)
}
