package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"pamigay-backend/internal/domain"
	"pamigay-backend/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedDonation(t *testing.T, s *Store) *domain.Donation {
	t.Helper()
	now := time.Now()
	d := &domain.Donation{OwnerID: 1, Description: "Bread", Quantity: "3", Condition: "Fresh", Category: "Bakery",
		PickupDeadline: now.Add(time.Hour), Status: domain.DonationStatusAvailable, CreatedOn: now}
	require.NoError(t, s.Donations().Create(context.Background(), d))
	return d
}

func TestStore_WithTxRollsBack(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	d := seedDonation(t, s)

	boom := errors.New("boom")
	err := s.WithTx(ctx, func(tx repository.Store) error {
		p := &domain.PickupRequest{DonationID: d.ID, RequesterID: 2, Status: domain.PickupStatusRequested}
		if err := tx.Pickups().Create(ctx, p); err != nil {
			return err
		}
		if err := tx.Donations().UpdateStatus(ctx, d.ID, domain.DonationStatusPendingPickup, &p.ID, time.Now()); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	got, err := s.Donations().GetByID(ctx, d.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.DonationStatusAvailable, got.Status)
	assert.Nil(t, got.AcceptedPickupID)

	pickups, err := s.Pickups().ListByDonation(ctx, d.ID)
	require.NoError(t, err)
	assert.Empty(t, pickups)
}

func TestStore_WithTxCommits(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	err := s.WithTx(ctx, func(tx repository.Store) error {
		return tx.Stats().Increment(ctx, 5, 1, 0)
	})
	require.NoError(t, err)

	stats, err := s.Stats().Get(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, int32(1), stats.TotalDonated)
}

func TestPickupRepository_UniqueRules(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	d := seedDonation(t, s)

	first := &domain.PickupRequest{DonationID: d.ID, RequesterID: 2, Status: domain.PickupStatusRequested}
	require.NoError(t, s.Pickups().Create(ctx, first))

	dup := &domain.PickupRequest{DonationID: d.ID, RequesterID: 2, Status: domain.PickupStatusRequested}
	assert.ErrorIs(t, s.Pickups().Create(ctx, dup), domain.ErrConflict)

	second := &domain.PickupRequest{DonationID: d.ID, RequesterID: 3, Status: domain.PickupStatusRequested}
	require.NoError(t, s.Pickups().Create(ctx, second))

	first.Status = domain.PickupStatusAccepted
	require.NoError(t, s.Pickups().Update(ctx, first))
	second.Status = domain.PickupStatusAccepted
	assert.ErrorIs(t, s.Pickups().Update(ctx, second), domain.ErrConflict)
}

func TestDonationRepository_ExpireOverdue(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	d := seedDonation(t, s)
	later := d.PickupDeadline.Add(time.Minute)

	expired, err := s.Donations().ExpireOverdue(ctx, later)
	require.NoError(t, err)
	assert.Len(t, expired, 1)

	expired, err = s.Donations().ExpireOverdue(ctx, later.Add(time.Hour))
	require.NoError(t, err)
	assert.Empty(t, expired)
}

func TestDonationRepository_StampsCallerTime(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	d := seedDonation(t, s)
	p := &domain.PickupRequest{DonationID: d.ID, RequesterID: 2, Status: domain.PickupStatusRequested}
	require.NoError(t, s.Pickups().Create(ctx, p))
	at := time.Date(2030, 6, 1, 9, 0, 0, 0, time.UTC)

	require.NoError(t, s.Donations().UpdateStatus(ctx, d.ID, domain.DonationStatusPendingPickup, nil, at))
	cancelled, err := s.Pickups().CancelRequested(ctx, d.ID, 0, at.Add(time.Minute))
	require.NoError(t, err)
	require.Len(t, cancelled, 1)
	assert.Equal(t, at.Add(time.Minute), cancelled[0].UpdatedOn)

	edit := *d
	edit.Description = "Rye bread"
	edit.Status = domain.DonationStatusCompleted
	edit.UpdatedOn = at.Add(time.Hour)
	require.NoError(t, s.Donations().Update(ctx, &edit))

	got, err := s.Donations().GetByID(ctx, d.ID)
	require.NoError(t, err)
	assert.Equal(t, "Rye bread", got.Description)
	assert.Equal(t, domain.DonationStatusPendingPickup, got.Status)
	assert.Equal(t, at.Add(time.Hour), got.UpdatedOn)

	missing := domain.Donation{ID: 99}
	assert.ErrorIs(t, s.Donations().Update(ctx, &missing), domain.ErrNotFound)
}

func TestNotificationRepository_List(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	for i := 0; i < 3; i++ {
		require.NoError(t, s.Notifications().Create(ctx, &domain.Notification{UserID: 1, Title: "t"}))
	}
	require.NoError(t, s.Notifications().Create(ctx, &domain.Notification{UserID: 2, Title: "t"}))

	notes, total, err := s.Notifications().List(ctx, 1, 2, 0)
	require.NoError(t, err)
	assert.Equal(t, int32(3), total)
	require.Len(t, notes, 2)
	assert.Equal(t, int32(3), notes[0].ID)

	assert.ErrorIs(t, s.Notifications().MarkAsRead(ctx, 4, 1), domain.ErrNotFound)
	n, err := s.Notifications().MarkAllAsRead(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
}

func TestNotificationRepository_UnreadAndPurge(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, s.Notifications().Create(ctx, &domain.Notification{UserID: 1, CreatedOn: base}))
	require.NoError(t, s.Notifications().Create(ctx, &domain.Notification{UserID: 1, CreatedOn: base.Add(40 * 24 * time.Hour)}))

	unread, err := s.Notifications().UnreadCount(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int32(2), unread)

	removed, err := s.Notifications().DeleteOlderThan(ctx, base.Add(10*24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)

	unread, err = s.Notifications().UnreadCount(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int32(1), unread)
}
