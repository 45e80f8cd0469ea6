package service

import (
	"context"
	"fmt"
	"time"

	"pamigay-backend/internal/domain"
	"pamigay-backend/internal/repository"
)

type browseService struct {
	store repository.Store
	now   Clock
}

func NewBrowseService(store repository.Store, clock Clock) BrowseService {
	if clock == nil {
		clock = time.Now
	}
	return &browseService{store: store, now: clock}
}

func (s *browseService) GetDonation(ctx context.Context, id int32) (*domain.Donation, error) {
	return s.store.Donations().GetByID(ctx, id)
}

// ListAvailable lists donations organizations can still request.
func (s *browseService) ListAvailable(ctx context.Context, category string, page, pageSize int32) ([]domain.Donation, int32, error) {
	page, pageSize = normalizePage(page, pageSize, defaultPageSize)
	filter := repository.DonationFilter{
		Status:        domain.DonationStatusAvailable,
		Category:      category,
		DeadlineAfter: s.now(),
	}
	return s.store.Donations().List(ctx, filter, page, pageSize)
}

func (s *browseService) ListByOwner(ctx context.Context, ownerID int32, status domain.DonationStatus, page, pageSize int32) ([]domain.Donation, int32, error) {
	if status != "" && !status.Valid() {
		return nil, 0, fmt.Errorf("%w: unknown donation status %q", domain.ErrValidation, status)
	}
	page, pageSize = normalizePage(page, pageSize, defaultPageSize)
	return s.store.Donations().List(ctx, repository.DonationFilter{OwnerID: ownerID, Status: status}, page, pageSize)
}

func (s *browseService) ListDonationPickups(ctx context.Context, donationID, ownerID int32) ([]domain.PickupRequest, error) {
	d, err := s.store.Donations().GetByID(ctx, donationID)
	if err != nil {
		return nil, err
	}
	if d.OwnerID != ownerID {
		return nil, fmt.Errorf("%w: donation %d belongs to another restaurant", domain.ErrUnauthorized, d.ID)
	}
	return s.store.Pickups().ListByDonation(ctx, donationID)
}

func (s *browseService) ListMyPickups(ctx context.Context, requesterID int32, status domain.PickupStatus, page, pageSize int32) ([]domain.PickupRequest, int32, error) {
	if status != "" && !status.Valid() {
		return nil, 0, fmt.Errorf("%w: unknown pickup status %q", domain.ErrValidation, status)
	}
	page, pageSize = normalizePage(page, pageSize, defaultPageSize)
	return s.store.Pickups().ListByRequester(ctx, requesterID, status, page, pageSize)
}

func (s *browseService) GetStats(ctx context.Context, userID int32) (*domain.UserStats, error) {
	return s.store.Stats().Get(ctx, userID)
}
