package memory

import (
	"context"
	"fmt"
	"slices"
	"time"

	"pamigay-backend/internal/domain"
	"pamigay-backend/internal/repository"
)

type donationRepository struct {
	s *Store
}

func (r *donationRepository) Create(ctx context.Context, d *domain.Donation) error {
	defer r.s.lock()()
	st := r.s.data()
	st.nextDonationID++
	d.ID = st.nextDonationID
	stored := *d
	stored.AcceptedPickupID = copyInt32(d.AcceptedPickupID)
	st.donations[d.ID] = stored
	return nil
}

func (r *donationRepository) GetByID(ctx context.Context, id int32) (*domain.Donation, error) {
	defer r.s.lock()()
	d, ok := r.s.data().donations[id]
	if !ok {
		return nil, fmt.Errorf("%w: donation %d", domain.ErrNotFound, id)
	}
	d.AcceptedPickupID = copyInt32(d.AcceptedPickupID)
	return &d, nil
}

// GetForUpdate needs no extra locking: the transaction already owns the store.
func (r *donationRepository) GetForUpdate(ctx context.Context, id int32) (*domain.Donation, error) {
	return r.GetByID(ctx, id)
}

func (r *donationRepository) UpdateStatus(ctx context.Context, id int32, status domain.DonationStatus, acceptedPickupID *int32, at time.Time) error {
	defer r.s.lock()()
	st := r.s.data()
	d, ok := st.donations[id]
	if !ok {
		return fmt.Errorf("%w: donation %d", domain.ErrNotFound, id)
	}
	d.Status = status
	d.AcceptedPickupID = copyInt32(acceptedPickupID)
	d.UpdatedOn = at
	st.donations[id] = d
	return nil
}

func (r *donationRepository) Update(ctx context.Context, d *domain.Donation) error {
	defer r.s.lock()()
	st := r.s.data()
	cur, ok := st.donations[d.ID]
	if !ok {
		return fmt.Errorf("%w: donation %d", domain.ErrNotFound, d.ID)
	}
	cur.Description = d.Description
	cur.Quantity = d.Quantity
	cur.Condition = d.Condition
	cur.Category = d.Category
	cur.PhotoURL = d.PhotoURL
	cur.PickupDeadline = d.PickupDeadline
	cur.PickupWindowStart = d.PickupWindowStart
	cur.PickupWindowEnd = d.PickupWindowEnd
	cur.UpdatedOn = d.UpdatedOn
	st.donations[d.ID] = cur
	return nil
}

func (r *donationRepository) Delete(ctx context.Context, id int32) error {
	defer r.s.lock()()
	st := r.s.data()
	if _, ok := st.donations[id]; !ok {
		return fmt.Errorf("%w: donation %d", domain.ErrNotFound, id)
	}
	for _, p := range st.pickups {
		if p.DonationID == id {
			return fmt.Errorf("%w: donation %d still has pickup requests", domain.ErrConflict, id)
		}
	}
	delete(st.donations, id)
	return nil
}

func (r *donationRepository) List(ctx context.Context, filter repository.DonationFilter, page, pageSize int32) ([]domain.Donation, int32, error) {
	defer r.s.lock()()
	var matched []domain.Donation
	for _, d := range r.s.data().donations {
		if filter.OwnerID != 0 && d.OwnerID != filter.OwnerID {
			continue
		}
		if filter.Status != "" && d.Status != filter.Status {
			continue
		}
		if filter.Category != "" && d.Category != filter.Category {
			continue
		}
		if !filter.DeadlineAfter.IsZero() && !d.PickupDeadline.After(filter.DeadlineAfter) {
			continue
		}
		d.AcceptedPickupID = copyInt32(d.AcceptedPickupID)
		matched = append(matched, d)
	}
	slices.SortFunc(matched, func(a, b domain.Donation) int {
		if c := b.CreatedOn.Compare(a.CreatedOn); c != 0 {
			return c
		}
		return int(b.ID - a.ID)
	})
	return paginate(matched, page, pageSize), int32(len(matched)), nil
}

func (r *donationRepository) ExpireOverdue(ctx context.Context, now time.Time) ([]domain.Donation, error) {
	defer r.s.lock()()
	st := r.s.data()
	var expired []domain.Donation
	for id, d := range st.donations {
		if d.Status != domain.DonationStatusAvailable || !d.PickupDeadline.Before(now) {
			continue
		}
		d.Status = domain.DonationStatusCancelled
		d.UpdatedOn = now
		st.donations[id] = d
		expired = append(expired, d)
	}
	slices.SortFunc(expired, func(a, b domain.Donation) int { return int(a.ID - b.ID) })
	return expired, nil
}
