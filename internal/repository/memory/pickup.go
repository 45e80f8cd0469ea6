package memory

import (
	"context"
	"fmt"
	"slices"
	"time"

	"pamigay-backend/internal/domain"
)

type pickupRepository struct {
	s *Store
}

func copyPickup(p domain.PickupRequest) domain.PickupRequest {
	p.Rating = copyInt32(p.Rating)
	if p.PickupTime != nil {
		t := *p.PickupTime
		p.PickupTime = &t
	}
	return p
}

// checkUnique mirrors the partial unique indexes on food_pickups.
func checkUnique(st *state, p domain.PickupRequest) error {
	for _, other := range st.pickups {
		if other.ID == p.ID || other.DonationID != p.DonationID {
			continue
		}
		if p.Status.Active() && other.Status.Active() && other.RequesterID == p.RequesterID {
			return fmt.Errorf("%w: requester %d already has an active request", domain.ErrConflict, p.RequesterID)
		}
		if p.Status.Assigned() && other.Status.Assigned() {
			return fmt.Errorf("%w: donation %d already assigned", domain.ErrConflict, p.DonationID)
		}
	}
	return nil
}

func (r *pickupRepository) Create(ctx context.Context, p *domain.PickupRequest) error {
	defer r.s.lock()()
	st := r.s.data()
	if _, ok := st.donations[p.DonationID]; !ok {
		return fmt.Errorf("%w: donation %d", domain.ErrNotFound, p.DonationID)
	}
	if err := checkUnique(st, *p); err != nil {
		return err
	}
	st.nextPickupID++
	p.ID = st.nextPickupID
	st.pickups[p.ID] = copyPickup(*p)
	return nil
}

func (r *pickupRepository) GetByID(ctx context.Context, id int32) (*domain.PickupRequest, error) {
	defer r.s.lock()()
	p, ok := r.s.data().pickups[id]
	if !ok {
		return nil, fmt.Errorf("%w: pickup request %d", domain.ErrNotFound, id)
	}
	p = copyPickup(p)
	return &p, nil
}

func (r *pickupRepository) GetForUpdate(ctx context.Context, id int32) (*domain.PickupRequest, error) {
	return r.GetByID(ctx, id)
}

func (r *pickupRepository) Update(ctx context.Context, p *domain.PickupRequest) error {
	defer r.s.lock()()
	st := r.s.data()
	if _, ok := st.pickups[p.ID]; !ok {
		return fmt.Errorf("%w: pickup request %d", domain.ErrNotFound, p.ID)
	}
	if err := checkUnique(st, *p); err != nil {
		return err
	}
	st.pickups[p.ID] = copyPickup(*p)
	return nil
}

func (r *pickupRepository) HasActive(ctx context.Context, donationID, requesterID int32) (bool, error) {
	defer r.s.lock()()
	for _, p := range r.s.data().pickups {
		if p.DonationID == donationID && p.RequesterID == requesterID && p.Status.Active() {
			return true, nil
		}
	}
	return false, nil
}

func (r *pickupRepository) CancelRequested(ctx context.Context, donationID, exceptID int32, at time.Time) ([]domain.PickupRequest, error) {
	defer r.s.lock()()
	st := r.s.data()
	var cancelled []domain.PickupRequest
	for id, p := range st.pickups {
		if p.DonationID != donationID || p.ID == exceptID || p.Status != domain.PickupStatusRequested {
			continue
		}
		p.Status = domain.PickupStatusCancelled
		p.UpdatedOn = at
		st.pickups[id] = p
		cancelled = append(cancelled, copyPickup(p))
	}
	slices.SortFunc(cancelled, func(a, b domain.PickupRequest) int { return int(a.ID - b.ID) })
	return cancelled, nil
}

func (r *pickupRepository) DeleteCancelled(ctx context.Context, donationID int32) error {
	defer r.s.lock()()
	st := r.s.data()
	for id, p := range st.pickups {
		if p.DonationID == donationID && p.Status == domain.PickupStatusCancelled {
			delete(st.pickups, id)
		}
	}
	return nil
}

func (r *pickupRepository) ListByDonation(ctx context.Context, donationID int32) ([]domain.PickupRequest, error) {
	defer r.s.lock()()
	var out []domain.PickupRequest
	for _, p := range r.s.data().pickups {
		if p.DonationID == donationID {
			out = append(out, copyPickup(p))
		}
	}
	slices.SortFunc(out, func(a, b domain.PickupRequest) int { return int(a.ID - b.ID) })
	return out, nil
}

func (r *pickupRepository) ListByRequester(ctx context.Context, requesterID int32, status domain.PickupStatus, page, pageSize int32) ([]domain.PickupRequest, int32, error) {
	defer r.s.lock()()
	var out []domain.PickupRequest
	for _, p := range r.s.data().pickups {
		if p.RequesterID != requesterID || (status != "" && p.Status != status) {
			continue
		}
		out = append(out, copyPickup(p))
	}
	slices.SortFunc(out, func(a, b domain.PickupRequest) int { return int(b.ID - a.ID) })
	return paginate(out, page, pageSize), int32(len(out)), nil
}
