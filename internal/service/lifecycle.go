package service

import (
	"context"
	"fmt"
	"time"

	"pamigay-backend/internal/domain"
	"pamigay-backend/internal/logger"
	"pamigay-backend/internal/notify"
	"pamigay-backend/internal/repository"
)

type donationLifecycle struct {
	store    repository.Store
	notifier notify.Notifier
	now      Clock
}

func NewDonationLifecycle(store repository.Store, notifier notify.Notifier, clock Clock) DonationLifecycle {
	if notifier == nil {
		notifier = notify.Nop()
	}
	if clock == nil {
		clock = time.Now
	}
	return &donationLifecycle{store: store, notifier: notifier, now: clock}
}

// run executes fn in a transaction and publishes the collected events only
// once the transaction has committed.
func (s *donationLifecycle) run(ctx context.Context, op string, fn func(tx repository.Store, emit func(domain.Event)) error) error {
	var events []domain.Event
	emit := func(e domain.Event) { events = append(events, e) }

	err := s.store.WithTx(ctx, func(tx repository.Store) error {
		events = events[:0]
		return fn(tx, emit)
	})
	if err != nil {
		logger.Rejected(ctx, op, err)
		return err
	}
	if len(events) > 0 {
		s.notifier.Notify(ctx, events...)
	}
	return nil
}

// lockPickup locks the parent donation before the pickup row so every
// mutating operation takes row locks in the same order.
func lockPickup(ctx context.Context, tx repository.Store, pickupID int32) (*domain.PickupRequest, *domain.Donation, error) {
	p, err := tx.Pickups().GetByID(ctx, pickupID)
	if err != nil {
		return nil, nil, err
	}
	d, err := tx.Donations().GetForUpdate(ctx, p.DonationID)
	if err != nil {
		return nil, nil, err
	}
	p, err = tx.Pickups().GetForUpdate(ctx, pickupID)
	if err != nil {
		return nil, nil, err
	}
	return p, d, nil
}

func (s *donationLifecycle) CreateDonation(ctx context.Context, ownerID int32, details domain.DonationDetails, deadline time.Time, window domain.PickupWindow) (*domain.Donation, error) {
	logger.EnterMethod("donationLifecycle.CreateDonation", "ownerID", ownerID)

	now := s.now()
	if ownerID <= 0 {
		return nil, fmt.Errorf("%w: owner id is required", domain.ErrValidation)
	}
	if err := details.Validate(); err != nil {
		return nil, err
	}
	if !deadline.After(now) {
		return nil, fmt.Errorf("%w: pickup deadline must be in the future", domain.ErrValidation)
	}
	window, err := window.Resolve(deadline)
	if err != nil {
		return nil, err
	}

	d := &domain.Donation{
		OwnerID:           ownerID,
		Description:       details.Description,
		Quantity:          details.Quantity,
		Condition:         details.Condition,
		Category:          details.Category,
		PhotoURL:          details.PhotoURL,
		PickupDeadline:    deadline,
		PickupWindowStart: window.Start,
		PickupWindowEnd:   window.End,
		Status:            domain.DonationStatusAvailable,
		CreatedOn:         now,
		UpdatedOn:         now,
	}
	err = s.run(ctx, "CreateDonation", func(tx repository.Store, _ func(domain.Event)) error {
		return tx.Donations().Create(ctx, d)
	})
	if err != nil {
		logger.ExitMethodWithError("donationLifecycle.CreateDonation", err)
		return nil, err
	}

	logger.ExitMethod("donationLifecycle.CreateDonation", "donationID", d.ID)
	return d, nil
}

// UpdateDonation replaces the editable fields of a donation that is still on
// offer. Status only moves through the lifecycle operations.
func (s *donationLifecycle) UpdateDonation(ctx context.Context, donationID, ownerID int32, details domain.DonationDetails, deadline time.Time, window domain.PickupWindow) (*domain.Donation, error) {
	logger.EnterMethod("donationLifecycle.UpdateDonation", "donationID", donationID, "ownerID", ownerID)
	if err := details.Validate(); err != nil {
		return nil, err
	}
	window, err := window.Resolve(deadline)
	if err != nil {
		return nil, err
	}

	var d *domain.Donation
	err = s.run(ctx, "UpdateDonation", func(tx repository.Store, _ func(domain.Event)) error {
		now := s.now()
		d, err = tx.Donations().GetForUpdate(ctx, donationID)
		if err != nil {
			return err
		}
		if d.OwnerID != ownerID {
			return fmt.Errorf("%w: donation %d belongs to another restaurant", domain.ErrUnauthorized, d.ID)
		}
		if d.Status != domain.DonationStatusAvailable {
			return fmt.Errorf("%w: donation %d is %s and can no longer be edited", domain.ErrConflict, d.ID, d.Status)
		}
		if !deadline.After(now) {
			return fmt.Errorf("%w: pickup deadline must be in the future", domain.ErrValidation)
		}

		d.Description = details.Description
		d.Quantity = details.Quantity
		d.Condition = details.Condition
		d.Category = details.Category
		d.PhotoURL = details.PhotoURL
		d.PickupDeadline = deadline
		d.PickupWindowStart = window.Start
		d.PickupWindowEnd = window.End
		d.UpdatedOn = now
		return tx.Donations().Update(ctx, d)
	})
	if err != nil {
		logger.ExitMethodWithError("donationLifecycle.UpdateDonation", err)
		return nil, err
	}

	logger.ExitMethod("donationLifecycle.UpdateDonation", "donationID", d.ID)
	return d, nil
}

func (s *donationLifecycle) RequestPickup(ctx context.Context, donationID, requesterID int32, notes string, pickupTime *time.Time) (*domain.PickupRequest, error) {
	logger.EnterMethod("donationLifecycle.RequestPickup", "donationID", donationID, "requesterID", requesterID)
	if requesterID <= 0 {
		return nil, fmt.Errorf("%w: requester id is required", domain.ErrValidation)
	}

	var p *domain.PickupRequest
	err := s.run(ctx, "RequestPickup", func(tx repository.Store, emit func(domain.Event)) error {
		now := s.now()
		d, err := tx.Donations().GetForUpdate(ctx, donationID)
		if err != nil {
			return err
		}
		if d.OwnerID == requesterID {
			return fmt.Errorf("%w: cannot request a pickup of your own donation", domain.ErrValidation)
		}
		if !d.Status.Requestable() {
			return fmt.Errorf("%w: donation %d is %s", domain.ErrConflict, d.ID, d.Status)
		}
		if !d.PickupDeadline.After(now) {
			return fmt.Errorf("%w: donation %d closed at %s", domain.ErrDeadlineExpired, d.ID, d.PickupDeadline.Format(time.RFC3339))
		}
		active, err := tx.Pickups().HasActive(ctx, d.ID, requesterID)
		if err != nil {
			return err
		}
		if active {
			return fmt.Errorf("%w: a pickup request for donation %d already exists", domain.ErrConflict, d.ID)
		}

		p = &domain.PickupRequest{
			DonationID:  d.ID,
			RequesterID: requesterID,
			Status:      domain.PickupStatusRequested,
			Notes:       notes,
			PickupTime:  pickupTime,
			CreatedOn:   now,
			UpdatedOn:   now,
		}
		if err := tx.Pickups().Create(ctx, p); err != nil {
			return err
		}
		emit(notify.NewEvent(domain.EventPickupRequested, d.OwnerID, requesterID, d.ID, p.ID, now))
		return nil
	})
	if err != nil {
		logger.ExitMethodWithError("donationLifecycle.RequestPickup", err)
		return nil, err
	}

	logger.ExitMethod("donationLifecycle.RequestPickup", "pickupID", p.ID)
	return p, nil
}

func (s *donationLifecycle) AcceptPickup(ctx context.Context, pickupID, ownerID int32) (*domain.PickupRequest, error) {
	logger.EnterMethod("donationLifecycle.AcceptPickup", "pickupID", pickupID, "ownerID", ownerID)

	var p *domain.PickupRequest
	err := s.run(ctx, "AcceptPickup", func(tx repository.Store, emit func(domain.Event)) error {
		now := s.now()
		var (
			d   *domain.Donation
			err error
		)
		p, d, err = lockPickup(ctx, tx, pickupID)
		if err != nil {
			return err
		}
		if d.OwnerID != ownerID {
			return fmt.Errorf("%w: donation %d belongs to another restaurant", domain.ErrUnauthorized, d.ID)
		}
		if p.Status != domain.PickupStatusRequested {
			return fmt.Errorf("%w: pickup request %d is %s", domain.ErrConflict, p.ID, p.Status)
		}
		if d.Status == domain.DonationStatusPendingPickup {
			return fmt.Errorf("%w: donation %d already assigned", domain.ErrConflict, d.ID)
		}
		if !d.Status.CanTransitionTo(domain.DonationStatusPendingPickup) {
			return fmt.Errorf("%w: donation %d is %s", domain.ErrConflict, d.ID, d.Status)
		}
		if !d.PickupDeadline.After(now) {
			return fmt.Errorf("%w: donation %d closed at %s", domain.ErrDeadlineExpired, d.ID, d.PickupDeadline.Format(time.RFC3339))
		}

		p.Status = domain.PickupStatusAccepted
		p.UpdatedOn = now
		if err := tx.Pickups().Update(ctx, p); err != nil {
			return err
		}
		siblings, err := tx.Pickups().CancelRequested(ctx, d.ID, p.ID, now)
		if err != nil {
			return err
		}
		if err := tx.Donations().UpdateStatus(ctx, d.ID, domain.DonationStatusPendingPickup, &p.ID, now); err != nil {
			return err
		}
		logger.Transition("donation", d.ID, d.Status, domain.DonationStatusPendingPickup, "pickupID", p.ID, "siblingsCancelled", len(siblings))

		emit(notify.NewEvent(domain.EventPickupAccepted, p.RequesterID, ownerID, d.ID, p.ID, now))
		for _, sib := range siblings {
			emit(notify.NewEvent(domain.EventPickupRejected, sib.RequesterID, ownerID, d.ID, sib.ID, now))
		}
		return nil
	})
	if err != nil {
		logger.ExitMethodWithError("donationLifecycle.AcceptPickup", err)
		return nil, err
	}

	logger.ExitMethod("donationLifecycle.AcceptPickup", "pickupID", p.ID)
	return p, nil
}

// RejectPickup only ever cancels the request; an accepted assignment on the
// same donation stays in place.
func (s *donationLifecycle) RejectPickup(ctx context.Context, pickupID, ownerID int32) (*domain.PickupRequest, error) {
	var p *domain.PickupRequest
	err := s.run(ctx, "RejectPickup", func(tx repository.Store, emit func(domain.Event)) error {
		now := s.now()
		var (
			d   *domain.Donation
			err error
		)
		p, d, err = lockPickup(ctx, tx, pickupID)
		if err != nil {
			return err
		}
		if d.OwnerID != ownerID {
			return fmt.Errorf("%w: donation %d belongs to another restaurant", domain.ErrUnauthorized, d.ID)
		}
		if p.Status != domain.PickupStatusRequested {
			return fmt.Errorf("%w: pickup request %d is %s", domain.ErrConflict, p.ID, p.Status)
		}

		p.Status = domain.PickupStatusCancelled
		p.UpdatedOn = now
		if err := tx.Pickups().Update(ctx, p); err != nil {
			return err
		}
		logger.Transition("pickup", p.ID, domain.PickupStatusRequested, p.Status, "reason", "rejected")
		emit(notify.NewEvent(domain.EventPickupRejected, p.RequesterID, ownerID, d.ID, p.ID, now))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (s *donationLifecycle) CompletePickup(ctx context.Context, pickupID, actorID int32, rating *int32) (*domain.PickupRequest, error) {
	logger.EnterMethod("donationLifecycle.CompletePickup", "pickupID", pickupID, "actorID", actorID)
	if err := domain.ValidateRating(rating); err != nil {
		return nil, err
	}

	var p *domain.PickupRequest
	err := s.run(ctx, "CompletePickup", func(tx repository.Store, emit func(domain.Event)) error {
		now := s.now()
		var (
			d   *domain.Donation
			err error
		)
		p, d, err = lockPickup(ctx, tx, pickupID)
		if err != nil {
			return err
		}
		if actorID != d.OwnerID && actorID != p.RequesterID {
			return fmt.Errorf("%w: only the restaurant or the requester can complete pickup %d", domain.ErrUnauthorized, p.ID)
		}
		if rating != nil && actorID != p.RequesterID {
			return fmt.Errorf("%w: only the requesting organization can rate pickup %d", domain.ErrValidation, p.ID)
		}
		if p.Status == domain.PickupStatusCompleted {
			return fmt.Errorf("%w: pickup request %d already completed", domain.ErrConflict, p.ID)
		}
		if !p.Status.CanTransitionTo(domain.PickupStatusCompleted) {
			return fmt.Errorf("%w: pickup request %d is %s", domain.ErrConflict, p.ID, p.Status)
		}
		if !d.Status.CanTransitionTo(domain.DonationStatusCompleted) {
			return fmt.Errorf("%w: donation %d is %s", domain.ErrConflict, d.ID, d.Status)
		}

		p.Status = domain.PickupStatusCompleted
		p.UpdatedOn = now
		if rating != nil {
			p.Rating = rating
		}
		if err := tx.Pickups().Update(ctx, p); err != nil {
			return err
		}
		if err := tx.Donations().UpdateStatus(ctx, d.ID, domain.DonationStatusCompleted, &p.ID, now); err != nil {
			return err
		}
		// Requests filed while the donation was pending can no longer be served.
		waiting, err := tx.Pickups().CancelRequested(ctx, d.ID, p.ID, now)
		if err != nil {
			return err
		}
		if err := tx.Stats().Increment(ctx, d.OwnerID, 1, 0); err != nil {
			return err
		}
		if err := tx.Stats().Increment(ctx, p.RequesterID, 0, 1); err != nil {
			return err
		}
		logger.Transition("donation", d.ID, d.Status, domain.DonationStatusCompleted, "pickupID", p.ID, "requestsCancelled", len(waiting))

		emit(notify.NewEvent(domain.EventPickupCompleted, d.OwnerID, actorID, d.ID, p.ID, now))
		emit(notify.NewEvent(domain.EventPickupCompleted, p.RequesterID, actorID, d.ID, p.ID, now))
		for _, w := range waiting {
			emit(notify.NewEvent(domain.EventPickupRejected, w.RequesterID, d.OwnerID, d.ID, w.ID, now))
		}
		return nil
	})
	if err != nil {
		logger.ExitMethodWithError("donationLifecycle.CompletePickup", err)
		return nil, err
	}

	logger.ExitMethod("donationLifecycle.CompletePickup", "pickupID", p.ID)
	return p, nil
}

// CancelPickup withdraws a request. Withdrawing the accepted request puts the
// donation back on offer without promoting any waiting request.
func (s *donationLifecycle) CancelPickup(ctx context.Context, pickupID, requesterID int32) (*domain.PickupRequest, error) {
	logger.EnterMethod("donationLifecycle.CancelPickup", "pickupID", pickupID, "requesterID", requesterID)

	var p *domain.PickupRequest
	err := s.run(ctx, "CancelPickup", func(tx repository.Store, emit func(domain.Event)) error {
		now := s.now()
		var (
			d   *domain.Donation
			err error
		)
		p, d, err = lockPickup(ctx, tx, pickupID)
		if err != nil {
			return err
		}
		if p.RequesterID != requesterID {
			return fmt.Errorf("%w: pickup request %d belongs to another organization", domain.ErrUnauthorized, p.ID)
		}
		if !p.Status.CanTransitionTo(domain.PickupStatusCancelled) {
			return fmt.Errorf("%w: pickup request %d is %s", domain.ErrConflict, p.ID, p.Status)
		}

		wasAccepted := p.Status == domain.PickupStatusAccepted
		p.Status = domain.PickupStatusCancelled
		p.UpdatedOn = now
		if err := tx.Pickups().Update(ctx, p); err != nil {
			return err
		}
		if wasAccepted && d.Status.CanTransitionTo(domain.DonationStatusAvailable) {
			if err := tx.Donations().UpdateStatus(ctx, d.ID, domain.DonationStatusAvailable, nil, now); err != nil {
				return err
			}
			logger.Transition("donation", d.ID, d.Status, domain.DonationStatusAvailable, "reason", "accepted request withdrawn")
		}
		emit(notify.NewEvent(domain.EventPickupCancelled, d.OwnerID, requesterID, d.ID, p.ID, now))
		return nil
	})
	if err != nil {
		logger.ExitMethodWithError("donationLifecycle.CancelPickup", err)
		return nil, err
	}

	logger.ExitMethod("donationLifecycle.CancelPickup", "pickupID", p.ID)
	return p, nil
}

func (s *donationLifecycle) ExpireOverdueDonations(ctx context.Context, now time.Time) (int, error) {
	logger.EnterMethod("donationLifecycle.ExpireOverdueDonations", "now", now)

	var count int
	err := s.run(ctx, "ExpireOverdueDonations", func(tx repository.Store, emit func(domain.Event)) error {
		expired, err := tx.Donations().ExpireOverdue(ctx, now)
		if err != nil {
			return err
		}
		for _, d := range expired {
			stale, err := tx.Pickups().CancelRequested(ctx, d.ID, 0, now)
			if err != nil {
				return err
			}
			logger.Transition("donation", d.ID, domain.DonationStatusAvailable, d.Status, "reason", "deadline passed", "requestsCancelled", len(stale))
			emit(notify.NewEvent(domain.EventDonationExpired, d.OwnerID, 0, d.ID, d.ID, now))
		}
		count = len(expired)
		return nil
	})
	if err != nil {
		logger.ExitMethodWithError("donationLifecycle.ExpireOverdueDonations", err)
		return 0, err
	}

	logger.ExitMethod("donationLifecycle.ExpireOverdueDonations", "expired", count)
	return count, nil
}

func (s *donationLifecycle) DeleteDonation(ctx context.Context, donationID, ownerID int32) error {
	return s.run(ctx, "DeleteDonation", func(tx repository.Store, _ func(domain.Event)) error {
		d, err := tx.Donations().GetForUpdate(ctx, donationID)
		if err != nil {
			return err
		}
		if d.OwnerID != ownerID {
			return fmt.Errorf("%w: donation %d belongs to another restaurant", domain.ErrUnauthorized, d.ID)
		}
		if !d.Status.Deletable() {
			return fmt.Errorf("%w: donation %d is %s and cannot be deleted", domain.ErrConflict, d.ID, d.Status)
		}
		if _, err := tx.Pickups().CancelRequested(ctx, d.ID, 0, s.now()); err != nil {
			return err
		}
		if err := tx.Pickups().DeleteCancelled(ctx, d.ID); err != nil {
			return err
		}
		if err := tx.Donations().Delete(ctx, d.ID); err != nil {
			return err
		}
		logger.Info("Donation deleted", "donationID", d.ID, "ownerID", ownerID)
		return nil
	})
}
