package notify

import (
	"context"
	"fmt"

	"pamigay-backend/internal/domain"
	"pamigay-backend/internal/repository"
)

// Content is the human readable form of an event.
type Content struct {
	Title   string
	Message string
}

// Renderer turns events into inbox, e-mail and push text. Missing rows fall
// back to generic wording so rendering never fails.
type Renderer struct {
	store repository.Store
}

func NewRenderer(store repository.Store) *Renderer {
	return &Renderer{store: store}
}

func (r *Renderer) userName(ctx context.Context, id int32, fallback string) string {
	if id == 0 {
		return fallback
	}
	u, err := r.store.Users().GetByID(ctx, id)
	if err != nil || u.Name == "" {
		return fallback
	}
	return u.Name
}

func (r *Renderer) Render(ctx context.Context, ev domain.Event) Content {
	donation := "your donation"
	var ownerID int32
	if d, err := r.store.Donations().GetByID(ctx, ev.DonationID); err == nil {
		donation = d.Description
		ownerID = d.OwnerID
	}
	var requesterID int32
	if ev.Type != domain.EventDonationExpired {
		if p, err := r.store.Pickups().GetByID(ctx, ev.RelatedID); err == nil {
			requesterID = p.RequesterID
		}
	}
	restaurant := func() string { return r.userName(ctx, ownerID, "The restaurant") }
	org := func() string { return r.userName(ctx, requesterID, "An organization") }

	switch ev.Type {
	case domain.EventPickupRequested:
		return Content{"New Pickup Request", fmt.Sprintf("%s has requested a pickup for %s", org(), donation)}
	case domain.EventPickupAccepted:
		return Content{"Pickup Request Accepted", fmt.Sprintf("%s has accepted your pickup request for %s", restaurant(), donation)}
	case domain.EventPickupRejected:
		return Content{"Pickup Request Rejected", fmt.Sprintf("%s has rejected your pickup request for %s", restaurant(), donation)}
	case domain.EventPickupCancelled:
		return Content{"Pickup Request Cancelled", fmt.Sprintf("%s has cancelled their pickup request for %s", org(), donation)}
	case domain.EventPickupCompleted:
		if ev.RecipientID == ownerID {
			return Content{"Pickup Completed", fmt.Sprintf("Pickup by %s for %s has been completed!", org(), donation)}
		}
		return Content{"Pickup Completed", fmt.Sprintf("Your pickup for %s has been marked as completed!", donation)}
	case domain.EventDonationExpired:
		return Content{"Donation Expired", fmt.Sprintf("%s passed its pickup deadline and is no longer available", donation)}
	}
	return Content{"Notification", string(ev.Type)}
}
