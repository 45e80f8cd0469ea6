// Package notify delivers lifecycle events after their transaction commits.
// Delivery is best effort: nothing here reports failure back to the caller.
package notify

import (
	"context"
	"time"

	"pamigay-backend/internal/domain"

	"github.com/google/uuid"
)

type Notifier interface {
	Notify(ctx context.Context, events ...domain.Event)
}

// Sink handles one delivery channel. Errors are logged by the dispatcher.
type Sink interface {
	Name() string
	Deliver(ctx context.Context, event domain.Event) error
}

type nop struct{}

func (nop) Notify(context.Context, ...domain.Event) {}

// Nop discards every event.
func Nop() Notifier { return nop{} }

func NewEvent(typ domain.EventType, recipientID, actorID, donationID, relatedID int32, at time.Time) domain.Event {
	return domain.Event{
		ID:          uuid.NewString(),
		Type:        typ,
		RecipientID: recipientID,
		ActorID:     actorID,
		DonationID:  donationID,
		RelatedID:   relatedID,
		OccurredAt:  at,
	}
}
