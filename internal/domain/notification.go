package domain

import "time"

type EventType string

const (
	EventPickupRequested EventType = "pickup_requested"
	EventPickupAccepted  EventType = "pickup_accepted"
	EventPickupRejected  EventType = "pickup_rejected"
	EventPickupCancelled EventType = "pickup_cancelled"
	EventPickupCompleted EventType = "pickup_completed"
	EventDonationExpired EventType = "donation_expired"
)

// Event is published after a lifecycle transaction commits.
type Event struct {
	ID          string    `json:"id"`
	Type        EventType `json:"type"`
	RecipientID int32     `json:"recipient_id"`
	ActorID     int32     `json:"actor_id,omitempty"`
	DonationID  int32     `json:"donation_id"`
	RelatedID   int32     `json:"related_id"`
	OccurredAt  time.Time `json:"occurred_at"`
}

type Notification struct {
	ID        int32     `json:"id"`
	UserID    int32     `json:"user_id"`
	Type      EventType `json:"type"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	RelatedID *int32    `json:"related_id,omitempty"`
	IsRead    bool      `json:"is_read"`
	CreatedOn time.Time `json:"created_on"`
}
