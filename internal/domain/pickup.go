package domain

import (
	"fmt"
	"strings"
	"time"
)

type PickupStatus string

// Rejection by the restaurant is recorded as PickupStatusCancelled.
const (
	PickupStatusRequested PickupStatus = "REQUESTED"
	PickupStatusAccepted  PickupStatus = "ACCEPTED"
	PickupStatusCompleted PickupStatus = "COMPLETED"
	PickupStatusCancelled PickupStatus = "CANCELLED"
)

var pickupTransitions = map[PickupStatus][]PickupStatus{
	PickupStatusRequested: {PickupStatusAccepted, PickupStatusCancelled},
	PickupStatusAccepted:  {PickupStatusCompleted, PickupStatusCancelled},
}

func (s PickupStatus) Valid() bool {
	switch s {
	case PickupStatusRequested, PickupStatusAccepted, PickupStatusCompleted, PickupStatusCancelled:
		return true
	}
	return false
}

func (s PickupStatus) CanTransitionTo(next PickupStatus) bool {
	for _, allowed := range pickupTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Active reports whether the request still counts against the
// one-request-per-requester rule.
func (s PickupStatus) Active() bool {
	return s.Valid() && s != PickupStatusCancelled
}

// Assigned reports whether the request holds the donation.
func (s PickupStatus) Assigned() bool {
	return s == PickupStatusAccepted || s == PickupStatusCompleted
}

func ParsePickupStatus(raw string) (PickupStatus, error) {
	s := PickupStatus(strings.ToUpper(strings.TrimSpace(raw)))
	if s == "REJECTED" {
		return PickupStatusCancelled, nil
	}
	if !s.Valid() {
		return "", fmt.Errorf("%w: unknown pickup status %q", ErrValidation, raw)
	}
	return s, nil
}

type PickupRequest struct {
	ID          int32        `json:"id"`
	DonationID  int32        `json:"donation_id"`
	RequesterID int32        `json:"requester_id"`
	Status      PickupStatus `json:"status"`
	Notes       string       `json:"notes"`
	PickupTime  *time.Time   `json:"pickup_time,omitempty"`
	Rating      *int32       `json:"rating,omitempty"`
	CreatedOn   time.Time    `json:"created_on"`
	UpdatedOn   time.Time    `json:"updated_on"`
}

const (
	MinRating int32 = 1
	MaxRating int32 = 5
)

func ValidateRating(rating *int32) error {
	if rating == nil {
		return nil
	}
	if *rating < MinRating || *rating > MaxRating {
		return fmt.Errorf("%w: rating must be between %d and %d", ErrValidation, MinRating, MaxRating)
	}
	return nil
}
