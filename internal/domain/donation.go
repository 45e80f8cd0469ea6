package domain

import (
	"fmt"
	"strings"
	"time"
)

type DonationStatus string

const (
	DonationStatusAvailable     DonationStatus = "AVAILABLE"
	DonationStatusPendingPickup DonationStatus = "PENDING_PICKUP"
	DonationStatusCompleted     DonationStatus = "COMPLETED"
	DonationStatusCancelled     DonationStatus = "CANCELLED"
)

// donationTransitions lists every legal donation status change.
// COMPLETED and CANCELLED are terminal.
var donationTransitions = map[DonationStatus][]DonationStatus{
	DonationStatusAvailable:     {DonationStatusPendingPickup, DonationStatusCancelled},
	DonationStatusPendingPickup: {DonationStatusCompleted, DonationStatusAvailable},
}

func (s DonationStatus) Valid() bool {
	switch s {
	case DonationStatusAvailable, DonationStatusPendingPickup, DonationStatusCompleted, DonationStatusCancelled:
		return true
	}
	return false
}

// CanTransitionTo reports whether the lifecycle allows moving from s to next.
func (s DonationStatus) CanTransitionTo(next DonationStatus) bool {
	for _, allowed := range donationTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Requestable reports whether organizations may still file pickup requests.
func (s DonationStatus) Requestable() bool {
	return s == DonationStatusAvailable || s == DonationStatusPendingPickup
}

// Deletable reports whether the owner may hard delete the donation.
func (s DonationStatus) Deletable() bool {
	return s == DonationStatusAvailable || s == DonationStatusCancelled
}

// ParseDonationStatus accepts the canonical form as well as the legacy
// display strings ("Pending Pickup").
func ParseDonationStatus(raw string) (DonationStatus, error) {
	s := DonationStatus(strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(raw), " ", "_")))
	if !s.Valid() {
		return "", fmt.Errorf("%w: unknown donation status %q", ErrValidation, raw)
	}
	return s, nil
}

type Donation struct {
	ID                int32          `json:"id"`
	OwnerID           int32          `json:"owner_id"`
	Description       string         `json:"description"`
	Quantity          string         `json:"quantity"`
	Condition         string         `json:"condition"`
	Category          string         `json:"category"`
	PhotoURL          string         `json:"photo_url,omitempty"`
	PickupDeadline    time.Time      `json:"pickup_deadline"`
	PickupWindowStart time.Time      `json:"pickup_window_start"`
	PickupWindowEnd   time.Time      `json:"pickup_window_end"`
	Status            DonationStatus `json:"status"`
	AcceptedPickupID  *int32         `json:"accepted_pickup_id,omitempty"`
	CreatedOn         time.Time      `json:"created_on"`
	UpdatedOn         time.Time      `json:"updated_on"`
}

// DonationDetails is the restaurant supplied part of a new donation.
type DonationDetails struct {
	Description string `json:"description"`
	Quantity    string `json:"quantity"`
	Condition   string `json:"condition"`
	Category    string `json:"category"`
	PhotoURL    string `json:"photo_url,omitempty"`
}

func (d DonationDetails) Validate() error {
	var missing []string
	if strings.TrimSpace(d.Description) == "" {
		missing = append(missing, "description")
	}
	if strings.TrimSpace(d.Quantity) == "" {
		missing = append(missing, "quantity")
	}
	if strings.TrimSpace(d.Condition) == "" {
		missing = append(missing, "condition")
	}
	if strings.TrimSpace(d.Category) == "" {
		missing = append(missing, "category")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing required fields: %s", ErrValidation, strings.Join(missing, ", "))
	}
	return nil
}

// PickupWindow is the informational [Start, End) range shown to organizations.
type PickupWindow struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Resolve fills an unset window from the deadline and rejects inverted ranges.
func (w PickupWindow) Resolve(deadline time.Time) (PickupWindow, error) {
	if w.Start.IsZero() {
		w.Start = deadline
	}
	if w.End.IsZero() {
		w.End = deadline
	}
	if w.End.Before(w.Start) {
		return PickupWindow{}, fmt.Errorf("%w: pickup window ends before it starts", ErrValidation)
	}
	return w, nil
}
