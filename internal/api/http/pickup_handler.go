package http

import (
	"net/http"
	"time"

	"pamigay-backend/internal/domain"
	"pamigay-backend/internal/service"
)

type PickupHandler struct {
	lifecycle service.DonationLifecycle
	browse    service.BrowseService
}

func NewPickupHandler(lifecycle service.DonationLifecycle, browse service.BrowseService) *PickupHandler {
	return &PickupHandler{lifecycle: lifecycle, browse: browse}
}

type requestPickupRequest struct {
	Notes      string     `json:"notes"`
	PickupTime *time.Time `json:"pickup_time"`
}

type completePickupRequest struct {
	Rating *int32 `json:"rating"`
}

// HandleRequestPickup files a pickup request from the calling organization.
// POST /api/v1/donations/{id}/pickups
func (h *PickupHandler) HandleRequestPickup(w http.ResponseWriter, r *http.Request) error {
	user, err := GetUserFromContext(r.Context())
	if err != nil {
		return err
	}
	donationID, err := pathID(r)
	if err != nil {
		return err
	}
	var req requestPickupRequest
	if err := decodeJSON(r, &req); err != nil {
		return err
	}
	p, err := h.lifecycle.RequestPickup(r.Context(), donationID, user.UserID, req.Notes, req.PickupTime)
	if err != nil {
		return err
	}
	respondJSON(w, http.StatusCreated, p)
	return nil
}

// GET /api/v1/pickups/mine?status=
func (h *PickupHandler) HandleListMyPickups(w http.ResponseWriter, r *http.Request) error {
	user, err := GetUserFromContext(r.Context())
	if err != nil {
		return err
	}
	page, size, err := pageParams(r)
	if err != nil {
		return err
	}
	var status domain.PickupStatus
	if raw := r.URL.Query().Get("status"); raw != "" {
		if status, err = domain.ParsePickupStatus(raw); err != nil {
			return err
		}
	}
	items, total, err := h.browse.ListMyPickups(r.Context(), user.UserID, status, page, size)
	if err != nil {
		return err
	}
	respondJSON(w, http.StatusOK, newListResponse(items, total, page, size))
	return nil
}

type pickupAction func(r *http.Request, pickupID, userID int32) (*domain.PickupRequest, error)

// transition runs a pickup state change for the caller and writes the
// resulting request.
func (h *PickupHandler) transition(action pickupAction) AppHandler {
	return func(w http.ResponseWriter, r *http.Request) error {
		user, err := GetUserFromContext(r.Context())
		if err != nil {
			return err
		}
		id, err := pathID(r)
		if err != nil {
			return err
		}
		p, err := action(r, id, user.UserID)
		if err != nil {
			return err
		}
		respondJSON(w, http.StatusOK, p)
		return nil
	}
}

func (h *PickupHandler) HandleAcceptPickup(w http.ResponseWriter, r *http.Request) error {
	return h.transition(func(r *http.Request, pickupID, userID int32) (*domain.PickupRequest, error) {
		return h.lifecycle.AcceptPickup(r.Context(), pickupID, userID)
	})(w, r)
}

func (h *PickupHandler) HandleRejectPickup(w http.ResponseWriter, r *http.Request) error {
	return h.transition(func(r *http.Request, pickupID, userID int32) (*domain.PickupRequest, error) {
		return h.lifecycle.RejectPickup(r.Context(), pickupID, userID)
	})(w, r)
}

func (h *PickupHandler) HandleCancelPickup(w http.ResponseWriter, r *http.Request) error {
	return h.transition(func(r *http.Request, pickupID, userID int32) (*domain.PickupRequest, error) {
		return h.lifecycle.CancelPickup(r.Context(), pickupID, userID)
	})(w, r)
}

// HandleCompletePickup marks an accepted pickup as collected. Either party
// may call it; only the requesting organization may attach a 1-5 rating.
func (h *PickupHandler) HandleCompletePickup(w http.ResponseWriter, r *http.Request) error {
	var req completePickupRequest
	if err := decodeJSON(r, &req); err != nil {
		return err
	}
	return h.transition(func(r *http.Request, pickupID, userID int32) (*domain.PickupRequest, error) {
		return h.lifecycle.CompletePickup(r.Context(), pickupID, userID, req.Rating)
	})(w, r)
}
