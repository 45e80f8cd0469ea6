package http

import (
	"net/http"
	"time"

	"pamigay-backend/internal/domain"
	"pamigay-backend/internal/service"
)

type DonationHandler struct {
	lifecycle service.DonationLifecycle
	browse    service.BrowseService
}

func NewDonationHandler(lifecycle service.DonationLifecycle, browse service.BrowseService) *DonationHandler {
	return &DonationHandler{lifecycle: lifecycle, browse: browse}
}

// donationRequest is the body of both create and update; update replaces
// every editable field.
type donationRequest struct {
	domain.DonationDetails
	PickupDeadline    time.Time `json:"pickup_deadline"`
	PickupWindowStart time.Time `json:"pickup_window_start"`
	PickupWindowEnd   time.Time `json:"pickup_window_end"`
}

// HandleCreateDonation lists a new donation for the calling restaurant.
// POST /api/v1/donations
func (h *DonationHandler) HandleCreateDonation(w http.ResponseWriter, r *http.Request) error {
	user, err := GetUserFromContext(r.Context())
	if err != nil {
		return err
	}
	var req donationRequest
	if err := decodeJSON(r, &req); err != nil {
		return err
	}
	if req.PickupDeadline.IsZero() {
		return errBadRequest("pickup_deadline is required", nil)
	}

	window := domain.PickupWindow{Start: req.PickupWindowStart, End: req.PickupWindowEnd}
	d, err := h.lifecycle.CreateDonation(r.Context(), user.UserID, req.DonationDetails, req.PickupDeadline, window)
	if err != nil {
		return err
	}
	respondJSON(w, http.StatusCreated, d)
	return nil
}

// HandleListDonations is the organization browse: available donations whose
// deadline has not passed.
// GET /api/v1/donations?category=&page=&page_size=
func (h *DonationHandler) HandleListDonations(w http.ResponseWriter, r *http.Request) error {
	page, size, err := pageParams(r)
	if err != nil {
		return err
	}
	items, total, err := h.browse.ListAvailable(r.Context(), r.URL.Query().Get("category"), page, size)
	if err != nil {
		return err
	}
	respondJSON(w, http.StatusOK, newListResponse(items, total, page, size))
	return nil
}

// GET /api/v1/donations/mine?status=
func (h *DonationHandler) HandleListMyDonations(w http.ResponseWriter, r *http.Request) error {
	user, err := GetUserFromContext(r.Context())
	if err != nil {
		return err
	}
	page, size, err := pageParams(r)
	if err != nil {
		return err
	}
	var status domain.DonationStatus
	if raw := r.URL.Query().Get("status"); raw != "" {
		if status, err = domain.ParseDonationStatus(raw); err != nil {
			return err
		}
	}
	items, total, err := h.browse.ListByOwner(r.Context(), user.UserID, status, page, size)
	if err != nil {
		return err
	}
	respondJSON(w, http.StatusOK, newListResponse(items, total, page, size))
	return nil
}

// PUT /api/v1/donations/{id}
func (h *DonationHandler) HandleUpdateDonation(w http.ResponseWriter, r *http.Request) error {
	user, err := GetUserFromContext(r.Context())
	if err != nil {
		return err
	}
	id, err := pathID(r)
	if err != nil {
		return err
	}
	var req donationRequest
	if err := decodeJSON(r, &req); err != nil {
		return err
	}
	if req.PickupDeadline.IsZero() {
		return errBadRequest("pickup_deadline is required", nil)
	}

	window := domain.PickupWindow{Start: req.PickupWindowStart, End: req.PickupWindowEnd}
	d, err := h.lifecycle.UpdateDonation(r.Context(), id, user.UserID, req.DonationDetails, req.PickupDeadline, window)
	if err != nil {
		return err
	}
	respondJSON(w, http.StatusOK, d)
	return nil
}

func (h *DonationHandler) HandleGetDonation(w http.ResponseWriter, r *http.Request) error {
	id, err := pathID(r)
	if err != nil {
		return err
	}
	d, err := h.browse.GetDonation(r.Context(), id)
	if err != nil {
		return err
	}
	respondJSON(w, http.StatusOK, d)
	return nil
}

func (h *DonationHandler) HandleDeleteDonation(w http.ResponseWriter, r *http.Request) error {
	user, err := GetUserFromContext(r.Context())
	if err != nil {
		return err
	}
	id, err := pathID(r)
	if err != nil {
		return err
	}
	if err := h.lifecycle.DeleteDonation(r.Context(), id, user.UserID); err != nil {
		return err
	}
	w.WriteHeader(http.StatusNoContent)
	return nil
}

// GET /api/v1/donations/{id}/pickups
func (h *DonationHandler) HandleListDonationPickups(w http.ResponseWriter, r *http.Request) error {
	user, err := GetUserFromContext(r.Context())
	if err != nil {
		return err
	}
	id, err := pathID(r)
	if err != nil {
		return err
	}
	items, err := h.browse.ListDonationPickups(r.Context(), id, user.UserID)
	if err != nil {
		return err
	}
	if items == nil {
		items = []domain.PickupRequest{}
	}
	respondJSON(w, http.StatusOK, items)
	return nil
}
