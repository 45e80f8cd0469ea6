package http

import (
	"net/http"
	"time"

	"pamigay-backend/internal/service"
)

// AccountHandler serves the caller's own stats and notification inbox.
type AccountHandler struct {
	browse        service.BrowseService
	notifications service.NotificationService
}

func NewAccountHandler(browse service.BrowseService, notifications service.NotificationService) *AccountHandler {
	return &AccountHandler{browse: browse, notifications: notifications}
}

func (h *AccountHandler) HandleGetMyStats(w http.ResponseWriter, r *http.Request) error {
	user, err := GetUserFromContext(r.Context())
	if err != nil {
		return err
	}
	stats, err := h.browse.GetStats(r.Context(), user.UserID)
	if err != nil {
		return err
	}
	respondJSON(w, http.StatusOK, stats)
	return nil
}

func (h *AccountHandler) HandleGetNotifications(w http.ResponseWriter, r *http.Request) error {
	user, err := GetUserFromContext(r.Context())
	if err != nil {
		return err
	}
	page, size, err := pageParams(r)
	if err != nil {
		return err
	}
	items, total, err := h.notifications.GetNotifications(r.Context(), user.UserID, page, size)
	if err != nil {
		return err
	}
	respondJSON(w, http.StatusOK, newListResponse(items, total, page, size))
	return nil
}

func (h *AccountHandler) HandleGetUnreadCount(w http.ResponseWriter, r *http.Request) error {
	user, err := GetUserFromContext(r.Context())
	if err != nil {
		return err
	}
	n, err := h.notifications.UnreadCount(r.Context(), user.UserID)
	if err != nil {
		return err
	}
	respondJSON(w, http.StatusOK, map[string]int32{"unread": n})
	return nil
}

func (h *AccountHandler) HandleMarkNotificationRead(w http.ResponseWriter, r *http.Request) error {
	user, err := GetUserFromContext(r.Context())
	if err != nil {
		return err
	}
	id, err := pathID(r)
	if err != nil {
		return err
	}
	if err := h.notifications.MarkAsRead(r.Context(), user.UserID, id); err != nil {
		return err
	}
	w.WriteHeader(http.StatusNoContent)
	return nil
}

func (h *AccountHandler) HandleMarkAllNotificationsRead(w http.ResponseWriter, r *http.Request) error {
	user, err := GetUserFromContext(r.Context())
	if err != nil {
		return err
	}
	n, err := h.notifications.MarkAllAsRead(r.Context(), user.UserID)
	if err != nil {
		return err
	}
	respondJSON(w, http.StatusOK, map[string]int64{"updated": n})
	return nil
}

// AdminHandler exposes maintenance operations.
type AdminHandler struct {
	lifecycle service.DonationLifecycle
	now       service.Clock
}

func NewAdminHandler(lifecycle service.DonationLifecycle, clock service.Clock) *AdminHandler {
	if clock == nil {
		clock = time.Now
	}
	return &AdminHandler{lifecycle: lifecycle, now: clock}
}

// HandleSweep runs the expiry sweep immediately.
// POST /api/v1/admin/sweep
func (h *AdminHandler) HandleSweep(w http.ResponseWriter, r *http.Request) error {
	n, err := h.lifecycle.ExpireOverdueDonations(r.Context(), h.now())
	if err != nil {
		return err
	}
	respondJSON(w, http.StatusOK, map[string]int{"expired": n})
	return nil
}
