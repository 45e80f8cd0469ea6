package http_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	apihttp "pamigay-backend/internal/api/http"
	"pamigay-backend/internal/domain"
	"pamigay-backend/internal/security"
)

const testSecret = "0123456789abcdef0123456789abcdef"

var sweepTime = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

type apiFixture struct {
	server        *httptest.Server
	tokens        security.TokenManager
	lifecycle     *MockLifecycle
	browse        *MockBrowse
	notifications *MockNotifications
}

func newAPI(t *testing.T) *apiFixture {
	t.Helper()
	f := &apiFixture{
		tokens:        security.NewTokenManager(testSecret, time.Hour),
		lifecycle:     new(MockLifecycle),
		browse:        new(MockBrowse),
		notifications: new(MockNotifications),
	}
	handlers := apihttp.Handlers{
		Donations: apihttp.NewDonationHandler(f.lifecycle, f.browse),
		Pickups:   apihttp.NewPickupHandler(f.lifecycle, f.browse),
		Account:   apihttp.NewAccountHandler(f.browse, f.notifications),
		Admin:     apihttp.NewAdminHandler(f.lifecycle, func() time.Time { return sweepTime }),
	}
	router := apihttp.NewRouter(handlers, apihttp.NewAuthMiddleware(f.tokens), 5*time.Second)
	f.server = httptest.NewServer(router)
	t.Cleanup(f.server.Close)
	return f
}

func (f *apiFixture) token(t *testing.T, userID int32, role domain.UserRole) string {
	t.Helper()
	tok, err := f.tokens.GenerateAccessToken(userID, "", role)
	require.NoError(t, err)
	return tok
}

func (f *apiFixture) do(t *testing.T, method, path, token, body string) (*http.Response, map[string]any) {
	t.Helper()
	var reader *strings.Reader
	if body != "" {
		reader = strings.NewReader(body)
	} else {
		reader = strings.NewReader("")
	}
	req, err := http.NewRequest(method, f.server.URL+path, reader)
	require.NoError(t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var decoded map[string]any
	_ = json.NewDecoder(resp.Body).Decode(&decoded)
	return resp, decoded
}

func TestRouter_Healthz(t *testing.T) {
	f := newAPI(t)
	resp, body := f.do(t, http.MethodGet, "/healthz", "", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", body["status"])
	assert.NotEmpty(t, resp.Header.Get("Content-Type"))
}

func TestRouter_Authentication(t *testing.T) {
	f := newAPI(t)

	t.Run("missing token", func(t *testing.T) {
		resp, body := f.do(t, http.MethodGet, "/api/v1/stats/me", "", "")
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		assert.Equal(t, "authorization token is not provided", body["error"])
	})

	t.Run("bad token", func(t *testing.T) {
		resp, _ := f.do(t, http.MethodGet, "/api/v1/stats/me", "not-a-token", "")
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("wrong role", func(t *testing.T) {
		tok := f.token(t, 10, domain.UserRoleOrganization)
		resp, body := f.do(t, http.MethodPost, "/api/v1/pickups/5/accept", tok, "")
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
		assert.Equal(t, "restaurant role required", body["error"])
		f.lifecycle.AssertNotCalled(t, "AcceptPickup", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("admin only sweep", func(t *testing.T) {
		tok := f.token(t, 1, domain.UserRoleRestaurant)
		resp, _ := f.do(t, http.MethodPost, "/api/v1/admin/sweep", tok, "")
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	})
}

func TestDonationHandler_Create(t *testing.T) {
	f := newAPI(t)
	tok := f.token(t, 1, domain.UserRoleRestaurant)
	deadline := time.Date(2026, 3, 1, 18, 0, 0, 0, time.UTC)
	details := domain.DonationDetails{Description: "Rice trays", Quantity: "12", Condition: "Fresh", Category: "Cooked"}

	f.lifecycle.On("CreateDonation", mock.Anything, int32(1), details, deadline, domain.PickupWindow{}).
		Return(&domain.Donation{ID: 3, OwnerID: 1, Status: domain.DonationStatusAvailable, PickupDeadline: deadline}, nil)

	body := fmt.Sprintf(`{"description":"Rice trays","quantity":"12","condition":"Fresh","category":"Cooked","pickup_deadline":%q}`,
		deadline.Format(time.RFC3339))
	resp, out := f.do(t, http.MethodPost, "/api/v1/donations", tok, body)

	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, float64(3), out["id"])
	assert.Equal(t, "AVAILABLE", out["status"])
	f.lifecycle.AssertExpectations(t)
}

func TestDonationHandler_CreateValidation(t *testing.T) {
	f := newAPI(t)
	tok := f.token(t, 1, domain.UserRoleRestaurant)

	t.Run("missing deadline", func(t *testing.T) {
		resp, out := f.do(t, http.MethodPost, "/api/v1/donations", tok, `{"description":"Bread"}`)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "pickup_deadline is required", out["error"])
	})

	t.Run("unknown field", func(t *testing.T) {
		resp, _ := f.do(t, http.MethodPost, "/api/v1/donations", tok, `{"colour":"red"}`)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestDonationHandler_ListAvailable(t *testing.T) {
	f := newAPI(t)
	tok := f.token(t, 10, domain.UserRoleOrganization)
	f.browse.On("ListAvailable", mock.Anything, "Bakery", int32(2), int32(5)).
		Return([]domain.Donation{{ID: 1}, {ID: 2}}, int32(7), nil)

	resp, out := f.do(t, http.MethodGet, "/api/v1/donations?category=Bakery&page=2&page_size=5", tok, "")

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(7), out["total"])
	assert.Len(t, out["items"], 2)
}

func TestDonationHandler_ListMineParsesLegacyStatus(t *testing.T) {
	f := newAPI(t)
	tok := f.token(t, 1, domain.UserRoleRestaurant)
	f.browse.On("ListByOwner", mock.Anything, int32(1), domain.DonationStatusPendingPickup, int32(0), int32(0)).
		Return([]domain.Donation(nil), int32(0), nil)

	resp, out := f.do(t, http.MethodGet, "/api/v1/donations/mine?status=Pending%20Pickup", tok, "")

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, []any{}, out["items"])
}

func TestDonationHandler_Delete(t *testing.T) {
	f := newAPI(t)
	tok := f.token(t, 1, domain.UserRoleRestaurant)
	f.lifecycle.On("DeleteDonation", mock.Anything, int32(4), int32(1)).Return(nil).Once()
	f.lifecycle.On("DeleteDonation", mock.Anything, int32(5), int32(1)).
		Return(fmt.Errorf("%w: donation 5 is PENDING_PICKUP", domain.ErrConflict)).Once()

	resp, _ := f.do(t, http.MethodDelete, "/api/v1/donations/4", tok, "")
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, out := f.do(t, http.MethodDelete, "/api/v1/donations/5", tok, "")
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Contains(t, out["error"], "PENDING_PICKUP")
}

func TestDonationHandler_Update(t *testing.T) {
	f := newAPI(t)
	tok := f.token(t, 1, domain.UserRoleRestaurant)
	deadline := time.Date(2026, 3, 2, 18, 0, 0, 0, time.UTC)
	start := deadline.Add(-2 * time.Hour)
	details := domain.DonationDetails{Description: "Rice trays", Quantity: "16", Condition: "Fresh", Category: "Cooked"}
	body := fmt.Sprintf(`{"description":"Rice trays","quantity":"16","condition":"Fresh","category":"Cooked","pickup_deadline":%q,"pickup_window_start":%q}`,
		deadline.Format(time.RFC3339), start.Format(time.RFC3339))

	f.lifecycle.On("UpdateDonation", mock.Anything, int32(3), int32(1), details, deadline, domain.PickupWindow{Start: start}).
		Return(&domain.Donation{ID: 3, OwnerID: 1, Quantity: "16", Status: domain.DonationStatusAvailable}, nil).Once()
	resp, out := f.do(t, http.MethodPut, "/api/v1/donations/3", tok, body)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "16", out["quantity"])

	f.lifecycle.On("UpdateDonation", mock.Anything, int32(4), int32(1), details, deadline, domain.PickupWindow{Start: start}).
		Return(nil, fmt.Errorf("%w: donation 4 is PENDING_PICKUP and can no longer be edited", domain.ErrConflict)).Once()
	resp, _ = f.do(t, http.MethodPut, "/api/v1/donations/4", tok, body)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	resp, out = f.do(t, http.MethodPut, "/api/v1/donations/3", tok, `{"description":"Rice"}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "pickup_deadline is required", out["error"])

	org := f.token(t, 10, domain.UserRoleOrganization)
	resp, _ = f.do(t, http.MethodPut, "/api/v1/donations/3", org, body)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	f.lifecycle.AssertExpectations(t)
}

func TestPickupHandler_ErrorMapping(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"validation", fmt.Errorf("%w: bad", domain.ErrValidation), http.StatusBadRequest},
		{"not owner", fmt.Errorf("%w: not yours", domain.ErrUnauthorized), http.StatusForbidden},
		{"not found", fmt.Errorf("%w: pickup 9", domain.ErrNotFound), http.StatusNotFound},
		{"conflict", fmt.Errorf("%w: already accepted", domain.ErrConflict), http.StatusConflict},
		{"expired", fmt.Errorf("%w: deadline passed", domain.ErrDeadlineExpired), http.StatusGone},
		{"storage", fmt.Errorf("%w: connection reset", domain.ErrStorage), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newAPI(t)
			tok := f.token(t, 1, domain.UserRoleRestaurant)
			f.lifecycle.On("AcceptPickup", mock.Anything, int32(9), int32(1)).Return(nil, tt.err)

			resp, out := f.do(t, http.MethodPost, "/api/v1/pickups/9/accept", tok, "")

			assert.Equal(t, tt.status, resp.StatusCode)
			if tt.status == http.StatusInternalServerError {
				assert.Equal(t, "Internal Server Error", out["error"])
			}
		})
	}
}

func TestPickupHandler_RequestAndComplete(t *testing.T) {
	f := newAPI(t)
	org := f.token(t, 10, domain.UserRoleOrganization)

	f.lifecycle.On("RequestPickup", mock.Anything, int32(3), int32(10), "Van arrives at 5", (*time.Time)(nil)).
		Return(&domain.PickupRequest{ID: 8, DonationID: 3, RequesterID: 10, Status: domain.PickupStatusRequested}, nil)
	resp, out := f.do(t, http.MethodPost, "/api/v1/donations/3/pickups", org, `{"notes":"Van arrives at 5"}`)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "REQUESTED", out["status"])

	rating := int32(5)
	f.lifecycle.On("CompletePickup", mock.Anything, int32(8), int32(10), &rating).
		Return(&domain.PickupRequest{ID: 8, Status: domain.PickupStatusCompleted, Rating: &rating}, nil)
	resp, out = f.do(t, http.MethodPost, "/api/v1/pickups/8/complete", org, `{"rating":5}`)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "COMPLETED", out["status"])
	assert.Equal(t, float64(5), out["rating"])
}

func TestPickupHandler_BodyTooLarge(t *testing.T) {
	f := newAPI(t)
	org := f.token(t, 10, domain.UserRoleOrganization)

	body := `{"notes":"` + strings.Repeat("x", 1<<20) + `"}`
	resp, out := f.do(t, http.MethodPost, "/api/v1/donations/3/pickups", org, body)
	assert.Equal(t, http.StatusRequestEntityTooLarge, resp.StatusCode)
	assert.Equal(t, "request body too large", out["error"])
	f.lifecycle.AssertNotCalled(t, "RequestPickup", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestPickupHandler_BadID(t *testing.T) {
	f := newAPI(t)
	tok := f.token(t, 10, domain.UserRoleOrganization)
	resp, _ := f.do(t, http.MethodPost, "/api/v1/pickups/abc/cancel", tok, "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestAccountHandler(t *testing.T) {
	f := newAPI(t)
	tok := f.token(t, 10, domain.UserRoleOrganization)

	f.browse.On("GetStats", mock.Anything, int32(10)).
		Return(&domain.UserStats{UserID: 10, TotalCollected: 4}, nil)
	f.notifications.On("UnreadCount", mock.Anything, int32(10)).Return(int32(3), nil)
	f.notifications.On("MarkAllAsRead", mock.Anything, int32(10)).Return(int64(3), nil)
	f.notifications.On("MarkAsRead", mock.Anything, int32(10), int32(44)).Return(nil)

	resp, out := f.do(t, http.MethodGet, "/api/v1/stats/me", tok, "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(4), out["total_collected"])

	resp, out = f.do(t, http.MethodGet, "/api/v1/notifications/unread-count", tok, "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(3), out["unread"])

	resp, _ = f.do(t, http.MethodPost, "/api/v1/notifications/44/read", tok, "")
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, out = f.do(t, http.MethodPost, "/api/v1/notifications/read-all", tok, "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(3), out["updated"])
}

func TestAdminHandler_Sweep(t *testing.T) {
	f := newAPI(t)
	tok := f.token(t, 99, domain.UserRoleAdmin)
	f.lifecycle.On("ExpireOverdueDonations", mock.Anything, sweepTime).Return(2, nil)

	resp, out := f.do(t, http.MethodPost, "/api/v1/admin/sweep", tok, "")

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(2), out["expired"])
}
