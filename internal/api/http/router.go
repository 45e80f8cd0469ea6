package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/mux"
)

const apiBasePath = "/api/v1"

// Handlers groups everything the router serves.
type Handlers struct {
	Donations *DonationHandler
	Pickups   *PickupHandler
	Account   *AccountHandler
	Admin     *AdminHandler
}

// NewRouter builds the HTTP API. Route names key the security table in
// config.EndpointSecurityConfig.
func NewRouter(h Handlers, auth *AuthMiddleware, requestTimeout time.Duration) http.Handler {
	r := mux.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(RequestLogger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(requestTimeout))
	r.Use(middleware.RequestSize(maxBodyBytes))
	r.Use(auth.Handler)

	r.HandleFunc("/healthz", handleHealthCheck).Methods(http.MethodGet).Name("Healthz")

	api := r.PathPrefix(apiBasePath).Subrouter()
	id := "/{" + paramID + ":[0-9]+}"

	// Donations
	api.HandleFunc("/donations", MakeHandler(h.Donations.HandleCreateDonation)).Methods(http.MethodPost).Name("CreateDonation")
	api.HandleFunc("/donations", MakeHandler(h.Donations.HandleListDonations)).Methods(http.MethodGet).Name("ListDonations")
	api.HandleFunc("/donations/mine", MakeHandler(h.Donations.HandleListMyDonations)).Methods(http.MethodGet).Name("ListMyDonations")
	api.HandleFunc("/donations"+id, MakeHandler(h.Donations.HandleGetDonation)).Methods(http.MethodGet).Name("GetDonation")
	api.HandleFunc("/donations"+id, MakeHandler(h.Donations.HandleUpdateDonation)).Methods(http.MethodPut).Name("UpdateDonation")
	api.HandleFunc("/donations"+id, MakeHandler(h.Donations.HandleDeleteDonation)).Methods(http.MethodDelete).Name("DeleteDonation")
	api.HandleFunc("/donations"+id+"/pickups", MakeHandler(h.Donations.HandleListDonationPickups)).Methods(http.MethodGet).Name("ListDonationPickups")

	// Pickups
	api.HandleFunc("/donations"+id+"/pickups", MakeHandler(h.Pickups.HandleRequestPickup)).Methods(http.MethodPost).Name("RequestPickup")
	api.HandleFunc("/pickups/mine", MakeHandler(h.Pickups.HandleListMyPickups)).Methods(http.MethodGet).Name("ListMyPickups")
	api.HandleFunc("/pickups"+id+"/accept", MakeHandler(h.Pickups.HandleAcceptPickup)).Methods(http.MethodPost).Name("AcceptPickup")
	api.HandleFunc("/pickups"+id+"/reject", MakeHandler(h.Pickups.HandleRejectPickup)).Methods(http.MethodPost).Name("RejectPickup")
	api.HandleFunc("/pickups"+id+"/complete", MakeHandler(h.Pickups.HandleCompletePickup)).Methods(http.MethodPost).Name("CompletePickup")
	api.HandleFunc("/pickups"+id+"/cancel", MakeHandler(h.Pickups.HandleCancelPickup)).Methods(http.MethodPost).Name("CancelPickup")

	// Stats and notifications
	api.HandleFunc("/stats/me", MakeHandler(h.Account.HandleGetMyStats)).Methods(http.MethodGet).Name("GetMyStats")
	api.HandleFunc("/notifications", MakeHandler(h.Account.HandleGetNotifications)).Methods(http.MethodGet).Name("GetNotifications")
	api.HandleFunc("/notifications/unread-count", MakeHandler(h.Account.HandleGetUnreadCount)).Methods(http.MethodGet).Name("GetUnreadCount")
	api.HandleFunc("/notifications/read-all", MakeHandler(h.Account.HandleMarkAllNotificationsRead)).Methods(http.MethodPost).Name("MarkAllNotificationRead")
	api.HandleFunc("/notifications"+id+"/read", MakeHandler(h.Account.HandleMarkNotificationRead)).Methods(http.MethodPost).Name("MarkNotificationRead")

	// Admin
	api.HandleFunc("/admin/sweep", MakeHandler(h.Admin.HandleSweep)).Methods(http.MethodPost).Name("SweepExpiredDonations")

	return r
}

func handleHealthCheck(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
