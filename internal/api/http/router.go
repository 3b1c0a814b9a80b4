package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"ridepool-backend/internal/security"
)

// Handlers bundles everything the router mounts.
type Handlers struct {
	Trips    *TripHandler
	Bookings *BookingHandler
	Ledger   *LedgerHandler
	Messages *MessageHandler
	Ratings  *RatingHandler
}

// NewRouter wires the REST surface. Everything under /api/v1 requires a
// bearer token except trip search and read-only rating lookups.
func NewRouter(h Handlers, tokens security.TokenManager) *mux.Router {
	r := mux.NewRouter()
	r.Use(LoggingMiddleware)

	r.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods(http.MethodGet)

	api := r.PathPrefix("/api/v1").Subrouter()

	// Public reads.
	api.HandleFunc("/trips", h.Trips.Search).Methods(http.MethodGet)
	api.HandleFunc("/trips/{id:[0-9a-fA-F-]{36}}", h.Trips.Get).Methods(http.MethodGet)
	api.HandleFunc("/users/{id}/rating", h.Ratings.Average).Methods(http.MethodGet)
	api.HandleFunc("/users/{id}/ratings", h.Ratings.ListForUser).Methods(http.MethodGet)

	// Authenticated surface.
	auth := api.PathPrefix("").Subrouter()
	auth.Use(AuthMiddleware(tokens))

	auth.HandleFunc("/trips", h.Trips.Publish).Methods(http.MethodPost)
	auth.HandleFunc("/trips/mine", h.Trips.ListMine).Methods(http.MethodGet)
	auth.HandleFunc("/trips/{id}/cancel", h.Trips.Cancel).Methods(http.MethodPost)
	auth.HandleFunc("/trips/{id}/complete", h.Trips.Complete).Methods(http.MethodPost)

	auth.HandleFunc("/bookings", h.Bookings.Request).Methods(http.MethodPost)
	auth.HandleFunc("/bookings/mine", h.Bookings.ListMine).Methods(http.MethodGet)
	auth.HandleFunc("/bookings/received", h.Bookings.ListReceived).Methods(http.MethodGet)
	auth.HandleFunc("/bookings/{id}", h.Bookings.Get).Methods(http.MethodGet)
	auth.HandleFunc("/bookings/{id}/confirm", h.Bookings.Confirm).Methods(http.MethodPost)
	auth.HandleFunc("/bookings/{id}/reject", h.Bookings.Reject).Methods(http.MethodPost)
	auth.HandleFunc("/bookings/{id}/cancel", h.Bookings.Cancel).Methods(http.MethodPost)

	auth.HandleFunc("/credits/balance", h.Ledger.Balance).Methods(http.MethodGet)
	auth.HandleFunc("/credits/history", h.Ledger.History).Methods(http.MethodGet)
	auth.HandleFunc("/credits/grant", h.Ledger.Grant).Methods(http.MethodPost)

	auth.HandleFunc("/trips/{id}/messages", h.Messages.Send).Methods(http.MethodPost)
	auth.HandleFunc("/trips/{id}/messages", h.Messages.Thread).Methods(http.MethodGet)
	auth.HandleFunc("/trips/{id}/messages/read", h.Messages.MarkRead).Methods(http.MethodPost)
	auth.HandleFunc("/messages/unread", h.Messages.UnreadCount).Methods(http.MethodGet)

	auth.HandleFunc("/ratings", h.Ratings.Submit).Methods(http.MethodPost)

	return r
}
