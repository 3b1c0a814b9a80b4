package http

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"ridepool-backend/internal/service"
)

type BookingHandler struct {
	bookingSvc service.BookingService
}

func NewBookingHandler(bookingSvc service.BookingService) *BookingHandler {
	return &BookingHandler{bookingSvc: bookingSvc}
}

type requestBookingBody struct {
	TripID  string `json:"trip_id"`
	Seats   int32  `json:"seats"`
	Message string `json:"message"`
}

func (h *BookingHandler) Request(w http.ResponseWriter, r *http.Request) {
	var body requestBookingBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	booking, err := h.bookingSvc.Request(r.Context(), actorID(r), body.TripID, body.Seats, body.Message)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, booking)
}

func (h *BookingHandler) Get(w http.ResponseWriter, r *http.Request) {
	bookingID := mux.Vars(r)["id"]
	booking, err := h.bookingSvc.Get(r.Context(), bookingID, actorID(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, booking)
}

func (h *BookingHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	bookingID := mux.Vars(r)["id"]
	if err := h.bookingSvc.Confirm(r.Context(), bookingID, actorID(r)); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "confirmed"})
}

func (h *BookingHandler) Reject(w http.ResponseWriter, r *http.Request) {
	bookingID := mux.Vars(r)["id"]
	if err := h.bookingSvc.Reject(r.Context(), bookingID, actorID(r)); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "rejected"})
}

func (h *BookingHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	bookingID := mux.Vars(r)["id"]
	if err := h.bookingSvc.Cancel(r.Context(), bookingID, actorID(r)); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "cancelled"})
}

func (h *BookingHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	page, pageSize := pagination(r)
	bookings, total, err := h.bookingSvc.ListForPassenger(r.Context(), actorID(r), page, pageSize)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, pagedResponse{Items: bookings, Total: total, Page: page})
}

func (h *BookingHandler) ListReceived(w http.ResponseWriter, r *http.Request) {
	page, pageSize := pagination(r)
	bookings, total, err := h.bookingSvc.ListForDriver(r.Context(), actorID(r), page, pageSize)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, pagedResponse{Items: bookings, Total: total, Page: page})
}
