package http

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"ridepool-backend/internal/domain"
	"ridepool-backend/internal/service"
)

type TripHandler struct {
	tripSvc service.TripService
}

func NewTripHandler(tripSvc service.TripService) *TripHandler {
	return &TripHandler{tripSvc: tripSvc}
}

func (h *TripHandler) Publish(w http.ResponseWriter, r *http.Request) {
	var draft domain.TripDraft
	if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	trip, err := h.tripSvc.Publish(r.Context(), actorID(r), draft)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, trip)
}

func (h *TripHandler) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := domain.TripFilter{
		DepartureCity: q.Get("from"),
		ArrivalCity:   q.Get("to"),
	}
	if v := q.Get("date_from"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid date_from"})
			return
		}
		filter.DateFrom = &t
	}
	if v := q.Get("date_to"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid date_to"})
			return
		}
		filter.DateTo = &t
	}
	if v := q.Get("min_seats"); v != "" {
		n, _ := strconv.ParseInt(v, 10, 32)
		filter.MinSeats = int32(n)
	}
	if v := q.Get("max_price_cents"); v != "" {
		n, _ := strconv.ParseInt(v, 10, 32)
		filter.MaxPriceCents = int32(n)
	}
	for param, dst := range map[string]**bool{
		"allows_pets":     &filter.AllowsPets,
		"allows_smoking":  &filter.AllowsSmoking,
		"allows_music":    &filter.AllowsMusic,
		"instant_booking": &filter.InstantBooking,
	} {
		if v := q.Get(param); v != "" {
			b := v == "true" || v == "1"
			*dst = &b
		}
	}

	page, pageSize := pagination(r)
	trips, total, err := h.tripSvc.Search(r.Context(), filter, page, pageSize)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, pagedResponse{Items: trips, Total: total, Page: page})
}

func (h *TripHandler) Get(w http.ResponseWriter, r *http.Request) {
	tripID := mux.Vars(r)["id"]
	trip, profile, err := h.tripSvc.Get(r.Context(), tripID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"trip":   trip,
		"driver": profile,
	})
}

func (h *TripHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	page, pageSize := pagination(r)
	trips, total, err := h.tripSvc.ListMine(r.Context(), actorID(r), page, pageSize)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, pagedResponse{Items: trips, Total: total, Page: page})
}

func (h *TripHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	tripID := mux.Vars(r)["id"]
	if err := h.tripSvc.Cancel(r.Context(), tripID, actorID(r)); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "cancelled"})
}

func (h *TripHandler) Complete(w http.ResponseWriter, r *http.Request) {
	tripID := mux.Vars(r)["id"]
	if err := h.tripSvc.Complete(r.Context(), tripID, actorID(r)); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "completed"})
}

func pagination(r *http.Request) (int32, int32) {
	page := int32(1)
	pageSize := int32(20)
	if v := r.URL.Query().Get("page"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 32); err == nil && n > 0 {
			page = int32(n)
		}
	}
	if v := r.URL.Query().Get("page_size"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 32); err == nil && n > 0 {
			pageSize = int32(n)
		}
	}
	return page, pageSize
}
