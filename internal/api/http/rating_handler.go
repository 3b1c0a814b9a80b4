package http

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"ridepool-backend/internal/service"
)

type RatingHandler struct {
	ratingSvc service.RatingService
}

func NewRatingHandler(ratingSvc service.RatingService) *RatingHandler {
	return &RatingHandler{ratingSvc: ratingSvc}
}

type submitRatingBody struct {
	TripID  string             `json:"trip_id"`
	RatedID string             `json:"rated_id"`
	Score   int32              `json:"score"`
	Sub     *service.SubScores `json:"sub_scores,omitempty"`
	Comment string             `json:"comment"`
	Tags    []string           `json:"tags"`
}

func (h *RatingHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var body submitRatingBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	rating, err := h.ratingSvc.Submit(r.Context(), actorID(r), body.TripID, body.RatedID, body.Score, body.Sub, body.Comment, body.Tags)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, rating)
}

func (h *RatingHandler) Average(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["id"]
	summary, err := h.ratingSvc.Average(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	if summary == nil {
		writeJSON(w, http.StatusOK, map[string]interface{}{"rated_id": userID, "average": nil, "count": 0})
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (h *RatingHandler) ListForUser(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["id"]
	page, pageSize := pagination(r)
	ratings, total, err := h.ratingSvc.ListForUser(r.Context(), userID, page, pageSize)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, pagedResponse{Items: ratings, Total: total, Page: page})
}
