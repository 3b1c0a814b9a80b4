package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"ridepool-backend/internal/domain"
	"ridepool-backend/internal/logger"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		if err := json.NewEncoder(w).Encode(v); err != nil {
			logger.Error("failed to encode response", "error", err)
		}
	}
}

// writeError maps domain errors onto HTTP statuses. Reconciliation errors
// surface as 500 so callers retry; the details stay in the log.
func writeError(w http.ResponseWriter, err error) {
	var validationErr *domain.ValidationError
	var recErr *domain.ReconciliationError

	switch {
	case errors.As(err, &validationErr):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: validationErr.Error()})
	case errors.Is(err, domain.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: err.Error()})
	case errors.Is(err, domain.ErrNotAuthorized):
		writeJSON(w, http.StatusForbidden, errorResponse{Error: err.Error()})
	case errors.Is(err, domain.ErrInsufficientCredits):
		writeJSON(w, http.StatusPaymentRequired, errorResponse{Error: err.Error()})
	case errors.Is(err, domain.ErrInsufficientSeats),
		errors.Is(err, domain.ErrTripNotActive),
		errors.Is(err, domain.ErrDuplicateBooking),
		errors.Is(err, domain.ErrDuplicateRating),
		errors.Is(err, domain.ErrTripNotCompleted),
		errors.Is(err, domain.ErrInvalidStateTransition):
		writeJSON(w, http.StatusConflict, errorResponse{Error: err.Error()})
	case errors.As(err, &recErr):
		logger.Error("reconciliation error surfaced to API", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal inconsistency, operation will be reconciled"})
	default:
		logger.Error("unhandled error in API", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal server error"})
	}
}

type pagedResponse struct {
	Items interface{} `json:"items"`
	Total int32       `json:"total"`
	Page  int32       `json:"page"`
}
