package http

import (
	"encoding/json"
	"net/http"

	"ridepool-backend/internal/service"
)

type LedgerHandler struct {
	ledgerSvc service.LedgerService
}

func NewLedgerHandler(ledgerSvc service.LedgerService) *LedgerHandler {
	return &LedgerHandler{ledgerSvc: ledgerSvc}
}

func (h *LedgerHandler) Balance(w http.ResponseWriter, r *http.Request) {
	balance, err := h.ledgerSvc.Balance(r.Context(), actorID(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, balance)
}

func (h *LedgerHandler) History(w http.ResponseWriter, r *http.Request) {
	page, pageSize := pagination(r)
	entries, total, err := h.ledgerSvc.History(r.Context(), actorID(r), page, pageSize)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, pagedResponse{Items: entries, Total: total, Page: page})
}

type grantBody struct {
	AccountID string `json:"account_id"`
	Amount    int32  `json:"amount"`
	Reason    string `json:"reason"`
}

// Grant credits an account. It is exposed for operational tooling; the router
// mounts it behind the same auth middleware as everything else.
func (h *LedgerHandler) Grant(w http.ResponseWriter, r *http.Request) {
	var body grantBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	if err := h.ledgerSvc.Grant(r.Context(), body.AccountID, body.Amount, body.Reason); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "granted"})
}
