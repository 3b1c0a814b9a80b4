package http

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"ridepool-backend/internal/service"
)

type MessageHandler struct {
	messageSvc service.MessageService
}

func NewMessageHandler(messageSvc service.MessageService) *MessageHandler {
	return &MessageHandler{messageSvc: messageSvc}
}

type sendMessageBody struct {
	ReceiverID string `json:"receiver_id"`
	Body       string `json:"body"`
}

func (h *MessageHandler) Send(w http.ResponseWriter, r *http.Request) {
	tripID := mux.Vars(r)["id"]
	var body sendMessageBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	msg, err := h.messageSvc.Send(r.Context(), tripID, actorID(r), body.ReceiverID, body.Body)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, msg)
}

func (h *MessageHandler) Thread(w http.ResponseWriter, r *http.Request) {
	tripID := mux.Vars(r)["id"]
	other := r.URL.Query().Get("with")
	if other == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "missing 'with' query parameter"})
		return
	}

	msgs, err := h.messageSvc.Thread(r.Context(), tripID, actorID(r), other)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"messages": msgs})
}

func (h *MessageHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	tripID := mux.Vars(r)["id"]
	if err := h.messageSvc.MarkRead(r.Context(), tripID, actorID(r)); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "read"})
}

func (h *MessageHandler) UnreadCount(w http.ResponseWriter, r *http.Request) {
	count, err := h.messageSvc.UnreadCount(r.Context(), actorID(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int32{"unread": count})
}
