package domain

import "time"

// Message belongs to a per-trip thread between two counterparties.
type Message struct {
	ID         string    `json:"id"`
	TripID     string    `json:"trip_id"`
	SenderID   string    `json:"sender_id"`
	ReceiverID string    `json:"receiver_id"`
	Body       string    `json:"body"`
	IsRead     bool      `json:"is_read"`
	CreatedOn  time.Time `json:"created_on"`
}
