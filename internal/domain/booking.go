package domain

import "time"

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusRejected  BookingStatus = "rejected"
	BookingStatusCancelled BookingStatus = "cancelled"
)

// Terminal reports whether the booking has reached a final state.
func (s BookingStatus) Terminal() bool {
	return s == BookingStatusRejected || s == BookingStatusCancelled
}

type Booking struct {
	ID              string        `json:"id"`
	TripID          string        `json:"trip_id"`
	PassengerID     string        `json:"passenger_id"`
	Seats           int32         `json:"seats"`
	TotalPriceCents int32         `json:"total_price_cents"` // seats x price per seat, settled in cash between parties
	CreditFee       int32         `json:"credit_fee"`        // credits held against the passenger's ledger
	HoldID          *string       `json:"hold_id,omitempty"`
	Message         string        `json:"message"`
	Status          BookingStatus `json:"status"`
	CreatedOn       time.Time     `json:"created_on"`
	UpdatedOn       time.Time     `json:"updated_on"`
}
