package domain

import "time"

type TripStatus string

const (
	TripStatusActive    TripStatus = "active"
	TripStatusFull      TripStatus = "full"
	TripStatusCancelled TripStatus = "cancelled"
	TripStatusCompleted TripStatus = "completed"
)

// Terminal reports whether the trip can no longer accept bookings.
func (s TripStatus) Terminal() bool {
	return s == TripStatusCancelled || s == TripStatusCompleted
}

type ChatLevel string

const (
	ChatLevelQuiet  ChatLevel = "bla"
	ChatLevelNormal ChatLevel = "blabla"
	ChatLevelChatty ChatLevel = "blablabla"
)

type LuggageSize string

const (
	LuggageSmall  LuggageSize = "small"
	LuggageMedium LuggageSize = "medium"
	LuggageLarge  LuggageSize = "large"
	LuggageXL     LuggageSize = "xl"
)

type Trip struct {
	ID                string      `json:"id"`
	DriverID          string      `json:"driver_id"`
	DepartureAddress  string      `json:"departure_address"`
	DepartureCity     string      `json:"departure_city"`
	DepartureLat      *float64    `json:"departure_lat,omitempty"`
	DepartureLng      *float64    `json:"departure_lng,omitempty"`
	ArrivalAddress    string      `json:"arrival_address"`
	ArrivalCity       string      `json:"arrival_city"`
	ArrivalLat        *float64    `json:"arrival_lat,omitempty"`
	ArrivalLng        *float64    `json:"arrival_lng,omitempty"`
	DepartureTime     time.Time   `json:"departure_time"`
	TotalSeats        int32       `json:"total_seats"`
	AvailableSeats    int32       `json:"available_seats"`
	PricePerSeatCents int32       `json:"price_per_seat_cents"`
	Vehicle           string      `json:"vehicle"`
	AllowsPets        bool        `json:"allows_pets"`
	AllowsSmoking     bool        `json:"allows_smoking"`
	AllowsMusic       bool        `json:"allows_music"`
	ChatLevel         ChatLevel   `json:"chat_level"`
	MaxTwoBack        bool        `json:"max_two_back"`
	LuggageSize       LuggageSize `json:"luggage_size"`
	InstantBooking    bool        `json:"instant_booking"`
	Description       string      `json:"description,omitempty"`
	Status            TripStatus  `json:"status"`
	CreatedOn         time.Time   `json:"created_on"`
	UpdatedOn         time.Time   `json:"updated_on"`
}

// TripDraft carries the driver-supplied fields of a publication request.
type TripDraft struct {
	DepartureAddress  string      `json:"departure_address"`
	DepartureCity     string      `json:"departure_city"`
	DepartureLat      *float64    `json:"departure_lat,omitempty"`
	DepartureLng      *float64    `json:"departure_lng,omitempty"`
	ArrivalAddress    string      `json:"arrival_address"`
	ArrivalCity       string      `json:"arrival_city"`
	ArrivalLat        *float64    `json:"arrival_lat,omitempty"`
	ArrivalLng        *float64    `json:"arrival_lng,omitempty"`
	DepartureTime     time.Time   `json:"departure_time"`
	TotalSeats        int32       `json:"total_seats"`
	PricePerSeatCents int32       `json:"price_per_seat_cents"`
	Vehicle           string      `json:"vehicle"`
	AllowsPets        bool        `json:"allows_pets"`
	AllowsSmoking     bool        `json:"allows_smoking"`
	AllowsMusic       bool        `json:"allows_music"`
	ChatLevel         ChatLevel   `json:"chat_level"`
	MaxTwoBack        bool        `json:"max_two_back"`
	LuggageSize       LuggageSize `json:"luggage_size"`
	InstantBooking    bool        `json:"instant_booking"`
	Description       string      `json:"description,omitempty"`
}

// TripFilter narrows a catalog search. Zero values mean "no constraint".
type TripFilter struct {
	DepartureCity     string     `json:"departure_city,omitempty"`
	ArrivalCity       string     `json:"arrival_city,omitempty"`
	DateFrom          *time.Time `json:"date_from,omitempty"`
	DateTo            *time.Time `json:"date_to,omitempty"`
	MinSeats          int32      `json:"min_seats,omitempty"`
	MaxPriceCents     int32      `json:"max_price_cents,omitempty"`
	AllowsPets        *bool      `json:"allows_pets,omitempty"`
	AllowsSmoking     *bool      `json:"allows_smoking,omitempty"`
	AllowsMusic       *bool      `json:"allows_music,omitempty"`
	InstantBooking    *bool      `json:"instant_booking,omitempty"`
}

// TripSearchResult decorates a trip with driver identity and aggregate rating.
type TripSearchResult struct {
	Trip
	DriverName   string   `json:"driver_name,omitempty"`
	DriverRating *float64 `json:"driver_rating,omitempty"`
	RatingCount  int32    `json:"rating_count"`
}
