package service

import (
	"context"

	"ridepool-backend/internal/domain"
)

type TripService interface {
	Publish(ctx context.Context, driverID string, draft domain.TripDraft) (*domain.Trip, error)
	Search(ctx context.Context, filter domain.TripFilter, page, pageSize int32) ([]domain.TripSearchResult, int32, error)
	Get(ctx context.Context, tripID string) (*domain.TripSearchResult, *domain.Profile, error)
	ListMine(ctx context.Context, driverID string, page, pageSize int32) ([]domain.Trip, int32, error)
	Cancel(ctx context.Context, tripID, driverID string) error
	Complete(ctx context.Context, tripID, driverID string) error
}

type BookingService interface {
	Request(ctx context.Context, passengerID, tripID string, seats int32, message string) (*domain.Booking, error)
	Confirm(ctx context.Context, bookingID, driverID string) error
	Reject(ctx context.Context, bookingID, driverID string) error
	Cancel(ctx context.Context, bookingID, actorID string) error
	Get(ctx context.Context, bookingID, actorID string) (*domain.Booking, error)
	ListForPassenger(ctx context.Context, passengerID string, page, pageSize int32) ([]domain.Booking, int32, error)
	ListForDriver(ctx context.Context, driverID string, page, pageSize int32) ([]domain.Booking, int32, error)
}

type LedgerService interface {
	Balance(ctx context.Context, accountID string) (*domain.Balance, error)
	History(ctx context.Context, accountID string, page, pageSize int32) ([]domain.LedgerEntry, int32, error)
	Grant(ctx context.Context, accountID string, amount int32, reason string) error
}

type MessageService interface {
	Send(ctx context.Context, tripID, senderID, receiverID, body string) (*domain.Message, error)
	Thread(ctx context.Context, tripID, userA, userB string) ([]domain.Message, error)
	MarkRead(ctx context.Context, tripID, receiverID string) error
	UnreadCount(ctx context.Context, userID string) (int32, error)
}

// SubScores carries the optional per-aspect scores of a rating.
type SubScores struct {
	Punctuality *int32 `json:"punctuality,omitempty"`
	Driving     *int32 `json:"driving,omitempty"`
	Comfort     *int32 `json:"comfort,omitempty"`
}

type RatingService interface {
	Submit(ctx context.Context, raterID, tripID, ratedID string, score int32, sub *SubScores, comment string, tags []string) (*domain.Rating, error)
	Average(ctx context.Context, ratedID string) (*domain.RatingSummary, error)
	ListForUser(ctx context.Context, ratedID string, page, pageSize int32) ([]domain.Rating, int32, error)
}

// Event types passed to the Notifier.
const (
	EventBookingRequested = "booking_requested"
	EventBookingConfirmed = "booking_confirmed"
	EventBookingRejected  = "booking_rejected"
	EventBookingCancelled = "booking_cancelled"
	EventTripCancelled    = "trip_cancelled"
	EventMessageReceived  = "message_received"
)

// Notifier delivers fire-and-forget notifications. Delivery failures are the
// implementation's problem; callers never roll back on them.
type Notifier interface {
	Notify(ctx context.Context, userID, event string, payload map[string]string) error
}

// ProfileProvider exposes the identity service's read-only profile data.
type ProfileProvider interface {
	GetProfile(ctx context.Context, userID string) (*domain.Profile, error)
}
