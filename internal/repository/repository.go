package repository

import (
	"context"
	"time"

	"ridepool-backend/internal/domain"
)

type TripRepository interface {
	Create(ctx context.Context, trip *domain.Trip) error
	GetByID(ctx context.Context, id string) (*domain.Trip, error)
	Search(ctx context.Context, filter domain.TripFilter, page, pageSize int32) ([]domain.TripSearchResult, int32, error)
	ListByDriver(ctx context.Context, driverID string, page, pageSize int32) ([]domain.Trip, int32, error)

	// ReserveSeats atomically decrements available seats by n, flipping the
	// trip to full when the count reaches zero. Fails with
	// ErrInsufficientSeats or ErrTripNotActive without mutating anything.
	ReserveSeats(ctx context.Context, tripID string, n int32) error

	// ReleaseSeats atomically increments available seats by n, capped at
	// total seats, flipping full back to active.
	ReleaseSeats(ctx context.Context, tripID string, n int32) error

	// TransitionStatus moves the trip to the given status only if its
	// current status is one of from. Zero rows affected maps to
	// ErrInvalidStateTransition.
	TransitionStatus(ctx context.Context, tripID string, to domain.TripStatus, from ...domain.TripStatus) error

	// CompleteDeparted marks active and full trips whose departure time is
	// before cutoff as completed, returning the affected trip ids.
	CompleteDeparted(ctx context.Context, cutoff time.Time) ([]string, error)
}

type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) error
	GetByID(ctx context.Context, id string) (*domain.Booking, error)
	ListByPassenger(ctx context.Context, passengerID string, page, pageSize int32) ([]domain.Booking, int32, error)
	ListByDriver(ctx context.Context, driverID string, page, pageSize int32) ([]domain.Booking, int32, error)
	ListOpenByTrip(ctx context.Context, tripID string) ([]domain.Booking, error)
	ListPendingDeparted(ctx context.Context, cutoff time.Time) ([]domain.Booking, error)

	// TransitionStatus moves the booking to the given status only if its
	// current status is one of from. Zero rows affected maps to
	// ErrInvalidStateTransition.
	TransitionStatus(ctx context.Context, bookingID string, to domain.BookingStatus, from ...domain.BookingStatus) error
}

type LedgerRepository interface {
	GetBalance(ctx context.Context, accountID string) (*domain.Balance, error)
	GetHold(ctx context.Context, holdID string) (*domain.CreditHold, error)
	ListEntries(ctx context.Context, accountID string, page, pageSize int32) ([]domain.LedgerEntry, int32, error)

	// Hold moves amount from spendable to held, appending a HOLD entry.
	// Fails with ErrInsufficientCredits when spendable < amount.
	Hold(ctx context.Context, accountID string, amount int32, reasonRef, description string) (*domain.CreditHold, error)

	// SettleHold converts an open hold into a permanent debit.
	SettleHold(ctx context.Context, holdID string) error

	// ReleaseHold returns an open hold to spendable. Releasing an already
	// released or settled hold is a no-op.
	ReleaseHold(ctx context.Context, holdID string) error

	// Credit directly increases the spendable balance.
	Credit(ctx context.Context, accountID string, amount int32, reasonRef, description string) error
}

type MessageRepository interface {
	Create(ctx context.Context, msg *domain.Message) error
	Thread(ctx context.Context, tripID, userA, userB string) ([]domain.Message, error)
	MarkRead(ctx context.Context, tripID, receiverID string) (int64, error)
	UnreadCount(ctx context.Context, userID string) (int32, error)
}

type RatingRepository interface {
	Create(ctx context.Context, rating *domain.Rating) error
	Average(ctx context.Context, ratedID string) (*domain.RatingSummary, error)
	ListByRated(ctx context.Context, ratedID string, page, pageSize int32) ([]domain.Rating, int32, error)
}

type ProfileRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Profile, error)
}
