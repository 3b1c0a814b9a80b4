package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"

	"ridepool-backend/internal/domain"
	"ridepool-backend/internal/repository/postgres"
)

func TestBookingRepository_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := postgres.NewBookingRepository(db)
	ctx := context.Background()
	now := time.Now()
	holdID := "hold-1"

	t.Run("Success", func(t *testing.T) {
		b := &domain.Booking{
			TripID:          "trip-1",
			PassengerID:     "pass-1",
			Seats:           2,
			TotalPriceCents: 3000,
			CreditFee:       2,
			HoldID:          &holdID,
			Message:         "Looking forward to the ride, see you Saturday!",
			Status:          domain.BookingStatusPending,
		}

		mock.ExpectQuery("INSERT INTO bookings").
			WithArgs(sqlmock.AnyArg(), "trip-1", "pass-1", int32(2), int32(3000), int32(2), &holdID, b.Message, domain.BookingStatusPending).
			WillReturnRows(sqlmock.NewRows([]string{"created_on", "updated_on"}).AddRow(now, now))

		assert.NoError(t, repo.Create(ctx, b))
		assert.NotEmpty(t, b.ID)
	})

	t.Run("DuplicateOpenBooking", func(t *testing.T) {
		b := &domain.Booking{TripID: "trip-1", PassengerID: "pass-1", Seats: 1, Status: domain.BookingStatusPending}

		mock.ExpectQuery("INSERT INTO bookings").
			WillReturnError(&pq.Error{Code: "23505", Constraint: "idx_bookings_open_unique"})

		assert.ErrorIs(t, repo.Create(ctx, b), domain.ErrDuplicateBooking)
	})
}

func TestBookingRepository_TransitionStatus(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := postgres.NewBookingRepository(db)
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		mock.ExpectExec("UPDATE bookings SET status").
			WithArgs("booking-1", domain.BookingStatusConfirmed, sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.TransitionStatus(ctx, "booking-1", domain.BookingStatusConfirmed, domain.BookingStatusPending)
		assert.NoError(t, err)
	})

	t.Run("AlreadyDecided", func(t *testing.T) {
		mock.ExpectExec("UPDATE bookings SET status").
			WithArgs("booking-1", domain.BookingStatusConfirmed, sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery("SELECT EXISTS").
			WithArgs("booking-1").
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

		err := repo.TransitionStatus(ctx, "booking-1", domain.BookingStatusConfirmed, domain.BookingStatusPending)
		assert.ErrorIs(t, err, domain.ErrInvalidStateTransition)
	})

	t.Run("UnknownBooking", func(t *testing.T) {
		mock.ExpectExec("UPDATE bookings SET status").
			WithArgs("booking-x", domain.BookingStatusConfirmed, sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery("SELECT EXISTS").
			WithArgs("booking-x").
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

		err := repo.TransitionStatus(ctx, "booking-x", domain.BookingStatusConfirmed, domain.BookingStatusPending)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestBookingRepository_ListPendingDeparted(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := postgres.NewBookingRepository(db)
	ctx := context.Background()
	cutoff := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	now := time.Now()
	holdID := "hold-1"

	mock.ExpectQuery("FROM bookings b JOIN trips t").
		WithArgs(cutoff).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "trip_id", "passenger_id", "seats", "total_price_cents", "credit_fee",
			"hold_id", "message", "status", "created_on", "updated_on",
		}).AddRow("booking-1", "trip-1", "pass-1", 1, 1500, 2, &holdID, "msg", "pending", now, now))

	stale, err := repo.ListPendingDeparted(ctx, cutoff)
	assert.NoError(t, err)
	assert.Len(t, stale, 1)
	assert.Equal(t, "booking-1", stale[0].ID)
	assert.Equal(t, domain.BookingStatusPending, stale[0].Status)
}
