package jobs_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ridepool-backend/internal/config"
	"ridepool-backend/internal/domain"
	"ridepool-backend/internal/jobs"
	"ridepool-backend/internal/repository"
	"ridepool-backend/internal/repository/postgres"
)

type fakeTripRepo struct {
	repository.TripRepository
	trips     map[string]*domain.Trip
	completed []string
}

func (f *fakeTripRepo) GetByID(ctx context.Context, id string) (*domain.Trip, error) {
	trip, ok := f.trips[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *trip
	return &cp, nil
}

func (f *fakeTripRepo) ReleaseSeats(ctx context.Context, tripID string, n int32) error {
	trip, ok := f.trips[tripID]
	if !ok {
		return domain.ErrNotFound
	}
	trip.AvailableSeats += n
	if trip.AvailableSeats > trip.TotalSeats {
		trip.AvailableSeats = trip.TotalSeats
	}
	if trip.Status == domain.TripStatusFull {
		trip.Status = domain.TripStatusActive
	}
	return nil
}

func (f *fakeTripRepo) CompleteDeparted(ctx context.Context, cutoff time.Time) ([]string, error) {
	var ids []string
	for _, trip := range f.trips {
		if !trip.Status.Terminal() && trip.DepartureTime.Before(cutoff) {
			trip.Status = domain.TripStatusCompleted
			ids = append(ids, trip.ID)
		}
	}
	f.completed = append(f.completed, ids...)
	return ids, nil
}

type fakeBookingRepo struct {
	repository.BookingRepository
	pending  []domain.Booking
	statuses map[string]domain.BookingStatus
}

func (f *fakeBookingRepo) ListPendingDeparted(ctx context.Context, cutoff time.Time) ([]domain.Booking, error) {
	return f.pending, nil
}

func (f *fakeBookingRepo) TransitionStatus(ctx context.Context, bookingID string, to domain.BookingStatus, from ...domain.BookingStatus) error {
	f.statuses[bookingID] = to
	return nil
}

type fakeLedgerRepo struct {
	repository.LedgerRepository
	released []string
}

func (f *fakeLedgerRepo) ReleaseHold(ctx context.Context, holdID string) error {
	f.released = append(f.released, holdID)
	return nil
}

func newRunner(trips *fakeTripRepo, bookings *fakeBookingRepo, ledger *fakeLedgerRepo) *jobs.JobRunner {
	store := &postgres.Store{
		TripRepository:    trips,
		BookingRepository: bookings,
		LedgerRepository:  ledger,
	}
	cfg := &config.Config{Scheduler: config.SchedulerConfig{CompletionGraceHours: 6}}
	return jobs.NewJobRunner(nil, store, cfg)
}

func TestExpireStaleBookings(t *testing.T) {
	t.Run("ReturnsSeatsAndReleasesHold", func(t *testing.T) {
		holdID := "hold-1"
		trips := &fakeTripRepo{trips: map[string]*domain.Trip{
			"trip-1": {
				ID:             "trip-1",
				Status:         domain.TripStatusActive,
				TotalSeats:     3,
				AvailableSeats: 1,
				DepartureTime:  time.Now().UTC().Add(-time.Hour),
			},
		}}
		bookings := &fakeBookingRepo{
			pending: []domain.Booking{
				{ID: "booking-1", TripID: "trip-1", PassengerID: "pass-1",
					Seats: 2, HoldID: &holdID, Status: domain.BookingStatusPending},
			},
			statuses: map[string]domain.BookingStatus{},
		}
		ledger := &fakeLedgerRepo{}

		newRunner(trips, bookings, ledger).ExpireStaleBookings()

		assert.Equal(t, domain.BookingStatusCancelled, bookings.statuses["booking-1"])
		assert.Equal(t, int32(3), trips.trips["trip-1"].AvailableSeats,
			"seats must be returned to the trip")
		assert.Equal(t, []string{"hold-1"}, ledger.released)
	})

	t.Run("FullTripFlipsBackToActive", func(t *testing.T) {
		holdID := "hold-2"
		trips := &fakeTripRepo{trips: map[string]*domain.Trip{
			"trip-2": {
				ID:             "trip-2",
				Status:         domain.TripStatusFull,
				TotalSeats:     2,
				AvailableSeats: 0,
				DepartureTime:  time.Now().UTC().Add(-time.Hour),
			},
		}}
		bookings := &fakeBookingRepo{
			pending: []domain.Booking{
				{ID: "booking-2", TripID: "trip-2", PassengerID: "pass-2",
					Seats: 2, HoldID: &holdID, Status: domain.BookingStatusPending},
			},
			statuses: map[string]domain.BookingStatus{},
		}
		ledger := &fakeLedgerRepo{}

		newRunner(trips, bookings, ledger).ExpireStaleBookings()

		assert.Equal(t, domain.TripStatusActive, trips.trips["trip-2"].Status)
		assert.Equal(t, int32(2), trips.trips["trip-2"].AvailableSeats)
		assert.Equal(t, []string{"hold-2"}, ledger.released)
	})

	t.Run("TerminalTripSkipsSeatRelease", func(t *testing.T) {
		holdID := "hold-3"
		trips := &fakeTripRepo{trips: map[string]*domain.Trip{
			"trip-3": {
				ID:             "trip-3",
				Status:         domain.TripStatusCancelled,
				TotalSeats:     3,
				AvailableSeats: 3,
				DepartureTime:  time.Now().UTC().Add(-time.Hour),
			},
		}}
		bookings := &fakeBookingRepo{
			pending: []domain.Booking{
				{ID: "booking-3", TripID: "trip-3", PassengerID: "pass-3",
					Seats: 1, HoldID: &holdID, Status: domain.BookingStatusPending},
			},
			statuses: map[string]domain.BookingStatus{},
		}
		ledger := &fakeLedgerRepo{}

		newRunner(trips, bookings, ledger).ExpireStaleBookings()

		assert.Equal(t, domain.BookingStatusCancelled, bookings.statuses["booking-3"])
		assert.Equal(t, int32(3), trips.trips["trip-3"].AvailableSeats)
		assert.Equal(t, []string{"hold-3"}, ledger.released)
	})

	t.Run("NoHoldStillCancels", func(t *testing.T) {
		trips := &fakeTripRepo{trips: map[string]*domain.Trip{
			"trip-4": {
				ID:             "trip-4",
				Status:         domain.TripStatusActive,
				TotalSeats:     4,
				AvailableSeats: 3,
				DepartureTime:  time.Now().UTC().Add(-time.Hour),
			},
		}}
		bookings := &fakeBookingRepo{
			pending: []domain.Booking{
				{ID: "booking-4", TripID: "trip-4", PassengerID: "pass-4",
					Seats: 1, Status: domain.BookingStatusPending},
			},
			statuses: map[string]domain.BookingStatus{},
		}
		ledger := &fakeLedgerRepo{}

		newRunner(trips, bookings, ledger).ExpireStaleBookings()

		assert.Equal(t, domain.BookingStatusCancelled, bookings.statuses["booking-4"])
		assert.Equal(t, int32(4), trips.trips["trip-4"].AvailableSeats)
		assert.Empty(t, ledger.released)
	})
}

func TestCompleteDepartedTrips(t *testing.T) {
	trips := &fakeTripRepo{trips: map[string]*domain.Trip{
		"trip-old": {
			ID:            "trip-old",
			Status:        domain.TripStatusActive,
			TotalSeats:    3,
			DepartureTime: time.Now().UTC().Add(-24 * time.Hour),
		},
		"trip-soon": {
			ID:            "trip-soon",
			Status:        domain.TripStatusActive,
			TotalSeats:    3,
			DepartureTime: time.Now().UTC().Add(-time.Hour),
		},
	}}
	bookings := &fakeBookingRepo{statuses: map[string]domain.BookingStatus{}}
	ledger := &fakeLedgerRepo{}

	newRunner(trips, bookings, ledger).CompleteDepartedTrips()

	require.Equal(t, []string{"trip-old"}, trips.completed)
	assert.Equal(t, domain.TripStatusCompleted, trips.trips["trip-old"].Status)
	assert.Equal(t, domain.TripStatusActive, trips.trips["trip-soon"].Status)
}
