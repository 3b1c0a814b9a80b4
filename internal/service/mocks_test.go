package service_test

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"ridepool-backend/internal/domain"
)

// MockTripRepo
type MockTripRepo struct {
	mock.Mock
}

func (m *MockTripRepo) Create(ctx context.Context, trip *domain.Trip) error {
	args := m.Called(ctx, trip)
	return args.Error(0)
}
func (m *MockTripRepo) GetByID(ctx context.Context, id string) (*domain.Trip, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Trip), args.Error(1)
}
func (m *MockTripRepo) Search(ctx context.Context, filter domain.TripFilter, page, pageSize int32) ([]domain.TripSearchResult, int32, error) {
	args := m.Called(ctx, filter, page, pageSize)
	return args.Get(0).([]domain.TripSearchResult), args.Get(1).(int32), args.Error(2)
}
func (m *MockTripRepo) ListByDriver(ctx context.Context, driverID string, page, pageSize int32) ([]domain.Trip, int32, error) {
	args := m.Called(ctx, driverID, page, pageSize)
	return args.Get(0).([]domain.Trip), args.Get(1).(int32), args.Error(2)
}
func (m *MockTripRepo) ReserveSeats(ctx context.Context, tripID string, n int32) error {
	args := m.Called(ctx, tripID, n)
	return args.Error(0)
}
func (m *MockTripRepo) ReleaseSeats(ctx context.Context, tripID string, n int32) error {
	args := m.Called(ctx, tripID, n)
	return args.Error(0)
}
func (m *MockTripRepo) TransitionStatus(ctx context.Context, tripID string, to domain.TripStatus, from ...domain.TripStatus) error {
	args := m.Called(ctx, tripID, to, from)
	return args.Error(0)
}
func (m *MockTripRepo) CompleteDeparted(ctx context.Context, cutoff time.Time) ([]string, error) {
	args := m.Called(ctx, cutoff)
	return args.Get(0).([]string), args.Error(1)
}

// MockBookingRepo
type MockBookingRepo struct {
	mock.Mock
}

func (m *MockBookingRepo) Create(ctx context.Context, booking *domain.Booking) error {
	args := m.Called(ctx, booking)
	return args.Error(0)
}
func (m *MockBookingRepo) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}
func (m *MockBookingRepo) ListByPassenger(ctx context.Context, passengerID string, page, pageSize int32) ([]domain.Booking, int32, error) {
	args := m.Called(ctx, passengerID, page, pageSize)
	return args.Get(0).([]domain.Booking), args.Get(1).(int32), args.Error(2)
}
func (m *MockBookingRepo) ListByDriver(ctx context.Context, driverID string, page, pageSize int32) ([]domain.Booking, int32, error) {
	args := m.Called(ctx, driverID, page, pageSize)
	return args.Get(0).([]domain.Booking), args.Get(1).(int32), args.Error(2)
}
func (m *MockBookingRepo) ListOpenByTrip(ctx context.Context, tripID string) ([]domain.Booking, error) {
	args := m.Called(ctx, tripID)
	return args.Get(0).([]domain.Booking), args.Error(1)
}
func (m *MockBookingRepo) ListPendingDeparted(ctx context.Context, cutoff time.Time) ([]domain.Booking, error) {
	args := m.Called(ctx, cutoff)
	return args.Get(0).([]domain.Booking), args.Error(1)
}
func (m *MockBookingRepo) TransitionStatus(ctx context.Context, bookingID string, to domain.BookingStatus, from ...domain.BookingStatus) error {
	args := m.Called(ctx, bookingID, to, from)
	return args.Error(0)
}

// MockLedgerRepo
type MockLedgerRepo struct {
	mock.Mock
}

func (m *MockLedgerRepo) GetBalance(ctx context.Context, accountID string) (*domain.Balance, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Balance), args.Error(1)
}
func (m *MockLedgerRepo) GetHold(ctx context.Context, holdID string) (*domain.CreditHold, error) {
	args := m.Called(ctx, holdID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CreditHold), args.Error(1)
}
func (m *MockLedgerRepo) ListEntries(ctx context.Context, accountID string, page, pageSize int32) ([]domain.LedgerEntry, int32, error) {
	args := m.Called(ctx, accountID, page, pageSize)
	return args.Get(0).([]domain.LedgerEntry), args.Get(1).(int32), args.Error(2)
}
func (m *MockLedgerRepo) Hold(ctx context.Context, accountID string, amount int32, reasonRef, description string) (*domain.CreditHold, error) {
	args := m.Called(ctx, accountID, amount, reasonRef, description)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CreditHold), args.Error(1)
}
func (m *MockLedgerRepo) SettleHold(ctx context.Context, holdID string) error {
	args := m.Called(ctx, holdID)
	return args.Error(0)
}
func (m *MockLedgerRepo) ReleaseHold(ctx context.Context, holdID string) error {
	args := m.Called(ctx, holdID)
	return args.Error(0)
}
func (m *MockLedgerRepo) Credit(ctx context.Context, accountID string, amount int32, reasonRef, description string) error {
	args := m.Called(ctx, accountID, amount, reasonRef, description)
	return args.Error(0)
}

// MockRatingRepo
type MockRatingRepo struct {
	mock.Mock
}

func (m *MockRatingRepo) Create(ctx context.Context, rating *domain.Rating) error {
	args := m.Called(ctx, rating)
	return args.Error(0)
}
func (m *MockRatingRepo) Average(ctx context.Context, ratedID string) (*domain.RatingSummary, error) {
	args := m.Called(ctx, ratedID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RatingSummary), args.Error(1)
}
func (m *MockRatingRepo) ListByRated(ctx context.Context, ratedID string, page, pageSize int32) ([]domain.Rating, int32, error) {
	args := m.Called(ctx, ratedID, page, pageSize)
	return args.Get(0).([]domain.Rating), args.Get(1).(int32), args.Error(2)
}

// MockMessageRepo
type MockMessageRepo struct {
	mock.Mock
}

func (m *MockMessageRepo) Create(ctx context.Context, msg *domain.Message) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}
func (m *MockMessageRepo) Thread(ctx context.Context, tripID, userA, userB string) ([]domain.Message, error) {
	args := m.Called(ctx, tripID, userA, userB)
	return args.Get(0).([]domain.Message), args.Error(1)
}
func (m *MockMessageRepo) MarkRead(ctx context.Context, tripID, receiverID string) (int64, error) {
	args := m.Called(ctx, tripID, receiverID)
	return args.Get(0).(int64), args.Error(1)
}
func (m *MockMessageRepo) UnreadCount(ctx context.Context, userID string) (int32, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int32), args.Error(1)
}

// MockProfileProvider
type MockProfileProvider struct {
	mock.Mock
}

func (m *MockProfileProvider) GetProfile(ctx context.Context, userID string) (*domain.Profile, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Profile), args.Error(1)
}

// MockNotifier
type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) Notify(ctx context.Context, userID, event string, payload map[string]string) error {
	args := m.Called(ctx, userID, event, payload)
	return args.Error(0)
}
