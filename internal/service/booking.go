package service

import (
	"context"
	"fmt"
	"time"

	"ridepool-backend/internal/config"
	"ridepool-backend/internal/domain"
	"ridepool-backend/internal/logger"
	"ridepool-backend/internal/repository"
)

type bookingService struct {
	bookingRepo repository.BookingRepository
	tripRepo    repository.TripRepository
	ledgerRepo  repository.LedgerRepository
	notifier    Notifier
	policy      config.PolicyConfig
	now         func() time.Time
}

func NewBookingService(
	bookingRepo repository.BookingRepository,
	tripRepo repository.TripRepository,
	ledgerRepo repository.LedgerRepository,
	notifier Notifier,
	policy config.PolicyConfig,
) BookingService {
	return &bookingService{
		bookingRepo: bookingRepo,
		tripRepo:    tripRepo,
		ledgerRepo:  ledgerRepo,
		notifier:    notifier,
		policy:      policy,
		now:         time.Now,
	}
}

// Request runs the hold -> reserve -> insert pipeline. Seats are deducted
// at request time even for bookings awaiting driver confirmation, so a
// deliberating driver can never cause an over-booking. Any failure after the
// hold compensates by releasing it; a failed compensation surfaces as a
// reconciliation error, never silently.
func (s *bookingService) Request(ctx context.Context, passengerID, tripID string, seats int32, message string) (*domain.Booking, error) {
	if seats < 1 {
		return nil, domain.NewValidationError("seats", "must be at least 1")
	}

	trip, err := s.tripRepo.GetByID(ctx, tripID)
	if err != nil {
		return nil, err
	}
	if trip.DriverID == passengerID {
		return nil, domain.NewValidationError("passenger_id", "driver cannot book their own trip")
	}
	if trip.Status != domain.TripStatusActive {
		return nil, domain.ErrTripNotActive
	}
	if !trip.InstantBooking && len([]rune(message)) < s.policy.MinMessageLength {
		return nil, domain.NewValidationError("message",
			fmt.Sprintf("must be at least %d characters", s.policy.MinMessageLength))
	}

	hold, err := s.ledgerRepo.Hold(ctx, passengerID, s.policy.BookingFee, tripID, "booking fee")
	if err != nil {
		return nil, err
	}

	if err := s.tripRepo.ReserveSeats(ctx, tripID, seats); err != nil {
		if relErr := s.ledgerRepo.ReleaseHold(ctx, hold.ID); relErr != nil {
			recErr := &domain.ReconciliationError{Op: "request_booking", HoldID: hold.ID, Err: relErr}
			logger.ErrorContext(ctx, "failed to release booking fee hold after seat refusal",
				"hold_id", hold.ID, "trip_id", tripID, "error", relErr)
			return nil, recErr
		}
		return nil, err
	}

	status := domain.BookingStatusPending
	if trip.InstantBooking {
		status = domain.BookingStatusConfirmed
	}

	booking := &domain.Booking{
		TripID:          tripID,
		PassengerID:     passengerID,
		Seats:           seats,
		TotalPriceCents: seats * trip.PricePerSeatCents,
		CreditFee:       s.policy.BookingFee,
		HoldID:          &hold.ID,
		Message:         message,
		Status:          status,
	}

	if err := s.bookingRepo.Create(ctx, booking); err != nil {
		// unwind both the seats and the hold
		if relErr := s.tripRepo.ReleaseSeats(ctx, tripID, seats); relErr != nil {
			recErr := &domain.ReconciliationError{Op: "request_booking", HoldID: hold.ID, Err: relErr}
			logger.ErrorContext(ctx, "failed to return seats after booking insert failure",
				"trip_id", tripID, "seats", seats, "error", relErr)
			return nil, recErr
		}
		if relErr := s.ledgerRepo.ReleaseHold(ctx, hold.ID); relErr != nil {
			recErr := &domain.ReconciliationError{Op: "request_booking", HoldID: hold.ID, Err: relErr}
			logger.ErrorContext(ctx, "failed to release hold after booking insert failure",
				"hold_id", hold.ID, "error", relErr)
			return nil, recErr
		}
		return nil, err
	}

	// instant bookings settle the fee immediately; there is no driver review
	if status == domain.BookingStatusConfirmed {
		if err := s.ledgerRepo.SettleHold(ctx, hold.ID); err != nil {
			recErr := &domain.ReconciliationError{Op: "request_booking", HoldID: hold.ID, Err: err}
			logger.ErrorContext(ctx, "failed to settle instant booking fee", "booking_id", booking.ID, "error", err)
			return nil, recErr
		}
	}

	_ = s.notifier.Notify(ctx, trip.DriverID, EventBookingRequested, map[string]string{
		"trip_id":    tripID,
		"booking_id": booking.ID,
		"seats":      fmt.Sprint(seats),
	})

	logger.InfoContext(ctx, "booking requested",
		"booking_id", booking.ID, "trip_id", tripID, "passenger_id", passengerID, "status", string(status))
	return booking, nil
}

func (s *bookingService) Confirm(ctx context.Context, bookingID, driverID string) error {
	booking, _, err := s.loadForDriver(ctx, bookingID, driverID)
	if err != nil {
		return err
	}

	if err := s.bookingRepo.TransitionStatus(ctx, bookingID, domain.BookingStatusConfirmed,
		domain.BookingStatusPending); err != nil {
		return err
	}

	// the fee becomes a permanent debit; seats stay reserved
	if booking.HoldID != nil {
		if err := s.ledgerRepo.SettleHold(ctx, *booking.HoldID); err != nil {
			recErr := &domain.ReconciliationError{Op: "confirm_booking", HoldID: *booking.HoldID, Err: err}
			logger.ErrorContext(ctx, "failed to settle booking fee on confirmation", "booking_id", bookingID, "error", err)
			return recErr
		}
	}

	_ = s.notifier.Notify(ctx, booking.PassengerID, EventBookingConfirmed, map[string]string{
		"trip_id":    booking.TripID,
		"booking_id": bookingID,
	})

	logger.InfoContext(ctx, "booking confirmed", "booking_id", bookingID, "driver_id", driverID)
	return nil
}

func (s *bookingService) Reject(ctx context.Context, bookingID, driverID string) error {
	booking, _, err := s.loadForDriver(ctx, bookingID, driverID)
	if err != nil {
		return err
	}

	if err := s.bookingRepo.TransitionStatus(ctx, bookingID, domain.BookingStatusRejected,
		domain.BookingStatusPending); err != nil {
		return err
	}

	if err := s.tripRepo.ReleaseSeats(ctx, booking.TripID, booking.Seats); err != nil {
		recErr := &domain.ReconciliationError{Op: "reject_booking", HoldID: deref(booking.HoldID), Err: err}
		logger.ErrorContext(ctx, "failed to return seats on rejection", "booking_id", bookingID, "error", err)
		return recErr
	}

	if booking.HoldID != nil {
		if err := s.ledgerRepo.ReleaseHold(ctx, *booking.HoldID); err != nil {
			recErr := &domain.ReconciliationError{Op: "reject_booking", HoldID: *booking.HoldID, Err: err}
			logger.ErrorContext(ctx, "failed to release booking fee on rejection", "booking_id", bookingID, "error", err)
			return recErr
		}
	}

	_ = s.notifier.Notify(ctx, booking.PassengerID, EventBookingRejected, map[string]string{
		"trip_id":    booking.TripID,
		"booking_id": bookingID,
	})

	logger.InfoContext(ctx, "booking rejected", "booking_id", bookingID, "driver_id", driverID)
	return nil
}

// Cancel is allowed for the passenger or the trip's driver. Seats always go
// back to the trip; the escrowed fee is released unless the cancellation
// lands inside the refund threshold and the forfeiture policy is on.
func (s *bookingService) Cancel(ctx context.Context, bookingID, actorID string) error {
	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return err
	}
	trip, err := s.tripRepo.GetByID(ctx, booking.TripID)
	if err != nil {
		return err
	}
	if actorID != booking.PassengerID && actorID != trip.DriverID {
		return domain.ErrNotAuthorized
	}
	if booking.Status.Terminal() {
		return domain.ErrInvalidStateTransition
	}

	if err := s.bookingRepo.TransitionStatus(ctx, bookingID, domain.BookingStatusCancelled,
		domain.BookingStatusPending, domain.BookingStatusConfirmed); err != nil {
		return err
	}

	if !trip.Status.Terminal() {
		if err := s.tripRepo.ReleaseSeats(ctx, booking.TripID, booking.Seats); err != nil {
			recErr := &domain.ReconciliationError{Op: "cancel_booking", HoldID: deref(booking.HoldID), Err: err}
			logger.ErrorContext(ctx, "failed to return seats on cancellation", "booking_id", bookingID, "error", err)
			return recErr
		}
	}

	if booking.HoldID != nil && booking.Status == domain.BookingStatusPending {
		forfeit := s.policy.ForfeitWithinThreshold && s.withinThreshold(trip.DepartureTime)
		var ledgerErr error
		if forfeit {
			ledgerErr = s.ledgerRepo.SettleHold(ctx, *booking.HoldID)
		} else {
			ledgerErr = s.ledgerRepo.ReleaseHold(ctx, *booking.HoldID)
		}
		if ledgerErr != nil {
			recErr := &domain.ReconciliationError{Op: "cancel_booking", HoldID: *booking.HoldID, Err: ledgerErr}
			logger.ErrorContext(ctx, "failed to unwind booking fee on cancellation",
				"booking_id", bookingID, "forfeit", forfeit, "error", ledgerErr)
			return recErr
		}
	} else if booking.Status == domain.BookingStatusConfirmed {
		// fee already settled at confirmation; refund unless forfeited
		if !(s.policy.ForfeitWithinThreshold && s.withinThreshold(trip.DepartureTime)) {
			if err := s.ledgerRepo.Credit(ctx, booking.PassengerID, booking.CreditFee, bookingID, "booking cancelled refund"); err != nil {
				recErr := &domain.ReconciliationError{Op: "cancel_booking", HoldID: deref(booking.HoldID), Err: err}
				logger.ErrorContext(ctx, "failed to refund cancelled booking", "booking_id", bookingID, "error", err)
				return recErr
			}
		}
	}

	counterparty := trip.DriverID
	if actorID == trip.DriverID {
		counterparty = booking.PassengerID
	}
	_ = s.notifier.Notify(ctx, counterparty, EventBookingCancelled, map[string]string{
		"trip_id":    booking.TripID,
		"booking_id": bookingID,
	})

	logger.InfoContext(ctx, "booking cancelled", "booking_id", bookingID, "actor_id", actorID)
	return nil
}

func (s *bookingService) Get(ctx context.Context, bookingID, actorID string) (*domain.Booking, error) {
	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.PassengerID == actorID {
		return booking, nil
	}
	trip, err := s.tripRepo.GetByID(ctx, booking.TripID)
	if err != nil {
		return nil, err
	}
	if trip.DriverID != actorID {
		return nil, domain.ErrNotAuthorized
	}
	return booking, nil
}

func (s *bookingService) ListForPassenger(ctx context.Context, passengerID string, page, pageSize int32) ([]domain.Booking, int32, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	return s.bookingRepo.ListByPassenger(ctx, passengerID, page, pageSize)
}

func (s *bookingService) ListForDriver(ctx context.Context, driverID string, page, pageSize int32) ([]domain.Booking, int32, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	return s.bookingRepo.ListByDriver(ctx, driverID, page, pageSize)
}

func (s *bookingService) loadForDriver(ctx context.Context, bookingID, driverID string) (*domain.Booking, *domain.Trip, error) {
	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, nil, err
	}
	trip, err := s.tripRepo.GetByID(ctx, booking.TripID)
	if err != nil {
		return nil, nil, err
	}
	if trip.DriverID != driverID {
		return nil, nil, domain.ErrNotAuthorized
	}
	return booking, trip, nil
}

func (s *bookingService) withinThreshold(departure time.Time) bool {
	return departure.Sub(s.now()) < time.Duration(s.policy.CancelRefundThresholdHours)*time.Hour
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
