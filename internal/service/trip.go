package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"ridepool-backend/internal/config"
	"ridepool-backend/internal/domain"
	"ridepool-backend/internal/logger"
	"ridepool-backend/internal/repository"
)

type tripService struct {
	tripRepo    repository.TripRepository
	bookingRepo repository.BookingRepository
	ledgerRepo  repository.LedgerRepository
	ratingRepo  repository.RatingRepository
	profiles    ProfileProvider
	notifier    Notifier
	policy      config.PolicyConfig
}

func NewTripService(
	tripRepo repository.TripRepository,
	bookingRepo repository.BookingRepository,
	ledgerRepo repository.LedgerRepository,
	ratingRepo repository.RatingRepository,
	profiles ProfileProvider,
	notifier Notifier,
	policy config.PolicyConfig,
) TripService {
	return &tripService{
		tripRepo:    tripRepo,
		bookingRepo: bookingRepo,
		ledgerRepo:  ledgerRepo,
		ratingRepo:  ratingRepo,
		profiles:    profiles,
		notifier:    notifier,
		policy:      policy,
	}
}

func (s *tripService) Publish(ctx context.Context, driverID string, draft domain.TripDraft) (*domain.Trip, error) {
	if err := s.validateDraft(draft); err != nil {
		return nil, err
	}

	trip := &domain.Trip{
		DriverID:          driverID,
		DepartureAddress:  draft.DepartureAddress,
		DepartureCity:     draft.DepartureCity,
		DepartureLat:      draft.DepartureLat,
		DepartureLng:      draft.DepartureLng,
		ArrivalAddress:    draft.ArrivalAddress,
		ArrivalCity:       draft.ArrivalCity,
		ArrivalLat:        draft.ArrivalLat,
		ArrivalLng:        draft.ArrivalLng,
		DepartureTime:     draft.DepartureTime,
		TotalSeats:        draft.TotalSeats,
		AvailableSeats:    draft.TotalSeats,
		PricePerSeatCents: draft.PricePerSeatCents,
		Vehicle:           draft.Vehicle,
		AllowsPets:        draft.AllowsPets,
		AllowsSmoking:     draft.AllowsSmoking,
		AllowsMusic:       draft.AllowsMusic,
		ChatLevel:         draft.ChatLevel,
		MaxTwoBack:        draft.MaxTwoBack,
		LuggageSize:       draft.LuggageSize,
		InstantBooking:    draft.InstantBooking,
		Description:       draft.Description,
		Status:            domain.TripStatusActive,
	}

	// Publication fee and trip creation are all-or-nothing: hold the fee,
	// insert the trip, then settle. A failed insert releases the hold.
	hold, err := s.ledgerRepo.Hold(ctx, driverID, s.policy.PublicationFee, "", "trip publication fee")
	if err != nil {
		return nil, err
	}

	if err := s.tripRepo.Create(ctx, trip); err != nil {
		if relErr := s.ledgerRepo.ReleaseHold(ctx, hold.ID); relErr != nil {
			recErr := &domain.ReconciliationError{Op: "publish_trip", HoldID: hold.ID, Err: relErr}
			logger.ErrorContext(ctx, "failed to release publication fee hold", "hold_id", hold.ID, "error", relErr)
			return nil, recErr
		}
		return nil, err
	}

	if err := s.ledgerRepo.SettleHold(ctx, hold.ID); err != nil {
		recErr := &domain.ReconciliationError{Op: "publish_trip", HoldID: hold.ID, Err: err}
		logger.ErrorContext(ctx, "failed to settle publication fee hold", "hold_id", hold.ID, "trip_id", trip.ID, "error", err)
		return nil, recErr
	}

	logger.InfoContext(ctx, "trip published", "trip_id", trip.ID, "driver_id", driverID, "seats", trip.TotalSeats)
	return trip, nil
}

func (s *tripService) validateDraft(d domain.TripDraft) error {
	if d.DepartureCity == "" {
		return domain.NewValidationError("departure_city", "is required")
	}
	if d.ArrivalCity == "" {
		return domain.NewValidationError("arrival_city", "is required")
	}
	if d.PricePerSeatCents < s.policy.MinPricePerSeatCents {
		return domain.NewValidationError("price_per_seat_cents",
			fmt.Sprintf("must be at least %d", s.policy.MinPricePerSeatCents))
	}
	if d.TotalSeats < 1 || d.TotalSeats > s.policy.MaxSeatsPerTrip {
		return domain.NewValidationError("total_seats",
			fmt.Sprintf("must be between 1 and %d", s.policy.MaxSeatsPerTrip))
	}
	if !d.DepartureTime.After(time.Now()) {
		return domain.NewValidationError("departure_time", "must be in the future")
	}
	return nil
}

func (s *tripService) Search(ctx context.Context, filter domain.TripFilter, page, pageSize int32) ([]domain.TripSearchResult, int32, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	return s.tripRepo.Search(ctx, filter, page, pageSize)
}

func (s *tripService) Get(ctx context.Context, tripID string) (*domain.TripSearchResult, *domain.Profile, error) {
	trip, err := s.tripRepo.GetByID(ctx, tripID)
	if err != nil {
		return nil, nil, err
	}

	res := &domain.TripSearchResult{Trip: *trip}
	if summary, err := s.ratingRepo.Average(ctx, trip.DriverID); err == nil && summary != nil {
		res.DriverRating = &summary.Average
		res.RatingCount = summary.Count
	}

	profile, err := s.profiles.GetProfile(ctx, trip.DriverID)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		logger.WarnContext(ctx, "failed to load driver profile", "driver_id", trip.DriverID, "error", err)
	}
	if profile != nil {
		res.DriverName = profile.Name
	}
	return res, profile, nil
}

func (s *tripService) ListMine(ctx context.Context, driverID string, page, pageSize int32) ([]domain.Trip, int32, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	return s.tripRepo.ListByDriver(ctx, driverID, page, pageSize)
}

// Cancel terminates a trip and unwinds every open booking against it:
// pending holds are released, confirmed fees are refunded as credits.
func (s *tripService) Cancel(ctx context.Context, tripID, driverID string) error {
	trip, err := s.tripRepo.GetByID(ctx, tripID)
	if err != nil {
		return err
	}
	if trip.DriverID != driverID {
		return domain.ErrNotAuthorized
	}
	if trip.Status.Terminal() {
		return domain.ErrInvalidStateTransition
	}

	if err := s.tripRepo.TransitionStatus(ctx, tripID, domain.TripStatusCancelled,
		domain.TripStatusActive, domain.TripStatusFull); err != nil {
		return err
	}

	open, err := s.bookingRepo.ListOpenByTrip(ctx, tripID)
	if err != nil {
		return fmt.Errorf("trip cancelled but open bookings could not be listed: %w", err)
	}

	var firstRec error
	for _, b := range open {
		if err := s.bookingRepo.TransitionStatus(ctx, b.ID, domain.BookingStatusCancelled,
			domain.BookingStatusPending, domain.BookingStatusConfirmed); err != nil {
			logger.ErrorContext(ctx, "failed to cancel booking on trip cancellation", "booking_id", b.ID, "error", err)
			continue
		}

		switch b.Status {
		case domain.BookingStatusPending:
			if b.HoldID != nil {
				if err := s.ledgerRepo.ReleaseHold(ctx, *b.HoldID); err != nil {
					recErr := &domain.ReconciliationError{Op: "cancel_trip", HoldID: *b.HoldID, Err: err}
					logger.ErrorContext(ctx, "failed to release booking hold", "booking_id", b.ID, "error", err)
					if firstRec == nil {
						firstRec = recErr
					}
				}
			}
		case domain.BookingStatusConfirmed:
			// fee was settled at confirmation, refund it outright
			if err := s.ledgerRepo.Credit(ctx, b.PassengerID, b.CreditFee, b.ID, "trip cancelled refund"); err != nil {
				logger.ErrorContext(ctx, "failed to refund confirmed booking", "booking_id", b.ID, "error", err)
				if firstRec == nil {
					firstRec = fmt.Errorf("refund for booking %s failed: %w", b.ID, err)
				}
			}
		}

		_ = s.notifier.Notify(ctx, b.PassengerID, EventTripCancelled, map[string]string{
			"trip_id":    tripID,
			"booking_id": b.ID,
		})
	}

	logger.InfoContext(ctx, "trip cancelled", "trip_id", tripID, "open_bookings", fmt.Sprint(len(open)))
	return firstRec
}

// Complete records the manual completion checkpoint. Only the driver may
// call it, and only once the departure time has passed.
func (s *tripService) Complete(ctx context.Context, tripID, driverID string) error {
	trip, err := s.tripRepo.GetByID(ctx, tripID)
	if err != nil {
		return err
	}
	if trip.DriverID != driverID {
		return domain.ErrNotAuthorized
	}
	if time.Now().Before(trip.DepartureTime) {
		return domain.NewValidationError("departure_time", "trip has not departed yet")
	}
	return s.tripRepo.TransitionStatus(ctx, tripID, domain.TripStatusCompleted,
		domain.TripStatusActive, domain.TripStatusFull)
}
