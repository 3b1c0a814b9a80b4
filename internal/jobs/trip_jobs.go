package jobs

import (
	"context"
	"time"

	"ridepool-backend/internal/domain"
	"ridepool-backend/internal/logger"
)

// CompleteDepartedTrips marks active and full trips as completed once their
// departure time is further in the past than the completion grace period.
// Drivers can complete earlier by hand; this picks up the ones who forget.
func (jr *JobRunner) CompleteDepartedTrips() {
	jr.runWithRecovery("CompleteDepartedTrips", func() {
		ctx := context.Background()

		grace := time.Duration(jr.config.Scheduler.CompletionGraceHours) * time.Hour
		cutoff := time.Now().UTC().Add(-grace)

		ids, err := jr.store.TripRepository.CompleteDeparted(ctx, cutoff)
		if err != nil {
			logger.Error("Failed to complete departed trips", "error", err)
			return
		}

		logger.Info("Completed departed trips", "count", len(ids))
		for _, id := range ids {
			logger.Debug("Marked trip as completed", "trip_id", id)
		}
	})
}

// ExpireStaleBookings cancels booking requests still pending after the trip
// has departed, returns the booked seats to the trip, and releases the
// passenger's held credits. The driver never answered, so the passenger
// pays nothing.
func (jr *JobRunner) ExpireStaleBookings() {
	jr.runWithRecovery("ExpireStaleBookings", func() {
		ctx := context.Background()

		stale, err := jr.store.BookingRepository.ListPendingDeparted(ctx, time.Now().UTC())
		if err != nil {
			logger.Error("Failed to list stale bookings", "error", err)
			return
		}

		expired := 0
		for _, booking := range stale {
			err := jr.store.BookingRepository.TransitionStatus(ctx, booking.ID,
				domain.BookingStatusCancelled, domain.BookingStatusPending)
			if err != nil {
				logger.Error("Failed to expire booking",
					"booking_id", booking.ID, "error", err)
				continue
			}

			trip, err := jr.store.TripRepository.GetByID(ctx, booking.TripID)
			if err != nil {
				logger.Error("Failed to load trip for expired booking",
					"booking_id", booking.ID, "trip_id", booking.TripID, "error", err)
				continue
			}
			if !trip.Status.Terminal() {
				if err := jr.store.TripRepository.ReleaseSeats(ctx, booking.TripID, booking.Seats); err != nil {
					logger.Error("Failed to return seats for expired booking",
						"booking_id", booking.ID, "trip_id", booking.TripID, "error", err)
					continue
				}
			}

			if booking.HoldID != nil {
				if err := jr.store.LedgerRepository.ReleaseHold(ctx, *booking.HoldID); err != nil {
					logger.Error("Failed to release hold for expired booking",
						"booking_id", booking.ID, "hold_id", *booking.HoldID, "error", err)
					continue
				}
			}
			expired++

			logger.Debug("Expired stale booking",
				"booking_id", booking.ID,
				"trip_id", booking.TripID,
				"passenger_id", booking.PassengerID)
		}

		logger.Info("Expired stale bookings", "count", expired, "candidates", len(stale))
	})
}
