package postgres

import (
	"database/sql"

	"ridepool-backend/internal/repository"

	_ "github.com/lib/pq"
)

type Store struct {
	db *sql.DB
	repository.TripRepository
	repository.BookingRepository
	repository.LedgerRepository
	repository.MessageRepository
	repository.RatingRepository
	repository.ProfileRepository
}

func NewStore(db *sql.DB) *Store {
	return &Store{
		db:                db,
		TripRepository:    NewTripRepository(db),
		BookingRepository: NewBookingRepository(db),
		LedgerRepository:  NewLedgerRepository(db),
		MessageRepository: NewMessageRepository(db),
		RatingRepository:  NewRatingRepository(db),
		ProfileRepository: NewProfileRepository(db),
	}
}
